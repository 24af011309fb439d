// Copyright 2025 Sonic Labs
// This file is part of Aida Testing Infrastructure for Sonic
//
// Aida is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Aida is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Aida. If not, see <http://www.gnu.org/licenses/>.

package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "statfeed"

// Metrics are the prometheus collectors of a host object.
type Metrics struct {
	Samples       prometheus.Counter
	RangeWarnings prometheus.Counter
	Rejected      prometheus.Counter
	BulkLoads     *prometheus.CounterVec
	ActiveCount   prometheus.Gauge
	Exponent      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "samples_total",
			Help:      "The number of sampled queries.",
		}),
		RangeWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "range_warnings_total",
			Help:      "The number of queries outside of [0,1].",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "host",
			Name:      "rejected_messages_total",
			Help:      "The number of messages rejected by the engine.",
		}),
		BulkLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "bulk_loads_total",
			Help:      "The number of bulk loads of counts.",
		}, []string{"mode"}), // modes: reset, randomize, sequence
		ActiveCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "active_count",
			Help:      "The number of active items.",
		}),
		Exponent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "engine",
			Name:      "exponent",
			Help:      "The shaping exponent.",
		}),
	}
	reg.MustRegister(m.Samples, m.RangeWarnings, m.Rejected, m.BulkLoads, m.ActiveCount, m.Exponent)
	return m
}
