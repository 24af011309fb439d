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

package visualizer

import (
	"sync"

	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/0xsoniclabs/statfeed/stochastic/statistics/discrete"
	"github.com/cockroachdb/errors"
)

// View is the data model of the rendered pages: the state of an engine and,
// optionally, the statistics and the history of recorded selections.
type View struct {
	Snapshot statfeed.Snapshot
	Stats    *recorder.StatsJSON
	History  []recorder.Row

	pmf        []float64 // selection probabilities of the next sample
	observed   []float64 // observed selection probabilities per label
	stationary []float64 // stationary distribution of the observed transitions
}

// NewView derives the data model from an engine snapshot and recorded stats.
// stats may be nil.
func NewView(snapshot statfeed.Snapshot, stats *recorder.StatsJSON) (*View, error) {
	pmf, err := discrete.Normalize(snapshot.Weights)
	if err != nil {
		return nil, errors.Wrap(err, "visualizer: selection probabilities")
	}
	v := &View{Snapshot: snapshot, Stats: stats, pmf: pmf}
	if stats == nil || len(stats.Labels) == 0 {
		return v, nil
	}
	mc, err := stats.Chain()
	if err != nil {
		return nil, errors.Wrap(err, "visualizer: create markov chain")
	}
	v.stationary, err = mc.Stationary()
	if err != nil {
		return nil, errors.Wrap(err, "visualizer: stationary distribution")
	}
	v.observed = stats.Probabilities()
	return v, nil
}

// WithHistory attaches recorded selections to the view.
func (v *View) WithHistory(rows []recorder.Row) *View {
	v.History = rows
	return v
}

var (
	currentMu   sync.RWMutex
	currentView *View
)

func setView(v *View) error {
	if v == nil {
		return errors.New("visualizer: view is nil")
	}
	currentMu.Lock()
	currentView = v
	currentMu.Unlock()
	return nil
}

func getView() (*View, error) {
	currentMu.RLock()
	defer currentMu.RUnlock()
	if currentView == nil {
		return nil, errors.New("visualizer: statistics not initialised")
	}
	return currentView, nil
}

func getStats() (*View, error) {
	v, err := getView()
	if err != nil {
		return nil, err
	}
	if v.Stats == nil || len(v.Stats.Labels) == 0 {
		return nil, errors.New("visualizer: no recorded selections")
	}
	return v, nil
}

func getHistory() (*View, error) {
	v, err := getView()
	if err != nil {
		return nil, err
	}
	if len(v.History) == 0 {
		return nil, errors.New("visualizer: no selection history")
	}
	return v, nil
}
