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

package sampler

import (
	"math/rand"

	"github.com/0xsoniclabs/statfeed/config"
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/0xsoniclabs/statfeed/stochastic/visualizer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

// VisualizeCommand serves charts of a simulated sampler.
var VisualizeCommand = cli.Command{
	Action: visualizeAction,
	Name:   "visualize",
	Usage:  "serves charts of the sampler state and its selections",
	Flags: []cli.Flag{
		&config.CountFlag,
		&config.ExponentFlag,
		&config.RandomSeedFlag,
		&config.StepsFlag,
		&config.LambdaFlag,
		&config.StatsFlag,
		&config.DbFlag,
		&config.PortFlag,
		&config.ConfigFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The visualize command simulates --steps queries and serves the resulting
counts, weights and selection statistics on --port. Recorded statistics of
an earlier run can be shown instead with --stats, and the selection history
recorded with --db is shown on its own page.`,
}

func visualizeAction(ctx *cli.Context) error {
	cfg, err := config.NewConfig(ctx, config.NoArgs)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Statfeed Visualize")

	registry := prometheus.NewRegistry()
	metrics := host.NewMetrics(registry)

	rg := cfg.NewRand()
	engine, err := statfeed.New(cfg.Count, cfg.Exponent, rg, log)
	if err != nil {
		return err
	}
	stats := recorder.NewStats()
	object := host.NewObject(engine, discardOutlets{}, log, metrics).AddObserver(stats)
	if err := simulate(object, newQueries(rand.New(rand.NewSource(rg.Int63())), cfg.Lambda), cfg.Steps, nil); err != nil {
		return err
	}

	js := stats.JSON()
	recorded := &js
	if cfg.Stats != "" {
		log.Noticef("Load stats file %v", cfg.Stats)
		recorded, err = recorder.Read(cfg.Stats)
		if err != nil {
			return err
		}
	}
	view, err := visualizer.NewView(engine.Snapshot(), recorded)
	if err != nil {
		return err
	}
	if cfg.Db != "" {
		log.Noticef("Load selection history %v", cfg.Db)
		rows, err := recorder.LoadHistory(cfg.Db)
		if err != nil {
			return err
		}
		view.WithHistory(rows)
	}

	log.Noticef("Serving on http://localhost:%v", cfg.Port)
	return visualizer.FireUpWeb(view, cfg.Port, registry)
}
