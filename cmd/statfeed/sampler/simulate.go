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
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/0xsoniclabs/statfeed/config"
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/0xsoniclabs/statfeed/stochastic/statistics/exponential"
	"github.com/0xsoniclabs/statfeed/tracer"
	"github.com/0xsoniclabs/statfeed/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// SimulateCommand drives a sampler with uniformly distributed queries.
var SimulateCommand = cli.Command{
	Action: simulateAction,
	Name:   "simulate",
	Usage:  "samples generated queries and summarises the selections",
	Flags: []cli.Flag{
		&config.CountFlag,
		&config.ExponentFlag,
		&config.RandomSeedFlag,
		&config.StepsFlag,
		&config.LambdaFlag,
		&config.OutputFlag,
		&config.CompressFlag,
		&config.DbFlag,
		&config.StatsFlag,
		&config.ConfigFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The simulate command samples --steps queries and prints the final state of
the sampler together with a summary of the selections. Queries are uniform
in [0,1], or follow a truncated exponential distribution if --lambda is not
zero. The generated queries can be written as a replayable trace with
--output.`,
}

func simulateAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx, config.NoArgs)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Statfeed Simulate")

	rg := cfg.NewRand()
	engine, err := statfeed.New(cfg.Count, cfg.Exponent, rg, log)
	if err != nil {
		return err
	}
	stats := recorder.NewStats()
	object := host.NewObject(engine, discardOutlets{}, log, nil).AddObserver(stats)

	printers := utils.NewPrinters()
	history, hp, err := newHistory(cfg.Db)
	if err != nil {
		return err
	}
	if history != nil {
		object.AddObserver(history)
		printers.AddPrinter(hp)
	}
	defer func() {
		err = errors.Join(err, printers.Close())
	}()

	var trace tracer.FileWriter
	if cfg.Output != "" {
		trace, err = tracer.NewFileWriter(cfg.Output, cfg.Compress)
		if err != nil {
			return err
		}
		defer func() {
			err = errors.Join(err, trace.Close())
		}()
	}

	log.Infof("Simulate %v queries", utils.FormatNumber(cfg.Steps))
	start := time.Now()
	queries := newQueries(rand.New(rand.NewSource(rg.Int63())), cfg.Lambda)
	var querySum float64
	err = simulate(object, queries, cfg.Steps, func(msg host.Message) error {
		querySum += msg.Args[0]
		if trace != nil {
			if err := trace.Write(msg); err != nil {
				return err
			}
		}
		return printers.Print()
	})
	if err != nil {
		return err
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Noticef("Total elapsed time: %vh %vm %vs", hours, minutes, seconds)

	js := stats.JSON()
	snapshot := engine.Snapshot()
	pmf, err := engine.PMF()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(ctx.App.Writer, utils.FormatEntries("Sampler State",
		[]string{"Count", "Weight", "Probability", "Observed"},
		snapshot.Counts, snapshot.Weights, pmf, observedByIndex(js, snapshot.Count)))
	_, _ = fmt.Fprintln(ctx.App.Writer, formatSummary(js, snapshot.Count, querySum/float64(cfg.Steps)))

	if cfg.Stats != "" {
		log.Noticef("Write stats file %v", cfg.Stats)
		if err := stats.Write(cfg.Stats); err != nil {
			return err
		}
	}
	return nil
}

// observedByIndex returns the observed selection frequency of the first n
// indices.
func observedByIndex(js recorder.StatsJSON, n int) []float64 {
	observed := make([]float64, n)
	for i, p := range js.Probabilities() {
		index, err := strconv.Atoi(js.Labels[i])
		if err != nil || index < 0 || index >= n {
			continue
		}
		observed[index] = p
	}
	return observed
}

func formatSummary(js recorder.StatsJSON, count int, queryMean float64) string {
	fitted := "n/a"
	if lambda, err := exponential.ApproximateLambda(queryMean); err == nil {
		fitted = fmt.Sprintf("%.4f", lambda)
	}
	return utils.FormatSummary("Summary", [][2]string{
		{"Selections", utils.FormatNumber(js.Steps)},
		{"Range warnings", utils.FormatNumber(js.RangeWarnings)},
		{"Selected items", utils.FormatNumber(len(js.Labels))},
		{"Entropy (nats)", fmt.Sprintf("%.4f", js.Entropy())},
		{"Uniform entropy (nats)", fmt.Sprintf("%.4f", math.Log(float64(count)))},
		{"Max gap", utils.FormatNumber(js.MaxGap)},
		{"Mean gap", fmt.Sprintf("%.2f", js.MeanGap)},
		{"Mean query", fmt.Sprintf("%.4f", queryMean)},
		{"Fitted lambda", fitted},
	})
}
