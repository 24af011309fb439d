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
	"io"
	"time"

	"github.com/0xsoniclabs/statfeed/config"
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/0xsoniclabs/statfeed/tracer"
	"github.com/0xsoniclabs/statfeed/utils"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
)

// ReplayCommand feeds a message trace into a sampler.
var ReplayCommand = cli.Command{
	Action:    replayAction,
	Name:      "replay",
	Usage:     "replays a message trace through an adaptive sampler",
	ArgsUsage: "<trace>",
	Flags: []cli.Flag{
		&config.CountFlag,
		&config.ExponentFlag,
		&config.RandomSeedFlag,
		&config.OutputFlag,
		&config.DbFlag,
		&config.StatsFlag,
		&config.ConfigFlag,
		&logger.LogLevelFlag,
	},
	Description: `
The replay command requires one argument:
<trace>

<trace> is a text file, optionally gzip compressed, with one message per
line, e.g. "float 0.25;" or "in_elems 12;". The outlets are printed to the
console and to the --output file. Messages rejected by the sampler are
reported and skipped; a malformed trace aborts the replay.`,
}

// replayAction dispatches all messages of a trace file.
func replayAction(ctx *cli.Context) (err error) {
	cfg, err := config.NewConfig(ctx, config.PathArg)
	if err != nil {
		return err
	}
	log := logger.NewLogger(cfg.LogLevel, "Statfeed Replay")

	engine, err := statfeed.New(cfg.Count, cfg.Exponent, cfg.NewRand(), log)
	if err != nil {
		return err
	}
	out := &textOutlets{}
	stats := recorder.NewStats()
	object := host.NewObject(engine, out, log, nil).AddObserver(stats)

	printers := utils.NewPrinters().
		AddPrinterToWriter(ctx.App.Writer, out.Text).
		AddPrinterToFile(cfg.Output, out.Text)
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

	reader, err := tracer.NewFileReader(cfg.Input)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, reader.Close())
	}()

	start := time.Now()
	var messages, rejected int
	for {
		msg, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		messages++
		if err := object.Dispatch(msg); err != nil {
			rejected++
			log.Errorf("line %d: %v", reader.Line(), err)
			continue
		}
		if err := printers.Print(); err != nil {
			return err
		}
		out.Reset()
	}
	hours, minutes, seconds := logger.ParseTime(time.Since(start))
	log.Noticef("Replayed %v messages (%v rejected), total elapsed time: %vh %vm %vs",
		utils.FormatNumber(messages), utils.FormatNumber(rejected), hours, minutes, seconds)

	if cfg.Stats != "" {
		log.Noticef("Write stats file %v", cfg.Stats)
		if err := stats.Write(cfg.Stats); err != nil {
			return err
		}
	}
	return nil
}
