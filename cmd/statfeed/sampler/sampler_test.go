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
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xsoniclabs/statfeed/config"
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/host"
	"github.com/0xsoniclabs/statfeed/stochastic/recorder"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/0xsoniclabs/statfeed/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testTrace = `# four items
in_elems 4;
float 0.1;
float 0.9;
counts_out;
in_elems 0;
float 1.5;
`

// newTestApp returns an app running cmd whose output is captured in the
// returned buffer.
func newTestApp(cmd *cli.Command) (*cli.App, *bytes.Buffer) {
	var buf bytes.Buffer
	app := cli.NewApp()
	app.Writer = &buf
	app.Commands = []*cli.Command{cmd}
	return app, &buf
}

func writeTrace(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "trace.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestCmd_Replay(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "out.txt")
	stats := filepath.Join(dir, "stats.json")
	db := filepath.Join(dir, "history.db")

	app, buf := newTestApp(&ReplayCommand)
	args := utils.NewArgs("statfeed", ReplayCommand.Name).
		Flag(config.CountFlag.Name, 4).
		Flag(config.OutputFlag.Name, output).
		Flag(config.StatsFlag.Name, stats).
		Flag(config.DbFlag.Name, db).
		Flag(logger.LogLevelFlag.Name, "critical").
		Arg(writeTrace(t, testTrace)).
		Build()
	require.NoError(t, app.Run(args))

	want := "index 0\nindex 3\nlist 1 3 3 0\nindex 3\n"
	assert.Equal(t, want, buf.String())
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, want, string(data))

	js, err := recorder.Read(stats)
	require.NoError(t, err)
	assert.Equal(t, int64(3), js.Steps)
	assert.Equal(t, uint64(1), js.RangeWarnings)
	assert.Equal(t, []string{"0", "3"}, js.Labels)

	rows, err := recorder.LoadHistory(db)
	require.NoError(t, err)
	assert.Equal(t, []recorder.Row{
		{Step: 0, Query: 0.1, Selected: 0},
		{Step: 1, Query: 0.9, Selected: 3},
		{Step: 2, Query: 1.5, Selected: 3},
	}, rows)
}

func TestCmd_ReplayRequiresTrace(t *testing.T) {
	app, _ := newTestApp(&ReplayCommand)
	err := app.Run(utils.NewArgs("statfeed", ReplayCommand.Name).Build())
	assert.ErrorContains(t, err, "exactly one path argument")

	err = app.Run(utils.NewArgs("statfeed", ReplayCommand.Name).Arg(filepath.Join(t.TempDir(), "missing.txt")).Build())
	assert.ErrorContains(t, err, "does it exist?")
}

func TestCmd_ReplayAbortsOnMalformedTrace(t *testing.T) {
	app, buf := newTestApp(&ReplayCommand)
	args := utils.NewArgs("statfeed", ReplayCommand.Name).
		Flag(logger.LogLevelFlag.Name, "critical").
		Arg(writeTrace(t, "float 0.5;\nbogus 1;\nfloat 0.5;\n")).
		Build()
	err := app.Run(args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, "index 0\n", buf.String())
}

func TestCmd_Simulate(t *testing.T) {
	dir := t.TempDir()
	trace := filepath.Join(dir, "trace.gz")
	stats := filepath.Join(dir, "stats.json")
	db := filepath.Join(dir, "simulate.db")

	app, buf := newTestApp(&SimulateCommand)
	args := utils.NewArgs("statfeed", SimulateCommand.Name).
		Flag(config.CountFlag.Name, 5).
		Flag(config.ExponentFlag.Name, 2.0).
		Flag(config.RandomSeedFlag.Name, int64(7)).
		Flag(config.StepsFlag.Name, 1500).
		Flag(config.LambdaFlag.Name, 2.0).
		Flag(config.OutputFlag.Name, trace).
		Flag(config.CompressFlag.Name, true).
		Flag(config.StatsFlag.Name, stats).
		Flag(config.DbFlag.Name, db).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()
	require.NoError(t, app.Run(args))

	out := buf.String()
	assert.Contains(t, out, "Sampler State")
	assert.Contains(t, out, "PROBABILITY")
	assert.Contains(t, out, "Summary")
	assert.Contains(t, out, "1,500")
	assert.Contains(t, out, "Fitted lambda")

	js, err := recorder.Read(stats)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), js.Steps)
	assert.Len(t, js.Labels, 5)

	simulated, err := recorder.LoadHistory(db)
	require.NoError(t, err)
	require.Len(t, simulated, 1500)

	// the sampling is deterministic given the queries, so replaying the
	// trace reproduces the simulated selections
	replayDb := filepath.Join(dir, "replay.db")
	app, _ = newTestApp(&ReplayCommand)
	args = utils.NewArgs("statfeed", ReplayCommand.Name).
		Flag(config.CountFlag.Name, 5).
		Flag(config.ExponentFlag.Name, 2.0).
		Flag(config.DbFlag.Name, replayDb).
		Flag(logger.LogLevelFlag.Name, "critical").
		Arg(trace).
		Build()
	require.NoError(t, app.Run(args))
	replayed, err := recorder.LoadHistory(replayDb)
	require.NoError(t, err)
	assert.Equal(t, simulated, replayed)
}

func TestCmd_SimulateRejectsInvalidConfig(t *testing.T) {
	app, _ := newTestApp(&SimulateCommand)
	err := app.Run(utils.NewArgs("statfeed", SimulateCommand.Name).Flag(config.CountFlag.Name, 0).Build())
	assert.ErrorContains(t, err, "count (0)")
}

func TestCmd_SimulateRefusesExistingTrace(t *testing.T) {
	trace := writeTrace(t, "float 0.5;\n")
	app, _ := newTestApp(&SimulateCommand)
	args := utils.NewArgs("statfeed", SimulateCommand.Name).
		Flag(config.OutputFlag.Name, trace).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()
	assert.ErrorContains(t, app.Run(args), "already exists")
}

func TestSampler_textOutlets(t *testing.T) {
	out := &textOutlets{}
	assert.Equal(t, "", out.Text())
	out.Index(2)
	out.List([]float64{1, 0.5})
	assert.Equal(t, "index 2\nlist 1 0.5", out.Text())
	out.Reset()
	assert.Equal(t, "", out.Text())
}

func TestSampler_simulate(t *testing.T) {
	engine, err := statfeed.New(3, 1, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	stats := recorder.NewStats()
	object := host.NewObject(engine, discardOutlets{}, logger.NewLogger("critical", "test"), nil).AddObserver(stats)

	var messages []host.Message
	err = simulate(object, newQueries(rand.New(rand.NewSource(2)), 0), 20, func(msg host.Message) error {
		messages = append(messages, msg)
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, messages, 20)
	assert.Equal(t, int64(20), stats.JSON().Steps)

	require.NoError(t, simulate(object, newQueries(rand.New(rand.NewSource(2)), 3), 5, nil))
	assert.Equal(t, int64(25), stats.JSON().Steps)
}

func TestSampler_newQueriesSkew(t *testing.T) {
	next := newQueries(rand.New(rand.NewSource(5)), 4)
	below := 0
	for range 1000 {
		q := next()
		require.GreaterOrEqual(t, q, 0.0)
		require.LessOrEqual(t, q, 1.0)
		if q < 0.5 {
			below++
		}
	}
	// CDF(4, 0.5) is about 0.88
	assert.Greater(t, below, 800)
}

func TestSampler_observedByIndex(t *testing.T) {
	js := recorder.StatsJSON{
		Labels:    []string{"0", "2", "7"},
		Frequency: []uint64{1, 3, 4},
	}
	assert.Equal(t, []float64{0.125, 0, 0.375}, observedByIndex(js, 3))
}

func TestSampler_newHistoryWithoutDatabase(t *testing.T) {
	history, printer, err := newHistory("")
	require.NoError(t, err)
	assert.Nil(t, history)
	assert.Nil(t, printer)
}

func TestSampler_newHistoryDrainsEverySelection(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	history, printer, err := newHistory(db)
	require.NoError(t, err)
	require.NotNil(t, history)

	engine, err := statfeed.New(4, 1, rand.New(rand.NewSource(1)), nil)
	require.NoError(t, err)
	object := host.NewObject(engine, discardOutlets{}, logger.NewLogger("critical", "test"), nil).AddObserver(history)
	err = simulate(object, newQueries(rand.New(rand.NewSource(2)), 0), 2500, func(host.Message) error {
		return printer.Print()
	})
	require.NoError(t, err)
	// selections are moved to the printer's batch right away
	assert.Empty(t, history.Drain())
	require.NoError(t, printer.Close())

	rows, err := recorder.LoadHistory(db)
	require.NoError(t, err)
	assert.Len(t, rows, 2500)
}
