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
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/0xsoniclabs/statfeed/config"
	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getWithRetry polls url until the server answers or the timeout expires.
func getWithRetry(t *testing.T, url string, errChan <-chan error) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client := &http.Client{Timeout: 2 * time.Second}
	for {
		select {
		case <-ctx.Done():
			t.Fatal("Test timeout reached while waiting for server to start")
		case err := <-errChan:
			t.Fatalf("Server failed to start: %v", err)
		default:
		}
		resp, err := client.Get(url)
		if err != nil {
			time.Sleep(200 * time.Millisecond)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return string(body)
	}
}

func TestCmd_Visualize(t *testing.T) {
	db := filepath.Join(t.TempDir(), "history.db")
	simulateApp, _ := newTestApp(&SimulateCommand)
	require.NoError(t, simulateApp.Run(utils.NewArgs("statfeed", SimulateCommand.Name).
		Flag(config.StepsFlag.Name, 50).
		Flag(config.DbFlag.Name, db).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()))

	app, _ := newTestApp(&VisualizeCommand)
	port := "8183"
	args := utils.NewArgs("statfeed", VisualizeCommand.Name).
		Flag(config.CountFlag.Name, 6).
		Flag(config.DbFlag.Name, db).
		Flag(config.StepsFlag.Name, 200).
		Flag(config.RandomSeedFlag.Name, int64(3)).
		Flag(config.PortFlag.Name, port).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()

	// app.Run blocks while serving
	errChan := make(chan error, 1)
	go func() {
		errChan <- app.Run(args)
	}()

	serverURL := fmt.Sprintf("http://localhost:%s", port)
	assert.Contains(t, getWithRetry(t, serverURL, errChan), "Statfeed: Adaptive Sampler")
	assert.Contains(t, getWithRetry(t, serverURL+"/frequency", errChan), "200 selections")
	assert.Contains(t, getWithRetry(t, serverURL+"/metrics", errChan), "statfeed_engine_samples_total 200")
	assert.Contains(t, getWithRetry(t, serverURL+"/history", errChan), "50 recorded selections")
}

func TestCmd_VisualizeRequiresReadableStats(t *testing.T) {
	app, _ := newTestApp(&VisualizeCommand)
	args := utils.NewArgs("statfeed", VisualizeCommand.Name).
		Flag(config.StepsFlag.Name, 10).
		Flag(config.StatsFlag.Name, filepath.Join(t.TempDir(), "missing.json")).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()
	assert.ErrorContains(t, app.Run(args), "failed opening stats file")
}

func TestCmd_VisualizeRequiresReadableHistory(t *testing.T) {
	app, _ := newTestApp(&VisualizeCommand)
	args := utils.NewArgs("statfeed", VisualizeCommand.Name).
		Flag(config.StepsFlag.Name, 10).
		Flag(config.DbFlag.Name, filepath.Join(t.TempDir(), "empty.db")).
		Flag(logger.LogLevelFlag.Name, "critical").
		Build()
	assert.ErrorContains(t, app.Run(args), "cannot read selection history")
}
