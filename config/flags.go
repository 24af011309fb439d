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

package config

import (
	"github.com/urfave/cli/v2"
)

// Command line options of the statfeed commands.
var (
	CountFlag = cli.IntFlag{
		Name:    "count",
		Aliases: []string{"n"},
		Usage:   "number of active items (1 to 1000)",
		Value:   10,
	}
	ExponentFlag = cli.Float64Flag{
		Name:    "exponent",
		Aliases: []string{"e"},
		Usage:   "shaping exponent of the weights",
		Value:   1.0,
	}
	RandomSeedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "seed of the random generators; a negative seed is taken from the clock",
		Value: -1,
	}
	StepsFlag = cli.IntFlag{
		Name:  "steps",
		Usage: "number of simulated queries",
		Value: 1000,
	}
	LambdaFlag = cli.Float64Flag{
		Name:  "lambda",
		Usage: "rate of the truncated exponential distribution of simulated queries; zero draws uniform queries",
		Value: 0,
	}
	OutputFlag = cli.PathFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file",
	}
	CompressFlag = cli.BoolFlag{
		Name:  "compress",
		Usage: "gzip the output trace",
	}
	DbFlag = cli.PathFlag{
		Name:  "db",
		Usage: "sqlite3 database of the selection history",
	}
	StatsFlag = cli.PathFlag{
		Name:  "stats",
		Usage: "JSON file of the selection statistics",
	}
	PortFlag = cli.StringFlag{
		Name:    "port",
		Aliases: []string{"v"},
		Usage:   "port of the visualizer",
		Value:   "8080",
	}
	ConfigFlag = cli.PathFlag{
		Name:  "config",
		Usage: "YAML preset; values are used where the matching flag is not set",
	}
)
