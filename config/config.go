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
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/statfeed"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// ArgumentMode defines the positional arguments a command expects.
type ArgumentMode int

const (
	NoArgs  ArgumentMode = iota // no positional arguments
	PathArg                     // exactly one path, e.g. a trace file
)

// Config summarizes the configuration of a statfeed command.
type Config struct {
	AppName     string
	CommandName string

	Count      int     // number of active items
	Exponent   float64 // shaping exponent
	RandomSeed int64   // seed of the random generators; negative seeds are taken from the clock
	Steps      int     // number of simulated queries
	Lambda     float64 // rate of the simulated query distribution
	Input      string  // positional path argument
	Output     string  // output file
	Compress   bool    // gzip the output trace
	Db         string  // sqlite3 database of the selection history
	Stats      string  // JSON file of the selection statistics
	Port       string  // port of the visualizer
	Preset     string  // YAML preset
	LogLevel   string  // level of the logging
}

// Preset is a YAML configuration file. Only keys present in the file are
// applied.
type Preset struct {
	Count    *int     `yaml:"count"`
	Exponent *float64 `yaml:"exponent"`
	Seed     *int64   `yaml:"seed"`
	Steps    *int     `yaml:"steps"`
	Lambda   *float64 `yaml:"lambda"`
	Output   *string  `yaml:"output"`
	Db       *string  `yaml:"db"`
	Stats    *string  `yaml:"stats"`
	Port     *string  `yaml:"port"`
	Log      *string  `yaml:"log"`
}

// NewConfig creates and initializes Config with commandline arguments.
func NewConfig(ctx *cli.Context, mode ArgumentMode) (*Config, error) {
	cfg := createConfigFromFlags(ctx)

	switch mode {
	case NoArgs:
		if ctx.Args().Len() != 0 {
			return nil, errors.Newf("command %v takes no arguments", cfg.CommandName)
		}
	case PathArg:
		if ctx.Args().Len() != 1 {
			return nil, errors.Newf("command %v requires exactly one path argument", cfg.CommandName)
		}
		cfg.Input = ctx.Args().First()
	default:
		return nil, errors.Newf("unknown argument mode %v", mode)
	}

	if cfg.Preset != "" {
		preset, err := ReadPreset(cfg.Preset)
		if err != nil {
			return nil, err
		}
		cfg.applyPreset(preset, ctx.IsSet)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg.LogLevel, "Config")
	log.Debugf("Configuration of %v: count %d, exponent %v, seed %d, steps %d",
		cfg.CommandName, cfg.Count, cfg.Exponent, cfg.RandomSeed, cfg.Steps)
	return cfg, nil
}

// ReadPreset reads a YAML preset.
func ReadPreset(filename string) (*Preset, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read preset %v", filename)
	}
	var preset Preset
	if err := yaml.Unmarshal(data, &preset); err != nil {
		return nil, errors.Wrapf(err, "cannot parse preset %v", filename)
	}
	return &preset, nil
}

// applyPreset copies the preset values of all flags not set on the command line.
func (cfg *Config) applyPreset(p *Preset, isSet func(name string) bool) {
	if p.Count != nil && !isSet(CountFlag.Name) {
		cfg.Count = *p.Count
	}
	if p.Exponent != nil && !isSet(ExponentFlag.Name) {
		cfg.Exponent = *p.Exponent
	}
	if p.Seed != nil && !isSet(RandomSeedFlag.Name) {
		cfg.RandomSeed = *p.Seed
	}
	if p.Steps != nil && !isSet(StepsFlag.Name) {
		cfg.Steps = *p.Steps
	}
	if p.Lambda != nil && !isSet(LambdaFlag.Name) {
		cfg.Lambda = *p.Lambda
	}
	if p.Output != nil && !isSet(OutputFlag.Name) {
		cfg.Output = *p.Output
	}
	if p.Db != nil && !isSet(DbFlag.Name) {
		cfg.Db = *p.Db
	}
	if p.Stats != nil && !isSet(StatsFlag.Name) {
		cfg.Stats = *p.Stats
	}
	if p.Port != nil && !isSet(PortFlag.Name) {
		cfg.Port = *p.Port
	}
	if p.Log != nil && !isSet(logger.LogLevelFlag.Name) {
		cfg.LogLevel = *p.Log
	}
}

func (cfg *Config) validate() error {
	if cfg.Count < 1 || cfg.Count > statfeed.Capacity {
		return errors.Newf("count (%d) must be in [1, %d]", cfg.Count, statfeed.Capacity)
	}
	if math.IsNaN(cfg.Exponent) || math.IsInf(cfg.Exponent, 0) || cfg.Exponent < 0 {
		return errors.Newf("exponent (%v) must be a finite non-negative number", cfg.Exponent)
	}
	if math.IsNaN(cfg.Lambda) || math.IsInf(cfg.Lambda, 0) {
		return errors.Newf("lambda (%v) must be a finite number", cfg.Lambda)
	}
	if cfg.Steps <= 0 {
		return errors.Newf("steps (%d) must be positive", cfg.Steps)
	}
	return nil
}

// NewRand creates a random generator from the configured seed. A negative
// seed is replaced by the current time.
func (cfg *Config) NewRand() *rand.Rand {
	seed := cfg.RandomSeed
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
