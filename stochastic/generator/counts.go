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

package generator

import (
	"math/rand"
	"strings"

	"github.com/cockroachdb/errors"
)

// MaxRandomCount is the exclusive upper bound of randomly loaded counts.
const MaxRandomCount = 10

// Mode identifies a bulk-load strategy for usage counts.
type Mode int

// IDs of bulk-load modes
const (
	UniformMode Mode = iota
	RandomMode
	RampMode

	// Add new modes below this line

	NumModes
)

// modeText translates modes to their message selectors.
var modeText = map[Mode]string{
	UniformMode: "reset",
	RandomMode:  "randomize",
	RampMode:    "sequence",
}

// String returns the message selector of a mode.
func (m Mode) String() string {
	if txt, ok := modeText[m]; ok {
		return txt
	}
	return "unknown"
}

// ParseMode finds the mode for a message selector.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m := Mode(0); m < NumModes; m++ {
		if modeText[m] == s {
			return m, nil
		}
	}
	return 0, errors.Newf("unknown bulk-load mode %q", s)
}

// CountGenerator fills usage counts for a bulk load.
type CountGenerator interface {
	Fill(dst []float64)
}

// Uniform sets every count to one.
type Uniform struct{}

// Fill sets all counts to one.
func (Uniform) Fill(dst []float64) {
	for i := range dst {
		dst[i] = 1
	}
}

// Random draws counts uniformly from [0, MaxRandomCount).
type Random struct {
	rg *rand.Rand // random generator owned by the caller
}

// NewRandom creates a random count generator on top of rg.
func NewRandom(rg *rand.Rand) *Random {
	return &Random{rg: rg}
}

// Fill draws a fresh random count for every slot.
func (r *Random) Fill(dst []float64) {
	for i := range dst {
		dst[i] = float64(r.rg.Intn(MaxRandomCount))
	}
}

// Ramp produces a descending ramp n-1, n-2, ..., 0.
type Ramp struct{}

// Fill writes the descending ramp.
func (Ramp) Fill(dst []float64) {
	n := len(dst)
	for i := range dst {
		dst[i] = float64(n - 1 - i)
	}
}

// New returns the generator of a mode.
func New(m Mode, rg *rand.Rand) (CountGenerator, error) {
	switch m {
	case UniformMode:
		return Uniform{}, nil
	case RandomMode:
		if rg == nil {
			return nil, errors.New("random mode requires a random generator")
		}
		return NewRandom(rg), nil
	case RampMode:
		return Ramp{}, nil
	}
	return nil, errors.Newf("unknown bulk-load mode (%d)", int(m))
}
