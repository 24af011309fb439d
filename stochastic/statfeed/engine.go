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

package statfeed

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/0xsoniclabs/statfeed/logger"
	"github.com/0xsoniclabs/statfeed/stochastic/generator"
	"github.com/0xsoniclabs/statfeed/stochastic/statistics/discrete"
	"github.com/cockroachdb/errors"
)

const (
	Capacity        = 1000 // maximal number of items
	DefaultExponent = 1.0  // neutral shaping exponent
)

// Entry is a single (index, value) pair of a dump.
type Entry struct {
	Index int
	Value float64
}

// Snapshot is a consistent copy of the engine state.
type Snapshot struct {
	Count         int
	Exponent      float64
	LastSelected  int
	RangeWarnings uint64
	Counts        []float64
	Weights       []float64
	Cumulative    []float64
}

// Engine is an adaptive weighted-index sampler. Every sample makes the
// selected item unlikely to be selected again until the other items have
// aged; the exponent shapes how strongly the age is favoured.
//
// Counts act as the age of an item since its last selection. Weights are
// the counts rescaled by their maximum and raised to the exponent, and the
// cumulative weights are the distribution searched by Sample.
type Engine struct {
	mu sync.Mutex

	count    int     // number of active items
	exponent float64 // shaping exponent
	last     int     // most recently selected index
	warnings uint64  // number of out-of-range queries

	// stale is set by the setters. The weights are recomputed before they are
	// read, so a new count or exponent already applies to the next query.
	stale bool

	counts     [Capacity]float64
	weights    [Capacity]float64
	cumulative [Capacity]float64

	rg  *rand.Rand
	log logger.Logger
}

// New creates an engine with count active items. All counts start at one.
// The random generator is owned by the engine from now on; if rg is nil, a
// time-seeded generator is created.
func New(count int, exponent float64, rg *rand.Rand, log logger.Logger) (*Engine, error) {
	if err := checkCount(float64(count)); err != nil {
		return nil, err
	}
	if err := checkExponent(exponent); err != nil {
		return nil, err
	}
	if rg == nil {
		rg = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		count:    count,
		exponent: exponent,
		rg:       rg,
		log:      log,
	}
	generator.Uniform{}.Fill(e.counts[:])
	e.refresh()
	return e, nil
}

func checkCount(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return newConfigError(CountField, v, "not a finite number")
	case v != math.Trunc(v):
		return newConfigError(CountField, v, "not an integer")
	case v < 1 || v > Capacity:
		return newConfigError(CountField, v, "must be in [1, 1000]")
	}
	return nil
}

func checkExponent(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return newConfigError(ExponentField, v, "not a finite number")
	case v < 0:
		// zero weights would turn into infinities
		return newConfigError(ExponentField, v, "must not be negative")
	}
	return nil
}

// Configure sets a configuration field. The change takes effect on the next
// sample and is visible in the exported weights right away.
func (e *Engine) Configure(f Field, v float64) error {
	switch f {
	case CountField:
		if err := checkCount(v); err != nil {
			return err
		}
		return e.SetCount(int(v))
	case ExponentField:
		return e.SetExponent(v)
	}
	return errors.Wrapf(ErrContractViolation, "unknown configuration field %v", f)
}

// SetCount sets the number of active items.
func (e *Engine) SetCount(n int) error {
	if err := checkCount(float64(n)); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count = n
	if e.last >= n {
		e.last = n - 1
	}
	e.stale = true
	return nil
}

// SetExponent sets the shaping exponent.
func (e *Engine) SetExponent(v float64) error {
	if err := checkExponent(v); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exponent = v
	e.stale = true
	return nil
}

// Sample selects the index for query and ages all items. A query outside of
// [0,1] is reported as a warning and sampled anyway.
func (e *Engine) Sample(query float64) (int, error) {
	if math.IsNaN(query) || math.IsInf(query, 0) {
		return 0, errors.Wrapf(ErrContractViolation, "query (%v) is not a finite number", query)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if query < 0 || query > 1 {
		e.warnings++
		if e.log != nil {
			e.log.Warningf("Input number %v is outside of range (0.0 to 1.0)", query)
		}
	}
	e.sync()

	n := e.count
	target := query * e.cumulative[n-1]
	e.last = discrete.Search(e.cumulative[:n], target)

	for i := range n {
		e.counts[i]++
	}
	e.counts[e.last] = 0
	e.refresh()
	return e.last, nil
}

// Randomize loads random counts in [0,9] and recomputes the weights.
func (e *Engine) Randomize() {
	e.load(generator.NewRandom(e.rg))
}

// Sequence loads the descending ramp count-1, ..., 0 and recomputes the weights.
func (e *Engine) Sequence() {
	e.load(generator.Ramp{})
}

// Reset sets all active counts to one and recomputes the weights.
func (e *Engine) Reset() {
	e.load(generator.Uniform{})
}

// Load runs the bulk load of the given mode.
func (e *Engine) Load(m generator.Mode) error {
	g, err := generator.New(m, e.rg)
	if err != nil {
		return errors.Mark(err, ErrContractViolation)
	}
	e.load(g)
	return nil
}

func (e *Engine) load(g generator.CountGenerator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g.Fill(e.counts[:e.count])
	e.refresh()
}

// refresh rescales the counts by their maximum, applies the exponent and
// recomputes the cumulative weights. If every count is zero, all items get
// the weight one.
func (e *Engine) refresh() {
	n := e.count
	maxCount := 0.0
	for _, c := range e.counts[:n] {
		if c > maxCount {
			maxCount = c
		}
	}
	for i, c := range e.counts[:n] {
		w := 1.0
		if maxCount > 0 {
			w = c / maxCount
		}
		e.weights[i] = shape(w, e.exponent)
	}
	discrete.Cumulate(e.cumulative[:n], e.weights[:n])
	e.stale = false
}

// sync recomputes the weights if a setter changed the configuration.
func (e *Engine) sync() {
	if e.stale {
		e.refresh()
	}
}

// shape raises w in [0,1] to a non-negative exponent; 0^0 is one.
func shape(w, exponent float64) float64 {
	if w == 0 {
		if exponent == 0 {
			return 1
		}
		return 0
	}
	return math.Pow(w, exponent)
}

// Count returns the number of active items.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Exponent returns the shaping exponent.
func (e *Engine) Exponent() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exponent
}

// LastSelected returns the most recently selected index.
func (e *Engine) LastSelected() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// RangeWarnings returns the number of queries outside of [0,1].
func (e *Engine) RangeWarnings() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.warnings
}

// Counts returns a copy of the active counts.
func (e *Engine) Counts() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clone(e.counts[:e.count])
}

// Weights returns a copy of the active weights.
func (e *Engine) Weights() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync()
	return clone(e.weights[:e.count])
}

// Cumulative returns a copy of the active cumulative weights.
func (e *Engine) Cumulative() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync()
	return clone(e.cumulative[:e.count])
}

// DumpCounts lists the active counts by index.
func (e *Engine) DumpCounts() []Entry {
	return entries(e.Counts())
}

// DumpWeights lists the active weights by index.
func (e *Engine) DumpWeights() []Entry {
	return entries(e.Weights())
}

// PMF returns the selection probabilities of the next sample.
func (e *Engine) PMF() ([]float64, error) {
	pmf, err := discrete.Normalize(e.Weights())
	if err != nil {
		return nil, err
	}
	if err := discrete.Check(pmf); err != nil {
		return nil, errors.Wrap(err, "invalid selection probabilities")
	}
	return pmf, nil
}

// Snapshot returns a consistent copy of the whole state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sync()
	return Snapshot{
		Count:         e.count,
		Exponent:      e.exponent,
		LastSelected:  e.last,
		RangeWarnings: e.warnings,
		Counts:        clone(e.counts[:e.count]),
		Weights:       clone(e.weights[:e.count]),
		Cumulative:    clone(e.cumulative[:e.count]),
	}
}

func clone(src []float64) []float64 {
	dst := make([]float64, len(src))
	copy(dst, src)
	return dst
}

func entries(values []float64) []Entry {
	res := make([]Entry, len(values))
	for i, v := range values {
		res[i] = Entry{Index: i, Value: v}
	}
	return res
}
