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

package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/0xsoniclabs/statfeed/stochastic/statistics/markov"
	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const statsFileID = "statfeed-stats"

// Stats counts selections and transitions between subsequent selections of
// a sampler, and the gaps between repeated selections of the same index.
type Stats struct {
	mu sync.Mutex

	// Frequency of selected indices
	freq []uint64

	// Transition frequencies between two subsequent selections
	transitFreq map[[2]int]uint64

	// Step of the most recent selection per index, -1 if never selected
	lastStep []int64

	// Frequency of gaps between two selections of the same index
	gapFreq map[int64]uint64

	prev     int   // previously selected index, -1 before the first selection
	steps    int64 // number of observed selections
	warnings uint64
}

// NewStats creates a new stats object for recording.
func NewStats() *Stats {
	return &Stats{
		transitFreq: map[[2]int]uint64{},
		gapFreq:     map[int64]uint64{},
		prev:        -1,
	}
}

// Observe records the selection of index for query.
func (s *Stats) Observe(query float64, index int) {
	if index < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.freq) <= index {
		s.freq = append(s.freq, 0)
		s.lastStep = append(s.lastStep, -1)
	}
	if query < 0 || query > 1 {
		s.warnings++
	}
	s.freq[index]++
	if s.prev >= 0 {
		s.transitFreq[[2]int{s.prev, index}]++
	}
	if last := s.lastStep[index]; last >= 0 {
		s.gapFreq[s.steps-last]++
	}
	s.lastStep[index] = s.steps
	s.prev = index
	s.steps++
}

// StatsJSON is the JSON struct of recorded selections.
type StatsJSON struct {
	FileId           string      `json:"FileId"`           // file identification
	Steps            int64       `json:"steps"`            // number of selections
	RangeWarnings    uint64      `json:"rangeWarnings"`    // queries outside of [0,1]
	Labels           []string    `json:"labels"`           // selected indices
	Frequency        []uint64    `json:"frequency"`        // selections per label
	Transitions      [][]uint64  `json:"transitions"`      // transition counts between labels
	StochasticMatrix [][]float64 `json:"stochasticMatrix"` // observed stochastic matrix

	// gaps between repeated selections of the same index
	MaxGap  int64        `json:"maxGap"`
	MeanGap float64      `json:"meanGap"`
	Gaps    [][2]float64 `json:"gaps"` // (gap, frequency)
}

// MarshalJSON ensures the FileId is populated before serialising.
func (s StatsJSON) MarshalJSON() ([]byte, error) {
	if s.FileId == "" {
		s.FileId = statsFileID
	}
	type alias StatsJSON
	return json.Marshal(alias(s))
}

// UnmarshalJSON validates the FileId while deserialising.
func (s *StatsJSON) UnmarshalJSON(data []byte) error {
	type alias StatsJSON
	var tmp alias
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	if tmp.FileId == "" {
		return errors.New("StatsJSON: missing FileId")
	}
	if tmp.FileId != statsFileID {
		return errors.Newf("StatsJSON: unexpected FileId %q", tmp.FileId)
	}
	*s = StatsJSON(tmp)
	return nil
}

// JSON produces the JSON struct of the recorded selections. Only indices
// that were selected at least once are labelled.
func (s *Stats) JSON() StatsJSON {
	s.mu.Lock()
	defer s.mu.Unlock()

	var observed []int
	labels := []string{}
	frequency := []uint64{}
	for i, f := range s.freq {
		if f > 0 {
			observed = append(observed, i)
			labels = append(labels, strconv.Itoa(i))
			frequency = append(frequency, f)
		}
	}

	transitions := make([][]uint64, len(observed))
	A := make([][]float64, len(observed))
	for r, i := range observed {
		transitions[r] = make([]uint64, len(observed))
		A[r] = make([]float64, len(observed))
		total := uint64(0)
		for c, j := range observed {
			transitions[r][c] = s.transitFreq[[2]int{i, j}]
			total += transitions[r][c]
		}
		for c := range observed {
			if total > 0 {
				A[r][c] = float64(transitions[r][c]) / float64(total)
			}
		}
	}

	gaps := make([][2]float64, 0, len(s.gapFreq))
	for gap, f := range s.gapFreq {
		gaps = append(gaps, [2]float64{float64(gap), float64(f)})
	}
	sort.Slice(gaps, func(i, j int) bool { return gaps[i][0] < gaps[j][0] })

	res := StatsJSON{
		FileId:           statsFileID,
		Steps:            s.steps,
		RangeWarnings:    s.warnings,
		Labels:           labels,
		Frequency:        frequency,
		Transitions:      transitions,
		StochasticMatrix: A,
		Gaps:             gaps,
	}
	if len(gaps) > 0 {
		values := make([]float64, len(gaps))
		weights := make([]float64, len(gaps))
		for i, g := range gaps {
			values[i], weights[i] = g[0], g[1]
		}
		res.MaxGap = int64(floats.Max(values))
		res.MeanGap = stat.Mean(values, weights)
	}
	return res
}

// Probabilities returns the observed selection probability per label.
func (s StatsJSON) Probabilities() []float64 {
	p := make([]float64, len(s.Frequency))
	for i, f := range s.Frequency {
		p[i] = float64(f)
	}
	if total := floats.Sum(p); total > 0 {
		floats.Scale(1/total, p)
	}
	return p
}

// Entropy returns the Shannon entropy (in nats) of the observed selections.
func (s StatsJSON) Entropy() float64 {
	return stat.Entropy(s.Probabilities())
}

// Chain returns the Markov chain of the observed transitions.
func (s StatsJSON) Chain() (*markov.Chain, error) {
	return markov.FromCounts(s.Transitions, s.Labels)
}

// Read stats from a file in JSON format.
func Read(filename string) (_ *StatsJSON, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed opening stats file %v", filename)
	}
	defer func(file *os.File) {
		err = errors.Join(err, file.Close())
	}(file)
	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading stats file")
	}
	var statsJSON StatsJSON
	if err = json.Unmarshal(contents, &statsJSON); err != nil {
		return nil, errors.Wrapf(err, "file %v is not a stats file", filename)
	}
	return &statsJSON, nil
}

// Write stats in JSON format.
func (s *Stats) Write(filename string) (err error) {
	f, fErr := os.Create(filename)
	if fErr != nil {
		return errors.Wrap(fErr, "cannot open for writing JSON file")
	}
	defer func(f *os.File) {
		err = errors.Join(err, f.Close())
	}(f)
	jOut, err := json.MarshalIndent(s.JSON(), "", "    ")
	if err != nil {
		return errors.Wrap(err, "failed to convert JSON")
	}
	if _, err = fmt.Fprintln(f, string(jOut)); err != nil {
		return errors.Wrap(err, "failed to write file")
	}
	return nil
}
