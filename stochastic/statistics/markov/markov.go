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

// Package markov views a sequence of selections as a Markov chain over the
// selected indices.
package markov

import (
	"math"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"
)

const (
	estimationEps = 1e-9 // epsilon for stationary distribution
	rowSumEps     = 1e-9 // tolerance of a row sum
)

// Chain is a finite Markov chain with labelled states.
type Chain struct {
	n int         // number of states
	a [][]float64 // stochastic matrix
	l []string    // labels of states
}

// New creates a chain from a stochastic matrix and a list of unique labels.
// The matrix must be square with one row per label; each row must consist of
// probabilities summing to one.
func New(a [][]float64, labels []string) (*Chain, error) {
	n := len(labels)
	seen := make(map[string]bool, n)
	for _, label := range labels {
		if seen[label] {
			return nil, errors.Newf("state %q occurs more than once", label)
		}
		seen[label] = true
	}

	if len(a) != n {
		return nil, errors.Newf("number of labels (%d) mismatches number of rows (%d)", n, len(a))
	}
	for i, row := range a {
		if len(row) != n {
			return nil, errors.Newf("row %d has %d columns, expected %d", i, len(row), n)
		}
		total := 0.0
		for j, p := range row {
			if !(p >= 0.0 && p <= 1.0) {
				return nil, errors.Newf("invalid probability (%v) in row %d, column %d", p, i, j)
			}
			total += p
		}
		if math.Abs(total-1.0) > rowSumEps {
			return nil, errors.Newf("row %d does not sum to one (%v)", i, total)
		}
	}
	return &Chain{a: a, l: labels, n: n}, nil
}

// FromCounts creates a chain from observed transition counts, where
// counts[i][j] is the number of times state j followed state i. A state that
// was never left becomes absorbing.
func FromCounts(counts [][]uint64, labels []string) (*Chain, error) {
	a := make([][]float64, len(counts))
	for i, row := range counts {
		total := uint64(0)
		for _, c := range row {
			total += c
		}
		a[i] = make([]float64, len(row))
		if total == 0 {
			if i < len(row) {
				a[i][i] = 1
			}
			continue
		}
		for j, c := range row {
			a[i][j] = float64(c) / float64(total)
		}
	}
	return New(a, labels)
}

// Size returns the number of states.
func (mc Chain) Size() int {
	return mc.n
}

// Probability returns the transition probability from state i to state j.
func (mc Chain) Probability(i, j int) float64 {
	return mc.a[i][j]
}

// Stationary computes the stationary distribution of the chain as the left
// eigenvector of the eigenvalue one. A chain with more than one closed class
// of states has no unique stationary distribution and is rejected.
func (mc Chain) Stationary() ([]float64, error) {
	elements := make([]float64, 0, mc.n*mc.n)
	for _, row := range mc.a {
		elements = append(elements, row...)
	}
	a := mat.NewDense(mc.n, mc.n, elements)

	var eig mat.Eigen
	if ok := eig.Factorize(a, mat.EigenLeft); !ok {
		return nil, errors.New("eigen-value decomposition failed")
	}

	// the eigenvalue one is not necessarily the first one
	k := -1
	for i, v := range eig.Values(nil) {
		if math.Abs(real(v)-1.0) < estimationEps && math.Abs(imag(v)) < estimationEps {
			if k != -1 {
				// more than one closed class of states
				return nil, errors.New("chain is reducible; stationary distribution is not unique")
			}
			k = i
		}
	}
	if k == -1 {
		return nil, errors.New("eigen-decomposition failed; no eigenvalue of one found")
	}

	var ev mat.CDense
	eig.LeftVectorsTo(&ev)

	total := complex128(0)
	for i := range mc.n {
		total += ev.At(i, k)
	}
	if math.Abs(imag(total)) > estimationEps {
		return nil, errors.New("eigen-decomposition failed; eigen-vector is a complex number")
	}

	stationary := make([]float64, mc.n)
	for i := range mc.n {
		stationary[i] = math.Abs(real(ev.At(i, k)) / real(total))
	}
	return stationary, nil
}
