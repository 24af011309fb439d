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

package discrete

import (
	"math"

	"github.com/cockroachdb/errors"
)

// pmfEps is the tolerance for the total of a probability mass function.
const pmfEps = 1e-9

// Check checks if the given probability mass function (pmf) of a
// a discrete finite random variable is valid.  A valid pmf has all
// probabilities in the range [0,1], and the sum of all probabilities
// must be 1.
func Check(f []float64) error {
	total := 0.0
	for _, x := range f {
		if x < 0.0 || x > 1.0 || math.IsNaN(x) {
			return errors.Newf("invalid probability (%v) in the pmf", x)
		}
		total += x
	}
	if math.Abs(total-1.0) > pmfEps {
		return errors.Newf("total is not one (%v)", total)
	}
	return nil
}

// Cumulate writes the running sum of weights into dst and returns the total.
// dst must be at least as long as weights.
func Cumulate(dst []float64, weights []float64) float64 {
	if len(weights) == 0 {
		return 0
	}
	dst[0] = weights[0]
	for i := 1; i < len(weights); i++ {
		dst[i] = dst[i-1] + weights[i]
	}
	return dst[len(weights)-1]
}

// Search is the inverse of a cumulative weight function. A target below the
// first bucket selects index 0. Otherwise the bucket i+1 is selected for the
// last i with cumulative[i] <= target < cumulative[i+1], so that a target on
// a boundary shared by several buckets resolves to the highest of them. If no
// bucket matches, the last index is returned.
func Search(cumulative []float64, target float64) int {
	n := len(cumulative)
	if n == 0 {
		return 0
	}
	if target < cumulative[0] {
		return 0
	}
	selected := n - 1
	for i := 0; i < n-1; i++ {
		if cumulative[i] <= target && target < cumulative[i+1] {
			selected = i + 1
		}
	}
	return selected
}

// Normalize converts non-negative weights into a probability mass function.
// All-zero weights yield a uniform pmf.
func Normalize(weights []float64) ([]float64, error) {
	n := len(weights)
	if n == 0 {
		return nil, errors.New("empty weights")
	}
	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, errors.Newf("invalid weight (%v) at index %d", w, i)
		}
		total += w
	}
	pmf := make([]float64, n)
	if total == 0 {
		for i := range pmf {
			pmf[i] = 1.0 / float64(n)
		}
		return pmf, nil
	}
	for i, w := range weights {
		pmf[i] = w / total
	}
	return pmf, nil
}
