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
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/distuv"
)

// TestDiscrete_Check checks if the given probability mass function (pmf) is valid.
func TestDiscrete_Check(t *testing.T) {
	if err := Check([]float64{0.2, 0.5, 0.3}); err != nil {
		t.Fatalf("valid pmf: want nil, got %v", err)
	}
	if err := Check([]float64{0.0, 1.0, 0.0}); err != nil {
		t.Fatalf("valid pmf with zeros: want nil, got %v", err)
	}
	if err := Check([]float64{0.0, 0.0, 0.0}); err == nil {
		t.Fatalf("all zeros pmf: want error, got nil")
	}
	if err := Check([]float64{-1.0, 0.0, 0.0}); err == nil {
		t.Fatalf("negative number in pmf: want error, got nil")
	}
	if err := Check([]float64{1.1, 0.0, 0.0}); err == nil {
		t.Fatalf("probability greater than one: want error, got nil")
	}
	if err := Check([]float64{math.NaN(), 0.0, 0.0}); err == nil {
		t.Fatalf("a probability as NaN: want error, got nil")
	}
}

// TestDiscrete_Cumulate tests the running sum of weights.
func TestDiscrete_Cumulate(t *testing.T) {
	dst := make([]float64, 5)
	total := Cumulate(dst, []float64{1, 0, 0.5, 2})
	assert.Equal(t, 3.5, total)
	assert.Equal(t, []float64{1, 1, 1.5, 3.5, 0}, dst)

	assert.Equal(t, 0.0, Cumulate(dst, nil))
}

// TestDiscrete_SearchBasic tests the bucket lookup on a strictly increasing function.
func TestDiscrete_SearchBasic(t *testing.T) {
	cumulative := []float64{1, 2, 3}
	if got := Search(cumulative, 0.0); got != 0 {
		t.Fatalf("target=0.0: want 0, got %d", got)
	}
	if got := Search(cumulative, 0.99); got != 0 {
		t.Fatalf("target=0.99: want 0, got %d", got)
	}
	if got := Search(cumulative, 1.0); got != 1 {
		t.Fatalf("target=1.0 (boundary): want 1, got %d", got)
	}
	if got := Search(cumulative, 2.5); got != 2 {
		t.Fatalf("target=2.5: want 2, got %d", got)
	}
}

// TestDiscrete_SearchLastMatchWins tests that a boundary shared by several
// buckets resolves to the highest index.
func TestDiscrete_SearchLastMatchWins(t *testing.T) {
	if got := Search([]float64{1, 1, 2}, 1.0); got != 2 {
		t.Fatalf("weights [1,0,1], target=1.0: want 2, got %d", got)
	}
	if got := Search([]float64{0, 0, 0, 1}, 0.0); got != 3 {
		t.Fatalf("leading zero weights, target=0.0: want 3, got %d", got)
	}
}

// TestDiscrete_SearchFallsBackToLastIndex tests targets at or past the total.
func TestDiscrete_SearchFallsBackToLastIndex(t *testing.T) {
	cumulative := []float64{1, 2, 3}
	if got := Search(cumulative, 3.0); got != 2 {
		t.Fatalf("target=total: want 2, got %d", got)
	}
	if got := Search(cumulative, 42.0); got != 2 {
		t.Fatalf("target>total: want 2, got %d", got)
	}
	if got := Search(cumulative, math.NaN()); got != 2 {
		t.Fatalf("target=NaN: want 2, got %d", got)
	}
	if got := Search(nil, 0.5); got != 0 {
		t.Fatalf("empty function: want 0, got %d", got)
	}
}

// TestDiscrete_Normalize tests conversion of weights into a pmf.
func TestDiscrete_Normalize(t *testing.T) {
	pmf, err := Normalize([]float64{1, 3})
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, pmf)

	pmf, err = Normalize([]float64{0, 0, 0, 0})
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.25, 0.25, 0.25}, pmf)

	_, err = Normalize(nil)
	assert.Error(t, err)
	_, err = Normalize([]float64{1, -1})
	assert.Error(t, err)
	_, err = Normalize([]float64{1, math.Inf(1)})
	assert.Error(t, err)
}

// testSearch performs a chi-squared test on uniformly distributed targets.
func testSearch(weights []float64, t *testing.T) {
	// create random generator with fixed seed value
	rg := rand.New(rand.NewSource(999))

	pmf, err := Normalize(weights)
	if err != nil {
		t.Fatalf("cannot normalize weights; %v", err)
	}
	if err := Check(pmf); err != nil {
		t.Fatalf("the pmf is not valid; %v", err)
	}
	n := len(weights)
	cumulative := make([]float64, n)
	total := Cumulate(cumulative, weights)

	numSteps := 100000
	counts := make([]int64, n)
	for range numSteps {
		counts[Search(cumulative, rg.Float64()*total)]++
	}

	chi2 := 0.0
	df := -1.0
	for i, v := range counts {
		expected := float64(numSteps) * pmf[i]
		if expected == 0 {
			if v != 0 {
				t.Fatalf("bucket %d has zero weight but was selected %d times", i, v)
			}
			continue
		}
		err := expected - float64(v)
		chi2 += (err * err) / expected
		df++
	}

	// alpha of 0.001 and a degree of freedom of the number of live buckets minus one
	alpha := 0.001
	chi2Critical := distuv.ChiSquared{K: df, Src: nil}.Quantile(1.0 - alpha)
	if chi2 > chi2Critical {
		t.Fatalf("the bucket lookup is biased; chi2 %v > %v", chi2, chi2Critical)
	}
}

// TestDiscrete_SearchStatistical tests that the lookup follows the weights.
func TestDiscrete_SearchStatistical(t *testing.T) {
	t.Run("Increasing", func(t *testing.T) {
		testSearch([]float64{1, 2, 3, 4}, t)
	})
	t.Run("Gaps", func(t *testing.T) {
		testSearch([]float64{0.5, 0, 1, 0, 0.25}, t)
	})
	t.Run("Skewed", func(t *testing.T) {
		testSearch([]float64{0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.01, 0.92}, t)
	})
}
