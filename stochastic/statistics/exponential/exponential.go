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

// Package exponential implements the exponential distribution truncated to
// the unit interval. It produces skewed queries in [0,1] for a sampler.
package exponential

import (
	"math"
	"math/rand"

	"github.com/cockroachdb/errors"
)

const (
	newtonError      = 1e-9  // epsilon for Newton's convergences criteria
	newtonMaxStep    = 10000 // maximum number of iteration in the Newtonian
	newtonInitLambda = 1.0   // initial parameter in Newton's search
	uniformLambda    = 1e-9  // rates below are treated as uniform
)

// isUniform reports whether lambda is numerically indistinguishable from
// the uniform distribution.
func isUniform(lambda float64) bool {
	return math.Abs(lambda) < uniformLambda
}

// CDF is the cumulative distribution function on [0,1]. A positive lambda
// favours small values, a negative lambda large values.
func CDF(lambda float64, x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x >= 1:
		return 1
	case isUniform(lambda):
		return x
	}
	return math.Expm1(-lambda*x) / math.Expm1(-lambda)
}

// Quantile is the inverse cumulative distribution function.
func Quantile(lambda float64, p float64) float64 {
	if isUniform(lambda) {
		return p
	}
	return math.Log1p(p*math.Expm1(-lambda)) / -lambda
}

// Mean is the expected value of the distribution.
func Mean(lambda float64) float64 {
	if isUniform(lambda) {
		return 0.5
	}
	return 1/lambda - 1/math.Expm1(lambda)
}

// Sample draws a value in [0,1].
func Sample(rg *rand.Rand, lambda float64) float64 {
	return math.Min(1, math.Max(0, Quantile(lambda, rg.Float64())))
}

// dMean is the derivative of Mean.
func dMean(lambda float64) float64 {
	t := math.Exp(lambda) / math.Pow(math.Expm1(lambda), 2)
	// numerical limits for large rates
	if math.IsNaN(t) || math.IsInf(t, 0) {
		t = 0
	}
	return t - 1/(lambda*lambda)
}

// ApproximateLambda finds the rate whose mean matches mean with Newton's
// method, since the maximum likelihood equation has no closed form.
func ApproximateLambda(mean float64) (float64, error) {
	if math.IsNaN(mean) || mean <= 0 || mean >= 1 {
		return 0, errors.Newf("ApproximateLambda: mean (%v) must be in (0,1)", mean)
	}
	if math.Abs(mean-0.5) < newtonError {
		return 0, nil
	}
	l := newtonInitLambda
	if mean > 0.5 {
		l = -newtonInitLambda
	}
	for range newtonMaxStep {
		residual := Mean(l) - mean
		if math.Abs(residual) < newtonError {
			return l, nil
		}
		l -= residual / dMean(l)
		if math.IsNaN(l) || math.IsInf(l, 0) {
			break
		}
	}
	return 0, errors.Newf("ApproximateLambda: failed to converge after %v steps", newtonMaxStep)
}
