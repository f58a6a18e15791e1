// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package rp selects reconstructed e+e- pairs and computes the masses used to
// look for Higgs-strahlung like events.
package rp

import (
	"errors"
	"fmt"
	"math"

	"github.com/staranto/lciochecks/internal/sample"
)

// DefaultSqrtS is the centre-of-mass energy [GeV] used when none is given.
const DefaultSqrtS = 250.0

// massTolerance is how far below zero a pair m² may fall from rounding.
const massTolerance = -0.001

var ErrNegativeMassSquared = errors.New("negative pair mass squared")

func momentumSquared(e, p sample.RC) float64 {
	x := e.P[0] + p.P[0]
	y := e.P[1] + p.P[1]
	z := e.P[2] + p.P[2]
	return x*x + y*y + z*z
}

// clampedRoot is sqrt(|m2|) for positive m2 and 0 otherwise.
func clampedRoot(m2 float64) float64 {
	if m2 <= 0 {
		return 0
	}
	return math.Sqrt(m2)
}

// PairMass is the invariant mass of two particles.
func PairMass(e, p sample.RC) (float64, error) {
	energy := e.Energy + p.Energy
	m2 := energy*energy - momentumSquared(e, p)
	if m2 < massTolerance {
		return 0, fmt.Errorf("m²=%g: %w", m2, ErrNegativeMassSquared)
	}
	return clampedRoot(m2), nil
}

// RecoilMass is the mass recoiling against the pair at centre-of-mass energy
// sqrtS. A non-positive sqrtS means DefaultSqrtS. Unphysical recoils give 0.
func RecoilMass(e, p sample.RC, sqrtS float64) float64 {
	if sqrtS <= 0 {
		sqrtS = DefaultSqrtS
	}
	energy := sqrtS - e.Energy - p.Energy
	return clampedRoot(energy*energy - momentumSquared(e, p))
}
