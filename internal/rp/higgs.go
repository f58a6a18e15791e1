// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rp

import (
	"errors"
	"fmt"
	"math"

	"github.com/staranto/lciochecks/internal/sample"
)

const (
	electron = 11
	positron = -11

	zMass     = 91.19
	higgsMass = 125.0
	sigmaZ    = 2.5
	sigmaH    = 5.0
)

var ErrRecoilCount = errors.New("best pair must mark zero or two particles")

// Pair is one electron/positron combination within an event.
type Pair struct {
	Electron int
	Positron int
	Mass     float64
	Recoil   float64
	Chi2     float64
}

// Chi2Func scores a pair from its mass and recoil mass. Lower is better.
type Chi2Func func(mPair, mRecoil float64) float64

// DefaultChi2 prefers a Z-like pair recoiling against a Higgs-like mass.
func DefaultChi2(mPair, mRecoil float64) float64 {
	z := (mPair - zMass) / sigmaZ
	h := (mRecoil - higgsMass) / sigmaH
	return z*z + h*h
}

// HiggsLike holds every candidate pair of a sample and, once ApplyChi2 has
// run, the best pair per event.
type HiggsLike struct {
	Events  []sample.Event
	Pairs   [][]Pair
	HasPair []bool
	// Best is the position in Pairs[i] of the chosen pair, -1 for none. Nil
	// until ApplyChi2.
	Best []int
	// IsRecoil marks, per event and RC particle, membership in the best pair.
	IsRecoil [][]bool
}

// NewHiggsLike builds every (electron, positron) pair per event, electrons
// in the outer loop.
func NewHiggsLike(events []sample.Event, sqrtS float64) (*HiggsLike, error) {
	h := &HiggsLike{
		Events:  events,
		Pairs:   make([][]Pair, len(events)),
		HasPair: make([]bool, len(events)),
	}

	for i, evt := range events {
		var electrons, positrons []int
		for j, p := range evt.RC {
			switch p.Type {
			case electron:
				electrons = append(electrons, j)
			case positron:
				positrons = append(positrons, j)
			}
		}

		for _, ie := range electrons {
			for _, ip := range positrons {
				e, p := evt.RC[ie], evt.RC[ip]
				m, err := PairMass(e, p)
				if err != nil {
					return nil, fmt.Errorf("event %d pair (%d, %d): %w", i, ie, ip, err)
				}
				h.Pairs[i] = append(h.Pairs[i], Pair{
					Electron: ie,
					Positron: ip,
					Mass:     m,
					Recoil:   RecoilMass(e, p, sqrtS),
				})
			}
		}
		h.HasPair[i] = len(h.Pairs[i]) > 0
	}
	return h, nil
}

// ApplyChi2 scores every pair with fn and marks the particles of the first
// lowest scoring pair of each event.
func (h *HiggsLike) ApplyChi2(fn Chi2Func) error {
	if fn == nil {
		fn = DefaultChi2
	}

	h.Best = make([]int, len(h.Pairs))
	h.IsRecoil = make([][]bool, len(h.Pairs))
	for i, pairs := range h.Pairs {
		best := -1
		lowest := math.Inf(1)
		for j := range pairs {
			pairs[j].Chi2 = fn(pairs[j].Mass, pairs[j].Recoil)
			if best < 0 || pairs[j].Chi2 < lowest {
				best, lowest = j, pairs[j].Chi2
			}
		}
		h.Best[i] = best

		marks := make([]bool, len(h.Events[i].RC))
		if best >= 0 {
			marks[pairs[best].Electron] = true
			marks[pairs[best].Positron] = true
		}
		h.IsRecoil[i] = marks

		n := 0
		for _, m := range marks {
			if m {
				n++
			}
		}
		if n != 0 && n != 2 {
			return fmt.Errorf("event %d marks %d particles: %w", i, n, ErrRecoilCount)
		}
	}
	return nil
}

// BestPairs returns the chosen pair of every event that has one.
func (h *HiggsLike) BestPairs() []Pair {
	var out []Pair
	for i, b := range h.Best {
		if b >= 0 {
			out = append(out, h.Pairs[i][b])
		}
	}
	return out
}

// CountWithPair is the number of events with at least one candidate.
func (h *HiggsLike) CountWithPair() int {
	n := 0
	for _, ok := range h.HasPair {
		if ok {
			n++
		}
	}
	return n
}
