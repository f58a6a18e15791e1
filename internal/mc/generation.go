// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mc

import (
	"fmt"
	"math"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/plots"
	"github.com/staranto/lciochecks/internal/sample"
)

// Lower ends of the log x axes: half a particle and 1 mm.
const (
	countFloor  = 0.5
	vertexFloor = 1.0
)

// GenStatuses are the generatorStatus values the checks break down by.
var GenStatuses = []int{0, 1, 2, 3, 4}

// CountsPerEvent returns, per event, how many MC particles carry the given
// generatorStatus.
func CountsPerEvent(events []sample.Event, gst int) []float64 {
	out := make([]float64, len(events))
	for i, e := range events {
		for _, p := range e.MC {
			if p.GenStatus == gst {
				out[i]++
			}
		}
	}
	return out
}

// MaxMultiplicity is the largest number of MC particles in any event.
func MaxMultiplicity(events []sample.Event) int {
	m := 0
	for _, e := range events {
		m = max(m, len(e.MC))
	}
	return m
}

// VertexZ returns the vertex z [mm] of all MC particles with the given
// generatorStatus.
func VertexZ(events []sample.Event, gst int) []float64 {
	var out []float64
	for _, e := range events {
		for _, p := range e.MC {
			if p.GenStatus == gst {
				out = append(out, p.Vertex[2])
			}
		}
	}
	return out
}

func sum(xs []float64) int {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return int(s)
}

// CountPerGeneratorStatus histograms the per-event multiplicity of each
// generatorStatus, coarse on the left and unit bins up to 49 on the right.
func CountPerGeneratorStatus(s *cache.Store, events []sample.Event, opts cache.Options) ([]cache.Artifact, error) {
	return s.LoadOrMake([]string{"count_mc_per_generator_status"}, opts, func() ([]cache.Artifact, error) {
		coarse := plots.Edges(plots.Arange(-0.5, float64(MaxMultiplicity(events))-0.5, 5), 5) //nolint:mnd
		fine := plots.Arange(-0.5, 49.5, 1)                                                    //nolint:mnd

		counts := make([][]float64, len(GenStatuses))
		for i, gst := range GenStatuses {
			counts[i] = CountsPerEvent(events, gst)
		}

		fig := plots.Grid(1, 2, 8*vg.Inch, 4*vg.Inch, func(_, col int, p *hplot.Plot) {
			edges := fine
			p.X.Label.Text = "#MC particles per generatorStatus per event (bin size: 1)"
			if col == 0 {
				edges = coarse
				p.X.Label.Text = "#MC particles per generatorStatus per event (bin size: 5)"
			}
			for i, gst := range GenStatuses {
				h := plots.Fill(edges, counts[i])
				label := ""
				if col == 0 {
					label = fmt.Sprintf("%d: %9d", gst, sum(counts[i]))
					h = plots.Positive(h, edges, countFloor)
				}
				plots.AddHist(p, h, label, plots.Color(i, 0.5), true) //nolint:mnd
			}
			if col == 0 {
				plots.LogX(p, edges, countFloor)
			}
		})
		return []cache.Artifact{fig}, nil
	})
}

// VertexZPerGeneratorStatus histograms the vertex z position per
// generatorStatus: |z| in 100 mm bins on the left, z within 1 mm of the
// interaction point on the right.
func VertexZPerGeneratorStatus(s *cache.Store, events []sample.Event, opts cache.Options) ([]cache.Artifact, error) {
	return s.LoadOrMake([]string{"vertex_in_z_per_generator_status"}, opts, func() ([]cache.Artifact, error) {
		zs := make([][]float64, len(GenStatuses))
		abs := make([][]float64, len(GenStatuses))
		maxAbs := 0.0
		for i, gst := range GenStatuses {
			zs[i] = VertexZ(events, gst)
			abs[i] = make([]float64, len(zs[i]))
			for j, z := range zs[i] {
				abs[i][j] = math.Abs(z)
				maxAbs = math.Max(maxAbs, abs[i][j])
			}
		}

		coarse := plots.Edges(plots.Arange(0, maxAbs, 100), 100) //nolint:mnd
		near := plots.Linspace(-1, 1, 100)                       //nolint:mnd

		fig := plots.Grid(1, 2, 8*vg.Inch, 4*vg.Inch, func(_, col int, p *hplot.Plot) {
			p.X.Label.Text = "vertex position in z [mm]"
			for i, gst := range GenStatuses {
				if col == 0 {
					label := fmt.Sprintf("%d: %9d", gst, len(zs[i]))
					h := plots.Positive(plots.Fill(coarse, abs[i]), coarse, vertexFloor)
					plots.AddHist(p, h, label, plots.Color(i, 0.5), true) //nolint:mnd
					continue
				}
				inside := 0
				for _, a := range abs[i] {
					if a < 1 {
						inside++
					}
				}
				label := fmt.Sprintf("%d: %9d", gst, inside)
				plots.AddHist(p, plots.Fill(near, zs[i]), label, plots.Color(i, 0.5), false) //nolint:mnd
			}
			if col == 0 {
				plots.LogX(p, coarse, vertexFloor)
			}
		})
		return []cache.Artifact{fig}, nil
	})
}
