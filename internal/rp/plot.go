// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package rp

import (
	"fmt"

	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/plots"
)

// PlotRecoil histograms pair and recoil mass of the best pair per event and
// tabulates how many events had a candidate. DefaultChi2 is applied if no
// selection ran yet.
func PlotRecoil(s *cache.Store, h *HiggsLike, opts cache.Options) ([]cache.Artifact, error) {
	names := []string{"higgs_like_masses", "higgs_like_counts.csv"}
	return s.LoadOrMake(names, opts, func() ([]cache.Artifact, error) {
		if h.Best == nil {
			if err := h.ApplyChi2(DefaultChi2); err != nil {
				return nil, err
			}
		}

		best := h.BestPairs()
		masses := make([]float64, len(best))
		recoils := make([]float64, len(best))
		for i, p := range best {
			masses[i] = p.Mass
			recoils[i] = p.Recoil
		}

		edges := plots.Linspace(0, 250, 126) //nolint:mnd
		fig := plots.Grid(1, 2, 8*vg.Inch, 4*vg.Inch, func(_, col int, p *hplot.Plot) {
			xs, label := masses, "m(e+e-) [GeV]"
			if col == 1 {
				xs, label = recoils, "recoil mass [GeV]"
			}
			p.X.Label.Text = label
			plots.AddHist(p, plots.Fill(edges, xs), fmt.Sprintf("best pair: %d", len(xs)), plots.Color(col, 0.5), false) //nolint:mnd
		})

		with := h.CountWithPair()
		t := cache.NewTable("hasPair", "events")
		t.AddRow(true, with)
		t.AddRow(false, len(h.HasPair)-with)
		return []cache.Artifact{fig, t}, nil
	})
}
