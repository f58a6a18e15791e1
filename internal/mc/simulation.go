// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package mc

import (
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot/vg"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/plots"
	"github.com/staranto/lciochecks/internal/sample"
)

// Flag is one bit of the MC simulator status word.
type Flag struct {
	Name string
	Bit  uint
}

// Set reports whether the flag is raised in status.
func (f Flag) Set(status uint32) bool {
	return status>>f.Bit&1 == 1
}

// Flags lists the simulator status bits from the most significant one down.
var Flags = []Flag{
	{Name: "isCreatedInSimulation", Bit: 30},
	{Name: "isBackscatter", Bit: 29},
	{Name: "vertexIsNotEndpointOfParent", Bit: 28},
	{Name: "isDecayedInTracker", Bit: 27},
	{Name: "isDecayedInCalorimeter", Bit: 26},
	{Name: "hasLeftDetector", Bit: 25},
	{Name: "isStopped", Bit: 24},
	{Name: "isOverlay", Bit: 23},
}

// AnyColumn counts every MC particle regardless of its flags.
const AnyColumn = "isAny"

// Decode returns the name of every flag raised in status.
func Decode(status uint32) []string {
	var out []string
	for _, f := range Flags {
		if f.Set(status) {
			out = append(out, f.Name)
		}
	}
	return out
}

// SimulationCounts tallies MC particles per generatorStatus (rows 0..4):
// all of them, then those with each simulator flag set.
func SimulationCounts(events []sample.Event) *cache.Table {
	columns := []string{AnyColumn}
	for _, f := range Flags {
		columns = append(columns, f.Name)
	}

	grid := make([][]int, len(GenStatuses))
	for i := range grid {
		grid[i] = make([]int, len(columns))
	}

	for _, e := range events {
		for _, p := range e.MC {
			if p.GenStatus < 0 || p.GenStatus >= len(GenStatuses) {
				continue
			}
			row := grid[p.GenStatus]
			row[0]++
			for j, f := range Flags {
				if f.Set(p.SimStatus) {
					row[j+1]++
				}
			}
		}
	}

	t := cache.NewTable("generatorStatus", columns...)
	for i, gst := range GenStatuses {
		values := make([]any, len(columns))
		for j, n := range grid[i] {
			values[j] = n
		}
		t.AddRow(gst, values...)
	}
	return t
}

// statusesWhere returns the generatorStatus of every MC particle accepted by
// keep.
func statusesWhere(events []sample.Event, keep func(sample.MC) bool) []float64 {
	var out []float64
	for _, e := range events {
		for _, p := range e.MC {
			if keep(p) {
				out = append(out, float64(p.GenStatus))
			}
		}
	}
	return out
}

// PlotSimulationInfo draws, for each simulator flag, the generatorStatus
// distribution of all MC particles and of those with the flag set. The
// counts behind the figure come back as a table.
func PlotSimulationInfo(s *cache.Store, events []sample.Event, opts cache.Options) ([]cache.Artifact, error) {
	names := []string{"simulation_status_is", "simulation_status_counts.csv"}
	return s.LoadOrMake(names, opts, func() ([]cache.Artifact, error) {
		edges := plots.Arange(-0.5, 5, 1) //nolint:mnd
		all := plots.Fill(edges, statusesWhere(events, func(sample.MC) bool { return true }))

		fig := plots.Grid(2, 4, 12*vg.Inch, 6*vg.Inch, func(row, col int, p *hplot.Plot) {
			f := Flags[row*4+col]
			p.Title.Text = f.Name
			if row == 1 {
				p.X.Label.Text = "generatorStatus"
			}

			label := ""
			if row == 0 && col == 0 {
				label = "True"
			}
			plots.AddHist(p, all, "", plots.Color(0, 1), false)
			set := plots.Fill(edges, statusesWhere(events, func(m sample.MC) bool { return f.Set(m.SimStatus) }))
			plots.AddHist(p, set, label, plots.Color(1, 1), false)
		})

		return []cache.Artifact{fig, SimulationCounts(events)}, nil
	})
}
