// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package mc

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/lciochecks/internal/cache"
	"github.com/staranto/lciochecks/internal/sample"
)

func testEvents() []sample.Event {
	return []sample.Event{
		{MC: []sample.MC{
			{GenStatus: 0, SimStatus: 1 << 30},
			{GenStatus: 1, Vertex: [3]float64{0, 0, 0.25}},
			{GenStatus: 1, SimStatus: 1<<30 | 1<<25, Vertex: [3]float64{0, 0, -350}},
			{GenStatus: 2, SimStatus: 1 << 23},
		}},
		{MC: []sample.MC{
			{GenStatus: 1, SimStatus: 1 << 26},
			{GenStatus: 7},
		}},
	}
}

func TestFlags(t *testing.T) {
	require.Len(t, Flags, 8)
	assert.Equal(t, "isCreatedInSimulation", Flags[0].Name)
	assert.Equal(t, uint(30), Flags[0].Bit)
	assert.Equal(t, "isOverlay", Flags[7].Name)
	assert.Equal(t, uint(23), Flags[7].Bit)

	assert.True(t, Flags[0].Set(1<<30))
	assert.False(t, Flags[0].Set(1<<29))
	assert.Equal(t, []string{"isCreatedInSimulation", "hasLeftDetector"}, Decode(1<<30|1<<25))
	assert.Empty(t, Decode(0))
}

func TestCountsPerEvent(t *testing.T) {
	events := testEvents()
	assert.Equal(t, []float64{2, 1}, CountsPerEvent(events, 1))
	assert.Equal(t, []float64{0, 0}, CountsPerEvent(events, 4))
	assert.Equal(t, 4, MaxMultiplicity(events))
	assert.Equal(t, 0, MaxMultiplicity(nil))
}

func TestVertexZ(t *testing.T) {
	events := testEvents()
	assert.Equal(t, []float64{0.25, -350, 0}, VertexZ(events, 1))
	assert.Empty(t, VertexZ(events, 3))
}

func TestSimulationCounts(t *testing.T) {
	tbl := SimulationCounts(testEvents())
	assert.Equal(t, "generatorStatus", tbl.IndexName)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, tbl.Index)
	require.Len(t, tbl.Columns, 9)
	assert.Equal(t, AnyColumn, tbl.Columns[0])

	cell := func(row int, col string) int {
		n, err := tbl.Int(row, col)
		require.NoError(t, err)
		return n
	}

	assert.Equal(t, 1, cell(0, AnyColumn))
	assert.Equal(t, 1, cell(0, "isCreatedInSimulation"))
	assert.Equal(t, 3, cell(1, AnyColumn))
	assert.Equal(t, 1, cell(1, "isCreatedInSimulation"))
	assert.Equal(t, 1, cell(1, "hasLeftDetector"))
	assert.Equal(t, 1, cell(1, "isDecayedInCalorimeter"))
	assert.Equal(t, 1, cell(2, "isOverlay"))
	assert.Equal(t, 0, cell(4, AnyColumn))
}

func TestPlots_MakeThenLoad(t *testing.T) {
	store := &cache.Store{Dir: t.TempDir(), DPI: 30}
	events := testEvents()

	tests := []struct {
		name  string
		fn    func(*cache.Store, []sample.Event, cache.Options) ([]cache.Artifact, error)
		files []string
	}{
		{"count", CountPerGeneratorStatus, []string{"count_mc_per_generator_status.png"}},
		{"vertex", VertexZPerGeneratorStatus, []string{"vertex_in_z_per_generator_status.png"}},
		{"simulation", PlotSimulationInfo, []string{"simulation_status_is.png", "simulation_status_counts.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			made, err := tt.fn(store, events, cache.Options{})
			require.NoError(t, err)
			require.Len(t, made, len(tt.files))
			for _, f := range tt.files {
				assert.FileExists(t, filepath.Join(store.Dir, f))
			}

			loaded, err := tt.fn(store, events, cache.Options{})
			require.NoError(t, err)
			require.Len(t, loaded, len(tt.files))
			_, ok := loaded[0].(*cache.Image)
			assert.True(t, ok)
		})
	}
}

func TestPlotSimulationInfo_LoadedTable(t *testing.T) {
	store := &cache.Store{Dir: t.TempDir(), DPI: 30}
	_, err := PlotSimulationInfo(store, testEvents(), cache.Options{})
	require.NoError(t, err)

	loaded, err := PlotSimulationInfo(store, nil, cache.Options{})
	require.NoError(t, err)
	tbl, ok := loaded[1].(*cache.Table)
	require.True(t, ok)
	n, err := tbl.Int(1, AnyColumn)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPlots_NoEvents(t *testing.T) {
	store := &cache.Store{Dir: t.TempDir(), DPI: 30}
	_, err := CountPerGeneratorStatus(store, nil, cache.Options{Redo: true, NoSave: true})
	require.NoError(t, err)
	_, err = VertexZPerGeneratorStatus(store, nil, cache.Options{Redo: true, NoSave: true})
	require.NoError(t, err)
}
