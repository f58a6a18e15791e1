// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package sample

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-hep.org/x/hep/lcio"
)

func writeSample(t *testing.T, path string, nevents int) {
	t.Helper()
	w, err := lcio.Create(path)
	require.NoError(t, err)

	for i := 0; i < nevents; i++ {
		evt := lcio.Event{RunNumber: 7, EventNumber: int32(i), Detector: "test"}
		evt.Add("MCParticle", &lcio.McParticleContainer{
			Particles: []lcio.McParticle{
				{PDG: 25, GenStatus: 2},
				{PDG: 11, GenStatus: 1, SimStatus: 1 << 30},
			},
		})
		evt.Add("PandoraPFOs", &lcio.RecParticleContainer{
			Parts: []lcio.RecParticle{
				{Type: 11},
				{Type: -11},
				{Type: 22},
			},
		})
		require.NoError(t, w.WriteEvent(&evt))
	}
	require.NoError(t, w.Close())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.slcio")
	b := filepath.Join(dir, "b.slcio")
	writeSample(t, a, 3)
	writeSample(t, b, 2)

	opts := Options{MCCollection: "MCParticle", RCCollection: "PandoraPFOs"}
	events, err := Load(context.Background(), []string{a, b}, opts)
	require.NoError(t, err)
	require.Len(t, events, 5)

	e := events[1]
	assert.Equal(t, 7, e.Run)
	assert.Equal(t, 1, e.Number)
	require.Len(t, e.MC, 2)
	assert.Equal(t, 25, e.MC[0].PDG)
	assert.Equal(t, 1, e.MC[1].GenStatus)
	assert.Equal(t, uint32(1<<30), e.MC[1].SimStatus)
	require.Len(t, e.RC, 3)
	assert.Equal(t, -11, e.RC[1].Type)

	opts.MaxEvents = 4
	events, err = Load(context.Background(), []string{a, b}, opts)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}

func TestLoad_MissingCollection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.slcio")
	writeSample(t, path, 1)

	events, err := Load(context.Background(), []string{path}, Options{
		MCCollection: "MCParticle",
		RCCollection: "SelectedPandoraPFOs",
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].MC, 2)
	assert.Empty(t, events[0].RC)
}

func TestLoad_WrongCollectionType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.slcio")
	writeSample(t, path, 1)

	_, err := Load(context.Background(), []string{path}, Options{MCCollection: "PandoraPFOs"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "is not MCParticle")
}

func TestLoad_Cancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.slcio")
	writeSample(t, path, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, []string{path}, Options{MCCollection: "MCParticle"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), []string{"/nonexistent.slcio"}, Options{})
	assert.Error(t, err)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.slcio", "a.slcio", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.slcio"), 0o755))

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.slcio"), filepath.Join(dir, "b.slcio")}, files)

	_, err = Discover(filepath.Join(dir, "nope"))
	assert.Error(t, err)
}

func TestPT(t *testing.T) {
	assert.InDelta(t, 5.0, RC{P: [3]float64{3, 4, 10}}.PT(), 1e-12)
}
