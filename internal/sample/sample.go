// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package sample reads LCIO event files into flat per-event particle records.
package sample

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/apex/log"
	"go-hep.org/x/hep/lcio"
)

// MC is one Monte Carlo truth particle.
type MC struct {
	PDG       int
	GenStatus int
	SimStatus uint32
	Vertex    [3]float64
	P         [3]float64
	Mass      float64
	Charge    float64
}

// RC is one reconstructed particle.
type RC struct {
	Type   int
	Energy float64
	P      [3]float64
	Mass   float64
	Charge float64
}

// PT is the transverse momentum.
func (r RC) PT() float64 {
	return math.Hypot(r.P[0], r.P[1])
}

// Event holds the particles of one collision.
type Event struct {
	Run    int
	Number int
	MC     []MC
	RC     []RC
}

// Options select the collections to read and bound the number of events.
type Options struct {
	MCCollection string
	RCCollection string
	// MaxEvents stops reading after this many events in total. 0 reads all.
	MaxEvents int
}

// Load reads every event of the given files in order. Collections absent from
// an event leave the matching slice empty.
func Load(ctx context.Context, paths []string, opts Options) ([]Event, error) {
	var events []Event

	for _, path := range paths {
		n, err := loadFile(ctx, path, opts, &events)
		if err != nil {
			return nil, err
		}
		log.Debugf("read %d events from %s", n, path)
		if opts.MaxEvents > 0 && len(events) >= opts.MaxEvents {
			break
		}
	}

	log.Infof("Loaded %d events from %d files.", len(events), len(paths))
	return events, nil
}

func loadFile(ctx context.Context, path string, opts Options, events *[]Event) (int, error) {
	r, err := lcio.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer r.Close()

	n := 0
	for r.Next() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if opts.MaxEvents > 0 && len(*events) >= opts.MaxEvents {
			return n, nil
		}

		evt := r.Event()
		e := Event{
			Run:    int(evt.RunNumber),
			Number: int(evt.EventNumber),
		}

		if opts.MCCollection != "" && evt.Has(opts.MCCollection) {
			mcs, ok := evt.Get(opts.MCCollection).(*lcio.McParticleContainer)
			if !ok {
				return n, fmt.Errorf("%s: collection %s is not MCParticle", path, opts.MCCollection)
			}
			e.MC = fromMcParticles(mcs)
		}

		if opts.RCCollection != "" && evt.Has(opts.RCCollection) {
			rcs, ok := evt.Get(opts.RCCollection).(*lcio.RecParticleContainer)
			if !ok {
				return n, fmt.Errorf("%s: collection %s is not ReconstructedParticle", path, opts.RCCollection)
			}
			e.RC = fromRecParticles(rcs)
		}

		*events = append(*events, e)
		n++
	}

	// The reader keeps the io.EOF that ends every well-formed file.
	if err := r.Err(); err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return n, nil
}

func fromMcParticles(c *lcio.McParticleContainer) []MC {
	out := make([]MC, len(c.Particles))
	for i := range c.Particles {
		p := &c.Particles[i]
		out[i] = MC{
			PDG:       int(p.PDG),
			GenStatus: int(p.GenStatus),
			SimStatus: uint32(p.SimStatus),
			Vertex:    [3]float64{float64(p.Vertex[0]), float64(p.Vertex[1]), float64(p.Vertex[2])},
			P:         [3]float64{float64(p.P[0]), float64(p.P[1]), float64(p.P[2])},
			Mass:      float64(p.Mass),
			Charge:    float64(p.Charge),
		}
	}
	return out
}

func fromRecParticles(c *lcio.RecParticleContainer) []RC {
	out := make([]RC, len(c.Parts))
	for i := range c.Parts {
		p := &c.Parts[i]
		out[i] = RC{
			Type:   int(p.Type),
			Energy: float64(p.Energy),
			P:      [3]float64{float64(p.P[0]), float64(p.P[1]), float64(p.P[2])},
			Mass:   float64(p.Mass),
			Charge: float64(p.Charge),
		}
	}
	return out
}

// Discover returns the *.slcio files directly inside dir, sorted.
func Discover(dir string) ([]string, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}
	var files []string
	for _, de := range des {
		if !de.IsDir() && strings.HasSuffix(de.Name(), ".slcio") {
			files = append(files, filepath.Join(dir, de.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
