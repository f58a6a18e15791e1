// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

const (
	pngExt = ".png"
	csvExt = ".csv"
)

var (
	ErrNoSaveRequiresRedo = errors.New("no-save requires redo")
	ErrCountMismatch      = errors.New("number of results does not match number of names")
	ErrKindMismatch       = errors.New("result kind does not match cache name")
)

// Options are the per-call switches of LoadOrMake.
type Options struct {
	// Redo recomputes even when every artifact is cached.
	Redo bool
	// NoSave returns the fresh results without persisting them. Needs Redo.
	NoSave bool
}

// MakeFunc produces the artifacts for a list of names, in order.
type MakeFunc func() ([]Artifact, error)

// Displayer is shown every artifact that is saved or loaded.
type Displayer interface {
	ShowImage(path string) error
	ShowTable(t *Table) error
}

// Store is a cache directory plus the rendering settings used when saving.
type Store struct {
	Dir     string
	DPI     int
	AltExt  string
	RedoAll bool
	// Disabled forces every call to recompute without saving.
	Disabled bool
	Display  Displayer
}

// Paths maps cache names to files in the store. Names ending in .csv are
// tables and kept as is, every other name is an image and gets .png.
func (s *Store) Paths(names []string) []string {
	paths := make([]string, len(names))
	for i, name := range names {
		if !strings.HasSuffix(name, csvExt) {
			name += pngExt
		}
		paths[i] = filepath.Join(s.Dir, name)
	}
	return paths
}

// LoadOrMake returns the artifacts for names. They are loaded from the store
// when all of them exist, otherwise fn is called and its results saved.
func (s *Store) LoadOrMake(names []string, opts Options, fn MakeFunc) ([]Artifact, error) {
	if s.Disabled {
		opts = Options{Redo: true, NoSave: true}
	}

	redo := opts.Redo || s.RedoAll
	if opts.NoSave && !redo {
		return nil, fmt.Errorf("%v: %w", names, ErrNoSaveRequiresRedo)
	}

	paths := s.Paths(names)
	if !redo && allExist(paths) {
		return s.load(paths)
	}

	results, err := fn()
	if err != nil {
		return nil, err
	}
	if opts.NoSave {
		return results, nil
	}
	if len(results) != len(paths) {
		return nil, fmt.Errorf("%d results != %d names: %w", len(results), len(paths), ErrCountMismatch)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil { //nolint:mnd
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	for i, result := range results {
		if err := s.save(result, paths[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

func (s *Store) save(a Artifact, path string) error {
	isTable := strings.HasSuffix(path, csvExt)

	switch v := a.(type) {
	case *Figure:
		if isTable {
			return fmt.Errorf("figure for %s: %w", path, ErrKindMismatch)
		}
		if err := v.SavePNG(path, s.DPI); err != nil {
			return err
		}
		log.Infof("Figure saved to %s.", path)
		s.showImage(path)

		if s.AltExt != "" && s.AltExt != pngExt {
			alt := strings.TrimSuffix(path, pngExt) + s.AltExt
			if err := v.SaveAs(alt); err != nil {
				log.WithError(err).Errorf("failed to save %s", alt)
			}
		}
	case *Table:
		if !isTable {
			return fmt.Errorf("table for %s: %w", path, ErrKindMismatch)
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		if err := v.WriteCSV(f); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		log.Infof("Table saved to %s.", path)
		s.showTable(v)
	default:
		return fmt.Errorf("%T for %s: %w", a, path, ErrKindMismatch)
	}
	return nil
}

func (s *Store) load(paths []string) ([]Artifact, error) {
	results := make([]Artifact, 0, len(paths))
	for _, path := range paths {
		if !strings.HasSuffix(path, csvExt) {
			log.Infof("Figure loaded from %s.", path)
			s.showImage(path)
			results = append(results, &Image{Path: path})
			continue
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		t, err := ReadTable(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		log.Infof("Table loaded from %s.", path)
		s.showTable(t)
		results = append(results, t)
	}
	return results, nil
}

func (s *Store) showImage(path string) {
	if s.Display == nil {
		return
	}
	if err := s.Display.ShowImage(path); err != nil {
		log.WithError(err).Warnf("failed to display %s", path)
	}
}

func (s *Store) showTable(t *Table) {
	if s.Display == nil {
		return
	}
	if err := s.Display.ShowTable(t); err != nil {
		log.WithError(err).Warn("failed to display table")
	}
}

func allExist(paths []string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return false
		}
	}
	return true
}
