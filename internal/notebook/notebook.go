// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package notebook edits Jupyter notebooks in place, keeping every field it
// does not know about.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Ext is the notebook file extension.
const Ext = ".ipynb"

// Notebook is a parsed .ipynb file. Raw holds the whole document.
type Notebook struct {
	Path string
	Raw  map[string]any
}

// Read parses the notebook at path. Numbers are kept as json.Number so they
// are written back exactly as read.
func Read(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	raw, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &Notebook{Path: path, Raw: raw}, nil
}

func decode(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("not a notebook object")
	}
	return raw, nil
}

// Cells returns the cell objects. Entries that are not objects are skipped.
func (nb *Notebook) Cells() []map[string]any {
	list, _ := nb.Raw["cells"].([]any)
	var cells []map[string]any
	for _, c := range list {
		if m, ok := c.(map[string]any); ok {
			cells = append(cells, m)
		}
	}
	return cells
}

// Marshal renders the notebook the way nbformat writes it: one space indent,
// sorted keys, no HTML escaping and a trailing newline.
func (nb *Notebook) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(nb.Raw); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", nb.Path, err)
	}
	return buf.Bytes(), nil
}

// Write saves the notebook back to its path.
func (nb *Notebook) Write() error {
	data, err := nb.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(nb.Path, data, 0o644); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	return nil
}

// Discover returns every notebook below root, sorted, skipping _build
// directories.
func Discover(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "_build" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == Ext {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list notebooks: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

// child returns m[key] as an object, creating it when absent or of another
// type.
func child(m map[string]any, key string) map[string]any {
	if c, ok := m[key].(map[string]any); ok {
		return c
	}
	c := map[string]any{}
	m[key] = c
	return c
}

// lookup walks nested objects and returns the value at the end of keys.
func lookup(m map[string]any, keys ...string) (any, bool) {
	var cur any = m
	for _, k := range keys {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = obj[k]; !ok {
			return nil, false
		}
	}
	return cur, true
}
