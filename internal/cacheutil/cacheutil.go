// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/apex/log"

	"github.com/staranto/lciochecks/internal/config"
)

// Entry represents a cached artifact on disk.
type Entry struct {
	Name    string    `json:"name" yaml:"name"`
	Kind    string    `json:"kind" yaml:"kind"`
	Path    string    `json:"path" yaml:"path"`
	Size    int64     `json:"size" yaml:"size"`
	ModTime time.Time `json:"modified" yaml:"modified"`
}

// Dir resolves the base cache directory.
// Precedence:
//  1. LCIOCHECKS_CACHE_DIR, if set and non-empty
//  2. img_cache from the config, relative to the config file
//  3. os.UserCacheDir()/lciochecks
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("LCIOCHECKS_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if c, err := config.GetString("img_cache"); err == nil && c != "" {
		if !filepath.IsAbs(c) {
			c = filepath.Join(config.Config.Dir(), c)
		}
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "lciochecks"), true
	}
	return "", false
}

// Enabled returns true unless LCIOCHECKS_CACHE explicitly disables it
// ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("LCIOCHECKS_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// EnsureBaseDir creates the base cache directory if caching is enabled and
// a base path can be resolved. Returns the path, whether it is usable, and an
// error if creation failed.
func EnsureBaseDir() (string, bool, error) {
	if !Enabled() {
		return "", false, nil
	}
	base, ok := Dir()
	if !ok {
		return "", false, nil
	}
	if err := os.MkdirAll(base, 0o755); err != nil { //nolint:mnd
		return base, false, fmt.Errorf("failed to create cache base directory: %w", err)
	}
	return base, true, nil
}

// Kind classifies a cache file by extension: "table" for .csv, "image" for
// everything else. The log file is not an artifact and yields "".
func Kind(name string) string {
	switch {
	case name == "lcio_checks.log":
		return ""
	case strings.HasSuffix(name, ".csv"):
		return "table"
	default:
		return "image"
	}
}

// List returns the artifacts directly inside the cache directory, sorted by
// name. A missing directory is an empty cache.
func List() ([]Entry, error) {
	base, ok := Dir()
	if !ok {
		return nil, nil
	}
	des, err := os.ReadDir(base)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}

	var entries []Entry
	for _, de := range des {
		if de.IsDir() {
			continue
		}
		kind := Kind(de.Name())
		if kind == "" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			log.WithError(err).Warnf("failed to stat cache file %s", de.Name())
			continue
		}
		entries = append(entries, Entry{
			Name:    de.Name(),
			Kind:    kind,
			Path:    filepath.Join(base, de.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Purge removes artifacts older than the provided number of hours and
// returns the removed paths. If hours <= 0 or the cache dir cannot be
// resolved, it is a no-op.
func Purge(hours int) ([]string, error) {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil, nil
	}
	entries, err := List()
	if err != nil {
		return nil, fmt.Errorf("failed to purge cache: %w", err)
	}

	maxAge := time.Duration(hours) * time.Hour
	var removed []string
	for _, e := range entries {
		if time.Since(e.ModTime) <= maxAge {
			continue
		}
		if err := os.Remove(e.Path); err == nil {
			log.Debugf("removed cache file %s", e.Path)
			removed = append(removed, e.Path)
		} else {
			log.WithError(err).Warnf("failed to remove cache file %s", e.Path)
		}
	}
	return removed, nil
}
