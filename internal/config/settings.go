// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
)

// Settings is the validated view of the lcio_checks section.
type Settings struct {
	Source       string
	ImgCache     string
	DataDir      string
	ImgDPI       int
	ImgExt       string
	ImgRedoAll   bool
	Verbose      bool
	MCCollection string
	RCCollection string
	SqrtS        float64
	CleanHours   int
}

// Resolve reads the settings from Config, makes img_cache and data_dir
// absolute against the config file's directory and creates img_cache if it is
// missing.
func Resolve() (Settings, error) {
	var s Settings
	var err error

	s.Source = Config.Source
	base := Config.Dir()

	if s.ImgCache, err = GetString("img_cache"); err != nil {
		return s, fmt.Errorf("img_cache: %w", err)
	}
	s.ImgCache = absAgainst(base, s.ImgCache)
	if err := os.MkdirAll(s.ImgCache, 0o755); err != nil { //nolint:mnd
		return s, fmt.Errorf("failed to create img_cache: %w", err)
	}

	s.DataDir, _ = GetString("data_dir", "data")
	s.DataDir = absAgainst(base, s.DataDir)
	if fi, err := os.Stat(s.DataDir); err != nil || !fi.IsDir() {
		log.Warnf("data_dir is not a directory: %s", s.DataDir)
	}

	if s.ImgDPI, err = GetInt("img_dpi"); err != nil {
		return s, fmt.Errorf("img_dpi: %w", err)
	}
	if s.ImgDPI <= 0 {
		return s, fmt.Errorf("img_dpi must be positive, got %d", s.ImgDPI)
	}

	if s.ImgExt, err = GetString("img_ext"); err != nil {
		return s, fmt.Errorf("img_ext: %w", err)
	}
	if !strings.HasPrefix(s.ImgExt, ".") {
		s.ImgExt = "." + s.ImgExt
	}

	if s.ImgRedoAll, err = GetBool("img_redo_all", false); err != nil {
		return s, fmt.Errorf("img_redo_all: %w", err)
	}
	if s.Verbose, err = GetBool("verbose", true); err != nil {
		return s, fmt.Errorf("verbose: %w", err)
	}

	s.MCCollection, _ = GetString("mc_collection", "MCParticle")
	s.RCCollection, _ = GetString("rc_collection", "PandoraPFOs")
	if s.SqrtS, err = GetFloat("sqrt_s", 250); err != nil { //nolint:mnd
		return s, fmt.Errorf("sqrt_s: %w", err)
	}
	s.CleanHours, _ = GetInt("cache.clean", 0)

	return s, nil
}

func absAgainst(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
