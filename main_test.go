// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/lciochecks/internal/config"
)

func TestMangleArguments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lciochecks.yaml")
	cfg := `lcio_checks:
  lint:
    defaults:
      - --output json
    quick:
      - --list
      - --sort name
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	t.Setenv("LCIOCHECKS_CFG", path)
	_, err := config.Load()
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = config.Load() })

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "defaults set",
			args: []string{"lciochecks", "lint", "src"},
			want: []string{"lciochecks", "lint", "--output", "json", "src"},
		},
		{
			name: "named set",
			args: []string{"lciochecks", "lint", "@quick", "src"},
			want: []string{"lciochecks", "lint", "--list", "--sort", "name", "src"},
		},
		{
			name: "named set keeps leading args",
			args: []string{"lciochecks", "lint", "-o", "csv", "@quick"},
			want: []string{"lciochecks", "lint", "-o", "csv", "--list", "--sort", "name"},
		},
		{
			name: "unknown set",
			args: []string{"lciochecks", "lint", "@missing", "src"},
			want: []string{"lciochecks", "lint", "src"},
		},
		{
			name: "help untouched",
			args: []string{"lciochecks", "cache", "--help"},
			want: []string{"lciochecks", "cache", "--help"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mangleArguments(tt.args))
		})
	}
}
