// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package lint

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var repo = filepath.Join("testdata", "repo")

func names(uses []Use) []string {
	out := make([]string, len(uses))
	for i, u := range uses {
		out[i] = u.Name
	}
	return out
}

func TestDecoratorCalls(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want [][]string
	}{
		{"single", `@load_or_make(["a"])`, [][]string{{"a"}}},
		{"several", `@load_or_make(["a", 'b.csv'])`, [][]string{{"a", "b.csv"}}},
		{"kwargs", "@load_or_make(\n  ['a'],\n  redo=True,\n)\ndef f(): pass", [][]string{{"a"}}},
		{"comment", "# @load_or_make(['a'])\nx = 1", nil},
		{"string", `s = "@load_or_make(['a'])"`, nil},
		{"other decorator", `@lru_cache(["a"])`, nil},
		{"prefixed string", `@load_or_make([f"a"])`, [][]string{{"a"}}},
		{"two calls", "@load_or_make(['a'])\ndef f(): pass\n@load_or_make(['b'])\ndef g(): pass", [][]string{{"a"}, {"b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got [][]string
			for _, c := range decoratorCalls(tokenize(tt.src), PythonDecorator) {
				got = append(got, c.names())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Lines(t *testing.T) {
	toks := tokenize("a = '''x\ny'''\n@load_or_make(\n['z'])")
	calls := decoratorCalls(toks, PythonDecorator)
	require.Len(t, calls, 1)
	assert.Equal(t, 3, calls[0].line)
}

func TestScanPython(t *testing.T) {
	uses, err := ScanPython(filepath.Join(repo, "src", "checks.py"))
	require.NoError(t, err)
	assert.Equal(t, []string{"count_mc", "counts.csv", "vertex_z", "count_mc"}, names(uses))
	assert.Equal(t, "7", uses[0].Line)
	assert.Equal(t, "12", uses[2].Line)
	assert.Equal(t, "25", uses[3].Line)
}

func TestScanNotebook(t *testing.T) {
	uses, err := ScanNotebook(filepath.Join(repo, "docs", "checks.ipynb"))
	require.NoError(t, err)
	require.Len(t, uses, 1)
	assert.Equal(t, Use{Name: "vertex_z", File: filepath.Join(repo, "docs", "checks.ipynb"), Line: "1;3"}, uses[0])
}

func TestScanGo(t *testing.T) {
	uses, err := ScanGo(filepath.Join(repo, "gocode", "plots.go"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go_inline", "go_table.csv", "counts.csv"}, names(uses))
	assert.Equal(t, "4", uses[0].Line)
	assert.Equal(t, "7", uses[2].Line)
}

func TestScan(t *testing.T) {
	uses, err := Scan(repo, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"vertex_z",
		"go_inline", "go_table.csv", "counts.csv",
		"count_mc", "counts.csv", "vertex_z", "count_mc",
	}, names(uses))

	_, err = Scan(filepath.Join(repo, "missing"), nil)
	assert.Error(t, err)
}

func TestFindDuplicates(t *testing.T) {
	uses, err := Scan(repo, nil)
	require.NoError(t, err)

	err = FindDuplicates(uses)
	require.Error(t, err)
	var de *DuplicateError
	require.True(t, errors.As(err, &de))
	require.Len(t, de.Duplicates, 3)
	assert.Equal(t, "counts.csv", de.Duplicates[0].First.Name)
	assert.Equal(t, "vertex_z", de.Duplicates[1].First.Name)
	assert.Equal(t, "count_mc", de.Duplicates[2].First.Name)

	py := filepath.Join(repo, "src", "checks.py")
	want := "count_mc\n" +
		"    Already in  " + py + " (7).\n" +
		"    Now used in " + py + " (25)."
	assert.Equal(t, want, de.Duplicates[2].String())
	assert.Contains(t, err.Error(), "Duplicate resource names in `LoadOrMake`\n")
}

func TestFindDuplicates_Unique(t *testing.T) {
	assert.NoError(t, FindDuplicates([]Use{{Name: "a"}, {Name: "b"}}))
	assert.NoError(t, FindDuplicates(nil))
}
