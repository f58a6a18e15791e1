// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package notebook

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyDocs copies testdata/docs to a temp dir and returns the new root.
func copyDocs(t *testing.T) string {
	t.Helper()
	dst := filepath.Join(t.TempDir(), "docs")
	err := filepath.WalkDir("testdata/docs", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel("testdata/docs", path)
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}

func TestDiscover(t *testing.T) {
	paths, err := Discover("testdata/docs")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join("testdata", "docs", "checks.ipynb"),
		filepath.Join("testdata", "docs", "sub", "done.ipynb"),
	}, paths)

	_, err = Discover("testdata/nope")
	assert.Error(t, err)
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, name := range []string{"checks.ipynb", "sub/done.ipynb"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join("testdata", "docs", name)
			want, err := os.ReadFile(path)
			require.NoError(t, err)

			nb, err := Read(path)
			require.NoError(t, err)
			got, err := nb.Marshal()
			require.NoError(t, err)
			assert.Equal(t, string(want), string(got))
		})
	}
}

func TestRead_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("[1, 2]"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("null"), 0o644))
	_, err = Read(path)
	assert.Error(t, err)
}

func TestHideAllCode(t *testing.T) {
	root := copyDocs(t)
	paths, err := Discover(root)
	require.NoError(t, err)

	var out bytes.Buffer
	changed, err := HideAllCode(paths, Options{Out: &out})
	require.NoError(t, err)
	checks := filepath.Join(root, "checks.ipynb")
	assert.Equal(t, []string{checks}, changed)
	assert.Equal(t, "Hide code in "+checks+"\n", out.String())

	nb, err := Read(checks)
	require.NoError(t, err)
	cells := nb.Cells()
	require.Len(t, cells, 3)
	for _, c := range cells {
		tags, ok := lookup(c, "metadata", "tags")
		require.True(t, ok)
		assert.Contains(t, tags, DefaultTag)
	}
	tags, _ := lookup(cells[1], "metadata", "tags")
	assert.Equal(t, []any{"parameters", DefaultTag}, tags)

	// A second pass has nothing to do.
	out.Reset()
	changed, err = HideAllCode(paths, Options{Out: &out})
	require.NoError(t, err)
	assert.Empty(t, changed)
	assert.Empty(t, out.String())
}

func TestHideAllCode_CustomTag(t *testing.T) {
	root := copyDocs(t)
	done := filepath.Join(root, "sub", "done.ipynb")

	changed, err := HideAllCode([]string{done}, Options{Tag: "remove-cell", Out: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, []string{done}, changed)
}

func TestHideAllCode_DryRun(t *testing.T) {
	root := copyDocs(t)
	checks := filepath.Join(root, "checks.ipynb")
	before, err := os.ReadFile(checks)
	require.NoError(t, err)

	var out bytes.Buffer
	changed, err := HideAllCode([]string{checks}, Options{DryRun: true, Out: &out})
	require.NoError(t, err)
	assert.Len(t, changed, 1)
	assert.Contains(t, out.String(), "hide-input")

	after, err := os.ReadFile(checks)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestResizeImages(t *testing.T) {
	root := copyDocs(t)
	checks := filepath.Join(root, "checks.ipynb")

	var out bytes.Buffer
	changed, err := ResizeImages([]string{checks}, Options{Out: &out})
	require.NoError(t, err)
	assert.Equal(t, []string{checks}, changed)
	assert.Equal(t, "Resize images in "+checks+"\n", out.String())

	nb, err := Read(checks)
	require.NoError(t, err)
	cells := nb.Cells()

	_, ok := lookup(cells[0], "metadata", "render")
	assert.False(t, ok)
	w, ok := lookup(cells[1], "metadata", "render", "image", "width")
	require.True(t, ok)
	assert.Equal(t, "98%", w)
	w, ok = lookup(cells[2], "metadata", "render", "image", "width")
	require.True(t, ok)
	assert.Equal(t, "49%", w)

	changed, err = ResizeImages([]string{checks}, Options{Out: &out})
	require.NoError(t, err)
	assert.Empty(t, changed)
}

func TestRenderWidth(t *testing.T) {
	assert.Equal(t, "49%", RenderWidth(400))
	assert.Equal(t, "100%", RenderWidth(2000))
	assert.Equal(t, "12%", RenderWidth(100))
	assert.Equal(t, "0%", RenderWidth(0))
}

func TestDiff(t *testing.T) {
	d, err := Diff([]byte(`{"a": 1}`), []byte(`{"a": 1}`))
	require.NoError(t, err)
	assert.Empty(t, d)

	d, err = Diff([]byte(`{"a": 1}`), []byte(`{"a": 2}`))
	require.NoError(t, err)
	assert.Contains(t, d, "-")
	assert.Contains(t, d, "+")

	_, err = Diff([]byte(`{`), []byte(`{}`))
	assert.Error(t, err)
}
