// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package notebook

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

const (
	// DefaultTag hides the input of a cell in the rendered book.
	DefaultTag = "hide-input"

	ipythonImage    = "<IPython.core.display.Image object>"
	defaultImgWidth = 400.0
	maxWidthPercent = 100
)

// Options control how a pass reports and persists its changes.
type Options struct {
	// Tag is the cell tag added by HideAllCode. Empty means DefaultTag.
	Tag string
	// DryRun prints a diff of each changed notebook instead of writing it.
	DryRun bool
	// Out receives the progress lines and diffs. Nil means os.Stdout.
	Out io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

// HideAllCode adds the hide tag to every cell of every notebook. It returns
// the notebooks that changed.
func HideAllCode(paths []string, opts Options) ([]string, error) {
	tag := opts.Tag
	if tag == "" {
		tag = DefaultTag
	}
	return apply(paths, opts, "Hide code in", func(nb *Notebook) bool {
		return HideCode(nb, tag)
	})
}

// ResizeImages sets a relative render width on every code cell that shows an
// IPython image. It returns the notebooks that changed.
func ResizeImages(paths []string, opts Options) ([]string, error) {
	return apply(paths, opts, "Resize images in", Resize)
}

func apply(paths []string, opts Options, verb string, edit func(*Notebook) bool) ([]string, error) {
	w := opts.out()
	var changed []string

	for _, path := range paths {
		nb, err := Read(path)
		if err != nil {
			return changed, err
		}

		var before []byte
		if opts.DryRun {
			if before, err = nb.Marshal(); err != nil {
				return changed, err
			}
		}

		if !edit(nb) {
			log.Debugf("unchanged %s", path)
			continue
		}
		changed = append(changed, path)
		fmt.Fprintln(w, verb, path)

		if opts.DryRun {
			after, err := nb.Marshal()
			if err != nil {
				return changed, err
			}
			diff, err := Diff(before, after)
			if err != nil {
				return changed, err
			}
			fmt.Fprint(w, diff)
			continue
		}

		if err := nb.Write(); err != nil {
			return changed, err
		}
	}
	return changed, nil
}

// HideCode ensures every cell carries tag in metadata.tags.
func HideCode(nb *Notebook, tag string) bool {
	changed := false
	for _, cell := range nb.Cells() {
		meta := child(cell, "metadata")
		tags, _ := meta["tags"].([]any)

		found := false
		for _, t := range tags {
			if s, ok := t.(string); ok && s == tag {
				found = true
				break
			}
		}
		if found {
			continue
		}
		meta["tags"] = append(tags, tag)
		changed = true
	}
	return changed
}

// Resize stores the render width of IPython images in
// metadata.render.image.width. Cells already at the right width are not
// touched.
func Resize(nb *Notebook) bool {
	changed := false
	for _, cell := range nb.Cells() {
		if cell["cell_type"] != "code" {
			continue
		}
		output := imageOutput(cell)
		if output == nil {
			continue
		}

		width := defaultImgWidth
		if v, ok := lookup(output, "metadata", "image/png", "width"); ok {
			if f, ok := toFloat(v); ok {
				width = f
			}
		}
		want := RenderWidth(width)

		if v, ok := lookup(cell, "metadata", "render", "image", "width"); ok && v == want {
			continue
		}
		render := child(child(cell, "metadata"), "render")
		render["image"] = map[string]any{"width": want}
		changed = true
	}
	return changed
}

// RenderWidth converts an image width in pixels into the percentage used by
// the book.
func RenderWidth(pixels float64) string {
	//nolint:mnd
	return strconv.Itoa(min(maxWidthPercent, int(49*pixels/defaultImgWidth))) + "%"
}

func imageOutput(cell map[string]any) map[string]any {
	outputs, _ := cell["outputs"].([]any)
	for _, o := range outputs {
		output, ok := o.(map[string]any)
		if !ok {
			continue
		}
		text, ok := lookup(output, "data", "text/plain")
		if ok && strings.Contains(joinText(text), ipythonImage) {
			return output
		}
	}
	return nil
}

// joinText flattens nbformat multiline strings, which are stored either as
// one string or as a list of lines.
func joinText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		var sb strings.Builder
		for _, line := range t {
			if s, ok := line.(string); ok {
				sb.WriteString(s)
			}
		}
		return sb.String()
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// Diff renders the change from before to after as an ASCII JSON diff. Equal
// documents give an empty string.
func Diff(before, after []byte) (string, error) {
	d, err := gojsondiff.New().Compare(before, after)
	if err != nil {
		return "", fmt.Errorf("failed to diff notebooks: %w", err)
	}
	if !d.Modified() {
		return "", nil
	}

	var left map[string]interface{}
	if err := json.Unmarshal(before, &left); err != nil {
		return "", fmt.Errorf("failed to diff notebooks: %w", err)
	}
	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	return f.Format(d)
}
