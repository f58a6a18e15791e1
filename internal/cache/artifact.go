// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	_ "gonum.org/v1/plot/vg/vgeps" // eps for SaveAs
	"gonum.org/v1/plot/vg/vgimg"
	_ "gonum.org/v1/plot/vg/vgpdf" // pdf for SaveAs
	_ "gonum.org/v1/plot/vg/vgsvg" // svg for SaveAs
)

// Kind tells images and tables apart.
type Kind int

const (
	KindImage Kind = iota
	KindTable
)

func (k Kind) String() string {
	if k == KindTable {
		return "table"
	}
	return "image"
}

// Artifact is one output of a memoized function.
type Artifact interface {
	Kind() Kind
}

// Drawer is anything that renders itself onto a canvas. *plot.Plot and
// *hplot.TiledPlot both qualify.
type Drawer interface {
	Draw(draw.Canvas)
}

// Figure is a freshly made image.
type Figure struct {
	Drawer Drawer
	Width  vg.Length
	Height vg.Length
}

func (*Figure) Kind() Kind { return KindImage }

// SavePNG renders the figure to a PNG file at the given resolution.
func (f *Figure) SavePNG(path string, dpi int) error {
	c := vgimg.NewWith(vgimg.UseWH(f.Width, f.Height), vgimg.UseDPI(dpi))
	f.Drawer.Draw(draw.New(c))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// SaveAs renders the figure in the format implied by the extension of path
// (eps, jpg, pdf, png, svg, tif).
func (f *Figure) SaveAs(path string) error {
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, err := draw.NewFormattedCanvas(f.Width, f.Height, format)
	if err != nil {
		return fmt.Errorf("unsupported image format %q: %w", format, err)
	}
	f.Drawer.Draw(draw.New(c))

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if _, err := c.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// Image is a figure loaded back from the cache. Only its location is known.
type Image struct {
	Path string
}

func (*Image) Kind() Kind { return KindImage }

// Table is a small labelled grid of values. The index labels the rows and is
// written as the first CSV column under IndexName.
type Table struct {
	IndexName string
	Index     []string
	Columns   []string
	Rows      [][]string
}

func (*Table) Kind() Kind { return KindTable }

// NewTable returns an empty table with the given index name and columns.
func NewTable(indexName string, columns ...string) *Table {
	return &Table{IndexName: indexName, Columns: columns}
}

// AddRow appends a row. Values are formatted with %v, so pass ints for
// integer columns.
func (t *Table) AddRow(index any, values ...any) {
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	t.Index = append(t.Index, fmt.Sprint(index))
	t.Rows = append(t.Rows, row)
}

// Column returns the position of the named column or -1.
func (t *Table) Column(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Int returns the cell at (row, column name) as an integer.
func (t *Table) Int(row int, column string) (int, error) {
	c := t.Column(column)
	if c < 0 {
		return 0, fmt.Errorf("no column %q", column)
	}
	if row < 0 || row >= len(t.Rows) || c >= len(t.Rows[row]) {
		return 0, fmt.Errorf("no cell at row %d column %q", row, column)
	}
	return strconv.Atoi(t.Rows[row][c])
}

// WriteCSV writes the table with its index as the first column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{t.IndexName}, t.Columns...)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		idx := ""
		if i < len(t.Index) {
			idx = t.Index[i]
		}
		if err := cw.Write(append([]string{idx}, row...)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadTable parses a CSV written by WriteCSV. The first column becomes the
// index.
func ReadTable(r io.Reader) (*Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("failed to parse table: no header")
	}

	header := records[0]
	t := &Table{IndexName: header[0], Columns: header[1:]}
	for _, rec := range records[1:] {
		t.Index = append(t.Index, rec[0])
		t.Rows = append(t.Rows, rec[1:])
	}
	return t, nil
}
