// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package plots holds the histogram and styling helpers shared by the
// physics checks.
package plots

import (
	"image/color"
	"math"

	"go-hep.org/x/hep/hbook"
	"go-hep.org/x/hep/hplot"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/staranto/lciochecks/internal/cache"
)

// cycle is the default ten-color property cycle scientists are used to
// seeing as C0..C9.
var cycle = []color.NRGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

// Color returns Ci with the given opacity in [0, 1].
func Color(i int, alpha float64) color.NRGBA {
	c := cycle[i%len(cycle)]
	c.A = uint8(math.Round(alpha * 0xff))
	return c
}

// Arange returns start, start+step, ... for all values below stop.
func Arange(start, stop, step float64) []float64 {
	var out []float64
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v >= stop {
			break
		}
		out = append(out, v)
	}
	return out
}

// Linspace returns n evenly spaced values over [start, stop].
func Linspace(start, stop float64, n int) []float64 {
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// Edges makes bin edges usable by hbook: at least two, strictly increasing.
// Short inputs are padded with one more bin of width step.
func Edges(edges []float64, step float64) []float64 {
	switch len(edges) {
	case 0:
		return []float64{0, step}
	case 1:
		return []float64{edges[0], edges[0] + step}
	}
	return edges
}

// Fill histograms xs into bins with the given edges.
func Fill(edges []float64, xs []float64) *hbook.H1D {
	h := hbook.NewH1DFromEdges(edges)
	for _, x := range xs {
		h.Fill(x, 1)
	}
	return h
}

// Positive rebins h onto edges that start at floor, keeping bin contents,
// so it can be drawn on a log x axis. Bins ending at or below floor are
// dropped and the first kept bin is cut down to start at floor.
func Positive(h *hbook.H1D, edges []float64, floor float64) *hbook.H1D {
	var kept []float64
	var values []float64
	for i := 0; i+1 < len(edges); i++ {
		lo, hi := edges[i], edges[i+1]
		if hi <= floor {
			continue
		}
		if len(kept) == 0 {
			kept = append(kept, math.Max(lo, floor))
		}
		kept = append(kept, hi)
		values = append(values, h.Value(i))
	}
	if len(kept) < 2 {
		kept = []float64{floor, 10 * floor} //nolint:mnd
		values = []float64{0}
	}

	out := hbook.NewH1DFromEdges(kept)
	for i, v := range values {
		if v != 0 {
			out.Fill((kept[i]+kept[i+1])/2, v)
		}
	}
	return out
}

// LogX switches p to a logarithmic x axis spanning [floor, edges[len-1]].
// Call it after the histograms are added since Add resets the range.
func LogX(p *hplot.Plot, edges []float64, floor float64) {
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.X.Min = floor
	p.X.Max = math.Max(edges[len(edges)-1], 10*floor) //nolint:mnd
}

// Panel returns a fresh plot suitable for a tile in a figure.
func Panel() *hplot.Plot {
	p := hplot.New()
	p.Legend.Top = true
	return p
}

// AddHist draws h onto p with the fill color c and, when label is not empty,
// a legend entry. Logarithmic panels skip empty histograms since there is no
// positive value to anchor the axis.
func AddHist(p *hplot.Plot, h *hbook.H1D, label string, c color.Color, logY bool) {
	if logY && h.SumW() == 0 {
		return
	}
	hh := hplot.NewH1D(h, hplot.WithLogY(logY), hplot.WithHInfo(hplot.HInfoNone))
	hh.FillColor = c
	hh.LineStyle.Color = c
	p.Add(hh)
	if label != "" {
		p.Legend.Add(label, hh)
	}
	if logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
}

// Grid lays plots out in rows x cols tiles and wraps them as a cache figure.
func Grid(rows, cols int, width, height vg.Length, fill func(row, col int, p *hplot.Plot)) *cache.Figure {
	tp := hplot.NewTiledPlot(draw.Tiles{Rows: rows, Cols: cols, PadX: vg.Millimeter, PadY: vg.Millimeter})
	tp.Align = true
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			// TiledPlot.Plot takes the column first.
			p := tp.Plot(c, r)
			p.Legend.Top = true
			fill(r, c, p)
		}
	}
	return &cache.Figure{Drawer: tp, Width: width, Height: height}
}
