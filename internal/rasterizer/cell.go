// Package rasterizer implements the analytic cell rasterizer core: an
// integer DDA that decomposes line segments into per-pixel (cover, area)
// deltas, and the scanline sweepers that turn accumulated cells into
// composited pixels. Three sweep organizations are provided, differing
// only in how they locate non-empty cells; their pixel output is
// identical.
package rasterizer

import (
	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/buffer"
)

// Cell accumulates the contribution of all edges crossing one pixel.
// Cover is the net signed vertical subpixel extent; Area is twice the
// signed trapezoid area the edges cut from the cell, in subpixel^2 units.
type Cell struct {
	Cover basics.Int32
	Area  basics.Int32
}

// CellRasterizer is the contract shared by the sweep variants. Edges are
// added in 24.8 fixed point; Render composites the accumulated coverage
// onto dst with a straight ARGB32 color and leaves every cell zeroed.
type CellRasterizer interface {
	Name() string
	Init(w, h int) bool
	Reset()
	Clear()
	SetFillRule(rule basics.FillingRule)
	SetWide(wide bool)
	AddLine(x0, y0, x1, y1 int)
	Render(dst *buffer.Image, argb32 uint32) bool
	Width() int
	Height() int
	Initialized() bool
}

// rasterState carries the cell grid and per-frame settings common to all
// variants. The grid has one sentinel column past the right edge so the
// boundary cell of a rightmost edge can be written without a bounds
// check; its stride is therefore w+1.
type rasterState struct {
	width       int
	height      int
	cellStride  int
	cells       []Cell
	fill        basics.FillingRule
	wide        bool
	initialized bool
}

func (r *rasterState) Width() int  { return r.width }
func (r *rasterState) Height() int { return r.height }

func (r *rasterState) Initialized() bool { return r.initialized }

func (r *rasterState) SetFillRule(rule basics.FillingRule) { r.fill = rule }
func (r *rasterState) SetWide(wide bool)                   { r.wide = wide }

// initCells resizes the grid for a w by h raster. It reports whether the
// grid is usable and whether the size actually changed; on a size change
// the new cells are zeroed. Negative dimensions collapse to an empty
// raster, which is a valid state.
func (r *rasterState) initCells(w, h int) (ok, resized bool) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w == r.width && h == r.height && r.initialized {
		return true, false
	}

	r.width = w
	r.height = h
	r.initialized = true

	if w == 0 || h == 0 {
		r.cellStride = 0
		r.cells = nil
		return true, true
	}

	r.cellStride = w + 1
	n := h * r.cellStride
	if n/h != r.cellStride {
		r.width = 0
		r.height = 0
		r.cellStride = 0
		r.cells = nil
		r.initialized = false
		return false, true
	}

	r.cells = make([]Cell, n)
	return true, true
}

func (r *rasterState) release() {
	r.width = 0
	r.height = 0
	r.cellStride = 0
	r.cells = nil
	r.initialized = false
}

// row returns the cell row of scanline y, including the sentinel column.
func (r *rasterState) row(y int) []Cell {
	off := y * r.cellStride
	return r.cells[off : off+r.cellStride]
}

func (r *rasterState) mergeCell(x, y, cover, area int) {
	c := &r.cells[y*r.cellStride+x]
	c.Cover += basics.Int32(cover)
	c.Area += basics.Int32(area)
}

// zeroCells resets cells[x0:x1] of one row.
func zeroCells(cells []Cell, x0, x1 int) {
	for x := x0; x < x1; x++ {
		cells[x] = Cell{}
	}
}

// empty reports whether the raster has no pixels to accumulate into.
func (r *rasterState) empty() bool {
	return r.width == 0 || r.height == 0
}
