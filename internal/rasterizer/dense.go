package rasterizer

import (
	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/buffer"
)

// Dense sweeps every column of every row. It keeps no dirty state, so
// adding edges is as cheap as it gets and render cost is proportional to
// the raster area.
type Dense struct {
	rasterState
}

// NewDense creates an uninitialized dense-sweep rasterizer.
func NewDense() *Dense {
	return &Dense{}
}

// Name identifies the sweep organization.
func (r *Dense) Name() string { return "dense" }

// Init sizes the cell grid for a w by h raster. The grid is retained and
// merely cleared when the size is unchanged.
func (r *Dense) Init(w, h int) bool {
	ok, resized := r.initCells(w, h)
	if ok && !resized {
		r.Clear()
	}
	return ok
}

// Reset releases the grid.
func (r *Dense) Reset() {
	r.release()
}

// Clear zeroes every cell.
func (r *Dense) Clear() {
	for i := range r.cells {
		r.cells[i] = Cell{}
	}
}

// AddLine accumulates one 24.8 fixed-point segment.
func (r *Dense) AddLine(x0, y0, x1, y1 int) {
	if !r.initialized || r.empty() {
		return
	}
	renderLine(&r.rasterState, nullTracker{}, x0, y0, x1, y1)
}

// Render composites the accumulated coverage over dst with the given
// straight ARGB32 color, zeroing the grid as it sweeps.
func (r *Dense) Render(dst *buffer.Image, argb32 uint32) bool {
	if !r.initialized {
		return false
	}

	s := newSweeper(argb32, r.fill, r.wide)
	for y := 0; y < r.height; y++ {
		s.spanCells(dst.Row(y), r.row(y), 0, r.cellStride, r.width, 0)
	}
	return true
}

// SweepCoverage writes the 8-bit coverage mask of row y into buf without
// disturbing the cells, for coverage-only consumers.
func (r *Dense) SweepCoverage(y int, buf []basics.Int8u) {
	cells := r.row(y)
	cover := 0
	for x := 0; x < r.width; x++ {
		cover += int(cells[x].Cover)
		buf[x] = basics.Int8u(calcAlpha(r.fill, cover-(int(cells[x].Area)>>basics.A8Shift2)))
	}
}
