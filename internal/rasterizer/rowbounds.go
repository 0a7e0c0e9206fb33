package rasterizer

import "github.com/MeKo-Christian/refras/internal/buffer"

// RowBounds tracks, per row, the inclusive column range of touched cells
// plus a global row range, so render and clear cost follow the covered
// area instead of the raster area.
type RowBounds struct {
	rasterState
	yBounds Bounds
	xBounds []Bounds
}

// NewRowBounds creates an uninitialized bounds-tracked rasterizer.
func NewRowBounds() *RowBounds {
	return &RowBounds{}
}

// Name identifies the sweep organization.
func (r *RowBounds) Name() string { return "bounds" }

// Init sizes the cell grid and the per-row bounds. When the size is
// unchanged only the touched region is cleared.
func (r *RowBounds) Init(w, h int) bool {
	ok, resized := r.initCells(w, h)
	switch {
	case !ok:
		r.yBounds.Reset()
		r.xBounds = nil
		return false
	case !resized:
		r.Clear()
		return true
	}

	r.yBounds.Reset()
	if r.height == 0 {
		r.xBounds = nil
		return true
	}
	r.xBounds = make([]Bounds, r.height)
	for y := range r.xBounds {
		r.xBounds[y].Reset()
	}
	return true
}

// Reset releases the grid and the bounds.
func (r *RowBounds) Reset() {
	r.release()
	r.yBounds.Reset()
	r.xBounds = nil
}

// Clear zeroes only the cells recorded as touched, then empties the
// trackers.
func (r *RowBounds) Clear() {
	if r.yBounds.Empty() {
		return
	}
	for y := r.yBounds.Start; y <= r.yBounds.End; y++ {
		xb := &r.xBounds[y]
		if !xb.Empty() {
			zeroCells(r.row(y), xb.Start, xb.End+1)
			xb.Reset()
		}
	}
	r.yBounds.Reset()
}

// AddLine accumulates one 24.8 fixed-point segment and publishes the
// touched cell ranges.
func (r *RowBounds) AddLine(x0, y0, x1, y1 int) {
	if !r.initialized || r.empty() {
		return
	}
	renderLine(&r.rasterState, r, x0, y0, x1, y1)
}

func (r *RowBounds) markY(ey0, ey1 int) {
	r.yBounds.Union(ey0, ey1)
}

func (r *RowBounds) markCell(ex, ey int) {
	r.xBounds[ey].Union(ex, ex)
}

func (r *RowBounds) markSpan(ey, ex0, ex1 int) {
	r.xBounds[ey].MergeStart(ex0)
	r.xBounds[ey].MergeEnd(ex1)
}

// Render composites the rows recorded as touched, zeroing cells and
// emptying the trackers as it sweeps.
func (r *RowBounds) Render(dst *buffer.Image, argb32 uint32) bool {
	if !r.initialized {
		return false
	}
	if r.yBounds.Empty() {
		return true
	}

	s := newSweeper(argb32, r.fill, r.wide)
	for y := r.yBounds.Start; y <= r.yBounds.End; y++ {
		xb := &r.xBounds[y]
		if xb.Empty() {
			continue
		}
		s.spanCells(dst.Row(y), r.row(y), xb.Start, xb.End+1, r.width, 0)
		xb.Reset()
	}
	r.yBounds.Reset()
	return true
}
