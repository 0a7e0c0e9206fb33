// Package refras is an analytic 2D polygon rasterizer. Paths given as
// floating-point polygons, with optional quadratic and cubic Bezier
// segments, are converted to 24.8 fixed point, decomposed into exact
// per-pixel (cover, area) contributions, and composited onto a 32-bit
// premultiplied ARGB raster with either the non-zero or the even-odd
// fill rule.
//
// A Rasterizer is built over one of several sweep organizations that
// trade edge-insertion bookkeeping against render cost; all variants
// produce identical pixels. A frame is: any number of AddPoly / AddLine /
// AddQuad / AddCubic calls, one Render, which composites and resets the
// accumulator. Instances are not safe for concurrent use.
//
//	ras := refras.New(refras.RowBounds, refras.Options{})
//	ras.Init(640, 480)
//	ras.AddPoly([]refras.Point{{10, 10}, {600, 40}, {300, 470}, {10, 10}})
//	img := refras.NewImage(640, 480)
//	ras.Render(img, 0xFF3060C0)
package refras

import (
	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/buffer"
	"github.com/MeKo-Christian/refras/internal/curves"
	"github.com/MeKo-Christian/refras/internal/rasterizer"
)

// Point is a polygon vertex in pixel coordinates.
type Point struct {
	X, Y float64
}

// FillRule selects the winding-to-coverage mapping.
type FillRule = basics.FillingRule

const (
	NonZero = basics.FillNonZero
	EvenOdd = basics.FillEvenOdd
)

// Image is the premultiplied ARGB32 destination raster.
type Image = buffer.Image

// NewImage allocates a zeroed destination raster.
func NewImage(w, h int) *Image { return buffer.NewImage(w, h) }

// Variant selects the sweep organization of a Rasterizer.
type Variant int

const (
	// Dense sweeps the full raster every render.
	Dense Variant = iota
	// RowBounds sweeps only the per-row column ranges touched by edges.
	RowBounds
	// Bitmap4 through Bitmap32 sweep runs of touched cell groups located
	// through per-row bit vectors, one bit per 4..32 columns.
	Bitmap4
	Bitmap8
	Bitmap16
	Bitmap32
)

// Variants lists every sweep organization.
func Variants() []Variant {
	return []Variant{Dense, RowBounds, Bitmap4, Bitmap8, Bitmap16, Bitmap32}
}

// String returns the variant name as reported by Rasterizer.Name.
func (v Variant) String() string {
	switch v {
	case Dense:
		return "dense"
	case RowBounds:
		return "bounds"
	case Bitmap4:
		return "bitmap4"
	case Bitmap8:
		return "bitmap8"
	case Bitmap16:
		return "bitmap16"
	case Bitmap32:
		return "bitmap32"
	}
	return "unknown"
}

// Options carries construction-time switches.
type Options struct {
	// SIMD enables the wide compositing kernel for constant-coverage
	// spans. Output is bit-identical either way.
	SIMD bool
}

// Rasterizer converts polygons to coverage and composites them. The
// zero value is not usable; construct with New.
type Rasterizer struct {
	impl rasterizer.CellRasterizer
}

// New creates a rasterizer over the given sweep variant. It must be
// sized with Init before any edges are added.
func New(v Variant, opt Options) *Rasterizer {
	var impl rasterizer.CellRasterizer
	switch v {
	case RowBounds:
		impl = rasterizer.NewRowBounds()
	case Bitmap4:
		impl = rasterizer.NewBitmap(4)
	case Bitmap8:
		impl = rasterizer.NewBitmap(8)
	case Bitmap16:
		impl = rasterizer.NewBitmap(16)
	case Bitmap32:
		impl = rasterizer.NewBitmap(32)
	default:
		impl = rasterizer.NewDense()
	}
	impl.SetWide(opt.SIMD)
	return &Rasterizer{impl: impl}
}

// Name identifies the sweep variant.
func (r *Rasterizer) Name() string { return r.impl.Name() }

// Init sizes the rasterizer for a w by h raster, clearing any previous
// accumulation. Negative dimensions collapse to an empty raster, which
// is valid; the result is false only when the grid cannot be allocated.
func (r *Rasterizer) Init(w, h int) bool { return r.impl.Init(w, h) }

// Reset releases all memory; the rasterizer must be re-initialized.
func (r *Rasterizer) Reset() { r.impl.Reset() }

// Clear zeroes every accumulated cell without rendering.
func (r *Rasterizer) Clear() { r.impl.Clear() }

// SetFillRule selects the winding-to-coverage mapping for the next
// render.
func (r *Rasterizer) SetFillRule(rule FillRule) { r.impl.SetFillRule(rule) }

// Width returns the raster width in pixels.
func (r *Rasterizer) Width() int { return r.impl.Width() }

// Height returns the raster height in pixels.
func (r *Rasterizer) Height() int { return r.impl.Height() }

// fixed converts a pixel coordinate to 24.8, truncating toward zero.
func fixed(v float64) int { return int(v * basics.A8Scale) }

// AddPoly accumulates a closed polyline. The caller supplies the closing
// vertex; zero-length segments are skipped. Reports false only when the
// rasterizer was never initialized.
func (r *Rasterizer) AddPoly(poly []Point) bool {
	if !r.impl.Initialized() {
		return false
	}
	if len(poly) < 2 {
		return true
	}

	x0 := fixed(poly[0].X)
	y0 := fixed(poly[0].Y)

	for _, p := range poly[1:] {
		x1 := fixed(p.X)
		y1 := fixed(p.Y)

		if x0 != x1 || y0 != y1 {
			r.impl.AddLine(x0, y0, x1, y1)
		}

		x0 = x1
		y0 = y1
	}
	return true
}

// AddLine accumulates one segment given directly in 24.8 fixed point.
func (r *Rasterizer) AddLine(x0, y0, x1, y1 int) {
	if x0 != x1 || y0 != y1 {
		r.impl.AddLine(x0, y0, x1, y1)
	}
}

// AddQuad accumulates a quadratic Bezier segment, flattened to lines.
func (r *Rasterizer) AddQuad(p0, p1, p2 Point) {
	if !r.impl.Initialized() {
		return
	}
	curves.FlattenQuad(r.impl,
		fixed(p0.X), fixed(p0.Y),
		fixed(p1.X), fixed(p1.Y),
		fixed(p2.X), fixed(p2.Y))
}

// AddCubic accumulates a cubic Bezier segment, flattened to lines.
func (r *Rasterizer) AddCubic(p0, p1, p2, p3 Point) {
	if !r.impl.Initialized() {
		return
	}
	curves.FlattenCubic(r.impl,
		fixed(p0.X), fixed(p0.Y),
		fixed(p1.X), fixed(p1.Y),
		fixed(p2.X), fixed(p2.Y),
		fixed(p3.X), fixed(p3.Y))
}

// Render composites the accumulated coverage over dst with a straight
// ARGB32 color. On return every cell is zero and the dirty trackers are
// empty; rendering again without new edges leaves dst untouched.
// Reports false only for a rasterizer that was never initialized.
func (r *Rasterizer) Render(dst *Image, argb32 uint32) bool {
	return r.impl.Render(dst, argb32)
}

// SweepCoverage writes the 8-bit coverage mask of row y into buf without
// consuming the accumulated cells. Only the dense variant supports
// coverage-only sweeps; others report false.
func (r *Rasterizer) SweepCoverage(y int, buf []uint8) bool {
	d, ok := r.impl.(*rasterizer.Dense)
	if !ok {
		return false
	}
	d.SweepCoverage(y, buf)
	return true
}
