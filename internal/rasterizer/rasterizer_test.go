package rasterizer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/buffer"
)

func fixed(v float64) int { return int(v * basics.A8Scale) }

// addPoly feeds a closed polygon, given in pixel coordinates with the
// closing vertex included, through AddLine.
func addPoly(r CellRasterizer, poly [][2]float64) {
	x0 := fixed(poly[0][0])
	y0 := fixed(poly[0][1])
	for _, p := range poly[1:] {
		x1 := fixed(p[0])
		y1 := fixed(p[1])
		if x0 != x1 || y0 != y1 {
			r.AddLine(x0, y0, x1, y1)
		}
		x0, y0 = x1, y1
	}
}

// starPoly builds a closed pointed star, a workhorse shape with steep,
// shallow and crossing edges.
func starPoly(cx, cy, outer, inner float64, points int) [][2]float64 {
	poly := make([][2]float64, 0, 2*points+1)
	for i := 0; i < 2*points; i++ {
		r := outer
		if i&1 == 1 {
			r = inner
		}
		a := -math.Pi/2 + float64(i)*math.Pi/float64(points)
		poly = append(poly, [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return append(poly, poly[0])
}

// randomPoly builds a closed polygon with deterministic pseudo-random
// vertices inside a w by h raster.
func randomPoly(rng *rand.Rand, w, h float64, n int) [][2]float64 {
	poly := make([][2]float64, 0, n+1)
	for i := 0; i < n; i++ {
		poly = append(poly, [2]float64{rng.Float64() * w, rng.Float64() * h})
	}
	return append(poly, poly[0])
}

func allVariants() []CellRasterizer {
	return []CellRasterizer{
		NewDense(),
		NewRowBounds(),
		NewBitmap(4),
		NewBitmap(8),
		NewBitmap(16),
		NewBitmap(32),
	}
}

func TestHorizontalEdgeContributesNothing(t *testing.T) {
	r := NewDense()
	r.Init(8, 8)
	r.AddLine(fixed(0.25), fixed(3.5), fixed(7.75), fixed(3.5))

	for i, c := range r.cells {
		if c != (Cell{}) {
			t.Fatalf("cell %d = %+v after horizontal edge", i, c)
		}
	}
}

func TestDegenerateSegmentIgnored(t *testing.T) {
	r := NewDense()
	r.Init(8, 8)
	r.AddLine(fixed(2.5), fixed(2.5), fixed(2.5), fixed(2.5))

	for i, c := range r.cells {
		if c != (Cell{}) {
			t.Fatalf("cell %d = %+v after degenerate segment", i, c)
		}
	}
}

// For any closed polygon, the covers of every row must sum to zero:
// whatever winding an edge opens, another edge closes.
func TestRowCoverSumZero(t *testing.T) {
	const w, h = 64, 64
	rng := rand.New(rand.NewSource(7))

	polys := map[string][][2]float64{
		"square":   {{10, 10}, {50, 10}, {50, 50}, {10, 50}, {10, 10}},
		"star":     starPoly(32, 32, 28, 11, 5),
		"random12": randomPoly(rng, w, h, 12),
		"random31": randomPoly(rng, w, h, 31),
	}

	for name, poly := range polys {
		t.Run(name, func(t *testing.T) {
			r := NewDense()
			r.Init(w, h)
			addPoly(r, poly)

			for y := 0; y < h; y++ {
				sum := 0
				for _, c := range r.row(y) {
					sum += int(c.Cover)
				}
				if sum != 0 {
					t.Errorf("row %d cover sum = %d, want 0", y, sum)
				}
			}
		})
	}
}

// shoelace returns twice the signed polygon area in subpixel^2 units.
func shoelace(poly [][2]float64) int64 {
	var sum int64
	for i := 0; i+1 < len(poly); i++ {
		x0 := int64(fixed(poly[i][0]))
		y0 := int64(fixed(poly[i][1]))
		x1 := int64(fixed(poly[i+1][0]))
		y1 := int64(fixed(poly[i+1][1]))
		sum += x0*y1 - x1*y0
	}
	return sum
}

// The accumulated cells encode the polygon area exactly: summing
// 2*256*ex*cover + area over all cells recovers twice the signed area.
func TestSignedAreaBalance(t *testing.T) {
	const w, h = 16, 16

	polys := map[string][][2]float64{
		"square":   {{1, 1}, {3, 1}, {3, 3}, {1, 3}, {1, 1}},
		"triangle": {{0, 0}, {8, 0}, {8, 8}, {0, 0}},
		"reversed": {{1, 1}, {1, 3}, {3, 3}, {3, 1}, {1, 1}},
	}

	for name, poly := range polys {
		t.Run(name, func(t *testing.T) {
			r := NewDense()
			r.Init(w, h)
			addPoly(r, poly)

			var sum int64
			for y := 0; y < h; y++ {
				for x, c := range r.row(y) {
					sum += int64(2*basics.A8Scale*x)*int64(c.Cover) + int64(c.Area)
				}
			}

			if want := shoelace(poly); sum != want {
				t.Errorf("area sum = %d, want %d", sum, want)
			}
		})
	}
}

// A tiny triangle inside one pixel must touch exactly that cell.
func TestSinglePixelTriangle(t *testing.T) {
	r := NewDense()
	r.Init(8, 8)
	addPoly(r, [][2]float64{{3.25, 3.25}, {3.75, 3.25}, {3.5, 3.75}, {3.25, 3.25}})

	nonZero := 0
	for y := 0; y < 8; y++ {
		for x, c := range r.row(y) {
			if c != (Cell{}) {
				nonZero++
				if x != 3 || y != 3 {
					t.Errorf("unexpected cell at (%d,%d): %+v", x, y, c)
				}
			}
		}
	}
	if nonZero != 1 {
		t.Errorf("got %d non-zero cells, want 1", nonZero)
	}
}

// Render must leave every cell zeroed and every tracker empty, for all
// variants.
func TestRenderSelfClears(t *testing.T) {
	const w, h = 48, 40
	rng := rand.New(rand.NewSource(3))
	poly := randomPoly(rng, w, h, 17)

	for _, r := range allVariants() {
		t.Run(r.Name(), func(t *testing.T) {
			r.Init(w, h)
			addPoly(r, poly)

			dst := buffer.NewImage(w, h)
			if !r.Render(dst, 0xFF8040C0) {
				t.Fatal("Render returned false")
			}

			checkAllClear(t, r)
		})
	}
}

// Clear must do the same without rendering.
func TestClearZeroesTouchedCells(t *testing.T) {
	const w, h = 48, 40
	rng := rand.New(rand.NewSource(4))
	poly := randomPoly(rng, w, h, 9)

	for _, r := range allVariants() {
		t.Run(r.Name(), func(t *testing.T) {
			r.Init(w, h)
			addPoly(r, poly)
			r.Clear()
			checkAllClear(t, r)
		})
	}
}

func checkAllClear(t *testing.T, r CellRasterizer) {
	t.Helper()

	var cells []Cell
	switch v := r.(type) {
	case *Dense:
		cells = v.cells
	case *RowBounds:
		cells = v.cells
		if !v.yBounds.Empty() {
			t.Errorf("yBounds not empty: %+v", v.yBounds)
		}
		for y, xb := range v.xBounds {
			if !xb.Empty() {
				t.Errorf("xBounds[%d] not empty: %+v", y, xb)
			}
		}
	case *Bitmap:
		cells = v.cells
		if !v.yBounds.Empty() {
			t.Errorf("yBounds not empty: %+v", v.yBounds)
		}
		for i, bw := range v.bitWords {
			if bw != 0 {
				t.Errorf("bit word %d = %x, want 0", i, bw)
			}
		}
	}

	for i, c := range cells {
		if c != (Cell{}) {
			t.Fatalf("cell %d = %+v, want zero", i, c)
		}
	}
}

// All sweep variants must produce byte-identical pixels for identical
// input, including over a non-trivial destination.
func TestVariantEquivalence(t *testing.T) {
	const w, h = 100, 90
	rng := rand.New(rand.NewSource(11))

	shapes := map[string][][][2]float64{
		"star":     {starPoly(50, 45, 40, 16, 5)},
		"random":   {randomPoly(rng, w, h, 23)},
		"squares":  {{{5, 5}, {30, 5}, {30, 30}, {5, 30}, {5, 5}}, {{70, 60}, {95, 60}, {95, 85}, {70, 85}, {70, 60}}},
		"thinline": {{{2, 2}, {97, 3.5}, {97, 4}, {2, 2.25}, {2, 2}}},
	}

	background := func() *buffer.Image {
		img := buffer.NewImage(w, h)
		bg := rand.New(rand.NewSource(99))
		pix := img.Pix()
		for i := range pix {
			pix[i] = bg.Uint32()
		}
		return img
	}

	for name, polys := range shapes {
		for _, rule := range []basics.FillingRule{basics.FillNonZero, basics.FillEvenOdd} {
			t.Run(name+"/"+rule.String(), func(t *testing.T) {
				ref := NewDense()
				ref.Init(w, h)
				ref.SetFillRule(rule)
				for _, poly := range polys {
					addPoly(ref, poly)
				}
				want := background()
				ref.Render(want, 0xC03080F0)

				for _, r := range allVariants()[1:] {
					r.Init(w, h)
					r.SetFillRule(rule)
					for _, poly := range polys {
						addPoly(r, poly)
					}
					got := background()
					r.Render(got, 0xC03080F0)

					for i := range want.Pix() {
						if got.Pix()[i] != want.Pix()[i] {
							x, y := i%w, i/w
							t.Fatalf("%s: pixel (%d,%d) = %08X, dense = %08X",
								r.Name(), x, y, got.Pix()[i], want.Pix()[i])
						}
					}
				}
			})
		}
	}
}

// The wide compositing kernel must not change any pixel. Only the bitmap
// variant composites constant spans through it, so that is the one checked.
func TestWideKernelEquivalence(t *testing.T) {
	const w, h = 80, 64
	poly := starPoly(40, 32, 30, 12, 6)

	ref := NewBitmap(16)
	ref.Init(w, h)
	addPoly(ref, poly)
	want := buffer.NewImage(w, h)
	ref.Render(want, 0x80FFFFFF)

	r := NewBitmap(16)
	r.SetWide(true)
	r.Init(w, h)
	addPoly(r, poly)
	got := buffer.NewImage(w, h)
	r.Render(got, 0x80FFFFFF)

	for i := range want.Pix() {
		if got.Pix()[i] != want.Pix()[i] {
			t.Fatalf("pixel %d: wide %08X, scalar %08X", i, got.Pix()[i], want.Pix()[i])
		}
	}
}

// Rendering after a clear with no new edges must leave the destination
// untouched.
func TestRenderAfterClearIsNoOp(t *testing.T) {
	const w, h = 32, 32
	poly := starPoly(16, 16, 14, 6, 5)

	for _, r := range allVariants() {
		t.Run(r.Name(), func(t *testing.T) {
			r.Init(w, h)
			addPoly(r, poly)
			r.Clear()

			dst := buffer.NewImage(w, h)
			dst.Fill(0xFF123456)
			before := dst.Clone()

			if !r.Render(dst, 0xFFFFFFFF) {
				t.Fatal("Render returned false")
			}
			for i := range dst.Pix() {
				if dst.Pix()[i] != before.Pix()[i] {
					t.Fatalf("pixel %d modified: %08X", i, dst.Pix()[i])
				}
			}
		})
	}
}

func TestZeroSizeRaster(t *testing.T) {
	for _, r := range allVariants() {
		t.Run(r.Name(), func(t *testing.T) {
			if !r.Init(0, 0) {
				t.Fatal("Init(0,0) returned false")
			}
			r.AddLine(0, 0, 256, 256)
			if !r.Render(buffer.NewImage(0, 0), 0xFFFFFFFF) {
				t.Error("Render on zero-size raster returned false")
			}
		})
	}
}

func TestNegativeSizeTreatedAsEmpty(t *testing.T) {
	r := NewRowBounds()
	if !r.Init(-3, -7) {
		t.Fatal("Init(-3,-7) returned false")
	}
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", r.Width(), r.Height())
	}
}

func TestRenderUninitialized(t *testing.T) {
	for _, r := range allVariants() {
		if r.Render(buffer.NewImage(4, 4), 0xFFFFFFFF) {
			t.Errorf("%s: Render before Init returned true", r.Name())
		}
	}
}

// A polygon traced forward and then backward cancels to zero winding;
// nothing may be painted.
func TestCancelledWindingPaintsNothing(t *testing.T) {
	const w, h = 16, 16
	fwd := [][2]float64{{2.25, 2.5}, {13.5, 2.75}, {12.25, 13.5}, {3.5, 12.25}, {2.25, 2.5}}
	bwd := [][2]float64{{2.25, 2.5}, {3.5, 12.25}, {12.25, 13.5}, {13.5, 2.75}, {2.25, 2.5}}

	for _, r := range allVariants() {
		t.Run(r.Name(), func(t *testing.T) {
			r.Init(w, h)
			addPoly(r, fwd)
			addPoly(r, bwd)

			dst := buffer.NewImage(w, h)
			r.Render(dst, 0xFFFFFFFF)
			for i, px := range dst.Pix() {
				if px != 0 {
					t.Fatalf("pixel %d painted: %08X", i, px)
				}
			}
		})
	}
}

func TestInitReusesGridOnSameSize(t *testing.T) {
	r := NewDense()
	r.Init(16, 16)
	addPoly(r, starPoly(8, 8, 7, 3, 5))

	if !r.Init(16, 16) {
		t.Fatal("second Init returned false")
	}
	checkAllClear(t, r)
}
