package rasterizer

import (
	"math/bits"
	"strconv"

	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/buffer"
)

const (
	bitWordBits  = 64
	bitWordShift = 6
	bitWordMask  = bitWordBits - 1
)

// Bitmap tracks touched cells with one bit per group of pixelsPerBit
// columns per row, plus a global row range. Sweeping walks the set bits
// run by run: gaps between runs carry a constant winding and composite as
// whole spans, touched runs integrate cell by cell. Coarser groups
// shrink the bit rows at the cost of sweeping more untouched cells per
// set bit.
type Bitmap struct {
	rasterState
	yBounds    Bounds
	chunkShift uint // log2 of pixels per bit
	bitStride  int  // words per row
	bitWords   []uint64
}

// NewBitmap creates an uninitialized bitmap-tracked rasterizer grouping
// pixelsPerBit columns per bit. pixelsPerBit must be 4, 8, 16 or 32.
func NewBitmap(pixelsPerBit int) *Bitmap {
	var shift uint
	switch pixelsPerBit {
	case 4:
		shift = 2
	case 8:
		shift = 3
	case 16:
		shift = 4
	case 32:
		shift = 5
	default:
		panic("rasterizer: pixels per bit must be 4, 8, 16 or 32")
	}
	return &Bitmap{chunkShift: shift}
}

// Name identifies the sweep organization and its bit granularity.
func (r *Bitmap) Name() string {
	return "bitmap" + strconv.Itoa(1<<r.chunkShift)
}

// Init sizes the cell grid and the bit rows. When the size is unchanged
// only the touched region is cleared.
func (r *Bitmap) Init(w, h int) bool {
	ok, resized := r.initCells(w, h)
	switch {
	case !ok:
		r.yBounds.Reset()
		r.bitStride = 0
		r.bitWords = nil
		return false
	case !resized:
		r.Clear()
		return true
	}

	r.yBounds.Reset()
	if r.empty() {
		r.bitStride = 0
		r.bitWords = nil
		return true
	}

	// One bit per chunk, covering the sentinel column too.
	chunks := (r.cellStride + (1 << r.chunkShift) - 1) >> r.chunkShift
	r.bitStride = (chunks + bitWordMask) >> bitWordShift
	r.bitWords = make([]uint64, r.height*r.bitStride)
	return true
}

// Reset releases the grid and the bit rows.
func (r *Bitmap) Reset() {
	r.release()
	r.yBounds.Reset()
	r.bitStride = 0
	r.bitWords = nil
}

func (r *Bitmap) bitRow(y int) []uint64 {
	off := y * r.bitStride
	return r.bitWords[off : off+r.bitStride]
}

// Clear zeroes the cells under every set bit, consuming the bits.
func (r *Bitmap) Clear() {
	if r.yBounds.Empty() {
		return
	}
	for y := r.yBounds.Start; y <= r.yBounds.End; y++ {
		cells := r.row(y)
		words := r.bitRow(y)
		for wi, bw := range words {
			if bw == 0 {
				continue
			}
			words[wi] = 0
			base := wi << bitWordShift
			for bw != 0 {
				k := base + bits.TrailingZeros64(bw)
				bw &= bw - 1
				x0 := k << r.chunkShift
				x1 := basics.Min(x0+1<<r.chunkShift, r.cellStride)
				zeroCells(cells, x0, x1)
			}
		}
	}
	r.yBounds.Reset()
}

// AddLine accumulates one 24.8 fixed-point segment and flags the touched
// chunks.
func (r *Bitmap) AddLine(x0, y0, x1, y1 int) {
	if !r.initialized || r.empty() {
		return
	}
	renderLine(&r.rasterState, r, x0, y0, x1, y1)
}

func (r *Bitmap) markY(ey0, ey1 int) {
	r.yBounds.Union(ey0, ey1)
}

func (r *Bitmap) markCell(ex, ey int) {
	k := ex >> r.chunkShift
	r.bitWords[ey*r.bitStride+(k>>bitWordShift)] |= 1 << (k & bitWordMask)
}

func (r *Bitmap) markSpan(ey, ex0, ex1 int) {
	words := r.bitRow(ey)
	for k := ex0 >> r.chunkShift; k <= ex1>>r.chunkShift; k++ {
		words[k>>bitWordShift] |= 1 << (k & bitWordMask)
	}
}

// Render sweeps the touched rows run by run. Unset stretches between
// runs composite as constant-winding spans; set runs integrate their
// cells. Bits and cells are consumed, leaving the trackers empty.
func (r *Bitmap) Render(dst *buffer.Image, argb32 uint32) bool {
	if !r.initialized {
		return false
	}
	if r.yBounds.Empty() {
		return true
	}

	s := newSweeper(argb32, r.fill, r.wide)
	for y := r.yBounds.Start; y <= r.yBounds.End; y++ {
		r.renderRow(&s, dst.Row(y), y)
	}
	r.yBounds.Reset()
	return true
}

// renderRow consumes the bit words of one row: find the lowest set bit,
// clear it, and let consecutive bits coalesce into one covered run.
func (r *Bitmap) renderRow(s *sweeper, row []uint32, y int) {
	cells := r.row(y)
	words := r.bitRow(y)

	cover := 0
	x := 0
	runStart, runEnd := -1, -1

	flush := func() {
		if runStart < 0 {
			return
		}
		px0 := runStart << r.chunkShift
		px1 := basics.Min(runEnd<<r.chunkShift, r.cellStride)
		if px0 > x {
			s.constSpan(row, x, basics.Min(px0, r.width), cover)
		}
		cover = s.spanCells(row, cells, px0, px1, r.width, cover)
		x = px1
	}

	for wi, bw := range words {
		if bw == 0 {
			continue
		}
		words[wi] = 0
		base := wi << bitWordShift
		for bw != 0 {
			k := base + bits.TrailingZeros64(bw)
			bw &= bw - 1
			if k == runEnd {
				runEnd++
				continue
			}
			flush()
			runStart, runEnd = k, k+1
		}
	}
	flush()

	if x < r.width {
		s.constSpan(row, x, r.width, cover)
	}
}
