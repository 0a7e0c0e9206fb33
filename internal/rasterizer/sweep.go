package rasterizer

import (
	"github.com/MeKo-Christian/refras/internal/basics"
	"github.com/MeKo-Christian/refras/internal/pixfmt"
)

// sweeper drives one render pass: it integrates cell covers into pixel
// masks and hands them to the compositor. Cells are zeroed as they are
// consumed so the next frame starts from a clean accumulator.
type sweeper struct {
	comp pixfmt.Compositor
	fill basics.FillingRule
}

func newSweeper(argb32 uint32, fill basics.FillingRule, wide bool) sweeper {
	return sweeper{comp: pixfmt.NewCompositor(argb32, wide), fill: fill}
}

// spanCells composites cells[x0:x1] of one row and zeroes them. Columns
// at or beyond xLim (the raster width) are integrated and zeroed but not
// composited; this absorbs the sentinel column. Returns the running
// integrated cover after x1.
func (s *sweeper) spanCells(row []uint32, cells []Cell, x0, x1, xLim, cover int) int {
	for x := x0; x < x1; x++ {
		cover += int(cells[x].Cover)
		area := int(cells[x].Area)
		cells[x] = Cell{}

		if x >= xLim {
			continue
		}

		mask := calcAlpha(s.fill, cover-(area>>basics.A8Shift2))
		if mask == 0 {
			continue
		}
		if mask == basics.A8Mask {
			row[x] = s.comp.Source()
		} else {
			row[x] = s.comp.Blend(row[x], uint32(mask))
		}
	}
	return cover
}

// constSpan composites the constant winding cover over row[x0:x1], a
// stretch with no touched cells.
func (s *sweeper) constSpan(row []uint32, x0, x1, cover int) {
	s.comp.FillSpan(row, x0, x1, uint32(calcAlpha(s.fill, cover)))
}
