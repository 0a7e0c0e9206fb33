package rasterizer

import "github.com/MeKo-Christian/refras/internal/basics"

// tracker receives the location of every cell or cell span an edge walk
// merges into, so a variant can maintain its dirty bookkeeping. The dense
// variant plugs in a no-op tracker.
type tracker interface {
	// markY records the inclusive row range a segment touches.
	markY(ey0, ey1 int)
	// markCell records a single merged cell.
	markCell(ex, ey int)
	// markSpan records an inclusive run of merged cells on one row.
	markSpan(ey, ex0, ex1 int)
}

type nullTracker struct{}

func (nullTracker) markY(ey0, ey1 int)        {}
func (nullTracker) markCell(ex, ey int)       {}
func (nullTracker) markSpan(ey, ex0, ex1 int) {}

// renderLine walks one directed segment in 24.8 fixed point and merges
// (cover, area) deltas into the grid, one or two cells at a time.
//
// The walk is normalized to run left-to-right and top-to-bottom; the
// original direction survives in coverSign and yInc. Two error-term DDAs
// (xErr against dy, yErr against dx) advance the subpixel position one
// scanline at a time without accumulating truncation error. The jump
// threading of the classical formulation is re-expressed here as a skip
// flag in the vertical-major regime and an explicit state machine in the
// horizontal-major regime; xErr is only ever advanced at full-scanline
// steps, yErr at each column crossing, and the first and last scanlines
// run the shared loop body with their true fractional extents.
func renderLine(g *rasterState, t tracker, ix0, iy0, ix1, iy1 int) {
	x0 := int64(ix0)
	y0 := int64(iy0)
	x1 := int64(ix1)
	y1 := int64(iy1)

	dx := x1 - x0
	dy := y1 - y0

	// Horizontal segments carry no signed coverage.
	if dy == 0 {
		return
	}

	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	yInc := 1
	coverSign := 1

	// Right-to-left: swap the endpoints, invert the cover sign.
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		coverSign = -coverSign
	}

	// Bottom-to-top: reflect the fractional part of y0 inside its pixel,
	// invert the cover sign, and walk rows upward.
	if y0 > y1 {
		y0 ^= basics.A8Mask
		if y0&basics.A8Mask == basics.A8Mask {
			y0 += 1 - basics.A8Scale*2
		} else {
			y0++
		}
		y1 = y0 + dy

		yInc = -1
		coverSign = -coverSign
	}

	ex0 := int(x0 >> basics.A8Shift)
	fx0 := int(x0 & basics.A8Mask)

	ey0 := int(y0 >> basics.A8Shift)
	fy0 := int(y0 & basics.A8Mask)

	ex1 := int(x1 >> basics.A8Shift)
	fy1 := int(y1 & basics.A8Mask)

	cover := int(dy) * coverSign
	var area int

	// i counts the scanline steps of the current run, j the steps queued
	// after it: 1 for the top partial, then j-1 full interior scanlines,
	// then the bottom partial if y1 has a fractional part.
	i := 1
	j := int(y1>>basics.A8Shift) - ey0

	// Single cell.
	if j == 0 && fx0+int(dx) <= basics.A8Scale {
		t.markY(ey0, ey0)
		t.markCell(ex0, ey0)
		g.mergeCell(ex0, ey0, cover, (fx0*2+int(dx))*cover)
		return
	}

	steps := j
	if fy1 != 0 {
		steps++
	}
	// ey1 is the walk sentinel, one row past the last merge.
	ey1 := ey0 + steps*yInc
	if yInc > 0 {
		t.markY(ey0, ey1-1)
	} else {
		t.markY(ey1+1, ey0)
	}

	// Strictly vertical: one cell per scanline.
	if dx == 0 {
		if j > 0 {
			cover = (basics.A8Scale - fy0) * coverSign
		}
		fullCover := coverSign << basics.A8Shift
		lastCover := fy1 * coverSign
		fx2 := fx0 * 2

		for {
			area = fx2 * cover
			for {
				t.markCell(ex0, ey0)
				g.mergeCell(ex0, ey0, cover, area)
				ey0 += yInc
				i--
				if i == 0 {
					break
				}
			}

			if ey0 == ey1 {
				return
			}

			cover = lastCover
			i = j
			j = 1

			if i > 1 {
				cover = fullCover
				i--
			}
		}
	}

	xErr := -dy / 2
	yErr := -dx / 2

	xBase := dx * basics.A8Scale
	xLift := xBase / dy
	xRem := xBase % dy

	yBase := dy * basics.A8Scale
	yLift := yBase / dx
	yRem := yBase % dx

	xDlt := dx
	yDlt := dy

	if j != 0 {
		p := int64(basics.A8Scale-fy0) * dx
		xDlt = p / dy
		xErr += p % dy
		fy1 = basics.A8Scale
	}

	if ex0 != ex1 {
		p := int64(basics.A8Scale-fx0) * dy
		yDlt = p / dx
		yErr += p % dx
	}

	// Vertical-major: one or two cells per scanline.
	if dy >= dx {
		// yAcc is the fixed-point y of the next column crossing; only its
		// in-scanline fraction is ever read.
		yAcc := int(y0) + int(yDlt)
		skip := true

		for {
			for {
				if !skip {
					xDlt = xLift
					xErr += xRem
					if xErr >= 0 {
						xErr -= dy
						xDlt++
					}
				}
				skip = false

				area = fx0
				fx0 += int(xDlt)

				if fx0 <= basics.A8Scale {
					cover = (fy1 - fy0) * coverSign
					area = (area + fx0) * cover
					t.markCell(ex0, ey0)
					g.mergeCell(ex0, ey0, cover, area)

					if fx0 == basics.A8Scale {
						ex0++
						fx0 = 0

						yAcc += int(yLift)
						yErr += yRem
						if yErr >= 0 {
							yErr -= dx
							yAcc++
						}
					}
				} else {
					yAcc &= basics.A8Mask
					fx0 &= basics.A8Mask

					cover = (yAcc - fy0) * coverSign
					area = (area + basics.A8Scale) * cover
					t.markSpan(ey0, ex0, ex0+1)
					g.mergeCell(ex0, ey0, cover, area)
					ex0++

					cover = (fy1 - yAcc) * coverSign
					area = fx0 * cover
					g.mergeCell(ex0, ey0, cover, area)

					yAcc += int(yLift)
					yErr += yRem
					if yErr >= 0 {
						yErr -= dx
						yAcc++
					}
				}

				ey0 += yInc
				i--
				if i == 0 {
					break
				}
			}

			if ey0 == ey1 {
				return
			}

			i = j
			j = 1

			if i > 1 {
				fy0 = 0
				fy1 = basics.A8Scale
				i--
			} else {
				fy0 = 0
				fy1 = int(y1 & basics.A8Mask)
				xDlt = x1 - (int64(ex0) << basics.A8Shift) - int64(fx0)
				skip = true
			}
		}
	}

	// Horizontal-major: two or more cells per scanline, driven by a small
	// state machine.
	const (
		hzAdvance = iota // full-scanline DDA advance
		hzSkip           // rebase the row cover accumulator
		hzInside         // emit the cells of one scanline run
		hzSingle         // whole scanline fits one cell
		hzAfter          // bookkeeping between scanline runs
	)

	var fx1 int
	coverAcc := fy0

	cover = int(yDlt)
	coverAcc += cover

	if j != 0 {
		fy1 = basics.A8Scale
	}

	state := hzInside
	if fx0+int(xDlt) <= basics.A8Scale {
		x0 += xDlt
		cover = (fy1 - fy0) * coverSign
		area = (fx0*2 + int(xDlt)) * cover
		state = hzSingle
	}

	for {
		switch state {
		case hzSingle:
			t.markCell(ex0, ey0)
			g.mergeCell(ex0, ey0, cover, area)

			ey0 += yInc
			if ey0 == ey1 {
				return
			}

			if fx0+int(xDlt) == basics.A8Scale {
				coverAcc += int(yLift)
				yErr += yRem
				if yErr >= 0 {
					yErr -= dx
					coverAcc++
				}
			}

			i--
			if i == 0 {
				state = hzAfter
			} else {
				state = hzAdvance
			}

		case hzAdvance:
			xDlt = xLift
			xErr += xRem
			if xErr >= 0 {
				xErr -= dy
				xDlt++
			}

			ex0 = int(x0 >> basics.A8Shift)
			fx0 = int(x0 & basics.A8Mask)
			state = hzSkip

		case hzSkip:
			coverAcc -= basics.A8Scale
			cover = coverAcc
			state = hzInside

		case hzInside:
			x0 += xDlt

			ex1 = int(x0 >> basics.A8Shift)
			fx1 = int(x0 & basics.A8Mask)

			if fx1 == 0 {
				fx1 = basics.A8Scale
			} else {
				ex1++
			}

			area = (fx0 + basics.A8Scale) * cover
			spanStart := ex0

			for ex0 != ex1-1 {
				g.mergeCell(ex0, ey0, cover*coverSign, area*coverSign)

				cover = int(yLift)
				yErr += yRem
				if yErr >= 0 {
					yErr -= dx
					cover++
				}

				coverAcc += cover
				area = basics.A8Scale * cover
				ex0++
			}

			cover += fy1 - coverAcc
			area = fx1 * cover
			t.markSpan(ey0, spanStart, ex0)
			g.mergeCell(ex0, ey0, cover*coverSign, area*coverSign)

			if fx1 == basics.A8Scale {
				coverAcc += int(yLift)
				yErr += yRem
				if yErr >= 0 {
					yErr -= dx
					coverAcc++
				}
			}

			ey0 += yInc
			i--
			if i != 0 {
				state = hzAdvance
				continue
			}
			if ey0 == ey1 {
				return
			}
			state = hzAfter

		case hzAfter:
			i = j
			j = 1

			if i > 1 {
				fy1 = basics.A8Scale
				i--
				state = hzAdvance
			} else {
				fy1 = int(y1 & basics.A8Mask)
				xDlt = x1 - x0

				ex0 = int(x0 >> basics.A8Shift)
				fx0 = int(x0 & basics.A8Mask)

				if fx0+int(xDlt) <= basics.A8Scale {
					cover = fy1 * coverSign
					area = (fx0*2 + int(xDlt)) * cover
					state = hzSingle
				} else {
					state = hzSkip
				}
			}
		}
	}
}
