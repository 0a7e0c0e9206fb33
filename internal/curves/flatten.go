// Package curves reduces quadratic and cubic Bezier segments, given in
// 24.8 fixed point, to line segments by recursive midpoint subdivision.
// The flatteners run on an explicit stack with integer arithmetic only.
package curves

import "github.com/MeKo-Christian/refras/internal/basics"

// LineSink receives the flattened line segments in 24.8 fixed point.
type LineSink interface {
	AddLine(x0, y0, x1, y1 int)
}

// recursionLimit caps the subdivision depth of both flatteners.
const recursionLimit = 32

// flatnessLimit is the maximum deviation from the chord, in subpixel
// units, below which a curve is emitted as a straight segment.
const flatnessLimit = basics.A8Scale / 6

type point struct {
	x, y int
}

// FlattenQuad subdivides the quadratic Bezier (x0,y0) (x1,y1) (x2,y2).
// The subdivision depth is fixed up front from the second difference of
// the control polygon, which quarters with every split level.
func FlattenQuad(s LineSink, x0, y0, x1, y1, x2, y2 int) {
	var stack [recursionLimit*2 + 3]point
	var levels [recursionLimit]int

	stack[0] = point{x2, y2}
	stack[1] = point{x1, y1}
	stack[2] = point{x0, y0}

	d := basics.Max(basics.Abs(x0+x2-2*x1), basics.Abs(y0+y2-2*y1))
	level := 0
	for d > flatnessLimit {
		d >>= 2
		level++
	}

	levels[0] = level
	top := 0
	c := 0

	for top >= 0 {
		if levels[top] > 1 {
			// Midpoint split; the far half stays below the near half on
			// the stack so emission runs start to end.
			stack[c+4] = stack[c+2]
			bx := stack[c+1].x
			by := stack[c+1].y

			ax := (stack[c+2].x + bx) / 2
			ay := (stack[c+2].y + by) / 2
			stack[c+3] = point{ax, ay}

			bx = (stack[c].x + bx) / 2
			by = (stack[c].y + by) / 2
			stack[c+1] = point{bx, by}

			stack[c+2] = point{(ax + bx) / 2, (ay + by) / 2}

			c += 2
			top++
			levels[top] = levels[top-1] - 1
			levels[top-1] = levels[top]
			continue
		}

		nx := stack[c].x
		ny := stack[c].y
		s.AddLine(x0, y0, nx, ny)
		x0 = nx
		y0 = ny

		top--
		c -= 2
	}
}

// FlattenCubic subdivides the cubic Bezier (x0,y0) .. (x3,y3) using
// Hain's rapid-termination flatness test: the perpendicular distance of
// each inner control point from the chord, scaled by an integer estimate
// of the chord length, decides the split. Control points lying outside
// the chord in parameter space force a split as well.
func FlattenCubic(s LineSink, x0, y0, x1, y1, x2, y2, x3, y3 int) {
	var stack [recursionLimit*3 + 1]point
	const end = (recursionLimit - 1) * 3

	stack[0] = point{x3, y3}
	stack[1] = point{x2, y2}
	stack[2] = point{x1, y1}
	stack[3] = point{x0, y0}

	c := 0
	for {
		split := false

		if c != end {
			// Chord vector P0 -> P3.
			dx := stack[c+3].x - stack[c].x
			dy := stack[c+3].y - stack[c].y

			// Chord length estimate 236/256*max + 97/256*min, at most
			// 8.4% over and 8.1% under the Euclidean length.
			dxA := basics.Abs(dx)
			dyA := basics.Abs(dy)
			var l int
			if dxA > dyA {
				l = (236*dxA + 97*dyA) >> 8
			} else {
				l = (97*dxA + 236*dyA) >> 8
			}

			if l > 32767 {
				split = true
			} else {
				limit := l * flatnessLimit

				dx1 := stack[c+1].x - stack[c].x
				dy1 := stack[c+1].y - stack[c].y
				dx2 := stack[c+2].x - stack[c].x
				dy2 := stack[c+2].y - stack[c].y

				split = basics.Abs(dy*dx1-dx*dy1) > limit ||
					basics.Abs(dy*dx2-dx*dy2) > limit ||
					dy*dy1+dx*dx1 < 0 ||
					dy*dy2+dx*dx2 < 0 ||
					dy*(stack[c+3].y-stack[c+1].y)+dx*(stack[c+3].x-stack[c+1].x) < 0 ||
					dy*(stack[c+3].y-stack[c+2].y)+dx*(stack[c+3].x-stack[c+2].x) < 0
			}
		}

		if !split {
			nx := stack[c].x
			ny := stack[c].y
			s.AddLine(x0, y0, nx, ny)
			x0 = nx
			y0 = ny

			if c == 0 {
				return
			}
			c -= 3
			continue
		}

		// De Casteljau midpoint split in place.
		stack[c+6] = stack[c+3]

		cx := stack[c+1].x
		dxm := stack[c+2].x
		ax := (stack[c].x + cx) / 2
		bx := (stack[c+3].x + dxm) / 2
		stack[c+1].x = ax
		stack[c+5].x = bx
		cx = (cx + dxm) / 2
		ax = (ax + cx) / 2
		bx = (bx + cx) / 2
		stack[c+2].x = ax
		stack[c+4].x = bx
		stack[c+3].x = (ax + bx) / 2

		cy := stack[c+1].y
		dym := stack[c+2].y
		ay := (stack[c].y + cy) / 2
		by := (stack[c+3].y + dym) / 2
		stack[c+1].y = ay
		stack[c+5].y = by
		cy = (cy + dym) / 2
		ay = (ay + cy) / 2
		by = (by + cy) / 2
		stack[c+2].y = ay
		stack[c+4].y = by
		stack[c+3].y = (ay + by) / 2

		c += 3
	}
}
