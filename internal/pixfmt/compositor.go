// Package pixfmt implements source-over compositing of a premultiplied
// ARGB32 source onto a premultiplied ARGB32 destination, masked by 8-bit
// coverage. All blending works on packed 16-bit lanes: the R|B pair and
// the A|G pair of a pixel are processed as one 32-bit word each, using the
// exact division identity x/255 = (x + 128 + ((x + 128) >> 8)) >> 8.
package pixfmt

const lanesRB = 0x00FF00FF

// UDiv255 divides by 255 with rounding, exact for x <= 255*255.
func UDiv255(x uint32) uint32 {
	return ((x + 128) * 257) >> 16
}

// div255x2 performs UDiv255 on two 16-bit lanes packed in one word.
func div255x2(t uint32) uint32 {
	t += 0x00800080
	return ((t + ((t >> 8) & lanesRB)) >> 8) & lanesRB
}

// Premultiply converts a straight ARGB32 color to premultiplied form.
// The alpha lane rides along with green against a 255 multiplicand, so
// alpha itself is preserved.
func Premultiply(argb32 uint32) uint32 {
	a := argb32 >> 24
	rb := argb32 & lanesRB
	ag := ((argb32 >> 8) & lanesRB) | 0x00FF0000
	return (div255x2(ag*a) << 8) | div255x2(rb*a)
}

// BlendPix composites premultiplied src over premultiplied dst with
// coverage m in [0, 255].
func BlendPix(dst, src, m uint32) uint32 {
	im := 255 - m
	rb := div255x2((dst&lanesRB)*im + (src&lanesRB)*m)
	ag := div255x2(((dst>>8)&lanesRB)*im + ((src>>8)&lanesRB)*m)
	return (ag << 8) | rb
}

// Compositor blends one prepared source color into pixel rows. The source
// is premultiplied exactly once at construction. When wide is set, the
// constant-mask span kernel processes two pixels per iteration in 64-bit
// lanes; the pixel values produced are identical to the scalar kernel.
type Compositor struct {
	src  uint32
	wide bool
}

// NewCompositor prepares a compositor for a straight ARGB32 source color.
func NewCompositor(argb32 uint32, wide bool) Compositor {
	return Compositor{src: Premultiply(argb32), wide: wide}
}

// Source returns the premultiplied source color.
func (c Compositor) Source() uint32 { return c.src }

// Blend composites the source over one pixel with coverage m in [1, 254].
func (c Compositor) Blend(dst, m uint32) uint32 {
	return BlendPix(dst, c.src, m)
}

// FillSpan composites the source over row[x0:x1] with a constant coverage
// m in [0, 255]. Full coverage overwrites, zero coverage is a no-op.
func (c Compositor) FillSpan(row []uint32, x0, x1 int, m uint32) {
	switch {
	case m == 0 || x0 >= x1:
		return
	case m == 255:
		for x := x0; x < x1; x++ {
			row[x] = c.src
		}
	case c.wide:
		c.fillSpanWide(row, x0, x1, m)
	default:
		for x := x0; x < x1; x++ {
			row[x] = BlendPix(row[x], c.src, m)
		}
	}
}
