// Package buffer provides the pixel buffer the rasterizer composites into.
// It handles the low-level memory layout: row-major ARGB32 words with a
// configurable stride given in bytes.
package buffer

// Image is a 32-bit premultiplied ARGB raster. Pixels are packed
// 0xAARRGGBB words in row-major order. The stride is expressed in bytes
// (a multiple of 4) so externally produced buffers with row padding can
// be attached directly.
//
// The rasterizer borrows an Image for the duration of a render call and
// writes pixels in place; the Image never owns color management.
type Image struct {
	pix    []uint32
	width  int
	height int
	stride int // bytes per row
}

// NewImage allocates a zeroed w by h image with a packed stride.
func NewImage(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	img := &Image{}
	img.Attach(make([]uint32, w*h), w, h, w*4)
	return img
}

// Attach points the image at an existing pixel buffer. stride is in bytes
// and must be a non-negative multiple of 4 covering at least width words.
func (img *Image) Attach(pix []uint32, width, height, stride int) {
	img.pix = pix
	img.width = width
	img.height = height
	img.stride = stride
}

// Width returns the image width in pixels.
func (img *Image) Width() int { return img.width }

// Height returns the image height in pixels.
func (img *Image) Height() int { return img.height }

// Stride returns the bytes per row.
func (img *Image) Stride() int { return img.stride }

// Pix returns the raw pixel words.
func (img *Image) Pix() []uint32 { return img.pix }

// Row returns the pixel words of row y, one word per column.
func (img *Image) Row(y int) []uint32 {
	off := y * (img.stride >> 2)
	return img.pix[off : off+img.width]
}

// Fill sets every pixel to the given ARGB32 word.
func (img *Image) Fill(argb32 uint32) {
	for y := 0; y < img.height; y++ {
		row := img.Row(y)
		for x := range row {
			row[x] = argb32
		}
	}
}

// Clone returns a deep copy, used by tests to snapshot destination state.
func (img *Image) Clone() *Image {
	dup := &Image{
		pix:    make([]uint32, len(img.pix)),
		width:  img.width,
		height: img.height,
		stride: img.stride,
	}
	copy(dup.pix, img.pix)
	return dup
}
