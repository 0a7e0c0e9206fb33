// Package bmpio writes the two bitmap flavors the command driver emits:
// an 8-bit paletted grayscale file for coverage-only output and a 32-bit
// top-down ARGB file for composited output.
package bmpio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/MeKo-Christian/refras/internal/buffer"
)

const (
	fileHeaderSize = 14
	infoHeaderSize = 40
	paletteSize    = 256 * 4
)

type fileHeader struct {
	Signature   [2]byte
	FileSize    uint32
	Reserved    uint32
	ImageOffset uint32
}

type infoHeader struct {
	HeaderSize      uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitsPerPixel    uint16
	Compression     uint32
	ImageSize       uint32
	HorzResolution  uint32
	VertResolution  uint32
	ColorsUsed      uint32
	ColorsImportant uint32
}

// WriteGray8 writes coverage rows as an 8-bit paletted bottom-up BMP
// with a 256-entry grayscale palette. pix holds the rows top-down,
// width bytes each; rows are padded to four bytes in the file.
func WriteGray8(w io.Writer, pix []uint8, width, height int) error {
	pad := (4 - width&3) & 3
	rowSize := width + pad

	fh := fileHeader{
		Signature:   [2]byte{'B', 'M'},
		ImageOffset: fileHeaderSize + infoHeaderSize + paletteSize,
	}
	fh.FileSize = fh.ImageOffset + uint32(rowSize*height)

	ih := infoHeader{
		HeaderSize:      infoHeaderSize,
		Width:           int32(width),
		Height:          int32(height),
		Planes:          1,
		BitsPerPixel:    8,
		ImageSize:       uint32(rowSize * height),
		ColorsUsed:      256,
		ColorsImportant: 256,
	}

	if err := writeHeaders(w, &fh, &ih); err != nil {
		return err
	}

	var pal [paletteSize]byte
	for i := 0; i < 256; i++ {
		pal[i*4+0] = byte(i)
		pal[i*4+1] = byte(i)
		pal[i*4+2] = byte(i)
	}
	if _, err := w.Write(pal[:]); err != nil {
		return fmt.Errorf("bmp: writing palette: %w", err)
	}

	padding := make([]byte, pad)
	for y := height - 1; y >= 0; y-- {
		row := pix[y*width : (y+1)*width]
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("bmp: writing row %d: %w", y, err)
		}
		if pad != 0 {
			if _, err := w.Write(padding); err != nil {
				return fmt.Errorf("bmp: writing row %d: %w", y, err)
			}
		}
	}
	return nil
}

// WriteARGB32 writes a composited image as a 32-bit top-down BMP; the
// stored height is negative to mark the row order.
func WriteARGB32(w io.Writer, img *buffer.Image) error {
	width := img.Width()
	height := img.Height()

	fh := fileHeader{
		Signature:   [2]byte{'B', 'M'},
		ImageOffset: fileHeaderSize + infoHeaderSize,
	}
	fh.FileSize = fh.ImageOffset + uint32(width*height*4)

	ih := infoHeader{
		HeaderSize:   infoHeaderSize,
		Width:        int32(width),
		Height:       int32(-height),
		Planes:       1,
		BitsPerPixel: 32,
		ImageSize:    uint32(width * height * 4),
	}

	if err := writeHeaders(w, &fh, &ih); err != nil {
		return err
	}

	for y := 0; y < height; y++ {
		if err := binary.Write(w, binary.LittleEndian, img.Row(y)); err != nil {
			return fmt.Errorf("bmp: writing row %d: %w", y, err)
		}
	}
	return nil
}

func writeHeaders(w io.Writer, fh *fileHeader, ih *infoHeader) error {
	if err := binary.Write(w, binary.LittleEndian, fh); err != nil {
		return fmt.Errorf("bmp: writing file header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, ih); err != nil {
		return fmt.Errorf("bmp: writing info header: %w", err)
	}
	return nil
}
