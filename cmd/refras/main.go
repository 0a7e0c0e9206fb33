// Command refras rasterizes one closed polygon into a BMP file.
//
// Usage:
//
//	refras --width=W --height=H --output=file.bmp [--even-odd]
//	       [--color=AARRGGBB] [--variant=dense] X Y X Y X Y [...]
//
// The polygon is closed against its first vertex automatically. Without
// --color the output is an 8-bit grayscale coverage bitmap; with --color
// the polygon is composited onto a transparent ARGB32 raster.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/MeKo-Christian/refras"
	"github.com/MeKo-Christian/refras/internal/bmpio"
)

func usage() {
	fmt.Fprintln(os.Stderr,
		"Usage: refras --width=W --height=H --output=file.bmp [--even-odd] [--color=AARRGGBB] [--variant=NAME] X Y X Y X Y [...]")
}

func main() {
	os.Exit(run())
}

func run() int {
	var (
		width   = flag.Int("width", 0, "raster width in pixels")
		height  = flag.Int("height", 0, "raster height in pixels")
		output  = flag.String("output", "", "output BMP file")
		evenOdd = flag.Bool("even-odd", false, "use the even-odd fill rule")
		color   = flag.String("color", "", "composite with this AARRGGBB color")
		variant = flag.String("variant", "dense", "sweep variant")
		simd    = flag.Bool("simd", false, "use the wide compositing kernel")
	)
	flag.Usage = usage
	flag.Parse()

	w, h := *width, *height
	if w <= 0 || h <= 0 || *output == "" {
		usage()
		return 1
	}

	poly, ok := parsePoly(flag.Args(), w, h)
	if !ok {
		return 1
	}

	v, ok := variantByName(*variant)
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown variant %q\n", *variant)
		return 1
	}

	ras := refras.New(v, refras.Options{SIMD: *simd})
	if !ras.Init(w, h) {
		fmt.Fprintln(os.Stderr, "Cannot allocate the cell grid")
		return 1
	}
	if *evenOdd {
		ras.SetFillRule(refras.EvenOdd)
	}
	ras.AddPoly(poly)

	f, err := os.Create(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file '%s' for write\n", *output)
		return 1
	}
	defer f.Close()

	if *color != "" {
		argb, err := strconv.ParseUint(*color, 16, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid color %q\n", *color)
			return 1
		}
		img := refras.NewImage(w, h)
		ras.Render(img, uint32(argb))
		err = bmpio.WriteARGB32(f, img)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Cannot write '%s': %v\n", *output, err)
			return 1
		}
		return 0
	}

	// Coverage-only output: sweep each row without consuming the cells.
	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		if !ras.SweepCoverage(y, pix[y*w:(y+1)*w]) {
			fmt.Fprintf(os.Stderr, "Variant %q cannot sweep coverage; use --color or --variant=dense\n", ras.Name())
			return 1
		}
	}
	if err := bmpio.WriteGray8(f, pix, w, h); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot write '%s': %v\n", *output, err)
		return 1
	}
	return 0
}

// parsePoly reads the positional x y pairs, checks the raster range, and
// closes the polygon against its first vertex.
func parsePoly(args []string, w, h int) ([]refras.Point, bool) {
	if len(args) < 4 || len(args)%2 != 0 {
		usage()
		return nil, false
	}

	poly := make([]refras.Point, 0, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		x, errX := strconv.ParseFloat(args[i], 64)
		y, errY := strconv.ParseFloat(args[i+1], 64)
		if errX != nil || errY != nil {
			usage()
			return nil, false
		}
		if x < 0 || y < 0 || x > float64(w) || y > float64(h) {
			fmt.Fprintln(os.Stderr, "Coordinates out of range")
			return nil, false
		}
		poly = append(poly, refras.Point{X: x, Y: y})
	}

	poly = append(poly, poly[0])
	return poly, true
}

func variantByName(name string) (refras.Variant, bool) {
	for _, v := range refras.Variants() {
		if v.String() == name {
			return v, true
		}
	}
	return refras.Dense, false
}
