/*
Package paletted implements an indexed-color PNG encoder for diagrams.

Diagrams only use a handful of colors so an indexed PNG is a fraction of
the size of a truecolor one. As long as the image has no more than 256
distinct colors the palette is exact and the file decodes to the same
pixels, so it can still be recognized. Images with more colors are reduced
with a median cut quantizer, which is lossy; recognition of such a file
will fail.
*/
package paletted

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sort"

	"github.com/ericpauley/go-quantize/quantize"
)

const maxColors = 256

func countColors(m image.Image) map[color.Color]int {
	colors := make(map[color.Color]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[color.RGBAModel.Convert(m.At(x, y))]++
		}
	}
	return colors
}

func key(c color.Color) uint64 {
	r, g, b, a := c.RGBA()
	return uint64(r)<<48 | uint64(g)<<32 | uint64(b)<<16 | uint64(a)
}

// Most frequent colors first so the common pixels get the low indices
func uniqueColors(m image.Image) color.Palette {
	h := countColors(m)
	p := make(color.Palette, 0, len(h))
	for c := range h {
		p = append(p, c)
	}
	sort.Slice(p, func(i, j int) bool {
		if h[p[i]] != h[p[j]] {
			return h[p[i]] > h[p[j]]
		}
		return key(p[i]) < key(p[j])
	})
	return p
}

// Exact reports whether m can be stored as an indexed image without losing
// any color information.
func Exact(m image.Image) bool {
	if pm, ok := m.(*image.Paletted); ok {
		return len(pm.Palette) <= maxColors
	}
	return len(countColors(m)) <= maxColors
}

// Convert returns m as a paletted image, quantizing it if it has too many
// colors.
func Convert(m image.Image) *image.Paletted {
	b := m.Bounds()

	if pm, ok := m.(*image.Paletted); ok && len(pm.Palette) <= maxColors {
		return pm
	}

	p := uniqueColors(m)
	if len(p) > maxColors {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, maxColors), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm
}

// Encode writes m to w as an indexed-color PNG.
func Encode(w io.Writer, m image.Image) error {
	e := png.Encoder{CompressionLevel: png.BestCompression}
	return e.Encode(w, Convert(m))
}
