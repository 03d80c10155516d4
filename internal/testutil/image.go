package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextPage renders lines in black on a white page using the 7x13 bitmap
// face, then enlarges it by scale so OCR engines can read it.
func TextPage(scale int, lines ...string) *image.Gray {
	if scale < 1 {
		scale = 1
	}
	face := basicfont.Face7x13
	const margin = 10
	lineHeight := face.Metrics().Height.Ceil() + 4

	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	small := image.NewGray(image.Rect(0, 0, width+2*margin, len(lines)*lineHeight+2*margin))
	draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	d := font.Drawer{Dst: small, Src: image.NewUniform(color.Black), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(margin, margin+(i+1)*lineHeight-4)
		d.DrawString(l)
	}
	if scale == 1 {
		return small
	}

	b := small.Bounds()
	big := image.NewGray(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, b, draw.Src, nil)
	return big
}

// EncodePNG encodes img, panicking on failure.
func EncodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
