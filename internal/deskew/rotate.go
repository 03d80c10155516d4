package deskew

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// rotate turns img by angle degrees about its centre at unit scale,
// counter-clockwise for positive angles. The output keeps img's size.
// Pixels exposed by the rotation take the value of the nearest edge pixel.
func rotate(img *image.Gray, angle float64) *image.Gray {
	src := toOrigin(img)
	w, h := src.Bounds().Dx(), src.Bounds().Dy()

	rad := angle * math.Pi / 180
	alpha, beta := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(w)/2, float64(h)/2

	// Forward (source to destination) affine matrix about (cx, cy).
	c := (1-alpha)*cx - beta*cy
	f := beta*cx + (1-alpha)*cy

	// Every destination pixel must sample inside the padded source,
	// with room for the 4x4 Catmull-Rom support.
	mx := max(0, int(math.Ceil(cx*math.Abs(alpha)+cy*math.Abs(beta)-cx))) + 3
	my := max(0, int(math.Ceil(cx*math.Abs(beta)+cy*math.Abs(alpha)-cy))) + 3
	padded := padEdges(src, mx, my)

	fmx, fmy := float64(mx), float64(my)
	s2d := f64.Aff3{
		alpha, beta, c - (alpha*fmx + beta*fmy),
		-beta, alpha, f - (-beta*fmx + alpha*fmy),
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	draw.CatmullRom.Transform(dst, s2d, padded, padded.Bounds(), draw.Src, nil)
	return dst
}

// padEdges returns img surrounded by mx columns and my rows that replicate
// the nearest edge pixel.
func padEdges(img *image.Gray, mx, my int) *image.Gray {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w+2*mx, h+2*my))
	for y := 0; y < out.Rect.Dy(); y++ {
		sy := min(max(y-my, 0), h-1)
		srcRow := img.Pix[sy*img.Stride : sy*img.Stride+w]
		dstRow := out.Pix[y*out.Stride : y*out.Stride+out.Rect.Dx()]
		for x := 0; x < mx; x++ {
			dstRow[x] = srcRow[0]
			dstRow[mx+w+x] = srcRow[w-1]
		}
		copy(dstRow[mx:mx+w], srcRow)
	}
	return out
}

// toOrigin returns img with bounds starting at (0, 0), copying only if needed.
func toOrigin(img *image.Gray) *image.Gray {
	if img.Rect.Min == (image.Point{}) {
		return img
	}
	out := image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(out, out.Bounds(), img, img.Rect.Min, draw.Src)
	return out
}

// clone returns a deep copy of img with origin (0, 0).
func clone(img *image.Gray) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy()))
	draw.Draw(out, out.Bounds(), img, img.Rect.Min, draw.Src)
	return out
}
