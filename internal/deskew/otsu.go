package deskew

import "image"

// otsuThreshold returns the gray level that maximises the between-class
// variance of img's histogram. A single-level image yields 0.
func otsuThreshold(img *image.Gray) uint8 {
	var hist [256]int
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+w] {
			hist[v]++
		}
	}

	total := float64(w * h)
	var sumAll float64
	for level, n := range hist {
		sumAll += float64(level * n)
	}

	var (
		best      float64
		threshold int
		weightLow float64
		sumLow    float64
	)
	for t := 0; t < 256; t++ {
		weightLow += float64(hist[t])
		if weightLow == 0 {
			continue
		}
		weightHigh := total - weightLow
		if weightHigh == 0 {
			break
		}
		sumLow += float64(t * hist[t])
		meanLow := sumLow / weightLow
		meanHigh := (sumAll - sumLow) / weightHigh
		diff := meanLow - meanHigh
		if v := weightLow * weightHigh * diff * diff; v > best {
			best = v
			threshold = t
		}
	}
	return uint8(threshold)
}

// binariseInv marks pixels at or below t as foreground (255) and the rest
// as background (0). Dark ink on light paper becomes foreground.
func binariseInv(img *image.Gray, t uint8) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w]
		dst := out.Pix[y*out.Stride : y*out.Stride+w]
		for x, v := range src {
			if v <= t {
				dst[x] = 255
			}
		}
	}
	return out
}
