package deskew

import "image"

// kernel is the 5-tap binomial approximation of a Gaussian. Weights sum to 16.
var kernel = [5]int{1, 4, 6, 4, 1}

// reflect101 maps an out-of-range index back into [0, n) by mirroring
// about the edge pixel without repeating it: -1 -> 1, n -> n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*(n-1) - i
		}
	}
	return i
}

// gaussianBlur applies the separable 5x5 kernel to img.
// The result has origin (0, 0).
func gaussianBlur(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	// Horizontal pass keeps full precision; rows sum to at most 255*16.
	tmp := make([]int, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x := 0; x < w; x++ {
			sum := 0
			for k, weight := range kernel {
				sum += weight * int(row[reflect101(x+k-2, w)])
			}
			tmp[y*w+x] = sum
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0
			for k, weight := range kernel {
				sum += weight * tmp[reflect101(y+k-2, h)*w+x]
			}
			out.Pix[y*out.Stride+x] = uint8((sum + 128) >> 8)
		}
	}
	return out
}
