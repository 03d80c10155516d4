package deskew

import (
	"errors"
	"image"
	"math"
	"sort"
)

var (
	errNoForeground = errors.New("no foreground pixels")
	errDegenerate   = errors.New("degenerate foreground geometry")
)

// point is a foreground pixel in (row, col) order.
type point struct {
	r, c int64
}

// extremePoints returns the leftmost and rightmost foreground pixel of
// every row. The convex hull of these equals the hull of all foreground.
func extremePoints(mask *image.Gray) []point {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	var pts []point
	for y := 0; y < h; y++ {
		row := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		left, right := -1, -1
		for x, v := range row {
			if v != 0 {
				if left < 0 {
					left = x
				}
				right = x
			}
		}
		if left < 0 {
			continue
		}
		pts = append(pts, point{int64(y), int64(left)})
		if right != left {
			pts = append(pts, point{int64(y), int64(right)})
		}
	}
	return pts
}

func cross(o, a, b point) int64 {
	return (a.r-o.r)*(b.c-o.c) - (a.c-o.c)*(b.r-o.r)
}

// convexHull returns the hull of pts in counter-clockwise order using
// Andrew's monotone chain. Collinear points are dropped.
func convexHull(pts []point) []point {
	if len(pts) < 3 {
		return append([]point(nil), pts...)
	}
	sorted := append([]point(nil), pts...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].r != sorted[j].r {
			return sorted[i].r < sorted[j].r
		}
		return sorted[i].c < sorted[j].c
	})

	hull := make([]point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// rectAngle returns the angle of the minimum-area rectangle enclosing hull,
// in degrees within [-90, 0), measured in the (row, col) frame.
func rectAngle(hull []point) (float64, error) {
	switch len(hull) {
	case 0:
		return 0, errNoForeground
	case 1:
		return 0, errDegenerate
	case 2:
		return edgeAngle(hull[0], hull[1]), nil
	}

	bestArea := math.Inf(1)
	var best float64
	n := len(hull)
	for i := 0; i < n; i++ {
		a, b := hull[i], hull[(i+1)%n]
		dr, dc := float64(b.r-a.r), float64(b.c-a.c)
		length := math.Hypot(dr, dc)
		if length == 0 {
			continue
		}
		ur, uc := dr/length, dc/length

		minU, maxU := math.Inf(1), math.Inf(-1)
		minV, maxV := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			pr, pc := float64(p.r-a.r), float64(p.c-a.c)
			u := pr*ur + pc*uc
			v := -pr*uc + pc*ur
			minU, maxU = math.Min(minU, u), math.Max(maxU, u)
			minV, maxV = math.Min(minV, v), math.Max(maxV, v)
		}
		if area := (maxU - minU) * (maxV - minV); area < bestArea-1e-9 {
			bestArea = area
			best = edgeAngle(a, b)
		}
	}
	if math.IsInf(bestArea, 1) {
		return 0, errDegenerate
	}
	return best, nil
}

// edgeAngle folds the direction of a->b into [-90, 0).
// A rectangle's sides repeat every 90 degrees, so any side identifies it.
func edgeAngle(a, b point) float64 {
	deg := math.Atan2(float64(b.c-a.c), float64(b.r-a.r)) * 180 / math.Pi
	deg = math.Mod(deg, 90)
	if deg >= 0 {
		deg -= 90
	}
	return deg
}
