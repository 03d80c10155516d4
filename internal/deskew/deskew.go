package deskew

import (
	"fmt"
	"image"
	"math"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// DefaultMaxAngle accepts every angle the estimator can report.
const DefaultMaxAngle = 45.0

// Options configures a Deskewer.
type Options struct {
	// MaxAngle is the largest correction, in degrees, that is applied.
	// Larger estimates are reported as errors and the page is left as-is.
	// Zero means DefaultMaxAngle.
	MaxAngle float64
}

// Deskewer corrects rotational skew in grayscale pages.
type Deskewer struct {
	maxAngle float64
}

// Verify interface compliance.
var _ driven.Deskewer = (*Deskewer)(nil)

// New creates a Deskewer.
func New(opts Options) *Deskewer {
	maxAngle := opts.MaxAngle
	if maxAngle <= 0 {
		maxAngle = DefaultMaxAngle
	}
	return &Deskewer{maxAngle: maxAngle}
}

// Deskew returns a corrected copy of img and the applied angle.
// The input is never modified.
func (d *Deskewer) Deskew(img *image.Gray) (*image.Gray, float64, error) {
	angle, err := EstimateSkew(img)
	if err != nil {
		return nil, 0, err
	}
	if math.Abs(angle) > d.maxAngle {
		return nil, 0, &domain.DeskewError{
			Err: fmt.Errorf("estimated angle %.2f exceeds limit %.2f", angle, d.maxAngle),
		}
	}
	if angle == 0 {
		return clone(img), 0, nil
	}
	return rotate(img, angle), angle, nil
}

// Deskew corrects img with default options.
func Deskew(img *image.Gray) (*image.Gray, float64, error) {
	return New(Options{}).Deskew(img)
}

// EstimateSkew returns the rotation, in degrees, that straightens img.
func EstimateSkew(img *image.Gray) (float64, error) {
	if img == nil || img.Bounds().Empty() {
		return 0, &domain.DeskewError{Err: fmt.Errorf("%w: empty image", domain.ErrInvalidInput)}
	}

	blurred := gaussianBlur(img)
	mask := binariseInv(blurred, otsuThreshold(blurred))

	raw, err := rectAngle(convexHull(extremePoints(mask)))
	if err != nil {
		return 0, &domain.DeskewError{Err: err}
	}
	return NormalizeAngle(raw), nil
}

// NormalizeAngle maps a rectangle angle in [-90, 0) to the correction
// in [-45, 45]: -50 becomes -40, -30 becomes 30.
func NormalizeAngle(raw float64) float64 {
	var angle float64
	if raw < -45 {
		angle = -(90 + raw)
	} else {
		angle = -raw
	}
	if angle == 0 {
		// Avoid reporting -0.
		return 0
	}
	return angle
}
