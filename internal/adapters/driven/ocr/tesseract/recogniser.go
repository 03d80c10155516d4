// Package tesseract recognises page text with libtesseract via gosseract.
package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/custodia-labs/folio/internal/adapters/driven/command"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Recogniser implements the interface.
var _ driven.Recogniser = (*Recogniser)(nil)

var packages = command.Packages{
	Brew:   "tesseract",
	Apt:    "tesseract-ocr libtesseract-dev",
	Choco:  "tesseract",
	Manual: "install tesseract (https://github.com/tesseract-ocr/tesseract) with its language data",
}

// Recogniser runs libtesseract. Each call uses its own client, so
// concurrent calls do not share engine state.
type Recogniser struct {
	languages     []string
	clientFactory func() *gosseract.Client
	available     func() ([]string, error)
}

// New creates a recogniser defaulting to languages when an input names none.
func New(languages []string) *Recogniser {
	return &Recogniser{
		languages:     languages,
		clientFactory: gosseract.NewClient,
		available:     gosseract.GetAvailableLanguages,
	}
}

// Name returns the engine name.
func (r *Recogniser) Name() string {
	return "tesseract (library)"
}

// Available reports whether tessdata holds every configured language.
func (r *Recogniser) Available() error {
	installed, err := r.available()
	if err != nil {
		return fmt.Errorf("%w: tesseract language data: %v", domain.ErrMissingDependency, err)
	}
	return checkLanguages(r.languages, installed)
}

// InstallInstructions returns how to install tesseract on this platform.
func (r *Recogniser) InstallInstructions() string {
	return command.InstallInstructions(packages)
}

// Recognise returns the page text and the mean word confidence.
func (r *Recogniser) Recognise(ctx context.Context, in driven.RecogniseInput) (*driven.RecogniseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := r.clientFactory()
	defer c.Close()

	if err := c.SetImageFromBytes(in.Image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	langs := in.Languages
	if len(langs) == 0 {
		langs = r.languages
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if in.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(in.DPI)); err != nil {
			return nil, fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := c.Text()
	if err != nil {
		return nil, fmt.Errorf("recognise text: %w", err)
	}

	return &driven.RecogniseResult{
		Text:       strings.TrimSpace(text),
		Confidence: meanConfidence(c),
	}, nil
}

// meanConfidence averages word confidences, scaled to [0, 1].
func meanConfidence(c *gosseract.Client) float64 {
	boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil || len(boxes) == 0 {
		return 0
	}
	var sum float64
	for _, b := range boxes {
		sum += b.Confidence
	}
	return sum / float64(len(boxes)) / 100
}

// checkLanguages returns ErrMissingDependency naming each wanted language
// absent from installed.
func checkLanguages(wanted, installed []string) error {
	have := make(map[string]bool, len(installed))
	for _, l := range installed {
		have[l] = true
	}
	var missing []string
	for _, l := range wanted {
		if !have[l] {
			missing = append(missing, l)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: tesseract language data missing for %s",
			domain.ErrMissingDependency, strings.Join(missing, ", "))
	}
	return nil
}
