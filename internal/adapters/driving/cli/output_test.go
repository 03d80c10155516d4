package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestFormatItem(t *testing.T) {
	p := painter{}

	tests := []struct {
		name string
		item domain.BatchItem
		want string
	}{
		{
			name: "native with title",
			item: domain.BatchItem{Path: "notes.md", Title: "Release Notes", Status: domain.StatusIngested, Method: domain.MethodNative, Chars: 42},
			want: `ingested notes.md "Release Notes" (native, 42 chars)`,
		},
		{
			name: "ocr with confidence and failed page",
			item: domain.BatchItem{
				Path:        "scan.pdf",
				Status:      domain.StatusIngested,
				Method:      domain.MethodOCR,
				Chars:       120,
				Confidence:  0.874,
				FailedPages: []int{2},
			},
			want: "ingested scan.pdf (ocr, 120 chars, 87% confidence) failed pages: 2",
		},
		{
			name: "empty",
			item: domain.BatchItem{Path: "blank.pdf", Status: domain.StatusEmpty},
			want: "empty    blank.pdf",
		},
		{
			name: "failed",
			item: domain.BatchItem{Path: "bad.pdf", Status: domain.StatusFailed, Err: &domain.IngestionError{Path: "bad.pdf", Err: domain.ErrFormat}},
			want: "failed   bad.pdf [format] ingest bad.pdf: " + domain.ErrFormat.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.formatItem(tt.item))
		})
	}
}

func TestFormatPages(t *testing.T) {
	angle := 1.5
	item := domain.BatchItem{Pages: []domain.PageOutcome{
		{Number: 1, Chars: 10, Confidence: 0.91, Angle: &angle},
		{Number: 2, Err: errors.New("engine crashed")},
		{Number: 3, Chars: 4, Confidence: 0.5, DeskewErr: domain.ErrDeskew},
	}}

	lines := painter{}.formatPages(item)

	assert.Equal(t, []string{
		"page 1: 10 chars, 91% confidence, deskewed 1.50°",
		"page 2: engine crashed",
		"page 3: 4 chars, 50% confidence, not deskewed",
	}, lines)
}
