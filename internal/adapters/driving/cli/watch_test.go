package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
)

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch <folder>", watchCmd.Use)
}

func TestWatchCmd_NotConfigured(t *testing.T) {
	setupServices(t, Services{})
	_, err := run(t, "watch", "inbox")
	assert.EqualError(t, err, "ingest service not configured")
}

func TestWatchCmd_PrintsEachItem(t *testing.T) {
	svc := &mockIngestService{events: []domain.BatchItem{
		{Path: "inbox/a.txt", Status: domain.StatusIngested, Method: domain.MethodNative, Chars: 4},
		{Path: "inbox/b.pdf", Status: domain.StatusFailed, Err: domain.ErrOCR},
	}}
	setupServices(t, Services{Ingest: svc})

	out, err := run(t, "watch", "inbox")

	require.NoError(t, err)
	assert.Equal(t, []string{"inbox"}, svc.paths)
	assert.Contains(t, out, "Watching inbox")
	assert.Contains(t, out, "inbox/a.txt (native, 4 chars)")
	assert.Contains(t, out, "inbox/b.pdf [ocr]")
	assert.Contains(t, out, "Stopped: 1 processed, 1 failed")
}

func TestWatchCmd_Error(t *testing.T) {
	svc := &mockIngestService{err: domain.ErrNotFound}
	setupServices(t, Services{Ingest: svc})

	_, err := run(t, "watch", "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
