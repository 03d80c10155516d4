package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

func TestDoctorCmd_Use(t *testing.T) {
	assert.Equal(t, "doctor", doctorCmd.Use)
}

func TestDoctorCmd_NotConfigured(t *testing.T) {
	setupServices(t, Services{})
	_, err := run(t, "doctor")
	assert.EqualError(t, err, "doctor service not configured")
}

func TestDoctorCmd_AllAvailable(t *testing.T) {
	setupServices(t, Services{Doctor: &mockDoctorService{statuses: []driving.DependencyStatus{
		{Name: "pdftoppm"},
		{Name: "tesseract (library)"},
	}}})

	out, err := run(t, "doctor")

	require.NoError(t, err)
	assert.Contains(t, out, "[ok]      pdftoppm")
	assert.Contains(t, out, "All dependencies available.")
}

func TestDoctorCmd_MissingWithHelp(t *testing.T) {
	setupServices(t, Services{Doctor: &mockDoctorService{statuses: []driving.DependencyStatus{
		{Name: "docx extractor"},
		{
			Name: "pdftoppm",
			Err:  fmt.Errorf("%w: pdftoppm not on PATH", domain.ErrMissingDependency),
			Help: "Install poppler:\n  brew install poppler",
		},
	}}})

	out, err := run(t, "doctor")

	require.Error(t, err)
	assert.Equal(t, "1 of 2 checks failed", err.Error())
	assert.Contains(t, out, "[missing] pdftoppm: missing dependency: pdftoppm not on PATH")
	assert.Contains(t, out, "          Install poppler:")
	assert.Contains(t, out, "            brew install poppler")
	assert.NotContains(t, out, "All dependencies available.")
}
