package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure DoctorService implements the interface.
var _ driving.DoctorService = (*DoctorService)(nil)

// installHelper is implemented by adapters that wrap external programs.
type installHelper interface {
	InstallInstructions() string
}

// DoctorService reports on optional runtime capabilities.
type DoctorService struct {
	rasteriser driven.Rasteriser
	recogniser driven.Recogniser
	registry   driven.NormaliserRegistry
	storePath  string
}

// NewDoctorService creates a doctor service. Any dependency may be nil,
// in which case it is reported as missing.
func NewDoctorService(
	rasteriser driven.Rasteriser,
	recogniser driven.Recogniser,
	registry driven.NormaliserRegistry,
	storePath string,
) *DoctorService {
	return &DoctorService{
		rasteriser: rasteriser,
		recogniser: recogniser,
		registry:   registry,
		storePath:  storePath,
	}
}

// Check tests every capability in a fixed order.
func (s *DoctorService) Check(_ context.Context) []driving.DependencyStatus {
	var statuses []driving.DependencyStatus

	if s.rasteriser == nil {
		statuses = append(statuses, missing("rasteriser", "no pdf rasteriser configured"))
	} else {
		statuses = append(statuses, availability(s.rasteriser.Name(), s.rasteriser.Available, s.rasteriser))
	}

	if s.recogniser == nil {
		statuses = append(statuses, missing("ocr engine", "no ocr engine configured"))
	} else {
		statuses = append(statuses, availability(s.recogniser.Name(), s.recogniser.Available, s.recogniser))
	}

	for _, format := range domain.AllFormats() {
		status := driving.DependencyStatus{Name: format.String() + " extractor"}
		if s.registry == nil || !s.registry.Supports(format) {
			status.Err = fmt.Errorf("%w: no %s extractor registered", domain.ErrMissingDependency, format)
		}
		statuses = append(statuses, status)
	}

	statuses = append(statuses, s.checkStoreDir())
	return statuses
}

func (s *DoctorService) checkStoreDir() driving.DependencyStatus {
	status := driving.DependencyStatus{Name: "store directory"}
	dir := filepath.Dir(s.storePath)
	info, err := os.Stat(dir)
	switch {
	case err != nil:
		status.Err = fmt.Errorf("%w: %s: %v", domain.ErrStore, dir, err)
		status.Help = "Create the directory or change store.path with: folio config set store.path <file>"
	case !info.IsDir():
		status.Err = fmt.Errorf("%w: %s is not a directory", domain.ErrStore, dir)
	}
	return status
}

func availability(name string, check func() error, adapter any) driving.DependencyStatus {
	status := driving.DependencyStatus{Name: name, Err: check()}
	if status.Err != nil {
		if h, ok := adapter.(installHelper); ok {
			status.Help = h.InstallInstructions()
		}
	}
	return status
}

func missing(name, reason string) driving.DependencyStatus {
	return driving.DependencyStatus{
		Name: name,
		Err:  fmt.Errorf("%w: %s", domain.ErrMissingDependency, reason),
	}
}
