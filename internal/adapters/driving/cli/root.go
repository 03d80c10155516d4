// Package cli implements the folio command tree.
//
// Commands are package-level cobra values registered in init. Services
// are package variables injected by cmd/folio through Execute, so tests
// can swap them for fakes.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/logger"
)

// version is set at build time with -ldflags.
var version = "dev"

// IngestFactory builds an ingest service that routes PDFs with mode.
// An empty mode means the configured one. With persist false, results
// are kept in memory and the returned StoreService reads them back.
type IngestFactory func(mode domain.OCRMode, persist bool) (driving.IngestService, driving.StoreService, error)

// Services are the core services the commands drive.
type Services struct {
	Ingest    driving.IngestService
	IngestFor IngestFactory
	Store     driving.StoreService
	Doctor    driving.DoctorService
	Settings  driving.SettingsService
}

// Setup builds services for a configuration file path (empty means the
// default location). It may return partial services together with an
// error, e.g. settings when the configuration fails validation.
type Setup func(configPath string) (*Services, error)

var (
	ingestService   driving.IngestService
	ingestFactory   IngestFactory
	storeService    driving.StoreService
	doctorService   driving.DoctorService
	settingsService driving.SettingsService

	setup Setup
)

var (
	flagVerbose bool
	flagQuiet   bool
	flagConfig  string
)

// standaloneAnnotation marks commands that run without the ingestion
// pipeline, so a broken configuration can still be inspected and fixed.
const standaloneAnnotation = "folio/standalone"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Extract text from documents into a JSON store",
	Long: `Folio extracts plain text from .txt, .md, .docx and .pdf files.

PDFs are rasterised and recognised with tesseract when they carry no
text layer (or always, depending on ocr.mode). Extracted text is merged
into a JSON store keyed by source path.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print debug and info logs to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress warnings")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Configuration file (default ~/.folio/config.toml)")
}

// Execute runs the root command. ctx is cancelled on interrupt by the caller.
func Execute(ctx context.Context, s Setup) error {
	setup = s
	return rootCmd.ExecuteContext(ctx)
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)
	logger.SetQuiet(flagQuiet)

	if setup == nil {
		return nil
	}

	services, err := setup(flagConfig)
	if services != nil {
		apply(services)
	}
	if err != nil && !isStandalone(cmd) {
		return err
	}
	if err != nil {
		logger.Warn("%v", err)
	}
	return nil
}

func apply(s *Services) {
	if s.Ingest != nil {
		ingestService = s.Ingest
	}
	if s.IngestFor != nil {
		ingestFactory = s.IngestFor
	}
	if s.Store != nil {
		storeService = s.Store
	}
	if s.Doctor != nil {
		doctorService = s.Doctor
	}
	if s.Settings != nil {
		settingsService = s.Settings
	}
}

func isStandalone(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[standaloneAnnotation] == "true" {
			return true
		}
	}
	return false
}

var errIngestNotConfigured = errors.New("ingest service not configured")
