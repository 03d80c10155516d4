// Command folio extracts text from documents into a JSON store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/folio/internal/adapters/driven/command"
	"github.com/custodia-labs/folio/internal/adapters/driven/config/file"
	"github.com/custodia-labs/folio/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/folio/internal/adapters/driven/ocr/tesseractcli"
	"github.com/custodia-labs/folio/internal/adapters/driven/raster/poppler"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/folio/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/folio/internal/adapters/driving/cli"
	"github.com/custodia-labs/folio/internal/connectors/filesystem"
	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
	"github.com/custodia-labs/folio/internal/core/services"
	"github.com/custodia-labs/folio/internal/deskew"
	"github.com/custodia-labs/folio/internal/normalisers"
	"github.com/custodia-labs/folio/internal/postprocessors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, buildServices); err != nil {
		stop()
		os.Exit(1)
	}
}

// buildServices wires adapters into services for the configuration at
// configPath. Settings are returned even when the configuration is
// invalid so it can be repaired with "folio config set".
func buildServices(configPath string) (*cli.Services, error) {
	configStore, err := openConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	out := &cli.Services{Settings: settingsService}

	settings, err := settingsService.Get()
	if err != nil {
		return out, err
	}

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Normalise.Steps)
	if err != nil {
		return out, fmt.Errorf("normalise.steps: %w", err)
	}
	store, err := jsonfile.NewStore(settings.Store.Path)
	if err != nil {
		return out, fmt.Errorf("open store: %w", err)
	}

	runner := command.NewRunner()
	registry := normalisers.NewDefaultRegistry()
	rasteriser := poppler.New(runner, settings.Raster.PdftoppmPath)
	recogniser := newRecogniser(settings.OCR, runner)

	var deskewer driven.Deskewer
	if settings.OCR.Deskew {
		deskewer = deskew.New(deskew.Options{})
	}

	text := services.NewTextExtractor(registry)
	ocr := services.NewOCRExtractor(rasteriser, recogniser, deskewer, services.OCROptions{
		DPI:       settings.OCR.DPI,
		Deskew:    settings.OCR.Deskew,
		Languages: settings.OCR.Languages,
		Workers:   settings.OCR.PageWorkers,
	})
	watcher := filesystem.New(filesystem.Options{Recursive: true})
	opts := services.IngestOptions{
		Workers:   settings.Batch.Workers,
		UploadDir: settings.Upload.Dir,
		WatchRate: settings.Watch.Rate,
	}

	ingestFor := func(mode domain.OCRMode, persist bool) (driving.IngestService, driving.StoreService, error) {
		if mode == "" {
			mode = settings.OCR.Mode
		}
		var ocrExtractor driving.OCRExtractor
		if mode.UsesOCR() {
			ocrExtractor = ocr
		}
		var content driven.ContentStore = store
		if !persist {
			content = memory.NewContentStore()
		}
		dispatcher := services.NewDispatcher(text, ocrExtractor, pipeline, mode)
		return services.NewIngestService(dispatcher, content, watcher, opts), services.NewStoreService(content), nil
	}

	ingest, storeService, err := ingestFor("", true)
	if err != nil {
		return out, err
	}

	out.Ingest = ingest
	out.IngestFor = ingestFor
	out.Store = storeService
	out.Doctor = services.NewDoctorService(rasteriser, recogniser, registry, store.Path())
	return out, nil
}

func openConfig(path string) (*file.ConfigStore, error) {
	if path == "" {
		return file.NewConfigStore("")
	}
	return file.NewConfigStoreFile(path)
}

// newRecogniser selects the recognition engine. The library engine links
// libtesseract; the command engine runs the tesseract binary.
func newRecogniser(cfg domain.OCRSettings, runner driven.CommandRunner) driven.Recogniser {
	if cfg.Engine == domain.OCREngineCommand {
		return tesseractcli.New(runner, cfg.TesseractPath, cfg.Languages)
	}
	return tesseract.New(cfg.Languages)
}
