package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindBool
	kindFloat
	kindList
)

// setting binds a config key to a field of domain.Settings.
type setting struct {
	key  string
	kind valueKind
	get  func(*domain.Settings) any
	set  func(*domain.Settings, any)
}

// settingTable lists every supported config key in display order.
var settingTable = []setting{
	{"ocr.mode", kindString,
		func(s *domain.Settings) any { return string(s.OCR.Mode) },
		func(s *domain.Settings, v any) { s.OCR.Mode = domain.OCRMode(v.(string)) }},
	{"ocr.dpi", kindInt,
		func(s *domain.Settings) any { return s.OCR.DPI },
		func(s *domain.Settings, v any) { s.OCR.DPI = v.(int) }},
	{"ocr.deskew", kindBool,
		func(s *domain.Settings) any { return s.OCR.Deskew },
		func(s *domain.Settings, v any) { s.OCR.Deskew = v.(bool) }},
	{"ocr.engine", kindString,
		func(s *domain.Settings) any { return string(s.OCR.Engine) },
		func(s *domain.Settings, v any) { s.OCR.Engine = domain.OCREngine(v.(string)) }},
	{"ocr.tesseract_path", kindString,
		func(s *domain.Settings) any { return s.OCR.TesseractPath },
		func(s *domain.Settings, v any) { s.OCR.TesseractPath = v.(string) }},
	{"ocr.languages", kindList,
		func(s *domain.Settings) any { return s.OCR.Languages },
		func(s *domain.Settings, v any) { s.OCR.Languages = v.([]string) }},
	{"ocr.page_workers", kindInt,
		func(s *domain.Settings) any { return s.OCR.PageWorkers },
		func(s *domain.Settings, v any) { s.OCR.PageWorkers = v.(int) }},
	{"raster.pdftoppm_path", kindString,
		func(s *domain.Settings) any { return s.Raster.PdftoppmPath },
		func(s *domain.Settings, v any) { s.Raster.PdftoppmPath = v.(string) }},
	{"store.path", kindString,
		func(s *domain.Settings) any { return s.Store.Path },
		func(s *domain.Settings, v any) { s.Store.Path = v.(string) }},
	{"upload.dir", kindString,
		func(s *domain.Settings) any { return s.Upload.Dir },
		func(s *domain.Settings, v any) { s.Upload.Dir = v.(string) }},
	{"batch.workers", kindInt,
		func(s *domain.Settings) any { return s.Batch.Workers },
		func(s *domain.Settings, v any) { s.Batch.Workers = v.(int) }},
	{"watch.rate", kindFloat,
		func(s *domain.Settings) any { return s.Watch.Rate },
		func(s *domain.Settings, v any) { s.Watch.Rate = v.(float64) }},
	{"normalise.steps", kindList,
		func(s *domain.Settings) any { return s.Normalise.Steps },
		func(s *domain.Settings, v any) { s.Normalise.Steps = v.([]string) }},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settingTable {
		if s.key == key {
			return s, true
		}
	}
	return setting{}, false
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings, applying defaults for
// unset keys, and validates them.
func (s *SettingsService) Get() (*domain.Settings, error) {
	current := s.load()
	if err := current.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", s.configStore.Path(), err)
	}
	return current, nil
}

// load overlays stored values onto the defaults without validating.
func (s *SettingsService) load() *domain.Settings {
	result := domain.DefaultSettings()
	for _, st := range settingTable {
		if _, ok := s.configStore.Get(st.key); !ok {
			continue
		}
		switch st.kind {
		case kindString:
			st.set(&result, s.configStore.GetString(st.key))
		case kindInt:
			st.set(&result, s.configStore.GetInt(st.key))
		case kindBool:
			st.set(&result, s.configStore.GetBool(st.key))
		case kindFloat:
			st.set(&result, s.configStore.GetFloat(st.key))
		case kindList:
			st.set(&result, s.configStore.GetStringSlice(st.key))
		}
	}
	return &result
}

// Set parses value for key, validates the resulting settings and persists it.
// List values are comma-separated.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseValue(st.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	candidate := s.load()
	st.set(candidate, parsed)
	if err := candidate.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Value returns the effective value of key as text.
func (s *SettingsService) Value(key string) (string, error) {
	st, ok := lookupSetting(key)
	if !ok {
		return "", fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	return formatValue(st.get(s.load())), nil
}

// Keys returns every supported configuration key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingTable))
	for i, st := range settingTable {
		keys[i] = st.key
	}
	return keys
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func parseValue(kind valueKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindBool:
		return strconv.ParseBool(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		return value, nil
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
