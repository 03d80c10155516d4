package driving

import "github.com/custodia-labs/folio/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get reads current settings, filling unset keys with defaults.
	Get() (*domain.Settings, error)

	// Set validates and persists a single key.
	Set(key, value string) error

	// Value returns the effective value of a key as text.
	Value(key string) (string, error)

	// Keys returns every supported configuration key.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
