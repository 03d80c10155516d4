package postprocessors

import (
	"fmt"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
	"github.com/custodia-labs/folio/internal/postprocessors/textnorm"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("newlines", buildNewlines)
	r.Register("unicode", buildUnicode)
	r.Register("trim", buildTrim)
}

// NewDefaultPipeline builds the named steps from the built-in processors.
func NewDefaultPipeline(steps []string) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(steps, nil)
}

// buildNewlines creates a line ending processor from generic config.
// Supported config keys:
//   - max_blank_lines (int): Collapse longer runs of blank lines (default: keep all)
func buildNewlines(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []textnorm.NewlinesOption
	if n, ok := getIntFromConfig(cfg, "max_blank_lines"); ok {
		opts = append(opts, textnorm.WithMaxBlankLines(n))
	}
	return textnorm.NewNewlines(opts...), nil
}

// buildUnicode creates a Unicode normalisation processor from generic config.
// Supported config keys:
//   - form (string): NFC, NFD, NFKC or NFKD (default: NFC)
func buildUnicode(cfg map[string]any) (driven.PostProcessor, error) {
	name, _ := cfg["form"].(string)
	form, ok := textnorm.ParseForm(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown unicode form: %s", domain.ErrInvalidInput, name)
	}
	return textnorm.NewUnicode(form), nil
}

func buildTrim(map[string]any) (driven.PostProcessor, error) {
	return textnorm.NewTrim(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) (int, bool) {
	val, ok := cfg[key]
	if !ok {
		return 0, false
	}

	switch v := val.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
