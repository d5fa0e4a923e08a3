// Package catalog implements domain.CatalogSource over HTTP, local files and
// a built-in sample catalog.
package catalog

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"

	"github.com/mmcdole/cineverse/internal/config"
	"github.com/mmcdole/cineverse/internal/domain"
)

// envelope is the object form of a catalog document.
type envelope struct {
	Movies *[]domain.Record `json:"movies"`
}

// NewSource creates a CatalogSource from configuration.
// URL takes precedence over File; with neither the sample catalog is used.
func NewSource(cfg *config.CatalogConfig, logger *slog.Logger) (domain.CatalogSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog config is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case cfg.URL != "":
		return NewHTTPSource(cfg.URL, cfg.Timeout, logger), nil
	case cfg.File != "":
		return NewFileSource(cfg.File, logger), nil
	default:
		return NewSampleSource(logger), nil
	}
}

// decode parses a catalog document. Both a bare JSON array of records and
// an object with a "movies" array are accepted; anything else, including
// null and objects without a movies array, is malformed. Records without an
// id or title are dropped.
func decode(data []byte, logger *slog.Logger) ([]domain.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", domain.ErrCatalogMalformed)
	}

	var records []domain.Record
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogMalformed, err)
		}
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrCatalogMalformed, err)
		}
		if env.Movies == nil {
			return nil, fmt.Errorf("%w: no movies array", domain.ErrCatalogMalformed)
		}
		records = *env.Movies
	default:
		return nil, fmt.Errorf("%w: expected an array or an object", domain.ErrCatalogMalformed)
	}

	valid := records[:0]
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			logger.Warn("skipping catalog record", "index", i, "id", rec.ID, "error", err)
			continue
		}
		valid = append(valid, rec)
	}
	return valid, nil
}
