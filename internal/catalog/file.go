package catalog

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmcdole/cineverse/internal/domain"
)

// FileSource reads the catalog document from disk on every fetch.
type FileSource struct {
	path   string
	logger *slog.Logger
}

func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger}
}

func (s *FileSource) Describe() string { return s.path }

func (s *FileSource) FetchAll(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return decode(data, s.logger)
}

//go:embed sample_movies.json
var sampleFS embed.FS

// SampleSource serves the catalog bundled with the binary.
type SampleSource struct {
	logger *slog.Logger
}

func NewSampleSource(logger *slog.Logger) *SampleSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &SampleSource{logger: logger}
}

func (s *SampleSource) Describe() string { return "sample" }

func (s *SampleSource) FetchAll(ctx context.Context) ([]domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := sampleFS.ReadFile("sample_movies.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return decode(data, s.logger)
}
