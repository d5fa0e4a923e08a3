package catalog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/cineverse/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Cineverse/1.0"
)

// HTTPSource fetches the catalog document from a URL.
type HTTPSource struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPSource creates a new HTTP catalog source
func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPSource{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *HTTPSource) Describe() string { return s.url }

// FetchAll downloads and decodes the whole catalog.
func (s *HTTPSource) FetchAll(ctx context.Context) ([]domain.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	s.logger.Debug("catalog request", "url", s.url)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Error("catalog request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("catalog request error", "status", resp.StatusCode, "bodyLen", len(body))
		return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	records, err := decode(body, s.logger)
	if err != nil {
		s.logger.Error("catalog parse error", "error", err, "bodyLen", len(body))
		return nil, err
	}
	return records, nil
}
