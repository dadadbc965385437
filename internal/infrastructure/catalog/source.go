package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/BigChungus31/Credit-Card-Recommendation-System/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxAttempts    = 3
	maxPayloadSize = 32 << 20
	userAgent      = "cardmatch/1.0"
)

// FileSource reads the catalog from a local file
type FileSource struct {
	Path string
}

// Fetch reads the whole file
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogSourceFailure, err)
	}
	return data, nil
}

// Describe returns the file path
func (s *FileSource) Describe() string {
	return s.Path
}

// HTTPSource fetches the catalog from a remote URL
type HTTPSource struct {
	httpClient  *http.Client
	url         string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// HTTPSourceConfig holds settings for HTTPSource
type HTTPSourceConfig struct {
	Timeout        time.Duration
	RequestsPerMin int
}

// NewHTTPSource creates a rate-limited HTTP catalog source
func NewHTTPSource(url string, cfg HTTPSourceConfig, logger *zap.Logger) *HTTPSource {
	if logger == nil {
		logger = zap.NewNop()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	perMin := cfg.RequestsPerMin
	if perMin <= 0 {
		perMin = 60
	}

	return &HTTPSource{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:         url,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMin)/60.0), maxAttempts),
		logger:      logger.Named("catalog_http"),
	}
}

// Describe returns the source URL
func (s *HTTPSource) Describe() string {
	return s.url
}

// Fetch downloads the catalog, retrying transport errors and 5xx responses
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := s.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		body, retry, err := s.fetchOnce(ctx)
		if err == nil {
			s.logger.Debug("catalog downloaded",
				zap.String("url", s.url),
				zap.Int("bytes", len(body)),
				zap.Int("attempt", attempt),
			)
			return body, nil
		}

		lastErr = err
		if !retry {
			break
		}

		s.logger.Warn("catalog download failed",
			zap.String("url", s.url),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt)):
			}
		}
	}

	return nil, lastErr
}

// fetchOnce performs a single GET and reports whether a failure is retryable
func (s *HTTPSource) fetchOnce(ctx context.Context) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("%w: %v", domain.ErrCatalogSourceFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadSize))
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrCatalogSourceFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= http.StatusInternalServerError
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrCatalogSourceFailure, resp.StatusCode)
	}

	return body, false, nil
}

// exponentialBackoff returns the wait before the next attempt: 500ms, 1s, 2s...
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise
func NewSource(location string, cfg HTTPSourceConfig, logger *zap.Logger) domain.CatalogSource {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, cfg, logger)
	}
	return &FileSource{Path: location}
}
