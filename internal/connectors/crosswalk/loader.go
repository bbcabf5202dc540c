package crosswalk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/tallybridge/internal/atomicfile"
	"github.com/custodia-labs/tallybridge/internal/core/domain"
	"github.com/custodia-labs/tallybridge/internal/core/ports/driven"
	"github.com/custodia-labs/tallybridge/internal/logger"
)

// Ensure the loaders implement the interface.
var (
	_ driven.CrosswalkSource = (*Loader)(nil)
	_ driven.CrosswalkSource = (*CacheLoader)(nil)
)

// MaxPayloadSize bounds the crosswalk response body.
const MaxPayloadSize = 64 << 20

// FetchError reports a non-success HTTP response.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether another attempt may succeed.
func (e *FetchError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Loader fetches the crosswalk over HTTP.
type Loader struct {
	settings domain.CrosswalkSettings
	client   *http.Client
	limiter  *rate.Limiter
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithHTTPClient sets the HTTP client used for fetching.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		l.client = client
	}
}

// NewLoader creates a crosswalk loader.
func NewLoader(settings domain.CrosswalkSettings, opts ...LoaderOption) *Loader {
	perSecond := settings.RetryPerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	l := &Loader{
		settings: settings,
		client:   http.DefaultClient,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches and parses the crosswalk. Transport failures are retried up
// to the configured number of times; format failures are not.
func (l *Loader) Load(ctx context.Context) (*domain.Crosswalk, error) {
	data, err := l.fetchWithRetry(ctx)
	if err != nil {
		return nil, err
	}

	crosswalk, err := ParseCrosswalk(data, l.settings.ExternalField, l.settings.CanonicalField)
	if err != nil {
		return nil, err
	}

	if l.settings.CachePath != "" {
		if err := atomicfile.WriteFile(ctx, l.settings.CachePath, data, 0644); err != nil {
			logger.Warn("Failed to cache crosswalk: %v", err)
		} else {
			logger.Debug("Cached crosswalk at %s", l.settings.CachePath)
		}
	}

	return crosswalk, nil
}

func (l *Loader) fetchWithRetry(ctx context.Context) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= l.settings.Retries; attempt++ {
		if err := l.limiter.Wait(ctx); err != nil {
			if lastErr != nil {
				return nil, fmt.Errorf("%w: %w", domain.ErrTransport, lastErr)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrTransport, err)
		}

		data, err := l.fetch(ctx)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil || !retryable(err) {
			break
		}
		if attempt < l.settings.Retries {
			logger.Warn("Crosswalk fetch failed (attempt %d/%d): %v", attempt+1, l.settings.Retries+1, err)
		}
	}
	return nil, fmt.Errorf("%w: %w", domain.ErrTransport, lastErr)
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	if l.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.settings.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.settings.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{URL: l.settings.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("response exceeds %d bytes", MaxPayloadSize)
	}

	logger.Debug("Fetched %d bytes in %s", len(data), time.Since(start).Round(time.Millisecond))
	return data, nil
}

func retryable(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Retryable()
	}
	return true
}

// CacheLoader reads the crosswalk saved by the last successful fetch.
type CacheLoader struct {
	path           string
	externalField  string
	canonicalField string
}

// NewCacheLoader creates a loader over the cache file in settings.
func NewCacheLoader(settings domain.CrosswalkSettings) *CacheLoader {
	return &CacheLoader{
		path:           settings.CachePath,
		externalField:  settings.ExternalField,
		canonicalField: settings.CanonicalField,
	}
}

// Load reads and parses the cached crosswalk.
// A missing or unreadable cache is a transport failure.
func (c *CacheLoader) Load(ctx context.Context) (*domain.Crosswalk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read crosswalk cache: %w", domain.ErrTransport, err)
	}
	return ParseCrosswalk(data, c.externalField, c.canonicalField)
}
