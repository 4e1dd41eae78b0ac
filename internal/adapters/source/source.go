// Package source fetches raw season results from the upstream data
// provider.
//
// The provider is a black box that returns a list of loosely-keyed rows
// or fails; retry policy belongs to the caller (in practice, the next
// producer run).
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/gridbook/internal/domain/normalize"
)

// defaultFetchTimeout bounds one fetch round-trip.
const defaultFetchTimeout = 30 * time.Second

// Source is the raw result source consumed by the ingestion pipeline.
type Source interface {
	// FetchSeasonResults returns every raw per-driver row for a season.
	FetchSeasonResults(ctx context.Context, season int) ([]normalize.RawRecord, error)
}

// HTTPSource fetches season results from an HTTP provider exposing
// GET {base}/seasons/{season}/results as a JSON array of objects.
type HTTPSource struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewHTTPSource creates a source for the given base URL with
// configuration options.
func NewHTTPSource(baseURL string, opts ...Option) *HTTPSource {
	s := &HTTPSource{
		baseURL: baseURL,
		client:  http.DefaultClient,
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchSeasonResults fetches and decodes one season's raw rows. All
// failures wrap ErrFetch so callers can classify without inspecting
// transport details.
func (s *HTTPSource) FetchSeasonResults(ctx context.Context, season int) ([]normalize.RawRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/seasons/%d/results", s.baseURL, season)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %s", ErrFetch, resp.StatusCode, url)
	}

	var raws []normalize.RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&raws); err != nil {
		return nil, fmt.Errorf("%w: malformed payload: %v", ErrFetch, err)
	}
	return raws, nil
}
