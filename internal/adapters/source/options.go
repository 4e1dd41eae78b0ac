// Package source fetches raw season results from the upstream data
// provider.
package source

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the HTTPSource.
type Option func(*HTTPSource)

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds one fetch round-trip.
func WithTimeout(timeout time.Duration) Option {
	return func(s *HTTPSource) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}
