package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrFetch = errors.New("fetch failed")
)
