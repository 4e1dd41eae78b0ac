package ingest

import "errors"

// Sentinel kinds for ingestion errors.
var (
	ErrBackpressure = errors.New("queue rejected record")
)
