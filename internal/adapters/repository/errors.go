package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrStore  = errors.New("store operation failed")
	ErrClosed = errors.New("store closed")
)
