package api

import (
	"errors"
	"fmt"
)

// Error kinds used to classify handler failures.
var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	ErrUpstream   = errors.New("upstream failure")
	ErrInternal   = errors.New("internal error")
)

// Wrap annotates err with the operation that produced it.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// NewKind creates an error of the given kind for the operation.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// WrapKind classifies err under kind while preserving both in the chain.
func WrapKind(op string, kind error, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}
