package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound     = errors.New("resource not found")
	ErrDrawNotFound = fmt.Errorf("%w: draw", ErrNotFound)

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrInvalidArgument  = errors.New("invalid argument")

	// Ingestion errors
	ErrInvalidDraw   = errors.New("invalid draw")
	ErrDuplicateDraw = errors.New("duplicate draw")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInsufficientDataError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInsufficientData, fmt.Sprintf(format, args...))
}

func NewInvalidArgumentError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func NewInvalidDrawError(drawNo int, reason string) error {
	return fmt.Errorf("%w %d: %s", ErrInvalidDraw, drawNo, reason)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsValidationError reports whether err is the caller's fault (bad shape,
// bad parameter, malformed draw).
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidArgument) ||
		errors.Is(err, ErrInvalidDraw) ||
		errors.Is(err, ErrDuplicateDraw)
}
