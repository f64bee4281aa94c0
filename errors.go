package dotmatrix

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImage is returned when an operation needs a source image and
	// none has been loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrSuperseded is returned by a render request that finished after a
	// newer request had started. Its result was discarded.
	ErrSuperseded = errors.New("render request superseded by a newer one")

	// ErrAnalysisInFlight is returned when an analysis is requested while
	// another one is still running.
	ErrAnalysisInFlight = errors.New("analysis already in progress")

	// ErrInvalidGrid is returned for a grid size that cannot be walked
	// (zero, negative, NaN or infinite).
	ErrInvalidGrid = errors.New("grid size must be a positive finite number")

	// ErrInvalidColor is returned when a dot or background colour is not
	// a hex colour.
	ErrInvalidColor = errors.New("invalid color")
)

// DecodeError reports a source image that could not be decoded. The pass
// that hit it produces no output.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodingError reports a failed PNG or SVG export. The in-memory frame is
// unaffected.
type EncodingError struct {
	Format string
	Err    error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// ExternalServiceError reports a failed call to the text-analysis service,
// including missing credentials and malformed responses.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }
