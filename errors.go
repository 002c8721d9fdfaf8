package cutoffgo

import (
	"errors"
	"fmt"

	"github.com/admitkit/cutoffgo/record"
	"github.com/admitkit/cutoffgo/vector"
)

var (
	// ErrNotInitialized is returned when an operation is invoked on an
	// engine that was never constructed.
	ErrNotInitialized = errors.New("engine not initialized")

	// ErrInvalidLimit is returned when a search limit is negative.
	ErrInvalidLimit = errors.New("limit must be non-negative")
)

// DecodeError indicates an inbound payload that does not match the expected
// shape. The failed operation leaves the engines untouched.
//
// The original underlying error can be accessed via errors.Unwrap.
type DecodeError struct {
	Payload string
	cause   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s payload: %v", e.Payload, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// SerializationError indicates a result that could not be encoded for
// return. It should not occur for well-formed data.
//
// The original underlying error can be accessed via errors.Unwrap.
type SerializationError struct {
	cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize result: %v", e.cause)
}

func (e *SerializationError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, record.ErrInvalidLimit) || errors.Is(err, vector.ErrInvalidLimit) {
		return fmt.Errorf("%w: %w", ErrInvalidLimit, err)
	}

	return err
}
