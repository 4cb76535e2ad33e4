// Package errors provides error types and handling for blob replication
// operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a replication operation error with context about the
// operation that failed. It wraps the underlying Azure SDK error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "copyBlob", "compare", "monitor")
	Op string

	// Container is the container name (if applicable)
	Container string

	// Blob is the blob name (if applicable)
	Blob string

	// Err is the underlying error from the Azure SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Container != "" && e.Blob != "" {
		return fmt.Sprintf("blobcopy.%s %s/%s: %v", e.Op, e.Container, e.Blob, e.Err)
	}
	if e.Container != "" {
		return fmt.Sprintf("blobcopy.%s container %s: %v", e.Op, e.Container, e.Err)
	}
	if e.Blob != "" {
		return fmt.Sprintf("blobcopy.%s blob %s: %v", e.Op, e.Blob, e.Err)
	}
	return fmt.Sprintf("blobcopy.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithContainer adds container context to an existing error.
func (e *Error) WithContainer(container string) *Error {
	e.Container = container
	return e
}

// WithBlob adds blob name context to an existing error.
func (e *Error) WithBlob(blob string) *Error {
	e.Blob = blob
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewContainerError creates a new Error with container context.
func NewContainerError(op, container string, err error) *Error {
	return &Error{
		Op:        op,
		Container: container,
		Err:       err,
	}
}

// NewBlobError creates a new Error with container and blob context.
func NewBlobError(op, container, blob string, err error) *Error {
	return &Error{
		Op:        op,
		Container: container,
		Blob:      blob,
		Err:       err,
	}
}

// Sentinel errors for common replication failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrBlobNotFound indicates that the requested blob does not exist
	ErrBlobNotFound = errors.New("blobcopy: blob not found")

	// ErrContainerNotFound indicates that the requested container does not exist
	ErrContainerNotFound = errors.New("blobcopy: container not found")

	// ErrCopyConflict indicates that the destination blob already has a
	// pending copy operation and the service refused to start another
	ErrCopyConflict = errors.New("blobcopy: copy already pending on destination")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("blobcopy: invalid input")

	// ErrInvalidEndpoint indicates that an endpoint descriptor cannot be
	// used in the requested role (for example a raw-URL destination)
	ErrInvalidEndpoint = errors.New("blobcopy: invalid endpoint")

	// ErrMissingBlobName indicates that a single-blob copy was requested
	// without a resolvable destination blob name
	ErrMissingBlobName = errors.New("blobcopy: blob name not resolved")

	// ErrInvalidContainerName indicates that the container name is invalid
	ErrInvalidContainerName = errors.New("blobcopy: invalid container name")

	// ErrInvalidBlobName indicates that the blob name is invalid
	ErrInvalidBlobName = errors.New("blobcopy: invalid blob name")
)

// IsCopyConflict checks if an error indicates a pending-copy conflict on the
// destination blob. This is a convenience function that handles both sentinel
// errors and wrapped errors.
func IsCopyConflict(err error) bool {
	return errors.Is(err, ErrCopyConflict)
}

// IsBlobNotFound checks if an error indicates that a blob was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBlobNotFound(err error) bool {
	return errors.Is(err, ErrBlobNotFound)
}

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
