// Package errors provides error types and handling for attachment transfers.
//
// Every failure returned by the attachment client is an *Error wrapping one
// of the sentinel errors below, so callers can branch with errors.Is and
// still read the operation, attachment, path and HTTP status that failed.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Error represents a transfer error with context about the operation that failed.
type Error struct {
	// Op is the operation that failed (e.g., "fetch", "persist", "download")
	Op string

	// AttachmentID is the remote attachment identifier (if applicable)
	AttachmentID string

	// Path is the local destination path (if applicable)
	Path string

	// StatusCode is the HTTP status returned by the remote service, or 0
	StatusCode int

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	switch {
	case e.AttachmentID != "" && e.Path != "":
		return fmt.Sprintf("attachment.%s %s -> %s: %v", e.Op, e.AttachmentID, e.Path, e.Err)
	case e.AttachmentID != "":
		return fmt.Sprintf("attachment.%s %s: %v", e.Op, e.AttachmentID, e.Err)
	case e.Path != "":
		return fmt.Sprintf("attachment.%s path %s: %v", e.Op, e.Path, e.Err)
	default:
		return fmt.Sprintf("attachment.%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithAttachment adds attachment context to an existing error.
func (e *Error) WithAttachment(id string) *Error {
	e.AttachmentID = id
	return e
}

// WithPath adds destination path context to an existing error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithStatus records the HTTP status code returned by the remote service.
func (e *Error) WithStatus(status int) *Error {
	e.StatusCode = status
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

// NewRemoteError creates an Error for a remote call that returned status.
func NewRemoteError(op, attachmentID string, status int, err error) *Error {
	return &Error{
		Op:           op,
		AttachmentID: attachmentID,
		StatusCode:   status,
		Err:          err,
	}
}

// Wrap joins a sentinel with the cause that triggered it so that both
// remain matchable with errors.Is.
func Wrap(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// Sentinel errors for attachment transfer failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the request or client configuration is invalid
	ErrInvalidInput = errors.New("attachment: invalid input")

	// ErrRemoteService indicates a network or transport failure talking to the remote service
	ErrRemoteService = errors.New("attachment: remote service error")

	// ErrAttachmentNotFound indicates the remote service answered 404 for the attachment
	ErrAttachmentNotFound = errors.New("attachment: not found")

	// ErrRemoteRequestFailed indicates any other unexpected status from the remote service
	ErrRemoteRequestFailed = errors.New("attachment: remote request failed")

	// ErrIO indicates the destination could not be written or read back
	ErrIO = errors.New("attachment: i/o error")

	// ErrMalformedMetadata indicates the declared size metadata was missing or unparseable
	ErrMalformedMetadata = errors.New("attachment: malformed metadata")

	// ErrChecksumMismatch indicates the persisted file digest differs from the payload digest
	ErrChecksumMismatch = errors.New("attachment: checksum mismatch")

	// ErrSizeMismatch indicates the declared size differs from the persisted length
	ErrSizeMismatch = errors.New("attachment: size mismatch")
)

// IsAttachmentNotFound checks if an error indicates that an attachment was not found.
func IsAttachmentNotFound(err error) bool {
	return errors.Is(err, ErrAttachmentNotFound)
}

// IsRemoteService checks if an error indicates a transport failure.
func IsRemoteService(err error) bool {
	return errors.Is(err, ErrRemoteService)
}

// IsRemoteRequestFailed checks if an error indicates a non-404 failure status.
func IsRemoteRequestFailed(err error) bool {
	return errors.Is(err, ErrRemoteRequestFailed)
}

// IsIO checks if an error indicates a local filesystem failure.
func IsIO(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsMalformedMetadata checks if an error indicates bad size metadata.
func IsMalformedMetadata(err error) bool {
	return errors.Is(err, ErrMalformedMetadata)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTimeout reports whether err was caused by a deadline, either from the
// caller's context or from the HTTP client timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// StatusCode returns the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.StatusCode != 0 {
		return e.StatusCode, true
	}
	return 0, false
}
