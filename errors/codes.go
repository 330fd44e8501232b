package errors

import "errors"

// ErrorCode classifies a transfer failure for callers that report errors
// across a process boundary (for example an automation front end).
// Codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// CodeNotFound indicates the requested attachment does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeInvalidInput indicates the request or configuration is invalid.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeSchemaFailed indicates the remote metadata did not have the expected shape.
	CodeSchemaFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"

	// CodeNetwork indicates the remote service could not be reached.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeExecutionFailed indicates the remote service answered with a failure status.
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"

	// CodeIntegrity indicates the persisted file does not match the received payload.
	CodeIntegrity ErrorCode = "INTEGRITY_CHECK_FAILED"

	// CodeInternal indicates a local failure such as an unwritable destination.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Code returns the ErrorCode that best describes err.
// A nil error has no code and yields the empty string.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAttachmentNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrMalformedMetadata):
		return CodeSchemaFailed
	case errors.Is(err, ErrRemoteService) && IsTimeout(err):
		return CodeTimeout
	case errors.Is(err, ErrRemoteService):
		return CodeNetwork
	case errors.Is(err, ErrRemoteRequestFailed):
		return CodeExecutionFailed
	case errors.Is(err, ErrChecksumMismatch), errors.Is(err, ErrSizeMismatch):
		return CodeIntegrity
	case errors.Is(err, ErrIO):
		return CodeInternal
	default:
		return CodeUnknown
	}
}
