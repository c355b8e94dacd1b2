package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Resource errors.

	// CodeNotFound indicates a file or directory does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target of a create or move already exists.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeNotDirectory indicates a directory operation was applied to a file.
	CodeNotDirectory ErrorCode = "NOT_A_DIRECTORY"

	// CodeIsDirectory indicates a file operation was applied to a directory.
	CodeIsDirectory ErrorCode = "IS_A_DIRECTORY"

	// Permission errors.

	// CodeForbidden indicates the provider denied access to the path.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates a configuration error prevents the operation.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// I/O errors.

	// CodeOpenFailed indicates a file could not be opened for reading.
	CodeOpenFailed ErrorCode = "OPEN_FAILED"

	// CodeReadFailed indicates reading from an open handle failed.
	CodeReadFailed ErrorCode = "READ_FAILED"

	// CodeDecodeFailed indicates a record is not valid in the configured encoding.
	CodeDecodeFailed ErrorCode = "DECODE_FAILED"

	// CodeIOFailed indicates a provider operation (write, rename, copy, remove) failed.
	CodeIOFailed ErrorCode = "IO_FAILED"

	// Infrastructure errors.

	// CodeNetwork indicates a network operation against a remote provider failed.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTimeout indicates an operation exceeded its time limit.
	CodeTimeout ErrorCode = "TIMEOUT"

	// CodeUnavailable indicates a remote provider is temporarily unavailable.
	CodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnsupported indicates the provider does not support the operation.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// Generic errors.

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
