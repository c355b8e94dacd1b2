// Package errors provides structured error handling for pathfs.
//
// Every failure surfaced by the line reader, the path layer and the CLI is a
// PlatformError carrying an ErrorCode, a retry classification, optional
// context metadata and the wrapped cause. The standard library helpers
// (errors.Is, errors.As, errors.Unwrap) keep working across the chain, so a
// caller can match both the code and the underlying io/fs sentinel:
//
//	r, err := lines.Open(fsys, "data.csv")
//	if errors.GetCode(err) == errors.CodeOpenFailed && errors.Is(err, fs.ErrNotExist) {
//	    // the file is missing
//	}
//
// # Error Codes
//
//   - Resource errors: CodeNotFound, CodeAlreadyExists, CodeNotDirectory, CodeIsDirectory
//   - Permission errors: CodeForbidden
//   - Validation errors: CodeInvalidInput, CodeInvalidConfig
//   - I/O errors: CodeOpenFailed, CodeReadFailed, CodeDecodeFailed, CodeIOFailed
//   - Infrastructure errors: CodeNetwork, CodeTimeout, CodeUnavailable
//   - System errors: CodeInternal, CodeUnsupported
//   - Generic: CodeUnknown
//
// FromFS maps the io/fs sentinels (fs.ErrNotExist, fs.ErrExist,
// fs.ErrPermission, fs.ErrClosed) onto these codes for provider errors that
// arrive without one.
//
// # Classification
//
// Codes default to either ClassificationRetryable or ClassificationPermanent.
// Wrapping a PlatformError preserves its classification; WithClassification
// overrides it.
//
// # JSON
//
// ToJSON flattens any error into an ErrorResponse without the cause chain.
// The CLI uses it for --json output.
package errors
