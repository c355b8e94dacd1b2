package errors

import "fmt"

// Wrap wraps err with a code and message while preserving it as the cause.
// If err is already a PlatformError its classification is kept.
// Returns nil if err is nil.
//
// Example:
//
//	f, err := fsys.Open(name)
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeOpenFailed, "failed to open file")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	return WrapWithContext(err, code, message, nil)
}

// Wrapf wraps an error with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps an error and attaches context metadata in one step.
// The context map is copied.
// Returns nil if err is nil.
//
// Example:
//
//	return errors.WrapWithContext(err, errors.CodeIOFailed, "rename failed", map[string]interface{}{
//	    "from": src,
//	    "to":   dst,
//	})
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		context:        copyContext(ctx, 0),
		cause:          err,
	}
}
