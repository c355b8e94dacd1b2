package errors

import (
	"io/fs"
)

// CodeFromFS maps the io/fs sentinels in err's chain onto an ErrorCode.
// Errors without a recognized sentinel map to fallback.
func CodeFromFS(err error, fallback ErrorCode) ErrorCode {
	switch {
	case err == nil:
		return fallback
	case Is(err, fs.ErrNotExist):
		return CodeNotFound
	case Is(err, fs.ErrExist):
		return CodeAlreadyExists
	case Is(err, fs.ErrPermission):
		return CodeForbidden
	case Is(err, fs.ErrInvalid):
		return CodeInvalidInput
	default:
		return fallback
	}
}

// FromFS wraps a provider error for the operation op on path.
// The code is derived from the io/fs sentinel in the chain (see CodeFromFS),
// falling back to CodeIOFailed. Errors that already carry a code keep it.
// Returns nil if err is nil.
//
// Example:
//
//	if err := fsys.Rename(old, new); err != nil {
//	    return errors.FromFS(err, "rename", old)
//	}
func FromFS(err error, op, path string) PlatformError {
	if err == nil {
		return nil
	}

	var platformErr PlatformError
	if As(err, &platformErr) {
		return WithContextMap(platformErr, map[string]interface{}{"op": op, "path": path})
	}

	return WrapWithContext(err, CodeFromFS(err, CodeIOFailed), op+" "+path, map[string]interface{}{
		"op":   op,
		"path": path,
	})
}
