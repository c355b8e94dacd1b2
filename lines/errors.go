package lines

import (
	"io/fs"

	"github.com/jmgilman/go/pathfs/errors"
)

func openError(name string, cause error) errors.PlatformError {
	return errors.WrapWithContext(cause, errors.CodeOpenFailed, "failed to open "+name, map[string]interface{}{
		"path": name,
	})
}

func readError(name string, offset int64, cause error) errors.PlatformError {
	return errors.WrapWithContext(cause, errors.CodeReadFailed, "failed to read "+name, map[string]interface{}{
		"path":   name,
		"offset": offset,
	})
}

// closedError reports use of a closed reader. Retrying cannot succeed.
func closedError(name string, offset int64) errors.PlatformError {
	return errors.WithClassification(readError(name, offset, fs.ErrClosed), errors.ClassificationPermanent)
}

func decodeError(name string, record int, offset int64, cause error) errors.PlatformError {
	return errors.WrapWithContext(cause, errors.CodeDecodeFailed, "failed to decode record", map[string]interface{}{
		"path":   name,
		"record": record,
		"offset": offset,
	})
}
