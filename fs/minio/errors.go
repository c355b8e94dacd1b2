package minio

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/minio/minio-go/v7"
)

// translate maps MinIO responses onto io/fs sentinels. Other failures are
// wrapped with a code describing whether retrying could help.
func translate(err error) error {
	if err == nil {
		return nil
	}

	resp := minio.ToErrorResponse(err)
	switch resp.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}

	switch {
	case resp.StatusCode == 0:
		return errors.Wrap(err, errors.CodeNetwork, "minio request failed")
	case resp.StatusCode >= http.StatusInternalServerError:
		return errors.Wrap(err, errors.CodeUnavailable, "minio server error")
	default:
		return errors.Wrap(err, errors.CodeIOFailed, "minio request rejected")
	}
}

// pathError wraps err for op on name. It returns nil for a nil err.
func pathError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}

func pathErrorf(op, name, format string, args ...any) error {
	return &fs.PathError{Op: op, Path: name, Err: fmt.Errorf(format, args...)}
}
