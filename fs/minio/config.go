// Package minio provides a MinIO/S3-compatible implementation of core.FS.
//
// Directories are virtual: they exist while at least one object lives below
// them, Mkdir and MkdirAll are no-ops, and Rename of a directory copies
// every object before deleting the originals. Reads stream objects through
// HTTP range requests, so files of any size can be read by the line reader
// with bounded memory.
package minio

import (
	"log/slog"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/minio/minio-go/v7"
)

const (
	defaultMultipartThreshold = 5 * 1024 * 1024
	defaultRenameConcurrency  = 10
)

// Config holds MinIO filesystem configuration.
type Config struct {
	// Endpoint is the server address, such as "localhost:9000".
	Endpoint string

	// Bucket is the bucket holding the filesystem.
	Bucket string

	// AccessKey and SecretKey authenticate with static V4 credentials.
	AccessKey string
	SecretKey string

	// UseSSL enables HTTPS.
	UseSSL bool

	// Prefix namespaces every key below the given path.
	Prefix string

	// Client is an optional pre-configured client. When set, Endpoint and
	// the credentials are ignored.
	Client *minio.Client

	// MultipartThreshold is the number of buffered bytes after which writes
	// switch to a streaming upload. Defaults to 5MB.
	MultipartThreshold int64

	// MaxRenameConcurrency limits concurrent copies while renaming a
	// directory. Defaults to 10.
	MaxRenameConcurrency int

	// Logger receives debug output for multi-object operations.
	Logger *slog.Logger
}

// validate checks that either Client or a full set of connection fields is
// present.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return errors.New(errors.CodeInvalidConfig, "bucket is required")
	}
	if c.Client != nil {
		return nil
	}

	missing := ""
	switch {
	case c.Endpoint == "":
		missing = "endpoint"
	case c.AccessKey == "":
		missing = "access key"
	case c.SecretKey == "":
		missing = "secret key"
	}
	if missing != "" {
		return errors.Newf(errors.CodeInvalidConfig, "%s is required when client is not provided", missing)
	}
	return nil
}
