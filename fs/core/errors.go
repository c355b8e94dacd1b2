package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	ErrPermission = fs.ErrPermission

	// ErrClosed is returned when an operation is performed on a closed file.
	ErrClosed = fs.ErrClosed

	// ErrUnsupported is returned when an operation is not supported by the provider.
	ErrUnsupported = errors.New("operation not supported")

	// ErrIsDirectory is returned when a file operation is given a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrNotSeekable is returned when a file handle cannot seek.
	ErrNotSeekable = errors.New("file is not seekable")
)
