package minio

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"
	"testing"
	"time"

	perrors "github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name: "valid config with credentials",
			config: Config{
				Endpoint:  "localhost:9000",
				Bucket:    "test-bucket",
				AccessKey: "minioadmin",
				SecretKey: "minioadmin",
			},
		},
		{
			name:   "valid config with client",
			config: Config{Client: &minio.Client{}, Bucket: "test-bucket"},
		},
		{
			name:    "missing bucket",
			config:  Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"},
			wantErr: "bucket is required",
		},
		{
			name:    "missing endpoint without client",
			config:  Config{Bucket: "b", AccessKey: "a", SecretKey: "s"},
			wantErr: "endpoint is required",
		},
		{
			name:    "missing access key without client",
			config:  Config{Endpoint: "localhost:9000", Bucket: "b", SecretKey: "s"},
			wantErr: "access key is required",
		},
		{
			name:    "missing secret key without client",
			config:  Config{Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a"},
			wantErr: "secret key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, perrors.CodeInvalidConfig, perrors.GetCode(err))
		})
	}
}

func TestNewMinIODefaults(t *testing.T) {
	m, err := NewMinIO(Config{Client: &minio.Client{}, Bucket: "b", Prefix: "/data/set/"})
	require.NoError(t, err)

	assert.Equal(t, "data/set", m.prefix)
	assert.Equal(t, int64(defaultMultipartThreshold), m.multipartThreshold)
	assert.Equal(t, defaultRenameConcurrency, m.renameConcurrency)
	assert.Equal(t, core.FSTypeRemote, m.Type())

	_, err = NewMinIO(Config{})
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	tests := []struct {
		prefix string
		name   string
		want   string
	}{
		{"", ".", ""},
		{"", "a.txt", "a.txt"},
		{"", "/a/b/", "a/b"},
		{"", `dir\file.txt`, "dir/file.txt"},
		{"root", ".", "root"},
		{"root", "a/./b", "root/a/b"},
		{"root", "../escape.txt", "root/escape.txt"},
		{"root", "a/../../b", "root/b"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix+"|"+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinKey(tt.prefix, tt.name))
		})
	}

	assert.Equal(t, "", dirPrefix(""))
	assert.Equal(t, "a/", dirPrefix("a"))
	assert.Equal(t, "a/", dirPrefix("a/"))
	assert.Equal(t, "", normalizePrefix("/"))
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     perrors.ErrorCode
	}{
		{
			name:     "missing key",
			err:      minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound},
			sentinel: fs.ErrNotExist,
		},
		{
			name:     "missing bucket",
			err:      minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound},
			sentinel: fs.ErrNotExist,
		},
		{
			name:     "access denied",
			err:      minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden},
			sentinel: fs.ErrPermission,
		},
		{
			name: "server error",
			err:  minio.ErrorResponse{Code: "InternalError", StatusCode: http.StatusInternalServerError},
			code: perrors.CodeUnavailable,
		},
		{
			name: "transport error",
			err:  errors.New("connection refused"),
			code: perrors.CodeNetwork,
		},
		{
			name: "client error",
			err:  minio.ErrorResponse{Code: "InvalidArgument", StatusCode: http.StatusBadRequest},
			code: perrors.CodeIOFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, got, tt.sentinel)
				return
			}
			assert.Equal(t, tt.code, perrors.GetCode(got))
			assert.ErrorContains(t, got, tt.err.Error())
		})
	}

	assert.NoError(t, translate(nil))
}

func TestOpenFileUnsupportedFlags(t *testing.T) {
	m := &MinioFS{bucket: "b"}
	for _, flag := range []int{os.O_RDWR, os.O_APPEND | os.O_WRONLY, os.O_EXCL | os.O_CREATE, os.O_SYNC} {
		_, err := m.OpenFile("f.txt", flag, 0o644)
		assert.ErrorIs(t, err, core.ErrUnsupported, "flag %#x", flag)

		var pathErr *fs.PathError
		require.ErrorAs(t, err, &pathErr)
		assert.Equal(t, "f.txt", pathErr.Path)
	}
}

func TestWriterBuffersWithoutClient(t *testing.T) {
	m := &MinioFS{bucket: "b", multipartThreshold: 4}
	f, err := m.Create("dir/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "dir/out.txt", f.Name())

	n, err := f.Write([]byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "out.txt", info.Name())
	assert.Equal(t, int64(11), info.Size())

	_, err = f.Read(make([]byte, 1))
	assert.ErrorIs(t, err, fs.ErrInvalid)

	err = f.Close()
	assert.Equal(t, perrors.CodeInvalidConfig, perrors.GetCode(err))
	assert.NoError(t, f.Close(), "second close is a no-op")

	_, err = f.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestReaderPositioning(t *testing.T) {
	r := &reader{name: "f.txt", info: newFileInfo("f.txt", 10, time.Time{})}
	r.offset = 10

	n, err := r.Read(make([]byte, 4))
	assert.Equal(t, 0, n)
	assert.Equal(t, io.EOF, err)

	pos, err := r.Seek(0, io.SeekEnd)
	require.NoError(t, err)
	assert.Equal(t, int64(10), pos)

	_, err = r.Seek(-1, io.SeekStart)
	assert.ErrorIs(t, err, fs.ErrInvalid)
	_, err = r.Seek(0, 42)
	assert.ErrorIs(t, err, fs.ErrInvalid)

	_, err = r.ReadAt(make([]byte, 2), 12)
	assert.Equal(t, io.EOF, err)
	_, err = r.Write([]byte("x"))
	assert.ErrorIs(t, err, fs.ErrInvalid)

	require.NoError(t, r.Close())
	require.NoError(t, r.Close())
	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, fs.ErrClosed)
	_, err = r.Seek(0, io.SeekStart)
	assert.ErrorIs(t, err, fs.ErrClosed)
}

func TestEntries(t *testing.T) {
	file := newFileInfo("a.txt", 3, time.Time{})
	assert.False(t, file.IsDir())
	assert.Equal(t, fileMode, file.Mode())

	dir := dirEntry{newDirInfo("sub")}
	assert.True(t, dir.IsDir())
	assert.Equal(t, fs.ModeDir, dir.Type())
	info, err := dir.Info()
	require.NoError(t, err)
	assert.Equal(t, "sub", info.Name())
}
