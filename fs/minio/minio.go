package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/internal/logging"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"golang.org/x/sync/errgroup"
)

// MinioFS implements core.FS for MinIO/S3-compatible storage.
//
//nolint:revive // MinioFS matches the LocalFS/MemoryFS naming used by the other providers
type MinioFS struct {
	client             *minio.Client
	bucket             string
	prefix             string
	multipartThreshold int64
	renameConcurrency  int
	log                *logging.Logger
}

// NewMinIO creates a MinIO-backed filesystem.
// Returns error if configuration is invalid or the client cannot be built.
func NewMinIO(cfg Config) (*MinioFS, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create minio client: %w", err)
		}
	}

	threshold := cfg.MultipartThreshold
	if threshold <= 0 {
		threshold = defaultMultipartThreshold
	}
	concurrency := cfg.MaxRenameConcurrency
	if concurrency <= 0 {
		concurrency = defaultRenameConcurrency
	}

	return &MinioFS{
		client:             client,
		bucket:             cfg.Bucket,
		prefix:             normalizePrefix(cfg.Prefix),
		multipartThreshold: threshold,
		renameConcurrency:  concurrency,
		log:                logging.FromSlog(cfg.Logger).With("bucket", cfg.Bucket),
	}, nil
}

// key maps a provider name to its object key.
func (m *MinioFS) key(name string) string {
	return joinKey(m.prefix, name)
}

// Type returns FSTypeRemote.
func (m *MinioFS) Type() core.FSType {
	return core.FSTypeRemote
}

// Open opens the named object for streaming reads. The handle supports Seek
// and ReadAt through range requests. Opening a virtual directory fails with
// core.ErrIsDirectory.
func (m *MinioFS) Open(name string) (fs.File, error) {
	ctx := context.Background()
	f, err := newReader(ctx, m, m.key(name), name)
	if err == nil {
		return f, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		if ok, dirErr := m.hasChildren(ctx, m.key(name)); dirErr == nil && ok {
			return nil, pathError("open", name, core.ErrIsDirectory)
		}
	}
	return nil, err
}

// Stat returns information about an object or a virtual directory. The
// root always exists.
func (m *MinioFS) Stat(name string) (fs.FileInfo, error) {
	ctx := context.Background()
	key := m.key(name)
	if key == m.prefix {
		return newDirInfo(path.Base(normalize(name))), nil
	}

	info, err := m.statObject(ctx, name)
	if err == nil {
		return info, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	ok, err := m.hasChildren(ctx, key)
	if err != nil {
		return nil, pathError("stat", name, err)
	}
	if !ok {
		return nil, pathError("stat", name, fs.ErrNotExist)
	}
	return newDirInfo(path.Base(key)), nil
}

// statObject stats the object at name without considering directories.
func (m *MinioFS) statObject(ctx context.Context, name string) (*fileInfo, error) {
	key := m.key(name)
	if key == "" {
		return nil, pathError("stat", name, fs.ErrNotExist)
	}
	info, err := m.client.StatObject(ctx, m.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, pathError("stat", name, translate(err))
	}
	return newFileInfo(path.Base(key), info.Size, info.LastModified), nil
}

// hasChildren reports whether at least one object lives below key.
func (m *MinioFS) hasChildren(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:  dirPrefix(key),
		MaxKeys: 1,
	}) {
		if object.Err != nil {
			return false, translate(object.Err)
		}
		return true, nil
	}
	return false, nil
}

// ReadDir lists the immediate children of a virtual directory, sorted by
// name. Directory marker objects are skipped.
func (m *MinioFS) ReadDir(name string) ([]fs.DirEntry, error) {
	ctx := context.Background()
	key := m.key(name)
	prefix := dirPrefix(key)

	var entries []fs.DirEntry
	for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix: prefix,
	}) {
		if object.Err != nil {
			return nil, pathError("readdir", name, translate(object.Err))
		}
		if object.Key == prefix {
			continue
		}

		rel := strings.TrimPrefix(object.Key, prefix)
		if strings.HasSuffix(rel, "/") {
			entries = append(entries, dirEntry{newDirInfo(strings.TrimSuffix(rel, "/"))})
			continue
		}
		if rel != "" {
			entries = append(entries, dirEntry{newFileInfo(rel, object.Size, object.LastModified)})
		}
	}

	if len(entries) == 0 && key != m.prefix {
		if _, err := m.statObject(ctx, name); err == nil {
			return nil, pathErrorf("readdir", name, "%w: not a directory", fs.ErrInvalid)
		}
		return nil, pathError("readdir", name, fs.ErrNotExist)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})
	return entries, nil
}

// ReadFile reads the named object into memory.
func (m *MinioFS) ReadFile(name string) ([]byte, error) {
	ctx := context.Background()
	info, err := m.statObject(ctx, name)
	if err != nil {
		return nil, pathError("readfile", name, errors.Unwrap(err))
	}

	obj, err := m.client.GetObject(ctx, m.bucket, m.key(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, pathError("readfile", name, translate(err))
	}
	defer func() {
		_ = obj.Close()
	}()

	buf := make([]byte, info.Size())
	if _, err := io.ReadFull(obj, buf); err != nil {
		return nil, pathError("readfile", name, translate(err))
	}
	return buf, nil
}

// Exists reports whether the named object or virtual directory exists.
func (m *MinioFS) Exists(name string) (bool, error) {
	_, err := m.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create creates or truncates the named object. Content is uploaded when
// the file is closed or synced.
func (m *MinioFS) Create(name string) (core.File, error) {
	return newWriter(m, m.key(name), name), nil
}

// OpenFile opens the named object. O_RDWR, O_APPEND, O_EXCL and O_SYNC are
// rejected with core.ErrUnsupported; any write flag opens for writing.
func (m *MinioFS) OpenFile(name string, flag int, _ fs.FileMode) (core.File, error) {
	for _, unsupported := range []struct {
		flag int
		name string
	}{
		{os.O_RDWR, "O_RDWR"},
		{os.O_APPEND, "O_APPEND"},
		{os.O_EXCL, "O_EXCL"},
		{os.O_SYNC, "O_SYNC"},
	} {
		if flag&unsupported.flag != 0 {
			return nil, pathErrorf("open", name, "%w: %s not supported in S3", core.ErrUnsupported, unsupported.name)
		}
	}

	if flag&(os.O_WRONLY|os.O_CREATE|os.O_TRUNC) != 0 {
		return m.Create(name)
	}
	return newReader(context.Background(), m, m.key(name), name)
}

// WriteFile uploads data as the named object.
func (m *MinioFS) WriteFile(name string, data []byte, _ fs.FileMode) error {
	f, err := m.Create(name)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return pathError("writefile", name, err)
	}
	if err := f.Close(); err != nil {
		return pathError("writefile", name, errors.Unwrap(err))
	}
	return nil
}

// Mkdir is a no-op because directories are virtual. It fails with
// fs.ErrExist when an object already occupies the name.
func (m *MinioFS) Mkdir(name string, _ fs.FileMode) error {
	if _, err := m.statObject(context.Background(), name); err == nil {
		return pathError("mkdir", name, fs.ErrExist)
	}
	return nil
}

// MkdirAll is a no-op because directories are virtual.
func (m *MinioFS) MkdirAll(name string, perm fs.FileMode) error {
	return m.Mkdir(name, perm)
}

// Remove deletes the named object. Removing a missing object succeeds;
// removing a virtual directory that still has children fails.
func (m *MinioFS) Remove(name string) error {
	ctx := context.Background()
	key := m.key(name)

	if _, err := m.statObject(ctx, name); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return pathError("remove", name, errors.Unwrap(err))
		}
		ok, err := m.hasChildren(ctx, key)
		if err != nil {
			return pathError("remove", name, err)
		}
		if ok {
			return pathErrorf("remove", name, "%w: directory not empty", fs.ErrInvalid)
		}
		return nil
	}

	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return pathError("remove", name, translate(err))
	}
	return nil
}

// RemoveAll deletes the named object and every object below it using the
// batch delete API.
func (m *MinioFS) RemoveAll(name string) error {
	ctx := context.Background()
	key := m.key(name)

	objects := make(chan minio.ObjectInfo, 100)
	var listErr error
	go func() {
		defer close(objects)
		if key != "" {
			objects <- minio.ObjectInfo{Key: key}
		}
		for object := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
			Prefix:    dirPrefix(key),
			Recursive: true,
		}) {
			if object.Err != nil {
				listErr = object.Err
				return
			}
			objects <- object
		}
	}()

	var removeErr error
	for result := range m.client.RemoveObjects(ctx, m.bucket, objects, minio.RemoveObjectsOptions{}) {
		if result.Err != nil && removeErr == nil {
			removeErr = result.Err
		}
	}

	if listErr != nil {
		return pathError("removeall", name, translate(listErr))
	}
	if removeErr != nil {
		return pathError("removeall", name, translate(removeErr))
	}
	m.log.Debug("removed tree", "path", name)
	return nil
}

// Rename moves oldpath to newpath with copy plus delete.
//
// The operation is not atomic. A failure while copying can leave objects at
// both locations, and a failure while deleting leaves the originals behind.
// Directory renames copy with up to MaxRenameConcurrency workers.
func (m *MinioFS) Rename(oldpath, newpath string) error {
	ctx := context.Background()
	oldKey := m.key(oldpath)
	newKey := m.key(newpath)

	if _, err := m.statObject(ctx, oldpath); err == nil {
		return m.renameObject(ctx, oldKey, newKey, oldpath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return pathError("rename", oldpath, errors.Unwrap(err))
	}

	copied, err := m.parallelCopy(ctx, dirPrefix(oldKey), dirPrefix(newKey))
	if err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	if len(copied) == 0 {
		return pathError("rename", oldpath, fs.ErrNotExist)
	}
	m.log.Debug("copied directory", "from", oldpath, "to", newpath, "objects", len(copied))

	toDelete := make(chan minio.ObjectInfo, len(copied))
	for _, key := range copied {
		toDelete <- minio.ObjectInfo{Key: key}
	}
	close(toDelete)

	for result := range m.client.RemoveObjects(ctx, m.bucket, toDelete, minio.RemoveObjectsOptions{}) {
		if result.Err != nil {
			return pathError("rename", oldpath, translate(result.Err))
		}
	}
	return nil
}

func (m *MinioFS) renameObject(ctx context.Context, oldKey, newKey, oldpath string) error {
	src := minio.CopySrcOptions{Bucket: m.bucket, Object: oldKey}
	dst := minio.CopyDestOptions{Bucket: m.bucket, Object: newKey}

	if _, err := m.client.CopyObject(ctx, dst, src); err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	if err := m.client.RemoveObject(ctx, m.bucket, oldKey, minio.RemoveObjectOptions{}); err != nil {
		return pathError("rename", oldpath, translate(err))
	}
	return nil
}

// parallelCopy copies every object below oldPrefix to newPrefix and returns
// the keys that were copied.
func (m *MinioFS) parallelCopy(ctx context.Context, oldPrefix, newPrefix string) ([]string, error) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.renameConcurrency)

	var mu sync.Mutex
	var copied []string

	for object := range m.client.ListObjects(egCtx, m.bucket, minio.ListObjectsOptions{
		Prefix:    oldPrefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			_ = eg.Wait()
			return copied, object.Err
		}

		oldKey := object.Key
		eg.Go(func() error {
			newKey := newPrefix + strings.TrimPrefix(oldKey, oldPrefix)
			src := minio.CopySrcOptions{Bucket: m.bucket, Object: oldKey}
			dst := minio.CopyDestOptions{Bucket: m.bucket, Object: newKey}
			if _, err := m.client.CopyObject(egCtx, dst, src); err != nil {
				return fmt.Errorf("copy object %s to %s: %w", oldKey, newKey, err)
			}

			mu.Lock()
			copied = append(copied, oldKey)
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return copied, err
	}
	return copied, nil
}

// Walk walks the tree rooted at root in lexical order. Directories are
// listed with ReadDir, so virtual directories are visited like real ones.
func (m *MinioFS) Walk(root string, walkFn fs.WalkDirFunc) error {
	info, err := m.Stat(root)
	if err != nil {
		err = walkFn(root, nil, err)
	} else {
		err = m.walk(root, fs.FileInfoToDirEntry(info), walkFn)
	}
	if errors.Is(err, fs.SkipDir) || errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func (m *MinioFS) walk(name string, d fs.DirEntry, walkFn fs.WalkDirFunc) error {
	if err := walkFn(name, d, nil); err != nil || !d.IsDir() {
		if errors.Is(err, fs.SkipDir) && d.IsDir() {
			err = nil
		}
		return err
	}

	entries, err := m.ReadDir(name)
	if err != nil {
		if err = walkFn(name, d, err); err != nil {
			if errors.Is(err, fs.SkipDir) {
				err = nil
			}
			return err
		}
	}

	for _, entry := range entries {
		if err := m.walk(path.Join(name, entry.Name()), entry, walkFn); err != nil {
			if errors.Is(err, fs.SkipDir) {
				break
			}
			return err
		}
	}
	return nil
}

// Chroot returns a filesystem whose keys live below dir. Directories are
// virtual, so dir need not exist yet, but it must not be an object.
func (m *MinioFS) Chroot(dir string) (core.FS, error) {
	if _, err := m.statObject(context.Background(), dir); err == nil {
		return nil, pathErrorf("chroot", dir, "%w: not a directory", fs.ErrInvalid)
	}

	return &MinioFS{
		client:             m.client,
		bucket:             m.bucket,
		prefix:             m.key(dir),
		multipartThreshold: m.multipartThreshold,
		renameConcurrency:  m.renameConcurrency,
		log:                m.log.With("prefix", m.key(dir)),
	}, nil
}

var _ core.FS = (*MinioFS)(nil)
