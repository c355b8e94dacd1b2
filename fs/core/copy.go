package core

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultCopyConcurrency is the number of files CopyTree copies at once
// when no concurrency is given.
const DefaultCopyConcurrency = 4

const createFlags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC

// CopyFile copies a single file from src to dst, creating dst's parent
// directories. The destination is truncated if it exists and receives the
// source's permission bits where the provider honors them.
func CopyFile(src fs.FS, srcName string, dst FS, dstName string) error {
	in, err := src.Open(srcName)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: srcName, Err: fs.ErrInvalid}
	}

	if dir := path.Dir(dstName); dir != "." && dir != "/" && dir != "" {
		if err := dst.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	out, err := dst.OpenFile(dstName, createFlags, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if s, ok := out.(Syncer); ok {
		if err := s.Sync(); err != nil {
			_ = out.Close()
			return err
		}
	}
	return out.Close()
}

// CopyTree copies every file below srcRoot in src to the same relative
// location below dstRoot in dst, preserving the directory structure.
// Empty directories are recreated. Files are copied concurrently, at most
// concurrency at a time (DefaultCopyConcurrency when concurrency < 1); the
// first failure cancels the remaining copies. Copying a tree into itself
// fails with fs.ErrInvalid.
func CopyTree(ctx context.Context, src fs.FS, srcRoot string, dst FS, dstRoot string, concurrency int) error {
	if same, ok := src.(FS); ok && same == dst && within(srcRoot, dstRoot) {
		return &fs.PathError{Op: "copy", Path: dstRoot, Err: fs.ErrInvalid}
	}
	if concurrency < 1 {
		concurrency = DefaultCopyConcurrency
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	walkErr := fs.WalkDir(src, srcRoot, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if egCtx.Err() != nil {
			return fs.SkipAll
		}

		target := joinRel(dstRoot, relTo(srcRoot, filePath))
		if d.IsDir() {
			return dst.MkdirAll(target, 0o755)
		}

		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return CopyFile(src, filePath, dst, target)
		})
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}
	if walkErr != nil {
		return walkErr
	}
	return ctx.Err()
}

// within reports whether name is root or lies below it.
func within(root, name string) bool {
	root = path.Clean("/" + root)
	name = path.Clean("/" + name)
	return root == "/" || name == root || strings.HasPrefix(name, root+"/")
}

// relTo returns name relative to root, using slash-separated paths.
func relTo(root, name string) string {
	if root == "." || root == "" {
		return name
	}
	rel := strings.TrimPrefix(name, root)
	return strings.TrimPrefix(rel, "/")
}

// joinRel joins root and rel, treating an empty rel as root itself.
func joinRel(root, rel string) string {
	if rel == "" {
		return root
	}
	return path.Join(root, rel)
}
