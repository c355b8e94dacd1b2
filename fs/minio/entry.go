package minio

import (
	"io/fs"
	"time"
)

const (
	fileMode = fs.FileMode(0o644)
	dirMode  = fs.ModeDir | 0o755
)

// fileInfo describes an object or a virtual directory.
type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	mode    fs.FileMode
}

func newFileInfo(name string, size int64, modTime time.Time) *fileInfo {
	return &fileInfo{name: name, size: size, modTime: modTime, mode: fileMode}
}

func newDirInfo(name string) *fileInfo {
	return &fileInfo{name: name, mode: dirMode}
}

func (fi *fileInfo) Name() string       { return fi.name }
func (fi *fileInfo) Size() int64        { return fi.size }
func (fi *fileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *fileInfo) ModTime() time.Time { return fi.modTime }
func (fi *fileInfo) IsDir() bool        { return fi.mode.IsDir() }
func (fi *fileInfo) Sys() any           { return nil }

// dirEntry adapts fileInfo to fs.DirEntry.
type dirEntry struct {
	info *fileInfo
}

func (e dirEntry) Name() string               { return e.info.name }
func (e dirEntry) IsDir() bool                { return e.info.IsDir() }
func (e dirEntry) Type() fs.FileMode          { return e.info.mode.Type() }
func (e dirEntry) Info() (fs.FileInfo, error) { return e.info, nil }

var (
	_ fs.FileInfo = (*fileInfo)(nil)
	_ fs.DirEntry = dirEntry{}
)
