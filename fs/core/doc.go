// Package core defines the provider contract behind pathfs.
//
// A provider is anything implementing FS: local disk and in-memory
// filesystems through go-billy, MinIO/S3 buckets, and SFTP servers. The
// path layer (package fspath) and the line reader (package lines) only talk
// to these interfaces, so the same code runs unchanged against any of them.
//
// # Interface Hierarchy
//
// FS is composed of five sub-interfaces:
//
//   - ReadFS: Open, Stat, ReadDir, ReadFile, Exists
//   - WriteFS: Create, OpenFile, WriteFile, Mkdir, MkdirAll
//   - ManageFS: Remove, RemoveAll, Rename
//   - WalkFS: Walk
//   - ChrootFS: Chroot
//
// FS embeds fs.FS, so stdlib helpers such as fs.WalkDir and fs.ReadFile
// accept any provider.
//
// # File Capabilities
//
// Files returned by Open satisfy fs.File. The line reader additionally
// requires io.Seeker to restart iteration; every provider in this module
// supports it. Syncer is optional and checked with a type assertion.
//
// # Copying
//
// CopyFile and CopyTree copy between any two providers, which is how
// fspath.Path.CopyTo works across backends.
package core
