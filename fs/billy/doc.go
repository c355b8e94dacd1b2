// Package billy provides go-billy backed implementations of core.FS.
//
// LocalFS wraps billy's osfs and MemoryFS wraps billy's memfs. Both share a
// single adapter, so they behave identically apart from where bytes live.
//
//	local := billy.NewLocal()                      // rooted at "/"
//	scoped := billy.NewLocal(billy.WithRoot(dir))  // rooted at dir
//	mem := billy.NewMemory()
//
// Unwrap exposes the underlying billy.Filesystem for libraries that speak
// billy directly.
//
// # Thread Safety
//
// FS instances are safe for concurrent use by multiple goroutines. File
// handles are not.
package billy
