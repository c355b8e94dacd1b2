// Package known resolves well-known user directories such as the home,
// cache and downloads directories.
//
// Locations come from a Table keyed by GOOS. Each entry is a Template: an
// ordered list of Sources tried until one yields a value. A Resolver
// evaluates the table against injectable lookups, so every platform's
// layout can be exercised from any host:
//
//	r := known.NewResolver(known.WithGOOS("darwin"), known.WithHome(func() (string, error) {
//	    return "/Users/dev", nil
//	}))
//	cache, err := r.Resolve(known.Cache) // "/Users/dev/Library/Caches"
package known

import (
	"strings"

	"github.com/jmgilman/go/pathfs/errors"
)

// Dir names a well-known directory.
type Dir int

const (
	Home Dir = iota
	Documents
	Library
	Cache
	Config
	Temp
	Desktop
	Downloads
	User
	Current
)

var dirNames = [...]string{
	Home:      "home",
	Documents: "documents",
	Library:   "library",
	Cache:     "cache",
	Config:    "config",
	Temp:      "temp",
	Desktop:   "desktop",
	Downloads: "downloads",
	User:      "user",
	Current:   "current",
}

// String returns the lower-case name of d.
func (d Dir) String() string {
	if d < 0 || int(d) >= len(dirNames) {
		return "unknown"
	}
	return dirNames[d]
}

// Dirs returns every Dir in declaration order.
func Dirs() []Dir {
	dirs := make([]Dir, len(dirNames))
	for i := range dirNames {
		dirs[i] = Dir(i)
	}
	return dirs
}

// ParseDir returns the Dir named s, ignoring case.
func ParseDir(s string) (Dir, error) {
	for i, name := range dirNames {
		if strings.EqualFold(s, name) {
			return Dir(i), nil
		}
	}
	return 0, errors.WithContext(
		errors.Newf(errors.CodeNotFound, "unknown directory %q", s),
		"valid", strings.Join(dirNames[:], ", "),
	)
}
