// Package fstest is a conformance suite for core.FS providers.
//
// Provider packages run it from their own tests with a constructor that
// returns a fresh, empty filesystem:
//
//	func TestConformance(t *testing.T) {
//	    fstest.TestSuite(t, func() core.FS {
//	        return billy.NewMemory()
//	    })
//	}
//
// Besides the provider contract the suite checks the guarantees the line
// reader depends on: seekable handles and identical records whatever the
// chunk size. Object stores declare their differences through FSTestConfig.
package fstest

import (
	"slices"
	"testing"

	"github.com/jmgilman/go/pathfs/fs/core"
)

// FSTestConfig describes how a provider deviates from POSIX behavior.
type FSTestConfig struct {
	// VirtualDirectories means directories exist only as key prefixes. They
	// cannot be stat'd before something is written below them and vanish
	// when emptied.
	VirtualDirectories bool

	// IdempotentDelete means Remove on a missing path returns nil.
	IdempotentDelete bool

	// ImplicitParentDirs means writing "a/b/c.txt" succeeds without
	// creating "a/b" first.
	ImplicitParentDirs bool

	// SkipTests lists "Group/Subtest" or "Group" names to skip.
	SkipTests []string
}

// POSIXTestConfig returns the configuration for local, memory and SFTP
// providers.
func POSIXTestConfig() FSTestConfig {
	return FSTestConfig{}
}

// S3TestConfig returns the configuration for object-store providers.
func S3TestConfig() FSTestConfig {
	return FSTestConfig{
		VirtualDirectories: true,
		IdempotentDelete:   true,
		ImplicitParentDirs: true,
	}
}

func (c FSTestConfig) skip(t *testing.T, name string) {
	t.Helper()
	if slices.Contains(c.SkipTests, name) {
		t.Skip("skipped by provider configuration")
	}
}

// run starts a subtest unless the configuration skips it.
func (c FSTestConfig) run(t *testing.T, group, name string, fn func(t *testing.T)) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		c.skip(t, group+"/"+name)
		fn(t)
	})
}

// TestSuite runs every conformance test with POSIXTestConfig.
func TestSuite(t *testing.T, newFS func() core.FS) {
	TestSuiteWithConfig(t, newFS, POSIXTestConfig())
}

// TestSuiteWithConfig runs every conformance test. Each group gets a fresh
// filesystem from newFS.
func TestSuiteWithConfig(t *testing.T, newFS func() core.FS, config FSTestConfig) {
	groups := []struct {
		name string
		fn   func(*testing.T, core.FS, FSTestConfig)
	}{
		{"ReadFS", TestReadFSWithConfig},
		{"WriteFS", TestWriteFSWithConfig},
		{"ManageFS", TestManageFSWithConfig},
		{"WalkFS", TestWalkFSWithConfig},
		{"ChrootFS", TestChrootFSWithConfig},
		{"Lines", TestLinesWithConfig},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			config.skip(t, g.name)
			g.fn(t, newFS(), config)
		})
	}
}
