// Package fspath provides Path, a file or directory location bound to a
// filesystem provider.
//
// A Path pairs a core.FS with a cleaned, slash-separated name. Pure string
// operations (Join, Dir, Ext and friends) never touch the filesystem.
// Everything else delegates to the provider and wraps failures with codes
// from the errors package, keeping the provider's error in the chain:
//
//	fsys := billy.NewMemory()
//	p := fspath.New(fsys, "logs/app.log")
//	if _, err := p.CreateFile([]byte("started\n")); err != nil {
//	    return err
//	}
//	err := p.EachLine(func(line string) error {
//	    fmt.Println(line)
//	    return nil
//	})
//
// Paths on different providers can be copied or moved between each other;
// CopyTo and MoveTo fall back to streaming the bytes when a provider-level
// rename is not possible.
package fspath
