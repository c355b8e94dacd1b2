package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fspath/known"
	"github.com/jmgilman/go/pathfs/lines"
)

type lineCmd struct {
	Path      string `arg:"" help:"file to read"`
	Delimiter string `help:"record delimiter, Go escapes such as \\t and \\r\\n allowed (default from config)" short:"d"`
	ChunkSize int    `help:"bytes per read (default from config)" name:"chunk-size"`
	Encoding  string `help:"IANA encoding name (default from config)"`
	Lenient   bool   `help:"replace invalid byte sequences instead of skipping the record"`
	Count     bool   `help:"print the number of records only"`
}

// unescape decodes Go escape sequences so a shell-quoted '\t' means a tab.
func unescape(s string) (string, error) {
	out, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`)
	if err != nil {
		return "", errors.Wrapf(err, errors.CodeInvalidInput, "invalid delimiter %q", s)
	}
	return out, nil
}

func (c lineCmd) options(g *Global) ([]lines.Option, error) {
	opts := g.cfg.ReaderOptions()
	opts = append(opts, lines.WithLogger(g.log.Slog()))
	if c.ChunkSize > 0 {
		opts = append(opts, lines.WithChunkSize(c.ChunkSize))
	}
	if c.Encoding != "" {
		opts = append(opts, lines.WithEncodingName(c.Encoding))
	}
	if c.Delimiter != "" {
		delim, err := unescape(c.Delimiter)
		if err != nil {
			return nil, err
		}
		opts = append(opts, lines.WithDelimiterString(delim))
	}
	if c.Lenient {
		opts = append(opts, lines.WithReplacement())
	}
	return opts, nil
}

func (c lineCmd) Run(g *Global) error {
	p, err := g.path(c.Path)
	if err != nil {
		return err
	}

	opts, err := c.options(g)
	if err != nil {
		return err
	}
	r, err := p.Lines(opts...)
	if err != nil {
		return err
	}
	defer func() {
		_ = r.Close()
	}()

	count := 0
	for record, err := range r.All() {
		if errors.GetCode(err) == errors.CodeDecodeFailed {
			g.log.Warn("skipping undecodable record", "path", p.String(), "error", err)
			continue
		}
		if err != nil {
			return err
		}
		if err := g.Context.Err(); err != nil {
			return err
		}
		count++
		if !c.Count {
			fmt.Fprintln(g.Stdout, record)
		}
	}

	if c.Count {
		fmt.Fprintln(g.Stdout, count)
	}
	stats := r.Stats()
	g.log.Debug("read complete", "records", stats.Records, "bytes", stats.BytesRead, "chunks", stats.Chunks)
	return nil
}

type lsCmd struct {
	Path      string `arg:"" optional:"" default:"." help:"directory to list"`
	Recursive bool   `short:"r" help:"list every descendant"`
	Glob      string `help:"doublestar pattern relative to the path"`
}

func (c lsCmd) Run(g *Global) error {
	p, err := g.path(c.Path)
	if err != nil {
		return err
	}

	switch {
	case c.Glob != "":
		matches, err := p.Glob(c.Glob)
		if err != nil {
			return err
		}
		for _, m := range matches {
			fmt.Fprintln(g.Stdout, m.String())
		}
	case c.Recursive:
		subpaths, err := p.Subpaths()
		if err != nil {
			return err
		}
		for _, s := range subpaths {
			fmt.Fprintln(g.Stdout, s)
		}
	default:
		children, err := p.List()
		if err != nil {
			return err
		}
		for _, child := range children {
			name := child.Base()
			if ok, _ := child.IsDir(); ok {
				name += "/"
			}
			fmt.Fprintln(g.Stdout, name)
		}
	}
	return nil
}

type statCmd struct {
	Path string `arg:"" help:"file or directory to describe"`
}

func (c statCmd) Run(g *Global) error {
	p, err := g.path(c.Path)
	if err != nil {
		return err
	}
	info, err := p.Stat()
	if err != nil {
		return err
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}
	fmt.Fprintf(g.Stdout, "path:     %s\n", p.String())
	fmt.Fprintf(g.Stdout, "type:     %s\n", kind)
	fmt.Fprintf(g.Stdout, "size:     %d\n", info.Size())
	fmt.Fprintf(g.Stdout, "mode:     %s\n", info.Mode())
	if !info.ModTime().IsZero() {
		fmt.Fprintf(g.Stdout, "modified: %s\n", info.ModTime().UTC().Format(time.RFC3339))
	}
	return nil
}

type cpCmd struct {
	Src string `arg:"" help:"source path"`
	Dst string `arg:"" help:"destination path"`
}

func (c cpCmd) Run(g *Global) error {
	src, err := g.path(c.Src)
	if err != nil {
		return err
	}
	dst, err := g.path(c.Dst)
	if err != nil {
		return err
	}
	return src.CopyTo(g.Context, dst)
}

type mvCmd struct {
	Src string `arg:"" help:"source path"`
	Dst string `arg:"" help:"destination path"`
}

func (c mvCmd) Run(g *Global) error {
	src, err := g.path(c.Src)
	if err != nil {
		return err
	}
	dst, err := g.path(c.Dst)
	if err != nil {
		return err
	}
	return src.MoveTo(g.Context, dst)
}

type rmCmd struct {
	Path      string `arg:"" help:"path to remove"`
	Recursive bool   `short:"r" help:"remove directories and their contents"`
}

func (c rmCmd) Run(g *Global) error {
	p, err := g.path(c.Path)
	if err != nil {
		return err
	}
	if c.Recursive {
		return p.RemoveAll()
	}
	return p.Remove()
}

type mkdirCmd struct {
	Path string `arg:"" help:"directory to create"`
}

func (c mkdirCmd) Run(g *Global) error {
	p, err := g.path(c.Path)
	if err != nil {
		return err
	}
	return p.MkdirAll()
}

type knownCmd struct {
	Dir  string `arg:"" optional:"" help:"directory name (home, documents, library, cache, config, temp, desktop, downloads, user, current)"`
	GOOS string `help:"platform layout to use instead of the running one" name:"goos"`
}

func (c knownCmd) Run(g *Global) error {
	var opts []known.Option
	if c.GOOS != "" {
		opts = append(opts, known.WithGOOS(c.GOOS))
	}
	r := g.cfg.Resolver(opts...)

	if c.Dir != "" {
		d, err := known.ParseDir(c.Dir)
		if err != nil {
			return err
		}
		p, err := r.Resolve(d)
		if err != nil {
			return err
		}
		fmt.Fprintln(g.Stdout, p)
		return nil
	}

	all := r.All()
	for _, d := range known.Dirs() {
		if p, ok := all[d]; ok {
			fmt.Fprintf(g.Stdout, "%-10s %s\n", d, p)
		}
	}
	return nil
}
