// Command pathfs inspects and manipulates files on any configured provider
// and streams delimited records out of them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/jmgilman/go/pathfs/config"
	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/billy"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/fspath"
	"github.com/jmgilman/go/pathfs/internal/logging"
)

// Global holds flags shared by every command and the state built from them.
type Global struct {
	Config   string `help:"YAML configuration file" type:"existingfile" env:"PATHFS_CONFIG"`
	Backend  string `help:"filesystem backend (local, memory, minio, sftp)"`
	LogLevel string `help:"log level (debug, info, warn, error)" name:"log-level"`
	JSON     bool   `help:"render errors as JSON" name:"json"`

	Context context.Context `kong:"-"`
	Stdout  io.Writer       `kong:"-"`
	Stderr  io.Writer       `kong:"-"`

	cfg    config.Config
	log    *logging.Logger
	fsys   core.FS
	closer io.Closer
}

// setup loads the configuration, applies flag overrides and builds the
// provider. It runs once, before the selected command.
func (g *Global) setup() error {
	cfg := config.Default()
	if g.Config != "" {
		abs, err := filepath.Abs(g.Config)
		if err != nil {
			return errors.Wrap(err, errors.CodeInvalidInput, "cannot resolve config path")
		}
		if cfg, err = config.Parse(billy.NewLocal(), filepath.ToSlash(abs)); err != nil {
			return err
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if g.Backend != "" {
		cfg.Backend = g.Backend
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g.cfg = cfg
	g.log = cfg.Logger(g.Stderr)
	fsys, err := cfg.NewFS(g.log.Slog())
	if err != nil {
		return err
	}
	g.fsys = fsys
	if c, ok := fsys.(io.Closer); ok {
		g.closer = c
	}
	g.log.Debug("provider ready", "backend", cfg.Backend, "type", fsys.Type().String())
	return nil
}

// path maps a command-line name onto the provider. Relative names on a
// local backend rooted at "/" resolve against the working directory.
func (g *Global) path(name string) (fspath.Path, error) {
	opts := []fspath.Option{fspath.WithLogger(g.log.Slog())}
	if g.cfg.Backend == config.BackendLocal && g.cfg.Local.Root == "/" && !filepath.IsAbs(name) {
		abs, err := filepath.Abs(name)
		if err != nil {
			return fspath.Path{}, errors.Wrapf(err, errors.CodeInvalidInput, "cannot resolve %q", name)
		}
		name = filepath.ToSlash(abs)
	}
	return fspath.New(g.fsys, name, opts...), nil
}

func (g *Global) close() {
	if g.closer != nil {
		_ = g.closer.Close()
	}
}

type cli struct {
	Global

	Lines lineCmd  `cmd:"" help:"print the records of a file"`
	Ls    lsCmd    `cmd:"" help:"list a directory"`
	Stat  statCmd  `cmd:"" help:"describe a file or directory"`
	Cp    cpCmd    `cmd:"" help:"copy a file or directory tree"`
	Mv    mvCmd    `cmd:"" help:"move a file or directory tree"`
	Rm    rmCmd    `cmd:"" help:"remove a file or directory"`
	Mkdir mkdirCmd `cmd:"" help:"create a directory and its parents"`
	Known knownCmd `cmd:"" help:"print well-known directories"`
}

// run parses args, executes the command and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var c cli
	c.Context, c.Stdout, c.Stderr = ctx, stdout, stderr

	parser, err := kong.New(&c,
		kong.Name("pathfs"),
		kong.Description("filesystem paths and streaming line reads across local, memory, MinIO and SFTP providers"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(&c.Global),
	)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	if err := c.setup(); err != nil {
		report(&c.Global, err)
		return 1
	}
	defer c.close()

	if err := kctx.Run(); err != nil {
		report(&c.Global, err)
		return 1
	}
	return 0
}

func report(g *Global, err error) {
	if g.JSON {
		enc := json.NewEncoder(g.Stderr)
		_ = enc.Encode(errors.ToJSON(err))
		return
	}
	fmt.Fprintf(g.Stderr, "pathfs: %v\n", err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
