// Package config loads pathfs settings from YAML and builds the configured
// filesystem provider, line reader options and directory resolver.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default:
//
//	backend: minio
//	minio:
//	  endpoint: localhost:9000
//	  bucket: logs
//	reader:
//	  delimiter: "\r\n"
//	  chunk_size: 65536
package config

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/fs/billy"
	"github.com/jmgilman/go/pathfs/fs/core"
	"github.com/jmgilman/go/pathfs/fs/minio"
	"github.com/jmgilman/go/pathfs/fs/sftp"
	"github.com/jmgilman/go/pathfs/fspath/known"
	"github.com/jmgilman/go/pathfs/internal/logging"
	"github.com/jmgilman/go/pathfs/lines"
	"gopkg.in/yaml.v3"
)

// Backend names.
const (
	BackendLocal  = "local"
	BackendMemory = "memory"
	BackendMinIO  = "minio"
	BackendSFTP   = "sftp"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvBackend        = "PATHFS_BACKEND"
	EnvLogLevel       = "PATHFS_LOG_LEVEL"
	EnvMinIOAccessKey = "PATHFS_MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "PATHFS_MINIO_SECRET_KEY"
)

var backends = []string{BackendLocal, BackendMemory, BackendMinIO, BackendSFTP}

// Config is the root of the configuration file.
type Config struct {
	Backend string            `yaml:"backend"`
	Local   LocalConfig       `yaml:"local"`
	MinIO   MinIOConfig       `yaml:"minio"`
	SFTP    SFTPConfig        `yaml:"sftp"`
	Reader  ReaderConfig      `yaml:"reader"`
	Known   map[string]string `yaml:"known"`
	Log     LogConfig         `yaml:"log"`
}

// LocalConfig configures the local disk backend.
type LocalConfig struct {
	Root string `yaml:"root"`
}

// MinIOConfig configures the MinIO backend.
type MinIOConfig struct {
	Endpoint          string `yaml:"endpoint"`
	Bucket            string `yaml:"bucket"`
	AccessKey         string `yaml:"access_key"`
	SecretKey         string `yaml:"secret_key"`
	UseSSL            bool   `yaml:"use_ssl"`
	Prefix            string `yaml:"prefix"`
	RenameConcurrency int    `yaml:"rename_concurrency"`
}

// SFTPConfig configures the SFTP backend.
type SFTPConfig struct {
	Host       string   `yaml:"host"`
	Port       int      `yaml:"port"`
	User       string   `yaml:"user"`
	Root       string   `yaml:"root"`
	KeyFiles   []string `yaml:"key_files"`
	KnownHosts string   `yaml:"known_hosts"`
	Insecure   bool     `yaml:"insecure_ignore_host_key"`
}

// ReaderConfig holds the line reader defaults.
type ReaderConfig struct {
	Delimiter string `yaml:"delimiter"`
	ChunkSize int    `yaml:"chunk_size"`
	Encoding  string `yaml:"encoding"`
	Lenient   bool   `yaml:"lenient"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Backend: BackendLocal,
		Local:   LocalConfig{Root: "/"},
		SFTP:    SFTPConfig{Port: 22},
		Reader: ReaderConfig{
			Delimiter: lines.DefaultDelimiter,
			ChunkSize: lines.DefaultChunkSize,
			Encoding:  "utf-8",
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads name from fsys over Default, then applies the environment.
// Unknown keys are rejected. The result is validated.
func Load(fsys fs.FS, name string) (Config, error) {
	cfg, err := Parse(fsys, name)
	if err != nil {
		return Config{}, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse reads name from fsys over Default without consulting the
// environment or validating.
func Parse(fsys fs.FS, name string) (Config, error) {
	cfg := Default()

	f, err := fsys.Open(name)
	if err != nil {
		return Config{}, errors.FromFS(err, "load config", name)
	}
	defer func() {
		_ = f.Close()
	}()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.WrapWithContext(err, errors.CodeInvalidConfig, "failed to parse config", map[string]interface{}{
			"path": name,
		})
	}
	return cfg, nil
}

// ApplyEnv overrides fields from PATHFS_* variables found by lookup. Empty
// values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set(EnvBackend, &c.Backend)
	set(EnvLogLevel, &c.Log.Level)
	set(EnvMinIOAccessKey, &c.MinIO.AccessKey)
	set(EnvMinIOSecretKey, &c.MinIO.SecretKey)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return errors.Newf(errors.CodeInvalidConfig, format, args...)
	}

	if !slices.Contains(backends, c.Backend) {
		return invalid("unknown backend %q (want one of %s)", c.Backend, strings.Join(backends, ", "))
	}
	switch c.Backend {
	case BackendMinIO:
		if c.MinIO.Endpoint == "" || c.MinIO.Bucket == "" {
			return invalid("minio backend requires endpoint and bucket")
		}
		if c.MinIO.RenameConcurrency < 0 {
			return invalid("minio rename_concurrency must not be negative")
		}
	case BackendSFTP:
		if c.SFTP.Host == "" || c.SFTP.User == "" {
			return invalid("sftp backend requires host and user")
		}
	}

	if c.Reader.Delimiter == "" {
		return invalid("reader delimiter must not be empty")
	}
	if c.Reader.ChunkSize < 1 {
		return invalid("reader chunk_size must be at least 1, got %d", c.Reader.ChunkSize)
	}
	if c.Reader.Encoding != "" {
		if _, err := lines.LookupEncoding(c.Reader.Encoding); err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "invalid reader encoding")
		}
	}

	for name := range c.Known {
		if _, err := known.ParseDir(name); err != nil {
			return errors.Wrap(err, errors.CodeInvalidConfig, "invalid known directory")
		}
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, errors.CodeInvalidConfig, "invalid log level")
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		return invalid("log format must be text or json, got %q", c.Log.Format)
	}
	return nil
}

// Logger builds the configured logger writing to out.
func (c Config) Logger(out io.Writer) *logging.Logger {
	level, _ := logging.ParseLevel(c.Log.Level)
	return logging.NewLogger(logging.Config{Level: level, Format: c.Log.Format, Output: out})
}

// NewFS builds the configured provider. The SFTP provider holds a network
// connection and implements io.Closer.
func (c Config) NewFS(logger *slog.Logger) (core.FS, error) {
	switch c.Backend {
	case BackendLocal, "":
		return billy.NewLocal(billy.WithRoot(c.Local.Root)), nil
	case BackendMemory:
		return billy.NewMemory(), nil
	case BackendMinIO:
		m, err := minio.NewMinIO(minio.Config{
			Endpoint:             c.MinIO.Endpoint,
			Bucket:               c.MinIO.Bucket,
			AccessKey:            c.MinIO.AccessKey,
			SecretKey:            c.MinIO.SecretKey,
			UseSSL:               c.MinIO.UseSSL,
			Prefix:               c.MinIO.Prefix,
			MaxRenameConcurrency: c.MinIO.RenameConcurrency,
			Logger:               logger,
		})
		if err != nil {
			return nil, err
		}
		return m, nil
	case BackendSFTP:
		s, err := sftp.NewSFTP(sftp.Config{
			Host:                  c.SFTP.Host,
			Port:                  c.SFTP.Port,
			User:                  c.SFTP.User,
			Root:                  c.SFTP.Root,
			KeyFiles:              c.SFTP.KeyFiles,
			KnownHostsFile:        c.SFTP.KnownHosts,
			InsecureIgnoreHostKey: c.SFTP.Insecure,
			Logger:                logger,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "unknown backend %q", c.Backend)
	}
}

// ReaderOptions returns the line reader options for the reader section.
func (c Config) ReaderOptions() []lines.Option {
	opts := []lines.Option{
		lines.WithChunkSize(c.Reader.ChunkSize),
	}
	if c.Reader.Encoding != "" {
		opts = append(opts, lines.WithEncodingName(c.Reader.Encoding))
	}
	if c.Reader.Delimiter != "" {
		opts = append(opts, lines.WithDelimiterString(c.Reader.Delimiter))
	}
	if c.Reader.Lenient {
		opts = append(opts, lines.WithReplacement())
	}
	return opts
}

// Resolver returns a directory resolver with the known section applied as
// overrides. Unknown names are skipped; Validate reports them.
func (c Config) Resolver(opts ...known.Option) *known.Resolver {
	overrides := make(map[known.Dir]string, len(c.Known))
	for name, p := range c.Known {
		if d, err := known.ParseDir(name); err == nil {
			overrides[d] = p
		}
	}
	return known.NewResolver(append(opts, known.WithOverrides(overrides))...)
}
