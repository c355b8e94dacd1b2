// Package sftp provides an SFTP implementation of core.FS.
//
// Names are resolved below Config.Root on the server and cannot climb above
// it. The connection is made over SSH with the agent and private key files;
// host keys are checked against a known_hosts file unless explicitly
// disabled.
package sftp

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/pkg/sftp"
)

const (
	defaultPort    = 22
	defaultTimeout = 30 * time.Second
)

// Config holds SFTP filesystem configuration.
type Config struct {
	// Host and Port address the SSH server. Port defaults to 22.
	Host string
	Port int

	// User is the login name.
	User string

	// Root is the remote directory every name is relative to. Defaults to
	// the login directory.
	Root string

	// Password enables password authentication when set.
	Password string

	// KeyFiles are private keys to offer. Defaults to id_ed25519, id_rsa
	// and id_ecdsa under ~/.ssh. Encrypted keys are skipped.
	KeyFiles []string

	// KnownHostsFile verifies the server key. Defaults to
	// ~/.ssh/known_hosts.
	KnownHostsFile string

	// InsecureIgnoreHostKey disables host key verification.
	InsecureIgnoreHostKey bool

	// Timeout bounds the TCP connect and SSH handshake. Defaults to 30s.
	Timeout time.Duration

	// Client is an optional established session. When set no connection is
	// made and Close leaves the session open.
	Client *sftp.Client

	// Logger receives connection debug output.
	Logger *slog.Logger
}

func (c *Config) validate() error {
	if c.Client != nil {
		return nil
	}
	if c.Host == "" {
		return errors.New(errors.CodeInvalidConfig, "host is required when client is not provided")
	}
	if c.User == "" {
		return errors.New(errors.CodeInvalidConfig, "user is required when client is not provided")
	}
	if c.Port < 0 || c.Port > 65535 {
		return errors.Newf(errors.CodeInvalidConfig, "port %d is out of range", c.Port)
	}
	return nil
}

// withDefaults fills unset connection fields.
func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Root == "" {
		c.Root = "."
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return c
	}
	sshDir := filepath.Join(home, ".ssh")
	if c.KeyFiles == nil {
		c.KeyFiles = []string{
			filepath.Join(sshDir, "id_ed25519"),
			filepath.Join(sshDir, "id_rsa"),
			filepath.Join(sshDir, "id_ecdsa"),
		}
	}
	if c.KnownHostsFile == "" {
		c.KnownHostsFile = filepath.Join(sshDir, "known_hosts")
	}
	return c
}
