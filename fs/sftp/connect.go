package sftp

import (
	"net"
	"os"
	"strconv"

	"github.com/jmgilman/go/pathfs/errors"
	"github.com/jmgilman/go/pathfs/internal/logging"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// dial opens an SSH connection and an SFTP session on it.
func dial(cfg Config, log *logging.Logger) (*sftp.Client, *ssh.Client, error) {
	auth := authMethods(cfg, log)
	if len(auth) == 0 {
		return nil, nil, errors.New(errors.CodeInvalidConfig,
			"no SSH authentication methods available (tried password, agent and key files)")
	}

	hostKey, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, nil, err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	log.Debug("dialing ssh", "addr", addr, "user", cfg.User, "methods", len(auth))

	sshClient, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		return nil, nil, errors.WrapWithContext(err, errors.CodeNetwork, "SSH connection failed", map[string]interface{}{
			"addr": addr,
		})
	}

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, nil, errors.Wrap(err, errors.CodeUnavailable, "SFTP session creation failed")
	}
	return client, sshClient, nil
}

// authMethods returns the usable methods in priority order: password,
// agent, then key files.
func authMethods(cfg Config, log *logging.Logger) []ssh.AuthMethod {
	var methods []ssh.AuthMethod
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}
	if a := agentAuth(); a != nil {
		methods = append(methods, a)
	}

	var signers []ssh.Signer
	for _, keyPath := range cfg.KeyFiles {
		data, err := os.ReadFile(keyPath)
		if err != nil {
			continue
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			log.Debug("skipping private key", "path", keyPath, "error", err)
			continue
		}
		signers = append(signers, signer)
	}
	if len(signers) > 0 {
		methods = append(methods, ssh.PublicKeys(signers...))
	}
	return methods
}

func agentAuth() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}
	return ssh.PublicKeysCallback(agent.NewClient(conn).Signers)
}

func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.InsecureIgnoreHostKey {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec // opt-in through configuration
	}
	if cfg.KnownHostsFile == "" {
		return nil, errors.New(errors.CodeInvalidConfig, "known hosts file is required for host key verification")
	}
	callback, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "failed to load known hosts %s", cfg.KnownHostsFile)
	}
	return callback, nil
}
