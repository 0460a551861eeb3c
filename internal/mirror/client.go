package mirror

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// ErrNoAuthMethods means neither the SSH agent nor a default key file
// produced a usable credential.
var ErrNoAuthMethods = errors.New("no SSH authentication methods available (tried SSH agent and default keys)")

// Connection holds an active SSH/SFTP connection to a mirror target.
type Connection struct {
	sshClient  *ssh.Client
	sftpClient *sftp.Client
}

// Connect opens an SSH connection to the target host and starts an SFTP
// session on it. Authentication uses the SSH agent and the user's default
// key files.
func Connect(target *Target) (*Connection, error) {
	authMethods := sshAuthMethods()
	if len(authMethods) == 0 {
		return nil, ErrNoAuthMethods
	}

	config := &ssh.ClientConfig{
		User:            target.User,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // TODO: verify host keys against known_hosts
	}

	addr := net.JoinHostPort(target.Host, fmt.Sprintf("%d", target.Port))

	sshClient, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("SSH connection failed: %w", err)
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, fmt.Errorf("SFTP session creation failed: %w", err)
	}

	return &Connection{
		sshClient:  sshClient,
		sftpClient: sftpClient,
	}, nil
}

// Close closes the SFTP session and the SSH connection underneath it.
func (c *Connection) Close() error {
	var firstErr error

	if c.sftpClient != nil {
		if err := c.sftpClient.Close(); err != nil {
			firstErr = err
		}
	}

	if c.sshClient != nil {
		if err := c.sshClient.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// sshAuthMethods returns authentication methods in priority order: the SSH
// agent first, then the default key files.
func sshAuthMethods() []ssh.AuthMethod {
	var authMethods []ssh.AuthMethod

	if agentAuth := trySSHAgent(); agentAuth != nil {
		authMethods = append(authMethods, agentAuth)
	}

	authMethods = append(authMethods, defaultKeyAuths()...)

	return authMethods
}

func trySSHAgent() ssh.AuthMethod {
	socket := os.Getenv("SSH_AUTH_SOCK")
	if socket == "" {
		return nil
	}

	conn, err := net.Dial("unix", socket)
	if err != nil {
		return nil
	}

	agentClient := agent.NewClient(conn)

	return ssh.PublicKeysCallback(agentClient.Signers)
}

// defaultKeyAuths loads SSH keys from the usual ~/.ssh locations. Missing,
// unreadable, and passphrase-protected keys are skipped.
func defaultKeyAuths() []ssh.AuthMethod {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	sshDir := filepath.Join(homeDir, ".ssh")

	keyFiles := []string{
		filepath.Join(sshDir, "id_ed25519"),
		filepath.Join(sshDir, "id_rsa"),
		filepath.Join(sshDir, "id_ecdsa"),
	}

	var authMethods []ssh.AuthMethod

	for _, keyPath := range keyFiles {
		keyData, err := os.ReadFile(keyPath)
		if err != nil {
			continue
		}

		signer, err := ssh.ParsePrivateKey(keyData)
		if err != nil {
			continue
		}

		authMethods = append(authMethods, ssh.PublicKeys(signer))
	}

	return authMethods
}
