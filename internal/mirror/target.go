// Package mirror uploads a save slot to a remote host over SFTP so that a
// copy of the save survives the local machine.
package mirror

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Target identifies the remote directory a slot is mirrored into.
type Target struct {
	Host string
	Port int
	User string
	Path string // remote directory the slot is uploaded under
}

// ParseTarget parses an SFTP URL of the form sftp://user@host[:port]/path.
// Port defaults to 22. A path starting with // is absolute; a single leading
// slash means relative to the user's home directory; no path means the home
// directory itself.
//
//nolint:cyclop // Complexity from comprehensive SFTP URL validation (scheme, user, host, port, path)
func ParseTarget(rawURL string) (*Target, error) {
	u, err := url.Parse(rawURL) //nolint:varnamelen // u is idiomatic for URL
	if err != nil {
		return nil, fmt.Errorf("invalid mirror URL: %w", err)
	}

	if u.Scheme != "sftp" {
		return nil, fmt.Errorf("expected sftp:// scheme, got %s://", u.Scheme) //nolint:err113 // URL validation with actual scheme
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("mirror URL must include username (sftp://user@host/path)") //nolint:err113,perfsprint,lll // URL validation with format guidance
	}

	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("mirror URL must include host") //nolint:err113,perfsprint // URL validation error
	}

	port := 22

	if portStr := u.Port(); portStr != "" {
		parsed, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port number: %w", err)
		}

		port = parsed
	}

	remotePath := u.Path

	//nolint:gocritic // if-else chain is clearer than switch for mixed conditions
	if remotePath == "" || remotePath == "/" {
		remotePath = "."
	} else if strings.HasPrefix(remotePath, "//") {
		remotePath = remotePath[1:]
	} else {
		remotePath = strings.TrimPrefix(remotePath, "/")
	}

	return &Target{
		Host: host,
		Port: port,
		User: u.User.Username(),
		Path: remotePath,
	}, nil
}
