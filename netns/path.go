package netns

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultDir is where iproute2 bind-mounts named namespaces.
	DefaultDir = "/var/run/netns"

	// MaxPathLen bounds the full handle path, matching the 64 byte
	// buffer (NUL included) the switch daemons size their paths with.
	MaxPathLen = 63
)

// ErrInvalidName is returned for namespace names that cannot name a handle file.
var ErrInvalidName = errors.New("invalid namespace name")

// Path returns the handle path for the named namespace under dir.
// Names that would overflow MaxPathLen are rejected rather than truncated.
func Path(dir, name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	if dir == "" {
		dir = DefaultDir
	}

	path := filepath.Join(dir, name)
	if len(path) > MaxPathLen {
		return "", errors.Wrapf(ErrInvalidName, "path %q exceeds %d bytes", path, MaxPathLen)
	}

	return path, nil
}

// ValidateName checks that name refers to a single entry of the namespace directory.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.Wrap(ErrInvalidName, "empty name")
	case name == "." || name == "..":
		return errors.Wrapf(ErrInvalidName, "%q", name)
	case strings.ContainsAny(name, "/\x00"):
		return errors.Wrapf(ErrInvalidName, "%q contains a path separator or NUL", name)
	}

	return nil
}
