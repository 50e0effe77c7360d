//go:build linux
// +build linux

package netns

import (
	"github.com/pkg/errors"
	"github.com/vishvananda/netns"
)

// Netns opens and switches network namespaces through vishvananda/netns.
// Descriptors are plain ints so callers can hand them to netlink attributes.
type Netns struct{}

func New() *Netns {
	return &Netns{}
}

// Get returns a descriptor for the calling thread's current namespace.
func (f *Netns) Get() (int, error) {
	nsHandle, err := netns.Get()
	return int(nsHandle), errors.Wrap(err, "netns impl")
}

// GetFromPath opens the namespace handle at path read-only.
func (f *Netns) GetFromPath(path string) (int, error) {
	nsHandle, err := netns.GetFromPath(path)
	return int(nsHandle), errors.Wrap(err, "netns impl")
}

// Set associates the calling thread with the namespace behind fileDescriptor.
func (f *Netns) Set(fileDescriptor int) error {
	return errors.Wrap(netns.Set(netns.NsHandle(fileDescriptor)), "netns impl")
}

func (f *Netns) Close(fileDescriptor int) error {
	nsHandle := netns.NsHandle(fileDescriptor)
	return errors.Wrap(nsHandle.Close(), "netns impl")
}
