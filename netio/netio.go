package netio

import (
	"net"

	"github.com/pkg/errors"
)

//nolint:revive // keeping NetIOInterface makes sense
type NetIOInterface interface {
	GetNetworkInterfaceByName(name string) (*net.Interface, error)
	GetNetworkInterfaceIndex(name string) (int, error)
}

// ErrInterfaceNotFound - errors out when no interface has the name
var ErrInterfaceNotFound = errors.New("interface not found")

// NetIO resolves interfaces in the calling thread's network namespace.
type NetIO struct{}

func (ns *NetIO) GetNetworkInterfaceByName(name string) (*net.Interface, error) {
	iface, err := net.InterfaceByName(name)
	return iface, errors.Wrap(err, "GetNetworkInterfaceByName failed")
}

// GetNetworkInterfaceIndex returns the kernel index of the named interface.
// A missing interface, or one reported with index zero, is ErrInterfaceNotFound.
func (ns *NetIO) GetNetworkInterfaceIndex(name string) (int, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return 0, errors.Wrapf(ErrInterfaceNotFound, "%s: %v", name, err)
	}

	if iface.Index == 0 {
		return 0, errors.Wrap(ErrInterfaceNotFound, name)
	}

	return iface.Index, nil
}
