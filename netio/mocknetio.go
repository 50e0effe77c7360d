package netio

import (
	"errors"
	"fmt"
	"net"
)

// MockNetIO serves interfaces from a fixed name to index table.
type MockNetIO struct {
	fail           bool
	failAttempt    int
	numTimesCalled int
	indexes        map[string]int
}

// ErrMockNetIOFail - mock netio error
var ErrMockNetIOFail = errors.New("netio fail")

func NewMockNetIO(fail bool, failAttempt int) *MockNetIO {
	return &MockNetIO{
		fail:        fail,
		failAttempt: failAttempt,
		indexes:     map[string]int{},
	}
}

// WithInterface adds name at index to the table.
func (netshim *MockNetIO) WithInterface(name string, index int) *MockNetIO {
	netshim.indexes[name] = index
	return netshim
}

func (netshim *MockNetIO) GetNetworkInterfaceByName(name string) (*net.Interface, error) {
	netshim.numTimesCalled++

	if netshim.fail && netshim.failAttempt == netshim.numTimesCalled {
		return nil, fmt.Errorf("%w:%s", ErrMockNetIOFail, name)
	}

	index, ok := netshim.indexes[name]
	if !ok {
		return nil, fmt.Errorf("%w:%s", ErrInterfaceNotFound, name)
	}

	hwAddr, _ := net.ParseMAC("ab:cd:ef:12:34:56")

	return &net.Interface{
		//nolint:gomnd // Dummy MTU
		MTU:          1000,
		Name:         name,
		HardwareAddr: hwAddr,
		Index:        index,
	}, nil
}

func (netshim *MockNetIO) GetNetworkInterfaceIndex(name string) (int, error) {
	iface, err := netshim.GetNetworkInterfaceByName(name)
	if err != nil {
		return 0, err
	}

	if iface.Index == 0 {
		return 0, fmt.Errorf("%w:%s", ErrInterfaceNotFound, name)
	}

	return iface.Index, nil
}

// Calls returns how many lookups were made.
func (netshim *MockNetIO) Calls() int {
	return netshim.numTimesCalled
}
