//go:build linux
// +build linux

package netlink

import (
	"errors"
	"fmt"
)

var errorMockNetlink = errors.New("Mock Netlink Error")

func newErrorMockNetlink(errStr string) error {
	return fmt.Errorf("%w : %s", errorMockNetlink, errStr)
}

// MockConn records every request sent on it.
type MockConn struct {
	returnError bool
	errorString string
	Sent        [][]byte
	Closed      bool
}

func NewMockConn(returnError bool, errorString string) *MockConn {
	return &MockConn{
		returnError: returnError,
		errorString: errorString,
	}
}

func (c *MockConn) Send(msg *Message) error {
	if c.returnError {
		return fmt.Errorf("%w: %v", ErrSendFailed, newErrorMockNetlink(c.errorString))
	}
	c.Sent = append(c.Sent, msg.Serialize())
	return nil
}

func (c *MockConn) Close() error {
	c.Closed = true
	return nil
}

// BytesSent returns the total number of bytes sent on the conn.
func (c *MockConn) BytesSent() int {
	n := 0
	for _, b := range c.Sent {
		n += len(b)
	}
	return n
}

// MockDialer hands out Conn with a fixed ownership, or fails with DialErr.
type MockDialer struct {
	Conn      *MockConn
	Ownership Ownership
	DialErr   error
	Dials     int
	Releases  int
}

func NewMockDialer(conn *MockConn, ownership Ownership) *MockDialer {
	return &MockDialer{
		Conn:      conn,
		Ownership: ownership,
	}
}

func (d *MockDialer) Dial(string, uint32) (Conn, Ownership, error) {
	d.Dials++
	if d.DialErr != nil {
		return nil, Owned, d.DialErr
	}
	return d.Conn, d.Ownership, nil
}

func (d *MockDialer) Release(string) {
	d.Releases++
}
