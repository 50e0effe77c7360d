//go:build linux
// +build linux

package vrf

import (
	"github.com/MERAprojects/ops-utils/metrics"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// OpenSocket creates a socket inside the named namespace and returns its
// descriptor. The socket stays bound to that namespace after the call returns
// and belongs to the caller.
func (c *Client) OpenSocket(nsName string, p SocketParams) (fd int, err error) {
	fd = -1
	timer := metrics.StartNewTimer()
	defer func() {
		c.observe(metrics.OpenSocketOp, timer, &err, zap.String("ns", nsName), zap.Int("fd", fd))
	}()

	if err = c.checkNamespace(nsName); err != nil {
		return -1, err
	}

	err = c.exec.Execute(nsName, func() error {
		s, sockErr := c.sockets.Socket(p.Family, p.Type|unix.SOCK_CLOEXEC, p.Protocol)
		if sockErr != nil {
			return errors.Wrapf(ErrSocketCreateFailed, "family %d type %d protocol %d: %v", p.Family, p.Type, p.Protocol, sockErr)
		}
		fd = s
		return nil
	})
	if err != nil {
		return -1, err
	}

	return fd, nil
}

// CloseSocket closes fd from inside the named namespace.
func (c *Client) CloseSocket(nsName string, fd int) (err error) {
	timer := metrics.StartNewTimer()
	defer func() {
		c.observe(metrics.CloseSocketOp, timer, &err, zap.String("ns", nsName), zap.Int("fd", fd))
	}()

	if fd < 0 {
		return errors.Wrapf(ErrInvalidArgument, "descriptor %d", fd)
	}

	if err = c.checkNamespace(nsName); err != nil {
		return err
	}

	return c.exec.Execute(nsName, func() error {
		if closeErr := c.sockets.Close(fd); closeErr != nil {
			return errors.Wrapf(ErrSocketCloseFailed, "descriptor %d: %v", fd, closeErr)
		}
		return nil
	})
}
