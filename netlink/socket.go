// Copyright 2017 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package netlink

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// Multicast groups a route socket listens on: link changes and address changes.
const RouteGroups = unix.RTMGRP_LINK | unix.RTMGRP_IPV4_IFADDR | unix.RTMGRP_IPV6_IFADDR

var (
	ErrSocketCreateFailed = errors.New("netlink socket create failed")
	ErrBindFailed         = errors.New("netlink bind failed")
	ErrSendFailed         = errors.New("netlink send failed")
)

// Ownership says whether the holder of a Conn must close it.
type Ownership int

const (
	// Owned sockets belong to the caller and are closed by it.
	Owned Ownership = iota
	// Borrowed sockets belong to a listener registered for the namespace.
	// Borrowers release them through the dialer and never close them.
	Borrowed
)

func (o Ownership) String() string {
	if o == Borrowed {
		return "borrowed"
	}
	return "owned"
}

// Socket is a NETLINK_ROUTE socket created in the calling thread's namespace.
type Socket struct {
	fd  int
	sa  unix.SockaddrNetlink
	pid uint32
	seq uint32
}

// NewSocket creates a route socket and binds it to groups with this process's id.
// A bind that fails with EADDRINUSE returns the unbound socket together with
// the error, so the caller can decide whether to keep it.
func NewSocket(groups uint32) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.NETLINK_ROUTE)
	if err != nil {
		return nil, errors.Wrapf(ErrSocketCreateFailed, "%v", err)
	}

	s := &Socket{
		fd:  fd,
		pid: uint32(unix.Getpid()),
	}

	s.sa.Family = unix.AF_NETLINK
	s.sa.Pid = s.pid
	s.sa.Groups = groups

	if err = unix.Bind(fd, &s.sa); err != nil {
		if errors.Is(err, unix.EADDRINUSE) {
			return s, err
		}
		unix.Close(fd)
		return nil, errors.Wrapf(ErrBindFailed, "%v", err)
	}

	return s, nil
}

// Fd returns the socket descriptor.
func (s *Socket) Fd() int {
	return s.fd
}

// Send writes msg to the kernel. No response is read.
func (s *Socket) Send(msg *Message) error {
	msg.Seq = atomic.AddUint32(&s.seq, 1)
	kernel := &unix.SockaddrNetlink{Family: unix.AF_NETLINK}
	if err := unix.Sendto(s.fd, msg.Serialize(), 0, kernel); err != nil {
		return errors.Wrapf(ErrSendFailed, "%v", err)
	}

	return nil
}

// Close closes the socket.
func (s *Socket) Close() error {
	return errors.Wrap(unix.Close(s.fd), "netlink socket close")
}

// RouteDialer opens route sockets in the calling thread's namespace.
// When the multicast binding for this process is already held in that
// namespace, the registered holder is lent out instead of taking it over.
type RouteDialer struct {
	registry *Registry
	logger   *zap.Logger
}

func NewRouteDialer(registry *Registry, logger *zap.Logger) *RouteDialer {
	if registry == nil {
		registry = NewRegistry()
	}

	return &RouteDialer{
		registry: registry,
		logger:   logger,
	}
}

// Registry returns the shared bindings the dialer lends from.
func (d *RouteDialer) Registry() *Registry {
	return d.registry
}

// Dial must run on a thread already switched into the namespace nsName names.
func (d *RouteDialer) Dial(nsName string, groups uint32) (Conn, Ownership, error) {
	s, err := NewSocket(groups)
	if err == nil {
		d.logger.Debug("Netlink socket created", zap.String("ns", nsName), zap.Int("fd", s.fd))
		return s, Owned, nil
	}

	if s == nil {
		return nil, Owned, err
	}

	// EADDRINUSE: another socket of this process owns the binding here.
	if shared, ok := d.registry.acquire(nsName); ok {
		s.Close()
		d.logger.Debug("Netlink binding in use, borrowing registered socket", zap.String("ns", nsName))
		return shared, Borrowed, nil
	}

	// The holder is not registered. The unbound socket still reaches the
	// kernel, it is autobound on first send, and it is ours to close.
	d.logger.Debug("Netlink binding in use, sending unbound",
		zap.String("ns", nsName), zap.Int("fd", s.fd))
	return s, Owned, nil
}

// Release returns a socket borrowed by Dial.
func (d *RouteDialer) Release(nsName string) {
	if err := d.registry.release(nsName); err != nil {
		d.logger.Error("Failed to release shared netlink socket", zap.String("ns", nsName), zap.Error(err))
	}
}
