// Copyright 2021 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package netlink

// Conn is a route socket a request can be sent on.
type Conn interface {
	Send(msg *Message) error
	Close() error
}

// Dialer opens route sockets in the calling thread's namespace.
// Conns returned as Owned are closed by the caller; Borrowed ones are handed
// back with Release and never closed.
type Dialer interface {
	Dial(nsName string, groups uint32) (Conn, Ownership, error)
	Release(nsName string)
}
