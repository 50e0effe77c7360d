// Copyright 2017 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package netlink

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// TestLinkNetNsRequestLayout checks the wire layout of a namespace move request.
func TestLinkNetNsRequestLayout(t *testing.T) {
	req, err := NewLinkNetNsRequest(7, 42)
	require.NoError(t, err)

	wantLen := nlmsgAlign(unix.NLMSG_HDRLEN+unix.SizeofIfInfomsg) + rtaAlign(unix.SizeofRtAttr+4)
	require.Equal(t, 40, wantLen)
	require.Equal(t, uint32(wantLen), req.Len)
	require.Equal(t, 1, req.Attributes())

	b := req.Serialize()
	require.Len(t, b, wantLen)

	ne := binary.NativeEndian
	require.Equal(t, uint32(wantLen), ne.Uint32(b[0:4]))
	require.Equal(t, uint16(unix.RTM_SETLINK), ne.Uint16(b[4:6]))
	require.Equal(t, uint16(unix.NLM_F_REQUEST), ne.Uint16(b[6:8]))
	require.Equal(t, uint32(unix.Getpid()), ne.Uint32(b[12:16]))

	// ifinfomsg
	require.Equal(t, byte(unix.AF_UNSPEC), b[16])
	require.Equal(t, uint32(7), ne.Uint32(b[20:24]))
	require.Equal(t, uint32(0), ne.Uint32(b[24:28]))
	require.Equal(t, uint32(DEFAULT_CHANGE), ne.Uint32(b[28:32]))

	// IFLA_NET_NS_FD
	require.Equal(t, uint16(unix.SizeofRtAttr+4), ne.Uint16(b[32:34]))
	require.Equal(t, uint16(unix.IFLA_NET_NS_FD), ne.Uint16(b[34:36]))
	fd := make([]byte, 4)
	ne.PutUint32(fd, 42)
	require.Equal(t, fd, b[36:40])
}

func TestLinkNetNsRequestRejectsBadArguments(t *testing.T) {
	_, err := NewLinkNetNsRequest(0, 42)
	require.Error(t, err)

	_, err = NewLinkNetNsRequest(7, -1)
	require.Error(t, err)
}

func TestAddAttributeOverflow(t *testing.T) {
	req := newRequest(unix.RTM_SETLINK, 0)
	req.setIfInfo(newIfInfoMsg())

	for i := 0; i < MaxAttrLen/8; i++ {
		require.NoError(t, req.addAttribute(newAttributeUint32(unix.IFLA_MTU, uint32(i))))
	}

	full := req.Len
	err := req.addAttribute(newAttributeUint32(unix.IFLA_MTU, 0))
	require.ErrorIs(t, err, ErrMessageOverflow)
	require.Equal(t, full, req.Len)
	require.Len(t, req.Serialize(), int(full))
}

func TestAttributeIsPadded(t *testing.T) {
	req := newRequest(unix.RTM_SETLINK, 0)
	req.setIfInfo(newIfInfoMsg())
	require.NoError(t, req.addAttribute(newAttribute(unix.IFLA_IFNAME, []byte("eth1\x00"))))

	// 4 byte header + 5 byte value, padded to 12.
	require.Equal(t, uint32(32+12), req.Len)
	b := req.Serialize()
	require.Equal(t, uint16(9), binary.NativeEndian.Uint16(b[32:34]))
	require.Equal(t, []byte{0, 0, 0}, b[41:44])
}

func TestRegistryKeepsBorrowedSocketOpen(t *testing.T) {
	r := NewRegistry()
	shared := NewMockConn(false, "")

	require.NoError(t, r.Register("swns", shared))
	require.ErrorIs(t, r.Register("swns", shared), ErrAlreadyRegistered)

	conn, ok := r.acquire("swns")
	require.True(t, ok)
	require.Same(t, shared, conn)
	require.Equal(t, 1, r.Borrowers("swns"))

	require.NoError(t, r.Unregister("swns"))
	require.False(t, shared.Closed)

	_, ok = r.acquire("swns")
	require.False(t, ok)

	require.NoError(t, r.release("swns"))
	require.True(t, shared.Closed)
	require.ErrorIs(t, r.release("swns"), ErrNotRegistered)
}

func TestRegistryUnknownNamespace(t *testing.T) {
	r := NewRegistry()

	_, ok := r.acquire("VRF_1")
	require.False(t, ok)
	require.ErrorIs(t, r.Unregister("VRF_1"), ErrNotRegistered)
	require.Equal(t, 0, r.Borrowers("VRF_1"))
}

// TestRouteDialerAddressInUse binds the process id twice in the current namespace.
func TestRouteDialerAddressInUse(t *testing.T) {
	d := NewRouteDialer(nil, zap.NewNop())

	first, own, err := d.Dial("default", RouteGroups)
	require.NoError(t, err)
	require.Equal(t, Owned, own)
	defer first.Close()

	// Binding is taken and nobody registered it: an unbound socket we own.
	second, own, err := d.Dial("default", RouteGroups)
	require.NoError(t, err)
	require.Equal(t, Owned, own)
	require.NotEqual(t, first.(*Socket).Fd(), second.(*Socket).Fd())
	require.NoError(t, second.Close())

	require.NoError(t, d.Registry().Register("default", first))

	third, own, err := d.Dial("default", RouteGroups)
	require.NoError(t, err)
	require.Equal(t, Borrowed, own)
	require.Same(t, first, third)
	require.Equal(t, 1, d.Registry().Borrowers("default"))

	d.Release("default")
	require.Equal(t, 0, d.Registry().Borrowers("default"))
}
