package vrf

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/MERAprojects/ops-utils/netns"
	"github.com/stretchr/testify/require"
	vishnetlink "github.com/vishvananda/netlink"
	vishnetns "github.com/vishvananda/netns"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	defaultWait  = 2 * time.Second
	pollInterval = 50 * time.Millisecond
)

func openFdCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir("/proc/self/fd")
	require.NoError(t, err)
	return len(entries)
}

func TestMissingNamespaceLeaksNoDescriptors(t *testing.T) {
	c := NewClient(&Config{NetnsDir: "/nonexistent-netns", Logger: zap.NewNop()})

	before := openFdCount(t)

	_, err := c.OpenSocket("red", SocketParams{Family: unix.AF_INET, Type: unix.SOCK_DGRAM})
	require.ErrorIs(t, err, ErrNamespaceNotFound)

	err = c.CloseSocket("red", 0)
	require.ErrorIs(t, err, ErrNamespaceNotFound)

	err = c.MoveInterface(MoveRequest{SourceNS: "red", DestNS: "blue", IfName: "eth1"})
	require.ErrorIs(t, err, ErrNamespaceNotFound)

	require.Equal(t, before, openFdCount(t))
}

// createNamed creates a named namespace without leaving the test thread in it.
func createNamed(t *testing.T, name string) {
	t.Helper()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	orig, err := vishnetns.Get()
	require.NoError(t, err)
	defer orig.Close()

	created, err := vishnetns.NewNamed(name)
	require.NoError(t, err)
	require.NoError(t, created.Close())
	require.NoError(t, vishnetns.Set(orig))

	t.Cleanup(func() { _ = vishnetns.DeleteNamed(name) })
}

func TestMoveInterfaceBetweenNamespaces(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires root to create network namespaces")
	}

	const src, dst = "opsutils-src", "opsutils-dst"
	createNamed(t, src)
	createNamed(t, dst)

	srcHandle, err := vishnetns.GetFromName(src)
	require.NoError(t, err)
	defer srcHandle.Close()

	nh, err := vishnetlink.NewHandleAt(srcHandle)
	require.NoError(t, err)
	defer nh.Delete()
	require.NoError(t, nh.LinkAdd(&vishnetlink.Dummy{LinkAttrs: vishnetlink.LinkAttrs{Name: "dummy0"}}))

	c := NewClient(&Config{NetnsDir: netns.DefaultDir, Logger: zap.NewNop()})
	require.NoError(t, c.MoveInterface(MoveRequest{SourceNS: src, DestNS: dst, IfName: "dummy0"}))

	require.Eventually(t, func() bool {
		links, err := c.ListLinks(dst)
		if err != nil {
			return false
		}
		for _, l := range links {
			if l.Name == "dummy0" {
				return true
			}
		}
		return false
	}, defaultWait, pollInterval)

	fd, err := c.OpenSocket(dst, SocketParams{Family: unix.AF_INET, Type: unix.SOCK_DGRAM})
	require.NoError(t, err)
	require.NoError(t, c.CloseSocket(dst, fd))

	_, err = unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	require.ErrorIs(t, err, unix.EBADF)
}
