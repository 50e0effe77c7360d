//go:build linux
// +build linux

package vrf

import (
	"fmt"

	"github.com/MERAprojects/ops-utils/netio"
	"github.com/MERAprojects/ops-utils/netlink"
	"github.com/MERAprojects/ops-utils/netns"
	"github.com/pkg/errors"
)

var (
	ErrInvalidArgument       = errors.New("invalid argument")
	ErrNamespaceNotFound     = netns.ErrNamespaceNotFound
	ErrNamespaceSwitchFailed = netns.ErrNamespaceSwitchFailed
	ErrSocketCreateFailed    = netlink.ErrSocketCreateFailed
	ErrSocketCloseFailed     = errors.New("socket close failed")
	ErrNetlinkBindFailed     = netlink.ErrBindFailed
	ErrNetlinkSendFailed     = netlink.ErrSendFailed
	ErrInterfaceNotFound     = netio.ErrInterfaceNotFound

	// ErrNamespaceResolveFailed is a destination namespace that could not be opened.
	ErrNamespaceResolveFailed = fmt.Errorf("%w: destination namespace resolve failed", ErrNamespaceNotFound)

	// ErrVRFNotFound is a VRF with no record, and so no namespace.
	ErrVRFNotFound = fmt.Errorf("%w: vrf not found", ErrNamespaceNotFound)
)

// ErrorKind classifies errors returned by Client.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidArgument
	KindNamespaceNotFound
	KindNamespaceSwitchFailed
	KindSocketCreateFailed
	KindSocketCloseFailed
	KindNetlinkBindFailed
	KindNamespaceResolveFailed
	KindInterfaceNotFound
	KindNetlinkSendFailed
	KindVRFNotFound
	KindUnknown
)

var kindNames = map[ErrorKind]string{
	KindNone:                   "none",
	KindInvalidArgument:        "invalid-argument",
	KindNamespaceNotFound:      "namespace-not-found",
	KindNamespaceSwitchFailed:  "namespace-switch-failed",
	KindSocketCreateFailed:     "socket-create-failed",
	KindSocketCloseFailed:      "socket-close-failed",
	KindNetlinkBindFailed:      "netlink-bind-failed",
	KindNamespaceResolveFailed: "namespace-resolve-failed",
	KindInterfaceNotFound:      "interface-not-found",
	KindNetlinkSendFailed:      "netlink-send-failed",
	KindVRFNotFound:            "vrf-not-found",
	KindUnknown:                "unknown",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Most specific first: resolve and vrf errors also match ErrNamespaceNotFound.
var kindOrder = []struct {
	kind ErrorKind
	err  error
}{
	{KindInvalidArgument, ErrInvalidArgument},
	{KindNamespaceResolveFailed, ErrNamespaceResolveFailed},
	{KindVRFNotFound, ErrVRFNotFound},
	{KindNamespaceNotFound, ErrNamespaceNotFound},
	{KindNamespaceSwitchFailed, ErrNamespaceSwitchFailed},
	{KindSocketCreateFailed, ErrSocketCreateFailed},
	{KindSocketCloseFailed, ErrSocketCloseFailed},
	{KindNetlinkBindFailed, ErrNetlinkBindFailed},
	{KindInterfaceNotFound, ErrInterfaceNotFound},
	{KindNetlinkSendFailed, ErrNetlinkSendFailed},
}

// KindOf returns the kind of err, KindNone for nil and KindUnknown for errors
// that did not come from this package.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}

	return KindUnknown
}

func invalidArgument(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
}
