// Copyright 2017 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package netlink

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// NewLinkNetNsRequest builds the RTM_SETLINK request that moves the
// interface at ifIndex into the namespace referenced by nsFd. No ack is
// requested; the kernel applies the move when the request is enqueued.
func NewLinkNetNsRequest(ifIndex int, nsFd int) (*Message, error) {
	if ifIndex <= 0 {
		return nil, fmt.Errorf("Invalid interface index %d", ifIndex)
	}
	if nsFd < 0 {
		return nil, fmt.Errorf("Invalid namespace descriptor %d", nsFd)
	}

	req := newRequest(unix.RTM_SETLINK, 0)

	ifInfo := newIfInfoMsg()
	ifInfo.Index = int32(ifIndex)
	ifInfo.Change = DEFAULT_CHANGE
	req.setIfInfo(ifInfo)

	if err := req.addAttribute(newAttributeUint32(unix.IFLA_NET_NS_FD, uint32(nsFd))); err != nil {
		return nil, err
	}

	return req, nil
}
