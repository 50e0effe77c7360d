// Copyright 2017 Microsoft. All rights reserved.
// MIT License

//go:build linux
// +build linux

package vrf

import (
	"fmt"

	"github.com/MERAprojects/ops-utils/metrics"
	"github.com/MERAprojects/ops-utils/netlink"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// MoveRequest names an interface in SourceNS to move into DestNS.
type MoveRequest struct {
	SourceNS string
	DestNS   string
	IfName   string
}

func (r *MoveRequest) validate(dir string) error {
	if r.IfName == "" || len(r.IfName) >= unix.IFNAMSIZ {
		return errors.Wrapf(ErrInvalidArgument, "interface name %q", r.IfName)
	}

	for _, name := range []string{r.SourceNS, r.DestNS} {
		if err := checkPath(dir, name); err != nil {
			return err
		}
	}

	return nil
}

// MoveInterface asks the kernel to move an interface into another namespace.
// The request is sent from a route socket opened in the source namespace and
// no acknowledgement is read, so success means the request was sent.
func (c *Client) MoveInterface(req MoveRequest) (err error) {
	timer := metrics.StartNewTimer()
	fields := []zap.Field{zap.String("ns", req.SourceNS), zap.String("dest", req.DestNS), zap.String("ifname", req.IfName)}
	defer func() {
		c.observe(metrics.MoveInterfaceOp, timer, &err, fields...)
	}()

	if err = req.validate(c.exec.Dir()); err != nil {
		return err
	}

	c.moveLocks.acquire(req.SourceNS)
	defer c.moveLocks.release(req.SourceNS)

	return c.exec.Execute(req.SourceNS, func() error {
		return c.sendMove(&req)
	})
}

// sendMove runs on a thread switched into the source namespace.
func (c *Client) sendMove(req *MoveRequest) error {
	conn, ownership, err := c.dialer.Dial(req.SourceNS, netlink.RouteGroups)
	if err != nil {
		return err
	}
	defer func() {
		if ownership == netlink.Borrowed {
			c.dialer.Release(req.SourceNS)
			return
		}
		if closeErr := conn.Close(); closeErr != nil {
			c.logger.Error("Failed to close route socket", zap.String("ns", req.SourceNS), zap.Error(closeErr))
		}
	}()

	destFd, err := c.exec.Open(req.DestNS)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNamespaceResolveFailed, err)
	}
	defer c.exec.Close(destFd)

	ifIndex, err := c.netio.GetNetworkInterfaceIndex(req.IfName)
	if err != nil {
		return errors.Wrapf(err, "in namespace %s", req.SourceNS)
	}

	msg, err := netlink.NewLinkNetNsRequest(ifIndex, destFd)
	if err != nil {
		return invalidArgument(err)
	}

	c.logger.Debug("Sending link namespace request",
		zap.String("ifname", req.IfName), zap.Int("index", ifIndex),
		zap.Int("destFd", destFd), zap.Stringer("socket", ownership))

	return conn.Send(msg)
}
