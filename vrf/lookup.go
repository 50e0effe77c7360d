//go:build linux
// +build linux

package vrf

import (
	"fmt"
	"strconv"

	"github.com/MERAprojects/ops-utils/vrfstore"
	"github.com/pkg/errors"
)

// Naming selects how a VRF record maps to a namespace name.
type Naming string

const (
	// NamingByName uses the record name as the namespace name.
	NamingByName Naming = "name"
	// NamingByTableID names namespaces after the table id: SwitchNamespace
	// for table 0, NamespacePrefix followed by the id otherwise.
	NamingByTableID Naming = "table-id"

	SwitchNamespace = "swns"
	NamespacePrefix = "VRF_"
)

var errNoStore = errors.New("no vrf record store configured")

// ParseNaming parses a configured naming policy. Empty selects NamingByName.
func ParseNaming(s string) (Naming, error) {
	switch Naming(s) {
	case "", NamingByName:
		return NamingByName, nil
	case NamingByTableID:
		return NamingByTableID, nil
	}

	return "", errors.Wrapf(ErrInvalidArgument, "unknown namespace naming %q", s)
}

// NamespaceName returns the namespace rec lives in under naming.
func NamespaceName(rec *vrfstore.Record, naming Naming) (string, error) {
	if naming != NamingByTableID {
		return rec.Name, nil
	}

	if rec.TableID == nil {
		return "", fmt.Errorf("%w: vrf %s has no table id", ErrVRFNotFound, rec.Name)
	}

	if *rec.TableID == 0 {
		return SwitchNamespace, nil
	}

	return NamespacePrefix + strconv.FormatInt(*rec.TableID, 10), nil
}

func (c *Client) lookup(find func(vrfstore.Store) (*vrfstore.Record, error)) (*vrfstore.Record, error) {
	if c.store == nil {
		return nil, errNoStore
	}

	rec, err := find(c.store)
	if errors.Is(err, vrfstore.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrVRFNotFound, err)
	}

	return rec, err
}

// NamespaceForTableID returns the namespace of the VRF using tableID.
func (c *Client) NamespaceForTableID(tableID int64) (string, error) {
	rec, err := c.lookup(func(s vrfstore.Store) (*vrfstore.Record, error) {
		return vrfstore.FindByTableID(s, tableID)
	})
	if err != nil {
		return "", err
	}

	return NamespaceName(rec, c.naming)
}

// NamespaceForVRF returns the namespace of the named VRF.
func (c *Client) NamespaceForVRF(name string) (string, error) {
	rec, err := c.lookup(func(s vrfstore.Store) (*vrfstore.Record, error) {
		return vrfstore.FindByName(s, name)
	})
	if err != nil {
		return "", err
	}

	return NamespaceName(rec, c.naming)
}

// OpenSocketForVRF opens a socket in the namespace of the VRF using tableID.
func (c *Client) OpenSocketForVRF(tableID int64, p SocketParams) (int, error) {
	nsName, err := c.NamespaceForTableID(tableID)
	if err != nil {
		return -1, err
	}

	return c.OpenSocket(nsName, p)
}

// CloseSocketForVRF closes fd from the namespace of the VRF using tableID.
func (c *Client) CloseSocketForVRF(tableID int64, fd int) error {
	nsName, err := c.NamespaceForTableID(tableID)
	if err != nil {
		return err
	}

	return c.CloseSocket(nsName, fd)
}
