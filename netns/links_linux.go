package netns

import (
	"net"

	"github.com/pkg/errors"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// Link describes an interface seen inside a namespace.
type Link struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
	Type  string `json:"type"`
	Up    bool   `json:"up"`
}

// ListLinks returns the interfaces of the named namespace.
// The netlink handle is bound to the namespace, so no thread is switched.
func (e *Executor) ListLinks(name string) ([]Link, error) {
	fd, err := e.Open(name)
	if err != nil {
		return nil, err
	}
	defer e.client.Close(fd)

	handle, err := netlink.NewHandleAt(netns.NsHandle(fd))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open netlink handle in %s", name)
	}
	defer handle.Delete()

	nlLinks, err := handle.LinkList()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list links in %s", name)
	}

	links := make([]Link, 0, len(nlLinks))
	for _, l := range nlLinks {
		attrs := l.Attrs()
		links = append(links, Link{
			Name:  attrs.Name,
			Index: attrs.Index,
			Type:  l.Type(),
			Up:    attrs.Flags&net.FlagUp != 0,
		})
	}

	return links, nil
}
