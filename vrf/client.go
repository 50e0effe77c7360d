//go:build linux
// +build linux

package vrf

import (
	"github.com/MERAprojects/ops-utils/metrics"
	"github.com/MERAprojects/ops-utils/netio"
	"github.com/MERAprojects/ops-utils/netlink"
	"github.com/MERAprojects/ops-utils/netns"
	"github.com/MERAprojects/ops-utils/vrfstore"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// SocketParams are the socket(2) arguments for a socket opened in a namespace.
type SocketParams struct {
	Family   int
	Type     int
	Protocol int
}

// namespaceExecutor runs work inside named namespaces and opens their handles.
type namespaceExecutor interface {
	Dir() string
	Execute(name string, fn func() error) error
	Open(name string) (int, error)
	Close(fd int) error
	ListLinks(name string) ([]netns.Link, error)
}

type socketer interface {
	Socket(family, sotype, proto int) (int, error)
	Close(fd int) error
}

type unixSockets struct{}

func (unixSockets) Socket(family, sotype, proto int) (int, error) {
	return unix.Socket(family, sotype, proto)
}

func (unixSockets) Close(fd int) error {
	return unix.Close(fd)
}

// Config carries the collaborators of a Client. Zero values pick the defaults.
type Config struct {
	NetnsDir string
	Naming   Naming
	Store    vrfstore.Store
	Registry *netlink.Registry
	Logger   *zap.Logger
}

// Client opens sockets in, and moves interfaces between, named network namespaces.
// Every call runs on its own OS thread; the caller's thread is never switched.
type Client struct {
	exec      namespaceExecutor
	dialer    netlink.Dialer
	netio     netio.NetIOInterface
	sockets   socketer
	store     vrfstore.Store
	naming    Naming
	moveLocks *namedLock
	logger    *zap.Logger
}

func NewClient(cfg *Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return newClient(
		netns.NewExecutor(cfg.NetnsDir, netns.New()),
		netlink.NewRouteDialer(cfg.Registry, logger),
		&netio.NetIO{},
		unixSockets{},
		cfg.Store,
		cfg.Naming,
		logger,
	)
}

func newClient(exec namespaceExecutor, dialer netlink.Dialer, nio netio.NetIOInterface,
	sockets socketer, store vrfstore.Store, naming Naming, logger *zap.Logger,
) *Client {
	if naming == "" {
		naming = NamingByName
	}

	return &Client{
		exec:      exec,
		dialer:    dialer,
		netio:     nio,
		sockets:   sockets,
		store:     store,
		naming:    naming,
		moveLocks: newNamedLock(logger),
		logger:    logger,
	}
}

// ListLinks returns the interfaces of the named namespace.
func (c *Client) ListLinks(nsName string) (links []netns.Link, err error) {
	defer c.observe(metrics.ListLinksOp, metrics.StartNewTimer(), &err, zap.String("ns", nsName))

	if err = c.checkNamespace(nsName); err != nil {
		return nil, err
	}

	return c.exec.ListLinks(nsName)
}

func (c *Client) checkNamespace(name string) error {
	return checkPath(c.exec.Dir(), name)
}

func checkPath(dir, name string) error {
	if _, err := netns.Path(dir, name); err != nil {
		return invalidArgument(err)
	}
	return nil
}

// observe records op in the metrics and logs its outcome. err is read when
// the deferred call runs.
func (c *Client) observe(op metrics.OperationKind, timer *metrics.Timer, err *error, fields ...zap.Field) {
	metrics.RecordOperation(op, timer, *err)

	if *err != nil {
		c.logger.Error("Namespace operation failed",
			append(fields, zap.String("operation", string(op)), zap.Stringer("kind", KindOf(*err)), zap.Error(*err))...)
		return
	}

	c.logger.Debug("Namespace operation succeeded", append(fields, zap.String("operation", string(op)))...)
}
