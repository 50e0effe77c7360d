//go:build linux
// +build linux

package netlink

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrAlreadyRegistered = errors.New("namespace already has a registered netlink socket")
	ErrNotRegistered     = errors.New("namespace has no registered netlink socket")
)

type sharedSocket struct {
	conn    Conn
	refs    int
	closing bool
}

// Registry tracks long-lived route sockets that hold this process's
// multicast binding in a namespace, keyed by namespace name. Borrowers are
// counted so an unregistered socket is only closed after its last borrower
// has released it.
type Registry struct {
	sync.Mutex
	sockets map[string]*sharedSocket
}

func NewRegistry() *Registry {
	return &Registry{
		sockets: make(map[string]*sharedSocket),
	}
}

// Register records conn as the holder of the binding in nsName.
func (r *Registry) Register(nsName string, conn Conn) error {
	r.Lock()
	defer r.Unlock()

	if _, ok := r.sockets[nsName]; ok {
		return errors.Wrap(ErrAlreadyRegistered, nsName)
	}

	r.sockets[nsName] = &sharedSocket{conn: conn}

	return nil
}

// Unregister removes the holder for nsName and closes it once no borrower uses it.
func (r *Registry) Unregister(nsName string) error {
	r.Lock()
	defer r.Unlock()

	shared, ok := r.sockets[nsName]
	if !ok || shared.closing {
		return errors.Wrap(ErrNotRegistered, nsName)
	}

	shared.closing = true
	if shared.refs > 0 {
		return nil
	}

	delete(r.sockets, nsName)

	return shared.conn.Close()
}

// Borrowers returns how many callers currently hold the socket for nsName.
func (r *Registry) Borrowers(nsName string) int {
	r.Lock()
	defer r.Unlock()

	if shared, ok := r.sockets[nsName]; ok {
		return shared.refs
	}

	return 0
}

func (r *Registry) acquire(nsName string) (Conn, bool) {
	r.Lock()
	defer r.Unlock()

	shared, ok := r.sockets[nsName]
	if !ok || shared.closing {
		return nil, false
	}

	shared.refs++

	return shared.conn, true
}

func (r *Registry) release(nsName string) error {
	r.Lock()
	defer r.Unlock()

	shared, ok := r.sockets[nsName]
	if !ok || shared.refs == 0 {
		return errors.Wrap(ErrNotRegistered, nsName)
	}

	shared.refs--
	if shared.closing && shared.refs == 0 {
		delete(r.sockets, nsName)
		return shared.conn.Close()
	}

	return nil
}
