//go:build linux
// +build linux

package netns

import (
	"runtime"

	"github.com/pkg/errors"
)

var (
	ErrNamespaceNotFound     = errors.New("namespace not found")
	ErrNamespaceSwitchFailed = errors.New("namespace switch failed")
)

// Client is the set of namespace primitives the Executor drives.
type Client interface {
	Get() (fileDescriptor int, err error)
	GetFromPath(path string) (fileDescriptor int, err error)
	Set(fileDescriptor int) (err error)
	Close(fileDescriptor int) (err error)
}

// Executor runs functions inside named network namespaces.
//
// The namespace association is a property of the OS thread, so each call
// gets its own goroutine locked to its thread. The thread's original
// namespace is restored before the thread is released; if the restore fails
// the thread stays locked and the runtime discards it when the goroutine
// exits. The caller's own thread is never switched.
type Executor struct {
	dir    string
	client Client
}

// NewExecutor returns an Executor resolving names under dir.
func NewExecutor(dir string, client Client) *Executor {
	if dir == "" {
		dir = DefaultDir
	}

	return &Executor{
		dir:    dir,
		client: client,
	}
}

// Dir returns the directory namespace names are resolved under.
func (e *Executor) Dir() string {
	return e.dir
}

// Open resolves name and opens its handle without switching into it.
// The caller owns the returned descriptor.
func (e *Executor) Open(name string) (int, error) {
	path, err := Path(e.dir, name)
	if err != nil {
		return -1, err
	}

	fd, err := e.client.GetFromPath(path)
	if err != nil {
		return -1, errors.Wrapf(ErrNamespaceNotFound, "%s: %v", path, err)
	}

	return fd, nil
}

// Close releases a descriptor returned by Open.
func (e *Executor) Close(fd int) error {
	return e.client.Close(fd)
}

// Execute switches a dedicated thread into the named namespace and runs fn there.
// The namespace handle is closed before Execute returns, whatever fn returned.
func (e *Executor) Execute(name string, fn func() error) error {
	path, err := Path(e.dir, name)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.execute(path, fn)
	}()

	return <-errCh
}

func (e *Executor) execute(path string, fn func() error) (err error) {
	runtime.LockOSThread()
	restored := true
	defer func() {
		if restored {
			runtime.UnlockOSThread()
		}
	}()

	nsFd, err := e.client.GetFromPath(path)
	if err != nil {
		return errors.Wrapf(ErrNamespaceNotFound, "%s: %v", path, err)
	}
	defer e.client.Close(nsFd)

	origFd, err := e.client.Get()
	if err != nil {
		return errors.Wrapf(ErrNamespaceSwitchFailed, "failed to get current namespace: %v", err)
	}
	defer e.client.Close(origFd)

	if err = e.client.Set(nsFd); err != nil {
		return errors.Wrapf(ErrNamespaceSwitchFailed, "%s: %v", path, err)
	}

	// A failed restore does not fail the call: fn's effects already happened
	// and the thread is thrown away with its goroutine.
	defer func() {
		if setErr := e.client.Set(origFd); setErr != nil {
			restored = false
		}
	}()

	return fn()
}
