package vrf

import (
	"sync"

	"go.uber.org/zap"
)

// namedLock holds a mutex and a map of locks. The mutex guards the map
// while a lock is looked up or created.
type namedLock struct {
	mutex   sync.Mutex
	lockMap map[string]*refCountedLock
	logger  *zap.Logger
}

// refCountedLock holds the lock and ref count for it
type refCountedLock struct {
	mutex    sync.Mutex
	refCount int
}

func newNamedLock(logger *zap.Logger) *namedLock {
	return &namedLock{
		lockMap: make(map[string]*refCountedLock),
		logger:  logger,
	}
}

// acquire acquires the lock with specified name
func (l *namedLock) acquire(name string) {
	l.mutex.Lock()
	lock, ok := l.lockMap[name]
	if !ok {
		lock = &refCountedLock{}
		l.lockMap[name] = lock
	}
	lock.refCount++
	l.mutex.Unlock()

	lock.mutex.Lock()
}

// release releases the lock with specified name
func (l *namedLock) release(name string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	lock, ok := l.lockMap[name]
	if !ok {
		l.logger.Error("Attempt to unlock without acquiring the lock", zap.String("ns", name))
		return
	}

	lock.mutex.Unlock()
	lock.refCount--
	if lock.refCount == 0 {
		delete(l.lockMap, name)
	}
}
