// Package lock provides keyed mutual exclusion for serializing operations
// on a single logical key without blocking unrelated keys.
package lock

import "sync"

// KeyedMutex serializes callers per key. Locks are created lazily and
// released entries are reclaimed once no goroutine holds or waits on them,
// so the map does not grow with the keyspace.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu sync.Mutex
	// refs counts holders plus waiters; guarded by KeyedMutex.mu
	refs int
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyLock),
	}
}

// Lock acquires the mutex for key, blocking while another goroutine holds it.
func (km *KeyedMutex) Lock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		kl = &keyLock{}
		km.locks[key] = kl
	}
	kl.refs++
	km.mu.Unlock()

	kl.mu.Lock()
}

// Unlock releases the mutex for key.
func (km *KeyedMutex) Unlock(key string) {
	km.mu.Lock()
	kl, ok := km.locks[key]
	if !ok {
		km.mu.Unlock()
		panic("lock: unlock of unheld keyed mutex: " + key)
	}
	kl.refs--
	if kl.refs == 0 {
		delete(km.locks, key)
	}
	km.mu.Unlock()

	kl.mu.Unlock()
}

// WithLock runs fn while holding the mutex for key.
func (km *KeyedMutex) WithLock(key string, fn func() error) error {
	km.Lock(key)
	defer km.Unlock(key)
	return fn()
}
