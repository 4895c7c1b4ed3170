// Package lock serialises mutating operations per queue. The rule engine reads and
// then acts, so two callers must never evaluate the same queue at once.
package lock

import (
	"context"
	"sync"
)

// Locker hands out an exclusive hold on one queue. The returned func releases it.
type Locker interface {
	Lock(ctx context.Context, queueID uint) (func(), error)
}

// KeyedMutex is the in-process Locker: one mutex per queue id, dropped once nobody
// holds or waits for it.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uint]*keyedLock)}
}

func (k *KeyedMutex) Lock(ctx context.Context, queueID uint) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[queueID]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		k.locks[queueID] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(queueID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			k.release(queueID, l)
		})
	}, nil
}

func (k *KeyedMutex) release(queueID uint, l *keyedLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, queueID)
	}
}

func (k *KeyedMutex) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
