package service

import (
	"sync"

	"kay-social/internal/domain"
)

type pairKey struct {
	kind   domain.InteractionKind
	userID int64
	postID int64
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

// pairLocks serializes work on one (kind, user, post) pair while leaving
// other pairs unblocked. Entries are dropped once nobody holds or waits on them.
type pairLocks struct {
	mu    sync.Mutex
	locks map[pairKey]*pairLock
}

func newPairLocks() *pairLocks {
	return &pairLocks{locks: make(map[pairKey]*pairLock)}
}

func (p *pairLocks) lock(key pairKey) (unlock func()) {
	p.mu.Lock()
	l, ok := p.locks[key]
	if !ok {
		l = &pairLock{}
		p.locks[key] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, key)
		}
		p.mu.Unlock()
	}
}

func (p *pairLocks) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.locks)
}
