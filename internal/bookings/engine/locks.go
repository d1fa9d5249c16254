package engine

import (
	"context"
	"sync"
	"time"

	apperrors "gearpool/pkg/errors"
)

// EquipmentLocks is an in-process lock table keyed by equipment id.
// Different ids never block each other. Every acquisition carries a wait
// timeout; on expiry the caller gets a retryable lock timeout error
// instead of blocking indefinitely behind a slow commit.
type EquipmentLocks struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

func NewEquipmentLocks() *EquipmentLocks {
	return &EquipmentLocks{
		entries: make(map[string]*lockEntry),
	}
}

// Acquire blocks until the equipment's lock is held, the wait timeout
// expires, or the context is cancelled. On success the returned release
// function must be called exactly once.
func (l *EquipmentLocks) Acquire(ctx context.Context, equipmentID string, wait time.Duration) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[equipmentID]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.entries[equipmentID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.put(equipmentID, entry)
		}, nil

	case <-timer.C:
		l.put(equipmentID, entry)
		return nil, apperrors.LockTimeout(equipmentID)

	case <-ctx.Done():
		l.put(equipmentID, entry)
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.LockTimeout(equipmentID)
		}
		return nil, ctx.Err()
	}
}

// put drops one reference, discarding the table entry once nobody holds
// or waits on it.
func (l *EquipmentLocks) put(equipmentID string, entry *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, equipmentID)
	}
}
