package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/integration"
)

type held struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker implements integration.SyncLocker inside one process.
// Locks expire after ttl so a crashed holder cannot wedge a key.
type MemoryLocker struct {
	mu    sync.Mutex
	ttl   time.Duration
	locks map[string]held
	now   func() time.Time
}

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker(ttl time.Duration) *MemoryLocker {
	return &MemoryLocker{
		ttl:   ttl,
		locks: make(map[string]held),
		now:   time.Now,
	}
}

// Acquire takes the lock or returns integration.ErrLockNotObtained
func (l *MemoryLocker) Acquire(_ context.Context, key string) (integration.Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if h, ok := l.locks[key]; ok && now.Before(h.expiresAt) {
		return nil, integration.ErrLockNotObtained
	}
	token := uuid.NewString()
	l.locks[key] = held{token: token, expiresAt: now.Add(l.ttl)}
	return &memoryLease{locker: l, key: key, token: token}, nil
}

type memoryLease struct {
	locker *MemoryLocker
	key    string
	token  string
}

func (m *memoryLease) Refresh(context.Context) error {
	l := m.locker
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	h, ok := l.locks[m.key]
	if !ok || h.token != m.token || !now.Before(h.expiresAt) {
		return integration.ErrLockLost
	}
	h.expiresAt = now.Add(l.ttl)
	l.locks[m.key] = h
	return nil
}

func (m *memoryLease) Release(context.Context) error {
	l := m.locker
	l.mu.Lock()
	defer l.mu.Unlock()
	// only the holder may release; an expired lock may already belong to someone else
	if h, ok := l.locks[m.key]; ok && h.token == m.token {
		delete(l.locks, m.key)
	}
	return nil
}

var _ integration.SyncLocker = (*MemoryLocker)(nil)
