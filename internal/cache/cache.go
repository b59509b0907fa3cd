// Package cache stores computed group balances between writes.
//
// Entries are grouped per group ID with one field per variant (share mode),
// so a single Invalidate drops every variant of a group at once. Services
// must invalidate on every write that touches a group's roster, expenses or
// payments.
//
// Every Invalidate also bumps the group's generation. A reader takes the
// generation before loading its snapshot and passes it to Set, which drops
// the value if a write has landed in between.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a per-group key/value store with expiry.
type Cache interface {
	// Get returns the cached value for (groupID, field). ok is false on a miss.
	Get(ctx context.Context, groupID, field string) (value []byte, ok bool, err error)

	// Generation returns groupID's current generation.
	Generation(ctx context.Context, groupID string) (uint64, error)

	// Set stores value for (groupID, field) if groupID is still at
	// generation gen. stored is false when the value was dropped.
	Set(ctx context.Context, groupID, field string, gen uint64, value []byte) (stored bool, err error)

	// Invalidate drops every field cached for groupID and bumps its generation.
	Invalidate(ctx context.Context, groupID string) error

	Close() error
}

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is an in-process Cache. It is used when no Redis URL is configured.
type Memory struct {
	mu          sync.Mutex
	ttl         time.Duration
	groups      map[string]map[string]entry
	generations map[string]uint64
	now         func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory creates an in-process cache whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:         ttl,
		groups:      make(map[string]map[string]entry),
		generations: make(map[string]uint64),
		now:         time.Now,
	}
}

func (m *Memory) Get(_ context.Context, groupID, field string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.groups[groupID][field]
	if !ok {
		return nil, false, nil
	}
	if !m.now().Before(e.expires) {
		delete(m.groups[groupID], field)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *Memory) Generation(_ context.Context, groupID string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generations[groupID], nil
}

func (m *Memory) Set(_ context.Context, groupID, field string, gen uint64, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.generations[groupID] != gen {
		return false, nil
	}
	fields, ok := m.groups[groupID]
	if !ok {
		fields = make(map[string]entry)
		m.groups[groupID] = fields
	}
	fields[field] = entry{value: value, expires: m.now().Add(m.ttl)}
	return true, nil
}

func (m *Memory) Invalidate(_ context.Context, groupID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.groups, groupID)
	m.generations[groupID]++
	return nil
}

func (m *Memory) Close() error { return nil }
