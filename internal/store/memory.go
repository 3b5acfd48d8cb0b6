package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
)

// MemoryKV keeps everything in process memory for the process lifetime.
// Sets keep insertion order so the most recent members are last.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
	sets   map[string][]string
	zsets  map[string]map[string]int64
}

// NewMemoryKV creates an empty in-memory backend.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		values: make(map[string]string),
		sets:   make(map[string][]string),
		zsets:  make(map[string]map[string]int64),
	}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// SMembers returns a copy so callers can't mutate the stored set.
func (m *MemoryKV) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sets[key]), nil
}

func (m *MemoryKV) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.sets[key], member) {
		return nil
	}
	m.sets[key] = append(m.sets[key], member)
	return nil
}

func (m *MemoryKV) ZAdd(_ context.Context, key string, score int64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]int64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *MemoryKV) ZTail(_ context.Context, key string, n int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	type scored struct {
		member string
		score  int64
	}
	all := make([]scored, 0, len(m.zsets[key]))
	for member, score := range m.zsets[key] {
		all = append(all, scored{member, score})
	}
	slices.SortFunc(all, func(a, b scored) int {
		return cmp.Or(cmp.Compare(a.score, b.score), cmp.Compare(a.member, b.member))
	})
	if n >= 0 && len(all) > n {
		all = all[len(all)-n:]
	}
	members := make([]string, len(all))
	for i, s := range all {
		members[i] = s.member
	}
	return members, nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }

func (m *MemoryKV) Name() string { return "memory" }

func (m *MemoryKV) Close() error { return nil }
