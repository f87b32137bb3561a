package store

import (
	"context"
	"sync"
)

// Memory is an in-process KV. Tests use it in place of Disk.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Fail, when set, is consulted before every Set; a non-nil error is
	// returned instead of writing.
	Fail func(key string) error
}

// NewMemory returns an empty Memory, optionally seeded with raw values.
func NewMemory(seed map[string]string) *Memory {
	m := &Memory{data: make(map[string][]byte, len(seed))}
	for k, v := range seed {
		m.data[k] = []byte(v)
	}
	return m
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true, nil
}

func (m *Memory) Set(key string, val []byte) error {
	if m.Fail != nil {
		if err := m.Fail(key); err != nil {
			return err
		}
	}
	cp := make([]byte, len(val))
	copy(cp, val)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = cp
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Keys(_ context.Context) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return sortedKeys(keys)
}

// Raw returns the stored value as a string, or "" when absent.
func (m *Memory) Raw(key string) string {
	v, _, _ := m.Get(key)
	return string(v)
}

// Writes counts Set calls made through a wrapped KV. See Counting.
type Writes struct {
	KV
	mu sync.Mutex
	n  int
}

// Counting wraps kv so that writes can be counted.
func Counting(kv KV) *Writes {
	return &Writes{KV: kv}
}

func (w *Writes) Set(key string, val []byte) error {
	w.mu.Lock()
	w.n++
	w.mu.Unlock()
	return w.KV.Set(key, val)
}

// Count returns the number of Set calls so far.
func (w *Writes) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}
