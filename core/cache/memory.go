package cache

import (
	"context"
	"sync"
)

const (
	// DefaultNamespaces is the initial namespace capacity of a Memory store.
	DefaultNamespaces = 16
	// DefaultKeysPerNamespace is the initial key capacity of each namespace.
	DefaultKeysPerNamespace = 128
)

// Memory is an in-process Store.
type Memory struct {
	mu         sync.RWMutex
	namespaces map[string]*namespace
}

// namespace holds the entries of one namespace behind its own lock.
type namespace struct {
	mu      sync.RWMutex
	entries map[any]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		namespaces: make(map[string]*namespace, DefaultNamespaces),
	}
}

// lookup returns the namespace, creating it when create is set.
func (m *Memory) lookup(name string, create bool) *namespace {
	m.mu.RLock()
	ns, ok := m.namespaces[name]
	m.mu.RUnlock()
	if ok || !create {
		return ns
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Double-check after acquiring the write lock
	if ns, ok = m.namespaces[name]; ok {
		return ns
	}
	ns = &namespace{entries: make(map[any]any, DefaultKeysPerNamespace)}
	m.namespaces[name] = ns
	return ns
}

func (m *Memory) Get(_ context.Context, name string, key any) (any, bool, error) {
	ns := m.lookup(name, false)
	if ns == nil {
		return nil, false, nil
	}
	ns.mu.RLock()
	v, ok := ns.entries[key]
	ns.mu.RUnlock()
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, name string, key, value any) error {
	ns := m.lookup(name, true)
	ns.mu.Lock()
	ns.entries[key] = value
	ns.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context, name string) error {
	ns := m.lookup(name, false)
	if ns == nil {
		return nil
	}
	ns.mu.Lock()
	ns.entries = make(map[any]any, DefaultKeysPerNamespace)
	ns.mu.Unlock()
	return nil
}

func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	m.namespaces = make(map[string]*namespace, DefaultNamespaces)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries in namespace.
func (m *Memory) Len(name string) int {
	ns := m.lookup(name, false)
	if ns == nil {
		return 0
	}
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.entries)
}
