package envx

import (
	"os"
	"sync"
)

// Environ is a minimal key-value view over environment state. Provider
// credential wiring needs two write disciplines (overwrite and set-if-absent),
// and tests need an isolated instance instead of the process environment,
// so the capability is injected rather than reached for via the os package.
type Environ interface {
	Get(key string) string
	Set(key, value string)
	// SetIfAbsent writes value only when key has no current value.
	// It reports whether the write happened.
	SetIfAbsent(key, value string) bool
}

// OS returns an Environ backed by the process environment.
func OS() Environ { return osEnviron{} }

type osEnviron struct{}

func (osEnviron) Get(key string) string { return os.Getenv(key) }

func (osEnviron) Set(key, value string) { os.Setenv(key, value) } //nolint:errcheck

func (osEnviron) SetIfAbsent(key, value string) bool {
	if _, ok := os.LookupEnv(key); ok {
		return false
	}
	os.Setenv(key, value) //nolint:errcheck
	return true
}

// Map returns an in-memory Environ, safe for concurrent use.
func Map() Environ {
	return &mapEnviron{values: map[string]string{}}
}

type mapEnviron struct {
	mu     sync.RWMutex
	values map[string]string
}

func (m *mapEnviron) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

func (m *mapEnviron) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *mapEnviron) SetIfAbsent(key, value string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; ok {
		return false
	}
	m.values[key] = value
	return true
}
