// Package kvstore provides the persisted key-value stores backing the
// session and flash state. All operations are synchronous and best-effort:
// underlying storage failures are swallowed and treated as no-ops, so
// callers must never assume persistence succeeded.
package kvstore

import (
	"encoding/json"
	"os"
	"sync"
)

// Store is the minimal key-value contract shared by both scopes.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool)
	// Set stores value under key, best-effort.
	Set(key, value string)
	// Remove deletes key, best-effort.
	Remove(key string)
}

// FileStore is the durable scope: a JSON file of string pairs that
// survives process restarts. Writes are flushed on every mutation.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore opens (or lazily creates) the state file at path. A missing
// or unreadable file yields an empty store rather than an error.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return s
	}
	s.values = values
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.flush()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.flush()
}

// flush writes the current map to disk, ignoring failures. Caller holds mu.
func (s *FileStore) flush() {
	data, err := json.Marshal(s.values)
	if err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

// MemStore is the session scope: values live only for the lifetime of the
// process, mirroring browsing-context session storage.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemStore returns an empty session-scope store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (s *MemStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
