// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staging provides the key/value artifact stores the pipeline
// stages read from and write to. Each stage consumes one store and writes
// to another; keys are deterministic (email uid, or uid_leadIndex) so
// reruns are idempotent at the store level. The file-backed store is the
// production implementation; the memory store backs tests.
package staging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store is a flat namespace of JSON artifacts addressed by key.
type Store interface {
	// Read returns the artifact bytes for key, or os.ErrNotExist.
	Read(key string) ([]byte, error)

	// Write stores value under key, replacing any existing artifact.
	Write(key string, value []byte) error

	// WriteOnce stores value under key only if absent. The created
	// return value is false when the artifact already existed.
	WriteOnce(key string, value []byte) (created bool, err error)

	// Exists reports whether key has an artifact.
	Exists(key string) bool

	// Keys returns all keys in lexical order. Sorted order is what makes
	// batch processing deterministic across reruns.
	Keys() ([]string, error)
}

// ReadJSON decodes the artifact at key into v.
func ReadJSON(s Store, key string, v any) error {
	data, err := s.Read(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// WriteJSON encodes v and stores it under key, replacing any existing
// artifact.
func WriteJSON(s Store, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Write(key, data)
}

// WriteJSONOnce encodes v and stores it under key only if absent.
func WriteJSONOnce(s Store, key string, v any) (bool, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.WriteOnce(key, data)
}

// FileStore stores artifacts as <dir>/<key>.json files.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating staging directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the backing directory.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) Read(key string) ([]byte, error) {
	return os.ReadFile(f.path(key))
}

func (f *FileStore) Write(key string, value []byte) error {
	// Write to a temp file and rename so readers never see partial JSON.
	tmp, err := os.CreateTemp(f.dir, "."+key+".tmp-*")
	if err != nil {
		return fmt.Errorf("staging temp file for %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", key, err)
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *FileStore) WriteOnce(key string, value []byte) (bool, error) {
	if f.Exists(key) {
		return false, nil
	}
	if err := f.Write(key, value); err != nil {
		return false, err
	}
	return true, nil
}

func (f *FileStore) Exists(key string) bool {
	_, err := os.Stat(f.path(key))
	return err == nil
}

func (f *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %s: %w", f.dir, err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{data: make(map[string][]byte)}
}

func (m *MemStore) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return append([]byte(nil), v...), nil
}

func (m *MemStore) Write(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemStore) WriteOnce(key string, value []byte) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = append([]byte(nil), value...)
	return true, nil
}

func (m *MemStore) Exists(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *MemStore) Keys() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
