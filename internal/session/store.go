// Package session holds the bearer token the dashboard sends with every
// backend request and gates operations that need one.
package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey is the fixed key the token is stored under.
const TokenKey = "token"

// Store is durable client-side storage for the token. Load returns ok=false
// when no token is stored.
type Store interface {
	Load() (token string, ok bool, err error)
	Save(token string) error
	Clear() error
}

// FileStore is a small JSON key-value file. Writes go through a temp file
// and rename so a reader never sees a half-written token.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load() (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, err := s.readLocked()
	if err != nil {
		return "", false, err
	}
	tok := kv[TokenKey]
	return tok, tok != "", nil
}

func (s *FileStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, err := s.readLocked()
	if err != nil {
		kv = map[string]string{}
	}
	kv[TokenKey] = token
	return s.writeLocked(kv)
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, err := s.readLocked()
	if err != nil {
		kv = map[string]string{}
	}
	if _, ok := kv[TokenKey]; !ok {
		return nil
	}
	delete(kv, TokenKey)
	return s.writeLocked(kv)
}

func (s *FileStore) readLocked() (map[string]string, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	kv := map[string]string{}
	if err := json.NewDecoder(f).Decode(&kv); err != nil {
		return nil, err
	}
	return kv, nil
}

func (s *FileStore) writeLocked(kv map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(kv); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore keeps the token in process. Handy for tests.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != "", nil
}

func (m *MemoryStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
