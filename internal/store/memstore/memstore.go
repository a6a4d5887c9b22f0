// Package memstore is a process-local key-value store used by tests and
// the "memory" backend. Nothing survives the process.
package memstore

import (
	"errors"
	"sync"
)

type Store struct {
	mu   sync.RWMutex
	data map[string]string

	// FailWrites makes Set and Remove return ErrWriteFailed.
	FailWrites bool
	// FailReads makes Get return ErrReadFailed.
	FailReads bool
}

var (
	ErrWriteFailed = errors.New("memstore: write failed")
	ErrReadFailed  = errors.New("memstore: read failed")
)

func New() *Store {
	return &Store{data: map[string]string{}}
}

// NewWith seeds the store with existing entries.
func NewWith(entries map[string]string) *Store {
	s := New()
	for k, v := range entries {
		s.data[k] = v
	}
	return s
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.FailReads {
		return "", false, ErrReadFailed
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	s.data[key] = value
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return ErrWriteFailed
	}
	delete(s.data, key)
	return nil
}

func (s *Store) Close() error { return nil }
