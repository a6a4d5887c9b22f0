package jsonstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File-backed storage. One human-readable file per key under a data
// directory. Writers in other processes are serialised by an exclusive
// lock file and every write lands through a rename, so a reader sees either
// the old value or the new one. Last write wins.

const (
	fileExt      = ".json"
	lockFileName = ".lock"
)

type Store struct {
	dir string
}

// New opens (and creates if needed) the data directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string { return s.dir }

func sanitizeKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

func (s *Store) keyPath(key string) (string, error) {
	if err := sanitizeKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

func (s *Store) Get(key string) (string, bool, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read file: %w", err)
	}
	return string(b), true, nil
}

func (s *Store) Set(key, value string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	return s.withLock(func() error {
		return writeFileAtomic(p, []byte(value), 0o644)
	})
}

func (s *Store) Remove(key string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	return s.withLock(func() error {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove: %w", err)
		}
		return nil
	})
}

func (s *Store) Close() error { return nil }

func (s *Store) withLock(fn func() error) error {
	lf, err := lockFile(filepath.Join(s.dir, lockFileName))
	if err != nil {
		return err
	}
	defer unlockFile(lf)
	return fn()
}

// writeFileAtomic writes to a temp file in the same directory, syncs it and
// renames it over the target.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	done := false
	defer func() {
		if !done {
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	done = true
	return nil
}
