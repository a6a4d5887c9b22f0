// Package store is the key-value adapter every piece of durable state goes
// through. Calls are synchronous; values are opaque strings (JSON in
// practice) and each Set replaces the whole value.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/idilsaglam/declutter/internal/store/jsonstore"
	"github.com/idilsaglam/declutter/internal/store/memstore"
	"github.com/idilsaglam/declutter/internal/store/sqlitestore"
)

// Keys used by the managers.
const (
	DecisionsKey = "declutter-app-actions"
	BagsKey      = "declutter-app-bags"
	CheckedKey   = "declutter-app-checked"
)

// Store is a string-keyed, string-valued durable map.
type Store interface {
	// Get returns ok=false when the key has never been set.
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// ErrNotLoaded is returned by writes of a value whose stored form could not
// be read at open. Writing would replace data the process never saw.
var ErrNotLoaded = errors.New("stored value was not loaded")

// Open returns the named backend rooted at dir.
func Open(backend, dir string) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendJSON:
		s, err := jsonstore.New(dir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := sqlitestore.New(filepath.Join(dir, "declutter.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
