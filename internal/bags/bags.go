// Package bags counts filled trash and donation bags. The counters are
// independent of item decisions and are never reset automatically.
package bags

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/idilsaglam/declutter/internal/store"
)

type Kind string

const (
	Trash  Kind = "trash"
	Donate Kind = "donate"
)

var ErrUnknownKind = errors.New("unknown bag kind")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Trash, Donate:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Counters is also the stored JSON shape.
type Counters struct {
	Trash  int `json:"trash"`
	Donate int `json:"donate"`
}

func (c Counters) Get(k Kind) int {
	if k == Donate {
		return c.Donate
	}
	return c.Trash
}

// Load reads the stored counters. Missing or malformed data gives zeros and
// negative values are clamped. Only a failed read is an error.
func Load(kv store.Store) (Counters, error) {
	raw, ok, err := kv.Get(store.BagsKey)
	if err != nil {
		return Counters{}, fmt.Errorf("read bags: %w", err)
	}
	if !ok {
		return Counters{}, nil
	}
	var c Counters
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Counters{}, nil
	}
	return Counters{Trash: max(0, c.Trash), Donate: max(0, c.Donate)}, nil
}

type Manager struct {
	mu      sync.Mutex
	kv      store.Store
	c       Counters
	log     *slog.Logger
	loadErr error
}

type Option func(*Manager)

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

func Open(kv store.Store, opts ...Option) *Manager {
	m := &Manager{kv: kv, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, fn := range opts {
		fn(m)
	}
	c, err := Load(kv)
	if err != nil {
		m.loadErr = err
		m.log.Warn("load bags", "error", err)
	}
	m.c = c
	return m
}

// LoadErr is the read error met by Open, or nil. While it is set the
// counters are not written back.
func (m *Manager) LoadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

func (m *Manager) Counters() Counters {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c
}

func (m *Manager) Get(k Kind) int {
	return m.Counters().Get(k)
}

// Adjust sets the counter to value, clamped at zero, persists and returns
// the resulting count. Callers pass the absolute target (current±1).
func (m *Manager) Adjust(k Kind, value int) (int, error) {
	if k != Trash && k != Donate {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v := max(0, value)
	if k == Trash {
		m.c.Trash = v
	} else {
		m.c.Donate = v
	}
	m.log.Debug("bags adjusted", "kind", k, "value", v)
	return v, m.persist()
}

func (m *Manager) Increment(k Kind) (int, error) { return m.Adjust(k, m.Get(k)+1) }
func (m *Manager) Decrement(k Kind) (int, error) { return m.Adjust(k, m.Get(k)-1) }

func (m *Manager) persist() error {
	if m.loadErr != nil {
		m.log.Warn("persist bags skipped", "error", m.loadErr)
		return fmt.Errorf("persist bags: %w: %w", store.ErrNotLoaded, m.loadErr)
	}
	b, err := json.Marshal(m.c)
	if err != nil {
		m.log.Warn("persist bags", "error", err)
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := m.kv.Set(store.BagsKey, string(b)); err != nil {
		m.log.Warn("persist bags", "error", err)
		return fmt.Errorf("persist bags: %w", err)
	}
	return nil
}
