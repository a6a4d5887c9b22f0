// Package decisions owns the per-item decision state: which disposition the
// user picked for each catalogue item and when. Every mutation rewrites the
// whole map through the key-value store; the in-memory copy stays
// authoritative for the session even when a write fails.
package decisions

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/store"
)

// ErrInvalidDisposition is returned for a disposition outside trash, donate,
// keep and skip.
var ErrInvalidDisposition = errors.New("invalid disposition")

type options struct {
	now func() time.Time
	log *slog.Logger
}

// Option configures a Manager or a Checklist.
type Option func(*options)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets where load and persist problems are reported. The
// default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

func buildOptions(opts []Option) options {
	o := options{
		now: time.Now,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Manager holds the decision map for a session. It is safe for concurrent
// use.
type Manager struct {
	mu      sync.Mutex
	kv      store.Store
	recs    Records
	opt     options
	ready   bool
	loadErr error
}

// Activity is one entry of the recent activity feed.
type Activity struct {
	ID          string
	Disposition model.Disposition
	Date        time.Time
}

// Open loads the stored decisions. When loading had to migrate or drop
// entries the upgraded form is written back at once, so the next load reads
// it unchanged.
//
// If the store cannot be read the manager starts empty and never writes:
// every mutation still applies in memory but returns store.ErrNotLoaded.
func Open(kv store.Store, opts ...Option) *Manager {
	m := &Manager{kv: kv, opt: buildOptions(opts)}
	recs, changed, err := Load(kv, m.stamp())
	m.recs = recs
	if err != nil {
		m.loadErr = err
		m.opt.log.Warn("load decisions", "error", err)
		return m
	}
	m.ready = true
	m.opt.log.Debug("decisions loaded", "count", len(recs), "migrated", changed)
	if changed {
		_ = m.persist() // persist logs its own failures
	}
	return m
}

// Ready reports whether the stored state has been read.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

// LoadErr is the read error met by Open, or nil.
func (m *Manager) LoadErr() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadErr
}

func (m *Manager) stamp() time.Time {
	return m.opt.now().UTC().Truncate(time.Millisecond)
}

// persist must be called with mu held (or before the manager is shared).
func (m *Manager) persist() error {
	if m.loadErr != nil {
		m.opt.log.Warn("persist decisions skipped", "error", m.loadErr)
		return fmt.Errorf("persist decisions: %w: %w", store.ErrNotLoaded, m.loadErr)
	}
	raw, err := Encode(m.recs)
	if err != nil {
		m.opt.log.Warn("persist decisions", "error", err)
		return fmt.Errorf("persist decisions: %w", err)
	}
	if err := m.kv.Set(store.DecisionsKey, raw); err != nil {
		m.opt.log.Warn("persist decisions", "error", err)
		return fmt.Errorf("persist decisions: %w", err)
	}
	return nil
}

// Set records d for id, replacing any earlier decision. Unknown ids are
// accepted.
func (m *Manager) Set(id string, d model.Disposition) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisposition, d)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[id] = Record{Disposition: d, Date: m.stamp()}
	m.opt.log.Debug("decision set", "id", id, "disposition", d)
	return m.persist()
}

// Put stores rec verbatim, keeping its date. Used to undo a change.
func (m *Manager) Put(id string, rec Record) error {
	if !rec.Disposition.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDisposition, rec.Disposition)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs[id] = rec
	return m.persist()
}

// Clear removes the decision for id. Clearing an undecided id still writes.
func (m *Manager) Clear(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
	m.opt.log.Debug("decision cleared", "id", id)
	return m.persist()
}

// ResetAll forgets every decision.
func (m *Manager) ResetAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = Records{}
	m.opt.log.Info("decisions reset")
	return m.persist()
}

// Get returns the disposition chosen for id.
func (m *Manager) Get(id string) (model.Disposition, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	return r.Disposition, ok
}

// Timestamp returns when id was last decided.
func (m *Manager) Timestamp(id string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	return r.Date, ok
}

// Lookup returns the whole record for id.
func (m *Manager) Lookup(id string) (Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	return r, ok
}

// IsDecided reports whether id has any disposition.
func (m *Manager) IsDecided(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.recs[id]
	return ok
}

// Len is the number of decided items.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.recs)
}

// Snapshot returns a copy of every record.
func (m *Manager) Snapshot() Records {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(Records, len(m.recs))
	for k, v := range m.recs {
		out[k] = v
	}
	return out
}

// Counts tallies records by disposition. All four dispositions are present.
func (m *Manager) Counts() map[model.Disposition]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[model.Disposition]int, 4)
	for _, d := range model.Dispositions() {
		counts[d] = 0
	}
	for _, r := range m.recs {
		counts[r.Disposition]++
	}
	return counts
}

// EarliestTimestamp is the "started on" date; ok is false when nothing has
// been decided.
func (m *Manager) EarliestTimestamp() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first time.Time
	found := false
	for _, r := range m.recs {
		if !found || r.Date.Before(first) {
			first, found = r.Date, true
		}
	}
	return first, found
}

// RecentActivity returns up to limit records, newest first. Equal dates are
// ordered by id.
func (m *Manager) RecentActivity(limit int) []Activity {
	if limit <= 0 {
		return nil
	}
	m.mu.Lock()
	out := make([]Activity, 0, len(m.recs))
	for id, r := range m.recs {
		out = append(out, Activity{ID: id, Disposition: r.Disposition, Date: r.Date})
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
