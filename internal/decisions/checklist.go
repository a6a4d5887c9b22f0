package decisions

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/idilsaglam/declutter/internal/store"
)

// Checklist is the reduced form of the decision state: a plain checked
// flag per item, no disposition and no date. It is stored as a JSON array
// of ids under its own key.
type Checklist struct {
	mu      sync.Mutex
	kv      store.Store
	checked map[string]struct{}
	opt     options
	loadErr error
}

// DecodeChecked parses the stored id array. Malformed input gives an empty
// set; non-string elements are dropped.
func DecodeChecked(raw string) map[string]struct{} {
	out := map[string]struct{}{}
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return out
	}
	for _, e := range elems {
		var id string
		if err := json.Unmarshal(e, &id); err != nil {
			continue
		}
		out[id] = struct{}{}
	}
	return out
}

// OpenChecklist loads the checked ids. Like Open, a read error leaves the
// checklist empty and stops it from writing.
func OpenChecklist(kv store.Store, opts ...Option) *Checklist {
	c := &Checklist{kv: kv, checked: map[string]struct{}{}, opt: buildOptions(opts)}
	raw, ok, err := kv.Get(store.CheckedKey)
	switch {
	case err != nil:
		c.loadErr = fmt.Errorf("read checklist: %w", err)
		c.opt.log.Warn("load checklist", "error", err)
	case ok:
		c.checked = DecodeChecked(raw)
	}
	c.opt.log.Debug("checklist loaded", "count", len(c.checked))
	return c
}

// LoadErr is the read error met by OpenChecklist, or nil.
func (c *Checklist) LoadErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

func (c *Checklist) persist() error {
	if c.loadErr != nil {
		c.opt.log.Warn("persist checklist skipped", "error", c.loadErr)
		return fmt.Errorf("persist checklist: %w: %w", store.ErrNotLoaded, c.loadErr)
	}
	b, err := json.Marshal(c.idsLocked())
	if err != nil {
		c.opt.log.Warn("persist checklist", "error", err)
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := c.kv.Set(store.CheckedKey, string(b)); err != nil {
		c.opt.log.Warn("persist checklist", "error", err)
		return fmt.Errorf("persist checklist: %w", err)
	}
	return nil
}

// Toggle flips the checked flag and returns the new value.
func (c *Checklist) Toggle(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, was := c.checked[id]
	if was {
		delete(c.checked, id)
	} else {
		c.checked[id] = struct{}{}
	}
	return !was, c.persist()
}

func (c *Checklist) SetChecked(id string, checked bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if checked {
		c.checked[id] = struct{}{}
	} else {
		delete(c.checked, id)
	}
	return c.persist()
}

func (c *Checklist) IsChecked(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.checked[id]
	return ok
}

// IsDecided lets the checklist stand in wherever decided-ness is counted.
func (c *Checklist) IsDecided(id string) bool { return c.IsChecked(id) }

func (c *Checklist) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.checked)
}

// IDs returns the checked ids sorted.
func (c *Checklist) IDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.idsLocked()
}

func (c *Checklist) idsLocked() []string {
	ids := make([]string, 0, len(c.checked))
	for id := range c.checked {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (c *Checklist) ResetAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checked = map[string]struct{}{}
	return c.persist()
}
