package decisions

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/idilsaglam/declutter/internal/store"
)

// Decode parses a stored decisions value and upgrades every entry to the
// current schema. Legacy entries get now as their date since the original
// time was never recorded. Malformed input yields an empty map. changed
// reports whether the result differs from what was stored (an entry was
// upgraded or dropped).
func Decode(raw string, now time.Time) (recs Records, changed bool) {
	recs = Records{}
	var entries map[string]entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return recs, true
	}
	for id, e := range entries {
		switch e.kind {
		case entryCurrent:
			recs[id] = e.current
		case entryLegacy:
			recs[id] = Record{Disposition: e.legacy, Date: now}
			changed = true
		default:
			changed = true
		}
	}
	return recs, changed
}

// Encode serialises records in the current schema.
func Encode(recs Records) (string, error) {
	if recs == nil {
		recs = Records{}
	}
	b, err := json.Marshal(recs)
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Load reads and migrates the decisions entry. A missing entry or a corrupt
// value gives an empty map. A read error also gives an empty map, and is
// returned so the caller does not write over what it could not read.
func Load(kv store.Store, now time.Time) (recs Records, changed bool, err error) {
	raw, ok, err := kv.Get(store.DecisionsKey)
	if err != nil {
		return Records{}, false, fmt.Errorf("read decisions: %w", err)
	}
	if !ok {
		return Records{}, false, nil
	}
	recs, changed = Decode(raw, now)
	return recs, changed, nil
}
