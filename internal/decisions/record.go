package decisions

import (
	"encoding/json"
	"time"

	"github.com/idilsaglam/declutter/internal/model"
)

// Record is the decision stored for one item.
type Record struct {
	Disposition model.Disposition
	Date        time.Time
}

// Records maps item ids to their decision. A missing key means undecided.
type Records map[string]Record

// dateLayout matches what browsers produce for Date.toISOString.
const dateLayout = "2006-01-02T15:04:05.000Z07:00"

// wireRecord is the current on-disk schema.
type wireRecord struct {
	Action string `json:"action"`
	Date   string `json:"date"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRecord{
		Action: string(r.Disposition),
		Date:   r.Date.UTC().Format(dateLayout),
	})
}

type entryKind int

const (
	entryInvalid entryKind = iota
	entryLegacy
	entryCurrent
)

// entry is one stored value before migration: either a legacy bare
// disposition string or a current {action, date} object. Anything else
// decodes as entryInvalid and is dropped.
type entry struct {
	kind    entryKind
	legacy  model.Disposition
	current Record
}

// UnmarshalJSON never fails; unknown shapes become entryInvalid.
func (e *entry) UnmarshalJSON(b []byte) error {
	*e = entry{}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if d, ok := legacyDisposition(s); ok {
			e.kind, e.legacy = entryLegacy, d
		}
		return nil
	}

	var obj struct {
		Action *string `json:"action"`
		Date   *string `json:"date"`
	}
	if err := json.Unmarshal(b, &obj); err != nil || obj.Action == nil || obj.Date == nil {
		return nil
	}
	d := model.Disposition(*obj.Action)
	if !d.Valid() {
		return nil
	}
	ts, err := time.Parse(time.RFC3339Nano, *obj.Date)
	if err != nil {
		return nil
	}
	e.kind = entryCurrent
	e.current = Record{Disposition: d, Date: ts}
	return nil
}

// legacyDisposition understands the bare strings older versions stored:
// either a disposition name or a catalogue colour tag.
func legacyDisposition(s string) (model.Disposition, bool) {
	if d := model.Disposition(s); d.Valid() {
		return d, true
	}
	if c := model.Color(s); c.Valid() {
		return c.Disposition()
	}
	return "", false
}
