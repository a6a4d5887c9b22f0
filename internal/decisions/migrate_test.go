package decisions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/store"
	"github.com/idilsaglam/declutter/internal/store/memstore"
)

func TestLegacyColorEntryIsMigrated(t *testing.T) {
	kv := memstore.NewWith(map[string]string{
		store.DecisionsKey: `{"bed-tops-1": "blue"}`,
	})
	clk := newClock()
	m := Open(kv, WithClock(clk.Now))

	d, ok := m.Get("bed-tops-1")
	require.True(t, ok)
	assert.Equal(t, model.Donate, d)
	ts, _ := m.Timestamp("bed-tops-1")
	assert.True(t, ts.Equal(clk.Now()), "legacy entries are dated at migration time")

	// the upgraded form was written back
	migrated := stored(t, kv, store.DecisionsKey)
	assert.JSONEq(t, `{"bed-tops-1":{"action":"donate","date":"2025-03-01T09:30:00.000Z"}}`, migrated)

	// and a second load leaves it alone
	clk.Advance(24 * time.Hour)
	again := Open(kv, WithClock(clk.Now))
	ts2, _ := again.Timestamp("bed-tops-1")
	assert.True(t, ts2.Equal(ts))
	assert.Equal(t, migrated, stored(t, kv, store.DecisionsKey))
}

func TestLegacyValues(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	recs, changed := Decode(`{
		"a": "trash", "b": "donate", "c": "keep", "d": "skip",
		"e": "red", "f": "orange", "g": "blue", "h": "green",
		"i": "purple", "j": ""
	}`, now)
	require.True(t, changed)
	want := map[string]model.Disposition{
		"a": model.Trash, "b": model.Donate, "c": model.Keep, "d": model.Skip,
		"e": model.Trash, "f": model.Skip, "g": model.Donate, "h": model.Keep,
	}
	require.Len(t, recs, len(want))
	for id, d := range want {
		assert.Equal(t, d, recs[id].Disposition, "id %s", id)
		assert.True(t, recs[id].Date.Equal(now), "id %s", id)
	}
}

func TestMalformedEntriesAreDropped(t *testing.T) {
	recs, changed := Decode(`{
		"null": null,
		"number": 5,
		"array": ["trash"],
		"no-date": {"action": "trash"},
		"no-action": {"date": "2024-01-02T03:04:05.000Z"},
		"bad-action": {"action": "burn", "date": "2024-01-02T03:04:05.000Z"},
		"bad-date": {"action": "keep", "date": "yesterday"},
		"typed-wrong": {"action": 1, "date": "2024-01-02T03:04:05.000Z"},
		"ok": {"action": "keep", "date": "2024-01-02T03:04:05.000Z"}
	}`, time.Now())
	require.True(t, changed)
	require.Len(t, recs, 1)
	r := recs["ok"]
	assert.Equal(t, model.Keep, r.Disposition)
	assert.True(t, r.Date.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestCorruptValueGivesEmptyStore(t *testing.T) {
	for _, raw := range []string{``, `not json`, `[1,2,3]`, `"trash"`, `42`, `{"a":`} {
		recs, _ := Decode(raw, time.Now())
		assert.Empty(t, recs, "raw %q", raw)
	}

	kv := memstore.NewWith(map[string]string{store.DecisionsKey: `{{{`})
	m := Open(kv)
	assert.Equal(t, 0, m.Len())
	require.NoError(t, m.Set("a", model.Keep))
	assert.True(t, m.IsDecided("a"))
}

func TestNullValueIsEmptyWithoutMigration(t *testing.T) {
	recs, changed := Decode(`null`, time.Now())
	assert.Empty(t, recs)
	assert.False(t, changed)
}

func TestMissingEntryIsEmptyWithoutWrite(t *testing.T) {
	kv := memstore.New()
	m := Open(kv)
	assert.Equal(t, 0, m.Len())
	_, ok, err := kv.Get(store.DecisionsKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCurrentSchemaIsIdempotent(t *testing.T) {
	raw := `{
		"a": {"action": "trash", "date": "2024-01-02T03:04:05.123Z"},
		"b": {"action": "skip", "date": "2024-02-03T04:05:06.000Z"}
	}`
	first, changed := Decode(raw, time.Now())
	require.False(t, changed)

	enc, err := Encode(first)
	require.NoError(t, err)
	second, changed := Decode(enc, time.Now().Add(time.Hour))
	require.False(t, changed)

	require.Len(t, second, 2)
	for id, r := range first {
		assert.Equal(t, r.Disposition, second[id].Disposition)
		assert.True(t, r.Date.Equal(second[id].Date), "id %s", id)
	}
	assert.JSONEq(t, raw, enc)
}

func TestEncodeRoundTrip(t *testing.T) {
	recs := Records{
		"x": {Disposition: model.Keep, Date: time.Date(2023, 12, 31, 23, 59, 59, 999_000_000, time.UTC)},
		"y": {Disposition: model.Donate, Date: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	enc, err := Encode(recs)
	require.NoError(t, err)
	got, changed := Decode(enc, time.Now())
	require.False(t, changed)
	assert.Equal(t, recs, got)

	enc, err = Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, `{}`, enc)
}

func TestForeignOffsetsAreKept(t *testing.T) {
	recs, changed := Decode(`{"a":{"action":"keep","date":"2024-01-02T05:04:05+02:00"}}`, time.Now())
	require.False(t, changed)
	assert.True(t, recs["a"].Date.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}
