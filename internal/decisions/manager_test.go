package decisions

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/store"
	"github.com/idilsaglam/declutter/internal/store/memstore"
)

type fakeClock struct{ t time.Time }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func stored(t *testing.T, kv store.Store, key string) string {
	t.Helper()
	v, ok, err := kv.Get(key)
	require.NoError(t, err)
	require.True(t, ok, "key %s not stored", key)
	return v
}

func TestSetOnEmptyStore(t *testing.T) {
	kv := memstore.New()
	clk := newClock()
	m := Open(kv, WithClock(clk.Now))
	require.True(t, m.Ready())
	assert.Equal(t, 0, m.Len())

	require.NoError(t, m.Set("kit-dairy-1", model.Trash))

	d, ok := m.Get("kit-dairy-1")
	require.True(t, ok)
	assert.Equal(t, model.Trash, d)
	assert.True(t, m.IsDecided("kit-dairy-1"))
	assert.Equal(t, 1, m.Counts()[model.Trash])

	ts, ok := m.Timestamp("kit-dairy-1")
	require.True(t, ok)
	assert.True(t, ts.Equal(clk.Now()))

	assert.JSONEq(t,
		`{"kit-dairy-1":{"action":"trash","date":"2025-03-01T09:30:00.000Z"}}`,
		stored(t, kv, store.DecisionsKey))
}

func TestSetOverwritesDispositionAndDate(t *testing.T) {
	clk := newClock()
	m := Open(memstore.New(), WithClock(clk.Now))

	require.NoError(t, m.Set("a", model.Keep))
	clk.Advance(time.Hour)
	require.NoError(t, m.Set("a", model.Donate))

	r, ok := m.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, model.Donate, r.Disposition)
	assert.True(t, r.Date.Equal(clk.Now()))
	assert.Equal(t, 1, m.Len())
}

func TestClear(t *testing.T) {
	kv := memstore.New()
	m := Open(kv)

	require.NoError(t, m.Set("a", model.Keep))
	require.NoError(t, m.Clear("a"))
	assert.False(t, m.IsDecided("a"))
	_, ok := m.Get("a")
	assert.False(t, ok)
	_, ok = m.Timestamp("a")
	assert.False(t, ok)

	// clearing an undecided id is a no-op
	require.NoError(t, m.Clear("never-set"))
	assert.JSONEq(t, `{}`, stored(t, kv, store.DecisionsKey))
}

func TestUnknownIDsAreAccepted(t *testing.T) {
	m := Open(memstore.New())
	require.NoError(t, m.Set("not-in-any-catalog", model.Skip))
	assert.True(t, m.IsDecided("not-in-any-catalog"))
}

func TestInvalidDispositionRejected(t *testing.T) {
	m := Open(memstore.New())
	require.ErrorIs(t, m.Set("a", model.Disposition("burn")), ErrInvalidDisposition)
	require.ErrorIs(t, m.Put("a", Record{Disposition: "burn"}), ErrInvalidDisposition)
	assert.Equal(t, 0, m.Len())
}

func TestPutKeepsDate(t *testing.T) {
	m := Open(memstore.New())
	when := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, m.Put("a", Record{Disposition: model.Keep, Date: when}))
	ts, ok := m.Timestamp("a")
	require.True(t, ok)
	assert.True(t, ts.Equal(when))
}

func TestResetAll(t *testing.T) {
	kv := memstore.New()
	m := Open(kv)
	require.NoError(t, m.Set("a", model.Keep))
	require.NoError(t, m.Set("b", model.Trash))

	require.NoError(t, m.ResetAll())
	assert.Equal(t, 0, m.Len())
	assert.False(t, m.IsDecided("a"))
	assert.JSONEq(t, `{}`, stored(t, kv, store.DecisionsKey))

	counts := m.Counts()
	for _, d := range model.Dispositions() {
		assert.Equal(t, 0, counts[d], "disposition %s", d)
	}
}

func TestCountsAlwaysHaveEveryDisposition(t *testing.T) {
	m := Open(memstore.New())
	counts := m.Counts()
	assert.Len(t, counts, 4)

	require.NoError(t, m.Set("a", model.Trash))
	require.NoError(t, m.Set("b", model.Trash))
	require.NoError(t, m.Set("c", model.Keep))
	counts = m.Counts()
	assert.Equal(t, map[model.Disposition]int{
		model.Trash:  2,
		model.Donate: 0,
		model.Keep:   1,
		model.Skip:   0,
	}, counts)
}

func TestEarliestTimestamp(t *testing.T) {
	clk := newClock()
	m := Open(memstore.New(), WithClock(clk.Now))

	_, ok := m.EarliestTimestamp()
	assert.False(t, ok)

	start := clk.Now()
	require.NoError(t, m.Set("a", model.Keep))
	clk.Advance(time.Minute)
	require.NoError(t, m.Set("b", model.Trash))

	first, ok := m.EarliestTimestamp()
	require.True(t, ok)
	assert.True(t, first.Equal(start))
}

func TestRecentActivity(t *testing.T) {
	clk := newClock()
	m := Open(memstore.New(), WithClock(clk.Now))

	require.NoError(t, m.Set("t1", model.Keep))
	clk.Advance(time.Second)
	require.NoError(t, m.Set("t2", model.Trash))
	clk.Advance(time.Second)
	require.NoError(t, m.Set("t3", model.Donate))

	got := m.RecentActivity(2)
	require.Len(t, got, 2)
	assert.Equal(t, "t3", got[0].ID)
	assert.Equal(t, model.Donate, got[0].Disposition)
	assert.Equal(t, "t2", got[1].ID)

	assert.Len(t, m.RecentActivity(10), 3)
	assert.Empty(t, m.RecentActivity(0))
}

func TestRecentActivityTiesOrderedByID(t *testing.T) {
	clk := newClock()
	m := Open(memstore.New(), WithClock(clk.Now))
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.Set(id, model.Skip))
	}
	got := m.RecentActivity(3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestPersistFailureKeepsMemory(t *testing.T) {
	kv := memstore.New()
	m := Open(kv)
	require.NoError(t, m.Set("a", model.Keep))

	kv.FailWrites = true
	err := m.Set("b", model.Trash)
	require.ErrorIs(t, err, memstore.ErrWriteFailed)
	assert.True(t, m.IsDecided("b"))

	require.ErrorIs(t, m.Clear("a"), memstore.ErrWriteFailed)
	assert.False(t, m.IsDecided("a"))

	// the last successful write is what a reload sees
	kv.FailWrites = false
	reloaded := Open(kv)
	assert.True(t, reloaded.IsDecided("a"))
	assert.False(t, reloaded.IsDecided("b"))
}

func TestReadFailureDoesNotOverwrite(t *testing.T) {
	kv := memstore.NewWith(map[string]string{store.DecisionsKey: `{
		"a":{"action":"keep","date":"2025-02-01T10:00:00.000Z"},
		"b":{"action":"trash","date":"2025-02-02T10:00:00.000Z"}}`})
	before := stored(t, kv, store.DecisionsKey)

	var logs bytes.Buffer
	kv.FailReads = true
	m := Open(kv, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	kv.FailReads = false

	assert.False(t, m.Ready())
	require.ErrorIs(t, m.LoadErr(), memstore.ErrReadFailed)
	assert.Contains(t, logs.String(), "load decisions")

	err := m.Set("c", model.Donate)
	require.ErrorIs(t, err, store.ErrNotLoaded)
	require.ErrorIs(t, err, memstore.ErrReadFailed)
	assert.True(t, m.IsDecided("c"))
	require.ErrorIs(t, m.ResetAll(), store.ErrNotLoaded)
	assert.Contains(t, logs.String(), "persist decisions skipped")

	assert.Equal(t, before, stored(t, kv, store.DecisionsKey))
	reloaded := Open(kv)
	require.NoError(t, reloaded.LoadErr())
	assert.Equal(t, 2, reloaded.Len())
}

func TestReloadSeesMutations(t *testing.T) {
	kv := memstore.New()
	clk := newClock()
	m := Open(kv, WithClock(clk.Now))
	require.NoError(t, m.Set("a", model.Keep))
	clk.Advance(time.Minute)
	require.NoError(t, m.Set("b", model.Donate))

	clk.Advance(time.Hour)
	again := Open(kv, WithClock(clk.Now))
	assert.Equal(t, m.Snapshot(), again.Snapshot())
}

// Random set/clear/reset sequences against a plain map.
func TestOperationSequencesMatchModel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d", "e"}
	dispositions := model.Dispositions()

	for round := 0; round < 20; round++ {
		m := Open(memstore.New())
		want := map[string]model.Disposition{}
		for step := 0; step < 200; step++ {
			id := ids[rng.Intn(len(ids))]
			switch op := rng.Intn(10); {
			case op < 6:
				d := dispositions[rng.Intn(len(dispositions))]
				require.NoError(t, m.Set(id, d))
				want[id] = d
			case op < 9:
				require.NoError(t, m.Clear(id))
				delete(want, id)
			default:
				require.NoError(t, m.ResetAll())
				want = map[string]model.Disposition{}
			}

			for _, id := range ids {
				d, ok := m.Get(id)
				wd, wok := want[id]
				require.Equal(t, wok, ok, "round %d step %d id %s", round, step, id)
				require.Equal(t, wok, m.IsDecided(id))
				require.Equal(t, wd, d)
			}
			sum := 0
			for _, n := range m.Counts() {
				sum += n
			}
			require.Equal(t, m.Len(), sum)
		}
	}
}
