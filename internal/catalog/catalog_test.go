package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/declutter/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	require.Len(t, c.Rooms(), 7)
	assert.Equal(t, 756, c.TotalItemCount())
	assert.Len(t, c.AllItems(), 756)
	assert.Len(t, c.Items("bedroom"), 180)
	assert.Nil(t, c.Items("garage"))

	r, ok := c.Room("kitchen")
	require.True(t, ok)
	assert.Equal(t, "Kitchen", r.Name)

	it, ok := c.Item("kit-dairy-1")
	require.True(t, ok)
	assert.Equal(t, "Expired milk", it.Text)
	assert.Equal(t, model.Red, it.Color)

	room, ok := c.RoomOf("bed-tops-1")
	require.True(t, ok)
	assert.Equal(t, "bedroom", room)
}

func TestItemTextFallsBackToID(t *testing.T) {
	c := Default()
	assert.Equal(t, "Stained shirts (pit stains, food stains, bleach spots)", c.ItemText("bed-tops-1"))
	assert.Equal(t, "no-such-item", c.ItemText("no-such-item"))
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"room without id": `{"rooms":[{"name":"x"}]}`,
		"duplicate room":  `{"rooms":[{"id":"a"},{"id":"a"}]}`,
		"bad color": `{"rooms":[{"id":"a","sections":[{"subsections":[{"items":[
			{"id":"a-1","text":"x","color":"purple"}]}]}]}]}`,
		"duplicate item": `{"rooms":[
			{"id":"a","sections":[{"subsections":[{"items":[{"id":"x","text":"x","color":"red"}]}]}]},
			{"id":"b","sections":[{"subsections":[{"items":[{"id":"x","text":"y","color":"red"}]}]}]}]}`,
		"item without id": `{"rooms":[{"id":"a","sections":[{"subsections":[{"items":[{"text":"x","color":"red"}]}]}]}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidCatalog)
		})
	}
}

func TestEmptyRoomIsValid(t *testing.T) {
	c, err := Load(strings.NewReader(`{"rooms":[{"id":"attic","name":"Attic"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, c.TotalItemCount())
	assert.Empty(t, c.Items("attic"))
}

func TestFilter(t *testing.T) {
	c := Default()

	r, ok := c.Filter("bedroom", "ZIPPER", "")
	require.True(t, ok)
	items := r.Items()
	require.Len(t, items, 5)
	for _, it := range items {
		assert.Contains(t, strings.ToLower(it.Text), "zipper")
	}
	for _, s := range r.Sections {
		assert.NotEmpty(t, s.Subsections)
		for _, ss := range s.Subsections {
			assert.NotEmpty(t, ss.Items)
		}
	}

	r, ok = c.Filter("bedroom", "zipper", model.Blue)
	require.True(t, ok)
	assert.Empty(t, r.Sections)

	r, ok = c.Filter("bedroom", "", model.Red)
	require.True(t, ok)
	assert.Len(t, r.Items(), 78)

	r, ok = c.Filter("bedroom", "", "")
	require.True(t, ok)
	assert.Len(t, r.Items(), 180)

	_, ok = c.Filter("garage", "", "")
	assert.False(t, ok)
}
