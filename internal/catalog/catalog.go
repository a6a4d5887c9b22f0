// Package catalog provides the static room/section/subsection/item tree.
// The tree never changes at runtime, so every lookup table is built once
// when the catalogue is loaded.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/idilsaglam/declutter/internal/model"
)

//go:embed data/rooms.json
var defaultData []byte

var ErrInvalidCatalog = errors.New("invalid catalog")

type Catalog struct {
	rooms  []model.Room
	byRoom map[string]int
	items  map[string]model.Item
	roomOf map[string]string
	total  int
}

type document struct {
	Rooms []model.Room `json:"rooms"`
}

// Default returns the embedded catalogue. It panics if the embedded data is
// broken, which only a bad build can cause.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultData))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data: %v", err))
	}
	return c
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a catalogue document.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	return New(doc.Rooms)
}

// New indexes rooms. Room ids and item ids must be unique.
func New(rooms []model.Room) (*Catalog, error) {
	c := &Catalog{
		rooms:  rooms,
		byRoom: make(map[string]int, len(rooms)),
		items:  make(map[string]model.Item),
		roomOf: make(map[string]string),
	}
	for i, r := range rooms {
		if strings.TrimSpace(r.ID) == "" {
			return nil, fmt.Errorf("%w: room %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byRoom[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate room %q", ErrInvalidCatalog, r.ID)
		}
		c.byRoom[r.ID] = i
		for _, it := range r.Items() {
			if strings.TrimSpace(it.ID) == "" {
				return nil, fmt.Errorf("%w: room %q has an item without id", ErrInvalidCatalog, r.ID)
			}
			if !it.Color.Valid() {
				return nil, fmt.Errorf("%w: item %q has unknown color %q", ErrInvalidCatalog, it.ID, it.Color)
			}
			if other, dup := c.roomOf[it.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate item %q (rooms %q and %q)", ErrInvalidCatalog, it.ID, other, r.ID)
			}
			c.items[it.ID] = it
			c.roomOf[it.ID] = r.ID
			c.total++
		}
	}
	return c, nil
}

// Rooms returns rooms in catalogue order.
func (c *Catalog) Rooms() []model.Room { return c.rooms }

func (c *Catalog) Room(id string) (model.Room, bool) {
	i, ok := c.byRoom[id]
	if !ok {
		return model.Room{}, false
	}
	return c.rooms[i], true
}

// Items returns every item of a room, or nil for an unknown room.
func (c *Catalog) Items(roomID string) []model.Item {
	r, ok := c.Room(roomID)
	if !ok {
		return nil
	}
	return r.Items()
}

func (c *Catalog) AllItems() []model.Item {
	out := make([]model.Item, 0, c.total)
	for _, r := range c.rooms {
		out = append(out, r.Items()...)
	}
	return out
}

func (c *Catalog) TotalItemCount() int { return c.total }

func (c *Catalog) Item(id string) (model.Item, bool) {
	it, ok := c.items[id]
	return it, ok
}

// RoomOf reports which room an item belongs to.
func (c *Catalog) RoomOf(id string) (string, bool) {
	r, ok := c.roomOf[id]
	return r, ok
}

// ItemText resolves display text, falling back to the id itself.
func (c *Catalog) ItemText(id string) string {
	if it, ok := c.items[id]; ok {
		return it.Text
	}
	return id
}
