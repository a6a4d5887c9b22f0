// Package progress derives completion figures from the catalogue and the
// decision state.
package progress

import (
	"math"

	"github.com/idilsaglam/declutter/internal/catalog"
	"github.com/idilsaglam/declutter/internal/model"
)

// Decider reports whether an item has been dealt with.
type Decider interface {
	IsDecided(id string) bool
}

type Completion struct {
	Decided int
	Total   int
	Percent int
}

// Of computes the rounded percentage; an empty set is 0%.
func Of(decided, total int) Completion {
	c := Completion{Decided: decided, Total: total}
	if total > 0 {
		c.Percent = int(math.Round(float64(decided) / float64(total) * 100))
	}
	return c
}

func (c Completion) Done() bool { return c.Total > 0 && c.Decided == c.Total }

func Items(items []model.Item, d Decider) Completion {
	n := 0
	for _, it := range items {
		if d.IsDecided(it.ID) {
			n++
		}
	}
	return Of(n, len(items))
}

func Subsection(ss model.Subsection, d Decider) Completion { return Items(ss.Items, d) }

func Section(s model.Section, d Decider) Completion { return Items(s.Items(), d) }

// Room is zero for unknown rooms.
func Room(cat *catalog.Catalog, d Decider, roomID string) Completion {
	return Items(cat.Items(roomID), d)
}

func Overall(cat *catalog.Catalog, d Decider) Completion {
	return Items(cat.AllItems(), d)
}

type RoomProgress struct {
	ID   string
	Name string
	Icon string
	Completion
}

// Rooms lists every room's completion in catalogue order.
func Rooms(cat *catalog.Catalog, d Decider) []RoomProgress {
	out := make([]RoomProgress, 0, len(cat.Rooms()))
	for _, r := range cat.Rooms() {
		out = append(out, RoomProgress{
			ID:         r.ID,
			Name:       r.Name,
			Icon:       r.Icon,
			Completion: Items(r.Items(), d),
		})
	}
	return out
}
