package progress

import (
	"time"

	"github.com/idilsaglam/declutter/internal/bags"
	"github.com/idilsaglam/declutter/internal/catalog"
	"github.com/idilsaglam/declutter/internal/decisions"
	"github.com/idilsaglam/declutter/internal/model"
)

// Activity is a recent decision with its item text resolved.
type Activity struct {
	decisions.Activity
	Text string
}

// Stats is everything the stats view shows.
type Stats struct {
	Overall   Completion
	Rooms     []RoomProgress
	Counts    map[model.Disposition]int
	Bags      bags.Counters
	StartedOn time.Time // zero when nothing is decided
	Recent    []Activity
}

func Collect(cat *catalog.Catalog, dm *decisions.Manager, bm *bags.Manager, recent int) Stats {
	s := Stats{
		Overall: Overall(cat, dm),
		Rooms:   Rooms(cat, dm),
		Counts:  dm.Counts(),
		Bags:    bm.Counters(),
	}
	if t, ok := dm.EarliestTimestamp(); ok {
		s.StartedOn = t
	}
	for _, a := range dm.RecentActivity(recent) {
		s.Recent = append(s.Recent, Activity{Activity: a, Text: cat.ItemText(a.ID)})
	}
	return s
}
