package catalog

import (
	"strings"

	"github.com/idilsaglam/declutter/internal/model"
)

// Filter returns the room pruned to items whose text contains query
// (case-insensitive) and whose colour matches. An empty query and a zero
// colour match everything. Subsections and sections left empty are dropped.
func (c *Catalog) Filter(roomID, query string, color model.Color) (model.Room, bool) {
	r, ok := c.Room(roomID)
	if !ok {
		return model.Room{}, false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := model.Room{ID: r.ID, Name: r.Name, Icon: r.Icon}
	for _, s := range r.Sections {
		sec := model.Section{Name: s.Name}
		for _, ss := range s.Subsections {
			sub := model.Subsection{Name: ss.Name}
			for _, it := range ss.Items {
				if q != "" && !strings.Contains(strings.ToLower(it.Text), q) {
					continue
				}
				if color != "" && it.Color != color {
					continue
				}
				sub.Items = append(sub.Items, it)
			}
			if len(sub.Items) > 0 {
				sec.Subsections = append(sec.Subsections, sub)
			}
		}
		if len(sec.Subsections) > 0 {
			out.Sections = append(out.Sections, sec)
		}
	}
	return out, true
}
