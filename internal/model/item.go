package model

// Item is a single catalogue checklist entry. Ids are unique across the
// whole catalogue.
type Item struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

type Subsection struct {
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

type Section struct {
	Name        string       `json:"name"`
	Subsections []Subsection `json:"subsections"`
}

// Items flattens the section in catalogue order.
func (s Section) Items() []Item {
	var out []Item
	for _, ss := range s.Subsections {
		out = append(out, ss.Items...)
	}
	return out
}

type Room struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Icon     string    `json:"icon"`
	Sections []Section `json:"sections"`
}

// Items flattens the room in catalogue order.
func (r Room) Items() []Item {
	var out []Item
	for _, s := range r.Sections {
		out = append(out, s.Items()...)
	}
	return out
}
