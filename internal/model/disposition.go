package model

import "strings"

// Disposition is the outcome a user picks for an item.
type Disposition string

const (
	Trash  Disposition = "trash"
	Donate Disposition = "donate"
	Keep   Disposition = "keep"
	Skip   Disposition = "skip"
)

// Dispositions returns every disposition in display order.
func Dispositions() []Disposition {
	return []Disposition{Trash, Donate, Keep, Skip}
}

func (d Disposition) Valid() bool {
	switch d {
	case Trash, Donate, Keep, Skip:
		return true
	}
	return false
}

func (d Disposition) Label() string {
	switch d {
	case Trash:
		return "Trash"
	case Donate:
		return "Donate"
	case Keep:
		return "Keep"
	case Skip:
		return "Skip"
	}
	return string(d)
}

// ParseDisposition accepts a disposition name in any case.
func ParseDisposition(s string) (Disposition, bool) {
	d := Disposition(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Color is the catalogue's suggested disposition for an item.
type Color string

const (
	Red    Color = "red"
	Orange Color = "orange"
	Blue   Color = "blue"
	Green  Color = "green"
)

func Colors() []Color {
	return []Color{Red, Orange, Blue, Green}
}

func (c Color) Valid() bool {
	switch c {
	case Red, Orange, Blue, Green:
		return true
	}
	return false
}

// Label is the legend text shown next to a colour.
func (c Color) Label() string {
	switch c {
	case Red:
		return "TRASH"
	case Orange:
		return "DECIDE"
	case Blue:
		return "DONATE"
	case Green:
		return "KEEP"
	}
	return strings.ToUpper(string(c))
}

// Disposition maps a suggestion colour to its equivalent disposition.
// Orange means "decide later", which lands in the skip bucket.
func (c Color) Disposition() (Disposition, bool) {
	switch c {
	case Red:
		return Trash, true
	case Blue:
		return Donate, true
	case Green:
		return Keep, true
	case Orange:
		return Skip, true
	}
	return "", false
}

func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}
