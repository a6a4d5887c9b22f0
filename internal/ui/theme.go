package ui

import (
	"strings"

	"github.com/idilsaglam/declutter/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Title, Muted, Accent, Success, Error, Pending string
	BoxUnchecked, BoxChecked                      string
	CornerTL, CornerTR, CornerBL, CornerBR        string
	H, V                                          string
	SymDone, SymUnchecked                         string

	// per disposition: colour and marker
	Trash, Donate, Keep, Skip             string
	SymTrash, SymDonate, SymKeep, SymSkip string
}

var current Theme

func init() { SetTheme("classic") }

func SetTheme(name string) {
	switch strings.ToLower(name) {
	case "neon":
		current = Theme{
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			BoxUnchecked: "◻", BoxChecked: "◼",
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
			Trash: "\033[91m", Donate: "\033[94m", Keep: "\033[92m", Skip: fgGray,
			SymTrash: "✖", SymDonate: "➜", SymKeep: "✔", SymSkip: "—",
		}
	case "mono":
		disableColor = true
		current = Theme{
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymUnchecked: "-",
			SymTrash: "T", SymDonate: "D", SymKeep: "K", SymSkip: "S",
		}
	default: // classic
		current = Theme{
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed, Pending: fgYellow,
			BoxUnchecked: "☐", BoxChecked: "☑",
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymDone: "✔", SymUnchecked: "•",
			Trash: fgRed, Donate: fgBlue, Keep: fgGreen, Skip: fgGray,
			SymTrash: "🗑", SymDonate: "📦", SymKeep: "✓", SymSkip: "—",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// Disposition returns the colour and marker for d.
func (t Theme) Disposition(d model.Disposition) (color, sym string) {
	switch d {
	case model.Trash:
		return t.Trash, t.SymTrash
	case model.Donate:
		return t.Donate, t.SymDonate
	case model.Keep:
		return t.Keep, t.SymKeep
	case model.Skip:
		return t.Skip, t.SymSkip
	}
	return t.Muted, t.SymUnchecked
}

// Suggestion colours the catalogue's suggested disposition tag.
func (t Theme) Suggestion(c model.Color) string {
	switch c {
	case model.Red:
		return t.Trash
	case model.Orange:
		return t.Pending
	case model.Blue:
		return t.Donate
	case model.Green:
		return t.Keep
	}
	return t.Muted
}
