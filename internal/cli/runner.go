package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/declutter/internal/app"
	"github.com/idilsaglam/declutter/internal/bags"
	"github.com/idilsaglam/declutter/internal/model"
	"github.com/idilsaglam/declutter/internal/progress"
	"github.com/idilsaglam/declutter/internal/tui"
	"github.com/idilsaglam/declutter/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	App   *app.App
	Group bool        // list grouped by pending/decided
	Color model.Color // only show items with this suggestion
	Yes   bool        // skip the reset confirmation

	Out io.Writer
	Err io.Writer
	In  io.Reader
}

func (o *Options) defaults() {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Err == nil {
		o.Err = os.Stderr
	}
	if o.In == nil {
		o.In = os.Stdin
	}
}

// browse is swapped in tests.
var browse = tui.Run

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	opt.defaults()
	if len(args) == 0 {
		PrintHelp(opt.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Out)
		return 0

	case "rooms":
		return doRooms(opt)

	case "show":
		rest, code := parseShowFlags(a, &opt)
		if code != 0 {
			return code
		}
		if len(rest) == 0 {
			ui.Fail(opt.Err, "usage: declutter show <room> [query...] [--color c] [--group]")
			return 2
		}
		return doShow(opt, rest[0], strings.Join(rest[1:], " "))

	case "set":
		if len(a) != 2 {
			ui.Fail(opt.Err, "usage: declutter set <item-id> <trash|donate|keep|skip>")
			return 2
		}
		d, ok := model.ParseDisposition(a[1])
		if !ok {
			ui.Fail(opt.Err, "set: unknown disposition: "+a[1])
			return 2
		}
		return doSet(opt, a[0], d)

	case "clear":
		if len(a) != 1 {
			ui.Fail(opt.Err, "usage: declutter clear <item-id>")
			return 2
		}
		return doClear(opt, a[0])

	case "check":
		if len(a) != 1 {
			ui.Fail(opt.Err, "usage: declutter check <item-id>")
			return 2
		}
		return doCheck(opt, a[0])

	case "checked":
		if len(a) > 0 {
			ui.Fail(opt.Err, "usage: declutter checked")
			return 2
		}
		return doChecked(opt)

	case "stats":
		return doStats(opt)

	case "recent":
		n := opt.App.Config.RecentLimit
		if len(a) > 1 {
			ui.Fail(opt.Err, "usage: declutter recent [n]")
			return 2
		}
		if len(a) == 1 {
			v, err := strconv.Atoi(a[0])
			if err != nil || v < 1 {
				ui.Fail(opt.Err, "recent: not a positive number: "+a[0])
				return 2
			}
			n = v
		}
		return doRecent(opt, n)

	case "bags":
		return doBags(opt, a)

	case "reset":
		for _, f := range a {
			switch f {
			case "--yes", "-y":
				opt.Yes = true
			default:
				ui.Fail(opt.Err, "usage: declutter reset [--yes]")
				return 2
			}
		}
		return doReset(opt)

	case "browse":
		if err := browse(opt.App); err != nil {
			ui.Fail(opt.Err, "browse: "+err.Error())
			return 1
		}
		return 0
	}

	ui.Fail(opt.Err, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Err)
	PrintHelp(opt.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `declutter - room by room decluttering checklist

Usage:
  declutter [flags] <subcommand> [args]

Subcommands:
  rooms                          List rooms with progress
  show <room> [query...]         List a room's items (--color red|orange|blue|green, --group)
  set <item-id> <disposition>    Decide an item: trash, donate, keep or skip
  clear <item-id>                Remove an item's decision
  check <item-id>                Toggle an item in the simple checklist
  checked                        Simple checklist progress per room
  stats                          Overall progress, decisions, bags and recent activity
  recent [n]                     Most recent decisions
  bags [trash|donate [+|-|N]]    Show or adjust bag counters
  reset [--yes]                  Clear every decision
  browse                         Interactive browser

Examples:
  declutter show bedroom --color red
  declutter set kit-dairy-1 trash
  declutter bags donate +
  declutter recent 5
`)
}

func parseShowFlags(args []string, opt *Options) ([]string, int) {
	var rest []string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--group" || a == "-group":
			opt.Group = true
		case a == "--color" || a == "-color":
			if i+1 >= len(args) {
				ui.Fail(opt.Err, "show: --color needs a value")
				return nil, 2
			}
			i++
			c, ok := model.ParseColor(args[i])
			if !ok {
				ui.Fail(opt.Err, "show: unknown colour: "+args[i])
				return nil, 2
			}
			opt.Color = c
		case strings.HasPrefix(a, "--color="):
			v := strings.TrimPrefix(a, "--color=")
			c, ok := model.ParseColor(v)
			if !ok {
				ui.Fail(opt.Err, "show: unknown colour: "+v)
				return nil, 2
			}
			opt.Color = c
		default:
			rest = append(rest, a)
		}
	}
	return rest, 0
}

// -------------- subcommand impls ----------------

func doRooms(opt Options) int {
	a := opt.App
	t := ui.Current()
	overall := progress.Overall(a.Catalog, a.Decisions)

	var lines []string
	lines = append(lines, header("Rooms", overall))
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(overall.Percent, 28)))
	lines = append(lines, "")
	for _, rp := range progress.Rooms(a.Catalog, a.Decisions) {
		color := t.Muted
		switch {
		case rp.Done():
			color = t.Success
		case rp.Decided > 0:
			color = t.Accent
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %s %s",
			rp.Icon, rp.Name,
			ui.C(color, ui.ProgressBar(rp.Percent, 20)),
			ui.Dim(fmt.Sprintf("%d/%d  (%s)", rp.Decided, rp.Total, rp.ID))))
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: open a room with `declutter show bedroom`"))
	ui.Panel(opt.Out, lines)
	return 0
}

func doShow(opt Options, roomID, query string) int {
	a := opt.App
	t := ui.Current()
	if _, ok := a.Catalog.Room(roomID); !ok {
		ui.Fail(opt.Err, "unknown room: "+roomID)
		fmt.Fprintln(opt.Err, ui.C(t.Muted, "Hint: run `declutter rooms` to see room ids"))
		return 2
	}
	room, _ := a.Catalog.Filter(roomID, query, opt.Color)
	c := progress.Room(a.Catalog, a.Decisions, roomID)

	var lines []string
	lines = append(lines, header(room.Icon+" "+room.Name, c))
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(c.Percent, 28)))
	if query != "" || opt.Color != "" {
		filter := "showing"
		if opt.Color != "" {
			filter += " " + ui.C(t.Suggestion(opt.Color), opt.Color.Label())
		}
		if query != "" {
			filter += fmt.Sprintf(" matching %q", query)
		}
		lines = append(lines, ui.Dim(filter))
	}
	lines = append(lines, "")

	if len(room.Sections) == 0 {
		lines = append(lines, ui.C(t.Muted, "no items"))
	}
	for _, s := range room.Sections {
		sc := progress.Section(s, a.Decisions)
		lines = append(lines, ui.C(t.Accent, s.Name)+" "+ui.Dim(fmt.Sprintf("%d/%d", sc.Decided, sc.Total)))
		if opt.Group {
			lines = append(lines, groupLines(a, s.Items())...)
		} else {
			for _, ss := range s.Subsections {
				ssc := progress.Subsection(ss, a.Decisions)
				lines = append(lines, "  "+ss.Name+" "+ui.Dim(fmt.Sprintf("%d/%d", ssc.Decided, ssc.Total)))
				lines = append(lines, flatLines(a, ss.Items)...)
			}
		}
		lines = append(lines, "")
	}
	lines = append(lines, ui.C(t.Muted, "Tip: decide with `declutter set <item-id> trash`"))
	ui.Panel(opt.Out, lines)
	return 0
}

func doSet(opt Options, id string, d model.Disposition) int {
	a := opt.App
	if code := requireItem(opt, id); code != 0 {
		return code
	}
	if err := a.Decisions.Set(id, d); err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, fmt.Sprintf("%s → %s", a.Catalog.ItemText(id), d.Label()))
	return 0
}

func doClear(opt Options, id string) int {
	a := opt.App
	if code := requireItem(opt, id); code != 0 {
		return code
	}
	if err := a.Decisions.Clear(id); err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "cleared "+a.Catalog.ItemText(id))
	return 0
}

func doCheck(opt Options, id string) int {
	a := opt.App
	if code := requireItem(opt, id); code != 0 {
		return code
	}
	checked, err := a.Checklist.Toggle(id)
	if err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	state := "unchecked"
	if checked {
		state = "checked"
	}
	ui.OK(opt.Out, state+" "+a.Catalog.ItemText(id))
	return 0
}

func doChecked(opt Options) int {
	a := opt.App
	t := ui.Current()
	overall := progress.Overall(a.Catalog, a.Checklist)

	var lines []string
	lines = append(lines, header("Checked", overall))
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(overall.Percent, 28)))
	lines = append(lines, "")
	for _, rp := range progress.Rooms(a.Catalog, a.Checklist) {
		color := t.Muted
		if rp.Decided > 0 {
			color = t.Success
		}
		lines = append(lines, fmt.Sprintf("%s %-16s %s %s",
			rp.Icon, rp.Name,
			ui.C(color, ui.ProgressBar(rp.Percent, 20)),
			ui.Dim(fmt.Sprintf("%d/%d checked", rp.Decided, rp.Total))))
	}
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: tick an item with `declutter check <item-id>`"))
	ui.Panel(opt.Out, lines)
	return 0
}

func requireItem(opt Options, id string) int {
	if _, ok := opt.App.Catalog.Item(id); ok {
		return 0
	}
	ui.Fail(opt.Err, "unknown item: "+id)
	fmt.Fprintln(opt.Err, ui.C(ui.Current().Muted, "Hint: run `declutter show <room>` to see item ids"))
	return 2
}

func doStats(opt Options) int {
	t := ui.Current()
	s := opt.App.Stats()

	var lines []string
	lines = append(lines, header("Progress", s.Overall))
	lines = append(lines, ui.C(t.Muted, ui.ProgressBar(s.Overall.Percent, 28)))
	if !s.StartedOn.IsZero() {
		lines = append(lines, ui.Dim("started on "+s.StartedOn.Local().Format("Jan 2, 2006")))
	}
	lines = append(lines, "")

	lines = append(lines, ui.C(t.Accent, "Decisions"))
	for _, d := range model.Dispositions() {
		color, sym := t.Disposition(d)
		lines = append(lines, fmt.Sprintf("  %s %-7s %d", ui.C(color, sym), d.Label(), s.Counts[d]))
	}
	lines = append(lines, "")

	lines = append(lines, ui.C(t.Accent, "Rooms"))
	for _, rp := range s.Rooms {
		lines = append(lines, fmt.Sprintf("  %s %-16s %s", rp.Icon, rp.Name, ui.ProgressBar(rp.Percent, 16)))
	}
	lines = append(lines, "")

	lines = append(lines, ui.C(t.Accent, "Bags"))
	lines = append(lines, fmt.Sprintf("  %s trash %d   %s donate %d",
		ui.C(t.Trash, t.SymTrash), s.Bags.Trash, ui.C(t.Donate, t.SymDonate), s.Bags.Donate))
	lines = append(lines, "")

	lines = append(lines, ui.C(t.Accent, "Recent activity"))
	lines = append(lines, activityLines(s.Recent)...)
	ui.Panel(opt.Out, lines)
	return 0
}

func doRecent(opt Options, n int) int {
	a := opt.App
	var recent []progress.Activity
	for _, act := range a.Decisions.RecentActivity(n) {
		recent = append(recent, progress.Activity{Activity: act, Text: a.Catalog.ItemText(act.ID)})
	}
	lines := []string{ui.C(ui.Current().Title, "Recent activity"), ""}
	lines = append(lines, activityLines(recent)...)
	ui.Panel(opt.Out, lines)
	return 0
}

func doBags(opt Options, args []string) int {
	bm := opt.App.Bags
	t := ui.Current()
	if len(args) == 0 {
		c := bm.Counters()
		ui.Panel(opt.Out, []string{
			ui.C(t.Title, "Bags"),
			"",
			fmt.Sprintf("%s trash   %d", ui.C(t.Trash, t.SymTrash), c.Trash),
			fmt.Sprintf("%s donate  %d", ui.C(t.Donate, t.SymDonate), c.Donate),
		})
		return 0
	}
	if len(args) > 2 {
		ui.Fail(opt.Err, "usage: declutter bags [trash|donate [+|-|N]]")
		return 2
	}
	kind, err := bags.ParseKind(args[0])
	if err != nil {
		ui.Fail(opt.Err, "bags: "+err.Error())
		return 2
	}
	if len(args) == 1 {
		fmt.Fprintln(opt.Out, bm.Get(kind))
		return 0
	}

	var n int
	switch op := args[1]; op {
	case "+":
		n, err = bm.Increment(kind)
	case "-":
		n, err = bm.Decrement(kind)
	default:
		v, convErr := strconv.Atoi(op)
		if convErr != nil {
			ui.Fail(opt.Err, "bags: not a number: "+op)
			return 2
		}
		n, err = bm.Adjust(kind, v)
	}
	if err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, fmt.Sprintf("%s bags: %d", kind, n))
	return 0
}

func doReset(opt Options) int {
	dm := opt.App.Decisions
	if !opt.Yes {
		fmt.Fprintf(opt.Out, "Reset all progress? %d decisions will be lost. Type %q to confirm: ", dm.Len(), "yes")
		line, err := bufio.NewReader(opt.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			ui.Fail(opt.Err, "reset: "+err.Error())
			return 1
		}
		if ans := strings.ToLower(strings.TrimSpace(line)); ans != "yes" && ans != "y" {
			fmt.Fprintln(opt.Out, ui.Dim("nothing changed"))
			return 0
		}
	}
	if err := dm.ResetAll(); err != nil {
		ui.Fail(opt.Err, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Out, "all progress reset")
	return 0
}

// -------------- rendering helpers --------------

func header(title string, c progress.Completion) string {
	t := ui.Current()
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, title),
		ui.C(t.Success, t.SymDone), c.Decided,
		ui.C(t.Pending, t.SymUnchecked), c.Total-c.Decided,
		ui.C(t.Accent, "Total"), c.Total,
	)
}

func flatLines(a *app.App, items []model.Item) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{ui.C(t.Muted, "    (none)")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		box := ui.C(t.Muted, t.BoxUnchecked)
		text := ui.Truncate(it.Text, 72)
		if d, ok := a.Decisions.Get(it.ID); ok {
			color, sym := t.Disposition(d)
			box = ui.C(color, sym)
			text = ui.Dim(text) + " " + ui.C(color, strings.ToUpper(d.Label()))
		}
		tag := ui.C(t.Suggestion(it.Color), "●")
		line := fmt.Sprintf("    %s %s %s %s", box, tag, text, ui.Dim(it.ID))
		if a.Checklist.IsChecked(it.ID) {
			line += " " + ui.C(t.Success, t.BoxChecked)
		}
		out = append(out, line)
	}
	return out
}

func groupLines(a *app.App, items []model.Item) []string {
	var pend, done []model.Item
	for _, it := range items {
		if a.Decisions.IsDecided(it.ID) {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, ui.C(t.Pending, "  Pending"))
	lines = append(lines, flatLines(a, pend)...)
	lines = append(lines, ui.C(t.Success, "  Decided"))
	lines = append(lines, flatLines(a, done)...)
	return lines
}

func activityLines(recent []progress.Activity) []string {
	t := ui.Current()
	if len(recent) == 0 {
		return []string{ui.C(t.Muted, "  no decisions yet")}
	}
	out := make([]string, 0, len(recent))
	for _, r := range recent {
		color, sym := t.Disposition(r.Disposition)
		out = append(out, fmt.Sprintf("  %s %s %s %s",
			ui.C(color, sym),
			ui.Truncate(r.Text, 56),
			ui.C(color, r.Disposition.Label()),
			ui.Dim(r.Date.Local().Format("Jan 2 15:04"))))
	}
	return out
}
