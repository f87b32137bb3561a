// Package printers renders notes, timers and statistics for the terminal.
package printers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

// PrettyPrint writes human readable output. Colour is used only when Out is
// a terminal.
type PrettyPrint struct {
	Out io.Writer
	Now time.Time
	// Width wraps long note fields. Zero means the terminal width, or 80
	// columns when Out is not a terminal.
	Width int
}

// Interactive reports whether w is a terminal.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) now() time.Time {
	if pp.Now.IsZero() {
		return time.Now()
	}
	return pp.Now
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	if f, ok := pp.out().(*os.File); ok && Interactive(f) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			return w
		}
	}
	return 80
}

func (pp *PrettyPrint) style(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if pp.Out != nil && !Interactive(pp.Out) {
		c.DisableColor()
	}
	return c
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	_, _ = pp.style(color.Bold, color.Underline).Fprint(pp.out(), title)
	if count != 1 {
		noun += "s"
	}
	_, _ = pp.style(color.Faint).Fprintf(pp.out(), " - %d %s\n", count, noun)
}

func (pp *PrettyPrint) none() {
	_, _ = pp.style(color.Faint, color.Italic).Fprint(pp.out(), " none\n\n")
}

// Status is the one-word state of a note.
func Status(n *note.Note) string {
	switch {
	case n.Canceled:
		return "canceled"
	case n.Completed:
		return "done"
	case n.Timer.IsRunning():
		return "running"
	case n.IsInProgress():
		return "open"
	default:
		return "blank"
	}
}

func (pp *PrettyPrint) statusColor(status string) *color.Color {
	switch status {
	case "canceled":
		return pp.style(color.FgRed, color.Faint)
	case "done":
		return pp.style(color.FgGreen)
	case "running":
		return pp.style(color.FgHiYellow, color.Bold)
	case "blank":
		return pp.style(color.Faint)
	}
	return pp.style()
}

// Notes prints one row per note.
func (pp *PrettyPrint) Notes(notes ...*note.Note) {
	if len(notes) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow("#", "NOTE", "STATUS", "PROJECT", "ATTEMPT", "OPERATION", "TIME")
	for _, n := range notes {
		st := Status(n)
		tbl.AddRow(
			n.Number,
			n.DisplayLabel(),
			pp.statusColor(st).Sprint(st),
			n.ProjectID,
			n.AttemptID,
			n.OperationID,
			timefmt.FormatSeconds(n.ElapsedSeconds(now)),
		)
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// NoteDetail prints every field of a note, wrapping long text.
func (pp *PrettyPrint) NoteDetail(n *note.Note) {
	label := pp.style(color.Bold)
	pp.Title(fmt.Sprintf("%s note %s (#%d)", n.Date, n.DisplayLabel(), n.Number))
	st := Status(n)
	_, _ = fmt.Fprintf(pp.out(), "%s %s\n", label.Sprint("Status:"), pp.statusColor(st).Sprint(st))
	_, _ = fmt.Fprintf(pp.out(), "%s %s\n", label.Sprint("Time:"), timefmt.FormatSeconds(n.ElapsedSeconds(pp.now())))
	if !n.Timer.Start.IsZero() {
		_, _ = fmt.Fprintf(pp.out(), "%s %s\n", label.Sprint("Started:"), n.Timer.Start.Local().Format(time.Kitchen))
	}
	for _, f := range note.Fields() {
		v := strings.TrimSpace(n.Get(f))
		if v == "" {
			continue
		}
		_, _ = fmt.Fprintf(pp.out(), "%s\n", label.Sprint(FieldTitle(f)+":"))
		_, _ = fmt.Fprintln(pp.out(), indent(wordwrap.String(v, pp.width()-2), "  "))
	}
	pp.NewLine()
}

// FieldTitle is the heading used for a note field.
func FieldTitle(f note.Field) string {
	switch f {
	case note.ProjectID:
		return "Project ID"
	case note.AttemptID:
		return "Attempt ID"
	case note.OperationID:
		return "Operation ID"
	case note.FailingIssues:
		return "Failing Issues"
	case note.NonFailingIssues:
		return "Non-Failing Issues"
	case note.Discussion:
		return "Discussion"
	}
	return string(f)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// Timers prints every category in display order.
func (pp *PrettyPrint) Timers(records map[timer.Category]timer.Record) {
	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, c := range timer.Categories() {
		rec := records[c]
		state := pp.style(color.Faint).Sprint("stopped")
		if rec.IsRunning() {
			state = pp.style(color.FgHiYellow, color.Bold).Sprint("running")
		}
		tbl.AddRow(c.Title(), timefmt.FormatSeconds(rec.CurrentSeconds(now)), state)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Totals prints the on-platform, off-platform and overall time of a day.
func (pp *PrettyPrint) Totals(on, off int64) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("On platform", timefmt.FormatSeconds(on))
	tbl.AddRow("Off platform", timefmt.FormatSeconds(off))
	tbl.AddRow(pp.style(color.Bold).Sprint("Total"), pp.style(color.Bold).Sprint(timefmt.FormatSeconds(on+off)))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}
