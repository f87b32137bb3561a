// Package notes runs the note commands against a started session.
package notes

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/timefmt"
)

var (
	ErrNotFound  = errors.New("note not found")
	ErrCompleted = errors.New("note is completed")
	ErrOpen      = errors.New("note is not completed")
)

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

func find(s *app.Service, number int) (*note.Note, error) {
	n := s.Notes.Note(number, "")
	if n == nil {
		return nil, fmt.Errorf("%w: %s #%d", ErrNotFound, s.Date(), number)
	}
	return n, nil
}

// List prints the notes of the session day with its time totals.
type List struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (l *List) Do(ctx context.Context) error {
	s := l.Service
	now := s.Now()
	notes := s.Notes.NotesForCurrentDate()
	if l.JSON {
		return printers.JSON(out(l.Out), printers.ViewNotes(notes, now))
	}
	pp := printers.PrettyPrint{Out: l.Out, Now: now}
	pp.TitleWithCount(s.Date(), len(notes), "note")
	pp.Notes(notes...)
	pp.Totals(s.Timers.TotalOnPlatformSeconds(s.Notes), s.Timers.TotalOffPlatformSeconds(""))
	return ctx.Err()
}

// Show prints one note in full.
type Show struct {
	Service *app.Service
	Number  int
	JSON    bool
	Out     io.Writer
}

func (sh *Show) Do(_ context.Context) error {
	n, err := find(sh.Service, sh.Number)
	if err != nil {
		return err
	}
	if sh.JSON {
		return printers.JSON(out(sh.Out), printers.ViewNote(n, sh.Service.Now()))
	}
	pp := printers.PrettyPrint{Out: sh.Out, Now: sh.Service.Now()}
	pp.NoteDetail(n)
	return nil
}

// Set writes one field of an open note. The first content starts its timer.
type Set struct {
	Service *app.Service
	Number  int
	Field   note.Field
	Value   string
	Out     io.Writer
}

func (st *Set) Do(_ context.Context) error {
	n, err := find(st.Service, st.Number)
	if err != nil {
		return err
	}
	if n.Completed {
		return fmt.Errorf("%w: run `worklog note edit %d` first", ErrCompleted, st.Number)
	}
	if !st.Service.Notes.SetField(st.Number, st.Field, st.Value) {
		return fmt.Errorf("unable to set %s on note %d", st.Field, st.Number)
	}
	_, _ = fmt.Fprintf(out(st.Out), "note %s: %s updated\n", n.DisplayLabel(), printers.FieldTitle(st.Field))
	return nil
}

// Edit reopens a completed note and resumes its timer.
type Edit struct {
	Service *app.Service
	Number  int
	Out     io.Writer
}

func (e *Edit) Do(_ context.Context) error {
	n, err := find(e.Service, e.Number)
	if err != nil {
		return err
	}
	if !e.Service.Notes.EnableNoteEditing(e.Number) {
		return fmt.Errorf("%w: %s #%d", ErrOpen, n.Date, n.Number)
	}
	_, _ = fmt.Fprintf(out(e.Out), "note %s reopened\n", n.DisplayLabel())
	return nil
}

// Complete saves a note, optionally canceling it.
type Complete struct {
	Service *app.Service
	Number  int
	Cancel  bool
	Out     io.Writer
}

func (c *Complete) Do(_ context.Context) error {
	n, err := find(c.Service, c.Number)
	if err != nil {
		return err
	}
	if !c.Service.Notes.CompleteNoteEditing(c.Number, c.Cancel) {
		return fmt.Errorf("unable to complete note %d", c.Number)
	}
	verb := "completed"
	if n.Canceled {
		verb = "canceled"
	}
	_, _ = fmt.Fprintf(out(c.Out), "note %d %s in %s\n", c.Number, verb,
		timefmt.FormatSeconds(n.ElapsedSeconds(c.Service.Now())))
	return nil
}

// Delete removes a note after confirmation and renumbers the day.
type Delete struct {
	Service *app.Service
	Number  int
	// Confirm is asked before deleting. Nil deletes without asking.
	Confirm func(label string) (bool, error)
	Out     io.Writer
}

func (d *Delete) Do(_ context.Context) error {
	n, err := find(d.Service, d.Number)
	if err != nil {
		return err
	}
	if d.Confirm != nil {
		ok, err := d.Confirm(fmt.Sprintf("Delete note %s (#%d) of %s", n.DisplayLabel(), n.Number, n.Date))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out(d.Out), "nothing deleted")
			return nil
		}
	}
	if !d.Service.Notes.DeleteNote(d.Number) {
		return fmt.Errorf("unable to delete note %d", d.Number)
	}
	_, _ = fmt.Fprintf(out(d.Out), "note %d deleted\n", d.Number)
	return nil
}

// Time sets the reading of a note timer.
type Time struct {
	Service *app.Service
	Number  int
	Value   string
	Out     io.Writer
}

func (t *Time) Do(_ context.Context) error {
	hms, err := timefmt.ParseClock(t.Value)
	if err != nil {
		return err
	}
	if _, err := find(t.Service, t.Number); err != nil {
		return err
	}
	if !t.Service.Notes.EditNoteTimer(t.Number, hms) {
		return fmt.Errorf("unable to set the time of note %d", t.Number)
	}
	_, _ = fmt.Fprintf(out(t.Out), "note %d time set to %s\n", t.Number, hms)
	return nil
}

// Copy puts the plain text summary of a note on the clipboard.
type Copy struct {
	Service *app.Service
	Number  int
	// Write replaces the system clipboard.
	Write func(string) error
	Out   io.Writer
}

func (c *Copy) Do(_ context.Context) error {
	n, err := find(c.Service, c.Number)
	if err != nil {
		return err
	}
	write := c.Write
	if write == nil {
		write = clipboard.WriteAll
	}
	if err := write(n.Summary(c.Service.Now())); err != nil {
		return fmt.Errorf("copy note %d: %w", c.Number, err)
	}
	_, _ = fmt.Fprintf(out(c.Out), "note %s copied\n", n.DisplayLabel())
	return nil
}
