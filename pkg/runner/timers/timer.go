// Package timers runs the off-platform timer commands.
package timers

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

func out(w io.Writer) io.Writer {
	if w == nil {
		return color.Output
	}
	return w
}

// Start starts a category, stopping whichever other one was running.
type Start struct {
	Service  *app.Service
	Category timer.Category
	Out      io.Writer
}

func (s *Start) Do(_ context.Context) error {
	before := s.Service.Timers.RunningTimers("")
	if _, err := s.Service.Timers.StartTimer(s.Category, ""); err != nil {
		return err
	}
	for _, c := range before {
		if c != s.Category {
			_, _ = fmt.Fprintf(out(s.Out), "%s stopped at %s\n", c.Title(),
				timefmt.FormatSeconds(s.Service.Timers.CurrentSeconds(c, "")))
		}
	}
	_, _ = fmt.Fprintf(out(s.Out), "%s running, %s so far\n", s.Category.Title(),
		timefmt.FormatSeconds(s.Service.Timers.CurrentSeconds(s.Category, "")))
	return nil
}

// Stop stops a category. Stopping a stopped timer changes nothing.
type Stop struct {
	Service  *app.Service
	Category timer.Category
	Out      io.Writer
}

func (s *Stop) Do(_ context.Context) error {
	rec, err := s.Service.Timers.StopTimer(s.Category, "")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out(s.Out), "%s stopped at %s\n", s.Category.Title(), timefmt.FormatSeconds(rec.TotalTime))
	return nil
}

// Edit overwrites the total of a category.
type Edit struct {
	Service  *app.Service
	Category timer.Category
	Value    string
	Out      io.Writer
}

func (e *Edit) Do(_ context.Context) error {
	hms, err := timefmt.ParseClock(e.Value)
	if err != nil {
		return err
	}
	rec, err := e.Service.Timers.EditTimer(e.Category, hms, "")
	if err != nil {
		return err
	}
	state := "stopped"
	if rec.IsRunning() {
		state = "running"
	}
	_, _ = fmt.Fprintf(out(e.Out), "%s set to %s (%s)\n", e.Category.Title(), hms, state)
	return nil
}

// Status prints every category of the session day.
type Status struct {
	Service *app.Service
	JSON    bool
	Out     io.Writer
}

func (s *Status) Do(_ context.Context) error {
	svc := s.Service
	records := svc.Timers.Records("")
	if s.JSON {
		return printers.JSON(out(s.Out), printers.ViewTimers(records, svc.Now()))
	}
	pp := printers.PrettyPrint{Out: s.Out, Now: svc.Now()}
	pp.Title(svc.Date())
	pp.Timers(records)
	return nil
}
