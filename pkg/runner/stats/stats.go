// Package stats prints statistics for a day or a window of days.
package stats

import (
	"context"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/timefmt"
)

// Stats summarizes the session day, or the days of Window when set.
type Stats struct {
	Service *app.Service
	Window  string
	JSON    bool
	Out     io.Writer
}

func (s *Stats) Do(ctx context.Context) error {
	w := s.Out
	if w == nil {
		w = color.Output
	}
	pp := printers.PrettyPrint{Out: s.Out, Now: s.Service.Now()}

	if s.Window == "" {
		st := s.Service.Stats.ForDate(ctx, s.Service.Date())
		if s.JSON {
			return printers.JSON(w, st)
		}
		pp.DayStats(st)
		return nil
	}

	win, err := timefmt.ParseWindow(s.Window, s.Service.Now())
	if err != nil {
		return err
	}
	sum := s.Service.Stats.ForWindow(ctx, win)
	if s.JSON {
		return printers.JSON(w, sum)
	}
	pp.Summary(sum)
	return ctx.Err()
}
