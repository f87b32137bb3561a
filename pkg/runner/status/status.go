// Package status prints the session day at a glance and can keep
// redrawing it as the store and running timers change.
package status

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/controller"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/store"
)

// Watcher streams store changes.
type Watcher interface {
	Watch(ctx context.Context) (<-chan store.Event, error)
}

// Status draws notes, timers and totals of the session day.
type Status struct {
	Service *app.Service
	// Watcher is only used with Follow.
	Watcher Watcher
	Follow  bool
	// Refresh is how often running note timers are redrawn while
	// following. Zero means once a second.
	Refresh time.Duration
	Out     io.Writer
}

func (s *Status) out() io.Writer {
	if s.Out == nil {
		return color.Output
	}
	return s.Out
}

func (s *Status) draw() {
	svc := s.Service
	w := s.out()
	if s.Follow && printers.Interactive(w) {
		_, _ = fmt.Fprint(w, "\x1b[H\x1b[2J")
	}
	pp := printers.PrettyPrint{Out: s.Out, Now: svc.Now()}
	notes := svc.Notes.NotesForCurrentDate()
	pp.TitleWithCount(svc.Date(), len(notes), "note")
	pp.Notes(notes...)
	pp.Timers(svc.Timers.Records(""))
	pp.NewLine()
	pp.Totals(svc.Timers.TotalOnPlatformSeconds(svc.Notes), svc.Timers.TotalOffPlatformSeconds(""))
}

func anyRunning(notes []*note.Note) bool {
	for _, n := range notes {
		if n.Timer.IsRunning() {
			return true
		}
	}
	return false
}

func (s *Status) Do(ctx context.Context) error {
	s.draw()
	if !s.Follow {
		return nil
	}

	var changes <-chan store.Event
	if s.Watcher != nil {
		ch, err := s.Watcher.Watch(ctx)
		if err != nil {
			return err
		}
		changes = ch
	}

	ticks := make(chan struct{}, 1)
	unsubscribe := s.Service.Timers.TimerUpdated.Subscribe(func(e controller.TimerEvent) {
		if !e.IsLiveUpdate {
			return
		}
		select {
		case ticks <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	refresh := s.Refresh
	if refresh <= 0 {
		refresh = time.Second
	}
	clock := time.NewTicker(refresh)
	defer clock.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			s.Service.Load()
			s.draw()
		case <-ticks:
			s.draw()
		case <-clock.C:
			if anyRunning(s.Service.Notes.NotesForCurrentDate()) {
				s.draw()
			}
		}
	}
}
