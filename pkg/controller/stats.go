package controller

import (
	"context"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

// DayStats summarizes the stored notes and timers of one day.
type DayStats struct {
	Date       string `json:"date,omitempty"`
	Notes      int    `json:"notes"`
	Completed  int    `json:"completed"`
	Canceled   int    `json:"canceled"`
	InProgress int    `json:"inProgress"`

	OnPlatformSeconds  int64                    `json:"onPlatformSeconds"`
	OffPlatform        map[timer.Category]int64 `json:"offPlatform"`
	OffPlatformSeconds int64                    `json:"offPlatformSeconds"`
	TotalSeconds       int64                    `json:"totalSeconds"`
}

// Empty reports whether the day has neither notes nor timed work.
func (d DayStats) Empty() bool {
	return d.Notes == 0 && d.TotalSeconds == 0
}

func (d *DayStats) add(o DayStats) {
	d.Notes += o.Notes
	d.Completed += o.Completed
	d.Canceled += o.Canceled
	d.InProgress += o.InProgress
	d.OnPlatformSeconds += o.OnPlatformSeconds
	d.OffPlatformSeconds += o.OffPlatformSeconds
	d.TotalSeconds += o.TotalSeconds
	if d.OffPlatform == nil {
		d.OffPlatform = make(map[timer.Category]int64)
	}
	for c, v := range o.OffPlatform {
		d.OffPlatform[c] += v
	}
}

// Summary is the statistics of a window of days.
type Summary struct {
	Window timefmt.Window `json:"window"`
	// Days holds the non-empty days, oldest first.
	Days  []DayStats `json:"days"`
	Total DayStats   `json:"total"`
}

// StatisticsController computes statistics from stored data only.
type StatisticsController struct {
	notes  *repository.NotesRepository
	timers *repository.TimerRepository
	opts   options
}

// NewStatisticsController returns a controller over the repositories.
func NewStatisticsController(notes *repository.NotesRepository, timers *repository.TimerRepository, opts ...Option) *StatisticsController {
	return &StatisticsController{notes: notes, timers: timers, opts: buildOptions(opts)}
}

// ForDate summarizes one day. Running timers are read at the current time.
func (s *StatisticsController) ForDate(_ context.Context, date string) DayStats {
	now := s.opts.now()
	st := DayStats{Date: date, OffPlatform: make(map[timer.Category]int64)}
	for n, rec := range s.notes.Load(date) {
		nt := note.FromRecord(date, n, rec)
		st.Notes++
		switch {
		case nt.Canceled:
			st.Canceled++
		case nt.Completed:
			st.Completed++
		case nt.IsInProgress():
			st.InProgress++
		}
		st.OnPlatformSeconds += nt.ElapsedSeconds(now)
	}
	for c, rec := range s.timers.LoadAll(date) {
		secs := rec.CurrentSeconds(now)
		st.OffPlatform[c] = secs
		st.OffPlatformSeconds += secs
	}
	st.TotalSeconds = st.OnPlatformSeconds + st.OffPlatformSeconds
	return st
}

// ForWindow summarizes every day of w.
func (s *StatisticsController) ForWindow(ctx context.Context, w timefmt.Window) Summary {
	sum := Summary{Window: w, Total: DayStats{OffPlatform: make(map[timer.Category]int64)}}
	for _, date := range w.Days() {
		if ctx.Err() != nil {
			break
		}
		st := s.ForDate(ctx, date)
		if st.Empty() {
			continue
		}
		sum.Days = append(sum.Days, st)
		sum.Total.add(st)
	}
	return sum
}
