// Package mcp serves the worklog over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/controller"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

var (
	// ErrNoteNotFound is returned when a note number does not exist on the day.
	ErrNoteNotFound = errors.New("note not found")
	// ErrNoteCompleted is returned when a completed note is written to.
	ErrNoteCompleted = errors.New("note is completed")
)

// DayView is one day with its notes, timers and totals.
type DayView struct {
	Date               string               `json:"date"`
	Notes              []printers.NoteView  `json:"notes"`
	Timers             []printers.TimerView `json:"timers"`
	OnPlatformSeconds  int64                `json:"onPlatformSeconds"`
	OffPlatformSeconds int64                `json:"offPlatformSeconds"`
}

// Service serializes tool calls onto one app.Service. Every call reloads the
// day it acts on, so edits made by other worklog invocations are seen.
type Service struct {
	mu   sync.Mutex
	app  *app.Service
	home string
}

// NewService wraps a started app.Service. Calls without a date act on the
// day the service was started on.
func NewService(a *app.Service) *Service {
	return &Service{app: a, home: a.Date()}
}

// use loads date, or the home day when date is empty.
func (s *Service) use(date string) error {
	d := s.home
	if date != "" {
		var err error
		if d, err = timefmt.ParseDate(date); err != nil {
			return err
		}
	}
	s.app.SetDate(d)
	return nil
}

func (s *Service) day() DayView {
	a := s.app
	now := a.Now()
	return DayView{
		Date:               a.Date(),
		Notes:              printers.ViewNotes(a.Notes.NotesForCurrentDate(), now),
		Timers:             printers.ViewTimers(a.Timers.Records(""), now),
		OnPlatformSeconds:  a.Timers.TotalOnPlatformSeconds(a.Notes),
		OffPlatformSeconds: a.Timers.TotalOffPlatformSeconds(""),
	}
}

func (s *Service) find(number int) (*note.Note, error) {
	n := s.app.Notes.Note(number, "")
	if n == nil {
		return nil, fmt.Errorf("%w: %s #%d", ErrNoteNotFound, s.app.Date(), number)
	}
	return n, nil
}

// Day returns the notes and timers of date.
func (s *Service) Day(ctx context.Context, date string) (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(date); err != nil {
		return DayView{}, err
	}
	return s.day(), ctx.Err()
}

// GetNote returns one note of date.
func (s *Service) GetNote(ctx context.Context, date string, number int) (printers.NoteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(date); err != nil {
		return printers.NoteView{}, err
	}
	n, err := s.find(number)
	if err != nil {
		return printers.NoteView{}, err
	}
	return printers.ViewNote(n, s.app.Now()), ctx.Err()
}

// SetField writes a field of an open note.
func (s *Service) SetField(ctx context.Context, date string, number int, field, value string) (printers.NoteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := note.ParseField(field)
	if err != nil {
		return printers.NoteView{}, err
	}
	if err := s.use(date); err != nil {
		return printers.NoteView{}, err
	}
	n, err := s.find(number)
	if err != nil {
		return printers.NoteView{}, err
	}
	if n.Completed {
		return printers.NoteView{}, fmt.Errorf("%w: #%d", ErrNoteCompleted, number)
	}
	s.app.Notes.SetField(number, f, value)
	return printers.ViewNote(n, s.app.Now()), ctx.Err()
}

// CompleteNote completes, or cancels, a note. The day's next blank note is
// returned with it.
func (s *Service) CompleteNote(ctx context.Context, date string, number int, canceled bool) (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(date); err != nil {
		return DayView{}, err
	}
	if _, err := s.find(number); err != nil {
		return DayView{}, err
	}
	s.app.Notes.CompleteNoteEditing(number, canceled)
	return s.day(), ctx.Err()
}

// ReopenNote reopens a completed note and resumes its timer.
func (s *Service) ReopenNote(ctx context.Context, date string, number int) (printers.NoteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.use(date); err != nil {
		return printers.NoteView{}, err
	}
	n, err := s.find(number)
	if err != nil {
		return printers.NoteView{}, err
	}
	if !s.app.Notes.EnableNoteEditing(number) {
		return printers.NoteView{}, fmt.Errorf("note #%d is not completed", number)
	}
	return printers.ViewNote(n, s.app.Now()), ctx.Err()
}

// Search finds notes on every day.
func (s *Service) Search(ctx context.Context, query string) ([]printers.NoteView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results := s.app.Search.Search(ctx, query)
	s.app.Search.Clear()
	return printers.ViewRecords(results, s.app.Now()), ctx.Err()
}

// StartTimer starts a category timer on the current day, stopping the one
// that was running.
func (s *Service) StartTimer(ctx context.Context, category string) ([]printers.TimerView, error) {
	return s.timer(ctx, category, s.app.Timers.StartTimer)
}

// StopTimer stops a category timer on the current day.
func (s *Service) StopTimer(ctx context.Context, category string) ([]printers.TimerView, error) {
	return s.timer(ctx, category, s.app.Timers.StopTimer)
}

func (s *Service) timer(ctx context.Context, category string, fn func(timer.Category, string) (timer.Record, error)) ([]printers.TimerView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := timer.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	if err := s.use(""); err != nil {
		return nil, err
	}
	if _, err := fn(c, ""); err != nil {
		return nil, err
	}
	return printers.ViewTimers(s.app.Timers.Records(""), s.app.Now()), ctx.Err()
}

// Stats returns the statistics of date, or of the current day.
func (s *Service) Stats(ctx context.Context, date string) (controller.DayStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if date == "" {
		date = s.home
	} else if _, err := timefmt.ParseDate(date); err != nil {
		return controller.DayStats{}, err
	}
	return s.app.Stats.ForDate(ctx, date), ctx.Err()
}

// Summary returns the statistics of a window such as 1w.
func (s *Service) Summary(ctx context.Context, window string) (controller.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := timefmt.ParseWindow(window, s.app.Now())
	if err != nil {
		return controller.Summary{}, err
	}
	return s.app.Stats.ForWindow(ctx, w), ctx.Err()
}
