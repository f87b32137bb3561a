// Package app wires the repositories, states and controllers into one
// service that a command drives for a single invocation.
package app

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/worklog/pkg/backup"
	"tableflip.dev/worklog/pkg/controller"
	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/state"
	"tableflip.dev/worklog/pkg/store"
)

var ErrNoStore = errors.New("app: no store configured")

// Options tune a Service. The zero value logs to stderr, reads the wall
// clock and ticks running timers once a second.
type Options struct {
	Log logging.Logger
	Now func() time.Time
	// Tick is the live update period of running timers. Negative disables
	// live updates.
	Tick time.Duration
	// Date overrides the day the configuration reports as today.
	Date string
}

// Service owns every collaborator of one session.
type Service struct {
	KV  store.KV
	Log logging.Logger

	NotesRepo  *repository.NotesRepository
	TimersRepo *repository.TimerRepository
	NotesState *state.NotesState
	TimerState *state.TimerState

	Notes  *controller.NoteController
	Timers *controller.TimerController
	Search *controller.SearchController
	Stats  *controller.StatisticsController
	Backup *backup.Client

	now func() time.Time
}

// New builds a Service acting on o.Date, or on the day cfg reports as today.
func New(cfg store.Config, kv store.KV, o Options) (*Service, error) {
	if kv == nil {
		return nil, ErrNoStore
	}
	log := logging.OrDefault(o.Log)
	if d, ok := kv.(interface{ SetLogger(logging.Logger) }); ok {
		d.SetLogger(log)
	}
	now := o.Now
	if now == nil {
		now = time.Now
	}
	tick := o.Tick
	switch {
	case tick == 0:
		tick = time.Second
	case tick < 0:
		tick = 0
	}

	s := &Service{
		KV:         kv,
		Log:        log,
		NotesRepo:  repository.NewNotesRepository(kv, log),
		TimersRepo: repository.NewTimerRepository(kv, log),
		NotesState: state.NewNotesState(log),
		TimerState: state.NewTimerState(log),
		Backup:     &backup.Client{},
		now:        now,
	}
	date := o.Date
	if cfg != nil {
		if date == "" {
			date = cfg.Today()
		}
		s.Backup.URL = cfg.BackupURL()
	}

	opts := []controller.Option{
		controller.WithClock(now),
		controller.WithLogger(log),
		controller.WithTickInterval(tick),
	}
	s.Search = controller.NewSearchController(s.NotesRepo, opts...)
	s.Notes = controller.NewNoteController(s.NotesState, s.NotesRepo, date,
		append(opts, controller.WithSearch(s.Search))...)
	s.Timers = controller.NewTimerController(s.TimerState, s.TimersRepo, date, opts...)
	s.Stats = controller.NewStatisticsController(s.NotesRepo, s.TimersRepo, opts...)
	return s, nil
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}

// Date is the day the session acts on.
func (s *Service) Date() string {
	return s.Notes.CurrentDate()
}

// SetDate moves the session to another day and loads it.
func (s *Service) SetDate(date string) {
	s.Notes.SetCurrentDate(date)
	s.Timers.SetCurrentDate(date)
	s.Load()
}

// Start repairs corrupt records across the store once, then loads the
// current day. It returns how many records were dropped.
func (s *Service) Start(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	dropped := s.NotesRepo.RepairAll(ctx)
	if dropped > 0 {
		s.Log.Printf("app: dropped %d corrupt note records", dropped)
	}
	s.Load()
	return dropped, ctx.Err()
}

// Load reads the current day into memory.
func (s *Service) Load() {
	s.Notes.LoadNotesForDate("")
	s.Timers.LoadTimerStateForDate("")
}

// SendBackup takes a snapshot of the store and sends it.
func (s *Service) SendBackup(ctx context.Context) (backup.Snapshot, error) {
	snap, err := backup.Take(ctx, s.KV, s.now())
	if err != nil {
		return backup.Snapshot{}, err
	}
	return snap, s.Backup.Send(ctx, snap)
}

// Close stops every live update.
func (s *Service) Close() {
	s.Timers.Cleanup()
}
