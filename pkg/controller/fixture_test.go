package controller

import (
	"sync"
	"time"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/state"
	"tableflip.dev/worklog/pkg/store"
)

const day = "2024-03-05"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	mem    *store.Memory
	writes *store.Writes
	clock  *fakeClock
	log    *logging.Recorder

	notesRepo  *repository.NotesRepository
	timersRepo *repository.TimerRepository
	search     *SearchController
	notes      *NoteController
	timers     *TimerController
}

func newFixture(seed map[string]string, opts ...Option) *fixture {
	f := &fixture{
		mem:   store.NewMemory(seed),
		clock: newClock(),
		log:   &logging.Recorder{},
	}
	f.writes = store.Counting(f.mem)
	f.notesRepo = repository.NewNotesRepository(f.writes, f.log)
	f.timersRepo = repository.NewTimerRepository(f.writes, f.log)

	base := []Option{WithClock(f.clock.Now), WithLogger(f.log), WithTickInterval(0)}
	base = append(base, opts...)

	f.search = NewSearchController(f.notesRepo, base...)
	f.notes = NewNoteController(state.NewNotesState(f.log), f.notesRepo, day, append(base, WithSearch(f.search))...)
	f.timers = NewTimerController(state.NewTimerState(f.log), f.timersRepo, day, base...)
	return f
}
