package controller

import (
	"sync"
	"time"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/state"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

// TimerEvent describes a category timer after a change or a live tick.
type TimerEvent struct {
	Category timer.Category
	Date     string
	Seconds  int64
	Running  bool
	// IsLiveUpdate marks periodic ticks. Those are never persisted.
	IsLiveUpdate bool
}

// TotalTimeEvent carries the off-platform total of a day after a change.
type TotalTimeEvent struct {
	Date               string
	OffPlatformSeconds int64
}

// NoteSource supplies the notes whose timers count as on-platform time.
type NoteSource interface {
	NotesForCurrentDate() []*note.Note
}

// TimerController runs the off-platform category timers. At most one
// category runs per day: starting one stops the others first.
type TimerController struct {
	mu    sync.Mutex
	state *state.TimerState
	repo  *repository.TimerRepository
	opts  options

	currentDate string

	TimerStarted     event.Emitter[TimerEvent]
	TimerStopped     event.Emitter[TimerEvent]
	TimerUpdated     event.Emitter[TimerEvent]
	TotalTimeChanged event.Emitter[TotalTimeEvent]
}

// NewTimerController returns a controller acting on date. An empty date
// means today.
func NewTimerController(st *state.TimerState, repo *repository.TimerRepository, date string, opts ...Option) *TimerController {
	c := &TimerController{
		state: st,
		repo:  repo,
		opts:  buildOptions(opts),
	}
	c.currentDate = date
	if c.currentDate == "" {
		c.currentDate = timefmt.Today(c.opts.now())
	}
	label(&c.TimerStarted, "timerStarted", c.opts.log)
	label(&c.TimerStopped, "timerStopped", c.opts.log)
	label(&c.TimerUpdated, "timerUpdated", c.opts.log)
	label(&c.TotalTimeChanged, "totalTimeChanged", c.opts.log)
	return c
}

// CurrentDate is the day that date-less operations act on.
func (c *TimerController) CurrentDate() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentDate
}

// SetCurrentDate switches the day that date-less operations act on. Live
// updates of other days stop; their running timers keep accruing in storage.
func (c *TimerController) SetCurrentDate(date string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentDate = date
	for _, k := range c.state.Intervals() {
		if k.Date != date {
			c.state.StopInterval(k)
		}
	}
}

func (c *TimerController) dateOrCurrent(date string) string {
	if date == "" {
		return c.currentDate
	}
	return date
}

// record returns the live record for k, loading it from storage the first
// time. Callers hold c.mu.
func (c *TimerController) record(k timer.Key) timer.Record {
	if rec, ok := c.state.Get(k); ok {
		return rec
	}
	rec := c.repo.Load(k.Date, k.Category)
	c.state.Set(k, rec)
	return rec
}

// put stores rec in state and storage. Callers hold c.mu.
func (c *TimerController) put(k timer.Key, rec timer.Record) {
	c.state.Set(k, rec)
	c.repo.Save(k.Date, k.Category, rec)
}

func (c *TimerController) eventFor(k timer.Key, rec timer.Record, now time.Time) TimerEvent {
	return TimerEvent{
		Category: k.Category,
		Date:     k.Date,
		Seconds:  rec.CurrentSeconds(now),
		Running:  rec.IsRunning(),
	}
}

// LoadTimerStateForDate reads every category of date from storage and
// resumes live updates for the running ones.
func (c *TimerController) LoadTimerStateForDate(date string) map[timer.Category]timer.Record {
	c.mu.Lock()
	date = c.dateOrCurrent(date)
	now := c.opts.now()
	out := make(map[timer.Category]timer.Record)
	var updates []TimerEvent
	for _, cat := range timer.Categories() {
		k := timer.Key{Date: date, Category: cat}
		rec := c.repo.Load(date, cat)
		c.state.Set(k, rec)
		out[cat] = rec
		if rec.IsRunning() {
			c.startTicking(k)
		} else {
			c.state.StopInterval(k)
		}
		updates = append(updates, c.eventFor(k, rec, now))
	}
	c.mu.Unlock()

	for _, ev := range updates {
		c.TimerUpdated.Emit(ev)
	}
	c.emitTotal(date)
	return out
}

// StartTimer starts category on date, stopping any other running category of
// that day first. Accumulated time is kept.
func (c *TimerController) StartTimer(category timer.Category, date string) (timer.Record, error) {
	if !category.Valid() {
		return timer.Record{}, timer.ErrUnknownCategory
	}
	c.mu.Lock()
	date = c.dateOrCurrent(date)
	now := c.opts.now()

	var stopped []TimerEvent
	for _, other := range timer.Categories() {
		if other == category {
			continue
		}
		k := timer.Key{Date: date, Category: other}
		rec := c.record(k)
		if !rec.IsRunning() {
			continue
		}
		rec = rec.Stopped(now)
		c.put(k, rec)
		c.state.StopInterval(k)
		stopped = append(stopped, c.eventFor(k, rec, now))
	}

	k := timer.Key{Date: date, Category: category}
	rec := c.record(k)
	wasRunning := rec.IsRunning()
	rec = rec.Started(now)
	if !wasRunning {
		c.put(k, rec)
	}
	c.startTicking(k)
	started := c.eventFor(k, rec, now)
	c.mu.Unlock()

	for _, ev := range stopped {
		c.TimerStopped.Emit(ev)
	}
	if !wasRunning {
		c.TimerStarted.Emit(started)
	}
	if len(stopped) > 0 || !wasRunning {
		c.emitTotal(date)
	}
	return rec, nil
}

// StopTimer stops category on date, adding the open interval to its total.
// Stopping a stopped timer returns it unchanged and writes nothing.
func (c *TimerController) StopTimer(category timer.Category, date string) (timer.Record, error) {
	if !category.Valid() {
		return timer.Record{}, timer.ErrUnknownCategory
	}
	c.mu.Lock()
	date = c.dateOrCurrent(date)
	k := timer.Key{Date: date, Category: category}
	rec := c.record(k)
	if !rec.IsRunning() {
		c.mu.Unlock()
		return rec, nil
	}
	now := c.opts.now()
	rec = rec.Stopped(now)
	c.put(k, rec)
	c.state.StopInterval(k)
	ev := c.eventFor(k, rec, now)
	c.mu.Unlock()

	c.TimerStopped.Emit(ev)
	c.emitTotal(date)
	return rec, nil
}

// EditTimer sets the total of category on date to hours:minutes:seconds. A
// running timer keeps running from the new baseline.
func (c *TimerController) EditTimer(category timer.Category, hms timefmt.HMS, date string) (timer.Record, error) {
	if !category.Valid() {
		return timer.Record{}, timer.ErrUnknownCategory
	}
	c.mu.Lock()
	date = c.dateOrCurrent(date)
	now := c.opts.now()
	k := timer.Key{Date: date, Category: category}
	rec := c.record(k).Edited(hms.Total(), now)
	c.put(k, rec)
	ev := c.eventFor(k, rec, now)
	c.mu.Unlock()

	c.TimerUpdated.Emit(ev)
	c.emitTotal(date)
	return rec, nil
}

// StopAllTimers stops every running category of date and returns them.
func (c *TimerController) StopAllTimers(date string) []timer.Category {
	date = c.resolve(date)
	var stopped []timer.Category
	for _, cat := range c.RunningTimers(date) {
		if _, err := c.StopTimer(cat, date); err == nil {
			stopped = append(stopped, cat)
		}
	}
	return stopped
}

// startTicking publishes a live TimerUpdated for k every tick interval.
// Callers hold c.mu.
func (c *TimerController) startTicking(k timer.Key) {
	if c.opts.tick <= 0 || c.state.HasInterval(k) {
		return
	}
	c.state.StartInterval(k, c.opts.tick, func() {
		rec, ok := c.state.Get(k)
		if !ok || !rec.IsRunning() {
			return
		}
		ev := c.eventFor(k, rec, c.opts.now())
		ev.IsLiveUpdate = true
		c.TimerUpdated.Emit(ev)
	})
}

func (c *TimerController) emitTotal(date string) {
	c.TotalTimeChanged.Emit(TotalTimeEvent{
		Date:               date,
		OffPlatformSeconds: c.TotalOffPlatformSeconds(date),
	})
}

func (c *TimerController) resolve(date string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dateOrCurrent(date)
}

func (c *TimerController) peek(category timer.Category, date string) timer.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record(timer.Key{Date: c.dateOrCurrent(date), Category: category})
}

// Records returns every category of date as currently held.
func (c *TimerController) Records(date string) map[timer.Category]timer.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	date = c.dateOrCurrent(date)
	out := make(map[timer.Category]timer.Record, len(timer.Categories()))
	for _, cat := range timer.Categories() {
		out[cat] = c.record(timer.Key{Date: date, Category: cat})
	}
	return out
}

// CurrentSeconds is the total of category plus its open interval, in whole
// seconds. Unknown categories read zero.
func (c *TimerController) CurrentSeconds(category timer.Category, date string) int64 {
	if !category.Valid() {
		return 0
	}
	return c.peek(category, date).CurrentSeconds(c.opts.now())
}

// IsTimerRunning reports whether category runs on date.
func (c *TimerController) IsTimerRunning(category timer.Category, date string) bool {
	if !category.Valid() {
		return false
	}
	return c.peek(category, date).IsRunning()
}

// RunningTimers lists the running categories of date.
func (c *TimerController) RunningTimers(date string) []timer.Category {
	var out []timer.Category
	for _, cat := range timer.Categories() {
		if c.IsTimerRunning(cat, date) {
			out = append(out, cat)
		}
	}
	return out
}

// TotalOffPlatformSeconds sums every category of date.
func (c *TimerController) TotalOffPlatformSeconds(date string) int64 {
	var total int64
	for _, cat := range timer.Categories() {
		total += c.CurrentSeconds(cat, date)
	}
	return total
}

// TotalOnPlatformSeconds sums the note timers of the current day of notes.
func (c *TimerController) TotalOnPlatformSeconds(notes NoteSource) int64 {
	if notes == nil {
		return 0
	}
	now := c.opts.now()
	var total int64
	for _, n := range notes.NotesForCurrentDate() {
		total += n.ElapsedSeconds(now)
	}
	return total
}

// TotalSeconds is on-platform plus off-platform time.
func (c *TimerController) TotalSeconds(notes NoteSource, date string) int64 {
	return c.TotalOnPlatformSeconds(notes) + c.TotalOffPlatformSeconds(date)
}

// Cleanup stops every live update interval.
func (c *TimerController) Cleanup() {
	c.state.Cleanup()
}
