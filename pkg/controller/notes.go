package controller

import (
	"sort"
	"strings"
	"time"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/state"
	"tableflip.dev/worklog/pkg/timefmt"
)

// NoteCreatedEvent announces a note registered in state.
type NoteCreatedEvent struct {
	Note *note.Note
	Date string
}

// NoteCompletedEvent announces a saved note.
type NoteCompletedEvent struct {
	Note     *note.Note
	Canceled bool
}

// NoteDeletedEvent announces a deleted note.
type NoteDeletedEvent struct {
	Number int
	Date   string
}

// NoteEditedEvent announces a note whose editing was re-enabled, or whose
// content or timer changed.
type NoteEditedEvent struct {
	Note *note.Note
}

// NotesClearingEvent precedes a full reload of a day. Views drop what they
// show for Date before the NoteCreated events of the reload arrive.
type NotesClearingEvent struct {
	Date string
}

// DisplayRefreshedEvent carries the label of every note of a day after the
// display indices were recomputed.
type DisplayRefreshedEvent struct {
	Date   string
	Labels map[int]string
}

// NoteController owns the note lifecycle and is the only writer of note
// storage. It is not safe for concurrent use.
type NoteController struct {
	state *state.NotesState
	repo  *repository.NotesRepository
	opts  options

	currentDate string

	NoteCreated      event.Emitter[NoteCreatedEvent]
	NoteCompleted    event.Emitter[NoteCompletedEvent]
	NoteDeleted      event.Emitter[NoteDeletedEvent]
	NoteEdited       event.Emitter[NoteEditedEvent]
	NoteUpdated      event.Emitter[NoteEditedEvent]
	NotesClearing    event.Emitter[NotesClearingEvent]
	DisplayRefreshed event.Emitter[DisplayRefreshedEvent]
}

// NewNoteController returns a controller acting on date. An empty date means
// today.
func NewNoteController(st *state.NotesState, repo *repository.NotesRepository, date string, opts ...Option) *NoteController {
	c := &NoteController{
		state: st,
		repo:  repo,
		opts:  buildOptions(opts),
	}
	c.currentDate = date
	if c.currentDate == "" {
		c.currentDate = timefmt.Today(c.opts.now())
	}
	label(&c.NoteCreated, "noteCreated", c.opts.log)
	label(&c.NoteCompleted, "noteCompleted", c.opts.log)
	label(&c.NoteDeleted, "noteDeleted", c.opts.log)
	label(&c.NoteEdited, "noteEdited", c.opts.log)
	label(&c.NoteUpdated, "noteUpdated", c.opts.log)
	label(&c.NotesClearing, "notesClearing", c.opts.log)
	label(&c.DisplayRefreshed, "displayRefreshed", c.opts.log)
	return c
}

// CurrentDate is the day that date-less operations act on.
func (c *NoteController) CurrentDate() string {
	return c.currentDate
}

// SetCurrentDate switches the day that date-less operations act on.
func (c *NoteController) SetCurrentDate(date string) {
	c.currentDate = date
}

func (c *NoteController) dateOrCurrent(date string) string {
	if date == "" {
		return c.currentDate
	}
	return date
}

// LoadNotesForDate replaces the in-memory notes of date with the stored ones.
// A day without notes gets note 1; a day whose notes are all completed gets a
// fresh note at the next free number.
func (c *NoteController) LoadNotesForDate(date string) []*note.Note {
	date = c.dateOrCurrent(date)
	c.state.ClearDate(date)

	records := c.repo.Load(date)
	numbers := make([]int, 0, len(records))
	for n := range records {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	allCompleted := true
	for _, n := range numbers {
		nt := note.FromRecord(date, n, records[n])
		if !nt.Completed {
			allCompleted = false
		}
		c.register(nt)
	}

	switch {
	case len(numbers) == 0:
		c.CreateNewNote(1, date)
	case allCompleted:
		c.CreateNewNote(c.nextFreeNumber(date), date)
	}
	return c.state.ForDate(date)
}

// CreateNewNote registers a blank note. It is persisted on its first change.
// A note filling a gap below existing numbers shifts their labels, so the day
// is relabelled.
func (c *NoteController) CreateNewNote(number int, date string) *note.Note {
	date = c.dateOrCurrent(date)
	n := note.New(date, number)
	c.register(n)
	if c.hasNoteAbove(date, number) {
		c.RefreshDisplayIndices(date)
	}
	return n
}

func (c *NoteController) hasNoteAbove(date string, number int) bool {
	for _, other := range c.state.ForDate(date) {
		if other.Number > number {
			return true
		}
	}
	return false
}

func (c *NoteController) register(n *note.Note) {
	if !n.Canceled {
		n.DisplayIndex = c.CalculateDisplayIndex(n.Date, n.Number)
	}
	c.state.Add(n)
	c.NoteCreated.Emit(NoteCreatedEvent{Note: n, Date: n.Date})
}

// nextFreeNumber is the smallest number used neither in storage nor in state.
func (c *NoteController) nextFreeNumber(date string) int {
	stored := c.repo.Load(date)
	n := c.repo.NextNumber(date)
	for {
		_, taken := stored[n]
		if !taken && c.state.Get(date, n) == nil {
			return n
		}
		n++
	}
}

// EnableNoteEditing reopens a completed note of the current day and resumes
// its timer. It reports false when the note is missing or not completed.
func (c *NoteController) EnableNoteEditing(number int) bool {
	n := c.state.Get(c.currentDate, number)
	if n == nil || !n.Completed {
		return false
	}
	n.Completed = false
	n.Timer.Restart(c.opts.now())
	c.UpdateNoteInStorage(n)
	c.state.Update(n)
	c.NoteEdited.Emit(NoteEditedEvent{Note: n})
	return true
}

// CompleteNoteEditing saves a note of the current day, stopping its timer.
// Cancellation is sticky: a note canceled once stays canceled. Unless a
// search is active a new blank note is made available afterwards.
func (c *NoteController) CompleteNoteEditing(number int, canceled bool) bool {
	n := c.state.Get(c.currentDate, number)
	if n == nil {
		return false
	}
	wasCanceled := n.Canceled
	n.Completed = true
	n.Canceled = canceled || n.Canceled
	if n.Timer.IsRunning() {
		n.Timer.Stop(c.opts.now())
	}
	c.UpdateNoteInStorage(n)
	c.state.Update(n)
	c.NoteCompleted.Emit(NoteCompletedEvent{Note: n, Canceled: n.Canceled})

	if n.Canceled && !wasCanceled {
		c.RefreshDisplayIndices(n.Date)
	}
	if c.opts.search == nil || !c.opts.search.Active() {
		c.CheckAndCreateNewNote(n.Date)
	}
	return true
}

// CheckAndCreateNewNote creates a blank note for date unless one is already
// available or a note is in progress. It returns the new note, or nil.
func (c *NoteController) CheckAndCreateNewNote(date string) *note.Note {
	date = c.dateOrCurrent(date)
	if c.state.HasEmptyNoteForDate(date) || c.state.HasInProgressNoteForDate(date) {
		return nil
	}
	return c.CreateNewNote(c.nextFreeNumber(date), date)
}

// DeleteNote removes a note of the current day, renumbers the rest densely
// and reloads the day. It reports false when the note does not exist.
func (c *NoteController) DeleteNote(number int) bool {
	date := c.currentDate
	if c.state.Get(date, number) == nil {
		return false
	}
	c.repo.Delete(date, number)
	c.repo.Renumber(date)
	c.state.Remove(date, number)
	c.NoteDeleted.Emit(NoteDeletedEvent{Number: number, Date: date})

	c.NotesClearing.Emit(NotesClearingEvent{Date: date})
	c.LoadNotesForDate(date)
	return true
}

// CalculateDisplayIndex counts the non-canceled notes of date numbered below
// number, plus one.
func (c *NoteController) CalculateDisplayIndex(date string, number int) int {
	idx := 1
	for _, n := range c.state.ForDate(c.dateOrCurrent(date)) {
		if !n.Canceled && n.Number < number {
			idx++
		}
	}
	return idx
}

// RefreshDisplayIndices renumbers the shown ordinals of a day: 1..N over the
// non-canceled notes, CanceledLabel for the rest. Stored numbers are not
// touched.
func (c *NoteController) RefreshDisplayIndices(date string) {
	date = c.dateOrCurrent(date)
	labels := make(map[int]string)
	idx := 0
	for _, n := range c.state.ForDate(date) {
		if n.Canceled {
			n.DisplayIndex = 0
		} else {
			idx++
			n.DisplayIndex = idx
		}
		labels[n.Number] = n.DisplayLabel()
	}
	c.DisplayRefreshed.Emit(DisplayRefreshedEvent{Date: date, Labels: labels})
}

// UpdateNoteInStorage persists the current fields and timer of n.
func (c *NoteController) UpdateNoteInStorage(n *note.Note) bool {
	if n == nil {
		return false
	}
	return c.repo.Save(n.Date, n.Number, n.Record())
}

// SetField writes a content field of an open note of the current day. The
// first non-blank input starts the note timer. It reports false when the
// note is missing or completed.
func (c *NoteController) SetField(number int, f note.Field, value string) bool {
	n := c.state.Get(c.currentDate, number)
	if n == nil || n.Completed {
		return false
	}
	if !n.Set(f, value) {
		return false
	}
	if strings.TrimSpace(value) != "" {
		n.Timer.Begin(c.opts.now())
	}
	c.UpdateNoteInStorage(n)
	c.state.Update(n)
	c.NoteUpdated.Emit(NoteEditedEvent{Note: n})
	return true
}

// EditNoteTimer sets the reading of a note timer on the current day to
// hours:minutes:seconds by adjusting its additional time.
func (c *NoteController) EditNoteTimer(number int, hms timefmt.HMS) bool {
	n := c.state.Get(c.currentDate, number)
	if n == nil {
		return false
	}
	n.Timer.SetTotal(hms.Total(), c.opts.now())
	c.UpdateNoteInStorage(n)
	c.state.Update(n)
	c.NoteUpdated.Emit(NoteEditedEvent{Note: n})
	return true
}

// NotesForCurrentDate returns the notes of the current day by number.
func (c *NoteController) NotesForCurrentDate() []*note.Note {
	return c.state.ForDate(c.currentDate)
}

// AllNotes returns every note held in memory.
func (c *NoteController) AllNotes() []*note.Note {
	return c.state.All()
}

// Note returns a note by number; an empty date means the current day.
func (c *NoteController) Note(number int, date string) *note.Note {
	return c.state.Get(c.dateOrCurrent(date), number)
}

// NotesStats aggregates a day held in memory; an empty date means the
// current day.
func (c *NoteController) NotesStats(date string) state.Stats {
	return c.state.Stats(c.dateOrCurrent(date), c.opts.now())
}

// StopAllNoteTimers stops every running note timer and returns how many were
// stopped.
func (c *NoteController) StopAllNoteTimers() int {
	now := c.opts.now()
	stopped := 0
	for _, n := range c.state.All() {
		if n.Timer.Stop(now) {
			stopped++
			c.UpdateNoteInStorage(n)
			c.state.Update(n)
		}
	}
	return stopped
}

// Now is the controller clock.
func (c *NoteController) Now() time.Time {
	return c.opts.now()
}
