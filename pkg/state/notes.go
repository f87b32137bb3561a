// Package state holds the live in-memory notes and timers. It performs no
// I/O; controllers decide what is persisted.
package state

import (
	"sort"
	"time"

	"tableflip.dev/worklog/pkg/event"
	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/note"
)

// ChangeType says what happened to a note.
type ChangeType string

const (
	Added   ChangeType = "added"
	Updated ChangeType = "updated"
	Removed ChangeType = "removed"
	Cleared ChangeType = "cleared"
)

// NoteChange is emitted by NotesState on every mutation.
type NoteChange struct {
	Type ChangeType
	Key  note.Key
	Note *note.Note
}

// Stats aggregates the notes of one day.
type Stats struct {
	Total          int
	Completed      int
	Canceled       int
	InProgress     int
	Empty          int
	ElapsedSeconds int64
}

// NotesState indexes notes by key and by day. It is not safe for concurrent
// use.
type NotesState struct {
	notes  map[note.Key]*note.Note
	byDate map[string]map[int]struct{}

	Changed event.Emitter[NoteChange]
}

// NewNotesState returns an empty state. A nil logger logs to stderr.
func NewNotesState(log logging.Logger) *NotesState {
	s := &NotesState{
		notes:  make(map[note.Key]*note.Note),
		byDate: make(map[string]map[int]struct{}),
	}
	s.Changed.Name = "notesState"
	s.Changed.Logger = log
	return s
}

// Add registers n, replacing any note with the same key.
func (s *NotesState) Add(n *note.Note) {
	k := n.Key()
	s.notes[k] = n
	idx, ok := s.byDate[k.Date]
	if !ok {
		idx = make(map[int]struct{})
		s.byDate[k.Date] = idx
	}
	idx[k.Number] = struct{}{}
	s.Changed.Emit(NoteChange{Type: Added, Key: k, Note: n})
}

// Update replaces a registered note. It reports false when the key is unknown.
func (s *NotesState) Update(n *note.Note) bool {
	k := n.Key()
	if _, ok := s.notes[k]; !ok {
		return false
	}
	s.notes[k] = n
	s.Changed.Emit(NoteChange{Type: Updated, Key: k, Note: n})
	return true
}

// Remove drops a note. The day index goes with its last note.
func (s *NotesState) Remove(date string, number int) bool {
	k := note.Key{Date: date, Number: number}
	n, ok := s.notes[k]
	if !ok {
		return false
	}
	delete(s.notes, k)
	if idx := s.byDate[date]; idx != nil {
		delete(idx, number)
		if len(idx) == 0 {
			delete(s.byDate, date)
		}
	}
	s.Changed.Emit(NoteChange{Type: Removed, Key: k, Note: n})
	return true
}

// ClearDate forgets every note of a day.
func (s *NotesState) ClearDate(date string) {
	for number := range s.byDate[date] {
		delete(s.notes, note.Key{Date: date, Number: number})
	}
	delete(s.byDate, date)
	s.Changed.Emit(NoteChange{Type: Cleared, Key: note.Key{Date: date}})
}

// Get returns the note with the given key, or nil.
func (s *NotesState) Get(date string, number int) *note.Note {
	return s.notes[note.Key{Date: date, Number: number}]
}

// ForDate returns the notes of a day by ascending number.
func (s *NotesState) ForDate(date string) []*note.Note {
	idx := s.byDate[date]
	out := make([]*note.Note, 0, len(idx))
	for number := range idx {
		out = append(out, s.notes[note.Key{Date: date, Number: number}])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// All returns every note by day, then number.
func (s *NotesState) All() []*note.Note {
	out := make([]*note.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Number < out[j].Number
	})
	return out
}

// Dates lists the days that have notes, sorted.
func (s *NotesState) Dates() []string {
	out := make([]string, 0, len(s.byDate))
	for d := range s.byDate {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasEmptyNoteForDate reports whether the day has an incomplete note with no
// content.
func (s *NotesState) HasEmptyNoteForDate(date string) bool {
	for _, n := range s.ForDate(date) {
		if n.IsEmpty() {
			return true
		}
	}
	return false
}

// HasInProgressNoteForDate reports whether the day has an incomplete note
// with content.
func (s *NotesState) HasInProgressNoteForDate(date string) bool {
	for _, n := range s.ForDate(date) {
		if n.IsInProgress() {
			return true
		}
	}
	return false
}

// Stats aggregates the notes of a day with timers read at now.
func (s *NotesState) Stats(date string, now time.Time) Stats {
	var st Stats
	for _, n := range s.ForDate(date) {
		st.Total++
		switch {
		case n.Canceled:
			st.Canceled++
		case n.Completed:
			st.Completed++
		case n.IsInProgress():
			st.InProgress++
		default:
			st.Empty++
		}
		st.ElapsedSeconds += n.ElapsedSeconds(now)
	}
	return st
}
