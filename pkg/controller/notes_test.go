package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/timefmt"
)

func numbers(notes []*note.Note) []int {
	out := make([]int, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Number)
	}
	return out
}

func TestLoadNotesForEmptyDateCreatesFirstNote(t *testing.T) {
	f := newFixture(nil)
	var created []NoteCreatedEvent
	f.notes.NoteCreated.Subscribe(func(e NoteCreatedEvent) { created = append(created, e) })

	got := f.notes.LoadNotesForDate(day)

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 1, got[0].DisplayIndex)
	assert.True(t, got[0].IsEmpty())
	require.Len(t, created, 1)
	assert.Equal(t, day, created[0].Date)
	assert.Equal(t, 0, f.writes.Count(), "a blank note is not persisted")
}

func TestLoadNotesAllCompletedAddsFreshNote(t *testing.T) {
	f := newFixture(map[string]string{day: `{"1":{"completed":true},"2":{"completed":true}}`})

	got := f.notes.LoadNotesForDate(day)

	assert.Equal(t, []int{1, 2, 3}, numbers(got))
	assert.True(t, got[2].IsEmpty())
}

func TestGapFillingNoteRelabelsTheDay(t *testing.T) {
	f := newFixture(map[string]string{day: `{"1":{"completed":true},"3":{"completed":true}}`})
	var refreshed []DisplayRefreshedEvent
	f.notes.DisplayRefreshed.Subscribe(func(e DisplayRefreshedEvent) { refreshed = append(refreshed, e) })

	got := f.notes.LoadNotesForDate(day)

	require.Equal(t, []int{1, 2, 3}, numbers(got))
	assert.True(t, got[1].IsEmpty())
	labels := []string{got[0].DisplayLabel(), got[1].DisplayLabel(), got[2].DisplayLabel()}
	assert.Equal(t, []string{"1", "2", "3"}, labels)
	require.Len(t, refreshed, 1)
	assert.Equal(t, map[int]string{1: "1", 2: "2", 3: "3"}, refreshed[0].Labels)
}

func TestGapLeftByRepairGetsUniqueLabels(t *testing.T) {
	f := newFixture(map[string]string{day: `{"1":{"projectID":"a"},"2":null,"3":{"projectID":"c"}}`})
	f.notesRepo.Repair(day)
	f.notes.LoadNotesForDate(day)
	f.notes.CompleteNoteEditing(1, false)
	f.notes.CompleteNoteEditing(3, false)

	got := f.notes.NotesForCurrentDate()
	require.Equal(t, []int{1, 2, 3}, numbers(got))
	seen := map[string]int{}
	for _, n := range got {
		seen[n.DisplayLabel()]++
	}
	assert.Equal(t, map[string]int{"1": 1, "2": 1, "3": 1}, seen)
}

func TestLoadNotesSortsAndSkipsCorrupt(t *testing.T) {
	f := newFixture(map[string]string{day: `{"10":{"projectID":"b"},"1":null,"2":{"projectID":"a"}}`})

	got := f.notes.LoadNotesForDate(day)

	assert.Equal(t, []int{2, 10}, numbers(got))
	assert.Equal(t, 1, got[0].DisplayIndex)
	assert.Equal(t, 2, got[1].DisplayIndex)

	again := f.notes.LoadNotesForDate(day)
	assert.Equal(t, []int{2, 10}, numbers(again))
}

func TestDisplayIndexExcludesCanceled(t *testing.T) {
	f := newFixture(map[string]string{day: `{
		"1":{"completed":true},
		"2":{"completed":true,"canceled":true},
		"3":{"completed":true},
		"4":{"completed":true}}`})
	f.notes.LoadNotesForDate(day)

	// 1, 3 and 4 occupy slots; 2 does not.
	assert.Equal(t, 3, f.notes.CalculateDisplayIndex(day, 4))
	assert.Equal(t, 4, f.notes.CalculateDisplayIndex(day, 5))
	assert.Equal(t, "1", f.notes.Note(1, "").DisplayLabel())
	assert.Equal(t, note.CanceledLabel, f.notes.Note(2, "").DisplayLabel())
	assert.Equal(t, "2", f.notes.Note(3, "").DisplayLabel())
	assert.Equal(t, "3", f.notes.Note(4, "").DisplayLabel())
	// The fresh note created after the completed ones.
	assert.Equal(t, "4", f.notes.Note(5, "").DisplayLabel())
}

func TestCompletingOnlyNoteCreatesExactlyOneBlank(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)

	require.True(t, f.notes.SetField(1, note.ProjectID, "proj"))
	f.clock.Advance(90 * time.Second)

	var completed []NoteCompletedEvent
	f.notes.NoteCompleted.Subscribe(func(e NoteCompletedEvent) { completed = append(completed, e) })
	require.True(t, f.notes.CompleteNoteEditing(1, false))

	first := f.notes.Note(1, "")
	assert.True(t, first.Completed)
	assert.False(t, first.Timer.IsRunning())
	assert.Equal(t, int64(90), first.ElapsedSeconds(f.clock.Now().Add(time.Hour)))
	require.Len(t, completed, 1)
	assert.False(t, completed[0].Canceled)

	notes := f.notes.NotesForCurrentDate()
	require.Equal(t, []int{1, 2}, numbers(notes))
	assert.True(t, notes[1].IsEmpty())

	assert.Nil(t, f.notes.CheckAndCreateNewNote(day))
	assert.Len(t, f.notes.NotesForCurrentDate(), 2)

	stored := f.notesRepo.Load(day)
	require.Contains(t, stored, 1)
	assert.NotContains(t, stored, 2)
	assert.NotNil(t, stored[1].EndTimestamp)
}

func TestCompleteWhileSearchActiveSkipsAutoCreate(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	f.notes.SetField(1, note.AttemptID, "att-1")
	f.search.Search(context.Background(), "att")
	require.True(t, f.search.Active())

	f.notes.CompleteNoteEditing(1, false)

	assert.Len(t, f.notes.NotesForCurrentDate(), 1)
}

func TestCancellationIsStickyAndRefreshesLabels(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	for i, id := range []string{"a", "b", "c"} {
		n := i + 1
		if f.notes.Note(n, "") == nil {
			f.notes.CreateNewNote(n, day)
		}
		require.True(t, f.notes.SetField(n, note.ProjectID, id))
	}

	var refreshed []DisplayRefreshedEvent
	f.notes.DisplayRefreshed.Subscribe(func(e DisplayRefreshedEvent) { refreshed = append(refreshed, e) })

	require.True(t, f.notes.CompleteNoteEditing(2, true))
	require.Len(t, refreshed, 1)
	assert.Equal(t, map[int]string{1: "1", 2: note.CanceledLabel, 3: "2"}, refreshed[0].Labels)

	require.True(t, f.notes.EnableNoteEditing(2))
	assert.False(t, f.notes.Note(2, "").Completed)
	assert.True(t, f.notes.Note(2, "").Canceled)

	require.True(t, f.notes.CompleteNoteEditing(2, false))
	assert.True(t, f.notes.Note(2, "").Canceled)
	assert.Len(t, refreshed, 1, "re-completing an already canceled note does not refresh again")
	assert.True(t, f.notesRepo.Load(day)[2].Canceled)
}

func TestEnableNoteEditingResumesTimer(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	f.notes.SetField(1, note.OperationID, "op")
	f.clock.Advance(60 * time.Second)
	f.notes.CompleteNoteEditing(1, false)
	f.clock.Advance(time.Hour)

	var edited int
	f.notes.NoteEdited.Subscribe(func(NoteEditedEvent) { edited++ })
	require.True(t, f.notes.EnableNoteEditing(1))
	f.clock.Advance(30 * time.Second)

	n := f.notes.Note(1, "")
	assert.True(t, n.Timer.IsRunning())
	assert.Equal(t, int64(90), n.ElapsedSeconds(f.clock.Now()))
	assert.Equal(t, 1, edited)

	rec := f.notesRepo.Load(day)[1]
	assert.Nil(t, rec.EndTimestamp)
	assert.Equal(t, int64(60), rec.AdditionalTime)
	assert.False(t, rec.Completed)
}

func TestEnableNoteEditingIgnoresMissingAndOpenNotes(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	before := f.writes.Count()

	assert.False(t, f.notes.EnableNoteEditing(1))
	assert.False(t, f.notes.EnableNoteEditing(42))
	assert.False(t, f.notes.CompleteNoteEditing(42, false))
	assert.Equal(t, before, f.writes.Count())
}

func TestDeleteNoteRenumbersDensely(t *testing.T) {
	f := newFixture(map[string]string{day: `{
		"1":{"projectID":"a","completed":true},
		"2":{"projectID":"b","completed":true},
		"3":{"projectID":"c","completed":true},
		"4":{"projectID":"d","completed":true}}`})
	f.notes.LoadNotesForDate(day)

	var order []string
	f.notes.NoteDeleted.Subscribe(func(e NoteDeletedEvent) {
		assert.Equal(t, 2, e.Number)
		order = append(order, "deleted")
	})
	f.notes.NotesClearing.Subscribe(func(e NotesClearingEvent) {
		assert.Equal(t, day, e.Date)
		order = append(order, "clearing")
	})
	f.notes.NoteCreated.Subscribe(func(NoteCreatedEvent) { order = append(order, "created") })

	require.True(t, f.notes.DeleteNote(2))

	stored := f.notesRepo.Load(day)
	require.Len(t, stored, 3)
	assert.Equal(t, "a", stored[1].ProjectID)
	assert.Equal(t, "c", stored[2].ProjectID)
	assert.Equal(t, "d", stored[3].ProjectID)

	assert.Equal(t, []int{1, 2, 3, 4}, numbers(f.notes.NotesForCurrentDate()))
	assert.Equal(t, "c", f.notes.Note(2, "").ProjectID)
	assert.True(t, f.notes.Note(4, "").IsEmpty())
	require.GreaterOrEqual(t, len(order), 3)
	assert.Equal(t, []string{"deleted", "clearing", "created"}, order[:3])
}

func TestDeleteMissingNoteHasNoSideEffects(t *testing.T) {
	f := newFixture(map[string]string{day: `{"1":{"completed":true}}`})
	f.notes.LoadNotesForDate(day)
	before := f.writes.Count()
	var events int
	f.notes.NoteDeleted.Subscribe(func(NoteDeletedEvent) { events++ })

	assert.False(t, f.notes.DeleteNote(9))
	assert.Equal(t, before, f.writes.Count())
	assert.Zero(t, events)
}

func TestSetFieldRespectsCompletion(t *testing.T) {
	f := newFixture(map[string]string{day: `{"1":{"completed":true,"projectID":"x"}}`})
	f.notes.LoadNotesForDate(day)

	assert.False(t, f.notes.SetField(1, note.ProjectID, "y"))
	assert.Equal(t, "x", f.notes.Note(1, "").ProjectID)

	require.True(t, f.notes.SetField(2, note.Discussion, " "))
	assert.False(t, f.notes.Note(2, "").Timer.HasStarted, "blank input does not start the timer")

	require.True(t, f.notes.SetField(2, note.Discussion, "talked"))
	n := f.notes.Note(2, "")
	assert.True(t, n.Timer.HasStarted)
	assert.True(t, n.Timer.Start.Equal(f.clock.Now()))
}

func TestEditNoteTimer(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	f.notes.SetField(1, note.ProjectID, "p")
	f.clock.Advance(10 * time.Second)

	require.True(t, f.notes.EditNoteTimer(1, timefmt.HMS{Minutes: 5}))
	assert.Equal(t, int64(300), f.notes.Note(1, "").ElapsedSeconds(f.clock.Now()))

	f.clock.Advance(5 * time.Second)
	assert.Equal(t, int64(305), f.notes.Note(1, "").ElapsedSeconds(f.clock.Now()))
	assert.False(t, f.notes.EditNoteTimer(7, timefmt.HMS{}))
}

func TestStopAllNoteTimersAndStats(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	f.notes.SetField(1, note.ProjectID, "p")
	f.clock.Advance(45 * time.Second)

	assert.Equal(t, 1, f.notes.StopAllNoteTimers())
	assert.Equal(t, 0, f.notes.StopAllNoteTimers())

	f.clock.Advance(time.Hour)
	st := f.notes.NotesStats("")
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, 1, st.InProgress)
	assert.Equal(t, int64(45), st.ElapsedSeconds)
}

func TestPanickingListenerIsIsolated(t *testing.T) {
	f := newFixture(nil)
	f.notes.LoadNotesForDate(day)
	f.notes.SetField(1, note.ProjectID, "p")

	var reached bool
	f.notes.NoteCompleted.Subscribe(func(NoteCompletedEvent) { panic("view exploded") })
	f.notes.NoteCompleted.Subscribe(func(NoteCompletedEvent) { reached = true })

	assert.NotPanics(t, func() { f.notes.CompleteNoteEditing(1, false) })
	assert.True(t, reached)
	assert.True(t, f.log.Contains("noteCompleted"))
	assert.True(t, f.notesRepo.Load(day)[1].Completed)
}

func TestSetCurrentDate(t *testing.T) {
	f := newFixture(map[string]string{"2024-03-04": `{"1":{"projectID":"old"}}`})
	f.notes.SetCurrentDate("2024-03-04")
	f.notes.LoadNotesForDate("")

	assert.Equal(t, "2024-03-04", f.notes.CurrentDate())
	assert.Equal(t, "old", f.notes.Note(1, "").ProjectID)
	assert.Nil(t, f.notes.Note(1, day))
	assert.Len(t, f.notes.AllNotes(), 1)
}
