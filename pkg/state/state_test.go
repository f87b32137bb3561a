package state

import (
	"sync/atomic"
	"testing"
	"time"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/timer"
)

const day = "2024-03-05"

func TestNotesStateIndexes(t *testing.T) {
	s := NewNotesState(logging.Discard)
	var changes []ChangeType
	s.Changed.Subscribe(func(c NoteChange) { changes = append(changes, c.Type) })

	s.Add(note.New(day, 2))
	s.Add(note.New(day, 1))
	s.Add(note.New("2024-03-06", 1))

	got := s.ForDate(day)
	if len(got) != 2 || got[0].Number != 1 || got[1].Number != 2 {
		t.Fatalf("unexpected notes %+v", got)
	}
	if len(s.All()) != 3 || len(s.Dates()) != 2 {
		t.Fatalf("unexpected totals")
	}

	if !s.Remove(day, 1) || !s.Remove(day, 2) {
		t.Fatalf("remove failed")
	}
	if s.Remove(day, 2) {
		t.Fatalf("removing twice must report false")
	}
	if dates := s.Dates(); len(dates) != 1 || dates[0] != "2024-03-06" {
		t.Fatalf("day index must go with its last note, got %v", dates)
	}

	if s.Update(note.New(day, 9)) {
		t.Fatalf("update of unknown note must report false")
	}
	s.ClearDate("2024-03-06")
	if len(s.All()) != 0 {
		t.Fatalf("expected empty state")
	}

	want := []ChangeType{Added, Added, Added, Removed, Removed, Cleared}
	if len(changes) != len(want) {
		t.Fatalf("unexpected changes %v", changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Fatalf("unexpected changes %v", changes)
		}
	}
}

func TestEmptyAndInProgressAreExclusive(t *testing.T) {
	s := NewNotesState(logging.Discard)
	n := note.New(day, 1)
	s.Add(n)

	if !s.HasEmptyNoteForDate(day) || s.HasInProgressNoteForDate(day) {
		t.Fatalf("blank note must count as empty only")
	}

	n.ProjectID = "p"
	if s.HasEmptyNoteForDate(day) || !s.HasInProgressNoteForDate(day) {
		t.Fatalf("note with content must count as in progress only")
	}

	n.Completed = true
	if s.HasEmptyNoteForDate(day) || s.HasInProgressNoteForDate(day) {
		t.Fatalf("completed note is neither")
	}
}

func TestNotesStats(t *testing.T) {
	t0 := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	s := NewNotesState(logging.Discard)

	done := note.New(day, 1)
	done.Completed = true
	done.Timer = note.Timer{Start: t0, End: t0.Add(time.Minute), HasStarted: true}
	canceled := note.New(day, 2)
	canceled.Completed, canceled.Canceled = true, true
	active := note.New(day, 3)
	active.AttemptID = "a"
	active.Timer = note.Timer{Start: t0, HasStarted: true}
	s.Add(done)
	s.Add(canceled)
	s.Add(active)
	s.Add(note.New(day, 4))

	st := s.Stats(day, t0.Add(2*time.Minute))

	if st.Total != 4 || st.Completed != 1 || st.Canceled != 1 || st.InProgress != 1 || st.Empty != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if st.ElapsedSeconds != 180 {
		t.Fatalf("expected 180 elapsed seconds, got %d", st.ElapsedSeconds)
	}
}

func TestTimerStateIntervals(t *testing.T) {
	s := NewTimerState(logging.Discard)
	k := timer.Key{Date: day, Category: timer.Blocked}

	var ticks int32
	s.StartInterval(k, 5*time.Millisecond, func() { atomic.AddInt32(&ticks, 1) })
	if !s.HasInterval(k) {
		t.Fatalf("expected interval")
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&ticks) < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if atomic.LoadInt32(&ticks) < 2 {
		t.Fatalf("expected ticks")
	}

	s.StopInterval(k)
	if s.HasInterval(k) {
		t.Fatalf("expected interval stopped")
	}
	s.Cleanup()
	after := atomic.LoadInt32(&ticks)
	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&ticks) != after {
		t.Fatalf("ticks continued after stop")
	}
}

func TestTimerStateCleanupStopsAll(t *testing.T) {
	s := NewTimerState(logging.Discard)
	for _, c := range timer.Categories() {
		s.StartInterval(timer.Key{Date: day, Category: c}, time.Millisecond, func() {})
	}
	s.StartInterval(timer.Key{Date: day, Category: timer.Blocked}, 0, func() {})
	if len(s.Intervals()) != 3 {
		t.Fatalf("expected 3 intervals, got %v", s.Intervals())
	}

	s.Cleanup()

	if len(s.Intervals()) != 0 {
		t.Fatalf("expected no intervals, got %v", s.Intervals())
	}
}

func TestTimerStateRecords(t *testing.T) {
	s := NewTimerState(logging.Discard)
	var seen int
	s.Changed.Subscribe(func(TimerChange) { seen++ })

	k := timer.Key{Date: day, Category: timer.Sheetwork}
	s.Set(k, timer.Record{TotalTime: 5})
	s.Set(timer.Key{Date: "2024-03-06", Category: timer.Sheetwork}, timer.Record{TotalTime: 1})

	rec, ok := s.Get(k)
	if !ok || rec.TotalTime != 5 {
		t.Fatalf("unexpected record %+v %v", rec, ok)
	}
	if got := s.ForDate(day); len(got) != 1 || got[timer.Sheetwork].TotalTime != 5 {
		t.Fatalf("unexpected day %+v", got)
	}
	if seen != 2 {
		t.Fatalf("expected 2 change events, got %d", seen)
	}
}
