package repository

import (
	"context"
	"strings"
	"testing"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/store"
)

const day = "2024-03-05"

func newNotes(seed map[string]string) (*NotesRepository, *store.Memory, *logging.Recorder) {
	m := store.NewMemory(seed)
	rec := &logging.Recorder{}
	return NewNotesRepository(m, rec), m, rec
}

func TestLoadDropsCorruptWithoutWriting(t *testing.T) {
	raw := `{"1":{"projectID":"p1","completed":true},"2":null,"3":"bad"}`
	r, m, _ := newNotes(map[string]string{day: raw})

	got := r.Load(day)

	if len(got) != 1 || got[1].ProjectID != "p1" || !got[1].Completed {
		t.Fatalf("unexpected records %+v", got)
	}
	if m.Raw(day) != raw {
		t.Fatalf("Load must not modify storage")
	}
}

func TestRepairRoundTrip(t *testing.T) {
	r, m, log := newNotes(map[string]string{
		day: `{"1":{"projectID":"p1"},"2":null,"3":"bad"}`,
	})

	if dropped := r.Repair(day); dropped != 2 {
		t.Fatalf("expected 2 dropped, got %d", dropped)
	}
	first := m.Raw(day)
	if strings.Contains(first, `"2"`) || strings.Contains(first, `"3"`) {
		t.Fatalf("corrupt entries survived: %s", first)
	}
	if !log.Contains("dropping corrupt record") {
		t.Fatalf("expected repair to be logged, got %v", log.Lines())
	}

	if dropped := r.Repair(day); dropped != 0 {
		t.Fatalf("second repair must be a no-op, dropped %d", dropped)
	}
	if m.Raw(day) != first {
		t.Fatalf("second repair changed storage")
	}
	got := r.Load(day)
	if len(got) != 1 || got[1].ProjectID != "p1" {
		t.Fatalf("unexpected records after reload %+v", got)
	}
}

func TestRepairUnreadableDayRemovesIt(t *testing.T) {
	r, m, _ := newNotes(map[string]string{day: `"garbage"`, "2024-03-06": `{"1":{}}`})

	if dropped := r.RepairAll(context.Background()); dropped != 1 {
		t.Fatalf("expected 1 dropped, got %d", dropped)
	}
	if _, ok, _ := m.Get(day); ok {
		t.Fatalf("expected unreadable day removed")
	}
	if _, ok, _ := m.Get("2024-03-06"); !ok {
		t.Fatalf("healthy day must survive")
	}
}

func TestLegacyTextField(t *testing.T) {
	r, _, _ := newNotes(map[string]string{day: `{"1":{"text":"abc"}}`})

	d := r.Inspect(day)
	if len(d.Legacy) != 1 || d.Legacy[0] != 1 {
		t.Fatalf("expected legacy note 1, got %v", d.Legacy)
	}
	rec := d.Records[1]
	if rec.FailingIssues != "abc" || rec.ProjectID != "" || rec.Discussion != "" {
		t.Fatalf("unexpected migration %+v", rec)
	}
}

func TestSaveKeepsOtherEntriesAndWritesCurrentShape(t *testing.T) {
	r, m, _ := newNotes(map[string]string{day: `{"1":{"text":"abc"},"2":{"attemptID":"a"}}`})

	rec := r.Load(day)[1]
	rec.Discussion = "d"
	if !r.Save(day, 1, rec) {
		t.Fatalf("save failed")
	}

	raw := m.Raw(day)
	if strings.Contains(raw, `"text"`) {
		t.Fatalf("legacy shape written back: %s", raw)
	}
	got := r.Load(day)
	if got[1].FailingIssues != "abc" || got[1].Discussion != "d" || got[2].AttemptID != "a" {
		t.Fatalf("unexpected records %+v", got)
	}
}

func TestSaveFailureReturnsFalse(t *testing.T) {
	r, m, log := newNotes(nil)
	m.Fail = func(string) error { return store.ErrQuota }

	if r.Save(day, 1, note.Record{}) {
		t.Fatalf("expected save to fail")
	}
	if !log.Contains("quota") {
		t.Fatalf("expected failure to be logged, got %v", log.Lines())
	}
	if len(r.Load(day)) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestRenumberIsDenseAndOrderPreserving(t *testing.T) {
	r, _, _ := newNotes(nil)
	for n, id := range map[int]string{1: "a", 2: "b", 3: "c", 4: "d"} {
		r.Save(day, n, note.Record{ProjectID: id})
	}

	r.Delete(day, 2)
	if !r.Renumber(day) {
		t.Fatalf("renumber failed")
	}

	got := r.Load(day)
	want := map[int]string{1: "a", 2: "c", 3: "d"}
	if len(got) != len(want) {
		t.Fatalf("unexpected records %+v", got)
	}
	for n, id := range want {
		if got[n].ProjectID != id {
			t.Fatalf("note %d: expected %q, got %q", n, id, got[n].ProjectID)
		}
	}
}

func TestDeleteLastNoteRemovesDay(t *testing.T) {
	r, m, _ := newNotes(nil)
	r.Save(day, 1, note.Record{})
	if !r.Delete(day, 1) {
		t.Fatalf("delete failed")
	}
	if _, ok, _ := m.Get(day); ok {
		t.Fatalf("expected empty day removed")
	}
	if !r.Delete(day, 7) {
		t.Fatalf("deleting a missing note succeeds")
	}
}

func TestNextNumberFillsGaps(t *testing.T) {
	r, _, _ := newNotes(map[string]string{day: `{"1":{},"3":{}}`})
	if n := r.NextNumber(day); n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}
	if n := r.NextNumber("2024-01-01"); n != 1 {
		t.Fatalf("expected 1 for an empty day, got %d", n)
	}
}

func TestSearchOrdering(t *testing.T) {
	r, _, _ := newNotes(map[string]string{
		"2024-03-01":               `{"1":{"projectID":"Alpha"},"2":{"attemptID":"x-alpha"},"3":{"projectID":"beta"}}`,
		"2024-03-02":               `{"1":{"operationID":"ALPHA-9"},"4":{"projectID":"alpha"}}`,
		"timer_2024-03-02_blocked": `{"startTime":null,"totalTime":5}`,
	})

	got := r.SearchNotes(context.Background(), "alpha")

	want := []struct {
		date string
		n    int
	}{
		{"2024-03-02", 4},
		{"2024-03-02", 1},
		{"2024-03-01", 2},
		{"2024-03-01", 1},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %+v", len(want), got)
	}
	for i, w := range want {
		if got[i].Date != w.date || got[i].Number != w.n {
			t.Fatalf("result %d: expected %s#%d, got %s#%d", i, w.date, w.n, got[i].Date, got[i].Number)
		}
	}
	if res := r.SearchNotes(context.Background(), "  "); res != nil {
		t.Fatalf("empty query must match nothing")
	}
	if res := r.SearchNotes(context.Background(), "discussion-only"); len(res) != 0 {
		t.Fatalf("unexpected matches %+v", res)
	}
}

func TestAllCompletedNotes(t *testing.T) {
	r, _, _ := newNotes(map[string]string{
		"2024-03-02": `{"2":{"completed":true},"1":{"completed":true,"canceled":true}}`,
		"2024-03-01": `{"1":{"completed":false},"2":{"completed":true}}`,
	})

	got := r.AllCompletedNotes(context.Background())

	if len(got) != 3 {
		t.Fatalf("expected 3 notes, got %+v", got)
	}
	if got[0].Key() != (note.Key{Date: "2024-03-01", Number: 2}) ||
		got[1].Key() != (note.Key{Date: "2024-03-02", Number: 1}) ||
		got[2].Key() != (note.Key{Date: "2024-03-02", Number: 2}) {
		t.Fatalf("unexpected order %+v", got)
	}
}
