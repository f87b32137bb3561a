package repository

import (
	"testing"
	"time"

	"tableflip.dev/worklog/pkg/logging"
	"tableflip.dev/worklog/pkg/store"
	"tableflip.dev/worklog/pkg/timer"
)

func TestTimerRoundTripUsesStoredLayout(t *testing.T) {
	m := store.NewMemory(nil)
	r := NewTimerRepository(m, logging.Discard)
	start := time.UnixMilli(1700000000000)

	if !r.Save(day, timer.Sheetwork, timer.Record{StartTime: start, TotalTime: 42}) {
		t.Fatalf("save failed")
	}

	if raw := m.Raw("timer_2024-03-05_sheetwork"); raw != `{"startTime":1700000000000,"totalTime":42}` {
		t.Fatalf("unexpected stored value %s", raw)
	}
	got := r.Load(day, timer.Sheetwork)
	if !got.StartTime.Equal(start) || got.TotalTime != 42 {
		t.Fatalf("unexpected record %+v", got)
	}

	r.Save(day, timer.Sheetwork, timer.Record{TotalTime: 50})
	if raw := m.Raw("timer_2024-03-05_sheetwork"); raw != `{"startTime":null,"totalTime":50}` {
		t.Fatalf("unexpected stored value %s", raw)
	}
}

func TestTimerLoadDefaults(t *testing.T) {
	rec := &logging.Recorder{}
	m := store.NewMemory(map[string]string{"timer_2024-03-05_blocked": `nope`})
	r := NewTimerRepository(m, rec)

	all := r.LoadAll(day)
	if len(all) != 3 {
		t.Fatalf("expected every category, got %v", all)
	}
	for c, v := range all {
		if v.IsRunning() || v.TotalTime != 0 {
			t.Fatalf("%s: expected zero record, got %+v", c, v)
		}
	}
	if !rec.Contains("timers: decode timer_2024-03-05_blocked") {
		t.Fatalf("expected decode failure logged, got %v", rec.Lines())
	}
}

func TestTimerDelete(t *testing.T) {
	m := store.NewMemory(nil)
	r := NewTimerRepository(m, logging.Discard)
	r.Save(day, timer.Blocked, timer.Record{TotalTime: 1})
	if !r.Delete(day, timer.Blocked) {
		t.Fatalf("delete failed")
	}
	if _, ok, _ := m.Get("timer_2024-03-05_blocked"); ok {
		t.Fatalf("expected key removed")
	}
}
