package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tableflip.dev/worklog/pkg/logging"
)

func TestDiskRoundTrip(t *testing.T) {
	base := t.TempDir()
	d, err := Open(testConfig{path: base})
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, ok, err := d.Get("2024-01-02"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := d.Set("2024-01-02", []byte(`{"1":{}}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := d.Set("timer_2024-01-02_sheetwork", []byte(`{"startTime":null,"totalTime":0}`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, err := d.Get("2024-01-02")
	if err != nil || !ok || string(v) != `{"1":{}}` {
		t.Fatalf("unexpected get: %q %v %v", v, ok, err)
	}

	if _, err := os.Stat(filepath.Join(base, "notes", "2024-01-02")); err != nil {
		t.Fatalf("expected note file under notes/: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "timers", "timer_2024-01-02_sheetwork")); err != nil {
		t.Fatalf("expected timer file under timers/: %v", err)
	}

	keys := d.Keys(context.Background())
	if len(keys) != 2 || keys[0] != "2024-01-02" || keys[1] != "timer_2024-01-02_sheetwork" {
		t.Fatalf("unexpected keys %v", keys)
	}

	if err := d.Remove("2024-01-02"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := d.Remove("2024-01-02"); err != nil {
		t.Fatalf("second remove must be a no-op: %v", err)
	}
	if _, ok, _ := d.Get("2024-01-02"); ok {
		t.Fatalf("expected key removed")
	}

	// A second handle on the same directory sees the same data.
	again, err := Open(testConfig{path: base})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := again.Keys(context.Background()); len(got) != 1 {
		t.Fatalf("expected one key after reopen, got %v", got)
	}
}

func TestDiskHandlesSeeEachOthersWrites(t *testing.T) {
	base := t.TempDir()
	a, err := Open(testConfig{path: base})
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	b, err := Open(testConfig{path: base})
	if err != nil {
		t.Fatalf("open b: %v", err)
	}

	if err := a.Set("2024-01-02", []byte(`{"1":{"projectID":"old"}}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, _, _ := a.Get("2024-01-02"); string(v) != `{"1":{"projectID":"old"}}` {
		t.Fatalf("unexpected first read %q", v)
	}

	if err := b.Set("2024-01-02", []byte(`{"1":{"projectID":"new"}}`)); err != nil {
		t.Fatalf("set from b: %v", err)
	}
	v, ok, err := a.Get("2024-01-02")
	if err != nil || !ok || string(v) != `{"1":{"projectID":"new"}}` {
		t.Fatalf("a must see b's write, got %q %v %v", v, ok, err)
	}

	if err := b.Remove("2024-01-02"); err != nil {
		t.Fatalf("remove from b: %v", err)
	}
	if _, ok, _ := a.Get("2024-01-02"); ok {
		t.Fatalf("a must see b's removal")
	}
}

func TestDiskDiagnosticsUseLogger(t *testing.T) {
	d, err := Open(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rec := &logging.Recorder{}
	d.SetLogger(rec)
	d.logf("store: watcher: %v", errors.New("queue overflow"))
	if !rec.Contains("store: watcher: queue overflow") {
		t.Fatalf("expected diagnostic in logger, got %v", rec.Lines())
	}

	d.SetLogger(nil)
	if d.Logger() != logging.Stderr {
		t.Fatalf("nil logger must fall back to stderr")
	}
}

func TestDiskRejectsBadKeys(t *testing.T) {
	d, err := Open(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for _, k := range []string{"", "../x", "a/b", ".hidden"} {
		if err := d.Set(k, []byte("x")); err == nil {
			t.Errorf("Set(%q): expected error", k)
		}
	}
}

func TestMemoryFailHook(t *testing.T) {
	m := NewMemory(map[string]string{"a": "1"})
	m.Fail = func(string) error { return ErrQuota }

	if err := m.Set("b", []byte("2")); !errors.Is(err, ErrQuota) {
		t.Fatalf("expected ErrQuota, got %v", err)
	}
	if m.Raw("a") != "1" || m.Raw("b") != "" {
		t.Fatalf("unexpected contents")
	}
}

func TestDump(t *testing.T) {
	m := NewMemory(map[string]string{"2024-01-01": "{}", "timer_2024-01-01_blocked": `{"startTime":null,"totalTime":3}`})
	got, err := Dump(context.Background(), m)
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if len(got) != 2 || got["2024-01-01"] != "{}" {
		t.Fatalf("unexpected dump %v", got)
	}
}

func TestCounting(t *testing.T) {
	w := Counting(NewMemory(nil))
	_ = w.Set("a", nil)
	_ = w.Set("b", nil)
	if w.Count() != 2 {
		t.Fatalf("expected 2 writes, got %d", w.Count())
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	data := "path: " + filepath.Join(dir, "db") + "\nbackup:\n  url: http://example.test/b\ndate: \"2024-06-01\"\n"
	if err := os.WriteFile(filepath.Join(dir, ".worklog.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WORKLOG_CONFIG_PATH", dir)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasePath() != filepath.Join(dir, "db") {
		t.Fatalf("unexpected path %q", cfg.BasePath())
	}
	if cfg.BackupURL() != "http://example.test/b" {
		t.Fatalf("unexpected backup url %q", cfg.BackupURL())
	}
	if cfg.Today() != "2024-06-01" {
		t.Fatalf("unexpected today %q", cfg.Today())
	}
}
