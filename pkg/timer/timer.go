// Package timer models the fixed-category off-platform timers kept per day.
package timer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/worklog/pkg/timefmt"
)

// Category is one of the fixed off-platform timer categories.
type Category string

const (
	ProjectTraining Category = "projectTraining"
	Sheetwork       Category = "sheetwork"
	Blocked         Category = "blocked"
)

// ErrUnknownCategory is returned for anything outside Categories.
var ErrUnknownCategory = errors.New("timer: unknown category")

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{ProjectTraining, Sheetwork, Blocked}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, k := range Categories() {
		if c == k {
			return true
		}
	}
	return false
}

// Title is the human label for c.
func (c Category) Title() string {
	switch c {
	case ProjectTraining:
		return "Project Training"
	case Sheetwork:
		return "Sheetwork"
	case Blocked:
		return "Blocked"
	}
	return string(c)
}

// ParseCategory resolves a category name case-insensitively, ignoring "-"
// and "_" ("project-training" is projectTraining).
func ParseCategory(s string) (Category, error) {
	want := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	for _, c := range Categories() {
		if strings.ToLower(string(c)) == want {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownCategory, s)
}

// Key identifies one category timer on one day.
type Key struct {
	Date     string
	Category Category
}

// StorageKey is the key the timer is persisted under.
func (k Key) StorageKey() string {
	return fmt.Sprintf("timer_%s_%s", k.Date, k.Category)
}

// ParseStorageKey is the inverse of StorageKey.
func ParseStorageKey(s string) (Key, bool) {
	rest, ok := strings.CutPrefix(s, "timer_")
	if !ok || len(rest) < len(timefmt.DateLayout)+2 {
		return Key{}, false
	}
	date, cat := rest[:len(timefmt.DateLayout)], rest[len(timefmt.DateLayout):]
	if !timefmt.IsDate(date) || !strings.HasPrefix(cat, "_") {
		return Key{}, false
	}
	c := Category(cat[1:])
	if !c.Valid() {
		return Key{}, false
	}
	return Key{Date: date, Category: c}, true
}

// Record is the state of a category timer. A zero StartTime means stopped.
type Record struct {
	StartTime time.Time
	// TotalTime holds seconds from closed intervals only.
	TotalTime int64
}

// IsRunning reports whether an interval is open.
func (r Record) IsRunning() bool {
	return !r.StartTime.IsZero()
}

// CurrentSeconds is TotalTime plus the open interval, floored to seconds.
func (r Record) CurrentSeconds(now time.Time) int64 {
	if !r.IsRunning() {
		return r.TotalTime
	}
	return r.TotalTime + timefmt.ElapsedSeconds(r.StartTime, now)
}

// Started returns r running from now. A running record is returned as is.
func (r Record) Started(now time.Time) Record {
	if r.IsRunning() {
		return r
	}
	r.StartTime = now
	return r
}

// Stopped accrues the open interval and clears StartTime. A stopped record is
// returned unchanged, so stopping twice never double counts.
func (r Record) Stopped(now time.Time) Record {
	if !r.IsRunning() {
		return r
	}
	r.TotalTime += timefmt.ElapsedSeconds(r.StartTime, now)
	r.StartTime = time.Time{}
	return r
}

// Edited overwrites TotalTime with secs. A running record keeps running from
// now so accrual continues from the new baseline.
func (r Record) Edited(secs int64, now time.Time) Record {
	if secs < 0 {
		secs = 0
	}
	r.TotalTime = secs
	if r.IsRunning() {
		r.StartTime = now
	}
	return r
}

// Wire is the stored JSON shape: {"startTime": number|null, "totalTime": number}.
type Wire struct {
	StartTime *int64 `json:"startTime"`
	TotalTime int64  `json:"totalTime"`
}

// ToWire converts r for storage.
func (r Record) ToWire() Wire {
	w := Wire{TotalTime: r.TotalTime}
	if r.IsRunning() {
		ms := timefmt.ToMillis(r.StartTime)
		w.StartTime = &ms
	}
	return w
}

// FromWire converts a stored value.
func FromWire(w Wire) Record {
	r := Record{TotalTime: w.TotalTime}
	if w.StartTime != nil {
		r.StartTime = timefmt.FromMillis(*w.StartTime)
	}
	return r
}
