package note

import (
	"time"

	"tableflip.dev/worklog/pkg/timefmt"
)

// Timer is the per-note stopwatch. Start and End bound the current timed
// interval; Additional carries seconds from closed intervals and manual
// edits.
type Timer struct {
	Start      time.Time
	End        time.Time
	Additional int64
	HasStarted bool
}

// IsRunning reports whether an interval is open.
func (t *Timer) IsRunning() bool {
	return !t.Start.IsZero() && t.End.IsZero()
}

// ElapsedSeconds returns the total accrued seconds at now.
func (t *Timer) ElapsedSeconds(now time.Time) int64 {
	end := t.End
	if end.IsZero() {
		end = now
	}
	return timefmt.Duration(t.Start, end, t.Additional)
}

// Begin opens the first interval. It does nothing once the timer has started.
func (t *Timer) Begin(now time.Time) {
	if t.HasStarted {
		return
	}
	t.HasStarted = true
	t.Start = now
	t.End = time.Time{}
}

// Stop closes the open interval at now. It reports whether anything changed.
func (t *Timer) Stop(now time.Time) bool {
	if !t.IsRunning() {
		return false
	}
	t.End = now
	return true
}

// Restart folds the closed interval into Additional and opens a new one at
// now, so accrual resumes without counting the gap.
func (t *Timer) Restart(now time.Time) {
	if !t.Start.IsZero() {
		end := t.End
		if end.IsZero() {
			end = now
		}
		t.Additional = timefmt.Duration(t.Start, end, t.Additional)
	}
	t.HasStarted = true
	t.Start = now
	t.End = time.Time{}
}

// SetTotal adjusts Additional so that the reading at now equals secs.
func (t *Timer) SetTotal(secs int64, now time.Time) {
	if secs < 0 {
		secs = 0
	}
	t.Additional += secs - t.ElapsedSeconds(now)
}
