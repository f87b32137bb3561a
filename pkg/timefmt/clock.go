// Package timefmt converts between seconds, HH:MM:SS clock strings and
// hour/minute/second parts, and computes timer durations.
package timefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-day key format used for note storage.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned by ParseDate for anything that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("timefmt: invalid date, want YYYY-MM-DD")

// HMS is a duration split into clock parts.
type HMS struct {
	Hours   int64
	Minutes int64
	Seconds int64
}

// Total returns the number of seconds represented by h.
func (h HMS) Total() int64 {
	return h.Hours*3600 + h.Minutes*60 + h.Seconds
}

func (h HMS) String() string {
	return FormatSeconds(h.Total())
}

// Split breaks secs into hours, minutes and seconds. Negative input is
// treated as zero.
func Split(secs int64) HMS {
	if secs < 0 {
		secs = 0
	}
	return HMS{
		Hours:   secs / 3600,
		Minutes: (secs % 3600) / 60,
		Seconds: secs % 60,
	}
}

// FormatSeconds renders secs as HH:MM:SS. Hours are not capped at 99.
func FormatSeconds(secs int64) string {
	p := Split(secs)
	return fmt.Sprintf("%02d:%02d:%02d", p.Hours, p.Minutes, p.Seconds)
}

// ParseClock parses "HH:MM:SS", "MM:SS" or "SS". Minutes and seconds must be
// below 60 whenever a larger unit is present.
func ParseClock(s string) (HMS, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return HMS{}, errors.New("timefmt: empty clock value")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return HMS{}, fmt.Errorf("timefmt: invalid clock value %q", s)
	}
	values := make([]int64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			return HMS{}, fmt.Errorf("timefmt: invalid clock value %q", s)
		}
		values[i] = v
	}
	// Pad on the left so values is always [h, m, s].
	for len(values) < 3 {
		values = append([]int64{0}, values...)
	}
	h := HMS{Hours: values[0], Minutes: values[1], Seconds: values[2]}
	if len(parts) > 1 && h.Seconds >= 60 {
		return HMS{}, fmt.Errorf("timefmt: seconds out of range in %q", s)
	}
	if len(parts) > 2 && h.Minutes >= 60 {
		return HMS{}, fmt.Errorf("timefmt: minutes out of range in %q", s)
	}
	return h, nil
}

// Duration returns the whole seconds between start and end plus additional.
// A zero start means the interval never began and only additional counts;
// a zero end also contributes nothing, so callers measuring an open interval
// pass the current time as end.
func Duration(start, end time.Time, additional int64) int64 {
	var secs int64
	if !start.IsZero() && !end.IsZero() && end.After(start) {
		secs = int64(end.Sub(start) / time.Second)
	}
	return secs + additional
}

// ElapsedSeconds is floor((now-since)/1s), never negative.
func ElapsedSeconds(since, now time.Time) int64 {
	if since.IsZero() || !now.After(since) {
		return 0
	}
	return int64(now.Sub(since) / time.Second)
}

// ParseDate validates a YYYY-MM-DD day key and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t.Format(DateLayout), nil
}

// IsDate reports whether s is a well formed day key.
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// Today returns the local day key for now.
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}

// FromMillis converts epoch milliseconds to a time. Zero stays zero.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// ToMillis converts t to epoch milliseconds. The zero time maps to zero.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
