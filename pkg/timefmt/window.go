package timefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultWindow is the statistics window used when none is provided.
const DefaultWindow = "1w"

const day = 24 * time.Hour

var (
	windowSegment = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	windowUnits   = map[string]time.Duration{
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": day, "day": day, "days": day,
		"w": 7 * day, "wk": 7 * day, "wks": 7 * day, "week": 7 * day, "weeks": 7 * day,
	}
)

// Window is a span of calendar days ending on Until, inclusive.
type Window struct {
	Since string `json:"since"`
	Until string `json:"until"`
	Label string `json:"label"`
}

// Days lists every day key in the window, oldest first.
func (w Window) Days() []string {
	start, err := time.ParseInLocation(DateLayout, w.Since, time.Local)
	if err != nil {
		return nil
	}
	end, err := time.ParseInLocation(DateLayout, w.Until, time.Local)
	if err != nil {
		return nil
	}
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days
}

// Contains reports whether the day key falls inside the window.
func (w Window) Contains(date string) bool {
	return date >= w.Since && date <= w.Until
}

// ParseWindow turns a compact span such as "1w", "3d" or "1w2d" into the
// window of days ending on the day of now. Spans shorter than a day cover
// today only. An empty input selects DefaultWindow.
func ParseWindow(input string, now time.Time) (Window, error) {
	span, label, err := parseSpan(input)
	if err != nil {
		return Window{}, err
	}
	days := int(span / day)
	if days < 1 {
		days = 1
	}
	until := now.Local()
	since := until.AddDate(0, 0, -(days - 1))
	return Window{
		Since: since.Format(DateLayout),
		Until: until.Format(DateLayout),
		Label: label,
	}, nil
}

func parseSpan(input string) (time.Duration, string, error) {
	remaining := strings.ToLower(strings.TrimSpace(input))
	if remaining == "" {
		remaining = DefaultWindow
	}
	var total time.Duration
	for len(remaining) > 0 {
		m := windowSegment.FindStringSubmatch(remaining)
		if len(m) != 3 {
			return 0, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, "", fmt.Errorf("invalid window value %q: %w", m[1], err)
		}
		unit, ok := windowUnits[m[2]]
		if !ok {
			return 0, "", fmt.Errorf("unsupported window unit %q", m[2])
		}
		total += time.Duration(n) * unit
		remaining = remaining[len(m[0]):]
	}
	if total <= 0 {
		return 0, "", fmt.Errorf("window must be greater than zero")
	}
	return total, FormatWindow(total), nil
}

// FormatWindow renders d with week, day and hour tokens, e.g. "1w2d".
func FormatWindow(d time.Duration) string {
	if d <= 0 {
		return "0h"
	}
	units := []struct {
		label string
		value time.Duration
	}{
		{"w", 7 * day},
		{"d", day},
		{"h", time.Hour},
	}
	var b strings.Builder
	for _, u := range units {
		if d < u.value {
			continue
		}
		n := d / u.value
		d -= n * u.value
		fmt.Fprintf(&b, "%d%s", n, u.label)
	}
	if b.Len() == 0 {
		return "0h"
	}
	return b.String()
}
