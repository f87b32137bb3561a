// Package note defines the timed work note, its embedded timer and the
// persisted record shape.
package note

import (
	"fmt"
	"strings"
	"time"

	"tableflip.dev/worklog/pkg/timefmt"
)

// CanceledLabel replaces the display index of a canceled note.
const CanceledLabel = "Cancelled"

// Field names a free-text content field of a note.
type Field string

const (
	ProjectID        Field = "projectID"
	AttemptID        Field = "attemptID"
	OperationID      Field = "operationID"
	FailingIssues    Field = "failingIssues"
	NonFailingIssues Field = "nonFailingIssues"
	Discussion       Field = "discussion"
)

// Fields lists every content field in display order.
func Fields() []Field {
	return []Field{ProjectID, AttemptID, OperationID, FailingIssues, NonFailingIssues, Discussion}
}

// ParseField resolves a field name case-insensitively; "-" and "_" are ignored
// so "project-id" and "project_id" both match projectID.
func ParseField(s string) (Field, error) {
	want := normalizeFieldName(s)
	for _, f := range Fields() {
		if normalizeFieldName(string(f)) == want {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown note field %q", s)
}

func normalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}

// Key identifies a note by day and per-day number.
type Key struct {
	Date   string
	Number int
}

func (k Key) String() string {
	return fmt.Sprintf("%s#%d", k.Date, k.Number)
}

// Note is the live, in-memory form of a note.
type Note struct {
	Number int
	Date   string

	// DisplayIndex is the 1-based ordinal among non-canceled notes of the day.
	// It is zero for canceled notes.
	DisplayIndex int

	Completed bool
	Canceled  bool

	Timer Timer

	ProjectID        string
	AttemptID        string
	OperationID      string
	FailingIssues    string
	NonFailingIssues string
	Discussion       string
}

// New returns a blank note.
func New(date string, number int) *Note {
	return &Note{Date: date, Number: number}
}

// Key returns the composite key of n.
func (n *Note) Key() Key {
	return Key{Date: n.Date, Number: n.Number}
}

// Get returns the value of a content field.
func (n *Note) Get(f Field) string {
	switch f {
	case ProjectID:
		return n.ProjectID
	case AttemptID:
		return n.AttemptID
	case OperationID:
		return n.OperationID
	case FailingIssues:
		return n.FailingIssues
	case NonFailingIssues:
		return n.NonFailingIssues
	case Discussion:
		return n.Discussion
	}
	return ""
}

// Set assigns a content field. It reports false for unknown fields.
func (n *Note) Set(f Field, v string) bool {
	switch f {
	case ProjectID:
		n.ProjectID = v
	case AttemptID:
		n.AttemptID = v
	case OperationID:
		n.OperationID = v
	case FailingIssues:
		n.FailingIssues = v
	case NonFailingIssues:
		n.NonFailingIssues = v
	case Discussion:
		n.Discussion = v
	default:
		return false
	}
	return true
}

// IsBlank reports whether every content field is empty or whitespace.
func (n *Note) IsBlank() bool {
	for _, f := range Fields() {
		if strings.TrimSpace(n.Get(f)) != "" {
			return false
		}
	}
	return true
}

// IsEmpty is an incomplete note with no content: the writable blank note.
func (n *Note) IsEmpty() bool {
	return !n.Completed && n.IsBlank()
}

// IsInProgress is an incomplete note that already has content.
func (n *Note) IsInProgress() bool {
	return !n.Completed && !n.IsBlank()
}

// DisplayLabel is what a view shows in place of the note number.
func (n *Note) DisplayLabel() string {
	if n.Canceled {
		return CanceledLabel
	}
	return fmt.Sprintf("%d", n.DisplayIndex)
}

// ElapsedSeconds is the embedded timer reading at now.
func (n *Note) ElapsedSeconds(now time.Time) int64 {
	return n.Timer.ElapsedSeconds(now)
}

// Clone returns a copy that shares no state with n.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	cp := *n
	return &cp
}

// Summary is the plain-text form copied to the clipboard.
func (n *Note) Summary(now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", n.Date)
	fmt.Fprintf(&b, "Note: %s\n", n.DisplayLabel())
	fmt.Fprintf(&b, "Project ID: %s\n", n.ProjectID)
	fmt.Fprintf(&b, "Attempt ID: %s\n", n.AttemptID)
	fmt.Fprintf(&b, "Operation ID: %s\n", n.OperationID)
	fmt.Fprintf(&b, "Duration: %s\n", timefmt.FormatSeconds(n.ElapsedSeconds(now)))
	fmt.Fprintf(&b, "Failing Issues: %s\n", n.FailingIssues)
	fmt.Fprintf(&b, "Non-Failing Issues: %s\n", n.NonFailingIssues)
	fmt.Fprintf(&b, "Discussion: %s\n", n.Discussion)
	return b.String()
}
