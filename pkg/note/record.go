package note

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/bytedance/sonic"

	"tableflip.dev/worklog/pkg/timefmt"
)

// Schema versions understood by Decode.
const (
	// SchemaLegacy records kept all issue text in a single "text" field.
	SchemaLegacy = 0
	// SchemaCurrent is the only shape ever written.
	SchemaCurrent = 1
)

// ErrCorrupt marks a stored value that is null, not an object, or not
// decodable as a note.
var ErrCorrupt = errors.New("note: corrupt record")

// Record is the persisted shape of a note, stored under its number inside the
// JSON object kept for its day.
type Record struct {
	StartTimestamp   *int64 `json:"startTimestamp"`
	EndTimestamp     *int64 `json:"endTimestamp"`
	AdditionalTime   int64  `json:"additionalTime"`
	HasStarted       bool   `json:"hasStarted"`
	Completed        bool   `json:"completed"`
	Canceled         bool   `json:"canceled"`
	ProjectID        string `json:"projectID"`
	AttemptID        string `json:"attemptID"`
	OperationID      string `json:"operationID"`
	FailingIssues    string `json:"failingIssues"`
	NonFailingIssues string `json:"nonFailingIssues"`
	Discussion       string `json:"discussion"`
}

type legacyRecord struct {
	Record
	Text *string `json:"text"`
}

// Decode reads one stored note value, migrating older schemas to the current
// one. It returns the schema that was detected.
func Decode(raw []byte) (Record, int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, 0, ErrCorrupt
	}
	var lr legacyRecord
	if err := sonic.Unmarshal(trimmed, &lr); err != nil {
		return Record{}, 0, errors.Join(ErrCorrupt, err)
	}
	if lr.Text != nil {
		return migrateLegacy(*lr.Text, lr.Record), SchemaLegacy, nil
	}
	return lr.Record, SchemaCurrent, nil
}

func migrateLegacy(text string, r Record) Record {
	return Record{
		StartTimestamp: r.StartTimestamp,
		EndTimestamp:   r.EndTimestamp,
		AdditionalTime: r.AdditionalTime,
		HasStarted:     r.HasStarted,
		Completed:      r.Completed,
		Canceled:       r.Canceled,
		FailingIssues:  text,
	}
}

// Encode writes r in the current schema.
func Encode(r Record) (json.RawMessage, error) {
	return sonic.Marshal(r)
}

// Record converts n into its persisted shape.
func (n *Note) Record() Record {
	return Record{
		StartTimestamp:   millisPtr(n.Timer.Start),
		EndTimestamp:     millisPtr(n.Timer.End),
		AdditionalTime:   n.Timer.Additional,
		HasStarted:       n.Timer.HasStarted,
		Completed:        n.Completed,
		Canceled:         n.Canceled,
		ProjectID:        n.ProjectID,
		AttemptID:        n.AttemptID,
		OperationID:      n.OperationID,
		FailingIssues:    n.FailingIssues,
		NonFailingIssues: n.NonFailingIssues,
		Discussion:       n.Discussion,
	}
}

// FromRecord builds the live note for a stored record.
func FromRecord(date string, number int, r Record) *Note {
	return &Note{
		Number:    number,
		Date:      date,
		Completed: r.Completed,
		Canceled:  r.Canceled,
		Timer: Timer{
			Start:      timefmt.FromMillis(deref(r.StartTimestamp)),
			End:        timefmt.FromMillis(deref(r.EndTimestamp)),
			Additional: r.AdditionalTime,
			HasStarted: r.HasStarted,
		},
		ProjectID:        r.ProjectID,
		AttemptID:        r.AttemptID,
		OperationID:      r.OperationID,
		FailingIssues:    r.FailingIssues,
		NonFailingIssues: r.NonFailingIssues,
		Discussion:       r.Discussion,
	}
}

// IsBlank reports whether the record has no content.
func (r Record) IsBlank() bool {
	return FromRecord("", 0, r).IsBlank()
}

func millisPtr(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
