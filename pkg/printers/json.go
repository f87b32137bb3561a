package printers

import (
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

// NoteView is the JSON form of a note.
type NoteView struct {
	Date             string `json:"date"`
	Number           int    `json:"number"`
	Label            string `json:"label"`
	Status           string `json:"status"`
	Completed        bool   `json:"completed"`
	Canceled         bool   `json:"canceled"`
	Running          bool   `json:"running"`
	Elapsed          string `json:"elapsed"`
	ElapsedSeconds   int64  `json:"elapsedSeconds"`
	ProjectID        string `json:"projectID"`
	AttemptID        string `json:"attemptID"`
	OperationID      string `json:"operationID"`
	FailingIssues    string `json:"failingIssues"`
	NonFailingIssues string `json:"nonFailingIssues"`
	Discussion       string `json:"discussion"`
}

// ViewNote converts n with its timer read at now.
func ViewNote(n *note.Note, now time.Time) NoteView {
	secs := n.ElapsedSeconds(now)
	return NoteView{
		Date:             n.Date,
		Number:           n.Number,
		Label:            n.DisplayLabel(),
		Status:           Status(n),
		Completed:        n.Completed,
		Canceled:         n.Canceled,
		Running:          n.Timer.IsRunning(),
		Elapsed:          timefmt.FormatSeconds(secs),
		ElapsedSeconds:   secs,
		ProjectID:        n.ProjectID,
		AttemptID:        n.AttemptID,
		OperationID:      n.OperationID,
		FailingIssues:    n.FailingIssues,
		NonFailingIssues: n.NonFailingIssues,
		Discussion:       n.Discussion,
	}
}

// ViewNotes converts a list of notes.
func ViewNotes(notes []*note.Note, now time.Time) []NoteView {
	out := make([]NoteView, 0, len(notes))
	for _, n := range notes {
		out = append(out, ViewNote(n, now))
	}
	return out
}

// ViewRecords converts stored records, such as search results.
func ViewRecords(records []repository.DatedRecord, now time.Time) []NoteView {
	out := make([]NoteView, 0, len(records))
	for _, r := range records {
		out = append(out, ViewNote(note.FromRecord(r.Date, r.Number, r.Record), now))
	}
	return out
}

// TimerView is the JSON form of a category timer.
type TimerView struct {
	Category string `json:"category"`
	Running  bool   `json:"running"`
	Elapsed  string `json:"elapsed"`
	Seconds  int64  `json:"seconds"`
}

// ViewTimers converts every category in display order.
func ViewTimers(records map[timer.Category]timer.Record, now time.Time) []TimerView {
	out := make([]TimerView, 0, len(records))
	for _, c := range timer.Categories() {
		rec := records[c]
		secs := rec.CurrentSeconds(now)
		out = append(out, TimerView{
			Category: string(c),
			Running:  rec.IsRunning(),
			Elapsed:  timefmt.FormatSeconds(secs),
			Seconds:  secs,
		})
	}
	return out
}

// JSON writes v indented, followed by a newline.
func JSON(w io.Writer, v interface{}) error {
	b, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
