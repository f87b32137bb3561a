// Package export writes stored notes as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
)

// Header is the first CSV row.
var Header = []string{
	"Date",
	"Note ID",
	"Project ID",
	"Attempt ID",
	"Operation ID",
	"Start Timestamp",
	"End Timestamp",
	"Duration",
	"Canceled",
	"Failing Issues",
	"Non-Failing Issues",
	"Discussion",
}

// FileName is the suggested name of an export made at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("worklog-%s.csv", timefmt.Today(now))
}

// WriteCSV writes a header and one row per record. Open timers are measured
// up to now. Fields with a comma, quote or newline are quoted, and so are
// fields starting with a space.
func WriteCSV(w io.Writer, records []repository.DatedRecord, now time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(Row(r, now)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row renders one record.
func Row(r repository.DatedRecord, now time.Time) []string {
	n := note.FromRecord(r.Date, r.Number, r.Record)
	canceled := "No"
	if n.Canceled {
		canceled = "Yes"
	}
	return []string{
		r.Date,
		strconv.Itoa(r.Number),
		n.ProjectID,
		n.AttemptID,
		n.OperationID,
		stamp(n.Timer.Start),
		stamp(n.Timer.End),
		timefmt.FormatSeconds(n.ElapsedSeconds(now)),
		canceled,
		n.FailingIssues,
		n.NonFailingIssues,
		n.Discussion,
	}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.RFC3339)
}
