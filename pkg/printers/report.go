package printers

import (
	"fmt"

	"github.com/gosuri/uitable"

	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
)

// ReportSection is one day of completed notes.
type ReportSection struct {
	Date  string
	Notes []repository.DatedRecord
}

// Report prints completed notes grouped by day.
func (pp *PrettyPrint) Report(win timefmt.Window, sections []ReportSection) {
	title := "Report · all days"
	if win.Since != "" {
		title = fmt.Sprintf("Report · last %s (%s to %s)", win.Label, win.Since, win.Until)
	}
	total := 0
	for _, s := range sections {
		total += len(s.Notes)
	}
	pp.TitleWithCount(title, total, "completed note")
	if total == 0 {
		pp.none()
		return
	}
	now := pp.now()
	for _, s := range sections {
		_, _ = fmt.Fprintln(pp.out(), s.Date)
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 40
		var day int64
		for _, r := range s.Notes {
			n := note.FromRecord(r.Date, r.Number, r.Record)
			secs := n.ElapsedSeconds(now)
			day += secs
			tbl.AddRow("  #"+fmt.Sprint(r.Number), n.ProjectID, n.OperationID, timefmt.FormatSeconds(secs))
		}
		tbl.AddRow("", "", "", timefmt.FormatSeconds(day))
		_, _ = fmt.Fprintln(pp.out(), tbl)
	}
	pp.NewLine()
}
