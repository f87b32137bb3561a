package printers

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/worklog/pkg/controller"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
	"tableflip.dev/worklog/pkg/timer"
)

// SearchResults prints matches newest first, as they were found.
func (pp *PrettyPrint) SearchResults(query string, results []repository.DatedRecord) {
	pp.TitleWithCount(fmt.Sprintf("Search %q", query), len(results), "match")
	if len(results) == 0 {
		pp.none()
		return
	}
	now := pp.now()
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	tbl.AddRow("DATE", "#", "STATUS", "PROJECT", "ATTEMPT", "OPERATION", "TIME")
	for _, r := range results {
		n := note.FromRecord(r.Date, r.Number, r.Record)
		st := Status(n)
		tbl.AddRow(r.Date, r.Number, pp.statusColor(st).Sprint(st), n.ProjectID, n.AttemptID, n.OperationID,
			timefmt.FormatSeconds(n.ElapsedSeconds(now)))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// DayStats prints the statistics of one day.
func (pp *PrettyPrint) DayStats(st controller.DayStats) {
	pp.Title(st.Date)
	pp.stats(st)
}

func (pp *PrettyPrint) stats(st controller.DayStats) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Notes", st.Notes)
	tbl.AddRow("  completed", st.Completed)
	tbl.AddRow("  canceled", st.Canceled)
	tbl.AddRow("  in progress", st.InProgress)
	tbl.AddRow("On platform", timefmt.FormatSeconds(st.OnPlatformSeconds))
	for _, c := range timer.Categories() {
		tbl.AddRow("  "+c.Title(), timefmt.FormatSeconds(st.OffPlatform[c]))
	}
	tbl.AddRow("Off platform", timefmt.FormatSeconds(st.OffPlatformSeconds))
	tbl.AddRow(pp.style(color.Bold).Sprint("Total"), pp.style(color.Bold).Sprint(timefmt.FormatSeconds(st.TotalSeconds)))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Summary prints a window: one line per active day, then the totals.
func (pp *PrettyPrint) Summary(sum controller.Summary) {
	pp.TitleWithCount(fmt.Sprintf("%s to %s (%s)", sum.Window.Since, sum.Window.Until, sum.Window.Label), len(sum.Days), "active day")
	if len(sum.Days) == 0 {
		pp.none()
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("DATE", "NOTES", "DONE", "ON", "OFF", "TOTAL")
	for _, d := range sum.Days {
		tbl.AddRow(d.Date, d.Notes, d.Completed,
			timefmt.FormatSeconds(d.OnPlatformSeconds),
			timefmt.FormatSeconds(d.OffPlatformSeconds),
			timefmt.FormatSeconds(d.TotalSeconds))
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
	pp.Title("Total")
	pp.stats(sum.Total)
}
