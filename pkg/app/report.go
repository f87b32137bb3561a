package app

import (
	"context"

	"tableflip.dev/worklog/pkg/repository"
	"tableflip.dev/worklog/pkg/timefmt"
)

// ReportSection groups the completed notes of one day.
type ReportSection struct {
	Date  string
	Notes []repository.DatedRecord
}

// ReportResult holds the completed notes of a window.
type ReportResult struct {
	Window   timefmt.Window
	Sections []ReportSection
	Total    int
}

// Records flattens the report in day then number order.
func (r ReportResult) Records() []repository.DatedRecord {
	out := make([]repository.DatedRecord, 0, r.Total)
	for _, sec := range r.Sections {
		out = append(out, sec.Notes...)
	}
	return out
}

// Report returns the completed notes of the days inside w. A zero window
// covers every stored day.
func (s *Service) Report(ctx context.Context, w timefmt.Window) (ReportResult, error) {
	res := ReportResult{Window: w}
	all := w.Since == "" && w.Until == ""
	for _, rec := range s.NotesRepo.AllCompletedNotes(ctx) {
		if !all && !w.Contains(rec.Date) {
			continue
		}
		n := len(res.Sections)
		if n == 0 || res.Sections[n-1].Date != rec.Date {
			res.Sections = append(res.Sections, ReportSection{Date: rec.Date})
			n++
		}
		res.Sections[n-1].Notes = append(res.Sections[n-1].Notes, rec)
		res.Total++
	}
	return res, ctx.Err()
}
