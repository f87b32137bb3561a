// Package report prints recently completed notes.
package report

import (
	"context"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/timefmt"
)

type Report struct {
	Service *app.Service
	Window  string
	All     bool
	JSON    bool
	Out     io.Writer
}

func (r *Report) Do(ctx context.Context) error {
	var win timefmt.Window
	if !r.All {
		var err error
		if win, err = timefmt.ParseWindow(r.Window, r.Service.Now()); err != nil {
			return err
		}
	}
	res, err := r.Service.Report(ctx, win)
	if err != nil {
		return err
	}
	if r.JSON {
		out := r.Out
		if out == nil {
			out = color.Output
		}
		return printers.JSON(out, printers.ViewRecords(res.Records(), r.Service.Now()))
	}

	sections := make([]printers.ReportSection, 0, len(res.Sections))
	for _, s := range res.Sections {
		sections = append(sections, printers.ReportSection{Date: s.Date, Notes: s.Notes})
	}
	pp := printers.PrettyPrint{Out: r.Out, Now: r.Service.Now()}
	pp.Report(res.Window, sections)
	return nil
}
