// Package export writes completed notes to a CSV file.
package export

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	csvexport "tableflip.dev/worklog/pkg/export"
	"tableflip.dev/worklog/pkg/timefmt"
)

// Export writes the completed notes of Window, or of every day when All is
// set, to Path. Path "-" writes to Out. An empty Path picks a dated file
// name in the working directory.
type Export struct {
	Service *app.Service
	Window  string
	All     bool
	Path    string
	Out     io.Writer
}

func (e *Export) Do(ctx context.Context) error {
	out := e.Out
	if out == nil {
		out = color.Output
	}

	var win timefmt.Window
	if !e.All {
		var err error
		win, err = timefmt.ParseWindow(e.Window, e.Service.Now())
		if err != nil {
			return err
		}
	}
	report, err := e.Service.Report(ctx, win)
	if err != nil {
		return err
	}
	records := report.Records()

	if e.Path == "-" {
		return csvexport.WriteCSV(out, records, e.Service.Now())
	}
	path := e.Path
	if path == "" {
		path = csvexport.FileName(e.Service.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csvexport.WriteCSV(f, records, e.Service.Now()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "exported %d notes to %s\n", len(records), path)
	return nil
}
