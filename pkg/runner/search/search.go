// Package search runs note searches.
package search

import (
	"context"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
	"tableflip.dev/worklog/pkg/printers"
)

// Search matches a query against the IDs of every stored note.
type Search struct {
	Service *app.Service
	Query   string
	JSON    bool
	Out     io.Writer
}

func (s *Search) Do(ctx context.Context) error {
	results := s.Service.Search.Search(ctx, s.Query)
	if s.JSON {
		w := s.Out
		if w == nil {
			w = color.Output
		}
		return printers.JSON(w, printers.ViewRecords(results, s.Service.Now()))
	}
	pp := printers.PrettyPrint{Out: s.Out, Now: s.Service.Now()}
	pp.SearchResults(s.Service.Search.Query(), results)
	return ctx.Err()
}
