// Package repair drops corrupt records and upgrades legacy ones.
package repair

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/worklog/pkg/app"
)

// Repair reports, and unless DryRun is set fixes, what is wrong in the
// store. Corrupt records were already dropped when the session started, so
// only legacy records remain to be found here.
type Repair struct {
	Service *app.Service
	// Dropped is what the session start removed.
	Dropped int
	DryRun  bool
	Out     io.Writer
}

func (r *Repair) Do(ctx context.Context) error {
	out := r.Out
	if out == nil {
		out = color.Output
	}
	_, _ = fmt.Fprintf(out, "corrupt records dropped: %d\n", r.Dropped)

	if r.DryRun {
		pending, err := r.Service.PendingMigrations(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "days with legacy notes: %d\n", len(pending))
		for _, d := range pending {
			_, _ = fmt.Fprintf(out, "  %s\n", d)
		}
		return nil
	}

	res, err := r.Service.Migrate(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "legacy notes upgraded: %d across %d days\n", res.Records, len(res.Dates))
	return nil
}
