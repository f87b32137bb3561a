package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/report"
	"tableflip.dev/worklog/pkg/timefmt"
)

func addReport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Display recently completed notes grouped by day",
		Example: `
worklog report
worklog report --window 3d
worklog report --all --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(nil, func(ctx context.Context, s *session) error {
				r := report.Report{Service: s.svc, Window: wo.Window, All: wo.All, JSON: oo.JSON}
				return r.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddWindowArgs(cmd, wo, timefmt.DefaultWindow)
	options.AddAllArg(cmd, wo)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
