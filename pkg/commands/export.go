package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/export"
	"tableflip.dev/worklog/pkg/timefmt"
)

func addExport(topLevel *cobra.Command) {
	wo := &options.WindowOptions{}
	path := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write completed notes to a CSV file.",
		Example: `
worklog export
worklog export --window 4w --file march.csv
worklog export --all --file -
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(nil, func(ctx context.Context, s *session) error {
				e := export.Export{Service: s.svc, Window: wo.Window, All: wo.All, Path: path, Out: cmd.OutOrStdout()}
				return e.Do(ctx)
			})
		},
	}

	options.AddWindowArgs(cmd, wo, timefmt.DefaultWindow)
	options.AddAllArg(cmd, wo)
	cmd.Flags().StringVar(&path, "file", "", `Output file. "-" writes to stdout. Defaults to worklog-<today>.csv.`)
	topLevel.AddCommand(cmd)
}
