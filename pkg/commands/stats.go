package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/stats"
)

func addStats(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	wo := &options.WindowOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize notes and time for a day or a window of days.",
		Example: `
worklog stats
worklog stats --date 2024-03-05
worklog stats --window 2w
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(do, func(ctx context.Context, s *session) error {
				st := stats.Stats{Service: s.svc, Window: wo.Window, JSON: oo.JSON}
				return st.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddDateArg(cmd, do)
	options.AddWindowArgs(cmd, wo, "")
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
