package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/runner/repair"
)

func addRepair(topLevel *cobra.Command) {
	dryRun := false

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Drop corrupt records and upgrade legacy notes.",
		Example: `
worklog repair
worklog repair --dry-run
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(nil, func(ctx context.Context, s *session) error {
				r := repair.Repair{Service: s.svc, Dropped: s.dropped, DryRun: dryRun}
				return r.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only list the days holding legacy notes.")
	topLevel.AddCommand(cmd)
}
