package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/status"
)

func addStatus(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	fo := &options.FollowOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the notes, timers and totals of a day.",
		Example: `
worklog status
worklog status --follow
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				st := status.Status{Service: s.svc, Watcher: s.disk, Follow: fo.Follow}
				return st.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	options.AddFollowArg(cmd, fo)
	topLevel.AddCommand(cmd)
}
