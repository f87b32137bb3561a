package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the store and where it lives.",
		Example: `
worklog info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(nil, func(ctx context.Context, s *session) error {
				i := info.Info{Config: s.cfg, Service: s.svc}
				return i.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
