package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/runner/backup"
)

func addBackup(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Send a snapshot of every stored key to the backup server.",
		Example: `
worklog backup
WORKLOG_BACKUP_URL=https://example.com/backup worklog backup
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(nil, func(ctx context.Context, s *session) error {
				b := backup.Backup{Service: s.svc}
				return b.Do(ctx)
			})
		},
	}

	topLevel.AddCommand(cmd)
}
