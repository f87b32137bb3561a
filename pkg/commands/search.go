package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/search"
)

func addSearch(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var query string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find notes by project, attempt or operation ID across every day.",
		Example: `
worklog search PRJ-42
`,
		Args: func(_ *cobra.Command, args []string) error {
			query = strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("requires a query")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(nil, func(ctx context.Context, s *session) error {
				sr := search.Search{Service: s.svc, Query: query, JSON: oo.JSON}
				return sr.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
