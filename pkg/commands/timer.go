package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/runner/timers"
	"tableflip.dev/worklog/pkg/timer"
)

func categoryNames() []string {
	names := make([]string, 0, len(timer.Categories()))
	for _, c := range timer.Categories() {
		names = append(names, string(c))
	}
	return names
}

func categoryArg(c *timer.Category, want int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != want {
			return fmt.Errorf("requires a category, one of %s", strings.Join(categoryNames(), ", "))
		}
		var err error
		*c, err = timer.ParseCategory(args[0])
		return err
	}
}

func addTimer(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "timer",
		Aliases: []string{"timers"},
		Short:   "Start, stop and edit the off-platform timers.",
		Long: base.Wrap80(`Off-platform timers track time spent away from notes. At most one
category runs per day: starting one stops the others. Categories: ` + strings.Join(categoryNames(), ", ") + "."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addTimerStart(cmd)
	addTimerStop(cmd)
	addTimerEdit(cmd)
	addTimerStatus(cmd)

	topLevel.AddCommand(cmd)
}

func addTimerStart(parent *cobra.Command) {
	do := &options.DateOptions{}
	var category timer.Category

	cmd := &cobra.Command{
		Use:       "start <category>",
		Short:     "Start a category timer.",
		Example:   "\nworklog timer start sheetwork\n",
		Args:      categoryArg(&category, 1),
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				st := timers.Start{Service: s.svc, Category: category}
				return st.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}

func addTimerStop(parent *cobra.Command) {
	do := &options.DateOptions{}
	var category timer.Category
	all := false

	cmd := &cobra.Command{
		Use:   "stop [category]",
		Short: "Stop a category timer.",
		Example: `
worklog timer stop sheetwork
worklog timer stop --all
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all {
				if len(args) > 0 {
					return errors.New("--all takes no category")
				}
				return nil
			}
			return categoryArg(&category, 1)(cmd, args)
		},
		ValidArgs: categoryNames(),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				if all {
					stopped := s.svc.Timers.StopAllTimers("")
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d timers stopped\n", len(stopped))
					return nil
				}
				st := timers.Stop{Service: s.svc, Category: category}
				return st.Do(ctx)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Stop every running category.")
	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}

func addTimerEdit(parent *cobra.Command) {
	do := &options.DateOptions{}
	var category timer.Category
	var value string

	cmd := &cobra.Command{
		Use:   "edit <category> <HH:MM:SS>",
		Short: "Overwrite the total of a category timer.",
		Example: `
worklog timer edit blocked 00:30:00
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a category and a time")
			}
			value = args[1]
			return categoryArg(&category, 1)(cmd, args[:1])
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				e := timers.Edit{Service: s.svc, Category: category, Value: value}
				return e.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}

func addTimerStatus(parent *cobra.Command) {
	do := &options.DateOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"ls"},
		Short:   "Show every category timer of a day.",
		Example: `
worklog timer status
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(do, func(ctx context.Context, s *session) error {
				st := timers.Status{Service: s.svc, JSON: oo.JSON}
				return st.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddDateArg(cmd, do)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}
