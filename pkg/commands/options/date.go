// Package options defines shared flag helpers for CLI commands.
package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/timefmt"
)

// DateOptions selects the day a command acts on.
type DateOptions struct {
	Date string
}

func AddDateArg(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVarP(&o.Date, "date", "d", "",
		`Day to act on, example: --date="2024-03-05". Defaults to today.`)
}

// GetDate returns the validated day, or "" when the flag was not set.
func (o *DateOptions) GetDate() (string, error) {
	if o.Date == "" {
		return "", nil
	}
	return timefmt.ParseDate(o.Date)
}
