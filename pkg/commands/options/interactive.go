package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Interactive input of fields.`)
}

// ConfirmOptions skips confirmation prompts.
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArg(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Do not ask for confirmation.")
}

// FollowOptions keeps a command running and redrawing.
type FollowOptions struct {
	Follow bool
}

func AddFollowArg(cmd *cobra.Command, o *FollowOptions) {
	cmd.Flags().BoolVarP(&o.Follow, "follow", "f", false,
		"Keep running and redraw on every change and once a second.")
}
