package options

import (
	"github.com/spf13/cobra"
)

// WindowOptions selects a span of days ending today.
type WindowOptions struct {
	Window string
	All    bool
}

func AddWindowArgs(cmd *cobra.Command, o *WindowOptions, def string) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", def,
		`Span of days ending today, example: --window=2w3d. Units: h, d, w.`)
}

func AddAllArg(cmd *cobra.Command, o *WindowOptions) {
	cmd.Flags().BoolVar(&o.All, "all", false,
		"Include every stored day.")
}
