package options

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NoteOptions identifies a note of the selected day.
type NoteOptions struct {
	Number int
}

// ParseNumber reads a note number argument.
func (o *NoteOptions) ParseNumber(arg string) error {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return fmt.Errorf("invalid note number %q", arg)
	}
	o.Number = n
	return nil
}

// CancelOptions picks between saving and canceling.
type CancelOptions struct {
	Cancel bool
}

func AddCancelArg(cmd *cobra.Command, o *CancelOptions) {
	cmd.Flags().BoolVar(&o.Cancel, "cancel", false,
		"Mark the note canceled. Cancellation cannot be undone.")
}
