package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "worklog",
		Short: base.Wrap80("Timed work notes and off-platform timers on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addNotes(topLevel)
	addNote(topLevel)
	addTimer(topLevel)
	addSearch(topLevel)
	addStats(topLevel)
	addExport(topLevel)
	addReport(topLevel)
	addBackup(topLevel)
	addStatus(topLevel)
	addMCP(topLevel)
	addRepair(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
	addUpgrade(topLevel)
}
