package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/worklog/pkg/commands/options"
	"tableflip.dev/worklog/pkg/note"
	"tableflip.dev/worklog/pkg/printers"
	"tableflip.dev/worklog/pkg/prompt"
	"tableflip.dev/worklog/pkg/runner/notes"
)

func addNotes(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"ls", "list"},
		Short:   "List the notes of a day.",
		Example: `
worklog notes
worklog notes --date 2024-03-05 --json
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(do, func(ctx context.Context, s *session) error {
				l := notes.List{Service: s.svc, JSON: oo.JSON}
				return l.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddDateArg(cmd, do)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addNote(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Work with a single note.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	addNoteShow(cmd)
	addNoteSet(cmd)
	addNoteEdit(cmd)
	addNoteComplete(cmd, "complete", false)
	addNoteComplete(cmd, "cancel", true)
	addNoteDelete(cmd)
	addNoteTime(cmd)
	addNoteCopy(cmd)

	topLevel.AddCommand(cmd)
}

func numberArg(no *options.NoteOptions, min int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < min {
			return errors.New("requires a note number")
		}
		return no.ParseNumber(args[0])
	}
}

func addNoteShow(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "show <number>",
		Short: "Print every field of a note.",
		Example: `
worklog note show 2
`,
		Args: numberArg(no, 1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			err := withSession(do, func(ctx context.Context, s *session) error {
				sh := notes.Show{Service: s.svc, Number: no.Number, JSON: oo.JSON}
				return sh.Do(ctx)
			})
			return oo.HandleError(err)
		},
	}

	options.AddDateArg(cmd, do)
	options.AddOutputArg(cmd, oo)
	parent.AddCommand(cmd)
}

func fieldNames() []string {
	names := make([]string, 0, len(note.Fields()))
	for _, f := range note.Fields() {
		names = append(names, string(f))
	}
	return names
}

func addNoteSet(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}
	i := &options.InteractiveOptions{}
	var field note.Field
	var value string

	long := strings.Builder{}
	long.WriteString("Set a field of an open note. The first content starts the note timer.\n\n")
	long.WriteString("Fields:\n")
	for _, f := range note.Fields() {
		long.WriteString(fmt.Sprintf("  %s (%s)\n", f, printers.FieldTitle(f)))
	}

	cmd := &cobra.Command{
		Use:   "set <number> <field> <value...>",
		Short: "Set a field of a note.",
		Long:  long.String(),
		Example: `
worklog note set 1 projectID PRJ-42
worklog note set 1 discussion talked it through with the reviewer
worklog note set 1 -i
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := numberArg(no, 1)(cmd, args); err != nil {
				return err
			}
			if i.Interactive {
				return nil
			}
			if len(args) < 3 {
				return errors.New("requires a field and a value")
			}
			var err error
			if field, err = note.ParseField(args[1]); err != nil {
				return err
			}
			value = strings.Join(args[2:], " ")
			return nil
		},
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return fieldNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				if i.Interactive {
					n := s.svc.Notes.Note(no.Number, "")
					if n == nil {
						return fmt.Errorf("%w: %s #%d", notes.ErrNotFound, s.svc.Date(), no.Number)
					}
					p := &prompt.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
					var err error
					if field, err = p.Field(n, printers.FieldTitle); err != nil {
						return err
					}
					if value, err = p.Value(printers.FieldTitle(field), n.Get(field)); err != nil {
						return err
					}
				}
				st := notes.Set{Service: s.svc, Number: no.Number, Field: field, Value: value}
				return st.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	options.InteractiveArgs(cmd, i)
	parent.AddCommand(cmd)
}

func addNoteEdit(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}

	cmd := &cobra.Command{
		Use:     "edit <number>",
		Aliases: []string{"reopen"},
		Short:   "Reopen a completed note and resume its timer.",
		Example: `
worklog note edit 3
`,
		Args: numberArg(no, 1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				e := notes.Edit{Service: s.svc, Number: no.Number}
				return e.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}

func addNoteComplete(parent *cobra.Command, use string, cancel bool) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}
	co := &options.CancelOptions{Cancel: cancel}

	short := "Save a note and stop its timer."
	aliases := []string{"done", "save"}
	if cancel {
		short = "Cancel a note. Canceled notes keep no display number."
		aliases = nil
	}

	cmd := &cobra.Command{
		Use:     use + " <number>",
		Aliases: aliases,
		Short:   short,
		Example: fmt.Sprintf(`
worklog note %s 1
`, use),
		Args: numberArg(no, 1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				c := notes.Complete{Service: s.svc, Number: no.Number, Cancel: co.Cancel}
				return c.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	if !cancel {
		options.AddCancelArg(cmd, co)
	}
	parent.AddCommand(cmd)
}

func addNoteDelete(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}
	yo := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:     "delete <number>",
		Aliases: []string{"rm"},
		Short:   "Delete a note and renumber the rest of the day.",
		Example: `
worklog note delete 2
worklog note delete 2 --yes
`,
		Args: numberArg(no, 1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				d := notes.Delete{Service: s.svc, Number: no.Number}
				if !yo.Yes {
					p := &prompt.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
					d.Confirm = p.Confirm
				}
				return d.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	options.AddConfirmArg(cmd, yo)
	parent.AddCommand(cmd)
}

func addNoteTime(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}
	var value string

	cmd := &cobra.Command{
		Use:   "time <number> <HH:MM:SS>",
		Short: "Set the timer reading of a note.",
		Example: `
worklog note time 1 01:15:00
worklog note time 1 45:00
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires a note number and a time")
			}
			value = args[1]
			return no.ParseNumber(args[0])
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				t := notes.Time{Service: s.svc, Number: no.Number, Value: value}
				return t.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}

func addNoteCopy(parent *cobra.Command) {
	do := &options.DateOptions{}
	no := &options.NoteOptions{}

	cmd := &cobra.Command{
		Use:   "copy <number>",
		Short: "Copy a plain text summary of a note to the clipboard.",
		Example: `
worklog note copy 1
`,
		Args: numberArg(no, 1),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return withSession(do, func(ctx context.Context, s *session) error {
				c := notes.Copy{Service: s.svc, Number: no.Number}
				return c.Do(ctx)
			})
		},
	}

	options.AddDateArg(cmd, do)
	parent.AddCommand(cmd)
}
