// Package prompt asks for confirmations and note fields on the terminal.
package prompt

import (
	"errors"
	"io"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/worklog/pkg/note"
)

// Prompter reads answers from In and draws on Out.
type Prompter struct {
	In  io.Reader
	Out io.Writer
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func (p *Prompter) stdin() io.ReadCloser {
	if p.In == nil {
		return nil
	}
	return io.NopCloser(p.In)
}

func (p *Prompter) stdout() io.WriteCloser {
	if p.Out == nil {
		return nil
	}
	return nopWriteCloser{p.Out}
}

// Confirm asks a yes/no question. Answering no is not an error.
func (p *Prompter) Confirm(label string) (bool, error) {
	q := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	if _, err := q.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FieldItem is one row of the field picker.
type FieldItem struct {
	Field   note.Field
	Title   string
	Current string
}

// Field lets the user pick a note field, showing the current values.
func (p *Prompter) Field(n *note.Note, title func(note.Field) string) (note.Field, error) {
	items := make([]FieldItem, 0, len(note.Fields()))
	for _, f := range note.Fields() {
		items = append(items, FieldItem{Field: f, Title: title(f), Current: n.Get(f)})
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .Title | bold }} {{ .Current | green }}",
		Inactive: "   {{ .Title }} {{ .Current | cyan }}",
		Selected: "{{ .Title | bold }}",
		Details: `
--------- Current ---------
{{ .Current }}
`,
	}

	sel := promptui.Select{
		HideHelp:  true,
		Label:     "Field",
		Items:     items,
		Templates: templates,
		Size:      len(items),
		Searcher:  searchItems(items),
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	i, _, err := sel.Run()
	if err != nil {
		return "", err
	}
	return items[i].Field, nil
}

// searchItems matches typed input against item titles, ignoring case and
// spaces.
func searchItems(items []FieldItem) func(input string, index int) bool {
	return func(input string, index int) bool {
		name := strings.ToLower(strings.ReplaceAll(items[index].Title, " ", ""))
		input = strings.ToLower(strings.ReplaceAll(input, " ", ""))
		return strings.Contains(name, input)
	}
}

// Value asks for a field value, starting from current.
func (p *Prompter) Value(label, current string) (string, error) {
	q := promptui.Prompt{
		Label:     label,
		Default:   current,
		AllowEdit: true,
		Stdin:     p.stdin(),
		Stdout:    p.stdout(),
	}
	return q.Run()
}
