package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/aretw0/timednotes/pkg/codec"
	"github.com/aretw0/timednotes/pkg/core"
)

// listItem is the JSON shape of a listed note.
type listItem struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Completed bool   `json:"completed"`
}

func newListCmd(a *app) *cobra.Command {
	var (
		hide   bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			view := store.View(a.hide(cmd, hide))
			if asJSON {
				return writeJSON(a.stdout, view)
			}
			renderList(a.stdout, view)
			return nil
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func writeJSON(w io.Writer, view []core.Note) error {
	items := make([]listItem, 0, len(view))
	for i, n := range view {
		items = append(items, listItem{
			Index:     i + 1,
			ID:        n.ID,
			Text:      n.Text,
			Timestamp: codec.FormatTimestamp(n.Timestamp),
			Completed: n.Completed,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(items); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

// renderList prints one numbered line per note. Continuation lines of
// multiline text are indented under the first.
func renderList(w io.Writer, view []core.Note) {
	if len(view) == 0 {
		fmt.Fprintln(w, "No notes.")
		return
	}

	r := lipgloss.NewRenderer(w)
	indexStyle := r.NewStyle().Bold(true)
	timeStyle := r.NewStyle().Faint(true)
	doneStyle := r.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))

	width := len(fmt.Sprint(len(view)))
	for i, n := range view {
		box := "[ ]"
		text := n.Text
		if n.Completed {
			box = "[x]"
		}

		prefix := fmt.Sprintf("%*d. %s %s  ", width, i+1, box, codec.FormatTimestamp(n.Timestamp))
		indent := strings.Repeat(" ", len(prefix))
		lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
		for j, line := range lines {
			if n.Completed {
				line = doneStyle.Render(line)
			}
			if j == 0 {
				fmt.Fprintf(w, "%s %s %s  %s\n",
					indexStyle.Render(fmt.Sprintf("%*d.", width, i+1)), box,
					timeStyle.Render(codec.FormatTimestamp(n.Timestamp)), line)
				continue
			}
			fmt.Fprintf(w, "%s%s\n", indent, line)
		}
	}
}
