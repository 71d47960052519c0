package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a note stamped with the current time",
		Long:  `Add joins its arguments with spaces and stores them as a new, not completed note.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			note, err := store.Add(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("add note: %w", err)
			}

			fmt.Fprintf(a.stdout, "Added: %s\n", firstLine(note.Text))
			return nil
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var hide bool

	cmd := &cobra.Command{
		Use:   "edit <n> <text>...",
		Short: "Replace the text of note n and restamp it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			target, err := resolveRef(store, args[0], a.hide(cmd, hide))
			if err != nil {
				return err
			}

			note, err := store.Edit(cmd.Context(), target.ID, strings.Join(args[1:], " "))
			if err != nil {
				return fmt.Errorf("edit note: %w", err)
			}

			fmt.Fprintf(a.stdout, "Edited: %s\n", firstLine(note.Text))
			return nil
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	return cmd
}

func newToggleCmd(a *app) *cobra.Command {
	var hide bool

	cmd := &cobra.Command{
		Use:   "toggle <n>",
		Short: "Flip the completion flag of note n",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			target, err := resolveRef(store, args[0], a.hide(cmd, hide))
			if err != nil {
				return err
			}

			note, err := store.Toggle(cmd.Context(), target.ID)
			if err != nil {
				return fmt.Errorf("toggle note: %w", err)
			}

			state := "not completed"
			if note.Completed {
				state = "completed"
			}
			fmt.Fprintf(a.stdout, "Marked %s: %s\n", state, firstLine(note.Text))
			return nil
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var hide bool

	cmd := &cobra.Command{
		Use:   "delete <n>",
		Short: "Delete note n permanently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			target, err := resolveRef(store, args[0], a.hide(cmd, hide))
			if err != nil {
				return err
			}

			if err := store.Delete(cmd.Context(), target.ID); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}

			fmt.Fprintf(a.stdout, "Deleted: %s\n", firstLine(target.Text))
			return nil
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	return cmd
}

func firstLine(text string) string {
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return text[:i] + " …"
	}
	return text
}
