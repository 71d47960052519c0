package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCompleteVisibleCmd(a *app) *cobra.Command {
	var hide bool

	cmd := &cobra.Command{
		Use:   "complete-visible",
		Short: "Mark every listed note as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			changed, err := store.MarkAllVisibleCompleted(cmd.Context(), a.hide(cmd, hide))
			if err != nil {
				return fmt.Errorf("complete notes: %w", err)
			}

			fmt.Fprintf(a.stdout, "Marked %d note(s) as completed.\n", changed)
			return nil
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	return cmd
}

func newClearCompletedCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete all completed notes",
		Long:  `clear-completed asks for confirmation unless --yes is given.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openForWrite(cmd.Context())
			if err != nil {
				return err
			}

			count := store.CountCompleted()
			if count == 0 {
				fmt.Fprintln(a.stdout, "No completed notes to clear.")
				return nil
			}

			if !yes && !a.confirm(fmt.Sprintf("Delete %d completed note(s)? [y/N] ", count)) {
				fmt.Fprintln(a.stdout, "Cancelled.")
				return nil
			}

			removed, err := store.ClearCompleted(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear completed: %w", err)
			}

			fmt.Fprintf(a.stdout, "Removed %d completed note(s).\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// confirm prompts on stdout and reads one answer line from stdin.
func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.stdout, prompt)

	answer, _ := bufio.NewReader(a.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
