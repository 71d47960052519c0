package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/timednotes/pkg/adapters/lifecycle"
)

func newWatchCmd(a *app) *cobra.Command {
	var hide bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "List notes and re-list them whenever the file changes",
		Long: `watch prints the list, then waits for other programs to change the notes
file and prints it again after each change. Stop it with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, a.hide(cmd, hide))
		},
	}

	a.addHideFlag(cmd.Flags(), &hide)
	return cmd
}

// watch renders the list on start and after every external change until ctx
// is done.
func (a *app) watch(ctx context.Context, hide bool) error {
	store, _, err := a.open(ctx)
	if err != nil {
		return err
	}

	changes, err := store.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch %s: %w", store.Location(), err)
	}

	source := lifecycle.NewSource(changes)
	if err := source.Start(ctx); err != nil {
		return err
	}

	renderList(a.stdout, store.View(hide))
	a.logger.Info("watching for changes", "path", store.Location())

	for e := range source.Events() {
		fmt.Fprintf(a.stdout, "\n-- %s --\n", e)
		renderList(a.stdout, store.View(hide))
	}
	return nil
}
