package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exportLayout names default export files, e.g. notes_export_2024-06-15_12-00-00.csv.
const exportLayout = "notes_export_2006-01-02_15-04-05.csv"

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dst]",
		Short: "Write a copy of all notes to another CSV file",
		Long: `Export writes every note, completed or not, in the same format as the
notes file. Without dst the copy is written to the working directory under a
timestamped name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			dst := a.now().Format(exportLayout)
			if len(args) == 1 {
				dst = args[0]
			}

			if err := store.Export(cmd.Context(), dst); err != nil {
				return fmt.Errorf("export: %w", err)
			}

			fmt.Fprintf(a.stdout, "Exported %d note(s) to %s\n", store.Len(), dst)
			return nil
		},
	}
}
