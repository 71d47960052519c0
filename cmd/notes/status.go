package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/timednotes"
	"github.com/aretw0/timednotes/pkg/adapters/fs"
	"github.com/aretw0/timednotes/pkg/core"
)

func newReloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Read the notes file and report what was found",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, res, err := a.open(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "%s: %s, %d note(s)", store.Location(), res.Status, res.Count)
			if res.Skipped > 0 {
				fmt.Fprintf(a.stdout, ", %d skipped", res.Skipped)
			}
			fmt.Fprintln(a.stdout)
			return nil
		},
	}
}

// statusReport is the JSON shape of the status command.
type statusReport struct {
	Store      core.StoreState     `json:"store"`
	Repository *fs.RepositoryState `json:"repository,omitempty"`
	// Uncommitted is set when versioning is on and git has not recorded
	// the current file.
	Uncommitted bool `json:"uncommitted"`
}

func newStatusCmd(a *app) *cobra.Command {
	var (
		asJSON  bool
		diagram bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show store and storage state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := timednotes.Init(a.dataPath(), a.options()...)
			if err != nil {
				return err
			}

			store, _, err := a.open(cmd.Context(), timednotes.WithRepository(repo))
			if err != nil {
				return err
			}

			report := statusReport{}
			if state, ok := store.State().(core.StoreState); ok {
				report.Store = state
			}
			if intro, ok := repo.(introspection.Introspectable); ok {
				if state, ok := intro.State().(fs.RepositoryState); ok {
					report.Repository = &state
				}
			}
			if fsRepo, ok := repo.(*fs.Repository); ok {
				dirty, err := fsRepo.Uncommitted()
				if err != nil {
					a.logger.Warn("could not read versioning status", "error", err)
				}
				report.Uncommitted = dirty
			}

			switch {
			case asJSON:
				encoder := json.NewEncoder(a.stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(report)
			case diagram:
				config := introspection.DefaultDiagramConfig()
				config.SecondaryID = "notes"
				config.SecondaryLabel = "Notes Topology"
				fmt.Fprintln(a.stdout, introspection.TreeDiagram(buildStatusTree(report), config))
				return nil
			}

			fmt.Fprintf(a.stdout, "File:      %s\n", report.Store.Location)
			fmt.Fprintf(a.stdout, "Status:    %s\n", report.Store.Status)
			fmt.Fprintf(a.stdout, "Notes:     %d\n", report.Store.Notes)
			fmt.Fprintf(a.stdout, "Completed: %d\n", report.Store.Completed)
			if r := report.Repository; r != nil {
				fmt.Fprintf(a.stdout, "Decoding:  %s\n", r.Policy)
				git := "off"
				switch {
				case r.Versioning && report.Uncommitted:
					git = "on, uncommitted changes"
				case r.Versioning:
					git = "on"
				}
				fmt.Fprintf(a.stdout, "Git:       %s\n", git)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVar(&diagram, "diagram", false, "Output a Mermaid diagram")
	cmd.MarkFlagsMutuallyExclusive("json", "diagram")
	return cmd
}

type statusNode struct {
	Name     string
	Status   string
	Metadata map[string]string
	Children []statusNode
}

// buildStatusTree lays out the store and its repository for TreeDiagram.
// Status values must match the classes in introspection.DefaultStyles().
func buildStatusTree(r statusReport) statusNode {
	storeStatus := "running"
	if r.Store.Status == core.StatusLoadFailedSeeded || r.Store.SaveFailed {
		storeStatus = "failed"
	}

	store := statusNode{
		Name:   "Store",
		Status: storeStatus,
		Metadata: map[string]string{
			"type":      "container",
			"notes":     strconv.Itoa(r.Store.Notes),
			"completed": strconv.Itoa(r.Store.Completed),
		},
	}

	if r.Repository != nil {
		watcher := "suspended"
		if r.Repository.WatcherActive {
			watcher = "running"
		}
		store.Children = append(store.Children, statusNode{
			Name:   "Repository",
			Status: "running",
			Metadata: map[string]string{
				"type":   "process",
				"path":   r.Repository.Path,
				"policy": r.Repository.Policy,
			},
			Children: []statusNode{
				{Name: "Watcher", Status: watcher, Metadata: map[string]string{"type": "goroutine"}},
			},
		})
	}

	return store
}
