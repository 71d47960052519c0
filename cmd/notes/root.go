package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aretw0/timednotes"
	"github.com/aretw0/timednotes/pkg/core"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errUnreadable guards against replacing a file that failed to load with the
// sample notes.
var errUnreadable = errors.New("the notes file could not be read; fix it or pass --force to overwrite it")

// app carries the global flags and resolved configuration for one invocation.
type app struct {
	file       string
	configPath string
	strict     bool
	verbose    bool
	force      bool

	config timednotes.Config
	logger *slog.Logger
	now    func() time.Time

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string) int {
	a := &app{now: time.Now, stdout: os.Stdout, stderr: os.Stderr, stdin: os.Stdin}
	return a.run(args)
}

func (a *app) run(args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetIn(a.stdin)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "notes",
		Short: "A timed note tracker backed by a single CSV file",
		Long: `notes keeps a list of short notes, each stamped with the moment it was
written and a completion flag. The collection lives in one CSV file that is
rewritten after every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", "", "Path to the notes file (default <Documents>/TimedNotesApp/notes.csv)")
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file")
	flags.BoolVar(&a.strict, "strict", false, "Fail the whole load on a malformed record")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&a.force, "force", false, "Allow changes even if the notes file could not be read")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newToggleCmd(a),
		newDeleteCmd(a),
		newCompleteVisibleCmd(a),
		newClearCompletedCmd(a),
		newExportCmd(a),
		newReloadCmd(a),
		newStatusCmd(a),
		newWatchCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup resolves the config file and installs the logger.
func (a *app) setup() error {
	path := a.configPath
	if path == "" {
		wd, err := os.Getwd()
		if err == nil {
			if found, err := timednotes.FindConfig(wd); err == nil {
				path = found
			}
		}
	}

	cfg, err := timednotes.LoadConfig(path)
	if err != nil {
		return err
	}
	a.config = cfg

	level, err := timednotes.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	if path != "" {
		a.logger.Debug("config loaded", "path", path)
	}
	return nil
}

// options merges config file, environment and flags, lowest to highest.
func (a *app) options(extra ...timednotes.Option) []timednotes.Option {
	opts := []timednotes.Option{
		timednotes.WithLogger(a.logger),
		timednotes.WithErrorHandler(func(err error) {
			a.logger.Error("background error", "error", err)
		}),
	}
	opts = append(opts, a.config.Options()...)
	if a.strict {
		opts = append(opts, timednotes.WithStrictDecode(true))
	}
	return append(opts, extra...)
}

func (a *app) dataPath() string {
	if a.file != "" {
		return a.file
	}
	return a.config.DataPath()
}

// open loads the store and reports problems with the file on stderr.
func (a *app) open(ctx context.Context, extra ...timednotes.Option) (*core.Store, core.LoadResult, error) {
	store, res, err := timednotes.Open(ctx, a.dataPath(), a.options(extra...)...)
	if err != nil {
		return nil, res, err
	}

	if res.Skipped > 0 {
		fmt.Fprintf(a.stderr, "warning: skipped %d malformed record(s) in %s\n", res.Skipped, store.Location())
	}
	if res.Status == core.StatusLoadFailedSeeded {
		fmt.Fprintf(a.stderr, "warning: could not read %s (%v); showing sample notes\n", store.Location(), res.Err)
	}
	return store, res, nil
}

// openForWrite is open for commands that save.
func (a *app) openForWrite(ctx context.Context) (*core.Store, error) {
	store, res, err := a.open(ctx)
	if err != nil {
		return nil, err
	}
	if res.Status == core.StatusLoadFailedSeeded && !a.force {
		return nil, errUnreadable
	}
	return store, nil
}

// addHideFlag registers --hide-completed with the config file as its default.
func (a *app) addHideFlag(fs *pflag.FlagSet, target *bool) {
	fs.BoolVar(target, "hide-completed", false, "Only consider notes that are not completed")
}

// hide returns the effective hide-completed setting for cmd.
func (a *app) hide(cmd *cobra.Command, flagValue bool) bool {
	if cmd.Flags().Changed("hide-completed") {
		return flagValue
	}
	return a.config.HideCompleted
}

// resolveRef maps a 1-based list position to a note ID.
func resolveRef(store *core.Store, ref string, hideCompleted bool) (core.Note, error) {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return core.Note{}, fmt.Errorf("%q is not a note number", ref)
	}

	view := store.View(hideCompleted)
	if n < 1 || n > len(view) {
		return core.Note{}, fmt.Errorf("note %d: %w (%d shown)", n, core.ErrNotFound, len(view))
	}
	return view[n-1], nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "notes version %s\n", version)
		},
	}
}
