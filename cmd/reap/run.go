package main

import (
	"fmt"
	"os"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/kalbhor/reap/internal/discover"
	"github.com/kalbhor/reap/internal/fallback"
	"github.com/kalbhor/reap/internal/ignore"
	"github.com/kalbhor/reap/internal/tui"
)

// reapOptions holds CLI flags for the (only) root command.
type reapOptions struct {
	ignoreCSV     string
	workers       int
	deleteWorkers int
}

// newReapCmd creates the root command: reap PATTERN [PATH] [-i|--ignore CSV].
func newReapCmd() *cobra.Command {
	opts := &reapOptions{
		workers:       runtime.NumCPU(),
		deleteWorkers: runtime.NumCPU(),
	}

	cmd := &cobra.Command{
		Use:   "reap PATTERN [PATH]",
		Short: "Find directories matching a basename pattern and delete them interactively",
		Long: `Walks PATH (default ".") looking for directories whose basename equals
PATTERN, showing a live list with per-entry sizes as they are computed.

Use --ignore to skip subtrees whose basename matches any of a
comma-separated list of regexes. When stdout is not a terminal, reap
falls back to printing each match and a grand total instead of the
interactive view.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReap(args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ignoreCSV, "ignore", "i", "", "Comma-separated regex patterns to ignore")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "Number of size-calculation workers")
	cmd.Flags().IntVar(&opts.deleteWorkers, "delete-workers", opts.deleteWorkers, "Number of deletion workers")

	return cmd
}

// runReap validates configuration, then either runs the interactive TUI or
// falls back to line-oriented output when stdout is not a terminal
// (spec.md §6). Configuration errors are fatal-before-UI-starts (spec.md
// §7): they are returned as plain errors, not routed through a channel —
// there is no background stage running yet for one to fan in from, unlike
// the teacher's scan/verify pipeline where errCh collects per-item errors
// from several concurrent workers while the run continues.
func runReap(args []string, opts *reapOptions) error {
	pattern := args[0]
	path := "."
	if len(args) > 1 {
		path = args[1]
	}

	if !validatePattern(pattern) {
		return fmt.Errorf("PATTERN must not be empty")
	}

	ignoreSet, err := ignore.Build(opts.ignoreCSV)
	if err != nil {
		return fmt.Errorf("invalid --ignore: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("PATH %q does not exist or is not a directory", path)
	}

	if !isTerminal(os.Stdout) {
		return fallback.Run(os.Stdout, fallback.Options{
			Root:            path,
			Pattern:         pattern,
			Ignore:          ignoreSet,
			DiscoverWorkers: discover.DefaultWalkers,
			SizeWorkers:     opts.workers,
		})
	}

	m := tui.New(tui.Options{
		Root:            path,
		Pattern:         pattern,
		Ignore:          ignoreSet,
		DiscoverWorkers: discover.DefaultWalkers,
		SizeWorkers:     opts.workers,
		DeleteWorkers:   opts.deleteWorkers,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// isTerminal reports whether f is attached to a TTY, consulted only here —
// the core itself never reads TERM or isatty state (spec.md §6).
func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
