package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"deporder/internal/engine"
	"deporder/internal/watcher"
)

var (
	watchCheck       bool
	watchSkipInitial bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Reorder files whenever they change",
	Long: `Watch directories and reorder source files as they are saved. Changes are
batched until no file has changed for watch.debounceMs milliseconds.

Examples:
  deporder watch             # Watch the current directory
  deporder watch src lib
  deporder watch --check     # Only report files that fall out of order`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchCheck, "check", false, "Report instead of rewriting")
	watchCmd.Flags().BoolVar(&watchSkipInitial, "skip-initial", false, "Do not process existing files before watching")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	format, err := ParseOutputFormat(outputFormat)
	if err != nil {
		return err
	}
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	mode := engine.ModeWrite
	if watchCheck {
		mode = engine.ModeCheck
	}

	out := cmd.OutOrStdout()
	var outMu sync.Mutex
	run := func(ctx context.Context, files []string) {
		report, err := a.engine.Run(ctx, files, mode)
		if err != nil {
			// Canceled while shutting down.
			return
		}
		if report.Changed == 0 && report.Failed == 0 && format == FormatHuman {
			return
		}
		outMu.Lock()
		defer outMu.Unlock()
		if err := Write(out, report, format); err != nil {
			a.logger.Warn("Failed to write report", "error", err)
		}
	}

	ctx := cmd.Context()
	if !watchSkipInitial {
		files, err := engine.Expand(roots, a.cfg.Include, a.cfg.Ignore)
		if err != nil {
			return err
		}
		run(ctx, files)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		w, err := watcher.New(root, watcher.Config{
			DebounceMs: a.cfg.Watch.DebounceMs,
			Include:    a.cfg.Include,
			Ignore:     a.cfg.Ignore,
		}, a.logger, run)
		if err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		g.Go(func() error { return w.Run(ctx) })
	}
	printWatching(cmd.ErrOrStderr(), roots)
	return g.Wait()
}

func printWatching(w io.Writer, roots []string) {
	if quiet {
		return
	}
	fmt.Fprintf(w, "%s %v %s\n", styleHeader.Render("Watching"), roots, styleDim.Render("(Ctrl+C to stop)"))
}
