package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"alignby/internal/driver"
	"alignby/internal/project"
	"alignby/internal/watch"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-align files whenever they are written",
		Long: `watch aligns the given paths (or the project root) once, then keeps running
and re-aligns every matching file written or created under them until
interrupted.`,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a batch of changes is aligned")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := applyColorMode(cmd); err != nil {
		return err
	}
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	targets, err := s.targets(args)
	if err != nil {
		return err
	}

	cache := s.openCache(cmd)
	defer cache.Close()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	warn := func(err error) {
		fmt.Fprintf(errOut, "alignby: warning: %v\n", err)
	}
	ctx := cmd.Context()
	walk := project.WalkOptionsFrom(s.cfg)
	opts := driver.Options{
		Engine:  s.engineOptions(),
		Jobs:    s.cfg.Run.Jobs,
		BaseDir: baseDir(s),
		Cache:   cache,
	}

	entries, err := project.Collect(ctx, targets, walk, warn)
	if err != nil {
		return err
	}
	results, err := driver.AlignPaths(ctx, entries, opts)
	if err != nil {
		return err
	}
	renderText(out, errOut, results, false, s.quiet)

	w, err := watch.New(ctx, watch.Options{
		Paths:    targets,
		Walk:     walk,
		Driver:   opts,
		Debounce: debounce,
		OnResult: func(res driver.Result) { reportWatchResult(out, errOut, res) },
		OnError:  warn,
	})
	if err != nil {
		return err
	}
	if !s.quiet {
		fmt.Fprintf(out, "watching %d directories, press Ctrl+C to stop\n", len(w.Watched()))
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// reportWatchResult prints files that changed or failed; unchanged files
// (including the echo of our own writes) stay silent.
func reportWatchResult(out, errOut io.Writer, res driver.Result) {
	stamp := time.Now().Format("15:04:05")
	switch res.Status {
	case driver.StatusAligned:
		fmt.Fprintf(out, "%s %s %s\n", stamp, alignedColor.Sprint("aligned"), res.Display)
	case driver.StatusFailed, driver.StatusSkipped:
		fmt.Fprintf(errOut, "%s %s %s: %v\n", stamp, failedColor.Sprint(string(res.Status)), res.Display, res.Err)
	}
}
