package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"alignby/internal/driver"
	"alignby/internal/observ"
	"alignby/internal/project"
)

type alignFlags struct {
	check      bool
	stdout     bool
	stdin      bool
	format     string
	clearCache bool
	timings    bool
	ui         uiMode
}

func readAlignFlags(cmd *cobra.Command) (alignFlags, error) {
	var fl alignFlags
	var err error
	f := cmd.Flags()
	if fl.check, err = f.GetBool("check"); err != nil {
		return fl, err
	}
	if fl.stdout, err = f.GetBool("stdout"); err != nil {
		return fl, err
	}
	if fl.stdin, err = f.GetBool("stdin"); err != nil {
		return fl, err
	}
	if fl.format, err = f.GetString("format"); err != nil {
		return fl, err
	}
	if fl.clearCache, err = f.GetBool("clear-cache"); err != nil {
		return fl, err
	}
	pf := cmd.Root().PersistentFlags()
	if fl.timings, err = pf.GetBool("timings"); err != nil {
		return fl, err
	}
	uiValue, err := pf.GetString("ui")
	if err != nil {
		return fl, err
	}
	if fl.ui, err = readUIMode(uiValue); err != nil {
		return fl, err
	}

	switch fl.format {
	case "text", "json", "table":
	default:
		return fl, fmt.Errorf("unsupported output format %q (expected text|json|table)", fl.format)
	}
	if fl.stdout && fl.check {
		return fl, fmt.Errorf("--stdout cannot be used with --check")
	}
	if (fl.stdout || fl.stdin) && fl.format != "text" {
		return fl, fmt.Errorf("--stdout and --stdin are only supported with text output")
	}
	return fl, nil
}

// runAlign aligns the given paths (or the project root). It fails when a
// file could not be processed or, with --check, when a file needs changes.
func runAlign(cmd *cobra.Command, args []string) error {
	fl, err := readAlignFlags(cmd)
	if err != nil {
		return err
	}
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

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if fl.stdin {
		if len(args) > 0 {
			return fmt.Errorf("--stdin does not take path arguments")
		}
		return alignStdin(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), s, fl.check)
	}

	targets, err := s.targets(args)
	if err != nil {
		return err
	}

	cache := s.openCache(cmd)
	defer cache.Close()
	if fl.clearCache && cache != nil {
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	timer := observ.NewTimer()
	var entries []project.Entry
	err = timer.Track("collect", func() error {
		var collectErr error
		entries, collectErr = project.Collect(ctx, targets, project.WalkOptionsFrom(s.cfg), func(err error) {
			if !s.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "alignby: warning: %v\n", err)
			}
		})
		return collectErr
	})
	if err != nil {
		return err
	}

	opts := driver.Options{
		Engine:  s.engineOptions(),
		Check:   fl.check,
		Stdout:  fl.stdout,
		Jobs:    s.cfg.Run.Jobs,
		BaseDir: baseDir(s),
		Cache:   cache,
	}

	var results []driver.Result
	useUI := fl.format == "text" && !fl.stdout && !s.quiet && shouldUseTUI(fl.ui)
	err = timer.Track("align", func() error {
		var alignErr error
		if useUI {
			results, alignErr = runAlignWithUI(ctx, "aligning", entries, opts)
		} else {
			results, alignErr = driver.AlignPaths(ctx, entries, opts)
		}
		return alignErr
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	switch {
	case fl.stdout:
		renderStdout(out, errOut, results)
	case fl.format == "json":
		if err := renderJSON(out, results, fl.check); err != nil {
			return err
		}
	case fl.format == "table":
		renderTable(out, results, fl.check)
	default:
		renderText(out, errOut, results, fl.check, s.quiet)
	}

	if fl.timings {
		if err := timer.WriteSummary(errOut); err != nil {
			return err
		}
	}
	return exitStatus(driver.Summarize(results), fl.check)
}

// alignStdin filters r into w. Content that cannot be aligned is copied
// through unchanged.
func alignStdin(ctx context.Context, r io.Reader, w io.Writer, s settings, check bool) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	res := driver.AlignBytes(ctx, "<stdin>", content, driver.Options{Engine: s.engineOptions()})
	if res.Err != nil {
		_, _ = w.Write(content)
		return fmt.Errorf("%s: %w", res.Display, res.Err)
	}
	if _, err := w.Write(res.Output); err != nil {
		return err
	}
	if check && res.Changed {
		return errSilent
	}
	return nil
}

func exitStatus(summary driver.Summary, check bool) error {
	if summary.Failed > 0 {
		return errSilent
	}
	if check && summary.Aligned > 0 {
		return errSilent
	}
	return nil
}

func baseDir(s settings) string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return s.root
}
