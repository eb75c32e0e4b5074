package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"alignby/internal/version"
)

// errSilent marks failures that were already reported; main only sets the
// exit code.
var errSilent = errors.New("silent failure")

// newRootCmd builds the command tree. The root command aligns files; see
// runAlign.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "alignby [path...]",
		Short: "Align source lines on delimiters marked by align_by comments",
		Long: `alignby scans files for "align_by" marker comments and pads the lines that
follow so the listed delimiters line up in columns.

With no path arguments the nearest Go project root (go.work or go.mod) above
the working directory is processed.`,
		Args:          cobra.ArbitraryArgs,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runAlign,
	}

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")

	// Параметры выравнивания, общие для align и watch
	pf.Int("jobs", 0, "max parallel files (0 = GOMAXPROCS)")
	pf.Bool("no-cache", false, "do not use the disk cache")
	pf.Bool("collapse", false, "collapse stale padding before aligning")
	pf.Int("tab-width", 0, "tab stop width used to measure columns (0 = config)")

	f := rootCmd.Flags()
	f.Bool("check", false, "report files that need alignment without writing them")
	f.Bool("stdout", false, "print aligned content to stdout instead of rewriting files")
	f.Bool("stdin", false, "align stdin and write the result to stdout")
	f.String("format", "text", "output format (text|json|table)")
	f.Bool("clear-cache", false, "drop the disk cache before running")

	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// main runs the root command and exits with status 1 on any failure.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintf(os.Stderr, "alignby: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
