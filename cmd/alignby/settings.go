package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alignby/internal/align"
	"alignby/internal/driver"
	"alignby/internal/project"
)

// settings is the merged view of .alignby.toml and command-line flags.
type settings struct {
	root     string // project root, or the working directory outside a project
	inModule bool
	cfg      project.Config
	quiet    bool
	noCache  bool
}

// loadSettings resolves the project root from the working directory, loads
// its config and applies flag overrides.
func loadSettings(cmd *cobra.Command) (settings, error) {
	var s settings
	wd, err := os.Getwd()
	if err != nil {
		return s, err
	}

	s.root, err = project.FindProjectRoot(wd)
	switch {
	case err == nil:
		s.inModule = true
	case errors.Is(err, project.ErrNoProjectRoot):
		s.root = wd
	default:
		return s, err
	}

	cfg, _, err := project.LoadConfig(s.root)
	if err != nil {
		return s, err
	}

	pf := cmd.Root().PersistentFlags()
	if s.quiet, err = pf.GetBool("quiet"); err != nil {
		return s, err
	}
	if s.noCache, err = pf.GetBool("no-cache"); err != nil {
		return s, err
	}
	if pf.Changed("jobs") {
		if cfg.Run.Jobs, err = pf.GetInt("jobs"); err != nil {
			return s, err
		}
	}
	if pf.Changed("collapse") {
		if cfg.Align.CollapseSpaces, err = pf.GetBool("collapse"); err != nil {
			return s, err
		}
	}
	if pf.Changed("tab-width") {
		tw, err := pf.GetInt("tab-width")
		if err != nil {
			return s, err
		}
		if tw != 0 {
			cfg.Align.TabWidth = tw
		}
	}
	if err := cfg.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	s.cfg = cfg
	return s, nil
}

func (s settings) engineOptions() align.Options {
	return align.Options{
		CollapseSpaces: s.cfg.Align.CollapseSpaces,
		TabWidth:       s.cfg.Align.TabWidth,
	}
}

// openCache opens the shared disk cache unless caching is disabled. A cache
// that cannot be opened only produces a warning.
func (s settings) openCache(cmd *cobra.Command) *driver.DiskCache {
	if s.noCache || !s.cfg.Run.Cache {
		return nil
	}
	dir, err := driver.DefaultCacheDir("alignby")
	if err == nil {
		var cache *driver.DiskCache
		cache, err = driver.OpenDiskCache(dir)
		if err == nil {
			if cache.ReadOnly() && !s.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "alignby: cache %s is locked by another process, using it read-only\n", dir)
			}
			return cache
		}
	}
	if !s.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "alignby: cache disabled: %v\n", err)
	}
	return nil
}

// targets returns the paths to walk: the arguments, or the project root.
func (s settings) targets(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if !s.inModule {
		return nil, fmt.Errorf("no paths given: %w (run inside a Go module or pass paths)", project.ErrNoProjectRoot)
	}
	return []string{s.root}, nil
}
