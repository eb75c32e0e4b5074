package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFile is the optional per-project configuration file.
const ConfigFile = ".alignby.toml"

// DefaultMaxFileSize is the default size cap, 1 MiB.
const DefaultMaxFileSize int64 = 1 << 20

// Config is the decoded .alignby.toml.
type Config struct {
	Align AlignConfig `toml:"align"`
	Files FilesConfig `toml:"files"`
	Run   RunConfig   `toml:"run"`
}

// AlignConfig tunes the engine.
type AlignConfig struct {
	CollapseSpaces bool `toml:"collapse_spaces"`
	TabWidth       int  `toml:"tab_width"`
}

// FilesConfig selects which files are visited.
type FilesConfig struct {
	Extensions  []string `toml:"extensions"`
	Exclude     []string `toml:"exclude"`
	MaxFileSize int64    `toml:"max_file_size"`
}

// RunConfig controls execution.
type RunConfig struct {
	Jobs  int  `toml:"jobs"`
	Cache bool `toml:"cache"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Align: AlignConfig{TabWidth: 4},
		Files: FilesConfig{MaxFileSize: DefaultMaxFileSize},
		Run:   RunConfig{Cache: true},
	}
}

// LoadConfig reads root/.alignby.toml on top of DefaultConfig.
// A missing file is not an error; found reports whether one was read.
func LoadConfig(root string) (cfg Config, found bool, err error) {
	path := filepath.Join(root, ConfigFile)
	if _, statErr := os.Stat(path); statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return DefaultConfig(), false, nil
		}
		return Config{}, false, fmt.Errorf("failed to stat %q: %w", path, statErr)
	}
	cfg, err = DecodeConfigFile(path)
	return cfg, true, err
}

// DecodeConfigFile parses a config file. Unknown keys are rejected.
func DecodeConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges and normalizes extensions to ".ext".
func (c *Config) Validate() error {
	if c.Align.TabWidth < 1 || c.Align.TabWidth > 32 {
		return fmt.Errorf("[align].tab_width must be between 1 and 32, got %d", c.Align.TabWidth)
	}
	if c.Files.MaxFileSize < 0 {
		return fmt.Errorf("[files].max_file_size must not be negative, got %d", c.Files.MaxFileSize)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs must not be negative, got %d", c.Run.Jobs)
	}
	for i, ext := range c.Files.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return fmt.Errorf("[files].extensions contains an empty entry")
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Files.Extensions[i] = ext
	}
	for _, dir := range c.Files.Exclude {
		if strings.TrimSpace(dir) == "" || strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("[files].exclude entries must be plain directory names, got %q", dir)
		}
	}
	return nil
}

// Template is written by `alignby init`.
const Template = `# alignby configuration

[align]
# squeeze runs of blanks inside grouped lines before aligning
collapse_spaces = false
tab_width = 4

[files]
# empty list visits every file
extensions = []
exclude = ["vendor"]
max_file_size = 1048576

[run]
# 0 uses GOMAXPROCS
jobs = 0
cache = true
`
