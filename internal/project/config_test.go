package project

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestLoadConfigMissingUsesDefaults(t *testing.T) {
	cfg, found, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if found {
		t.Fatalf("expected no config file")
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigTemplate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFile), Template)

	cfg, found, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected config file to be found")
	}
	want := DefaultConfig()
	want.Files.Exclude = []string{"vendor"}
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ConfigFile), `
[align]
collapse_spaces = true
tab_width = 8

[files]
extensions = ["go", ".rs"]

[run]
jobs = 3
cache = false
`)
	cfg, _, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.Align.CollapseSpaces || cfg.Align.TabWidth != 8 {
		t.Fatalf("unexpected [align]: %+v", cfg.Align)
	}
	if diff := cmp.Diff([]string{".go", ".rs"}, cfg.Files.Extensions); diff != "" {
		t.Fatalf("extensions mismatch (-want +got):\n%s", diff)
	}
	if cfg.Files.MaxFileSize != DefaultMaxFileSize {
		t.Fatalf("expected default max_file_size, got %d", cfg.Files.MaxFileSize)
	}
	if cfg.Run.Jobs != 3 || cfg.Run.Cache {
		t.Fatalf("unexpected [run]: %+v", cfg.Run)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown key", "[align]\nsort = true\n", "unknown keys: align.sort"},
		{"bad tab width", "[align]\ntab_width = 0\n", "tab_width"},
		{"negative jobs", "[run]\njobs = -1\n", "jobs"},
		{"path in exclude", "[files]\nexclude = [\"a/b\"]\n", "plain directory names"},
		{"syntax", "[align\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ConfigFile), tt.content)
			_, _, err := LoadConfig(dir)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
