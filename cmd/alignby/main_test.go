package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"alignby/internal/driver"
	"alignby/internal/project"
)

const (
	unaligned = "# align_by \"=\"\nname = 1\nlonger_name = 2\n"
	aligned   = "# align_by \"=\"\nname        = 1\nlonger_name = 2\n"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("chdir back to %s: %v", prev, err)
		}
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestAlignCommandRewritesFiles(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "conf.txt"), unaligned)
	writeFile(t, filepath.Join(dir, "plain.txt"), "nothing here\n")

	out, _, err := execute(t, "", "--no-cache", "--ui", "off", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "conf.txt")); got != aligned {
		t.Fatalf("file not aligned:\n%s", got)
	}
	if !strings.Contains(out, "aligned conf.txt") {
		t.Fatalf("missing per-file line:\n%s", out)
	}
	if !strings.Contains(out, "Aligning finished, 0 failed, 1 unchanged, 1 aligned.") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestAlignCommandCheckReportsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "conf.txt")
	writeFile(t, path, unaligned)

	out, _, err := execute(t, "", "--no-cache", "--ui", "off", "--check", dir)
	if !errors.Is(err, errSilent) {
		t.Fatalf("expected check failure, got %v", err)
	}
	if got := readFile(t, path); got != unaligned {
		t.Fatalf("--check must not write:\n%s", got)
	}
	if !strings.HasPrefix(out, "conf.txt\n") {
		t.Fatalf("expected path listing, got:\n%s", out)
	}

	writeFile(t, path, aligned)
	if _, _, err := execute(t, "", "--no-cache", "--ui", "off", "--check", dir); err != nil {
		t.Fatalf("aligned tree must pass --check: %v", err)
	}
}

func TestAlignCommandStdin(t *testing.T) {
	chdir(t, t.TempDir())
	out, _, err := execute(t, unaligned, "--stdin")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if diff := cmp.Diff(aligned, out); diff != "" {
		t.Fatalf("stdin output mismatch (-want +got):\n%s", diff)
	}
}

func TestAlignCommandStdout(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "conf.txt")
	writeFile(t, path, unaligned)

	out, _, err := execute(t, "", "--no-cache", "--stdout", path)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out != aligned {
		t.Fatalf("unexpected stdout:\n%s", out)
	}
	if got := readFile(t, path); got != unaligned {
		t.Fatalf("--stdout must not write:\n%s", got)
	}
}

func TestAlignCommandJSON(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "a.txt"), unaligned)
	writeFile(t, filepath.Join(dir, "b.txt"), "# align_by cancel_file\n"+unaligned)

	out, _, err := execute(t, "", "--no-cache", "--format", "json", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var report jsonReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	want := driver.Summary{Aligned: 1, Canceled: 1}
	if diff := cmp.Diff(want, report.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if len(report.Files) != 2 || report.Files[0].Path != "a.txt" || report.Files[1].Status != "canceled" {
		t.Fatalf("unexpected files: %+v", report.Files)
	}
}

func TestAlignCommandTable(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "a.txt"), unaligned)

	out, _, err := execute(t, "", "--no-cache", "--format", "table", "--check", dir)
	if !errors.Is(err, errSilent) {
		t.Fatalf("expected check failure, got %v", err)
	}
	for _, want := range []string{"a.txt", "needs alignment", "Aligning finished"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestAlignCommandRejectsBadFlags(t *testing.T) {
	chdir(t, t.TempDir())
	cases := [][]string{
		{"--format", "xml"},
		{"--stdout", "--check"},
		{"--stdin", "--format", "json"},
		{"--ui", "sometimes"},
		{"--color", "maybe", "--stdin"},
	}
	for _, args := range cases {
		if _, _, err := execute(t, "", args...); err == nil || errors.Is(err, errSilent) {
			t.Fatalf("args %v: expected usage error, got %v", args, err)
		}
	}
}

func TestAlignCommandConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/x\n")
	writeFile(t, filepath.Join(dir, project.ConfigFile), "[files]\nextensions = [\".go\"]\n")
	writeFile(t, filepath.Join(dir, "a.go"), unaligned)
	writeFile(t, filepath.Join(dir, "b.txt"), unaligned)

	if _, _, err := execute(t, "", "--no-cache", "--ui", "off"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, "a.go")); got != aligned {
		t.Fatalf("a.go not aligned:\n%s", got)
	}
	if got := readFile(t, filepath.Join(dir, "b.txt")); got != unaligned {
		t.Fatalf("b.txt is filtered out by config and must stay untouched:\n%s", got)
	}
}

func TestAlignCommandWithoutProject(t *testing.T) {
	chdir(t, t.TempDir())
	_, _, err := execute(t, "", "--no-cache")
	if !errors.Is(err, project.ErrNoProjectRoot) {
		t.Fatalf("expected ErrNoProjectRoot, got %v", err)
	}
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := execute(t, "", "init", dir); err != nil {
		t.Fatalf("init: %v", err)
	}
	if got := readFile(t, filepath.Join(dir, project.ConfigFile)); got != project.Template {
		t.Fatalf("unexpected config:\n%s", got)
	}
	if _, _, err := execute(t, "", "init", dir); err == nil {
		t.Fatalf("second init must refuse to overwrite")
	}
	if _, _, err := execute(t, "", "init", "--force", dir); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := execute(t, "", "version", "--format", "json")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if payload["tool"] != "alignby" || payload["version"] == "" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestSummaryLine(t *testing.T) {
	tests := []struct {
		in   driver.Summary
		want string
	}{
		{driver.Summary{Aligned: 2}, "Aligning finished, 0 failed, 0 unchanged, 2 aligned."},
		{driver.Summary{Unchanged: 1234, Skipped: 1}, "Aligning finished, 0 failed, 1,234 unchanged, 0 aligned, 1 skipped."},
		{driver.Summary{Failed: 1, Canceled: 2, Cached: 3}, "Aligning finished, 1 failed, 0 unchanged, 0 aligned, 2 canceled (3 from cache)."},
	}
	for _, tt := range tests {
		if got := summaryLine(tt.in); got != tt.want {
			t.Fatalf("summaryLine(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, "on": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}
