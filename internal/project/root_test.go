package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestFindProjectRootPrefersGoMod(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "mod", "go.mod"), "module example.com/mod\n")
	nested := filepath.Join(tmp, "mod", "internal", "pkg")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("failed to create nested dir: %v", err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot returned error: %v", err)
	}
	if want := filepath.Join(tmp, "mod"); root != want {
		t.Fatalf("expected root %q, got %q", want, root)
	}
}

func TestFindProjectRootWorkspaceWins(t *testing.T) {
	tmp := t.TempDir()
	writeFile(t, filepath.Join(tmp, "go.work"), "go 1.22\n\nuse ./a\n")
	writeFile(t, filepath.Join(tmp, "a", "go.mod"), "module example.com/a\n")

	root, err := FindProjectRoot(filepath.Join(tmp, "a"))
	if err != nil {
		t.Fatalf("FindProjectRoot returned error: %v", err)
	}
	if root != tmp {
		t.Fatalf("expected workspace root %q, got %q", tmp, root)
	}
}

func TestFindUpMissing(t *testing.T) {
	_, ok, err := FindUp(t.TempDir(), "definitely-not-here.alignby")
	if err != nil {
		t.Fatalf("FindUp returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestFindProjectRootErrorWrapsSentinel(t *testing.T) {
	// Only meaningful when the temp dir is not itself inside a Go module.
	tmp := t.TempDir()
	if _, ok, _ := FindUp(tmp, GoModFile); ok {
		t.Skip("temp dir lives inside a Go module")
	}
	if _, ok, _ := FindUp(tmp, GoWorkFile); ok {
		t.Skip("temp dir lives inside a Go workspace")
	}
	_, err := FindProjectRoot(tmp)
	if !errors.Is(err, ErrNoProjectRoot) {
		t.Fatalf("expected ErrNoProjectRoot, got %v", err)
	}
}
