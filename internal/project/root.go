package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// GoModFile marks a Go module root.
	GoModFile = "go.mod"
	// GoWorkFile marks a Go workspace root.
	GoWorkFile = "go.work"
)

// ErrNoProjectRoot is returned when neither go.mod nor go.work is found.
var ErrNoProjectRoot = errors.New("no go.mod or go.work found")

// FindUp walks up from startDir to locate a file named name.
func FindUp(startDir, name string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindProjectRoot returns the workspace root for startDir: the directory of
// the nearest go.work above it, otherwise the directory of the nearest go.mod.
func FindProjectRoot(startDir string) (string, error) {
	workPath, ok, err := FindUp(startDir, GoWorkFile)
	if err != nil {
		return "", err
	}
	if ok {
		return filepath.Dir(workPath), nil
	}
	modPath, ok, err := FindUp(startDir, GoModFile)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w above %s; pass a path explicitly", ErrNoProjectRoot, startDir)
	}
	return filepath.Dir(modPath), nil
}
