package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"alignby/internal/driver"
	"alignby/internal/project"
)

const (
	unaligned = "// align_by \"=\"\nlet a = 1;\nlet bbb = 2;\n"
	aligned   = "// align_by \"=\"\nlet a   = 1;\nlet bbb = 2;\n"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestNewRegistersWalkedDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "pkg", "a.go"), "package pkg\n")
	writeFile(t, filepath.Join(root, "vendor", "b.go"), "package vendor\n")

	w, err := New(context.Background(), Options{
		Paths: []string{root},
		Walk:  project.WalkOptions{Exclude: []string{"vendor"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.fs.Close()

	want := []string{root, filepath.Join(root, "pkg")}
	if diff := cmp.Diff(want, w.Watched()); diff != "" {
		t.Fatalf("watched dirs mismatch (-want +got):\n%s", diff)
	}
}

func TestFlushAlignsPendingFiles(t *testing.T) {
	root := t.TempDir()
	big := filepath.Join(root, "big.txt")
	small := filepath.Join(root, "small.txt")
	writeFile(t, small, unaligned)
	writeFile(t, big, unaligned+strings.Repeat("x", 128))

	var got []driver.Result
	w, err := New(context.Background(), Options{
		Paths:    []string{root},
		Walk:     project.WalkOptions{MaxFileSize: 64},
		OnResult: func(r driver.Result) { got = append(got, r) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.fs.Close()

	w.pending[small] = struct{}{}
	w.pending[big] = struct{}{}
	w.pending[filepath.Join(root, "gone.txt")] = struct{}{}
	w.flush(context.Background())

	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %+v", got)
	}
	if got[0].Path != big || got[0].Status != driver.StatusSkipped {
		t.Fatalf("expected big file skipped first, got %+v", got[0])
	}
	if got[1].Path != small || got[1].Status != driver.StatusAligned {
		t.Fatalf("expected small file aligned, got %+v", got[1])
	}
	content, err := os.ReadFile(small)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(content) != aligned {
		t.Fatalf("unexpected content:\n%s", content)
	}
	if len(w.pending) != 0 {
		t.Fatalf("pending set must be drained")
	}
}

func TestRunAlignsWrittenFile(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "conf.txt")
	writeFile(t, target, "start\n")

	results := make(chan driver.Result, 8)
	w, err := New(context.Background(), Options{
		Paths:    []string{root},
		Debounce: 20 * time.Millisecond,
		OnResult: func(r driver.Result) { results <- r },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	writeFile(t, target, unaligned)

	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if r.Status != driver.StatusAligned {
				continue
			}
			cancel()
			if err := <-done; err != context.Canceled {
				t.Fatalf("Run returned %v, want context.Canceled", err)
			}
			content, err := os.ReadFile(target)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if string(content) != aligned {
				t.Fatalf("unexpected content:\n%s", content)
			}
			return
		case <-deadline:
			cancel()
			t.Fatalf("timed out waiting for the file to be aligned")
		}
	}
}
