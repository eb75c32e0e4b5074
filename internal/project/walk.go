package project

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// WalkOptions selects the files Collect returns.
type WalkOptions struct {
	Extensions  []string // empty means every file
	Exclude     []string // directory names skipped at any depth
	MaxFileSize int64    // 0 disables the cap
}

// WalkOptionsFrom derives walk options from a config.
func WalkOptionsFrom(cfg Config) WalkOptions {
	return WalkOptions{
		Extensions:  cfg.Files.Extensions,
		Exclude:     cfg.Files.Exclude,
		MaxFileSize: cfg.Files.MaxFileSize,
	}
}

// SkipReason explains why a file was not collected for processing.
type SkipReason string

const (
	// SkipTooLarge marks files above WalkOptions.MaxFileSize.
	SkipTooLarge SkipReason = "too large"
)

// Entry is one file found by Collect.
type Entry struct {
	Path string
	Size int64
	Skip SkipReason // empty when the file should be processed
}

// Collect walks paths and returns the files to process, sorted and
// deduplicated. Directories named .git, excluded directory names and
// directories listed as root-anchored entries ("/name" or "/name/") in a
// sibling .gitignore are not entered. Unreadable directories are reported
// through warn and skipped.
func Collect(ctx context.Context, paths []string, opts WalkOptions, warn func(error)) ([]Entry, error) {
	var entries []Entry
	seen := make(map[string]struct{})
	add := func(path string, info fs.FileInfo) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		e := Entry{Path: path, Size: info.Size()}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			e.Skip = SkipTooLarge
		}
		entries = append(entries, e)
	}

	if err := walk(ctx, paths, opts, warn, nil, add); err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Dirs returns every directory Collect would enter under paths, sorted.
// Plain file arguments contribute their parent directory.
func Dirs(ctx context.Context, paths []string, opts WalkOptions, warn func(error)) ([]string, error) {
	seen := make(map[string]struct{})
	onDir := func(path string) { seen[path] = struct{}{} }
	onFile := func(path string, _ fs.FileInfo) { seen[filepath.Dir(path)] = struct{}{} }
	if err := walk(ctx, paths, opts, warn, onDir, onFile); err != nil {
		return nil, err
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// Matches reports whether a file path passes the extension filter and lies
// outside excluded directories. Gitignore anchors are not consulted.
func (o WalkOptions) Matches(path string) bool {
	if !hasExtension(path, o.Extensions) {
		return false
	}
	for _, part := range strings.Split(filepath.ToSlash(filepath.Dir(path)), "/") {
		if part == ".git" || slices.Contains(o.Exclude, part) {
			return false
		}
	}
	return true
}

func walk(ctx context.Context, paths []string, opts WalkOptions, warn func(error), onDir func(string), onFile func(string, fs.FileInfo)) error {
	if warn == nil {
		warn = func(error) {}
	}
	if onDir == nil {
		onDir = func(string) {}
	}
	exclude := make(map[string]struct{}, len(opts.Exclude)+1)
	exclude[".git"] = struct{}{}
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			onFile(filepath.Clean(p), info)
			continue
		}

		ignored := make(map[string]map[string]struct{})
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if d != nil && d.IsDir() && path != p {
					warn(fmt.Errorf("failed to read %s: %w", path, err))
					return fs.SkipDir
				}
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			if path != p {
				name := d.Name()
				if names, ok := ignored[filepath.Dir(path)]; ok {
					if _, hit := names[name]; hit {
						return skipEntry(d)
					}
				}
				if _, hit := exclude[name]; hit && d.IsDir() {
					return fs.SkipDir
				}
			}

			if d.IsDir() {
				names, gerr := readGitignoreAnchors(filepath.Join(path, ".gitignore"))
				if gerr != nil {
					warn(gerr)
				}
				if len(names) > 0 {
					ignored[path] = names
				}
				onDir(path)
				return nil
			}
			if !d.Type().IsRegular() || !hasExtension(path, opts.Extensions) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				warn(fmt.Errorf("failed to stat %s: %w", path, err))
				return nil
			}
			onFile(path, info)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func skipEntry(d fs.DirEntry) error {
	if d.IsDir() {
		return fs.SkipDir
	}
	return nil
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// readGitignoreAnchors returns the single-segment, root-anchored entries of a
// .gitignore ("/target" or "/target/"). Other patterns are ignored.
func readGitignoreAnchors(path string) (map[string]struct{}, error) {
	// #nosec G304 -- path is built from the walked tree
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer f.Close()

	names := make(map[string]struct{})
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if len(line) < 2 || line[0] != '/' {
			continue
		}
		name := strings.TrimSuffix(line[1:], "/")
		if name == "" || strings.Contains(name, "/") || strings.ContainsAny(name, "*?[") {
			continue
		}
		names[name] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return names, nil
}
