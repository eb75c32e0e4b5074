package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"fortio.org/safecast"

	"alignby/internal/align"
	"alignby/internal/project"
	"alignby/internal/source"
	"alignby/internal/trace"
)

// ErrFileTooLarge marks files skipped by the size cap.
var ErrFileTooLarge = errors.New("file exceeds max_file_size")

// AlignFile aligns one file on disk according to opts.
func AlignFile(ctx context.Context, path string, opts Options) Result {
	start := time.Now()
	res := Result{Path: path, Display: displayPath(path, opts.BaseDir)}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return finish(ctx, res, start)
	}

	res = alignContent(ctx, res, content, opts)
	if res.Status != StatusAligned || opts.Check || opts.Stdout {
		return finish(ctx, res, start)
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, res.Output, mode.Perm()); err != nil {
		res.Status, res.Err = StatusFailed, fmt.Errorf("failed to write aligned content: %w", err)
	} else {
		res.Written = true
		// записанный результат сразу кладём в кэш как выровненный
		remember(opts, project.DigestOf(res.Output), path, res.Lines, false)
	}
	res.Output = nil
	return finish(ctx, res, start)
}

// AlignBytes aligns in-memory content (stdin). The aligned bytes are always
// returned in Result.Output.
func AlignBytes(ctx context.Context, name string, content []byte, opts Options) Result {
	start := time.Now()
	opts.Stdout = true
	res := alignContent(ctx, Result{Path: name, Display: name}, content, opts)
	return finish(ctx, res, start)
}

// alignContent runs the engine over content. For StatusAligned results
// Output holds the new bytes; with opts.Stdout it also holds the original
// bytes of unchanged and canceled files.
func alignContent(ctx context.Context, res Result, content []byte, opts Options) Result {
	res = runEngine(ctx, res, content, opts)
	if opts.Stdout && (res.Status == StatusUnchanged || res.Status == StatusCanceled) {
		res.Output = content
	}
	return res
}

func runEngine(ctx context.Context, res Result, content []byte, opts Options) Result {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	key := CacheKey(project.DigestOf(content), opts.Engine)
	var cached CachePayload
	if hit, err := opts.Cache.Get(key, &cached); err != nil {
		trace.Error(tracer, trace.ScopeFile, "cache:"+res.Display, err, parent)
	} else if hit {
		res.Cached = true
		res.Lines = int(cached.Lines)
		res.Status = StatusUnchanged
		if cached.Canceled {
			res.Status = StatusCanceled
		}
		return res
	}

	f, err := source.Parse(res.Path, content, 0)
	if err != nil {
		res.Status, res.Err = StatusFailed, err
		return res
	}
	res.Lines = len(f.Lines)

	out := align.Run(f.Lines, opts.Engine)
	res.Groups = out.Groups
	for _, r := range out.Ranges {
		trace.Point(tracer, trace.ScopeGroup, "group:"+res.Display,
			"lines "+strconv.Itoa(r.Start+1)+"-"+strconv.Itoa(r.End), parent)
	}

	switch {
	case out.Canceled:
		res.Status = StatusCanceled
		remember(opts, project.DigestOf(content), res.Path, res.Lines, true)
	case !out.Changed:
		res.Status = StatusUnchanged
		remember(opts, project.DigestOf(content), res.Path, res.Lines, false)
	default:
		res.Status = StatusAligned
		res.Changed = true
		res.Output = f.Bytes(out.Lines)
	}
	return res
}

func remember(opts Options, content project.Digest, path string, lines int, canceled bool) {
	if opts.Cache.ReadOnly() {
		return
	}
	n, err := safecast.Conv[uint32](lines)
	if err != nil {
		return
	}
	// Best-effort: a failed cache write only costs a re-scan next time.
	_ = opts.Cache.Put(CacheKey(content, opts.Engine), &CachePayload{
		Path:     path,
		Lines:    n,
		Canceled: canceled,
	})
}

func finish(ctx context.Context, res Result, start time.Time) Result {
	res.Elapsed = time.Since(start)
	if res.Err != nil {
		trace.Error(trace.FromContext(ctx), trace.ScopeFile, "file:"+res.Display, res.Err, trace.CurrentSpan(ctx))
	}
	return res
}

func displayPath(path, base string) string {
	if base == "" {
		return path
	}
	rel, err := source.RelativePath(path, base)
	if err != nil {
		return path
	}
	return rel
}
