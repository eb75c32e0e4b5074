package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"alignby/internal/project"
	"alignby/internal/trace"
)

// AlignPaths aligns every entry in parallel and returns one result per entry,
// in entry order. Per-file failures are reported in the results; the returned
// error is only set when ctx is canceled.
func AlignPaths(ctx context.Context, entries []project.Entry, opts Options) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tracer := trace.FromContext(ctx)
	run := trace.Begin(tracer, trace.ScopeDriver, "align", trace.CurrentSpan(ctx))
	defer run.End("")
	run.WithExtra("files", strconv.Itoa(len(entries)))
	ctx = trace.WithSpan(ctx, run.ID())

	for _, e := range entries {
		emit(opts.Progress, e.Path, StatusQueued, nil)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Result, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(entries))))

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			if entry.Skip != "" {
				results[i] = Result{
					Path:    entry.Path,
					Display: displayPath(entry.Path, opts.BaseDir),
					Status:  StatusSkipped,
					Err:     fmt.Errorf("%w (%d bytes)", ErrFileTooLarge, entry.Size),
				}
				emit(opts.Progress, entry.Path, StatusSkipped, nil)
				return nil
			}

			emit(opts.Progress, entry.Path, StatusWorking, nil)
			results[i] = alignTraced(gctx, entry.Path, opts)
			emit(opts.Progress, entry.Path, results[i].Status, results[i].Err)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return results, ctx.Err()
	}
	summary := Summarize(results)
	run.WithExtra("aligned", strconv.Itoa(summary.Aligned)).
		WithExtra("failed", strconv.Itoa(summary.Failed))
	return results, nil
}

func alignTraced(ctx context.Context, path string, opts Options) Result {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+displayPath(path, opts.BaseDir), trace.CurrentSpan(ctx))
	res := AlignFile(trace.WithSpan(ctx, span.ID()), path, opts)
	span.WithExtra("groups", strconv.Itoa(res.Groups))
	if res.Cached {
		span.WithExtra("cached", "true")
	}
	span.End(string(res.Status))
	return res
}
