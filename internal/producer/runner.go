package producer

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"cstyle/internal/syntax"
	"cstyle/internal/trace"
)

// Job is one file to produce trees for.
type Job struct {
	Path    string
	Content []byte
}

// Outcome is the result of one job. Err is per file: a failed job never
// affects the others.
type Outcome struct {
	Path    string
	Forest  syntax.Forest
	Err     error
	Elapsed time.Duration
}

// Runner fans jobs out over a bounded set of goroutines.
type Runner struct {
	src  Source
	jobs int
}

// NewRunner returns a runner using at most jobs concurrent producer
// processes; jobs <= 0 means GOMAXPROCS.
func NewRunner(src Source, jobs int) *Runner {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{src: src, jobs: jobs}
}

// Run starts every job and returns a channel that yields one Outcome per job
// in completion order and is closed after the last one. Jobs not yet started
// when ctx is canceled report the context error.
func (r *Runner) Run(ctx context.Context, jobs []Job) <-chan Outcome {
	out := make(chan Outcome, len(jobs))
	if len(jobs) == 0 {
		close(out)
		return out
	}

	// no errgroup.WithContext: one file failing must not cancel the rest
	var g errgroup.Group
	g.SetLimit(min(r.jobs, len(jobs)))
	go func() {
		defer close(out)
		for _, job := range jobs {
			g.Go(func() error {
				out <- r.produce(ctx, job)
				return nil
			})
		}
		_ = g.Wait()
	}()
	return out
}

func (r *Runner) produce(ctx context.Context, job Job) Outcome {
	start := time.Now()
	res := Outcome{Path: job.Path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeProducer, "produce", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", job.Path)
	tree, err := r.src.Produce(ctx, job.Path, job.Content)
	res.Elapsed = time.Since(start)
	if err != nil {
		res.Err = err
		span.End(err.Error())
		return res
	}
	res.Forest = tree.Forest
	span.End("")
	return res
}
