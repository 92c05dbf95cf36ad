// Package driver runs a whole check: it lists the input files, loads them,
// asks the tree producer for their syntax trees and walks every tree with
// the built-in policies.
package driver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"cstyle/internal/diag"
	"cstyle/internal/lint"
	"cstyle/internal/observ"
	"cstyle/internal/producer"
	"cstyle/internal/rules"
	"cstyle/internal/source"
	"cstyle/internal/symbols"
	"cstyle/internal/trace"
)

// Options configures Check.
type Options struct {
	// Source produces the trees. Required.
	Source producer.Source
	// Jobs bounds concurrent producer runs; <= 0 means GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the diagnostics kept per file; <= 0 means no cap.
	MaxDiagnostics int
	Lint           lint.Options
	// Severity overrides keyed by composite or bare policy code.
	Severity map[string]diag.Severity
	// BaseDir is used for relative paths in output.
	BaseDir       string
	Progress      ProgressSink
	EnableTimings bool
}

// FileResult is the outcome for one input file. Err is set when the file
// could not be read, the producer failed on it or a policy aborted; the
// diagnostics raised before a policy abort are kept.
type FileResult struct {
	Path    string
	FileID  source.FileID
	Bag     *diag.Bag
	Err     error
	Elapsed time.Duration
}

// Result aggregates a whole run. Files is sorted by path.
type Result struct {
	FileSet *source.FileSet
	Catalog *lint.Catalog
	Files   []FileResult
	Timing  observ.Report
}

// NewCatalog builds the registry of the built-in policies with overrides
// applied.
func NewCatalog(overrides map[string]diag.Severity) (*lint.Catalog, error) {
	cat, err := lint.NewCatalog(rules.Builtin())
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	// bare policy codes first so composite codes can refine them
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if err := cat.Override(k, overrides[k]); err != nil {
			return nil, fmt.Errorf("severity override: %w", err)
		}
	}
	return cat, nil
}

// Check analyzes every file under paths. The returned error is reserved for
// failures that stop the run as a whole; per-file failures are reported on
// FileResult.Err.
func Check(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if opts.Source == nil {
		return nil, errors.New("driver: no tree producer configured")
	}
	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeRun, "check", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	cat, err := NewCatalog(opts.Severity)
	if err != nil {
		return nil, err
	}

	idx := timer.Begin("discover")
	files, err := ListFiles(paths)
	timer.End(idx, fmt.Sprintf("files=%d", len(files)))
	if err != nil {
		return nil, err
	}

	res := &Result{
		FileSet: source.NewFileSetWithBase(opts.BaseDir),
		Catalog: cat,
		Files:   make([]FileResult, 0, len(files)),
	}
	if len(files) == 0 {
		res.Timing = timer.Report()
		return res, nil
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageProduce, Status: StatusQueued})
	}

	idx = timer.Begin("load")
	jobs := make([]producer.Job, 0, len(files))
	ids := make(map[string]source.FileID, len(files))
	for _, path := range files {
		id, err := res.FileSet.Load(path)
		if err != nil {
			res.Files = append(res.Files, FileResult{Path: path, Err: fmt.Errorf("load: %w", err)})
			emit(opts.Progress, Event{File: path, Stage: StageProduce, Status: StatusError, Err: err})
			continue
		}
		ids[path] = id
		jobs = append(jobs, producer.Job{Path: path, Content: res.FileSet.Get(id).Content})
	}
	timer.End(idx, "")

	engine := lint.NewEngine(rules.Builtin(), cat,
		lint.WithOptions(opts.Lint),
		lint.WithSymbols(symbols.NewCache()),
	)

	idx = timer.Begin("check")
	emit(opts.Progress, Event{Stage: StageProduce, Status: StatusWorking})
	var produceTotal, analyzeTotal time.Duration
	for out := range producer.NewRunner(opts.Source, opts.Jobs).Run(ctx, jobs) {
		produceTotal += out.Elapsed
		fr := FileResult{
			Path:    out.Path,
			FileID:  ids[out.Path],
			Bag:     diag.NewBag(opts.MaxDiagnostics),
			Elapsed: out.Elapsed,
		}
		if out.Err != nil {
			fr.Err = out.Err
			res.Files = append(res.Files, fr)
			emit(opts.Progress, Event{File: out.Path, Stage: StageProduce, Status: StatusError, Err: out.Err, Elapsed: out.Elapsed})
			continue
		}

		emit(opts.Progress, Event{File: out.Path, Stage: StageAnalyze, Status: StatusWorking})
		start := time.Now()
		fr.Err = engine.Analyze(ctx, lint.Unit{Files: res.FileSet, File: fr.FileID, Forest: out.Forest}, diag.BagReporter{Bag: fr.Bag})
		took := time.Since(start)
		analyzeTotal += took
		fr.Elapsed += took
		fr.Bag.Sort()
		res.Files = append(res.Files, fr)

		status := StatusDone
		if fr.Err != nil {
			status = StatusError
		}
		emit(opts.Progress, Event{File: out.Path, Stage: StageAnalyze, Status: status, Err: fr.Err, Elapsed: fr.Elapsed, Diagnostics: fr.Bag.Len()})
	}
	timer.End(idx, fmt.Sprintf("produce=%s analyze=%s", produceTotal.Round(time.Microsecond), analyzeTotal.Round(time.Microsecond)))

	sort.Slice(res.Files, func(i, j int) bool { return res.Files[i].Path < res.Files[j].Path })
	res.Timing = timer.Report()
	emit(opts.Progress, Event{Stage: StageAnalyze, Status: StatusDone})
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// Diagnostics returns every diagnostic of the run in file order.
func (r *Result) Diagnostics() []*diag.Diagnostic {
	var out []*diag.Diagnostic
	for _, f := range r.Files {
		if f.Bag != nil {
			out = append(out, f.Bag.Items()...)
		}
	}
	return out
}

// Failed returns the files that could not be analyzed completely.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was raised.
func (r *Result) HasErrors() bool {
	for _, f := range r.Files {
		if f.Bag != nil && f.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Exit codes of a check run.
const (
	ExitClean  = 0
	ExitErrors = 1
	ExitFailed = 2
)

// ExitCode maps the result to the process exit code: a failed file wins
// over error diagnostics.
func (r *Result) ExitCode() int {
	switch {
	case len(r.Failed()) > 0:
		return ExitFailed
	case r.HasErrors():
		return ExitErrors
	default:
		return ExitClean
	}
}
