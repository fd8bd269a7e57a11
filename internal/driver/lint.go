package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"qmllint/internal/ast"
	"qmllint/internal/diag"
	"qmllint/internal/lint"
	"qmllint/internal/qualifier"
	"qmllint/internal/source"
	"qmllint/internal/trace"
)

// Options configure a lint run. Lint.Importer is ignored: every document
// gets its own importer sharing Lint.Cache.
type Options struct {
	Lint lint.Options
	// MaxDiagnostics caps each document's bag; 0 means unlimited.
	MaxDiagnostics int
	// Jobs bounds parallel analyses; <= 0 uses GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
	// NoMembers restricts the qualifier check to the first link of chains.
	NoMembers bool
}

// Result is the outcome of one document.
type Result struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	OK     bool
	// UnknownTypes lists unresolved or cyclic type names.
	UnknownTypes []string
	Elapsed      time.Duration
}

// Report collects the results of a run over several documents.
type Report struct {
	FileSet *source.FileSet
	Results []Result
}

// OK reports whether every document passed.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.OK {
			return false
		}
	}
	return true
}

// Bag merges every document's diagnostics, sorted.
func (r *Report) Bag() *diag.Bag {
	all := diag.NewBag(0)
	for _, res := range r.Results {
		all.Merge(res.Bag)
	}
	all.Sort()
	return all
}

// Files lists the documents of the report.
func (r *Report) Files() []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Path
	}
	return out
}

// LintFile analyses a single document.
func LintFile(ctx context.Context, path string, opts Options) (*Result, *source.FileSet, error) {
	report, err := lintFiles(ctx, []string{path}, source.NewFileSet(), opts)
	if err != nil {
		return nil, nil, err
	}
	return &report.Results[0], report.FileSet, nil
}

// LintDir analyses every document below dir, each in its own analysis.
func LintDir(ctx context.Context, dir string, opts Options) (*Report, error) {
	files, err := listDocuments(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return lintFiles(ctx, files, source.NewFileSetWithBase(dir), opts)
}

// LintPaths expands directories and lints the documents in argument order.
func LintPaths(ctx context.Context, paths []string, opts Options) (*Report, error) {
	files, err := ListDocuments(paths)
	if err != nil {
		return nil, err
	}
	return lintFiles(ctx, files, source.NewFileSet(), opts)
}

// ListDocuments expands directories into the sorted documents below them;
// file arguments are kept as given.
func ListDocuments(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		docs, err := listDocuments(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p, err)
		}
		files = append(files, docs...)
	}
	return files, nil
}

func lintFiles(ctx context.Context, files []string, fileSet *source.FileSet, opts Options) (*Report, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "lint", trace.CurrentSpan(ctx))
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	report := &Report{FileSet: fileSet, Results: make([]Result, len(files))}
	if len(files) == 0 {
		return report, nil
	}
	for _, f := range files {
		emit(opts.Progress, Event{File: f, Stage: StageLoad, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	reg := &fileRegistry{fs: fileSet}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			report.Results[i] = lintOne(gctx, path, reg, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

func lintOne(ctx context.Context, path string, reg *fileRegistry, opts Options) Result {
	start := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.BeginDocument(tracer, path, trace.CurrentSpan(ctx))

	bag := diag.NewBag(opts.MaxDiagnostics)
	res := Result{Path: path, Bag: bag}
	finish := func(status Status, err error) Result {
		res.Elapsed = time.Since(start)
		span.End(passDetail(res.OK))
		emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: status, Err: err, Elapsed: res.Elapsed})
		return res
	}

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	doc, err := ast.Load(path)
	res.FileID = reg.register(path, doc)
	if err != nil {
		code := diag.IODecodeError
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			code = diag.IOLoadFileError
		}
		if !opts.Lint.Silent {
			bag.Add(diag.New(diag.SevError, code, source.Span{File: res.FileID}, err.Error()))
		}
		return finish(StatusError, err)
	}

	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	// Importer не потокобезопасен: каждый документ строит свой, кэш общий
	lo := opts.Lint
	lo.Importer = nil
	lo.Reporter = reporter
	lo.Tracer = tracer
	if lo.Qualifier == nil {
		lo.Qualifier = &qualifier.Checker{NoMembers: opts.NoMembers}
	}

	emit(opts.Progress, Event{File: path, Stage: StageAnalyze, Status: StatusWorking})
	v := lint.New(doc, res.FileID, lo)
	v.SetTraceSpan(span)
	walk := span.Child(trace.ScopePass, "walk")
	v.Run()
	walk.End(passDetail(!v.Failed()))

	emit(opts.Progress, Event{File: path, Stage: StageCheck, Status: StatusWorking})
	res.OK = v.Check()
	res.UnknownTypes = v.UnknownImports()
	bag.Sort()

	if !res.OK {
		return finish(StatusError, nil)
	}
	return finish(StatusDone, nil)
}

func passDetail(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}
