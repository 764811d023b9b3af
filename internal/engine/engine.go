// Package engine wires the whole pipeline together: discover files, parse
// and build each one's semantic model, run the rule registry, and collect
// diagnostics, partitioning the file set across a worker pool of
// errgroup-managed goroutines, one arena per file.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"go.uber.org/zap"

	"github.com/grayline/vetjs/internal/diagnostic"
	"github.com/grayline/vetjs/internal/discover"
	"github.com/grayline/vetjs/internal/file"
	"github.com/grayline/vetjs/internal/rules"
)

// Engine owns the shared, read-only state a run needs: the rule registry
// and the file discoverer. Both are built once and shared by pointer
// across worker goroutines; each goroutine's own ParsedFile and rule
// state stay private to that goroutine and are discarded on return.
type Engine struct {
	Registry   *rules.Registry
	Discoverer *discover.Discoverer
	Logger     *zap.Logger
}

// New builds an Engine around reg, using the default source-file
// discoverer and a no-op logger; set Logger after construction to get
// per-file read/parse failures logged as they happen.
func New(reg *rules.Registry) *Engine {
	return &Engine{Registry: reg, Discoverer: discover.New(), Logger: zap.NewNop()}
}

// FileResult is one file's outcome: either diagnostics, or a read/parse
// error that kept it from being analyzed at all.
type FileResult struct {
	Path        string
	Source      []byte
	Diagnostics []diagnostic.Diagnostic
	Err         error
}

// Run discovers every source file under root, analyzes them concurrently
// (one goroutine per GOMAXPROCS slot), and returns diagnostics in a
// stable, deterministic order: file path, then line, then column, then
// rule id, independent of goroutine completion order.
func (e *Engine) Run(ctx context.Context, root string) ([]FileResult, error) {
	paths, err := e.Discoverer.Files(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("engine: discover %s: %w", root, err)
	}

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	var mu sync.Mutex
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			result := e.analyzeOne(gctx, p)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortDiagnostics(results)
	return results, nil
}

// analyzeOne parses one file and runs the registry against it. A
// read/parse failure is reported on the FileResult rather than aborting
// the whole run, mirroring the rule-level panic isolation's
// fail-soft-per-unit philosophy at the file level.
func (e *Engine) analyzeOne(ctx context.Context, path string) FileResult {
	src, err := e.Discoverer.Read(ctx, path)
	if err != nil {
		e.Logger.Warn("read failed", zap.String("path", path), zap.Error(err))
		return FileResult{Path: path, Err: fmt.Errorf("read %s: %w", path, err)}
	}
	parsed, err := file.Parse(path, src)
	if err != nil {
		e.Logger.Warn("parse failed", zap.String("path", path), zap.Error(err))
		return FileResult{Path: path, Err: err}
	}
	return FileResult{Path: path, Source: src, Diagnostics: e.Registry.RunAll(parsed)}
}

func sortDiagnostics(results []FileResult) {
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	for _, r := range results {
		diags := r.Diagnostics
		sort.SliceStable(diags, func(i, j int) bool {
			if diags[i].StartLine != diags[j].StartLine {
				return diags[i].StartLine < diags[j].StartLine
			}
			if diags[i].StartCol != diags[j].StartCol {
				return diags[i].StartCol < diags[j].StartCol
			}
			return diags[i].RuleID < diags[j].RuleID
		})
	}
}

// Flatten concatenates every file's diagnostics, in FileResult order, for
// formatters that want one flat slice.
func Flatten(results []FileResult) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, r := range results {
		out = append(out, r.Diagnostics...)
	}
	return out
}

// ExitCode computes the driver's exit code: 1 if any Error-severity
// diagnostic was emitted (or Warning, when failOnWarnings is set), 0
// otherwise. Read/parse errors recorded on a FileResult are the caller's
// concern (they map to the internal-crash exit code 2, not this one) and
// are not considered here.
func ExitCode(results []FileResult, failOnWarnings bool) int {
	for _, r := range results {
		for _, d := range r.Diagnostics {
			if d.Severity == diagnostic.Error {
				return 1
			}
			if failOnWarnings && d.Severity == diagnostic.Warning {
				return 1
			}
		}
	}
	return 0
}

// AnyReadErrors reports whether any file failed to read or parse.
func AnyReadErrors(results []FileResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}
