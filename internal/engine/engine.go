// Package engine runs the declaration reorderer over files on disk.
package engine

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"deporder/internal/errors"
	"deporder/internal/order"
	"deporder/internal/parse"
)

// Cache remembers content already verified to be in order.
type Cache interface {
	Lookup(ctx context.Context, path, checksum, options string) (bool, error)
	Record(ctx context.Context, path, checksum, options string) error
}

// Options configure an Engine.
type Options struct {
	Order       order.Options
	Parse       parse.Options
	Jobs        int
	AllowErrors bool
}

// Engine reorders declarations in source files.
type Engine struct {
	opts        Options
	fingerprint string
	cache       Cache
	logger      *slog.Logger
}

// New creates an engine. cache may be nil.
func New(opts Options, cache Cache, logger *slog.Logger) *Engine {
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}
	return &Engine{
		opts:        opts,
		fingerprint: fmt.Sprintf("%s;comments=%t;allowErrors=%t", opts.Order.Fingerprint(), opts.Parse.AttachComments, opts.AllowErrors),
		cache:       cache,
		logger:      logger,
	}
}

// Run processes files in parallel. Per-file failures are recorded in the report; the
// returned error is non-nil only when the run itself was interrupted.
func (e *Engine) Run(ctx context.Context, files []string, mode Mode) (*Report, error) {
	report := &Report{
		RunID:     uuid.New().String(),
		Mode:      mode.String(),
		StartedAt: time.Now(),
		Files:     make([]FileResult, len(files)),
	}
	logger := e.logger.With("runID", report.RunID)
	logger.Debug("Starting run", "mode", mode.String(), "files", len(files), "jobs", e.opts.Jobs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Jobs)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report.Files[i] = e.processFile(ctx, logger, path, mode)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.tally()
	report.Duration = time.Since(report.StartedAt)
	logger.Info("Run complete",
		"mode", mode.String(),
		"total", report.Total,
		"changed", report.Changed,
		"cached", report.Cached,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report, nil
}

func (e *Engine) processFile(ctx context.Context, logger *slog.Logger, path string, mode Mode) (res FileResult) {
	start := time.Now()
	res.Path = path
	defer func() { res.Duration = time.Since(start) }()

	src, err := os.ReadFile(path)
	if err != nil {
		res.Err = errors.Wrap(errors.IOFailed, "read", err).WithPath(path)
		res.Error = res.Err.Error()
		logger.Warn("Failed to read file", "path", path, "error", err)
		return res
	}

	sum := checksum(src)
	if e.lookup(ctx, logger, path, sum) {
		res.Cached = true
		if mode == ModePrint {
			res.Output = src
		}
		logger.Debug("Cache hit", "path", path)
		return res
	}

	out, decls, err := e.transform(ctx, path, src)
	if err != nil {
		res.Err = err
		res.Error = err.Error()
		// A file the parser could not read cleanly is left alone.
		res.Skipped = errors.Is(err, errors.ParseFailed)
		logger.Warn("Skipping file", "path", path, "error", err)
		return res
	}
	res.Declarations = decls
	res.Changed = !bytes.Equal(out, src)

	switch mode {
	case ModePrint:
		res.Output = out
	case ModeWrite:
		if res.Changed {
			if err := writeFile(path, out); err != nil {
				res.Err = err
				res.Error = err.Error()
				logger.Warn("Failed to write file", "path", path, "error", err)
				return res
			}
			logger.Debug("Rewrote file", "path", path, "declarations", len(res.Moved()))
		}
	}

	switch {
	case !res.Changed:
		e.record(ctx, logger, path, sum)
	case mode == ModeWrite:
		e.record(ctx, logger, path, checksum(out))
	}
	return res
}

// transform parses src, reorders every recognized declaration and renders the result.
func (e *Engine) transform(ctx context.Context, path string, src []byte) ([]byte, []order.DeclReport, error) {
	p := parse.NewParser(e.opts.Parse)
	defer p.Close()

	file, err := p.ParseFile(ctx, path, src)
	if err != nil {
		return nil, nil, err
	}
	if file.HasErrors() && !e.opts.AllowErrors {
		first := file.Errors[0]
		return nil, nil, errors.New(errors.ParseFailed,
			fmt.Sprintf("syntax error at line %d", lineOf(src, first.Start))).
			WithPath(path).
			WithDetails(map[string]int{"errors": len(file.Errors)})
	}

	root, decls := order.Reorder(file.Root, e.opts.Order)
	for i := range decls {
		decls[i].Line = lineOf(src, decls[i].Span.Start)
	}
	file.Root = root
	out := file.Render()
	if !bytes.Equal(out, src) {
		if err := verify(ctx, p, path, out, len(file.Errors)); err != nil {
			return nil, nil, err
		}
	}
	return out, decls, nil
}

// verify re-parses reordered output and rejects it when it has more syntax errors than
// the input had.
func verify(ctx context.Context, p *parse.Parser, path string, out []byte, inputErrors int) error {
	check, err := p.ParseFile(ctx, path, out)
	if err != nil {
		return err
	}
	if len(check.Errors) > inputErrors {
		first := check.Errors[0]
		return errors.New(errors.InternalError,
			fmt.Sprintf("reordered output does not parse (line %d); file left unchanged", lineOf(out, first.Start))).
			WithPath(path).
			WithDetails(map[string]int{"errors": len(check.Errors), "inputErrors": inputErrors})
	}
	return nil
}

// Source reorders an in-memory buffer. name picks the grammar and defaults to TypeScript
// when it has no recognized extension.
func (e *Engine) Source(ctx context.Context, name string, src []byte) (*FileResult, error) {
	start := time.Now()
	path := name
	if !parse.Supported(path) {
		path = "stdin.ts"
	}
	out, decls, err := e.transform(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return &FileResult{
		Path:         name,
		Changed:      !bytes.Equal(out, src),
		Declarations: decls,
		Output:       out,
		Duration:     time.Since(start),
	}, nil
}

// Deps reports the dependency mapping and member order of every declaration in path
// without touching the file or the cache.
func (e *Engine) Deps(ctx context.Context, path string) (*FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.IOFailed, "read", err).WithPath(path)
	}
	res, err := e.Source(ctx, path, src)
	if err != nil {
		return nil, err
	}
	res.Output = nil
	return res, nil
}

// Err summarizes a report as an error: the first hard failure, else NOT_ORDERED when
// checking found files to change.
func (r *Report) Err() error {
	for _, f := range r.Files {
		if f.Err != nil && !f.Skipped {
			if r.Failed > 1 {
				return fmt.Errorf("%d files failed, first: %w", r.Failed, f.Err)
			}
			return f.Err
		}
	}
	if (r.Mode == ModeCheck.String() || r.Mode == ModeList.String()) && r.Changed > 0 {
		return errors.New(errors.NotOrdered, fmt.Sprintf("%d of %d files are not in dependency order", r.Changed, r.Total))
	}
	return nil
}

func (e *Engine) lookup(ctx context.Context, logger *slog.Logger, path, sum string) bool {
	if e.cache == nil {
		return false
	}
	hit, err := e.cache.Lookup(ctx, path, sum, e.fingerprint)
	if err != nil {
		logger.Warn("Cache lookup failed", "path", path, "error", err)
		return false
	}
	return hit
}

func (e *Engine) record(ctx context.Context, logger *slog.Logger, path, sum string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Record(ctx, path, sum, e.fingerprint); err != nil {
		logger.Warn("Cache update failed", "path", path, "error", err)
	}
}

func checksum(src []byte) string {
	sum := blake2b.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// lineOf returns the 1-based line holding byte offset pos.
func lineOf(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	return bytes.Count(src[:pos], []byte{'\n'}) + 1
}

// writeFile replaces path, keeping its permission bits.
func writeFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return errors.Wrap(errors.IOFailed, "write", err).WithPath(path)
	}
	return nil
}
