// Package runner applies one compiled rule set to many files at once.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnoverse/papagaio/internal/cache"
	"github.com/gnoverse/papagaio/rewrite"
)

// Rewriter is satisfied by *rewrite.Engine. The runner shares one Rewriter
// between all workers.
type Rewriter interface {
	ProcessStats(input string) (string, rewrite.Stats)
}

type Mode int

const (
	// ModePrint writes every output to Config.Out in input order.
	ModePrint Mode = iota
	// ModeWrite rewrites changed files in place.
	ModeWrite
	// ModeDryRun computes results without touching the files.
	ModeDryRun
)

func (m Mode) String() string {
	switch m {
	case ModePrint:
		return "print"
	case ModeWrite:
		return "write"
	case ModeDryRun:
		return "dry-run"
	default:
		return "unknown"
	}
}

// Result describes what happened to one file.
type Result struct {
	Path   string
	Input  string
	Output string
	Stats  rewrite.Stats
	// Cached is set when the file was skipped because the cache proved it
	// already went through the same rules.
	Cached bool
	Err    error
}

func (r Result) Changed() bool {
	return r.Err == nil && !r.Cached && r.Input != r.Output
}

type Config struct {
	Rewriter Rewriter
	// Digest identifies the rule set in the cache. Required with Cache.
	Digest string
	Mode   Mode
	// Jobs bounds the number of files processed at once. Zero means one per
	// CPU.
	Jobs int
	// Cache is optional and only consulted in ModeWrite.
	Cache *cache.Cache
	// Progress, when non-nil, receives a progress bar.
	Progress io.Writer
	// Out receives the outputs in ModePrint.
	Out    io.Writer
	Logger *zap.Logger
}

type Runner struct {
	cfg Config
}

func New(cfg Config) (*Runner, error) {
	if cfg.Rewriter == nil {
		return nil, errors.New("runner: rewriter is required")
	}
	if cfg.Mode == ModePrint && cfg.Out == nil {
		return nil, errors.New("runner: print mode needs an output writer")
	}
	if cfg.Cache != nil && cfg.Digest == "" {
		return nil, errors.New("runner: cache needs a rule set digest")
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{cfg: cfg}, nil
}

func (r *Runner) Mode() Mode { return r.cfg.Mode }

// Run processes paths with at most Config.Jobs workers and returns one
// Result per path in the same order. Per-file failures are reported in
// Result.Err; the returned error is only set when ctx ends the run early or
// the print writer fails.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))

	var bar *progressbar.ProgressBar
	if r.cfg.Progress != nil && len(paths) > 0 {
		bar = newProgressBar(r.cfg.Progress, len(paths))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Jobs)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.RunFile(path)
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if r.cfg.Mode == ModePrint {
		for _, res := range results {
			if res.Err != nil {
				continue
			}
			if _, err := io.WriteString(r.cfg.Out, res.Output); err != nil {
				return results, fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return results, nil
}

// RunFile processes a single file according to the configured mode.
func (r *Runner) RunFile(path string) Result {
	res := Result{Path: path}
	logger := r.cfg.Logger.With(zap.String("file", path))

	info, err := os.Stat(path)
	if err != nil {
		res.Err = fmt.Errorf("error accessing %s: %w", path, err)
		logger.Error("Error accessing file", zap.Error(err))
		return res
	}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("error reading %s: %w", path, err)
		logger.Error("Error reading file", zap.Error(err))
		return res
	}
	res.Input = string(content)

	useCache := r.cfg.Mode == ModeWrite && r.cfg.Cache != nil
	if useCache && r.cfg.Cache.Fresh(path, content, r.cfg.Digest) {
		res.Output = res.Input
		res.Cached = true
		logger.Debug("Skipping unchanged file")
		return res
	}

	res.Output, res.Stats = r.cfg.Rewriter.ProcessStats(res.Input)
	logger.Debug("Processed file", zap.Int("matches", res.Stats.Matches))

	if r.cfg.Mode != ModeWrite {
		return res
	}

	if res.Output != res.Input {
		if err := os.WriteFile(path, []byte(res.Output), info.Mode().Perm()); err != nil {
			res.Err = fmt.Errorf("error writing %s: %w", path, err)
			logger.Error("Error writing file", zap.Error(err))
			return res
		}
		logger.Info("Rewrote file", zap.Int("matches", res.Stats.Matches))
	}
	if useCache {
		r.cfg.Cache.Record(path, []byte(res.Output), r.cfg.Digest)
	}
	return res
}

// RunSources concatenates in-memory inputs and rewrites them as one text,
// the way the "run" command treats its files.
func RunSources(rw Rewriter, sources ...[]byte) (string, rewrite.Stats) {
	return rw.ProcessStats(string(bytes.Join(sources, nil)))
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("rewriting"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
