package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/internal/cache"
	"github.com/gnoverse/papagaio/internal/report"
	"github.com/gnoverse/papagaio/internal/runner"
	"github.com/gnoverse/papagaio/rewrite"
	"github.com/gnoverse/papagaio/scanner"
)

const diffContext = 2

var (
	dryRun       bool
	extensions   []string
	jobs         int
	cacheDir     string
	cacheMaxAge  time.Duration
	showProgress bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [paths...]",
	Short: "Rewrite files in place",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		engine, rf, err := loadEngine(cfgFile, logger)
		if err != nil {
			return err
		}

		opts := fixOptions{
			DryRun:      dryRun,
			Extensions:  extensions,
			Jobs:        jobs,
			CacheDir:    cacheDir,
			CacheMaxAge: cacheMaxAge,
		}
		if showProgress {
			opts.Progress = cmd.ErrOrStderr()
		}

		results, err := runFix(ctx, logger, engine, rf.Digest(), args, opts)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if dryRun {
			for _, res := range results {
				if res.Changed() {
					fmt.Fprint(out, report.Diff(res.Path, res.Input, res.Output, diffContext))
				}
			}
		}
		report.WriteSummary(out, results, modeFor(dryRun))

		if s := report.Summarize(results); s.Failed > 0 {
			return fmt.Errorf("%d files failed", s.Failed)
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing them")
	fixCmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only rewrite files with these extensions (default: all)")
	fixCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of files rewritten at once (default: number of CPUs)")
	fixCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Skip files left unchanged since the last run with the same rules")
	fixCmd.Flags().DurationVar(&cacheMaxAge, "cache-max-age", 0, "Forget cache entries older than this (default: never)")
	fixCmd.Flags().BoolVar(&showProgress, "progress", false, "Show a progress bar")
}

type fixOptions struct {
	DryRun      bool
	Extensions  []string
	Jobs        int
	CacheDir    string
	CacheMaxAge time.Duration
	Progress    io.Writer
}

func modeFor(dryRun bool) runner.Mode {
	if dryRun {
		return runner.ModeDryRun
	}
	return runner.ModeWrite
}

func runFix(
	ctx context.Context,
	logger *zap.Logger,
	engine *rewrite.Engine,
	digest string,
	paths []string,
	opts fixOptions,
) ([]runner.Result, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", path, err)
		}
	}

	files, err := scanner.ScanAll(paths, opts.Extensions...)
	if err != nil {
		return nil, fmt.Errorf("error scanning paths: %w", err)
	}
	targets := make([]string, len(files))
	for i, f := range files {
		targets[i] = f.Path
	}

	cfg := runner.Config{
		Rewriter: engine,
		Digest:   digest,
		Mode:     modeFor(opts.DryRun),
		Jobs:     opts.Jobs,
		Progress: opts.Progress,
		Logger:   logger,
	}

	var c *cache.Cache
	if opts.CacheDir != "" && !opts.DryRun {
		c, err = cache.New(opts.CacheDir, opts.CacheMaxAge)
		if err != nil {
			return nil, err
		}
		cfg.Cache = c
	}

	r, err := runner.New(cfg)
	if err != nil {
		return nil, err
	}

	logger.Info("Rewriting files", zap.Int("files", len(targets)), zap.Stringer("mode", cfg.Mode))
	results, err := r.Run(ctx, targets)
	if err != nil {
		return results, err
	}

	if c != nil {
		if err := c.Save(); err != nil {
			logger.Error("Error saving cache", zap.Error(err))
		}
	}
	return results, nil
}
