package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/internal/runner"
	"github.com/gnoverse/papagaio/internal/watch"
	"github.com/gnoverse/papagaio/rewrite"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Rewrite files in place whenever they are saved",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, _, err := loadEngine(cfgFile, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		return runWatch(ctx, logger, engine, args, func(res runner.Result) {
			if res.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", res.Err)
				return
			}
			if res.Changed() {
				fmt.Fprintf(cmd.OutOrStdout(), "rewrote %s (%d matches)\n", res.Path, res.Stats.Matches)
			}
		})
	},
}

func init() {
	watchCmd.Flags().StringSliceVar(&extensions, "ext", nil, "Only watch files with these extensions (default: all)")
}

func runWatch(ctx context.Context, logger *zap.Logger, engine *rewrite.Engine, dirs []string, onResult func(runner.Result)) error {
	r, err := runner.New(runner.Config{
		Rewriter: engine,
		Mode:     runner.ModeWrite,
		Jobs:     1,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	w, err := watch.New(r, logger, watch.Options{
		Extensions: extensions,
		OnResult:   onResult,
	})
	if err != nil {
		return err
	}
	if err := w.Add(dirs...); err != nil {
		_ = w.Close()
		return err
	}

	logger.Info("Watching for changes", zap.Strings("dirs", dirs))
	return w.Run(ctx)
}
