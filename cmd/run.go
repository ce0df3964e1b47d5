package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/internal/runner"
	"github.com/gnoverse/papagaio/rewrite"
)

var (
	inlineMode     bool
	inlineKeyword  string
	recursionLimit int
)

var runCmd = &cobra.Command{
	Use:   "run [files...]",
	Short: "Rewrite the concatenated files (or stdin) and print the result",
	Long: `Rewrite the concatenated files (or stdin) and print the result.

The rules come from the rule file given by --config. With --inline, or when
the default rule file does not exist, the rules are declared in the input
itself:

  pattern {hello $who} {hi $who}
  hello world`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		sources, err := readSources(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		out, err := runSources(ctx, logger, sources)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

func init() {
	runCmd.Flags().BoolVar(&inlineMode, "inline", false, "Use the pattern declarations found in the input")
	runCmd.Flags().StringVar(&inlineKeyword, "keyword", rewrite.DefaultKeyword, "Keyword introducing an inline declaration")
	runCmd.Flags().IntVar(&recursionLimit, "recursion-limit", rewrite.DefaultRecursionLimit, "Maximum inline declaration passes")
}

// readSources reads every file in order, or stdin when no file is given.
// All unreadable files are reported together.
func readSources(stdin io.Reader, paths []string) ([][]byte, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return [][]byte{data}, nil
	}

	var (
		sources [][]byte
		errs    []error
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("error reading %s: %w", path, err))
			continue
		}
		sources = append(sources, data)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return sources, nil
}

func runSources(ctx context.Context, logger *zap.Logger, sources [][]byte) (string, error) {
	if inlineMode || configMissing(cfgFile) {
		var input []byte
		for _, src := range sources {
			input = append(input, src...)
		}
		logger.Debug("Running inline declarations", zap.Int("bytes", len(input)))
		return rewrite.ProcessInline(string(input), rewrite.InlineOptions{
			Keyword:        inlineKeyword,
			RecursionLimit: recursionLimit,
		})
	}

	engine, _, err := loadEngine(cfgFile, logger)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out, stats := runner.RunSources(engine, sources...)
	logger.Debug("Rewrote input", zap.Int("matches", stats.Matches))
	return out, nil
}
