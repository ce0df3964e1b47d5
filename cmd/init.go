package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/rewrite"
)

var forceInit bool

// initCmd: papagaio init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a sample rule file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initRuleFile(cfgFile, forceInit); err != nil {
			logger.Error("Error initializing rule file", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rule file created: %s\n", cfgFile)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing rule file")
}

func initRuleFile(path string, force bool) error {
	if path == "" {
		path = defaultConfigPath
	}
	format, err := rewrite.FormatFromPath(path)
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	data, err := rewrite.SampleRuleFile().Encode(format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
