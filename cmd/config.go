package cmd

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/gnoverse/papagaio/rewrite"
)

// loadRuleFile reads the rule file named by --config.
func loadRuleFile(path string) (*rewrite.RuleFile, error) {
	if path == "" {
		path = defaultConfigPath
	}
	rf, err := rewrite.LoadRules(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("rule file %s not found (create one with \"papagaio init\"): %w", path, err)
		}
		return nil, err
	}
	return rf, nil
}

// loadEngine compiles the rule file named by --config.
func loadEngine(path string, logger *zap.Logger) (*rewrite.Engine, *rewrite.RuleFile, error) {
	rf, err := loadRuleFile(path)
	if err != nil {
		return nil, nil, err
	}
	engine, err := rf.Engine()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	if logger != nil {
		logger.Debug("Loaded rules",
			zap.String("config", path),
			zap.Int("rules", len(rf.Rules)),
			zap.Stringer("symbols", rf.Options().Symbols),
		)
	}
	return engine, rf, nil
}

// configMissing reports whether path is the default rule file and it does
// not exist.
func configMissing(path string) bool {
	if path != defaultConfigPath {
		return false
	}
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}
