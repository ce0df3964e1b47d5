// Package papagaio exposes the entry points of the rewriting engine. See the
// rewrite package for the pattern language.
package papagaio

import "github.com/gnoverse/papagaio/rewrite"

type (
	Rule    = rewrite.Rule
	Symbols = rewrite.Symbols
)

// Process applies rules to input with the default "$ { }" symbols.
func Process(input string, rules []Rule) string {
	return rewrite.Process(input, rules)
}

// ProcessWithSymbols applies rules compiled under an explicit symbol triple.
func ProcessWithSymbols(input string, sym Symbols, rules []Rule) (string, error) {
	return rewrite.ProcessWithSymbols(input, sym, rules)
}
