package rewrite

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySigil     = errors.New("sigil must not be empty")
	ErrEmptyDelimiter = errors.New("block delimiter must not be empty")
)

// Symbols configures the markers recognized in patterns and replacement
// templates. All rules of one Engine share the same Symbols.
type Symbols struct {
	Sigil string `yaml:"sigil" toml:"sigil"`
	Open  string `yaml:"open" toml:"open"`
	Close string `yaml:"close" toml:"close"`
}

// DefaultSymbols returns the "$", "{", "}" configuration.
func DefaultSymbols() Symbols {
	return Symbols{Sigil: "$", Open: "{", Close: "}"}
}

// Validate reports whether the symbols can drive the compiler and the block
// extractor. An empty marker would match at every position without consuming
// input.
func (s Symbols) Validate() error {
	if s.Sigil == "" {
		return ErrEmptySigil
	}
	if s.Open == "" {
		return fmt.Errorf("open: %w", ErrEmptyDelimiter)
	}
	if s.Close == "" {
		return fmt.Errorf("close: %w", ErrEmptyDelimiter)
	}
	return nil
}

func (s Symbols) isZero() bool {
	return s == Symbols{}
}

func (s Symbols) String() string {
	return fmt.Sprintf("%s %s %s", s.Sigil, s.Open, s.Close)
}
