package rewrite

import (
	"fmt"
	"strings"
)

// Rule pairs a pattern with the replacement template used when it matches.
// The replacement is interpreted at substitution time.
type Rule struct {
	Name        string `yaml:"name,omitempty" toml:"name"`
	Pattern     string `yaml:"pattern" toml:"pattern"`
	Replacement string `yaml:"replacement" toml:"replacement"`
}

// Label identifies the rule in logs and statistics.
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}

// Options configures an Engine. The zero value uses DefaultSymbols.
type Options struct {
	Symbols Symbols
	// StrictBlocks makes an unterminated block a failed match instead of a
	// capture through the end of the input.
	StrictBlocks bool
	// DisablePrefilter forces the plain scan loop.
	DisablePrefilter bool
}

func (o Options) withDefaults() Options {
	if o.Symbols.isZero() {
		o.Symbols = DefaultSymbols()
	}
	return o
}

// Stats counts the substitutions made by one Process call.
type Stats struct {
	Matches int
	PerRule map[string]int
}

// Engine owns an ordered rule list compiled with a single Symbols
// configuration. It is immutable after NewEngine and safe for concurrent use.
type Engine struct {
	rules    []Rule
	patterns []*Pattern
	opts     Options
	pf       *prefilter
}

// NewEngine compiles rules in order. Earlier rules win over later ones at the
// same input position.
func NewEngine(rules []Rule, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	if err := opts.Symbols.Validate(); err != nil {
		return nil, fmt.Errorf("invalid symbols: %w", err)
	}

	e := &Engine{
		rules:    make([]Rule, len(rules)),
		patterns: make([]*Pattern, len(rules)),
		opts:     opts,
	}
	copy(e.rules, rules)
	for i, r := range rules {
		p, err := Compile(r.Pattern, opts.Symbols)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.Label(), err)
		}
		e.patterns[i] = p
	}
	if !opts.DisablePrefilter {
		e.pf = newPrefilter(e.patterns)
	}
	return e, nil
}

// Options returns the options the engine was built with, defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Rules returns a copy of the rule list.
func (e *Engine) Rules() []Rule {
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Process rewrites input and returns the result.
func (e *Engine) Process(input string) string {
	out, _ := e.ProcessStats(input)
	return out
}

// ProcessStats rewrites input and reports how many substitutions each rule
// made.
//
// At every position the rules are tried in order and the first match wins.
// Its expanded replacement is emitted and the cursor moves to the match end.
// Without a match one character is copied verbatim. A match that consumed
// nothing is followed by a verbatim copy of one character so the scan always
// makes progress.
func (e *Engine) ProcessStats(input string) (string, Stats) {
	stats := Stats{PerRule: make(map[string]int)}
	if len(e.patterns) == 0 {
		return input, stats
	}

	var out strings.Builder
	out.Grow(len(input))

	var haystack []byte
	if e.pf != nil {
		haystack = []byte(input)
	}

	pos := 0
	for pos < len(input) {
		if e.pf != nil {
			next := e.pf.next(haystack, pos)
			if next < 0 {
				out.WriteString(input[pos:])
				break
			}
			out.WriteString(input[pos:next])
			pos = next
		}

		m, idx := e.matchAt(input, pos)
		if m == nil {
			pos = copyChar(&out, input, pos)
			continue
		}

		writeSubstitution(&out, e.rules[idx].Replacement, m, e.opts.Symbols.Sigil)
		stats.Matches++
		stats.PerRule[e.rules[idx].Label()]++

		if m.End > pos {
			pos = m.End
		} else {
			pos = copyChar(&out, input, pos)
		}
	}
	return out.String(), stats
}

// MatchAt returns the first rule match at pos and the index of that rule,
// or nil and -1.
func (e *Engine) MatchAt(input string, pos int) (*Match, int) {
	return e.matchAt(input, pos)
}

func (e *Engine) matchAt(input string, pos int) (*Match, int) {
	for i, p := range e.patterns {
		if m, ok := p.match(input, pos, e.opts.StrictBlocks); ok {
			return m, i
		}
	}
	return nil, -1
}

func copyChar(out *strings.Builder, input string, pos int) int {
	n := charLen(input, pos)
	out.WriteString(input[pos : pos+n])
	return pos + n
}

// Process rewrites input with rules using the default symbols.
func Process(input string, rules []Rule) string {
	e, err := NewEngine(rules, Options{})
	if err != nil {
		// the default symbols always validate
		panic(err)
	}
	return e.Process(input)
}

// ProcessWithSymbols rewrites input with rules compiled under sym.
func ProcessWithSymbols(input string, sym Symbols, rules []Rule) (string, error) {
	if sym.isZero() {
		return "", fmt.Errorf("invalid symbols: %w", ErrEmptySigil)
	}
	e, err := NewEngine(rules, Options{Symbols: sym})
	if err != nil {
		return "", err
	}
	return e.Process(input), nil
}
