package rewrite

import (
	"fmt"
	"strings"
)

const (
	DefaultKeyword        = "pattern"
	DefaultRecursionLimit = 512
)

// InlineOptions configures ProcessInline.
type InlineOptions struct {
	Options
	// Keyword introduces a declaration. Defaults to "pattern".
	Keyword string
	// RecursionLimit caps the number of collect-and-apply passes.
	RecursionLimit int
}

func (o InlineOptions) withDefaults() InlineOptions {
	o.Options = o.Options.withDefaults()
	if o.Keyword == "" {
		o.Keyword = DefaultKeyword
	}
	if o.RecursionLimit <= 0 {
		o.RecursionLimit = DefaultRecursionLimit
	}
	return o
}

// ProcessInline rewrites input with rules declared inside the input itself:
//
//	pattern {match} {replacement}
//
// Declarations are removed from the text and applied, in order of
// appearance, to what remains. Replacements may declare further rules, so
// the collect-and-apply pass repeats until no declaration is left or
// RecursionLimit passes have run.
func ProcessInline(input string, opts InlineOptions) (string, error) {
	opts = opts.withDefaults()
	if err := opts.Symbols.Validate(); err != nil {
		return "", fmt.Errorf("invalid symbols: %w", err)
	}

	src := input
	for pass := 0; pass < opts.RecursionLimit; pass++ {
		rules, rest := CollectDeclarations(src, opts.Keyword, opts.Symbols)
		if len(rules) == 0 {
			return rest, nil
		}
		e, err := NewEngine(rules, opts.Options)
		if err != nil {
			return "", fmt.Errorf("pass %d: %w", pass, err)
		}
		src = e.Process(rest)
	}
	return src, nil
}

// CollectDeclarations extracts every "keyword {match} {replacement}"
// declaration from src and returns the rules together with src minus the
// declarations. A keyword followed by a single block, or a declaration with
// an empty match block, is removed without producing a rule.
func CollectDeclarations(src, keyword string, sym Symbols) ([]Rule, string) {
	var (
		rules []Rule
		out   strings.Builder
	)

	pos := 0
	for pos < len(src) {
		k := strings.Index(src[pos:], keyword)
		if k < 0 {
			break
		}
		at := pos + k
		if at > 0 && isIdentChar(src[at-1]) {
			out.WriteString(src[pos : at+1])
			pos = at + 1
			continue
		}

		open := skipSpace(src, at+len(keyword))
		if !hasPrefixAt(src, open, sym.Open) {
			out.WriteString(src[pos : at+1])
			pos = at + 1
			continue
		}

		match, end, _ := ExtractBlock(src, open, sym.Open, sym.Close)
		out.WriteString(src[pos:at])

		next := skipSpace(src, end)
		if next < len(src) && hasPrefixAt(src, next, sym.Open) {
			repl, replEnd, _ := ExtractBlock(src, next, sym.Open, sym.Close)
			// an empty pattern would fire at every position
			if pattern := strings.TrimSpace(match.In(src)); pattern != "" {
				rules = append(rules, Rule{
					Name:        fmt.Sprintf("inline#%d", len(rules)),
					Pattern:     pattern,
					Replacement: strings.TrimSpace(repl.In(src)),
				})
			}
			end = replEnd
		}
		pos = end
	}
	out.WriteString(src[pos:])
	return rules, out.String()
}
