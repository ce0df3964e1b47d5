package rewrite

import (
	"fmt"
	"strings"
)

// TokenKind defines the type of a compiled pattern token.
type TokenKind int

const (
	TokenLiteral    TokenKind = iota // verbatim text
	TokenVariable                    // $name
	TokenBlock                       // ${open}{close}name
	TokenBlockSeq                    // $${open}{close}name
	TokenWhitespace                  // run of whitespace
)

func (k TokenKind) String() string {
	switch k {
	case TokenLiteral:
		return "Literal"
	case TokenVariable:
		return "Variable"
	case TokenBlock:
		return "Block"
	case TokenBlockSeq:
		return "BlockSeq"
	case TokenWhitespace:
		return "Whitespace"
	default:
		return "Unknown"
	}
}

// Token is a single compiled pattern element. Spans point into the pattern
// source; NextSignificant and AllOptionalAfter are derived once the whole
// pattern has been tokenized and never change afterwards.
type Token struct {
	Kind TokenKind
	Text Span // full source text of the token
	Name Span // capture name (Variable, Block, BlockSeq)

	// Delimiter overrides as written in the pattern. Empty when absent.
	Open  Span
	Close Span

	// Effective delimiters used for matching.
	OpenDelim  string
	CloseDelim string

	Optional bool

	// NextSignificant is the index of the nearest following non-whitespace
	// token, or -1.
	NextSignificant int
	// AllOptionalAfter is true when every non-whitespace token after this one
	// is optional.
	AllOptionalAfter bool
}

func (t Token) captures() bool {
	switch t.Kind {
	case TokenVariable, TokenBlock, TokenBlockSeq:
		return true
	}
	return false
}

// Pattern is an immutable compiled pattern. It may be matched against any
// number of inputs concurrently.
type Pattern struct {
	src    string
	sym    Symbols
	tokens []Token
}

// Source returns the pattern text as it was compiled.
func (p *Pattern) Source() string { return p.src }

// Symbols returns the symbols the pattern was compiled with.
func (p *Pattern) Symbols() Symbols { return p.sym }

// Len returns the number of tokens.
func (p *Pattern) Len() int { return len(p.tokens) }

// Tokens returns a copy of the compiled token list.
func (p *Pattern) Tokens() []Token {
	out := make([]Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Names returns the capture names in pattern order.
func (p *Pattern) Names() []string {
	var names []string
	for _, t := range p.tokens {
		if t.captures() {
			names = append(names, t.Name.In(p.src))
		}
	}
	return names
}

func (p *Pattern) describe(t Token) string {
	opt := ""
	if t.Optional {
		opt = "?"
	}
	switch t.Kind {
	case TokenLiteral:
		return fmt.Sprintf("Literal(%q)", t.Text.In(p.src))
	case TokenVariable:
		return fmt.Sprintf("Variable(%s%s)", t.Name.In(p.src), opt)
	case TokenBlock, TokenBlockSeq:
		return fmt.Sprintf("%s(%q %q %s%s)", t.Kind, t.OpenDelim, t.CloseDelim, t.Name.In(p.src), opt)
	default:
		return t.Kind.String()
	}
}

func (p *Pattern) String() string {
	parts := make([]string, len(p.tokens))
	for i, t := range p.tokens {
		parts[i] = p.describe(t)
	}
	return strings.Join(parts, " ")
}
