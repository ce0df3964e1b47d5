package rewrite

import (
	"strings"
	"unicode/utf8"
)

// Span is an (offset, length) view into a string owned by someone else.
// Token spans point into the pattern source, capture spans into the input
// being scanned.
type Span struct {
	Start int
	Len   int
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Start + s.Len }

// IsEmpty reports whether the span covers nothing.
func (s Span) IsEmpty() bool { return s.Len == 0 }

// In resolves the span against src.
func (s Span) In(src string) string {
	return src[s.Start:s.End()]
}

// isSpace mirrors the C locale isspace set. Bytes >= 0x80 are never
// whitespace, so multi-byte sequences are never split.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isIdentChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && isSpace(s[pos]) {
		pos++
	}
	return pos
}

func scanIdent(s string, pos int) int {
	for pos < len(s) && isIdentChar(s[pos]) {
		pos++
	}
	return pos
}

func hasPrefixAt(s string, pos int, prefix string) bool {
	return strings.HasPrefix(s[pos:], prefix)
}

// charLen returns the width of the character at pos. Invalid UTF-8 counts
// as a single byte.
func charLen(s string, pos int) int {
	if s[pos] < utf8.RuneSelf {
		return 1
	}
	_, size := utf8.DecodeRuneInString(s[pos:])
	return size
}
