package rewrite

import (
	"bytes"

	"github.com/coregx/ahocorasick"
)

// prefilter finds the next position where at least one rule could start.
// It is only built when every rule begins with a mandatory literal or block
// opener, so skipped positions are exactly those where no rule can match.
type prefilter struct {
	auto    *ahocorasick.Automaton
	anchors [][]byte
	maxLen  int
}

// anchor returns the text every match of p must start with.
func (p *Pattern) anchor() (string, bool) {
	if len(p.tokens) == 0 {
		return "", false
	}
	first := p.tokens[0]
	switch first.Kind {
	case TokenLiteral:
		return first.Text.In(p.src), true
	case TokenBlock, TokenBlockSeq:
		if first.Optional {
			return "", false
		}
		return first.OpenDelim, first.OpenDelim != ""
	}
	return "", false
}

func newPrefilter(patterns []*Pattern) *prefilter {
	if len(patterns) == 0 {
		return nil
	}
	pf := &prefilter{}
	builder := ahocorasick.NewBuilder()
	for _, p := range patterns {
		anchor, ok := p.anchor()
		if !ok {
			return nil
		}
		pf.anchors = append(pf.anchors, []byte(anchor))
		pf.maxLen = max(pf.maxLen, len(anchor))
		builder.AddPattern([]byte(anchor))
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	pf.auto = auto
	return pf
}

// next returns the leftmost candidate position at or after at, or -1.
//
// The automaton reports the occurrence that ends first, which is not always
// the one that starts first: with anchors "abc" and "b", "xabc" yields "b"
// at 2. Any occurrence starting earlier must end at or after that one, so it
// starts within maxLen bytes of its end and a short forward check finds it.
func (pf *prefilter) next(haystack []byte, at int) int {
	if at >= len(haystack) {
		return -1
	}
	m := pf.auto.Find(haystack, at)
	if m == nil {
		return -1
	}
	for pos := max(at, m.End-pf.maxLen); pos < m.Start; pos++ {
		if pf.anchoredAt(haystack, pos) {
			return pos
		}
	}
	return m.Start
}

func (pf *prefilter) anchoredAt(haystack []byte, pos int) bool {
	for _, anchor := range pf.anchors {
		if bytes.HasPrefix(haystack[pos:], anchor) {
			return true
		}
	}
	return false
}
