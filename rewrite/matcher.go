package rewrite

// Capture is a named value produced by a successful match. Value points into
// the matched input. Parts is only set for block sequences and holds the inner
// span of every block in the run.
type Capture struct {
	Name  string
	Value Span
	Parts []Span
}

// Match is the result of matching a Pattern at one input offset.
type Match struct {
	Start    int
	End      int
	Captures []Capture

	src string
}

// Len returns the number of input bytes consumed by the match.
func (m *Match) Len() int { return m.End - m.Start }

// Text returns the matched input text.
func (m *Match) Text() string { return m.src[m.Start:m.End] }

// Lookup returns the value of the first capture called name.
func (m *Match) Lookup(name string) (string, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c.Value.In(m.src), true
		}
	}
	return "", false
}

// Value is Lookup without the presence flag.
func (m *Match) Value(name string) string {
	v, _ := m.Lookup(name)
	return v
}

// Parts returns the inner text of every block captured by the block sequence
// called name. For other captures it returns the value as a single part.
func (m *Match) Parts(name string) []string {
	for _, c := range m.Captures {
		if c.Name != name {
			continue
		}
		if c.Parts == nil {
			if c.Value.IsEmpty() {
				return nil
			}
			return []string{c.Value.In(m.src)}
		}
		parts := make([]string, len(c.Parts))
		for i, p := range c.Parts {
			parts[i] = p.In(m.src)
		}
		return parts
	}
	return nil
}

// MatchAt attempts the pattern against src at offset start. Unterminated
// blocks are captured through the end of src.
func (p *Pattern) MatchAt(src string, start int) (*Match, bool) {
	return p.match(src, start, false)
}

// FindAll returns the leftmost non-overlapping matches of p in src. A match
// that consumes nothing is followed by a one character step.
func (p *Pattern) FindAll(src string) []*Match {
	var matches []*Match
	pos := 0
	for pos < len(src) {
		m, ok := p.MatchAt(src, pos)
		if !ok {
			pos += charLen(src, pos)
			continue
		}
		matches = append(matches, m)
		if m.End > pos {
			pos = m.End
		} else {
			pos += charLen(src, pos)
		}
	}
	return matches
}

// match runs the tokens in one forward pass. Any failure discards the
// partial captures.
func (p *Pattern) match(src string, start int, strict bool) (*Match, bool) {
	if start < 0 || start > len(src) {
		return nil, false
	}

	pos := start
	var caps []Capture
	// previous token was optional and matched nothing
	skipped := false

	for i := range p.tokens {
		tok := &p.tokens[i]
		emptyOptional := false

		switch tok.Kind {
		case TokenWhitespace:
			if pos < len(src) && isSpace(src[pos]) {
				pos = skipSpace(src, pos)
				break
			}
			if !tok.AllOptionalAfter && !skipped {
				return nil, false
			}

		case TokenLiteral:
			lit := tok.Text.In(p.src)
			if !hasPrefixAt(src, pos, lit) {
				return nil, false
			}
			pos += len(lit)

		case TokenVariable:
			if i == 0 || p.tokens[i-1].Kind != TokenWhitespace {
				pos = skipSpace(src, pos)
			}
			end := p.scanVariable(src, pos, tok)
			if end == pos {
				if !tok.Optional {
					return nil, false
				}
				emptyOptional = true
			}
			caps = append(caps, Capture{
				Name:  tok.Name.In(p.src),
				Value: Span{Start: pos, Len: end - pos},
			})
			pos = end

		case TokenBlock:
			if !hasPrefixAt(src, pos, tok.OpenDelim) {
				if !tok.Optional {
					return nil, false
				}
				caps = append(caps, Capture{Name: tok.Name.In(p.src), Value: Span{Start: pos}})
				emptyOptional = true
				break
			}
			span, next, closed := ExtractBlock(src, pos, tok.OpenDelim, tok.CloseDelim)
			if !closed && strict {
				return nil, false
			}
			caps = append(caps, Capture{Name: tok.Name.In(p.src), Value: span})
			pos = next

		case TokenBlockSeq:
			c, next, ok := p.matchBlockSeq(src, pos, tok, strict)
			if !ok {
				return nil, false
			}
			caps = append(caps, c)
			emptyOptional = next == pos
			pos = next
		}

		if tok.Kind != TokenWhitespace {
			skipped = emptyOptional
		}
	}

	return &Match{Start: start, End: pos, Captures: caps, src: src}, true
}

// scanVariable greedily consumes input from pos until whitespace, the end of
// src, or the start of the next significant token.
func (p *Pattern) scanVariable(src string, pos int, tok *Token) int {
	var next *Token
	if tok.NextSignificant >= 0 {
		next = &p.tokens[tok.NextSignificant]
	}
	for pos < len(src) {
		if isSpace(src[pos]) {
			break
		}
		if next != nil && p.startsAt(next, src, pos) {
			break
		}
		pos++
	}
	return pos
}

// startsAt reports whether tok would begin matching at src[pos]. Only
// literals and blocks can be recognized without consuming input.
func (p *Pattern) startsAt(tok *Token, src string, pos int) bool {
	switch tok.Kind {
	case TokenLiteral:
		return hasPrefixAt(src, pos, tok.Text.In(p.src))
	case TokenBlock, TokenBlockSeq:
		return hasPrefixAt(src, pos, tok.OpenDelim)
	}
	return false
}

// matchBlockSeq captures a run of blocks separated by optional whitespace.
// Whitespace after the last block is left for the following token.
func (p *Pattern) matchBlockSeq(src string, pos int, tok *Token, strict bool) (Capture, int, bool) {
	c := Capture{Name: tok.Name.In(p.src), Value: Span{Start: pos}}
	if !hasPrefixAt(src, pos, tok.OpenDelim) {
		return c, pos, tok.Optional
	}

	start, end := pos, pos
	for {
		span, next, closed := ExtractBlock(src, pos, tok.OpenDelim, tok.CloseDelim)
		if !closed && strict {
			return c, pos, false
		}
		c.Parts = append(c.Parts, span)
		end = next

		pos = skipSpace(src, next)
		if !closed || !hasPrefixAt(src, pos, tok.OpenDelim) {
			break
		}
	}

	c.Value = Span{Start: start, Len: end - start}
	return c, end, true
}
