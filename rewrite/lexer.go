package rewrite

// Compile tokenizes pattern with the given symbols and derives the lookahead
// metadata used by the matcher. Malformed fragments never fail: a dangling
// sigil becomes a variable with an empty name. The only error comes from
// invalid symbols.
func Compile(pattern string, sym Symbols) (*Pattern, error) {
	if err := sym.Validate(); err != nil {
		return nil, err
	}
	tokens := lex(pattern, sym)
	link(tokens)
	return &Pattern{src: pattern, sym: sym, tokens: tokens}, nil
}

// MustCompile is like Compile but panics on invalid symbols.
func MustCompile(pattern string, sym Symbols) *Pattern {
	p, err := Compile(pattern, sym)
	if err != nil {
		panic("rewrite: Compile(" + pattern + "): " + err.Error())
	}
	return p
}

func lex(pat string, sym Symbols) []Token {
	var tokens []Token
	i := 0
	for i < len(pat) {
		start := i
		switch {
		case isSpace(pat[i]):
			i = skipSpace(pat, i)
			tokens = append(tokens, Token{
				Kind: TokenWhitespace,
				Text: Span{Start: start, Len: i - start},
			})

		case hasPrefixAt(pat, i, sym.Sigil):
			var tok Token
			tok, i = lexReference(pat, i, sym)
			tokens = append(tokens, tok)

		default:
			for i < len(pat) && !isSpace(pat[i]) && !hasPrefixAt(pat, i, sym.Sigil) {
				i++
			}
			tokens = append(tokens, Token{
				Kind: TokenLiteral,
				Text: Span{Start: start, Len: i - start},
			})
		}
	}
	return tokens
}

// lexReference reads a variable, block or block sequence starting at the
// sigil at pat[i].
func lexReference(pat string, i int, sym Symbols) (Token, int) {
	start := i
	tok := Token{Kind: TokenVariable}
	i += len(sym.Sigil)

	// a doubled sigil only means something in front of a block opener
	if hasPrefixAt(pat, i, sym.Sigil) && hasPrefixAt(pat, i+len(sym.Sigil), sym.Open) {
		tok.Kind = TokenBlockSeq
		i += len(sym.Sigil)
	}

	if hasPrefixAt(pat, i, sym.Open) {
		if tok.Kind == TokenVariable {
			tok.Kind = TokenBlock
		}
		tok.Open, i = lexDelimiter(pat, i, sym)
		if hasPrefixAt(pat, i, sym.Open) {
			tok.Close, i = lexDelimiter(pat, i, sym)
		}
		tok.OpenDelim = sym.Open
		if !tok.Open.IsEmpty() {
			tok.OpenDelim = tok.Open.In(pat)
		}
		tok.CloseDelim = sym.Close
		if !tok.Close.IsEmpty() {
			tok.CloseDelim = tok.Close.In(pat)
		}
	}

	nameStart := i
	i = scanIdent(pat, i)
	tok.Name = Span{Start: nameStart, Len: i - nameStart}

	if i < len(pat) && pat[i] == '?' {
		tok.Optional = true
		i++
	}
	tok.Text = Span{Start: start, Len: i - start}
	return tok, i
}

// lexDelimiter reads "open ... close" starting at pat[i] and returns the span
// of the text in between. An unterminated group runs to the end of pat.
func lexDelimiter(pat string, i int, sym Symbols) (Span, int) {
	i += len(sym.Open)
	start := i
	for i < len(pat) && !hasPrefixAt(pat, i, sym.Close) {
		i++
	}
	span := Span{Start: start, Len: i - start}
	if i < len(pat) {
		i += len(sym.Close)
	}
	return span, i
}

// link fills NextSignificant and AllOptionalAfter in a single backward pass.
func link(tokens []Token) {
	next := -1
	allOptional := true
	for i := len(tokens) - 1; i >= 0; i-- {
		tokens[i].NextSignificant = next
		tokens[i].AllOptionalAfter = allOptional
		if tokens[i].Kind != TokenWhitespace {
			next = i
			allOptional = allOptional && tokens[i].Optional
		}
	}
}
