package rewrite

// ExtractBlock reads a balanced block that opens at src[pos].
//
// When src does not start with open at pos, it returns an empty span and pos
// unchanged. Otherwise it returns the span between the opener and its matching
// closer, the position just past the closer, and true. Nested openers increase
// the depth. When open and close are the same string the block does not nest
// and the next occurrence closes it.
//
// An unterminated block yields the span from the opener through the end of src,
// len(src), and false.
func ExtractBlock(src string, pos int, open, close string) (Span, int, bool) {
	if open == "" || close == "" || !hasPrefixAt(src, pos, open) {
		return Span{Start: pos}, pos, false
	}

	pos += len(open)
	start := pos
	depth := 1
	nests := open != close

	for pos < len(src) {
		switch {
		case nests && hasPrefixAt(src, pos, open):
			depth++
			pos += len(open)
		case hasPrefixAt(src, pos, close):
			depth--
			if depth == 0 {
				return Span{Start: start, Len: pos - start}, pos + len(close), true
			}
			pos += len(close)
		default:
			pos++
		}
	}

	return Span{Start: start, Len: len(src) - start}, len(src), false
}
