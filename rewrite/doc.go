/*
Package rewrite implements a template-pattern text rewriting engine.

A pattern is compiled into a flat token sequence, an input string is scanned
left to right, and at every position the rules of an Engine are tried in
declaration order. The first rule that matches has its replacement template
expanded with the captured values; positions where no rule matches are copied
through unchanged.

# Pattern Syntax

With the default symbols (sigil "$", delimiters "{" and "}"):

 1. Literal: any run of characters that is neither whitespace nor a sigil.
    Example: "name:" must appear verbatim in the input.

 2. Whitespace: any run of whitespace in the pattern.
    Matches one or more whitespace characters in the input.

 3. Variable: $name
    Captures a run of non-whitespace text. The run ends early where the next
    significant token (a literal or a block opener) starts.

 4. Block: ${open}{close}name
    Captures the text between a balanced open/close pair, honouring nesting.
    An empty delimiter falls back to the symbol default, so ${}{}body captures
    a "{...}" block. The second delimiter group is optional.

 5. Block sequence: $${open}{close}name
    Captures one or more consecutive blocks separated by optional whitespace.
    The capture spans from the first opener to the last closer.

Any variable or block may be followed by "?" to make it optional. An optional
token that does not match records an empty capture.

# Matching Rules

 1. Matching is a single forward pass, there is no backtracking across tokens.

 2. A variable that does not directly follow a whitespace token skips leading
    whitespace in the input, so "$a $b" matches "hello   world".

 3. A whitespace token may match nothing when every significant token after it
    is optional, or when the token before it was optional and captured nothing.

 4. Unterminated blocks capture through the end of the input unless
    Options.StrictBlocks is set.

# Replacement Templates

A replacement template is plain text in which sigil+identifier references are
replaced by the capture of that name. References to unknown names are emitted
unchanged.

# Usage Example

	out := rewrite.Process("name:John age:30", []rewrite.Rule{
		{Pattern: "name:$name age:$age", Replacement: "$name is $age"},
	})
	// out == "John is 30"

A compiled Engine holds no mutable state and may be shared by concurrent
callers.
*/
package rewrite
