package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessInline(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		input    string
		opts     InlineOptions
		expected string
	}{
		{
			name:     "single declaration",
			input:    "pattern {hello $x} {hi $x}\nhello world",
			expected: "\nhi world",
		},
		{
			name:     "replacement declares another rule",
			input:    "pattern {a} {pattern {b} {c} b}\na",
			expected: "\n c",
		},
		{
			name:     "recursion limit stops early",
			input:    "pattern {a} {pattern {b} {c} b}\na",
			opts:     InlineOptions{RecursionLimit: 1},
			expected: "\npattern {b} {c} b",
		},
		{
			name:     "keyword inside a word",
			input:    "mypattern {a} {b} a",
			expected: "mypattern {a} {b} a",
		},
		{
			name:     "keyword without block",
			input:    "pattern matching is fun",
			expected: "pattern matching is fun",
		},
		{
			name:     "declarations apply in order",
			input:    "pattern {x} {1}\npattern {x} {2}\nx",
			expected: "\n\n1",
		},
		{
			name:     "custom keyword and symbols",
			input:    "rule [a $x] [$x!] a b",
			opts:     InlineOptions{Options: Options{Symbols: Symbols{Sigil: "$", Open: "[", Close: "]"}}, Keyword: "rule"},
			expected: " b!",
		},
		{
			name:     "no declarations",
			input:    "just text",
			expected: "just text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProcessInline(tt.input, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestProcessInlineInvalidSymbols(t *testing.T) {
	t.Parallel()

	_, err := ProcessInline("x", InlineOptions{Options: Options{Symbols: Symbols{Sigil: "$"}}})
	assert.ErrorIs(t, err, ErrEmptyDelimiter)
}

func TestCollectDeclarations(t *testing.T) {
	t.Parallel()

	rules, rest := CollectDeclarations("pattern {a $x} {b $x} keep pattern {c} {d}", DefaultKeyword, DefaultSymbols())
	assert.Equal(t, []Rule{
		{Name: "inline#0", Pattern: "a $x", Replacement: "b $x"},
		{Name: "inline#1", Pattern: "c", Replacement: "d"},
	}, rules)
	assert.Equal(t, " keep ", rest)

	rules, rest = CollectDeclarations("pattern {x} tail", DefaultKeyword, DefaultSymbols())
	assert.Empty(t, rules)
	assert.Equal(t, " tail", rest)

	rules, rest = CollectDeclarations("pattern {} {x} y", DefaultKeyword, DefaultSymbols())
	assert.Empty(t, rules)
	assert.Equal(t, " y", rest)

	rules, rest = CollectDeclarations("pattern {  padded  } {  out }", DefaultKeyword, DefaultSymbols())
	require.Len(t, rules, 1)
	assert.Equal(t, "padded", rules[0].Pattern)
	assert.Equal(t, "out", rules[0].Replacement)
	assert.Empty(t, rest)
}
