package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAt(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		pattern   string
		subject   string
		start     int
		wantMatch bool
		wantEnd   int
		wantVars  map[string]string
	}{
		{
			name:      "optional tail absent",
			pattern:   "start $opt? end",
			subject:   "start end",
			wantMatch: true,
			wantEnd:   9,
			wantVars:  map[string]string{"opt": ""},
		},
		{
			name:      "optional tail present",
			pattern:   "start $opt? end",
			subject:   "start xyz end",
			wantMatch: true,
			wantEnd:   13,
			wantVars:  map[string]string{"opt": "xyz"},
		},
		{
			name:      "multiple optionals assigned left to right",
			pattern:   "$x? $y? $z?",
			subject:   "a c",
			wantMatch: true,
			wantEnd:   3,
			wantVars:  map[string]string{"x": "a", "y": "c", "z": ""},
		},
		{
			name:      "whitespace tolerance",
			pattern:   "$a $b",
			subject:   "hello   world",
			wantMatch: true,
			wantEnd:   13,
			wantVars:  map[string]string{"a": "hello", "b": "world"},
		},
		{
			name:      "variable stops at literal",
			pattern:   "name:$name age:$age",
			subject:   "name:John age:30",
			wantMatch: true,
			wantEnd:   16,
			wantVars:  map[string]string{"name": "John", "age": "30"},
		},
		{
			name:      "nested block",
			pattern:   "${(}{)}inner",
			subject:   "((()))",
			wantMatch: true,
			wantEnd:   6,
			wantVars:  map[string]string{"inner": "(())"},
		},
		{
			name:      "variable stops at block opener",
			pattern:   "$fn${(}{)}args",
			subject:   "call(a, (b))",
			wantMatch: true,
			wantEnd:   12,
			wantVars:  map[string]string{"fn": "call", "args": "a, (b)"},
		},
		{
			name:      "optional block absent",
			pattern:   "start ${(}{)}blk? end",
			subject:   "start end",
			wantMatch: true,
			wantEnd:   9,
			wantVars:  map[string]string{"blk": ""},
		},
		{
			name:      "unterminated block captured to end",
			pattern:   "x ${(}{)}b",
			subject:   "x (abc",
			wantMatch: true,
			wantEnd:   6,
			wantVars:  map[string]string{"b": "abc"},
		},
		{
			name:      "block sequence captures the whole run",
			pattern:   "foo $${(}{)}xs bar",
			subject:   "foo (a) (b) (c) bar",
			wantMatch: true,
			wantEnd:   19,
			wantVars:  map[string]string{"xs": "(a) (b) (c)"},
		},
		{
			name:      "explicit whitespace is required",
			pattern:   " $x",
			subject:   "abc",
			wantMatch: false,
		},
		{
			name:      "literal mismatch",
			pattern:   "foo $x",
			subject:   "bar baz",
			wantMatch: false,
		},
		{
			name:      "mandatory variable at end of input",
			pattern:   "a $x",
			subject:   "a ",
			wantMatch: false,
		},
		{
			name:      "mandatory block absent",
			pattern:   "${(}{)}b",
			subject:   "b",
			wantMatch: false,
		},
		{
			name:      "match at offset",
			pattern:   " $x.",
			subject:   "a c.x",
			start:     1,
			wantMatch: true,
			wantEnd:   4,
			wantVars:  map[string]string{"x": "c"},
		},
		{
			name:      "leading whitespace skipped before variable",
			pattern:   "$x",
			subject:   "   word rest",
			wantMatch: true,
			wantEnd:   7,
			wantVars:  map[string]string{"x": "word"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := MustCompile(tt.pattern, DefaultSymbols())
			m, ok := p.MatchAt(tt.subject, tt.start)
			require.Equal(t, tt.wantMatch, ok)
			if !tt.wantMatch {
				assert.Nil(t, m)
				return
			}
			assert.Equal(t, tt.start, m.Start)
			assert.Equal(t, tt.wantEnd, m.End)
			for name, want := range tt.wantVars {
				got, found := m.Lookup(name)
				assert.True(t, found, "capture %q", name)
				assert.Equal(t, want, got, "capture %q", name)
			}
			assert.Len(t, m.Captures, len(tt.wantVars))
		})
	}
}

func TestMatchLiteralRoundTrip(t *testing.T) {
	t.Parallel()
	for _, lit := range []string{"foo-bar", "a b  c", "if(x){y}", "é ü ß"} {
		p := MustCompile(lit, DefaultSymbols())
		m, ok := p.MatchAt(lit, 0)
		require.True(t, ok, lit)
		assert.Empty(t, m.Captures, lit)
		assert.Equal(t, len(lit), m.End, lit)
		assert.Equal(t, lit, m.Text())
	}
}

func TestMatchStrictBlocks(t *testing.T) {
	t.Parallel()
	p := MustCompile("x ${(}{)}b", DefaultSymbols())

	_, ok := p.match("x (abc", 0, true)
	assert.False(t, ok)

	m, ok := p.match("x (abc)", 0, true)
	require.True(t, ok)
	assert.Equal(t, "abc", m.Value("b"))

	seq := MustCompile("$${(}{)}b", DefaultSymbols())
	_, ok = seq.match("(a) (b", 0, true)
	assert.False(t, ok)
}

func TestMatchParts(t *testing.T) {
	t.Parallel()
	p := MustCompile("foo $${(}{)}xs bar", DefaultSymbols())
	m, ok := p.MatchAt("foo (a) (b (c)) (d) bar", 0)
	require.True(t, ok)

	assert.Equal(t, []string{"a", "b (c)", "d"}, m.Parts("xs"))
	assert.Equal(t, "(a) (b (c)) (d)", m.Value("xs"))

	plain := MustCompile("$k=$v", DefaultSymbols())
	m, ok = plain.MatchAt("a=1", 0)
	require.True(t, ok)
	assert.Equal(t, []string{"1"}, m.Parts("v"))
	assert.Nil(t, m.Parts("missing"))
}

func TestMatchLookupFirstWins(t *testing.T) {
	t.Parallel()
	p := MustCompile("$x,$x", DefaultSymbols())
	m, ok := p.MatchAt("one,two", 0)
	require.True(t, ok)
	assert.Equal(t, "one", m.Value("x"))
	assert.Len(t, m.Captures, 2)
}

func TestFindAll(t *testing.T) {
	t.Parallel()
	p := MustCompile("$k=$v", DefaultSymbols())
	matches := p.FindAll("a=1 b=2 junk")
	require.Len(t, matches, 2)

	assert.Equal(t, 0, matches[0].Start)
	assert.Equal(t, 3, matches[0].End)
	assert.Equal(t, "a", matches[0].Value("k"))
	assert.Equal(t, "1", matches[0].Value("v"))

	assert.Equal(t, 3, matches[1].Start)
	assert.Equal(t, 7, matches[1].End)
	assert.Equal(t, "b", matches[1].Value("k"))
	assert.Equal(t, "2", matches[1].Value("v"))

	empty := MustCompile("${(}{)}b?", DefaultSymbols())
	assert.Len(t, empty.FindAll("ab"), 2)
}
