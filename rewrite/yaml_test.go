package rewrite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRuleFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		file        string
		content     string
		wantRules   []Rule
		wantSymbols *Symbols
		wantStrict  bool
		wantErr     error
		wantAnyErr  bool
	}{
		{
			name: "valid yaml rules",
			file: "rules.yaml",
			content: `
rules:
  - name: simple replacement
    pattern: "$name"
    replacement: "Hello, $name!"
  - name: arithmetic replacement
    pattern: "$lhs + $rhs"
    replacement: "$rhs - $lhs"
`,
			wantRules: []Rule{
				{Name: "simple replacement", Pattern: "$name", Replacement: "Hello, $name!"},
				{Name: "arithmetic replacement", Pattern: "$lhs + $rhs", Replacement: "$rhs - $lhs"},
			},
		},
		{
			name: "yaml with symbols",
			file: "rules.yml",
			content: `
symbols: {sigil: "@", open: "<", close: ">"}
strict_blocks: true
rules:
  - pattern: "f@<><>args"
    replacement: "g[@args]"
`,
			wantRules:   []Rule{{Pattern: "f@<><>args", Replacement: "g[@args]"}},
			wantSymbols: &Symbols{Sigil: "@", Open: "<", Close: ">"},
			wantStrict:  true,
		},
		{
			name: "valid toml rules",
			file: "rules.toml",
			content: `
name = "toml"

[[rules]]
name = "unwrap"
pattern = "call${(}{)}args"
replacement = "invoke[$args]"
`,
			wantRules: []Rule{{Name: "unwrap", Pattern: "call${(}{)}args", Replacement: "invoke[$args]"}},
		},
		{
			name: "invalid yaml",
			file: "bad.yaml",
			content: `
rules:
  - name: missing colon
    pattern "$abc"
    replacement: "Should fail"
`,
			wantAnyErr: true,
		},
		{
			name: "invalid toml",
			file: "bad.toml",
			content: `
[[rules]
pattern = "x"
`,
			wantAnyErr: true,
		},
		{
			name: "empty pattern",
			file: "empty.yaml",
			content: `
rules:
  - name: nothing
    replacement: "x"
`,
			wantErr: ErrEmptyPattern,
		},
		{
			name: "empty delimiter",
			file: "sym.yaml",
			content: `
symbols: {sigil: "$", open: "", close: "}"}
rules:
  - pattern: "x"
    replacement: "y"
`,
			wantErr: ErrEmptyDelimiter,
		},
		{
			name:    "unknown extension",
			file:    "rules.json",
			content: `{}`,
			wantErr: ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRuleFile(t, tt.file, tt.content)

			rf, err := LoadRules(path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantAnyErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRules, rf.Rules)
			assert.Equal(t, tt.wantSymbols, rf.Symbols)
			assert.Equal(t, tt.wantStrict, rf.StrictBlocks)

			_, err = rf.Engine()
			assert.NoError(t, err)
		})
	}
}

func TestLoadRulesMissingFile(t *testing.T) {
	t.Parallel()
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRuleFileOptions(t *testing.T) {
	t.Parallel()

	rf := &RuleFile{}
	assert.Equal(t, DefaultSymbols(), rf.Options().Symbols)

	sym := Symbols{Sigil: "%", Open: "[", Close: "]"}
	rf = &RuleFile{Symbols: &sym, StrictBlocks: true}
	opts := rf.Options()
	assert.Equal(t, sym, opts.Symbols)
	assert.True(t, opts.StrictBlocks)
}

func TestRuleFileEngine(t *testing.T) {
	t.Parallel()

	e, err := SampleRuleFile().Engine()
	require.NoError(t, err)
	assert.Equal(t, "1 -> x; invoke[a, (b)]", e.Process("let x = 1; call(a, (b))"))
}

func TestRuleFileEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(format.String(), func(t *testing.T) {
			want := SampleRuleFile()
			data, err := want.Encode(format)
			require.NoError(t, err)

			got, err := ParseRules(data, format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}

	_, err := SampleRuleFile().Encode(Format(42))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestRuleFileDigest(t *testing.T) {
	t.Parallel()

	fromYAML, err := ParseRules([]byte(`
rules:
  - name: a
    pattern: "x $v"
    replacement: "y $v"
`), FormatYAML)
	require.NoError(t, err)

	fromTOML, err := ParseRules([]byte(`
[symbols]
sigil = "$"
open = "{"
close = "}"

[[rules]]
name = "renamed"
pattern = "x $v"
replacement = "y $v"
`), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, fromYAML.Digest(), fromTOML.Digest())

	fromTOML.StrictBlocks = true
	assert.NotEqual(t, fromYAML.Digest(), fromTOML.Digest())

	fromTOML.StrictBlocks = false
	fromTOML.Rules[0].Replacement = "z $v"
	assert.NotEqual(t, fromYAML.Digest(), fromTOML.Digest())
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{path: "a.yaml", want: FormatYAML},
		{path: "dir/b.YML", want: FormatYAML},
		{path: "c.toml", want: FormatTOML},
		{path: "d.json", wantErr: true},
		{path: "noext", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
