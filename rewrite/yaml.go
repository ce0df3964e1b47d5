package rewrite

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyPattern  = errors.New("rule pattern must not be empty")
	ErrUnknownFormat = errors.New("unknown rule file format")
)

// Format is the encoding of a rule file.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// RuleFile is the on-disk form of an ordered rule list.
//
//	name: example
//	symbols: {sigil: "$", open: "{", close: "}"}
//	rules:
//	  - name: greeting
//	    pattern: "hello $who"
//	    replacement: "hi $who"
type RuleFile struct {
	Name         string   `yaml:"name,omitempty" toml:"name"`
	Symbols      *Symbols `yaml:"symbols,omitempty" toml:"symbols"`
	StrictBlocks bool     `yaml:"strict_blocks,omitempty" toml:"strict_blocks"`
	Rules        []Rule   `yaml:"rules" toml:"rules"`
}

// LoadRules reads and validates a YAML or TOML rule file.
func LoadRules(path string) (*RuleFile, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rf, err := ParseRules(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rf, nil
}

// ParseRules decodes and validates a rule file.
func ParseRules(data []byte, format Format) (*RuleFile, error) {
	var rf RuleFile
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &rf); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	default:
		return nil, ErrUnknownFormat
	}
	if err := rf.Validate(); err != nil {
		return nil, err
	}
	return &rf, nil
}

// Validate checks the symbols and rejects rules with an empty pattern.
func (rf *RuleFile) Validate() error {
	if rf.Symbols != nil {
		if err := rf.Symbols.Validate(); err != nil {
			return fmt.Errorf("symbols: %w", err)
		}
	}
	for i, r := range rf.Rules {
		if r.Pattern == "" {
			return fmt.Errorf("rule %d (%s): %w", i, r.Name, ErrEmptyPattern)
		}
	}
	return nil
}

// Options returns the engine options described by the file.
func (rf *RuleFile) Options() Options {
	opts := Options{StrictBlocks: rf.StrictBlocks}
	if rf.Symbols != nil {
		opts.Symbols = *rf.Symbols
	}
	return opts.withDefaults()
}

// Engine compiles the rules of the file.
func (rf *RuleFile) Engine() (*Engine, error) {
	return NewEngine(rf.Rules, rf.Options())
}

// Encode writes the file in the given format.
func (rf *RuleFile) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(rf)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(rf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Digest identifies the rule set independently of its on-disk format.
func (rf *RuleFile) Digest() string {
	h := sha256.New()
	opts := rf.Options()
	fmt.Fprintf(h, "%q %q %q %t\n", opts.Symbols.Sigil, opts.Symbols.Open, opts.Symbols.Close, opts.StrictBlocks)
	for _, r := range rf.Rules {
		fmt.Fprintf(h, "%q %q\n", r.Pattern, r.Replacement)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SampleRuleFile returns the rule file written by "papagaio init".
func SampleRuleFile() *RuleFile {
	sym := DefaultSymbols()
	return &RuleFile{
		Name:    "papagaio",
		Symbols: &sym,
		Rules: []Rule{
			{
				Name:        "swap-assignment",
				Pattern:     "let $name = $value;",
				Replacement: "$value -> $name;",
			},
			{
				Name:        "unwrap-call",
				Pattern:     "call${(}{)}args",
				Replacement: "invoke[$args]",
			},
		},
	}
}
