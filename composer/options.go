package composer

import (
	"io"
	"log/slog"
	"path/filepath"
)

// ParserPolicy controls how differing languageOptions.parser values are resolved.
type ParserPolicy int

const (
	// ParserPolicyLastWins lets a later parser replace an earlier one silently
	ParserPolicyLastWins ParserPolicy = iota
	// ParserPolicyStrict fails with ErrConfigConflict unless the later contributor sets OverrideParser
	ParserPolicyStrict
)

func (p ParserPolicy) String() string {
	switch p {
	case ParserPolicyStrict:
		return "strict"
	default:
		return "last-wins"
	}
}

// ParseParserPolicy accepts "strict", "last-wins" and the empty string (last-wins).
func ParseParserPolicy(s string) (ParserPolicy, error) {
	switch s {
	case "", "last-wins":
		return ParserPolicyLastWins, nil
	case "strict":
		return ParserPolicyStrict, nil
	default:
		return ParserPolicyLastWins, ErrInvalidOption.Wrapf("parser policy %q", s)
	}
}

type Option func(o *Options)

type Options struct {
	Root         string
	ParserPolicy ParserPolicy
	Additive     map[string][]string
	Logger       *slog.Logger
}

// NewOptions applies opts over the defaults: last-wins parsers and additive
// languageOptions.globals.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		ParserPolicy: ParserPolicyLastWins,
		Additive: map[string][]string{
			SectionLanguageOptions: {"globals"},
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithRoot sets the composition root. Absolute file paths are made relative to it;
// files outside the root match no override block.
func WithRoot(dir string) Option {
	return func(o *Options) {
		o.Root = filepath.Clean(dir)
	}
}

// WithParserPolicy selects how differing parsers are resolved.
func WithParserPolicy(p ParserPolicy) Option {
	return func(o *Options) {
		o.ParserPolicy = p
	}
}

// WithAdditiveKey marks section.key as a mapping whose entries are unioned across
// layers instead of replaced.
func WithAdditiveKey(section, key string) Option {
	return func(o *Options) {
		for _, k := range o.Additive[section] {
			if k == key {
				return
			}
		}
		o.Additive[section] = append(o.Additive[section], key)
	}
}

// WithoutAdditiveKeys makes every settings and languageOptions key replace wholesale.
func WithoutAdditiveKeys() Option {
	return func(o *Options) {
		o.Additive = map[string][]string{}
	}
}

// WithLogger receives debug records for every applied layer and override block.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

func (o *Options) isAdditive(section, key string) bool {
	for _, k := range o.Additive[section] {
		if k == key {
			return true
		}
	}
	return false
}
