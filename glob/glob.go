// Package glob implements the shell style patterns used to scope override blocks to files.
//
// Supported syntax: `*` (any run of characters except `/`), `**` (any number of path
// segments), `?` (one character), `[...]` classes and `{a,b}` alternation.
//
// Patterns are anchored to the composition root: `*.spec.*` only matches files at the
// root, `**/*.spec.*` matches at any depth. A leading `/` or `./` is accepted and
// ignored. Negation is not supported here; see package ignore for `!` patterns.
package glob

import (
	"path"
	"strconv"
	"strings"

	"github.com/StimulCross/configs/errors"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrPatternSyntax is returned for malformed patterns
const ErrPatternSyntax = errors.Error("pattern syntax error")

// SyntaxError reports a malformed pattern
type SyntaxError struct {
	Pattern string
	Reason  string
}

func (e *SyntaxError) Error() string {
	return string(ErrPatternSyntax) + errors.ErrSeparator + "pattern " + strconv.Quote(e.Pattern) + ": " + e.Reason
}

// Is makes SyntaxError match ErrPatternSyntax
func (e *SyntaxError) Is(target error) bool {
	return target == ErrPatternSyntax
}

// Pattern is a compiled, validated glob
type Pattern struct {
	raw  string
	expr string
}

// Compile validates and normalises a pattern.
func Compile(raw string) (Pattern, error) {
	if strings.TrimSpace(raw) == "" {
		return Pattern{}, &SyntaxError{Pattern: raw, Reason: "empty pattern"}
	}
	if strings.HasPrefix(raw, "!") {
		return Pattern{}, &SyntaxError{Pattern: raw, Reason: "negation is not supported in file patterns"}
	}

	expr := strings.TrimPrefix(raw, "./")
	expr = strings.TrimPrefix(expr, "/")
	if expr == "" {
		return Pattern{}, &SyntaxError{Pattern: raw, Reason: "pattern matches nothing"}
	}

	if !doublestar.ValidatePattern(expr) {
		return Pattern{}, &SyntaxError{Pattern: raw, Reason: "unbalanced brackets, braces or trailing escape"}
	}

	return Pattern{raw: raw, expr: expr}, nil
}

// MustCompile is Compile for static declarations; it panics on invalid patterns.
func MustCompile(raw string) Pattern {
	p, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written
func (p Pattern) String() string {
	return p.raw
}

// Match reports whether the root relative filePath matches the pattern.
func (p Pattern) Match(filePath string) bool {
	if p.expr == "" {
		return false
	}
	name := Normalize(filePath)
	if name == "" {
		return false
	}
	// ValidatePattern already ran, so the only possible error is ErrBadPattern.
	ok, _ := doublestar.Match(p.expr, name)
	return ok
}

// Match compiles pattern and matches filePath against it.
func Match(pattern, filePath string) (bool, error) {
	p, err := Compile(pattern)
	if err != nil {
		return false, err
	}
	return p.Match(filePath), nil
}

// Normalize converts filePath to the form patterns are matched against: forward
// slashes, cleaned, without a leading `./` or `/`.
func Normalize(filePath string) string {
	p := strings.ReplaceAll(filePath, `\`, "/")
	p = path.Clean(p)
	p = strings.TrimPrefix(p, "/")
	if p == "." {
		return ""
	}
	return p
}

// Set is an ordered list of patterns with OR semantics
type Set []Pattern

// CompileSet compiles every pattern, through the global pattern cache, and reports all
// syntax errors together.
func CompileSet(raw []string) (Set, error) {
	set := make(Set, 0, len(raw))
	var errs []error
	for _, r := range raw {
		p, err := CompileCached(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		set = append(set, p)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// Match reports whether filePath matches at least one pattern in the set.
func (s Set) Match(filePath string) bool {
	for _, p := range s {
		if p.Match(filePath) {
			return true
		}
	}
	return false
}

// Strings returns the patterns as written
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.raw
	}
	return out
}
