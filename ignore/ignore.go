// Package ignore resolves ignore lists with gitignore semantics.
//
// A path is ignored when the last pattern that matches it, in listed order, is a plain
// pattern. A matching `!`-prefixed pattern re-includes the path instead. Patterns without a
// slash match any path component, so `node_modules` ignores everything below a
// node_modules directory at any depth.
package ignore

import (
	"strings"

	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/glob"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// List is a compiled ignore list. It is immutable and safe for concurrent use.
type List struct {
	raw      []string
	patterns []gitignore.Pattern
	matcher  gitignore.Matcher
}

// New compiles patterns. Blank lines and `#` comments are skipped; malformed patterns
// are reported together as glob.ErrPatternSyntax.
func New(patterns []string) (*List, error) {
	l := &List{}
	var errs []error

	for _, p := range patterns {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if err := validate(trimmed); err != nil {
			errs = append(errs, err)
			continue
		}
		l.raw = append(l.raw, trimmed)
		l.patterns = append(l.patterns, gitignore.ParsePattern(trimmed, nil))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	l.matcher = gitignore.NewMatcher(l.patterns)
	return l, nil
}

// MustNew is New for static declarations.
func MustNew(patterns ...string) *List {
	l, err := New(patterns)
	if err != nil {
		panic(err)
	}
	return l
}

func validate(p string) error {
	body := strings.TrimPrefix(p, "!")
	body = strings.TrimPrefix(body, "/")
	body = strings.TrimSuffix(body, "/")
	if body == "" {
		return &glob.SyntaxError{Pattern: p, Reason: "pattern matches nothing"}
	}
	if !doublestar.ValidatePattern(body) {
		return &glob.SyntaxError{Pattern: p, Reason: "unbalanced brackets or trailing escape"}
	}
	return nil
}

// IsIgnored reports whether the root relative file path is ignored.
// A trailing slash marks the path as a directory.
func (l *List) IsIgnored(filePath string) bool {
	isDir := strings.HasSuffix(strings.ReplaceAll(filePath, `\`, "/"), "/")
	return l.match(filePath, isDir)
}

// IsIgnoredDir reports whether the directory at dirPath is ignored.
func (l *List) IsIgnoredDir(dirPath string) bool {
	return l.match(dirPath, true)
}

func (l *List) match(filePath string, isDir bool) bool {
	if l == nil || len(l.patterns) == 0 {
		return false
	}
	name := glob.Normalize(filePath)
	if name == "" {
		return false
	}
	return l.matcher.Match(strings.Split(name, "/"), isDir)
}

// Decisive returns the pattern that decides filePath, and false when no pattern
// matches it at all. A trailing slash marks the path as a directory.
func (l *List) Decisive(filePath string) (string, bool) {
	isDir := strings.HasSuffix(strings.ReplaceAll(filePath, `\`, "/"), "/")
	return l.decisive(filePath, isDir)
}

// DecisiveDir is Decisive for the directory at dirPath.
func (l *List) DecisiveDir(dirPath string) (string, bool) {
	return l.decisive(dirPath, true)
}

func (l *List) decisive(filePath string, isDir bool) (string, bool) {
	if l == nil {
		return "", false
	}
	name := glob.Normalize(filePath)
	if name == "" {
		return "", false
	}
	parts := strings.Split(name, "/")
	for i := len(l.patterns) - 1; i >= 0; i-- {
		if l.patterns[i].Match(parts, isDir) != gitignore.NoMatch {
			return l.raw[i], true
		}
	}
	return "", false
}

// HasNegations reports whether any pattern re-includes paths with `!`.
// Without one, nothing below an ignored directory can be re-included.
func (l *List) HasNegations() bool {
	if l == nil {
		return false
	}
	for _, p := range l.raw {
		if strings.HasPrefix(p, "!") {
			return true
		}
	}
	return false
}

// Patterns returns the effective patterns in order
func (l *List) Patterns() []string {
	if l == nil {
		return nil
	}
	out := make([]string, len(l.raw))
	copy(out, l.raw)
	return out
}

// Len returns the number of effective patterns
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.raw)
}

// Append returns a new list with more patterns appended after the existing ones.
func (l *List) Append(patterns ...string) (*List, error) {
	return New(append(l.Patterns(), patterns...))
}
