// Package rule defines rule severities and rule settings.
package rule

import (
	"fmt"
	"strings"

	"github.com/StimulCross/configs/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidLevel is returned when a severity cannot be parsed
const ErrInvalidLevel = errors.Error("invalid rule level")

// Level is the severity a rule runs at
type Level int

const (
	Off Level = iota
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// IsValid reports whether l is one of Off, Warn or Error
func (l Level) IsValid() bool {
	return l >= Off && l <= Error
}

// ParseLevel parses "off", "warn" or "error" (case insensitive) and the numeric
// forms "0", "1" and "2".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "0":
		return Off, nil
	case "warn", "1":
		return Warn, nil
	case "error", "2":
		return Error, nil
	default:
		return Off, ErrInvalidLevel.Wrapf("%q, expected off, warn, error, 0, 1 or 2", s)
	}
}

// UnmarshalYAML accepts a string or integer scalar.
func (l *Level) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return ErrInvalidLevel.Wrapf("line %d: expected a scalar", node.Line)
	}
	parsed, err := ParseLevel(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*l = parsed
	return nil
}

// MarshalYAML encodes the level by name.
func (l Level) MarshalYAML() (any, error) {
	return l.String(), nil
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, ErrInvalidLevel.Wrapf("%d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name or number.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
