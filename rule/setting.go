package rule

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/sequencedmap"
	"gopkg.in/yaml.v3"
)

// Setting is the configured state of one rule: a level and an optional list of
// rule specific option payloads, e.g. `["error", "single", {"avoidEscape": true}]`.
type Setting struct {
	Level   Level
	Options []options.Value
}

// Rules maps rule identifiers to settings in declaration order
type Rules = sequencedmap.Map[string, Setting]

// NewRules creates an ordered rule table.
func NewRules(elems ...*sequencedmap.Element[string, Setting]) *Rules {
	return sequencedmap.New(elems...)
}

// Set returns a rule table entry, a shorthand for static declarations.
func Set(id string, s Setting) *sequencedmap.Element[string, Setting] {
	return sequencedmap.NewElem(id, s)
}

// Of builds a Setting from a level and Go literal options.
// It panics on option values options.FromAny cannot convert.
func Of(level Level, opts ...any) Setting {
	s := Setting{Level: level}
	for _, o := range opts {
		s.Options = append(s.Options, options.MustFromAny(o))
	}
	return s
}

// HasOptions reports whether the setting carries any option payload
func (s Setting) HasOptions() bool {
	return len(s.Options) > 0
}

// Enabled reports whether the rule runs at all
func (s Setting) Enabled() bool {
	return s.Level != Off
}

// Equal reports whether two settings have the same level and options.
func (s Setting) Equal(other Setting) bool {
	if s.Level != other.Level || len(s.Options) != len(other.Options) {
		return false
	}
	for i := range s.Options {
		if !s.Options[i].Equal(other.Options[i]) {
			return false
		}
	}
	return true
}

// UnmarshalYAML accepts either a bare level (`warn`, `2`) or a sequence whose first item
// is the level and the rest are options (`[error, always]`).
func (s *Setting) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var l Level
		if err := l.UnmarshalYAML(node); err != nil {
			return err
		}
		*s = Setting{Level: l}
		return nil
	case yaml.SequenceNode:
		if len(node.Content) == 0 {
			return ErrInvalidLevel.Wrapf("line %d: empty rule setting", node.Line)
		}
		var l Level
		if err := l.UnmarshalYAML(node.Content[0]); err != nil {
			return err
		}
		out := Setting{Level: l}
		for _, child := range node.Content[1:] {
			v, err := options.FromNode(child)
			if err != nil {
				return err
			}
			out.Options = append(out.Options, v)
		}
		*s = out
		return nil
	default:
		return ErrInvalidLevel.Wrapf("line %d: expected a level or a [level, ...options] sequence", node.Line)
	}
}

// MarshalYAML uses the shortest form: a bare level when there are no options.
func (s Setting) MarshalYAML() (any, error) {
	if !s.HasOptions() {
		return s.Level.String(), nil
	}

	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s.Level.String()})
	for _, o := range s.Options {
		child, err := o.Node()
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, child)
	}
	return n, nil
}

// MarshalJSON mirrors MarshalYAML.
func (s Setting) MarshalJSON() ([]byte, error) {
	if !s.HasOptions() {
		return json.Marshal(s.Level.String())
	}

	var buf bytes.Buffer
	buf.WriteString("[")
	lb, _ := json.Marshal(s.Level.String())
	buf.Write(lb)
	for _, o := range s.Options {
		b, err := o.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.WriteString(",")
		buf.Write(b)
	}
	buf.WriteString("]")
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts the same shapes as UnmarshalYAML, plus JSON numbers for levels.
func (s *Setting) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		return s.UnmarshalYAML(node.Content[0])
	}
	return fmt.Errorf("invalid rule setting %s", data)
}

func (s Setting) String() string {
	data, err := s.MarshalJSON()
	if err != nil {
		return s.Level.String()
	}
	return string(data)
}
