package options

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/StimulCross/configs/sequencedmap"
	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes any YAML node into v.
// Scalars with tags other than null, bool, int and float are kept as strings.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := FromNode(node)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// FromNode converts a YAML node into a Value.
func FromNode(node *yaml.Node) (Value, error) {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	if node == nil {
		return Null(), nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return FromNode(node.Content[0])
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			item, err := FromNode(child)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Array(items...), nil
	case yaml.MappingNode:
		entries, err := sequencedmap.MappingEntries(node)
		if err != nil {
			return Value{}, err
		}
		m := sequencedmap.NewWithCapacity[string, Value](len(entries))
		for _, e := range entries {
			item, err := FromNode(e.Value)
			if err != nil {
				return Value{}, err
			}
			m.Set(e.Key.Value, item)
		}
		return MapOf(m), nil
	case yaml.ScalarNode:
		return scalarFromNode(node)
	default:
		return Value{}, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func scalarFromNode(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err == nil {
			return Int(i), nil
		}
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
		}
		return Float(f), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: invalid number %q", node.Line, node.Value)
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// MarshalYAML encodes v as a YAML node.
func (v Value) MarshalYAML() (any, error) {
	return v.Node()
}

// Node returns the YAML node form of v.
func (v Value) Node() (*yaml.Node, error) {
	switch v.kind {
	case KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.b)}, nil
	case KindNumber:
		tag := "!!float"
		value := v.num
		if v.isInt {
			tag = "!!int"
		} else if f, _ := v.AsFloat(); math.IsInf(f, 0) || math.IsNaN(f) {
			value = yamlSpecialFloat(f)
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}, nil
	case KindString:
		n := &yaml.Node{}
		if err := n.Encode(v.s); err != nil {
			return nil, err
		}
		return n, nil
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			child, err := item.Node()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, item := range v.m.All() {
			child, err := item.Node()
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, child)
		}
		return n, nil
	default:
		return nil, fmt.Errorf("unknown value kind %s", v.kind)
	}
}

func yamlSpecialFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case f > 0:
		return ".inf"
	default:
		return "-.inf"
	}
}

// MarshalJSON encodes v as JSON, keeping map key order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindNumber:
		if f, _ := v.AsFloat(); math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("number %s has no JSON representation", v.num)
		}
		return []byte(v.num), nil
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		var buf bytes.Buffer
		buf.WriteString("[")
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteString(",")
			}
			b, err := item.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteString("]")
		return buf.Bytes(), nil
	case KindMap:
		return v.m.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value kind %s", v.kind)
	}
}

// UnmarshalJSON decodes JSON into v. JSON is parsed as YAML, which keeps object key order.
func (v *Value) UnmarshalJSON(data []byte) error {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return err
	}
	return v.UnmarshalYAML(&node)
}
