// Package json converts YAML nodes to JSON without losing key order.
package json

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/StimulCross/configs/sequencedmap"
	"gopkg.in/yaml.v3"
)

// YAMLToJSON writes node to w as JSON, keeping mapping keys in document order.
// An indentation of 0 produces compact output.
func YAMLToJSON(node *yaml.Node, indentation int, w io.Writer) error {
	v, err := YAMLToJSONCompatibleGoType(node)
	if err != nil {
		return err
	}

	e := json.NewEncoder(w)
	e.SetIndent("", strings.Repeat(" ", indentation))
	return e.Encode(v)
}

// YAMLToJSONCompatibleGoType converts node into values encoding/json can marshal:
// ordered maps for mappings, []any for sequences and decoded scalars.
// Aliases are expanded and `<<` merge keys applied.
func YAMLToJSONCompatibleGoType(node *yaml.Node) (any, error) {
	if node == nil {
		return nil, nil
	}
	return convert(node)
}

func convert(node *yaml.Node) (any, error) {
	switch node.Kind {
	case 0:
		// an empty document decodes to a zero node
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return convert(node.Content[0])
	case yaml.AliasNode:
		return convert(node.Alias)
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := convert(child)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.MappingNode:
		return convertMapping(node)
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
	}
}

func convertMapping(node *yaml.Node) (*sequencedmap.Map[string, any], error) {
	out := sequencedmap.NewWithCapacity[string, any](len(node.Content) / 2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		if isMergeKey(keyNode) {
			if err := merge(out, valueNode); err != nil {
				return nil, err
			}
			continue
		}

		key, err := mappingKey(keyNode)
		if err != nil {
			return nil, err
		}
		value, err := convert(valueNode)
		if err != nil {
			return nil, err
		}
		out.Set(key, value)
	}

	return out, nil
}

// mappingKey renders a key as a JSON object member name. Non-string keys use their
// JSON encoding, so 1 becomes "1" and null becomes "null".
func mappingKey(node *yaml.Node) (string, error) {
	k, err := convert(node)
	if err != nil {
		return "", err
	}
	if s, ok := k.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(k)
	if err != nil {
		return "", fmt.Errorf("line %d: key cannot be represented in JSON: %w", node.Line, err)
	}
	return string(data), nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" && (node.Tag == "" || node.Tag == "!!merge")
}

// merge applies a `<<` merge: keys from the referenced mappings are added unless
// the mapping already defines them.
func merge(dst *sequencedmap.Map[string, any], node *yaml.Node) error {
	for node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}

	for _, src := range sources {
		v, err := convert(src)
		if err != nil {
			return err
		}
		m, ok := v.(*sequencedmap.Map[string, any])
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
		}
		for k, val := range m.All() {
			if !dst.Has(k) {
				dst.Set(k, val)
			}
		}
	}
	return nil
}
