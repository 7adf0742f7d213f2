package sequencedmap

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping node keeping the order of its keys.
// Duplicate keys are rejected rather than silently collapsed; `<<` merge keys are expanded.
func (m *Map[K, V]) UnmarshalYAML(node *yaml.Node) error {
	entries, err := MappingEntries(node)
	if err != nil {
		return err
	}

	m.index = make(map[K]int, len(entries))
	m.entries = make([]Element[K, V], 0, len(entries))

	for _, e := range entries {
		keyNode, valueNode := e.Key, e.Value

		var key K
		if err := keyNode.Decode(&key); err != nil {
			return fmt.Errorf("line %d: invalid key: %w", keyNode.Line, err)
		}

		var value V
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("line %d: key %q: %w", valueNode.Line, keyNode.Value, err)
		}

		m.Set(key, value)
	}

	return nil
}

// MappingEntries returns the key and value nodes of a mapping in document order with
// `<<` merge keys expanded. A merged key takes the position of its merge key and keys
// the mapping defines itself always win; with a sequence of merged mappings the first
// one defining a key wins. Explicit duplicate keys are an error.
func MappingEntries(node *yaml.Node) ([]Element[*yaml.Node, *yaml.Node], error) {
	node = resolveAlias(node)
	if node == nil || node.Kind != yaml.MappingNode {
		line, kind := 0, yaml.Kind(0)
		if node != nil {
			line, kind = node.Line, node.Kind
		}
		return nil, fmt.Errorf("line %d: expected a mapping, got %s", line, kindName(kind))
	}

	out := New[string, Element[*yaml.Node, *yaml.Node]]()
	explicit := map[string]bool{}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		if isMergeKey(keyNode) {
			merged, err := mergedEntries(valueNode)
			if err != nil {
				return nil, err
			}
			for _, e := range merged {
				if !out.Has(e.Key.Value) {
					out.Set(e.Key.Value, e)
				}
			}
			continue
		}

		if explicit[keyNode.Value] {
			return nil, fmt.Errorf("line %d: mapping key %q already defined", keyNode.Line, keyNode.Value)
		}
		explicit[keyNode.Value] = true
		out.Set(keyNode.Value, Element[*yaml.Node, *yaml.Node]{Key: keyNode, Value: valueNode})
	}

	return slices.Collect(out.Values()), nil
}

func mergedEntries(node *yaml.Node) ([]Element[*yaml.Node, *yaml.Node], error) {
	node = resolveAlias(node)
	sources := []*yaml.Node{node}
	if node != nil && node.Kind == yaml.SequenceNode {
		sources = node.Content
	}

	var out []Element[*yaml.Node, *yaml.Node]
	for _, src := range sources {
		src = resolveAlias(src)
		if src == nil || src.Kind != yaml.MappingNode {
			line := 0
			if src != nil {
				line = src.Line
			}
			return nil, fmt.Errorf("line %d: merge value must be a mapping", line)
		}
		entries, err := MappingEntries(src)
		if err != nil {
			return nil, err
		}
		out = append(out, entries...)
	}
	return out, nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Value == "<<" && (node.Tag == "" || node.ShortTag() == "!!merge")
}

// MarshalYAML encodes the map as a mapping node in insertion order.
func (m *Map[K, V]) MarshalYAML() (any, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return out, nil
	}

	for _, e := range m.entries {
		var keyNode, valueNode yaml.Node
		if err := keyNode.Encode(e.Key); err != nil {
			return nil, err
		}
		if err := valueNode.Encode(e.Value); err != nil {
			return nil, err
		}
		out.Content = append(out.Content, &keyNode, &valueNode)
	}

	return out, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
