package validation

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Locate walks root along the JSON pointer tokens in parts and returns the node to report
// a problem at: the key node for mapping members, the item for sequence members. When the
// path cannot be followed completely the deepest node reached is returned.
func Locate(root *yaml.Node, parts []string) *yaml.Node {
	node := resolve(root)
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return node
		}
		node = resolve(node.Content[0])
	}

	report := node
	for _, part := range parts {
		if node == nil {
			break
		}
		switch node.Kind {
		case yaml.MappingNode:
			key, value := mappingMember(node, part)
			if key == nil {
				return report
			}
			report, node = key, resolve(value)
		case yaml.SequenceNode:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node.Content) {
				return report
			}
			node = resolve(node.Content[i])
			report = node
		default:
			return report
		}
	}
	return report
}

func mappingMember(node *yaml.Node, key string) (*yaml.Node, *yaml.Node) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := resolve(node.Content[i])
		if k.Kind == yaml.ScalarNode && k.Value == key {
			return node.Content[i], node.Content[i+1]
		}
	}

	// YAML merge keys (<<: *alias)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		if k.Kind != yaml.ScalarNode || k.Value != "<<" {
			continue
		}
		v := resolve(node.Content[i+1])
		if v.Kind == yaml.MappingNode {
			if mk, mv := mappingMember(v, key); mk != nil {
				return mk, mv
			}
		}
	}
	return nil, nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}
