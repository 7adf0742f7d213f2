// Package query selects parts of an effective configuration with JSONPath.
//
// Two engines are available: RFC 9535 (the default) and the legacy yamlpath dialect,
// kept for expressions written against older tooling.
package query

import (
	"fmt"

	"github.com/StimulCross/configs/errors"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"github.com/speakeasy-api/jsonpath/pkg/jsonpath/config"
	"github.com/vmware-labs/yaml-jsonpath/pkg/yamlpath"
	"gopkg.in/yaml.v3"
)

// ErrInvalidQuery is returned for expressions the selected engine cannot parse
const ErrInvalidQuery = errors.Error("invalid query")

// Engine selects the JSONPath implementation
type Engine string

const (
	// EngineRFC9535 uses the RFC 9535 implementation
	EngineRFC9535 Engine = "rfc9535"
	// EngineLegacy uses the yamlpath implementation
	EngineLegacy Engine = "legacy"
)

// ParseEngine maps a flag value to an Engine; "" selects RFC 9535.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case "", EngineRFC9535:
		return EngineRFC9535, nil
	case EngineLegacy:
		return EngineLegacy, nil
	default:
		return "", ErrInvalidQuery.Wrapf("unknown engine %q, expected %s or %s", s, EngineRFC9535, EngineLegacy)
	}
}

// Queryable is an interface for querying YAML nodes using JSONPath expressions.
type Queryable interface {
	Query(root *yaml.Node) []*yaml.Node
}

type yamlPathQueryable struct {
	path *yamlpath.Path
}

func (y yamlPathQueryable) Query(root *yaml.Node) []*yaml.Node {
	if y.path == nil {
		return []*yaml.Node{}
	}
	// errors aren't actually possible from yamlpath.
	result, _ := y.path.Find(root)
	return result
}

type rfcJSONPathQueryable struct {
	path *jsonpath.JSONPath
}

func (r rfcJSONPathQueryable) Query(root *yaml.Node) []*yaml.Node {
	return r.path.Query(root)
}

// NewPath compiles expr for engine. With the legacy engine, an expression RFC 9535 would
// reject still compiles but adds a warning, when warnings is non-nil.
func NewPath(expr string, engine Engine, warnings *[]string) (Queryable, error) {
	rfcJSONPath, rfcJSONPathErr := jsonpath.NewPath(expr, config.WithPropertyNameExtension())
	if engine != EngineLegacy {
		if rfcJSONPathErr != nil {
			return nil, ErrInvalidQuery.Wrap(rfcJSONPathErr)
		}
		return rfcJSONPathQueryable{path: rfcJSONPath}, nil
	}

	if rfcJSONPathErr != nil && warnings != nil {
		*warnings = append(*warnings, fmt.Sprintf(
			"invalid rfc9535 jsonpath %s: %s\n"+
				"The legacy engine accepts it, but it will not work with the default engine.",
			expr, rfcJSONPathErr.Error()))
	}

	path, err := yamlpath.NewPath(expr)
	if err != nil {
		return nil, ErrInvalidQuery.Wrap(err)
	}
	return yamlPathQueryable{path}, nil
}

// Node encodes v, typically an effective configuration, into a YAML document node, the
// same shape yaml.Unmarshal produces.
func Node(v any) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{&node}}, nil
}

// Select encodes v and returns the nodes expr selects from it.
func Select(v any, expr string, engine Engine, warnings *[]string) ([]*yaml.Node, error) {
	q, err := NewPath(expr, engine, warnings)
	if err != nil {
		return nil, err
	}
	root, err := Node(v)
	if err != nil {
		return nil, err
	}
	return q.Query(root), nil
}
