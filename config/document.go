package config

import (
	"bytes"
	_ "embed"
	"path"

	"github.com/StimulCross/configs/composer"
	"github.com/StimulCross/configs/errors"
	"github.com/StimulCross/configs/json"
	"github.com/StimulCross/configs/rule"
	"github.com/StimulCross/configs/validation"
	"github.com/pelletier/go-toml/v2"
	jsValidator "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Document is one configuration file or preset as written.
type Document struct {
	// Location is the file name or "preset:<name>"
	Location string `yaml:"-"`

	Extends         []string         `yaml:"extends,omitempty"`
	Plugins         []string         `yaml:"plugins,omitempty"`
	LanguageOptions *composer.Values `yaml:"languageOptions,omitempty"`
	Settings        *composer.Values `yaml:"settings,omitempty"`
	Rules           *rule.Rules      `yaml:"rules,omitempty"`
	Overrides       []Override       `yaml:"overrides,omitempty"`
	Ignores         []string         `yaml:"ignores,omitempty"`
	ParserPolicy    string           `yaml:"parserPolicy,omitempty"`
	OverrideParser  bool             `yaml:"overrideParser,omitempty"`
}

// Override is a file scoped block inside a document.
type Override struct {
	Name            string           `yaml:"name,omitempty"`
	Files           []string         `yaml:"files"`
	Plugins         []string         `yaml:"plugins,omitempty"`
	LanguageOptions *composer.Values `yaml:"languageOptions,omitempty"`
	Settings        *composer.Values `yaml:"settings,omitempty"`
	Rules           *rule.Rules      `yaml:"rules,omitempty"`
	OverrideParser  bool             `yaml:"overrideParser,omitempty"`
}

//go:embed schema.json
var schemaJSON string

var documentSchema *jsValidator.Schema

var printer = message.NewPrinter(language.English)

func init() {
	schema, err := jsValidator.UnmarshalJSON(bytes.NewReader([]byte(schemaJSON)))
	if err != nil {
		panic(err)
	}

	c := jsValidator.NewCompiler()
	if err := c.AddResource("schema.json", schema); err != nil {
		panic(err)
	}
	documentSchema = c.MustCompile("schema.json")
}

// Parse validates data against the document schema and decodes it. Every schema
// violation is reported, each located at its line and column.
//
// Locations ending in .toml are read as TOML. Their tables carry no key order, so
// rules and settings from a TOML document are ordered by name.
func Parse(location string, data []byte) (*Document, error) {
	var root yaml.Node
	if path.Ext(location) == ".toml" {
		var v map[string]any
		if err := toml.Unmarshal(data, &v); err != nil {
			return nil, ErrInvalidConfig.Wrapf("%s: %s", location, err)
		}
		if len(v) > 0 {
			var content yaml.Node
			if err := content.Encode(v); err != nil {
				return nil, ErrInvalidConfig.Wrapf("%s: %s", location, err)
			}
			root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{&content}}
		}
	} else if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, ErrInvalidConfig.Wrapf("%s: %s", location, err)
	}

	doc := &Document{Location: location}
	if root.Kind == 0 || (root.Kind == yaml.DocumentNode && len(root.Content) == 0) {
		return doc, nil
	}

	if errs := Validate(location, &root); len(errs) > 0 {
		return nil, ErrInvalidConfig.Wrap(errors.Join(errs...))
	}

	if err := root.Decode(doc); err != nil {
		return nil, ErrInvalidConfig.Wrapf("%s: %s", location, err)
	}
	doc.Location = location

	return doc, nil
}

// Validate checks a parsed YAML document against the schema.
func Validate(location string, root *yaml.Node) []error {
	buf := bytes.NewBuffer([]byte{})

	if err := json.YAMLToJSON(root, 0, buf); err != nil {
		return []error{&validation.Error{
			UnderlyingError:  err,
			Node:             root,
			DocumentLocation: location,
		}}
	}

	jsAny, err := jsValidator.UnmarshalJSON(buf)
	if err != nil {
		return []error{&validation.Error{
			UnderlyingError:  err,
			Node:             root,
			DocumentLocation: location,
		}}
	}

	err = documentSchema.Validate(jsAny)
	if err == nil {
		return nil
	}

	var validationErr *jsValidator.ValidationError
	if !errors.As(err, &validationErr) {
		return []error{&validation.Error{
			UnderlyingError:  err,
			Node:             root,
			DocumentLocation: location,
		}}
	}

	errs := getRootCauses(validationErr, location, root)
	validation.SortValidationErrors(errs)
	return errs
}

func getRootCauses(err *jsValidator.ValidationError, location string, root *yaml.Node) []error {
	if len(err.Causes) == 0 {
		return []error{&validation.Error{
			UnderlyingError:  errors.New(err.ErrorKind.LocalizedString(printer)),
			Node:             validation.Locate(root, err.InstanceLocation),
			DocumentLocation: location,
			Path:             pointer(err.InstanceLocation),
		}}
	}

	errs := []error{}
	for _, cause := range err.Causes {
		errs = append(errs, getRootCauses(cause, location, root)...)
	}
	return errs
}

func pointer(parts []string) string {
	var b bytes.Buffer
	for _, p := range parts {
		b.WriteByte('/')
		for _, r := range p {
			switch r {
			case '~':
				b.WriteString("~0")
			case '/':
				b.WriteString("~1")
			default:
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
