package composer

import (
	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/rule"
	"github.com/StimulCross/configs/sequencedmap"
)

// Section names accepted by WithAdditiveKey
const (
	SectionSettings        = "settings"
	SectionLanguageOptions = "languageOptions"
)

// ParserKey is the languageOptions key checked for conflicts under ParserPolicyStrict.
const ParserKey = "parser"

// Values is an ordered mapping of opaque settings
type Values = sequencedmap.Map[string, options.Value]

// Layer is one named configuration contribution, e.g. "base", "node" or "style".
// Layers are treated as immutable once handed to New.
type Layer struct {
	// Name identifies the layer in logs and conflict errors
	Name string
	// Rules maps rule identifiers to their setting
	Rules *rule.Rules
	// Plugins activated by this layer
	Plugins []string
	// Settings are shared linter settings, merged shallowly
	Settings *Values
	// LanguageOptions such as parser, ecmaVersion, sourceType and globals
	LanguageOptions *Values
	// Overrides are file scoped blocks that belong to this layer
	Overrides []OverrideBlock
	// OverrideParser requests last-wins resolution for languageOptions.parser
	OverrideParser bool
}

// OverrideBlock is a partial configuration applied only to files matching at least one
// of its patterns.
type OverrideBlock struct {
	Name            string
	Files           []string
	Rules           *rule.Rules
	Plugins         []string
	Settings        *Values
	LanguageOptions *Values
	OverrideParser  bool
}

// contribution is the common shape of layers and matched override blocks
type contribution struct {
	name            string
	rules           *rule.Rules
	plugins         []string
	settings        *Values
	languageOptions *Values
	overrideParser  bool
}

func (l Layer) contribution() contribution {
	return contribution{
		name:            l.Name,
		rules:           l.Rules,
		plugins:         l.Plugins,
		settings:        l.Settings,
		languageOptions: l.LanguageOptions,
		overrideParser:  l.OverrideParser,
	}
}

func (b OverrideBlock) contribution() contribution {
	return contribution{
		name:            b.Name,
		rules:           b.Rules,
		plugins:         b.Plugins,
		settings:        b.Settings,
		languageOptions: b.LanguageOptions,
		overrideParser:  b.OverrideParser,
	}
}
