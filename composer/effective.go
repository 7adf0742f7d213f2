package composer

import (
	"encoding/json"
	"slices"

	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/rule"
)

// EffectiveConfig is the flattened configuration for one file.
// Every Compose call returns a fresh value the caller may modify.
type EffectiveConfig struct {
	// Plugins in first-declared order, without duplicates
	Plugins         []string
	LanguageOptions *Values
	Settings        *Values
	Rules           *rule.Rules
}

func newEffectiveConfig() *EffectiveConfig {
	return &EffectiveConfig{
		LanguageOptions: &Values{},
		Settings:        &Values{},
		Rules:           rule.NewRules(),
	}
}

// Rule returns the effective setting for id; ok is false when no layer configures it.
func (c *EffectiveConfig) Rule(id string) (rule.Setting, bool) {
	if c == nil {
		return rule.Setting{}, false
	}
	return c.Rules.Get(id)
}

// HasPlugin reports whether id is active
func (c *EffectiveConfig) HasPlugin(id string) bool {
	return c != nil && slices.Contains(c.Plugins, id)
}

// LanguageOption returns languageOptions[key].
func (c *EffectiveConfig) LanguageOption(key string) (options.Value, bool) {
	if c == nil {
		return options.Value{}, false
	}
	return c.LanguageOptions.Get(key)
}

// Setting returns settings[key].
func (c *EffectiveConfig) Setting(key string) (options.Value, bool) {
	if c == nil {
		return options.Value{}, false
	}
	return c.Settings.Get(key)
}

// Clone copies the sections so the result can be modified independently of c.
// Option values are shared, they are never modified in place.
func (c *EffectiveConfig) Clone() *EffectiveConfig {
	if c == nil {
		return nil
	}
	return &EffectiveConfig{
		Plugins:         slices.Clone(c.Plugins),
		LanguageOptions: c.LanguageOptions.Clone(),
		Settings:        c.Settings.Clone(),
		Rules:           c.Rules.Clone(),
	}
}

// Equal compares two configurations structurally. Plugin order is ignored.
func (c *EffectiveConfig) Equal(other *EffectiveConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	if len(c.Plugins) != len(other.Plugins) {
		return false
	}
	for _, p := range c.Plugins {
		if !other.HasPlugin(p) {
			return false
		}
	}
	return c.Rules.IsEqualFunc(other.Rules, rule.Setting.Equal) &&
		c.Settings.IsEqualFunc(other.Settings, options.Value.Equal) &&
		c.LanguageOptions.IsEqualFunc(other.LanguageOptions, options.Value.Equal)
}

// effectiveView is the serialised layout; empty sections are omitted.
type effectiveView struct {
	Plugins         []string    `yaml:"plugins,omitempty" json:"plugins,omitempty"`
	LanguageOptions *Values     `yaml:"languageOptions,omitempty" json:"languageOptions,omitempty"`
	Settings        *Values     `yaml:"settings,omitempty" json:"settings,omitempty"`
	Rules           *rule.Rules `yaml:"rules,omitempty" json:"rules,omitempty"`
}

func (c *EffectiveConfig) view() effectiveView {
	v := effectiveView{Plugins: c.Plugins}
	if c.LanguageOptions.Len() > 0 {
		v.LanguageOptions = c.LanguageOptions
	}
	if c.Settings.Len() > 0 {
		v.Settings = c.Settings
	}
	if c.Rules.Len() > 0 {
		v.Rules = c.Rules
	}
	return v
}

// MarshalYAML renders plugins, languageOptions, settings and rules in declaration order.
func (c *EffectiveConfig) MarshalYAML() (any, error) {
	return c.view(), nil
}

// MarshalJSON mirrors MarshalYAML.
func (c *EffectiveConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.view())
}
