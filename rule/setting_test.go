package rule_test

import (
	"encoding/json"
	"testing"

	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseLevel_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		expected rule.Level
	}{
		{"off", rule.Off},
		{"0", rule.Off},
		{"warn", rule.Warn},
		{"WARN", rule.Warn},
		{"1", rule.Warn},
		{"error", rule.Error},
		{" 2 ", rule.Error},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			l, err := rule.ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, l)
		})
	}
}

func TestParseLevel_Error(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "warning", "3", "on"} {
		_, err := rule.ParseLevel(in)
		require.ErrorIs(t, err, rule.ErrInvalidLevel, "input %q", in)
	}
}

func TestSetting_UnmarshalYAML_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		expected rule.Setting
	}{
		{name: "bare name", src: "warn", expected: rule.Setting{Level: rule.Warn}},
		{name: "bare number", src: "2", expected: rule.Setting{Level: rule.Error}},
		{name: "sequence without options", src: "[off]", expected: rule.Setting{Level: rule.Off}},
		{name: "sequence with options", src: "[error, single, {avoidEscape: true}]", expected: rule.Of(rule.Error, "single", map[string]any{"avoidEscape": true})},
		{name: "numeric level in sequence", src: "[1, 4]", expected: rule.Of(rule.Warn, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s rule.Setting
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &s))
			assert.True(t, tt.expected.Equal(s), "expected %s, got %s", tt.expected, s)
		})
	}
}

func TestSetting_UnmarshalYAML_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
	}{
		{name: "unknown level", src: "loud"},
		{name: "empty sequence", src: "[]"},
		{name: "mapping", src: "{level: error}"},
		{name: "options without valid level", src: "[always, 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var s rule.Setting
			err := yaml.Unmarshal([]byte(tt.src), &s)
			require.ErrorIs(t, err, rule.ErrInvalidLevel)
		})
	}
}

func TestSetting_Marshal_ShortestForm_Success(t *testing.T) {
	t.Parallel()

	rules := rule.NewRules(
		rule.Set("no-console", rule.Of(rule.Warn)),
		rule.Set("quotes", rule.Of(rule.Error, "single", map[string]any{"avoidEscape": true})),
	)

	y, err := yaml.Marshal(rules)
	require.NoError(t, err)
	assert.Equal(t, "no-console: warn\nquotes: [error, single, {avoidEscape: true}]\n", string(y))

	j, err := json.Marshal(rules)
	require.NoError(t, err)
	assert.Equal(t, `{"no-console":"warn","quotes":["error","single",{"avoidEscape":true}]}`, string(j))
}

func TestSetting_UnmarshalJSON_Success(t *testing.T) {
	t.Parallel()

	var s rule.Setting
	require.NoError(t, json.Unmarshal([]byte(`[2,{"max":100}]`), &s))

	assert.Equal(t, rule.Error, s.Level)
	require.Len(t, s.Options, 1)
	m, ok := s.Options[0].AsMap()
	require.True(t, ok)
	assert.True(t, options.Int(100).Equal(m.GetOrZero("max")))
}

func TestSetting_Equal_Success(t *testing.T) {
	t.Parallel()

	assert.True(t, rule.Of(rule.Error, 2).Equal(rule.Of(rule.Error, 2)))
	assert.False(t, rule.Of(rule.Error, 2).Equal(rule.Of(rule.Error, 4)))
	assert.False(t, rule.Of(rule.Error).Equal(rule.Of(rule.Warn)))
	assert.False(t, rule.Of(rule.Error).Equal(rule.Of(rule.Error, "always")))
	assert.False(t, rule.Of(rule.Off).Enabled())
	assert.True(t, rule.Of(rule.Warn).Enabled())
}
