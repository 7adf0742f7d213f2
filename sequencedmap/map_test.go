package sequencedmap_test

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/StimulCross/configs/sequencedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMap_Set_KeepsFirstPosition_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(
		sequencedmap.NewElem("no-console", "warn"),
		sequencedmap.NewElem("eqeqeq", "error"),
	)
	m.Set("no-console", "off")
	m.Set("curly", "error")

	assert.Equal(t, []string{"no-console", "eqeqeq", "curly"}, slices.Collect(m.Keys()))
	assert.Equal(t, "off", m.GetOrZero("no-console"))
	assert.Equal(t, 3, m.Len())
}

func TestMap_NilSafe_Success(t *testing.T) {
	t.Parallel()

	var m *sequencedmap.Map[string, int]

	assert.Equal(t, 0, m.Len())
	assert.False(t, m.Has("a"))
	v, ok := m.Get("a")
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Empty(t, slices.Collect(m.Keys()))
	assert.Equal(t, 0, m.Clone().Len())
	m.Delete("a")
}

func TestMap_Delete_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		remove   string
		expected []string
	}{
		{name: "first key", remove: "a", expected: []string{"b", "c"}},
		{name: "middle key", remove: "b", expected: []string{"a", "c"}},
		{name: "missing key", remove: "z", expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := sequencedmap.New(
				sequencedmap.NewElem("a", 1),
				sequencedmap.NewElem("b", 2),
				sequencedmap.NewElem("c", 3),
			)
			m.Delete(tt.remove)
			assert.Equal(t, tt.expected, slices.Collect(m.Keys()))
			assert.False(t, m.Has(tt.remove))
		})
	}
}

func TestMap_Clone_Independent_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(sequencedmap.NewElem("a", 1))
	c := m.Clone()
	c.Set("a", 2)
	c.Set("b", 3)

	assert.Equal(t, 1, m.GetOrZero("a"))
	assert.False(t, m.Has("b"))
	assert.Equal(t, []string{"a", "b"}, slices.Collect(c.Keys()))
}

func TestMap_All_AddDuringIteration_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(sequencedmap.NewElem("a", 1), sequencedmap.NewElem("b", 2))

	var seen []string
	for k := range m.All() {
		seen = append(seen, k)
		m.Set(k+"'", 0)
	}

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 4, m.Len())
}

func TestMap_IsEqualFunc_Success(t *testing.T) {
	t.Parallel()

	eq := func(a, b int) bool { return a == b }
	tests := []struct {
		name     string
		left     *sequencedmap.Map[string, int]
		right    *sequencedmap.Map[string, int]
		expected bool
	}{
		{
			name:     "nil and empty",
			left:     nil,
			right:    sequencedmap.New[string, int](),
			expected: true,
		},
		{
			name:     "same pairs different order",
			left:     sequencedmap.New(sequencedmap.NewElem("a", 1), sequencedmap.NewElem("b", 2)),
			right:    sequencedmap.New(sequencedmap.NewElem("b", 2), sequencedmap.NewElem("a", 1)),
			expected: true,
		},
		{
			name:     "different value",
			left:     sequencedmap.New(sequencedmap.NewElem("a", 1)),
			right:    sequencedmap.New(sequencedmap.NewElem("a", 2)),
			expected: false,
		},
		{
			name:     "different keys",
			left:     sequencedmap.New(sequencedmap.NewElem("a", 1)),
			right:    sequencedmap.New(sequencedmap.NewElem("b", 1)),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.left.IsEqualFunc(tt.right, eq))
		})
	}
}

func TestMap_MarshalJSON_Order_Success(t *testing.T) {
	t.Parallel()

	m := sequencedmap.New(
		sequencedmap.NewElem("zeta", 1),
		sequencedmap.NewElem("alpha", 2),
	)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"zeta":1,"alpha":2}`, string(data))
	assert.Equal(t, `{"zeta":1,"alpha":2}`, string(data))
}

func TestMap_YAML_RoundTrip_Success(t *testing.T) {
	t.Parallel()

	type doc struct {
		Rules *sequencedmap.Map[string, string] `yaml:"rules"`
	}

	src := `rules:
    semi: error
    quotes: warn
    curly: "off"
`

	var d doc
	require.NoError(t, yaml.Unmarshal([]byte(src), &d))
	assert.Equal(t, []string{"semi", "quotes", "curly"}, slices.Collect(d.Rules.Keys()))

	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
}

func TestMap_UnmarshalYAML_MergeKeys_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		key      string
		expected map[string]int
		order    []string
	}{
		{
			name:     "explicit key after merge wins",
			src:      "shared: &shared {a: 1, b: 1}\nresolver:\n  <<: *shared\n  b: 2\n",
			key:      "resolver",
			expected: map[string]int{"a": 1, "b": 2},
			order:    []string{"a", "b"},
		},
		{
			name:     "explicit key before merge wins",
			src:      "shared: &shared {a: 1, b: 1}\nresolver:\n  b: 2\n  <<: *shared\n",
			key:      "resolver",
			expected: map[string]int{"a": 1, "b": 2},
			order:    []string{"b", "a"},
		},
		{
			name:     "first merged mapping wins",
			src:      "x: &x {a: 1}\ny: &y {a: 2, c: 3}\nresolver:\n  <<: [*x, *y]\n",
			key:      "resolver",
			expected: map[string]int{"a": 1, "c": 3},
			order:    []string{"a", "c"},
		},
		{
			name:     "inline merge",
			src:      "resolver:\n  <<: {a: 1}\n  b: 2\n",
			key:      "resolver",
			expected: map[string]int{"a": 1, "b": 2},
			order:    []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var doc map[string]*sequencedmap.Map[string, int]
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &doc))

			m := doc[tt.key]
			require.NotNil(t, m)
			assert.False(t, m.Has("<<"))
			assert.Equal(t, tt.order, slices.Collect(m.Keys()))
			for k, want := range tt.expected {
				got, ok := m.Get(k)
				require.True(t, ok, k)
				assert.Equal(t, want, got, k)
			}
		})
	}
}

func TestMappingEntries_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		errText string
	}{
		{name: "merge of a scalar", src: "<<: 1\na: 2\n", errText: "merge value must be a mapping"},
		{name: "merge of a scalar list", src: "<<: [1]\n", errText: "merge value must be a mapping"},
		{name: "duplicate explicit key beside merge", src: "<<: {a: 1}\nb: 2\nb: 3\n", errText: `mapping key "b" already defined`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var node yaml.Node
			require.NoError(t, yaml.Unmarshal([]byte(tt.src), &node))
			_, err := sequencedmap.MappingEntries(node.Content[0])
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestMap_UnmarshalYAML_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		errText string
	}{
		{
			name:    "not a mapping",
			src:     "- a\n- b\n",
			errText: "expected a mapping, got sequence",
		},
		{
			name:    "duplicate key",
			src:     "a: 1\nb: 2\na: 3\n",
			errText: `mapping key "a" already defined`,
		},
		{
			name:    "wrong value type",
			src:     "a: [1]\n",
			errText: `key "a"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := sequencedmap.New[string, int]()
			err := yaml.Unmarshal([]byte(tt.src), m)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}
