package glob_test

import (
	"testing"

	"github.com/StimulCross/configs/glob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPattern_Match_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		pattern  string
		path     string
		expected bool
	}{
		{name: "any depth spec", pattern: "**/*.spec.*", path: "a/b/c/foo.spec.ts", expected: true},
		{name: "any depth includes root", pattern: "**/*.spec.*", path: "foo.spec.ts", expected: true},
		{name: "root only spec", pattern: "*.spec.*", path: "a/foo.spec.ts", expected: false},
		{name: "root only spec at root", pattern: "*.spec.*", path: "foo.spec.ts", expected: true},
		{name: "test files at depth", pattern: "**/*.test.*", path: "src/utils/math.test.js", expected: true},
		{name: "test pattern needs dot", pattern: "**/*.test.*", path: "src/test.js", expected: false},
		{name: "root config file", pattern: "*config.*", path: "eslint.config.mjs", expected: true},
		{name: "nested config file", pattern: "*config.*", path: "packages/x/eslint.config.mjs", expected: false},
		{name: "single char", pattern: "file?.js", path: "file1.js", expected: true},
		{name: "single char no separator", pattern: "a?b", path: "a/b", expected: false},
		{name: "class", pattern: "src/[ab].ts", path: "src/b.ts", expected: true},
		{name: "negated class", pattern: "src/[!ab].ts", path: "src/b.ts", expected: false},
		{name: "braces", pattern: "**/*.{ts,tsx}", path: "app/view.tsx", expected: true},
		{name: "braces miss", pattern: "**/*.{ts,tsx}", path: "app/view.js", expected: false},
		{name: "star stops at separator", pattern: "src/*.js", path: "src/deep/x.js", expected: false},
		{name: "double star in middle", pattern: "src/**/index.js", path: "src/a/b/index.js", expected: true},
		{name: "leading slash anchors", pattern: "/scripts/*.js", path: "scripts/build.js", expected: true},
		{name: "leading dot slash", pattern: "./scripts/*.js", path: "scripts/build.js", expected: true},
		{name: "path with dot slash", pattern: "*.js", path: "./index.js", expected: true},
		{name: "windows separators", pattern: "**/*.test.*", path: `src\lib\a.test.ts`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := glob.Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Match(tt.path))
		})
	}
}

func TestCompile_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		pattern string
	}{
		{name: "empty", pattern: ""},
		{name: "blank", pattern: "  "},
		{name: "unclosed class", pattern: "src/[ab.ts"},
		{name: "unclosed brace", pattern: "**/*.{ts,tsx"},
		{name: "negation", pattern: "!**/*.js"},
		{name: "only slash", pattern: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := glob.Compile(tt.pattern)
			require.ErrorIs(t, err, glob.ErrPatternSyntax)

			var syntaxErr *glob.SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.pattern, syntaxErr.Pattern)
		})
	}
}

func TestCompileSet_Success(t *testing.T) {
	t.Parallel()

	set, err := glob.CompileSet([]string{"*.cjs", "**/*.test.*"})
	require.NoError(t, err)

	assert.True(t, set.Match("a/b.test.js"))
	assert.True(t, set.Match("rc.cjs"))
	assert.False(t, set.Match("src/index.js"))
	assert.Equal(t, []string{"*.cjs", "**/*.test.*"}, set.Strings())
}

func TestCompileSet_Error(t *testing.T) {
	t.Parallel()

	_, err := glob.CompileSet([]string{"[", "ok/*", "{"})
	require.ErrorIs(t, err, glob.ErrPatternSyntax)
	assert.Contains(t, err.Error(), `pattern "["`)
	assert.Contains(t, err.Error(), `pattern "{"`)
}

func TestNormalize_Success(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a/b.js", glob.Normalize("./a//b.js"))
	assert.Equal(t, "a/b.js", glob.Normalize("/a/b.js"))
	assert.Equal(t, "a/b.js", glob.Normalize(`a\b.js`))
	assert.Equal(t, "", glob.Normalize("."))
}

func TestMatch_Success(t *testing.T) {
	t.Parallel()

	ok, err := glob.Match("**/*.md", "docs/readme.md")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = glob.Match("[", "x")
	require.ErrorIs(t, err, glob.ErrPatternSyntax)
}
