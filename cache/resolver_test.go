package cache_test

import (
	"fmt"
	"testing"

	"github.com/StimulCross/configs/cache"
	"github.com/StimulCross/configs/composer"
	"github.com/StimulCross/configs/options"
	"github.com/StimulCross/configs/rule"
	"github.com/StimulCross/configs/sequencedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newComposer(t *testing.T, base rule.Level, opts ...composer.Option) *composer.Composer {
	t.Helper()

	layers := []composer.Layer{
		{
			Name:  "base",
			Rules: rule.NewRules(rule.Set("no-console", rule.Of(base)), rule.Set("no-var", rule.Of(rule.Error))),
		},
	}
	overrides := []composer.OverrideBlock{
		{
			Name:  "tests",
			Files: []string{"**/*.test.*"},
			Rules: rule.NewRules(rule.Set("no-console", rule.Of(rule.Off))),
		},
	}

	c, err := composer.New(layers, overrides, opts...)
	require.NoError(t, err)
	return c
}

func TestResolver_Resolve_Success(t *testing.T) {
	t.Parallel()

	r := &cache.Resolver{}
	c := newComposer(t, rule.Error)

	cfg, err := r.Resolve(c, "src/a.js")
	require.NoError(t, err)
	s, _ := cfg.Rule("no-console")
	assert.Equal(t, rule.Error, s.Level)

	// same matched blocks, served from the cache
	cfg, err = r.Resolve(c, "lib/b.js")
	require.NoError(t, err)
	s, _ = cfg.Rule("no-console")
	assert.Equal(t, rule.Error, s.Level)

	cfg, err = r.Resolve(c, "src/a.test.js")
	require.NoError(t, err)
	s, _ = cfg.Rule("no-console")
	assert.Equal(t, rule.Off, s.Level)

	stats := r.GetStats()
	assert.Equal(t, int64(2), stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestResolver_ResultsAreCopies_Success(t *testing.T) {
	t.Parallel()

	r := &cache.Resolver{}
	c := newComposer(t, rule.Warn)

	cfg, err := r.Resolve(c, "a.js")
	require.NoError(t, err)
	cfg.Rules.Set("no-console", rule.Of(rule.Off))
	cfg.Plugins = append(cfg.Plugins, "mutated")
	cfg.Settings.Set("x", options.Bool(true))

	again, err := r.Resolve(c, "a.js")
	require.NoError(t, err)
	s, _ := again.Rule("no-console")
	assert.Equal(t, rule.Warn, s.Level)
	assert.False(t, again.HasPlugin("mutated"))
	_, ok := again.Setting("x")
	assert.False(t, ok)

	direct, err := c.Compose("a.js")
	require.NoError(t, err)
	assert.True(t, direct.Equal(again))
}

func TestResolver_KeyedByComposer_Success(t *testing.T) {
	t.Parallel()

	r := &cache.Resolver{}
	warn := newComposer(t, rule.Warn)
	errs := newComposer(t, rule.Error)
	require.NotEqual(t, warn.Fingerprint(), errs.Fingerprint())

	cfg, err := r.Resolve(warn, "a.js")
	require.NoError(t, err)
	s, _ := cfg.Rule("no-console")
	assert.Equal(t, rule.Warn, s.Level)

	cfg, err = r.Resolve(errs, "a.js")
	require.NoError(t, err)
	s, _ = cfg.Rule("no-console")
	assert.Equal(t, rule.Error, s.Level)

	// an identical composer shares entries
	cfg, err = r.Resolve(newComposer(t, rule.Warn), "b.js")
	require.NoError(t, err)
	s, _ = cfg.Rule("no-console")
	assert.Equal(t, rule.Warn, s.Level)

	stats := r.GetStats()
	assert.Equal(t, int64(2), stats.Size)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestResolver_Resolve_Error(t *testing.T) {
	t.Parallel()

	layers := []composer.Layer{
		{Name: "js", LanguageOptions: sequencedmap.New(sequencedmap.NewElem(composer.ParserKey, options.String("espree")))},
		{Name: "ts", LanguageOptions: sequencedmap.New(sequencedmap.NewElem(composer.ParserKey, options.String("ts")))},
	}
	c, err := composer.New(layers, nil, composer.WithParserPolicy(composer.ParserPolicyStrict))
	require.NoError(t, err)

	r := &cache.Resolver{}
	for range 2 {
		cfg, err := r.Resolve(c, "a.ts")
		require.ErrorIs(t, err, composer.ErrConfigConflict)
		assert.Nil(t, cfg)
	}

	stats := r.GetStats()
	assert.Equal(t, int64(0), stats.Size)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestResolver_Concurrent_Success(t *testing.T) {
	t.Parallel()

	r := &cache.Resolver{}
	c := newComposer(t, rule.Error)

	var g errgroup.Group
	for i := range 64 {
		g.Go(func() error {
			name := fmt.Sprintf("src/file%d.js", i)
			if i%2 == 0 {
				name = fmt.Sprintf("src/file%d.test.js", i)
			}
			cfg, err := r.Resolve(c, name)
			if err != nil {
				return err
			}
			want, err := c.Compose(name)
			if err != nil {
				return err
			}
			if !want.Equal(cfg) {
				return fmt.Errorf("%s: cached configuration differs", name)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := r.GetStats()
	assert.Equal(t, int64(2), stats.Size)
	assert.Equal(t, int64(64), stats.Hits+stats.Misses)
}

func TestResolver_Clear_Success(t *testing.T) {
	t.Parallel()

	r := &cache.Resolver{}
	c := newComposer(t, rule.Error)

	_, err := r.Resolve(c, "a.js")
	require.NoError(t, err)
	_, err = r.Resolve(c, "a.js")
	require.NoError(t, err)

	r.Clear()
	assert.Equal(t, cache.ResolverStats{}, r.GetStats())
}

func TestResolver_Resolve_DuplicateBlockNames_Success(t *testing.T) {
	t.Parallel()

	c, err := composer.New(nil, []composer.OverrideBlock{
		{Name: "relaxed", Files: []string{"**/*.test.*"}, Rules: rule.NewRules(rule.Set("no-console", rule.Of(rule.Off)))},
		{Name: "relaxed", Files: []string{"scripts/**"}, Rules: rule.NewRules(rule.Set("no-console", rule.Of(rule.Warn)))},
	})
	require.NoError(t, err)

	r := &cache.Resolver{}
	for _, tt := range []struct {
		file     string
		expected rule.Level
	}{
		{file: "src/a.test.js", expected: rule.Off},
		{file: "scripts/build.js", expected: rule.Warn},
	} {
		cfg, err := r.Resolve(c, tt.file)
		require.NoError(t, err)
		s, ok := cfg.Rule("no-console")
		require.True(t, ok)
		assert.Equal(t, tt.expected, s.Level, tt.file)
	}
	assert.Equal(t, int64(2), r.GetStats().Misses)
}
