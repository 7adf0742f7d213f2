package cache_test

import (
	"testing"

	"github.com/StimulCross/configs/cache"
	"github.com/StimulCross/configs/glob"
	"github.com/StimulCross/configs/rule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearAllCaches_Success(t *testing.T) { //nolint:paralleltest
	c := newComposer(t, rule.Error)

	_, err := cache.ComposeCached(c, "a.js")
	require.NoError(t, err)
	_, err = cache.ComposeCached(c, "a.js")
	require.NoError(t, err)
	_, err = glob.CompileCached("src/**")
	require.NoError(t, err)

	stats := cache.GetAllCacheStats()
	assert.Positive(t, stats.Resolver.Size, "resolver should have entries")
	assert.Positive(t, stats.Resolver.Hits, "resolver should have hits")
	assert.Positive(t, stats.PatternCacheSize, "pattern cache should have entries")

	cache.ClearAllCaches()

	stats = cache.GetAllCacheStats()
	assert.Equal(t, cache.ResolverStats{}, stats.Resolver, "resolver should be empty")
	assert.Equal(t, int64(0), stats.PatternCacheSize, "pattern cache should be empty")
}
