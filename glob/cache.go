package glob

import "sync"

// PatternCache provides a thread-safe cache of compiled patterns
type PatternCache struct {
	cache sync.Map // map[string]Pattern
}

// Global pattern cache instance
var globalPatternCache = &PatternCache{}

// CompileCached compiles raw through the global pattern cache. Presets repeat the same
// handful of patterns across every composer built in a process.
func CompileCached(raw string) (Pattern, error) {
	return globalPatternCache.Compile(raw)
}

// Compile returns the cached pattern for raw, compiling and storing it on first use.
// Invalid patterns are not cached.
func (c *PatternCache) Compile(raw string) (Pattern, error) {
	if cached, ok := c.cache.Load(raw); ok {
		return cached.(Pattern), nil
	}

	p, err := Compile(raw)
	if err != nil {
		return Pattern{}, err
	}

	c.cache.Store(raw, p)
	return p, nil
}

// Clear removes every cached pattern
func (c *PatternCache) Clear() {
	c.cache.Range(func(key, value any) bool {
		c.cache.Delete(key)
		return true
	})
}

// PatternCacheStats holds basic statistics about the cache
type PatternCacheStats struct {
	Size int64
}

// GetStats returns statistics about the cache
func (c *PatternCache) GetStats() PatternCacheStats {
	var size int64
	c.cache.Range(func(key, value any) bool {
		size++
		return true
	})
	return PatternCacheStats{Size: size}
}

// GetPatternCacheStats returns statistics about the global pattern cache
func GetPatternCacheStats() PatternCacheStats {
	return globalPatternCache.GetStats()
}

// ClearGlobalPatternCache clears the global pattern cache
func ClearGlobalPatternCache() {
	globalPatternCache.Clear()
}
