// Package cache memoises effective configurations outside the pure composition core.
package cache

import "github.com/StimulCross/configs/glob"

// ClearAllCaches clears all global caches in the system.
// This is the global resolver and the compiled pattern cache.
//
// It is safe to call from multiple goroutines, typically between test cases or after
// configuration files changed on disk.
func ClearAllCaches() {
	ClearGlobalResolver()
	glob.ClearGlobalPatternCache()
}

// CacheStats holds statistics about all global caches
type CacheStats struct {
	Resolver         ResolverStats
	PatternCacheSize int64
}

// GetAllCacheStats returns statistics about all global caches in the system
func GetAllCacheStats() CacheStats {
	return CacheStats{
		Resolver:         GetResolverStats(),
		PatternCacheSize: glob.GetPatternCacheStats().Size,
	}
}
