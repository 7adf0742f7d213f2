package cache

import (
	"sync"
	"sync/atomic"

	"github.com/StimulCross/configs/composer"
)

// ResolverKey identifies a cached effective configuration: the composer it came from and
// the set of override blocks that applied.
type ResolverKey struct {
	Fingerprint string
	Signature   string
}

// Resolver memoises effective configurations. Files matching the same override blocks
// under the same composer share one entry, so a project with thousands of files
// usually composes only a handful of times.
type Resolver struct {
	cache  sync.Map // map[ResolverKey]*composer.EffectiveConfig
	hits   atomic.Int64
	misses atomic.Int64
}

// Global resolver instance
var globalResolver = &Resolver{}

// ComposeCached composes filePath through the global resolver.
func ComposeCached(c *composer.Composer, filePath string) (*composer.EffectiveConfig, error) {
	return globalResolver.Resolve(c, filePath)
}

// Resolve returns the effective configuration of filePath under c. Cached results are
// returned as copies so callers can modify them.
func (r *Resolver) Resolve(c *composer.Composer, filePath string) (*composer.EffectiveConfig, error) {
	key := ResolverKey{
		Fingerprint: c.Fingerprint(),
		Signature:   c.Signature(filePath),
	}

	if cached, ok := r.cache.Load(key); ok {
		r.hits.Add(1)
		return cached.(*composer.EffectiveConfig).Clone(), nil
	}
	r.misses.Add(1)

	cfg, err := c.Compose(filePath)
	if err != nil {
		// failures are not cached, the next call reports the error again
		return nil, err
	}

	actual, _ := r.cache.LoadOrStore(key, cfg.Clone())
	return actual.(*composer.EffectiveConfig).Clone(), nil
}

// Clear drops every cached configuration and resets the counters.
func (r *Resolver) Clear() {
	r.cache.Range(func(key, value any) bool {
		r.cache.Delete(key)
		return true
	})
	r.hits.Store(0)
	r.misses.Store(0)
}

// ResolverStats describes the resolver's contents and effectiveness
type ResolverStats struct {
	Size   int64
	Hits   int64
	Misses int64
}

// GetStats returns statistics about the resolver
func (r *Resolver) GetStats() ResolverStats {
	var size int64
	r.cache.Range(func(key, value any) bool {
		size++
		return true
	})
	return ResolverStats{
		Size:   size,
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
	}
}

// GetResolverStats returns statistics about the global resolver
func GetResolverStats() ResolverStats {
	return globalResolver.GetStats()
}

// ClearGlobalResolver clears the global resolver
func ClearGlobalResolver() {
	globalResolver.Clear()
}
