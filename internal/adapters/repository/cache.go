package repository

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/pkg/metrics"
)

// CacheKey identifies a scored activity snapshot. Hash covers the profile,
// posts and comments, so an agent with new activity misses the cache and is
// rescored.
type CacheKey struct {
	Agent string
	Hash  uint64
}

const defaultCacheSize = 4096

// ResultCache memoizes trust results per activity snapshot.
type ResultCache struct {
	lru *lru.Cache[CacheKey, scoring.Result]
}

// NewResultCache creates a cache bounded to size entries. Non-positive sizes
// fall back to the default.
func NewResultCache(size int) (*ResultCache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	c, err := lru.New[CacheKey, scoring.Result](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: c}, nil
}

// Get returns the cached result for key, recording hit/miss metrics.
func (c *ResultCache) Get(key CacheKey) (scoring.Result, bool) {
	res, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return res, ok
}

// Add stores a result for key.
func (c *ResultCache) Add(key CacheKey, res scoring.Result) {
	c.lru.Add(key, res)
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.lru.Len()
}
