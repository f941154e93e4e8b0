// Package cache holds the geographic-bucket trending cache, the only piece
// of shared mutable state in the engine.
package cache

import (
	"container/list"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ognjenm/news-pulse/internal/domain"
)

const (
	DefaultTTL       = 300 * time.Second
	DefaultPrecision = 0.5
	DefaultCapacity  = 128
)

// ComputeFunc produces a trending ranking on a cache miss.
type ComputeFunc func() ([]domain.Article, error)

// Config tunes bucket granularity, entry lifetime and capacity. Zero values
// fall back to the defaults.
type Config struct {
	Precision float64
	TTL       time.Duration
	Capacity  int
}

type entry struct {
	key       string
	articles  []domain.Article
	expiresAt time.Time
}

// TrendingCache buckets nearby queries onto a quantized coordinate grid so
// spatially close requests reuse one cached ranking. Entries expire after
// the TTL; capacity pressure evicts the least-recently-used bucket.
type TrendingCache struct {
	mu        sync.Mutex
	buckets   map[string]*list.Element
	order     *list.List // front = most recently used
	precision float64
	ttl       time.Duration
	capacity  int
	now       func() time.Time
}

func New(cfg Config) *TrendingCache {
	if cfg.Precision <= 0 {
		cfg.Precision = DefaultPrecision
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	return &TrendingCache{
		buckets:   make(map[string]*list.Element),
		order:     list.New(),
		precision: cfg.Precision,
		ttl:       cfg.TTL,
		capacity:  cfg.Capacity,
		now:       time.Now,
	}
}

// BucketKey quantizes both coordinates to the configured grid and joins
// them as "<lat>:<lon>" with two decimals.
func (c *TrendingCache) BucketKey(lat, lon float64) string {
	latBucket := math.Round(lat/c.precision) * c.precision
	lonBucket := math.Round(lon/c.precision) * c.precision
	return fmt.Sprintf("%.2f:%.2f", latBucket, lonBucket)
}

// GetOrCompute returns the cached ranking for the coordinate bucket, or
// invokes compute and stores its result. compute runs outside the lock so
// one slow bucket does not serialize every request; two concurrent misses
// on the same key may therefore both compute. The computation is
// deterministic and idempotent, so the duplicate work is tolerated.
func (c *TrendingCache) GetOrCompute(lat, lon float64, compute ComputeFunc) ([]domain.Article, error) {
	key := c.BucketKey(lat, lon)

	c.mu.Lock()
	if el, ok := c.buckets[key]; ok {
		e := el.Value.(*entry)
		if c.now().Before(e.expiresAt) {
			c.order.MoveToFront(el)
			c.mu.Unlock()
			return e.articles, nil
		}
		c.removeLocked(el)
	}
	c.mu.Unlock()

	articles, err := compute()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.buckets[key]; ok {
		// A concurrent miss finished first; keep its entry.
		c.order.MoveToFront(el)
		return el.Value.(*entry).articles, nil
	}

	for c.order.Len() >= c.capacity {
		c.removeLocked(c.order.Back())
	}

	el := c.order.PushFront(&entry{
		key:       key,
		articles:  articles,
		expiresAt: c.now().Add(c.ttl),
	})
	c.buckets[key] = el

	return articles, nil
}

// Len reports the number of live buckets.
func (c *TrendingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *TrendingCache) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	delete(c.buckets, el.Value.(*entry).key)
	c.order.Remove(el)
}
