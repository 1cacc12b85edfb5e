package phi

import "sync"

// PrimeTable is the minimal view a Calculator needs of
// internal/primes.Table: the a-th prime, 1-indexed.
type PrimeTable interface {
	P(i int) uint64
}

// cacheKey identifies one memoized phi(x,a) recursion node.
type cacheKey struct {
	x uint64
	a int
}

// Calculator computes phi(x,a) for arbitrary a by recursing through
// PhiTiny, per this design's "Cyclic dependence" resolution:
// phi(x,a) = phi(x,a-1) - phi(x/p[a], a-1), memoized by (x,a) while
// a <= maxCacheA and x <= cacheLimit. The same x limit applies to every
// a; nodes above it are never inserted, and cached entries are never
// evicted.
type Calculator struct {
	tiny       *Tiny
	primes     PrimeTable
	maxCacheA  int
	cacheLimit uint64

	mu    sync.Mutex
	cache map[cacheKey]int64
}

// DefaultMaxCacheA matches this design's PhiCache::max_a discussion.
const DefaultMaxCacheA = 100

// DefaultCacheLimit bounds the x values eligible for memoization; phi
// recursion nodes with x above this are recomputed rather than
// cached, keeping the sparse map small regardless of how large the
// top-level x is.
const DefaultCacheLimit = 1 << 23

// NewCalculator builds a phi(x,a) calculator sharing tiny and the
// primes table read-only across goroutines (no locking needed on
// those; only the memo map is guarded).
func NewCalculator(tiny *Tiny, primeTable PrimeTable) *Calculator {
	return &Calculator{
		tiny:       tiny,
		primes:     primeTable,
		maxCacheA:  DefaultMaxCacheA,
		cacheLimit: DefaultCacheLimit,
		cache:      make(map[cacheKey]int64),
	}
}

// Phi returns phi(x,a): the count of integers <= x coprime to the
// first a primes.
func (c *Calculator) Phi(x uint64, a int) int64 {
	if a <= 0 {
		return int64(x)
	}
	if a <= c.tiny.MaxA() {
		return c.tiny.Phi(x, a)
	}

	cacheable := a <= c.maxCacheA && x <= c.cacheLimit
	key := cacheKey{x: x, a: a}
	if cacheable {
		c.mu.Lock()
		if v, ok := c.cache[key]; ok {
			c.mu.Unlock()
			return v
		}
		c.mu.Unlock()
	}

	pa := c.primes.P(a)
	result := c.Phi(x, a-1)
	if pa <= x {
		result -= c.Phi(x/pa, a-1)
	}

	if cacheable {
		c.mu.Lock()
		c.cache[key] = result
		c.mu.Unlock()
	}
	return result
}

// Legendre computes phi(x, a) with a full linear recursion and no
// PhiTiny shortcut, for use as a brute-force oracle in tests (this design
// §8's concrete scenario "phi(100, 4) = 9").
func Legendre(x uint64, a int, primeTable PrimeTable) int64 {
	if a <= 0 {
		return int64(x)
	}
	pa := primeTable.P(a)
	if pa > x {
		return Legendre(x, a-1, primeTable)
	}
	return Legendre(x, a-1, primeTable) - Legendre(x/pa, a-1, primeTable)
}
