package leaves

import "github.com/wharton-labs/primecount/internal/sieve"

// PrimeTable is the minimal view the HardLeaves engine needs of
// internal/primes.Table: the b-th prime, 1-indexed.
type PrimeTable interface {
	P(i int) uint64
}

// Engine is the per-thread HardLeaves (S2_hard / Gourdon D) state from
// this design: one Sieve, one phi[] array, and the Mobius/lpf tables
// shared read-only across all threads. An Engine is created once per
// worker thread and its RunSegment method is called once per segment
// that thread owns, in increasing low order; phi[] and the Sieve's
// internal cross-off cursors persist across those calls exactly as
// this design's "Lifecycle" and "LeafEnumeration state" require.
type Engine struct {
	x, y uint64
	c    int

	piSqrtY int
	piY     int

	primes PrimeTable
	mu     []int8
	lpf    []uint64

	wheelPrimes []uint64
	sv          *sieve.Sieve
	phi         []int64 // indexed by prime index b
}

// NewEngine builds one thread's HardLeaves state. mu and lpf must be
// sized to cover every m the square-free-leaf regime can reach (at
// least y+1 entries); initialPhi seeds phi[c+1..piY] (entries 0..c are
// copied but unused) for the first segment this engine will process -- normally all
// zero when the engine starts at the domain's left edge.
func NewEngine(x, y uint64, c, piSqrtY, piY int, primes PrimeTable, mu []int8, lpf []uint64, initialPhi []int64) *Engine {
	wheel := make([]uint64, 0, c)
	for i := 1; i <= c; i++ {
		wheel = append(wheel, primes.P(i))
	}
	phi := make([]int64, piY+1)
	copy(phi, initialPhi)
	return &Engine{
		x: x, y: y, c: c,
		piSqrtY: piSqrtY, piY: piY,
		primes: primes, mu: mu, lpf: lpf,
		wheelPrimes: wheel,
		sv:          sieve.New(),
		phi:         phi,
	}
}

// RunSegment processes one segment [low, high) and returns its signed
// contribution to S2_hard (or Gourdon D).
func (e *Engine) RunSegment(low, high uint64) int64 {
	e.sv.PreSieve(e.wheelPrimes, low, high)

	var s int64
	for b := e.c + 1; b <= e.piY; b++ {
		p := e.primes.P(b)
		if p == 0 {
			break
		}
		if b <= e.piSqrtY {
			s += e.squareFreeRegime(p, b, low, high)
		} else {
			s += e.twoPrimeRegime(p, b, low, high)
		}
		e.phi[b] += e.sv.GetTotalCount()
		e.sv.CrossOffCount(p)
	}
	return s
}

// squareFreeRegime implements this design's "square-free-leaf regime"
// (c < b <= pi(sqrt(y))).
func (e *Engine) squareFreeRegime(p uint64, b int, low, high uint64) int64 {
	upper := e.y
	if v := e.x / (p * low); v < upper {
		upper = v
	}
	lower := e.y / p
	if v := e.x / (p * high); v > lower {
		lower = v
	}
	if upper >= uint64(len(e.mu)) {
		upper = uint64(len(e.mu)) - 1
	}

	var s int64
	for m := upper; m >= lower; m-- {
		if m < uint64(len(e.mu)) && e.mu[m] != 0 && p < e.lpf[m] {
			stopRaw := e.x / (p * m)
			var stopOffset uint64
			if stopRaw > low {
				stopOffset = stopRaw - low
			}
			term := e.phi[b] + e.sv.Count(stopOffset)
			if e.mu[m] == 1 {
				s -= term
			} else {
				s += term
			}
		}
		if m == 0 {
			break
		}
	}
	return s
}

// twoPrimeRegime implements this design's "two-prime-leaf regime"
// (pi(sqrt(y)) < b < pi(y)).
func (e *Engine) twoPrimeRegime(p uint64, b int, low, high uint64) int64 {
	upperVal := e.x / (p * low)
	if upperVal > e.y {
		upperVal = e.y
	}
	l := piOf(e.primes, upperVal, e.piY)

	lowerBoundVal := e.x / (p * high)
	if p > lowerBoundVal {
		lowerBoundVal = p
	}

	var s int64
	for l > 0 && e.primes.P(l) > lowerBoundVal {
		pl := e.primes.P(l)
		stopRaw := e.x / (p * pl)
		var stopOffset uint64
		if stopRaw > low {
			stopOffset = stopRaw - low
		}
		s += e.phi[b] + e.sv.Count(stopOffset)
		l--
	}
	return s
}

// piOf binary-searches indices 0..hi for the largest l such that
// primes.P(l) <= target (0, the sentinel index, when no prime
// qualifies). HardLeaves callers only need this for the boundary
// index at the start of each b's inner loop.
func piOf(primes PrimeTable, target uint64, hi int) int {
	lo := 0
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if primes.P(mid) <= target {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Phi returns the current phi[b] value, for reading an engine's state
// after its segments are exhausted.
func (e *Engine) Phi(b int) int64 { return e.phi[b] }
