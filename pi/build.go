// Package pi is the top-level composition layer this design calls "the
// pi_legendre/pi_meissel/pi_lehmer drivers that merely compose kernels"
// and §6's exposed function surface: it wires internal/primes,
// internal/phi, internal/sieve, internal/pitable, internal/loadbalancer,
// internal/leaves, internal/riemann, and internal/backup into the
// handful of algorithms and kernels a caller (the CLI, or a library
// consumer) invokes directly.
package pi

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wharton-labs/primecount/internal/leaves"
	"github.com/wharton-labs/primecount/internal/phi"
	"github.com/wharton-labs/primecount/internal/pitable"
	"github.com/wharton-labs/primecount/internal/primes"
	"github.com/wharton-labs/primecount/internal/wide"
)

// bundle holds the shared, read-only tables one π(x) computation
// needs: the prime list up to y, the Mobius/lpf arrays up to y, a
// PiTable over [2, z), and a phi Calculator built on top of all three.
// Built once per top-level call and threaded through every kernel, it
// is the concrete shape of this design's "shared state: read-only" rule.
type bundle struct {
	x, y, z uint64
	alpha   float64
	c       int
	piSqrtY int
	piY     int

	primesTable  *primes.Table // primes up to y: bounds the mu/lpf/HardLeaves regimes
	zPrimesTable *primes.Table // primes up to z: bounds P2/B's prime index range and PiTable's sieving iterator
	mu           []int8
	lpf          []uint64
	tiny         *phi.Tiny
	calc         *phi.Calculator
	piTable      *pitable.Table
}

// defaultC is the number of primes pre-sieved by wheel factorization
// before the HardLeaves engine's own per-prime cross-off takes over
// (this design's "Calls pre_sieve with the first c primes").
// 7 matches PhiTiny's own constant-a cutoff, so phi[c] is always a
// PhiTiny constant-time lookup when HardLeaves seeds its baseline.
const defaultC = 7

// isqrt returns floor(sqrt(n)) for uint64 n via float64 with a
// correction step, since math.Sqrt loses precision near 2^53.
func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Sqrt(float64(n)))
	for r > 0 && r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// icbrt returns floor(cbrt(n)) for uint64 n, with the same
// float64-plus-correction approach as isqrt.
func icbrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(math.Cbrt(float64(n)))
	for r > 0 && r*r*r > n {
		r--
	}
	for (r+1)*(r+1)*(r+1) <= n {
		r++
	}
	return r
}

// deriveY computes y = alpha * x^(1/3), per the GLOSSARY's "y, z, alpha"
// entry, rounded to the nearest integer and floored at 1.
func deriveY(x uint64, alpha float64) uint64 {
	y := alpha * float64(icbrt(x))
	if y < 1 {
		y = 1
	}
	return uint64(y)
}

// buildBundle constructs every shared, read-only table a decomposition
// algorithm needs for one π(x) call: primes up to y, mu/lpf up to y, and
// a PiTable spanning [2, z).
func buildBundle(x uint64, alpha float64, threads int) (*bundle, error) {
	// The HardLeaves engine's leaf targets (x/(p*low), p*high, ...) are
	// computed directly in uint64, not through internal/wide, so they
	// silently wrap for x past roughly 10^18. Every driver/kernel that
	// touches the sieve routes through buildBundle, so this is the
	// single gate this design's §9 "Default to rejection" resolution
	// needs: reject here, loudly, rather than let a HardLeaves worker
	// compute a wrapped, wrong leaf target.
	if x > wide.MaxSupportedX {
		return nil, errors.Wrapf(wide.ErrOverflow, "x=%d exceeds the supported domain (x must be <= 10^18)", x)
	}
	y := deriveY(x, alpha)
	if y < 2 {
		y = 2
	}
	z := x / y

	primesTable, err := primes.BuildParallel(y, threads)
	if err != nil {
		return nil, err
	}
	mu, lpf, _ := leaves.LinearSieve(y + 1)

	tiny := phi.NewTiny()
	calc := phi.NewCalculator(tiny, primesTable)

	c := defaultC
	if c > primesTable.Len() {
		c = primesTable.Len()
	}
	piSqrtY := primesTable.IndexLE(isqrt(y))
	piY := primesTable.Len()

	// PiTable and P2/B both need the actual prime list up to z (P2 sums
	// over primes in (y, sqrt(x)] <= z; PiTable's bit pass must see
	// every prime in its window), which is generally far larger than y
	// -- the y-bounded primesTable above cannot serve either.
	zPrimesTable, err := primes.BuildParallel(z, threads)
	if err != nil {
		return nil, err
	}

	// S2Easy and P2 both query PrimePi(n) for n scattered arbitrarily
	// across [2, z) rather than in the ascending order a sliding
	// window's Next() assumes, and neither calls Next() at all -- so
	// the window passed to New must already cover the whole domain in
	// its first and only build pass (segmentSize >= z-1 forces this;
	// New's own minSegmentSize floor would otherwise silently clamp a
	// smaller request up to a fixed 2MiB, which covers only the first
	// ~2M integers and makes every PrimePi query past that point
	// wrongly return 0 for any z beyond that floor).
	piTable, err := pitable.New(2, z+1, z, threads, func(from uint64) pitable.PrimeIterator {
		return zPrimesTable.ForwardFrom(from)
	})
	if err != nil {
		return nil, err
	}

	return &bundle{
		x: x, y: y, z: z,
		alpha:        alpha,
		c:            c,
		piSqrtY:      piSqrtY,
		piY:          piY,
		primesTable:  primesTable,
		zPrimesTable: zPrimesTable,
		mu:           mu,
		lpf:          lpf,
		tiny:         tiny,
		calc:         calc,
		piTable:      piTable,
	}, nil
}
