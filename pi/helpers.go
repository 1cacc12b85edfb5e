package pi

import (
	"sync"

	"github.com/wharton-labs/primecount/internal/phi"
	"github.com/wharton-labs/primecount/internal/primes"
)

// tinyOnce builds the process-wide PhiTiny table once; it is
// deterministic and immutable after construction (this design's "shared
// state: read-only" rule), so every caller can safely share one copy
// rather than rebuilding the same small primorial tables per call.
var (
	tinyOnce   sync.Once
	tinyShared *phi.Tiny
)

func newTinyShared() *phi.Tiny {
	tinyOnce.Do(func() { tinyShared = phi.NewTiny() })
	return tinyShared
}

func newCalculator(tiny *phi.Tiny, primesTable *primes.Table) *phi.Calculator {
	return phi.NewCalculator(tiny, primesTable)
}

func primesUpTo(limit uint64, threads int) (*primes.Table, error) {
	return primes.BuildParallel(limit, threads)
}
