package pi

import (
	"context"

	"github.com/wharton-labs/primecount/internal/leaves"
)

// These wrappers call the same internal/leaves kernels the standalone
// exported functions in kernels.go call, but reuse an already-built
// bundle instead of constructing fresh primes/mu/lpf/PiTable state --
// used by the decomposition algorithms in algorithms.go, which build
// one bundle per π(x) call and pass it through every kernel.

// leavesPhi0 computes phi0 = phi(x,c) + c - 1, using the same small
// cutoff c the HardLeaves engine and S1 split on (defaultC == 7 ==
// PhiTiny's own cutoff, so this is always a constant-time lookup).
// Calculator.Phi has no trivial-leaf shortcut for large a -- it is
// only cheap for a within PhiTiny's range -- so phi0 must use b.c, not
// pi(y) (which runs to the hundreds or thousands for any non-trivial
// x and would make this call exponential).
func leavesPhi0(b *bundle) int64 {
	return leaves.Phi0(b.x, b.c, b.calc)
}

func s1FromBundle(b *bundle) int64 {
	return leaves.S1(b.x, b.y, b.c, b.primesTable, b.mu, b.lpf, b.calc)
}

func s2TrivialFromBundle(b *bundle) int64 {
	return leaves.S2Trivial(b.x, b.y, b.piSqrtY, b.piY, b.primesTable)
}

func s2EasyFromBundle(b *bundle) int64 {
	return leaves.S2Easy(b.x, b.y, b.piSqrtY, b.piY, b.primesTable, b.piTable)
}

func acFromBundle(b *bundle, xStar uint64, k int) int64 {
	return leaves.AC(b.x, xStar, k, b.mu, b.lpf, b.primesTable, b.calc)
}

func p2FromBundle(b *bundle, threads int) (int64, error) {
	aIndex := b.zPrimesTable.IndexLE(b.y) // pi(y): P2 sums primes in (y, sqrt(x)]
	bIndex := b.zPrimesTable.IndexLE(isqrt(b.x))
	return leaves.P2(context.Background(), b.x, aIndex, bIndex, b.zPrimesTable, b.piTable, threads)
}
