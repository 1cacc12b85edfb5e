package pi

import (
	"context"

	"github.com/wharton-labs/primecount/internal/leaves"
)

// Phi returns phi(x, a, threads): the count of integers <= x whose
// smallest prime factor exceeds the a-th prime (this design). threads is
// accepted for interface symmetry with the other exposed kernels; the
// PhiTiny/Calculator recursion itself is fast enough sequentially that
// this design never describes it as parallel.
func Phi(x uint64, a int, threads int) int64 {
	primesTable, err := primesUpTo(estimatePrimeBound(x, a), threads)
	if err != nil {
		return 0
	}
	tiny := newTinyShared()
	calc := newCalculator(tiny, primesTable)
	return calc.Phi(x, a)
}

// S1 exposes internal/leaves.S1 (this design/§6): the closed-form part
// of S2 where m's least prime factor already exceeds p[c].
func S1(x, y uint64, c int, threads int) int64 {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0
	}
	return leaves.S1(x, y, c, b.primesTable, b.mu, b.lpf, b.calc)
}

// S2Trivial exposes internal/leaves.S2Trivial.
func S2Trivial(x, y uint64, threads int) int64 {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0
	}
	return leaves.S2Trivial(x, y, b.piSqrtY, b.piY, b.primesTable)
}

// S2Easy exposes internal/leaves.S2Easy.
func S2Easy(x, y uint64, threads int) int64 {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0
	}
	return leaves.S2Easy(x, y, b.piSqrtY, b.piY, b.primesTable, b.piTable)
}

// S2Hard exposes the HardLeaves engine's S2_hard sum (this design),
// parallelized per runHardLeaves's zone partitioning.
func S2Hard(x, y uint64, threads int) (int64, error) {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	return runHardLeaves(b, threads)
}

// D exposes Gourdon's D sum, which this design treats as the same
// HardLeaves regime logic under a different decomposition's name.
func D(x, y uint64, threads int) (int64, error) {
	return S2Hard(x, y, threads)
}

// Phi0 exposes internal/leaves.Phi0.
func Phi0(x uint64, a int, threads int) int64 {
	primesTable, err := primesUpTo(estimatePrimeBound(x, a), threads)
	if err != nil {
		return 0
	}
	tiny := newTinyShared()
	calc := newCalculator(tiny, primesTable)
	return leaves.Phi0(x, a, calc)
}

// AC exposes internal/leaves.AC, Gourdon's combined A+C sum (this design
// §1's framing: "specified only where they interact with the core").
func AC(x, xStar uint64, k int, threads int) int64 {
	b, err := buildBundle(x, alphaFromY(x, xStar), threads)
	if err != nil {
		return 0
	}
	return leaves.AC(x, xStar, k, b.mu, b.lpf, b.primesTable, b.calc)
}

// P2 exposes internal/leaves.P2: Σ_{y<p<=sqrt(x)} (PrimePi(x/p) - PrimePi(p) + 1).
func P2(x, y uint64, threads int) (int64, error) {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	aIndex := b.zPrimesTable.IndexLE(y)
	bIndex := b.zPrimesTable.IndexLE(isqrt(x))
	return leaves.P2(context.Background(), x, aIndex, bIndex, b.zPrimesTable, b.piTable, threads)
}

// B exposes internal/leaves.B, Gourdon's B auxiliary sum.
func B(x, y uint64, threads int) (int64, error) {
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	aIndex := b.zPrimesTable.IndexLE(y)
	kIndex := b.zPrimesTable.IndexLE(isqrt(x))
	return leaves.B(context.Background(), x, aIndex, kIndex, b.zPrimesTable, b.piTable, threads)
}

// alphaFromY recovers the alpha that would have produced y = alpha *
// x^(1/3), for kernels exposed with an explicit y rather than an alpha
// (this design exposes phi/P2/B/S1/S2_*/AC/D by (x, y), not by alpha).
func alphaFromY(x, y uint64) float64 {
	c := icbrt(x)
	if c == 0 {
		return 1
	}
	return float64(y) / float64(c)
}

// estimatePrimeBound bounds the prime table a bare Phi/Phi0 call needs:
// the a-th prime itself, generously over-estimated via x when a is
// small relative to log(x) (Phi/Phi0 exposed standalone have no y to
// reuse, unlike the bundle-backed kernels above).
func estimatePrimeBound(x uint64, a int) uint64 {
	bound := isqrt(x) + 1
	if uint64(a)*20 > bound {
		bound = uint64(a) * 20
	}
	return bound
}
