package leaves

import "testing"

type fixedPrimeTable []uint64

func (f fixedPrimeTable) P(i int) uint64 {
	if i < 0 || i >= len(f) {
		return 0
	}
	return f[i]
}

func smallPrimeTable(limit uint64) fixedPrimeTable {
	_, lpf, primes := LinearSieve(limit)
	_ = lpf
	out := fixedPrimeTable{0}
	out = append(out, primes...)
	return out
}

func piIndexBrute(pt fixedPrimeTable, n uint64) int {
	idx := 0
	for i := 1; i < len(pt); i++ {
		if pt[i] <= n {
			idx = i
		}
	}
	return idx
}

// TestSegmentSplittingInvarianceSquareFreeRegime checks that running a
// HardLeaves engine over one wide segment yields the same total as
// running an equivalent engine, segment by segment, over the same
// range -- the property that makes the LoadBalancer free to choose any
// segment_size without changing the final sum.
func TestSegmentSplittingInvarianceSquareFreeRegime(t *testing.T) {
	const x = 2_000_000
	const y = 200
	pt := smallPrimeTable(y)
	mu, lpf, _ := LinearSieve(y)
	piY := len(pt) - 1
	piSqrtY := piIndexBrute(pt, isqrt(y))
	c := 3

	low, high := uint64(1), uint64(4001)

	whole := NewEngine(x, y, c, piSqrtY, piY, pt, mu, lpf, nil)
	wholeSum := whole.RunSegment(low, high)

	split := NewEngine(x, y, c, piSqrtY, piY, pt, mu, lpf, nil)
	mid := low + (high-low)/2
	splitSum := split.RunSegment(low, mid) + split.RunSegment(mid, high)

	if wholeSum != splitSum {
		t.Errorf("segment-splitting invariance violated: whole=%d split=%d", wholeSum, splitSum)
	}
}

func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	r := uint64(1)
	for r*r <= n {
		r++
	}
	return r - 1
}
