// Package sieve implements the segmented bit-sieve with adaptive
// counters from this design — the hard core this repository
// exists to deliver. It supports counting the number of uncrossed
// positions in sublinear time while simultaneously being crossed off,
// which is what every special-leaf kernel in internal/leaves is built
// on.
//
// The bit-packing and odd-only representation are grounded in a
// segmented-sieve buffer reuse pattern and in MichaelTJones-sieve's
// word-packed odd-only table;
// the counters/adaptive-D layer and the cross-segment "next multiple"
// pointer are specified directly by this design since no prior implementation or
// pack example implements counting sieves.
package sieve

import (
	"math"
	"math/bits"
)

// Sieve represents one segment [low, high) of the odd-number bit
// array described in this design, plus its counters[] partition and
// the batched-counting cursor. One Sieve lives on exactly one thread
// for exactly one segment range at a time (this design: "Mutable
// per-thread -- its own sieve, counters"); NextSegment reuses its
// backing storage and the per-prime crossing state for the thread's
// next segment.
type Sieve struct {
	low, high uint64
	base      uint64 // first representable odd integer >= low
	size      uint64 // number of odd integers represented, i.e. bit count
	words     []uint64

	totalCount int64
	d          uint64 // current adaptive counter bucket width (in bit-index units)
	counters   []int64

	// batched-counting cursor (§4.2): counters already folded into
	// countersAcc, and the bit-index boundary up to which that holds.
	countersI       int
	countersAcc     int64
	countersBoundIx uint64

	// next[p] is the next odd multiple of prime p to cross off,
	// carried between segments for the same thread (this design,
	// "Lifecycle" / §4.2 cross_off_count).
	next map[uint64]uint64
}

// New returns an empty Sieve ready for its first PreSieve call.
func New() *Sieve {
	return &Sieve{next: make(map[uint64]uint64)}
}

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// PreSieve initializes the segment [low, high): every representable
// odd position is set to 1, then multiples of the wheelPrimes (the
// first c sieving primes, this design) are crossed off. Passing 2 in
// wheelPrimes is harmless -- it is skipped, since even numbers are
// never represented. This simplifies the source's "rotating wheel
// pattern" to repeated per-prime crossing (see DESIGN.md); the result
// is bit-for-bit identical, just not wheel-table-accelerated.
func (s *Sieve) PreSieve(wheelPrimes []uint64, low, high uint64) {
	s.low, s.high = low, high
	if low%2 == 1 {
		s.base = low
	} else {
		s.base = low + 1
	}
	if s.base >= high {
		s.size = 0
	} else {
		s.size = (high-1-s.base)/2 + 1
	}

	nwords := (s.size + 63) / 64
	if uint64(cap(s.words)) >= nwords {
		s.words = s.words[:nwords]
	} else {
		s.words = make([]uint64, nwords)
	}
	fillOnes(s.words, s.size)
	s.totalCount = int64(s.size)

	s.d = chooseD(low, s.size)
	numCounters := uint64(1)
	if s.size > 0 {
		numCounters = (s.size + s.d - 1) / s.d
	}
	if uint64(cap(s.counters)) >= numCounters {
		s.counters = s.counters[:numCounters]
	} else {
		s.counters = make([]int64, numCounters)
	}
	for i := range s.counters {
		lo := uint64(i) * s.d
		hi := lo + s.d
		if hi > s.size {
			hi = s.size
		}
		if hi < lo {
			hi = lo
		}
		s.counters[i] = int64(hi - lo)
	}
	s.resetCountersCursor()

	for _, p := range wheelPrimes {
		s.crossOffPrime(p)
	}
}

// fillOnes sets bits [0,size) of words to 1, leaving any tail bits of
// the final word beyond size at 0.
func fillOnes(words []uint64, size uint64) {
	full := size / 64
	for i := uint64(0); i < full && i < uint64(len(words)); i++ {
		words[i] = ^uint64(0)
	}
	rem := size % 64
	if rem > 0 && full < uint64(len(words)) {
		words[full] = lowMask(uint(rem))
	}
}

// chooseD implements this design's adaptive counter width:
// D = round_to_power_of_two(sqrt(sqrt(segment_low))), clamped so
// counters.size() = ceil(segment_size/D) is at least 2 (when
// possible) and D never exceeds the segment size.
func chooseD(low, size uint64) uint64 {
	target := math.Sqrt(math.Sqrt(float64(low)))
	d := roundPow2(target)
	for size >= 2 && d > 1 && (size+d-1)/d < 2 {
		d /= 2
	}
	if d == 0 {
		d = 1
	}
	if size > 0 && d > size {
		d = size
	}
	return d
}

func roundPow2(x float64) uint64 {
	if x < 1 {
		return 1
	}
	lower := uint64(1)
	for float64(lower*2) <= x {
		lower *= 2
	}
	upper := lower * 2
	if x-float64(lower) >= float64(upper)-x {
		return upper
	}
	return lower
}

// idxOf returns the bit index of odd integer n, which must satisfy
// s.base <= n < s.high.
func (s *Sieve) idxOf(n uint64) uint64 { return (n - s.base) / 2 }

// firstOddMultiple returns the smallest multiple of odd prime p that
// is itself odd and >= from.
func firstOddMultiple(p, from uint64) uint64 {
	k := (from + p - 1) / p
	if k%2 == 0 {
		k++
	}
	if k == 0 {
		k = 1
	}
	return k * p
}

// crossOffPrime crosses off every still-set odd multiple of p within
// the current segment, carrying the crossing cursor forward in
// s.next for the segment's successor.
func (s *Sieve) crossOffPrime(p uint64) {
	if p == 2 || s.size == 0 {
		return
	}
	start, ok := s.next[p]
	if !ok || start < s.low {
		start = firstOddMultiple(p, maxU64(s.low, p))
	}
	step := 2 * p
	m := start
	for m < s.high {
		idx := s.idxOf(m)
		w := idx / 64
		b := idx % 64
		bit := uint64(1) << b
		if s.words[w]&bit != 0 {
			s.words[w] &^= bit
			s.totalCount--
			s.counters[idx/s.d]--
		}
		m += step
	}
	s.next[p] = m
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

// CrossOffCount crosses off multiples of sieving prime p (this design
// §4.2's cross_off_count; the prime's index b is the caller's
// bookkeeping only, carried in the HardLeaves engine's phi[] array,
// not needed by the sieve itself).
//
// Each call to CrossOffCount starts a new counting epoch: the leaf
// engine queries Count with a fresh, small-to-large run of stop values
// for every sieving prime, so the batched counters/cursor
// (countersI/countersAcc/countersBoundIx) must restart from the
// segment's left edge against the post-cross-off counters, exactly as
// the source's cross_off_count resets its counters cursor before
// returning.
func (s *Sieve) CrossOffCount(p uint64) {
	s.crossOffPrime(p)
	s.resetCountersCursor()
}

// resetCountersCursor rewinds the batched-counting cursor to the
// segment's left edge, so the next Count call starts folding counters
// from index 0 again.
func (s *Sieve) resetCountersCursor() {
	s.countersI = 0
	s.countersAcc = 0
	s.countersBoundIx = 0
}

// GetTotalCount returns the running count of uncrossed (1) bits in
// the whole segment.
func (s *Sieve) GetTotalCount() int64 { return s.totalCount }

// Count returns the cumulative number of 1-bits among representable
// positions with raw value in [low, low+stop], per this design.
// Successive calls within one segment must pass non-decreasing stop
// values; the sieve does not check this (violating it is undefined
// behavior, same as the source it generalizes).
func (s *Sieve) Count(stop uint64) int64 {
	if s.size == 0 {
		return 0
	}
	target := s.low + stop
	var targetIdxExclusive uint64
	if target < s.base {
		targetIdxExclusive = 0
	} else {
		targetIdxExclusive = (target-s.base)/2 + 1
		if targetIdxExclusive > s.size {
			targetIdxExclusive = s.size
		}
	}

	// Fold whole counter buckets fully inside the target range into
	// the running accumulator -- the O(D) batched phase.
	for uint64(s.countersI+1)*s.d <= targetIdxExclusive && s.countersI < len(s.counters) {
		s.countersAcc += s.counters[s.countersI]
		s.countersI++
		s.countersBoundIx = uint64(s.countersI) * s.d
	}

	remainder := s.popcountRange(s.countersBoundIx, targetIdxExclusive)
	return s.countersAcc + remainder
}

// popcountRange returns the popcount of bits in [fromIdx, toIdx).
func (s *Sieve) popcountRange(fromIdx, toIdx uint64) int64 {
	if fromIdx >= toIdx {
		return 0
	}
	wFrom := fromIdx / 64
	bFrom := uint(fromIdx % 64)
	wTo := (toIdx - 1) / 64
	bTo := uint((toIdx - 1) % 64)

	if wFrom == wTo {
		mask := lowMask(bTo+1) &^ lowMask(bFrom)
		return int64(bits.OnesCount64(s.words[wFrom] & mask))
	}
	total := int64(bits.OnesCount64(s.words[wFrom] &^ lowMask(bFrom)))
	for w := wFrom + 1; w < wTo; w++ {
		total += int64(bits.OnesCount64(s.words[w]))
	}
	total += int64(bits.OnesCount64(s.words[wTo] & lowMask(bTo+1)))
	return total
}

// VerifyInvariant recomputes total_count == sum(counters) ==
// popcount(bits) directly, for use by property tests (this design,
// invariant 1). It is intentionally O(size) and not used on any hot
// path.
func (s *Sieve) VerifyInvariant() (totalCount int64, counterSum int64, bitPopcount int64) {
	totalCount = s.totalCount
	for _, c := range s.counters {
		counterSum += c
	}
	for _, w := range s.words {
		bitPopcount += int64(bits.OnesCount64(w))
	}
	// the final word may carry tail bits beyond size, but fillOnes
	// never sets them and crossing only clears bits, so no correction
	// is required.
	return
}

// Low, High, Base, and Size expose the segment geometry for callers
// (the HardLeaves engine needs Low to convert absolute targets like
// x/(p*m) into the stop offsets Count expects).
func (s *Sieve) Low() uint64  { return s.low }
func (s *Sieve) High() uint64 { return s.high }
func (s *Sieve) Base() uint64 { return s.base }
func (s *Sieve) Size() uint64 { return s.size }

// D reports the current adaptive counter bucket width, exposed for
// the regression test in this design ("measures count() calls per
// leaf").
func (s *Sieve) D() uint64 { return s.d }
