// Package primes builds the base "Primes list p[1..pi(y)]" from
// this design (p[0] is a sentinel 0, strictly increasing, immutable
// after construction, shared read-only across threads) and supplies
// the PrimeIterator collaborator that this design leaves external: a
// forward/backward enumerator over that bounded window.
//
// The sieve itself is the original odd-only
// segmented Sieve of Eratosthenes, generalized from int to uint64 and
// from a flat []int result to the p[1..] indexed Table the rest of
// this module depends on. The bit-packing idiom (one byte, later one
// bit, per odd candidate) is grounded in MichaelTJones-sieve's
// word-packed odd-only table from the retrieval pack.
package primes

import (
	"bytes"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// DefaultSegmentSize mirrors the original tuning constant; it is the
// width of one sieving pass's reusable buffer.
const DefaultSegmentSize = 1 << 20

// Table is the immutable p[1..pi(y)] array with sentinel p[0]=0.
type Table struct {
	p []uint64 // p[0] == 0 sentinel; p[1] == 2; strictly increasing thereafter
}

// Build constructs the primes table for all primes <= limit using a
// single-threaded segmented sieve, suitable for limits where spinning
// up a worker pool costs more than it saves.
func Build(limit uint64) *Table {
	return &Table{p: sieveSegmented(limit, DefaultSegmentSize)}
}

// BuildParallel constructs the primes table for all primes <= limit,
// partitioning segments across workers with an errgroup the way
// this design's DOMAIN STACK section describes (replacing a
// raw sync.WaitGroup + channel plumbing approach).
func BuildParallel(limit uint64, workers int) (*Table, error) {
	if workers <= 1 || limit < uint64(DefaultSegmentSize)*4 {
		return Build(limit), nil
	}
	primes, err := sieveSegmentedParallel(limit, DefaultSegmentSize, workers)
	if err != nil {
		return nil, err
	}
	return &Table{p: primes}, nil
}

// Len returns pi(limit): the number of primes in the table, i.e. the
// largest valid index for P.
func (t *Table) Len() int { return len(t.p) - 1 }

// P returns p[i], the i-th prime (1-indexed). P(0) returns the
// sentinel 0 per this design.
func (t *Table) P(i int) uint64 {
	if i < 0 || i >= len(t.p) {
		return 0
	}
	return t.p[i]
}

// Max returns the largest prime in the table, or 0 if empty.
func (t *Table) Max() uint64 {
	if len(t.p) <= 1 {
		return 0
	}
	return t.p[len(t.p)-1]
}

// IndexLE returns the largest index i such that p[i] <= n (0 if no
// such prime exists, matching the p[0]=0 sentinel).
func (t *Table) IndexLE(n uint64) int {
	// t.p[1:] is strictly increasing; find the rightmost value <= n.
	lo, hi := 1, len(t.p)-1
	res := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if t.p[mid] <= n {
			res = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return res
}

// CountLE is a brute PrimePi(n) computed directly against this table
// via binary search; it agrees with internal/pitable's compressed
// lookup but does not require building one (this design property 3
// style check, made available directly off the primes list).
func (t *Table) CountLE(n uint64) int { return t.IndexLE(n) }

// Iterator walks a Table forward and/or backward from a cursor
// position, matching this design's "Forward/backward enumeration of
// primes over a bounded window."
type Iterator struct {
	t   *Table
	idx int // index of the last value returned; 0 before the first Next()
}

// ForwardFrom returns an Iterator whose first Next() call yields the
// smallest prime >= n (or false if none exists in the table).
func (t *Table) ForwardFrom(n uint64) *Iterator {
	idx := t.IndexLE(n)
	if idx > 0 && t.p[idx] == n {
		// land the cursor just before n itself so Next() returns n.
		idx--
	}
	return &Iterator{t: t, idx: idx}
}

// BackwardFrom returns an Iterator whose first Prev() call yields the
// largest prime <= n (or false if none exists).
func (t *Table) BackwardFrom(n uint64) *Iterator {
	idx := t.IndexLE(n)
	return &Iterator{t: t, idx: idx + 1}
}

// Next advances forward and returns the next prime in increasing
// order.
func (it *Iterator) Next() (uint64, bool) {
	if it.idx+1 >= len(it.t.p) {
		return 0, false
	}
	it.idx++
	return it.t.p[it.idx], true
}

// Prev advances backward and returns the next prime in decreasing
// order.
func (it *Iterator) Prev() (uint64, bool) {
	if it.idx-1 <= 0 {
		return 0, false
	}
	it.idx--
	return it.t.p[it.idx], true
}

// Index reports the current 1-based index into the owning Table.
func (it *Iterator) Index() int { return it.idx }

// --- sieve construction, generalized from the original prime package ---

// sieveSmall is the original SieveOfEratosthenes, generalized to
// uint64 and an odd-only table holding one byte per odd candidate.
func sieveSmall(n uint64) []uint64 {
	if n < 2 {
		return nil
	}
	if n == 2 {
		return []uint64{2}
	}
	// index i represents number 2*i+3
	size := (n - 3) / 2
	sieve := make([]byte, size+1)
	for i := range sieve {
		sieve[i] = 1
	}
	limit := uint64(math.Sqrt(float64(n)))
	for cur := uint64(3); cur <= limit; cur += 2 {
		idx := (cur - 3) / 2
		if sieve[idx] == 1 {
			start := (cur*cur - 3) / 2
			for j := start; j < uint64(len(sieve)); j += cur {
				sieve[j] = 0
			}
		}
	}
	estimate := float64(n) / math.Log(float64(n)) * 1.2
	out := make([]uint64, 0, int(estimate)+16)
	out = append(out, 2)
	idx := uint64(0)
	for {
		pos := bytes.IndexByte(sieve[idx:], 1)
		if pos < 0 {
			break
		}
		idx += uint64(pos)
		out = append(out, 2*idx+3)
		idx++
		if idx >= uint64(len(sieve)) {
			break
		}
	}
	return out
}

// oddPrimesOf strips 2 out of a base prime list (the segmented sieve
// below only ever crosses off odd multiples).
func oddPrimesOf(base []uint64) []uint64 {
	out := make([]uint64, 0, len(base))
	for _, p := range base {
		if p != 2 {
			out = append(out, p)
		}
	}
	return out
}

// sieveOneSegment sieves [low, high) using basePrimes (odd only,
// excluding 2) into a reusable byte buffer, returning the primes
// found. Grounded in golang-primes' sieveSegmentOddOnly.
func sieveOneSegment(low, high uint64, basePrimes []uint64, buf []byte) []uint64 {
	var out []uint64
	if low <= 2 && high > 2 {
		out = append(out, 2)
	}
	oddLow := low
	if oddLow < 3 {
		oddLow = 3
	}
	if oddLow%2 == 0 {
		oddLow++
	}
	if oddLow >= high {
		return out
	}
	segLen := (high - oddLow + 1) / 2
	if segLen == 0 {
		return out
	}
	if uint64(cap(buf)) < segLen {
		buf = make([]byte, segLen)
	} else {
		buf = buf[:segLen]
	}
	for i := range buf {
		buf[i] = 1
	}
	for _, p := range basePrimes {
		start := ((low + p - 1) / p) * p
		if start < p*p {
			start = p * p
		}
		if start%2 == 0 {
			start += p
		}
		if start >= high {
			continue
		}
		adjustedStart := (start - oddLow) / 2
		for j := adjustedStart; j < segLen; j += p {
			buf[j] = 0
		}
	}
	idx := uint64(0)
	for {
		pos := bytes.IndexByte(buf[idx:segLen], 1)
		if pos < 0 {
			break
		}
		idx += uint64(pos)
		out = append(out, oddLow+2*idx)
		idx++
		if idx >= segLen {
			break
		}
	}
	return out
}

func sieveSegmented(n uint64, segmentSize uint64) []uint64 {
	if n < 2 {
		return []uint64{0}
	}
	baseLimit := uint64(math.Sqrt(float64(n))) + 1
	base := oddPrimesOf(sieveSmall(baseLimit))
	segments := (n + segmentSize - 1) / segmentSize
	estimate := float64(n) / math.Log(float64(n)) * 1.2
	out := make([]uint64, 1, int(estimate)+16) // out[0] sentinel
	buf := make([]byte, segmentSize)
	for seg := uint64(0); seg < segments; seg++ {
		low := seg * segmentSize
		high := low + segmentSize
		if high > n+1 {
			high = n + 1
		}
		out = append(out, sieveOneSegment(low, high, base, buf)...)
	}
	return out
}

type segJob struct {
	idx  int
	low  uint64
	high uint64
}

func sieveSegmentedParallel(n, segmentSize uint64, workers int) ([]uint64, error) {
	baseLimit := uint64(math.Sqrt(float64(n))) + 1
	base := oddPrimesOf(sieveSmall(baseLimit))
	segments := int((n + segmentSize - 1) / segmentSize)

	jobs := make(chan segJob, segments)
	results := make([][]uint64, segments)

	g := new(errgroup.Group)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			buf := make([]byte, segmentSize)
			for job := range jobs {
				results[job.idx] = sieveOneSegment(job.low, job.high, base, buf)
			}
			return nil
		})
	}
	for seg := 0; seg < segments; seg++ {
		low := uint64(seg) * segmentSize
		high := low + segmentSize
		if high > n+1 {
			high = n + 1
		}
		jobs <- segJob{idx: seg, low: low, high: high}
	}
	close(jobs)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 1
	for _, r := range results {
		total += len(r)
	}
	out := make([]uint64, 1, total)
	for _, r := range results {
		out = append(out, r...)
	}
	// results are already in ascending segment order since results[i]
	// is addressed by segment index directly.
	if !sort.SliceIsSorted(out[1:], func(i, j int) bool { return out[1+i] < out[1+j] }) {
		sort.Slice(out[1:], func(i, j int) bool { return out[1+i] < out[1+j] })
	}
	return out, nil
}
