// Package pitable implements the compressed PrimePi lookup
// (this design/§4.1): a sequence of 128-bit buckets, each holding a
// 64-bit prefix count and a 64-bit bitmap over 128 consecutive
// integers (64 odd positions), built in two parallel passes over a
// window that can slide forward.
//
// Grounded on the original segmented-sieve buffer-reuse pattern
// (the original segmented sieve) for the sliding-window
// shape, generalized to a two-pass parallel build per this design
// since the original sieve is single-pass and sequential.
package pitable

import (
	"context"
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// bucket covers 128 consecutive integers: 64 odd positions packed one
// bit per position, plus the prefix prime count below the bucket's
// base.
type bucket struct {
	primeCount uint64
	bits       uint64
}

// ErrWindowTooLarge is returned when a PiTable build is asked for a
// max_high beyond what a 64-bit accumulator can safely index
// (this design, "fails with NumericOverflow before entering").
var ErrWindowTooLarge = errors.New("pitable: max_high exceeds 2^63")

const maxHigh = uint64(1) << 63

// PrimeIterator is the minimal external collaborator a PiTable build
// needs: a forward stream of primes starting from some point, used by
// the bit pass to mark bucket bits.
type PrimeIterator interface {
	// Next returns the next prime >= the iterator's current position,
	// or ok=false once exhausted.
	Next() (uint64, bool)
}

// Table is a PiTable over the half-open window [low, high).
type Table struct {
	low     uint64
	high    uint64
	base    uint64 // first odd integer >= low; bit 0 of bucket 0 represents base
	maxHigh uint64
	segSize uint64
	workers int

	buckets []bucket
	piLow   uint64 // PrimePi(low - 1), the running offset for next()

	newIterator func(from uint64) PrimeIterator
}

// minSegmentSize is this design's floor: "clamped to >= 256 KiB * 8".
const minSegmentSize = 256 * 1024 * 8

// roundUp128 rounds n up to the next multiple of 128.
func roundUp128(n uint64) uint64 {
	return ((n + 127) / 128) * 128
}

// New builds the first window [low, low+segmentSize) of a PiTable
// that will never need to represent integers >= maxHighBound.
// newIterator must return a fresh PrimeIterator positioned at "from"
// each time it is called (the bit pass calls it once per worker
// shard).
func New(low, maxHighBound, segmentSize uint64, workers int, newIterator func(from uint64) PrimeIterator) (*Table, error) {
	if maxHighBound > maxHigh {
		return nil, errors.Wrapf(ErrWindowTooLarge, "max_high=%d", maxHighBound)
	}
	if segmentSize < minSegmentSize {
		segmentSize = minSegmentSize
	}
	segmentSize = roundUp128(segmentSize)
	if workers < 1 {
		workers = 1
	}
	t := &Table{
		low:         low,
		maxHigh:     maxHighBound,
		segSize:     segmentSize,
		workers:     workers,
		newIterator: newIterator,
		piLow:       0,
	}
	if err := t.build(); err != nil {
		return nil, err
	}
	return t, nil
}

// build performs the two-pass construction of the current window
// [t.low, t.high) per this design.
func (t *Table) build() error {
	high := t.low + t.segSize
	if high > t.maxHigh {
		high = t.maxHigh
	}
	t.high = high
	if t.low%2 == 1 {
		t.base = t.low
	} else {
		t.base = t.low + 1
	}
	if t.base >= high {
		t.buckets = nil
		return nil
	}

	oddCount := (high-1-t.base)/2 + 1
	numBuckets := (oddCount + 63) / 64
	t.buckets = make([]bucket, numBuckets)

	shardSize := (numBuckets + uint64(t.workers) - 1) / uint64(t.workers)
	if shardSize == 0 {
		shardSize = 1
	}

	type shard struct {
		startBucket, endBucket uint64 // [startBucket, endBucket)
	}
	var shards []shard
	for s := uint64(0); s < numBuckets; s += shardSize {
		e := s + shardSize
		if e > numBuckets {
			e = numBuckets
		}
		shards = append(shards, shard{s, e})
	}

	counts := make([]uint64, len(shards))

	// Pass 1: bit pass. Each worker sieves primes over its shard's
	// integer range and sets bucket bits; local prime counts are
	// stashed independently (no shared mutation).
	g, _ := errgroup.WithContext(context.Background())
	for i, sh := range shards {
		i, sh := i, sh
		g.Go(func() error {
			shardLow := t.base + 2*(sh.startBucket*64)
			if sh.startBucket == 0 {
				shardLow = t.low // so a window starting at or below 2 counts 2
			}
			shardHigh := t.base + 2*(sh.endBucket*64)
			if shardHigh > high {
				shardHigh = high
			}
			it := t.newIterator(shardLow)
			var localCount uint64
			for {
				p, ok := it.Next()
				if !ok || p >= shardHigh {
					break
				}
				if p < shardLow {
					continue
				}
				t.setBit(p)
				localCount++
			}
			counts[i] = localCount
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Barrier implicit in errgroup.Wait(); now the prefix pass.
	base := t.piLow
	for i, sh := range shards {
		// primes counted without a bit of their own (only 2) are credited
		// to the shard's first bucket; each later bucket adds the bits of
		// the buckets before it.
		running := base + counts[i]
		for b := sh.startBucket; b < sh.endBucket; b++ {
			running -= uint64(bits.OnesCount64(t.buckets[b].bits))
		}
		for b := sh.startBucket; b < sh.endBucket; b++ {
			t.buckets[b].primeCount = running
			running += uint64(bits.OnesCount64(t.buckets[b].bits))
		}
		base += counts[i]
	}
	// the running total becomes the offset for the window's successor
	t.piLow = base
	return nil
}

func (t *Table) setBit(n uint64) {
	if n < t.base || n >= t.high || n%2 == 0 {
		return
	}
	idx := (n - t.base) / 2
	bk := idx / 64
	bit := idx % 64
	t.buckets[bk].bits |= uint64(1) << bit
}

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

// PrimePi returns the number of primes <= n, for n within the current
// window [low, high). Callers outside the window must call Next()
// until the window covers n.
func (t *Table) PrimePi(n uint64) uint64 {
	if n < 2 {
		return 0
	}
	if n == 2 {
		return 1
	}
	if n%2 == 0 {
		n--
	}
	if n < t.base || n >= t.high {
		return 0
	}
	idx := (n - t.base) / 2
	bk := idx / 64
	bit := uint(idx % 64)
	mask := lowMask(bit + 1)
	b := t.buckets[bk]
	return b.primeCount + uint64(bits.OnesCount64(b.bits&mask))
}

// Next slides the window forward by segSize (capped at maxHigh) and
// rebuilds it, carrying the running prime count forward as the new
// window's base.
func (t *Table) Next() error {
	if t.high >= t.maxHigh {
		t.low = t.high
		t.buckets = nil
		return nil
	}
	t.low = t.high
	return t.build()
}

// Low and High report the current window bounds.
func (t *Table) Low() uint64  { return t.low }
func (t *Table) High() uint64 { return t.high }

// Done reports whether the window has reached maxHigh and there is no
// more data to slide into.
func (t *Table) Done() bool { return t.low >= t.maxHigh }
