// Package loadbalancer implements the LoadBalancer / LoadBalancerP2
// work-distribution state this design describes: it partitions [2, z)
// across a pool of cooperative workers, growing or shrinking its
// segment geometry based on observed elapsed time per batch.
//
// No prior implementation schedules segmented work this way (the
// original segmented sieve picks one fixed segment size up front), so
// the resize rule and state machine are built directly from this
// design; the dispatcher's single-mutex "exclusive acquisition on the
// fast path" comes from this design's concurrency model.
package loadbalancer

import (
	"sync"
	"time"
)

// MinSegmentSize is the shrink floor from this design.
const MinSegmentSize = 1 << 23

// DefaultTargetLow and DefaultTargetHigh are the batch-duration
// thresholds that trigger growing or shrinking a segment.
const (
	DefaultTargetLow  = 10 * time.Second
	DefaultTargetHigh = 60 * time.Second
)

// farFromOneThreshold is how far sum/sum_approx must deviate from 1
// before a fast batch is considered worth growing into. Not specified
// exactly by this design; 10% is a conservative reading of "far from 1"
// that avoids growing forever once the estimate is being tracked
// closely.
const farFromOneThreshold = 0.10

// Work is one chunk of the domain assigned to a worker.
type Work struct {
	Low, High uint64
	Done      bool
}

// LoadBalancer hands out contiguous chunks of [2, z) and resizes its
// chunking geometry between batches per this design's resize rule.
type LoadBalancer struct {
	mu sync.Mutex

	low uint64
	z   uint64

	segments    int
	segmentSize uint64
	maxSize     uint64

	sumApprox int64
	sum       int64

	targetLow  time.Duration
	targetHigh time.Duration
}

// New builds a LoadBalancer over [low, z). initialSegmentSize is
// rounded up to a multiple of 128 and floored at MinSegmentSize;
// maxSize bounds segment_size growth. sumApprox is the externally
// supplied estimate of the final partial sum, used by the resize
// rule's "far from 1" grow trigger.
func New(low, z uint64, initialSegments int, initialSegmentSize, maxSize uint64, sumApprox int64) *LoadBalancer {
	if initialSegments < 1 {
		initialSegments = 1
	}
	size := roundUp128(initialSegmentSize)
	if size < MinSegmentSize {
		size = MinSegmentSize
	}
	if size > maxSize {
		size = maxSize
	}
	return &LoadBalancer{
		low:         low,
		z:           z,
		segments:    initialSegments,
		segmentSize: size,
		maxSize:     maxSize,
		sumApprox:   sumApprox,
		targetLow:   DefaultTargetLow,
		targetHigh:  DefaultTargetHigh,
	}
}

func roundUp128(n uint64) uint64 {
	return ((n + 127) / 128) * 128
}

// GetWork returns the next chunk, advancing the cursor. Once low >= z
// it returns the terminal sentinel {Done: true} on every subsequent
// call.
func (lb *LoadBalancer) GetWork() Work {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.low >= lb.z {
		return Work{Done: true}
	}
	chunk := lb.segmentSize * uint64(lb.segments)
	high := lb.low + chunk
	if high > lb.z || high < lb.low /* overflow guard */ {
		high = lb.z
	}
	w := Work{Low: lb.low, High: high}
	lb.low = high
	return w
}

// Report applies this design's resize rule given one batch's elapsed
// wall time and its contribution to the running partial sum.
func (lb *LoadBalancer) Report(elapsed time.Duration, sumContribution int64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	lb.sum += sumContribution

	switch {
	case elapsed < lb.targetLow && lb.farFromApprox():
		lb.grow()
	case elapsed > lb.targetHigh:
		lb.shrink()
	}
}

func (lb *LoadBalancer) farFromApprox() bool {
	if lb.sumApprox == 0 {
		return lb.sum != 0
	}
	ratio := float64(lb.sum) / float64(lb.sumApprox)
	diff := ratio - 1
	if diff < 0 {
		diff = -diff
	}
	return diff > farFromOneThreshold
}

func (lb *LoadBalancer) grow() {
	for lb.segmentSize*uint64(lb.segments*2) <= lb.maxSize {
		lb.segments *= 2
	}
	doubled := roundUp128(lb.segmentSize * 2)
	if doubled <= lb.maxSize {
		lb.segmentSize = doubled
	}
}

func (lb *LoadBalancer) shrink() {
	if lb.segments > 1 {
		lb.segments /= 2
	}
	halved := lb.segmentSize / 2
	halved = roundUp128(halved)
	if halved < MinSegmentSize {
		halved = MinSegmentSize
	}
	lb.segmentSize = halved
}

// Low, SegmentSize, Segments, and Done expose current geometry for
// diagnostics and for the LoadBalancer monotonicity property test
// (this design, property 9).
func (lb *LoadBalancer) Low() uint64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.low
}

func (lb *LoadBalancer) SegmentSize() uint64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.segmentSize
}

func (lb *LoadBalancer) Segments() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.segments
}

func (lb *LoadBalancer) Done() bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.low >= lb.z
}

// P2 is the LoadBalancerP2 variant from this design: the same
// grow/shrink rule applied to the thread_dist chunking used by the P2
// and B driver kernels. It embeds LoadBalancer directly since this design
// §4.5 states "thread_dist grows/shrinks on the same rules as
// LoadBalancer" without introducing any new state.
type P2 struct {
	*LoadBalancer
}

// NewP2 builds a LoadBalancerP2 over [low, z) with the given initial
// thread_dist (folded into segmentSize with segments fixed at 1, since
// P2/B chunk by a single distance rather than segments*segment_size).
func NewP2(low, z, initialThreadDist, maxSize uint64, sumApprox int64) *P2 {
	return &P2{LoadBalancer: New(low, z, 1, initialThreadDist, maxSize, sumApprox)}
}
