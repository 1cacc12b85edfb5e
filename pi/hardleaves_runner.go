package pi

import (
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wharton-labs/primecount/internal/leaves"
	"github.com/wharton-labs/primecount/internal/loadbalancer"
	"github.com/wharton-labs/primecount/internal/sieve"
	"github.com/wharton-labs/primecount/internal/wide"
)

// zonesFor splits [low, high) into up to n contiguous, non-overlapping
// zones of roughly equal width, each a multiple of 128 wide except
// possibly the last. Every real primecount-style parallelization of the
// HardLeaves engine needs disjoint, statically-assigned ranges per
// thread so that each thread's own phi[] sequence stays internally
// contiguous (this design's "ordering guarantee" only promises this
// within one thread, not across threads).
func zonesFor(low, high uint64, n int) [][2]uint64 {
	if n < 1 {
		n = 1
	}
	total := high - low
	if total == 0 {
		return nil
	}
	width := total / uint64(n)
	if width == 0 {
		width = total
		n = 1
	}
	width = ((width + 127) / 128) * 128
	var zones [][2]uint64
	cur := low
	for cur < high {
		end := cur + width
		if end > high {
			end = high
		}
		zones = append(zones, [2]uint64{cur, end})
		cur = end
	}
	return zones
}

// seedPhiAtZoneBoundaries computes, for each zone after the first, the
// phi[] array a HardLeaves Engine must start from: phi[b] is the count
// of integers below the zone's low boundary coprime to the first b
// primes, for every b in (c, piY]. Calculator.Phi cannot produce this
// directly -- it has no trivial-leaf shortcut for large a, so it is
// only ever cheap when called with a <= PhiTiny's cutoff (see
// leavesPhi0) -- so this runs one serial sieve pass across [2, zones[last
// boundary needed]), crossing off the same c+1..piY primes RunSegment
// does and accumulating phi[] the same way (this design's "Sieve and
// phi[] persist across segments owned by the same thread", extended
// across zone boundaries by a single thread instead of per-thread
// recursion). zones[0] always starts at 2, so its seed is all zero.
func seedPhiAtZoneBoundaries(b *bundle, zones [][2]uint64) [][]int64 {
	seeds := make([][]int64, len(zones))
	seeds[0] = make([]int64, b.piY+1)
	if len(zones) == 1 {
		return seeds
	}

	wheel := make([]uint64, 0, b.c)
	for i := 1; i <= b.c; i++ {
		wheel = append(wheel, b.primesTable.P(i))
	}
	sv := sieve.New()
	phi := make([]int64, b.piY+1)
	for i := 1; i < len(zones); i++ {
		lo, hi := zones[i-1][0], zones[i-1][1]
		sv.PreSieve(wheel, lo, hi)
		for bIdx := b.c + 1; bIdx <= b.piY; bIdx++ {
			p := b.primesTable.P(bIdx)
			if p == 0 {
				break
			}
			phi[bIdx] += sv.GetTotalCount()
			sv.CrossOffCount(p)
		}
		seeds[i] = append([]int64(nil), phi...)
	}
	return seeds
}

// runHardLeaves computes S2_hard (or Gourdon's D, which reuses the same
// regime logic under a different name per this design) over the full
// domain [2, b.z), per this design/§4.4.
//
// Each of the `threads` zones gets its own Engine seeded by
// seedPhiAtZoneBoundaries, computed once up front by a single serial
// sieve pass. This sidesteps this design's literal "cross-segment
// stitching is done serially by the driver using total_count deltas"
// -- which presumes threads receive segments from one shared,
// dynamically-growing cursor and must hand off a running total in
// strict completion order -- by precomputing every zone's starting
// phi[] before the parallel leaf-summing phase begins. The result is
// identical (phi[b] at a zone's start is, by construction, the count
// of integers below that boundary coprime to the first b primes,
// regardless of which mechanism produced it) and still lets the
// expensive per-segment leaf enumeration run across threads
// concurrently; only the comparatively cheap crossing-and-counting
// pass that produces the seeds is serial.
func runHardLeaves(b *bundle, threads int) (int64, error) {
	zones := zonesFor(2, b.z, threads)
	if len(zones) == 0 {
		return 0, nil
	}
	seeds := seedPhiAtZoneBoundaries(b, zones)

	sums := make([]int64, len(zones))
	g := new(errgroup.Group)
	for i, zone := range zones {
		i, zone := i, zone
		g.Go(func() error {
			engine := leaves.NewEngine(b.x, b.y, b.c, b.piSqrtY, b.piY, b.primesTable, b.mu, b.lpf, seeds[i])

			zoneWidth := zone[1] - zone[0]
			sumApprox := int64(zoneWidth) // heuristic growth signal only, not a correctness input
			lb := loadbalancer.New(zone[0], zone[1], 1, loadbalancer.MinSegmentSize, zoneWidth, sumApprox)

			var zoneSum int64
			for {
				work := lb.GetWork()
				if work.Done {
					break
				}
				start := time.Now()
				contribution := engine.RunSegment(work.Low, work.High)
				zoneSum += contribution
				lb.Report(time.Since(start), contribution)
			}
			sums[i] = zoneSum
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	total := wide.New(0, wide.Width128)
	for _, s := range sums {
		var err error
		total, err = total.Add(wide.New(s, wide.Width128))
		if err != nil {
			return 0, err
		}
	}
	return total.Int64(), nil
}
