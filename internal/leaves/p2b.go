package leaves

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wharton-labs/primecount/internal/loadbalancer"
	"github.com/wharton-labs/primecount/internal/wide"
)

// P2 computes P2(x, y) = Σ_{y<p<=sqrt(x)} (PrimePi(x/p) - PrimePi(p) + 1)
// = Σ_{i=aIndex+1}^{bIndex} (PrimePi(x/p_i) - i + 1), this design's
// "Σ π(x/p[i]) − (combinatorial correction)". Work is partitioned by
// prime index across a LoadBalancerP2, each worker accumulating its
// shard's Σ PrimePi(x/p_i) independently; the shards are folded with
// internal/wide so the total stays overflow-checked past the 64-bit
// boundary (this design's "128-bit stitching" requirement), and the
// Σ(i-1) correction is subtracted once over the whole index range.
//
// This simplifies this design's description of each worker returning
// "π(n) − π(thread_low−1)" (which applies when a worker can only
// measure primes relative to its own local iterator): since piTable
// already answers PrimePi(n) in absolute terms for any n in its built
// window, every worker's local sum is already absolute and no
// per-thread pi_low_minus_1 correction is needed before folding.
func P2(ctx context.Context, x uint64, aIndex, bIndex int, primes PrimeTable, piTable PiTableLookup, threads int) (int64, error) {
	if bIndex <= aIndex {
		return 0, nil
	}
	lb := loadbalancer.NewP2(uint64(aIndex+1), uint64(bIndex+1), 4096, 1<<26, int64(bIndex-aIndex))

	type chunkResult struct {
		localSum int64
	}
	resultsCh := make(chan chunkResult, threads)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				work := lb.GetWork()
				if work.Done {
					return nil
				}
				var local int64
				for i := work.Low; i < work.High; i++ {
					p := primes.P(int(i))
					if p == 0 {
						break
					}
					local += int64(piTable.PrimePi(x / p))
				}
				resultsCh <- chunkResult{localSum: local}
			}
		})
	}
	go func() {
		_ = g.Wait()
		close(resultsCh)
	}()

	total := wide.New(0, wide.Width128)
	for r := range resultsCh {
		var err error
		total, err = total.Add(wide.New(r.localSum, wide.Width128))
		if err != nil {
			return 0, err
		}
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var indexCorrection int64
	for i := aIndex + 1; i <= bIndex; i++ {
		indexCorrection += int64(i - 1)
	}
	total, err := total.Sub(wide.New(indexCorrection, wide.Width128))
	if err != nil {
		return 0, err
	}
	return total.Int64(), nil
}

// B computes Gourdon's B(x, y) auxiliary sum, structurally identical
// to P2 but over the index range (pi(y), k] rather than (pi(y),
// pi(sqrt(x))] -- this design lists B alongside P2 as reusing the same
// primitives without specifying a distinct formula.
func B(ctx context.Context, x uint64, aIndex, kIndex int, primes PrimeTable, piTable PiTableLookup, threads int) (int64, error) {
	return P2(ctx, x, aIndex, kIndex, primes, piTable, threads)
}
