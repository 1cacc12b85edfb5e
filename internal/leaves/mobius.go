// Package leaves implements the HardLeaves engine (S2_hard / Gourdon
// D, this design) and the driver kernels that depend only on primes,
// mu, lpf, and PrimePi (S1, S2_trivial, S2_easy, P2, B, AC, Phi0,
// this design).
//
// No example repo computes combinatorial special leaves, so this
// package's algorithms are grounded directly in this design; its
// concurrency shape (errgroup worker pools consuming a LoadBalancer)
// follows the same pattern established in internal/primes and
// internal/pitable, themselves grounded in the original segmented
// worker loop.
package leaves

// LinearSieve computes the Mobius function mu[1..n] and the
// least-prime-factor lpf[1..n] arrays in O(n) using the standard
// linear-sieve algorithm (every composite is crossed off exactly once,
// by its least prime factor). mu[0] and lpf[0] are unused sentinels.
//
// Grounded on this design's data model ("mu[1..n], lpf[1..n]: parallel
// arrays... invariant mu[m] in {-1,0,1}; lpf[m] is the smallest prime
// dividing m"); the linear-sieve technique itself is standard number
// theory, not sourced from any pack example.
func LinearSieve(n uint64) (mu []int8, lpf []uint64, primes []uint64) {
	mu = make([]int8, n+1)
	lpf = make([]uint64, n+1)
	if n < 1 {
		return mu, lpf, primes
	}
	mu[1] = 1

	for i := uint64(2); i <= n; i++ {
		if lpf[i] == 0 {
			lpf[i] = i
			mu[i] = -1
			primes = append(primes, i)
		}
		for _, p := range primes {
			if p > lpf[i] || i*p > n {
				break
			}
			lpf[i*p] = p
			if p == lpf[i] {
				mu[i*p] = 0
			} else {
				mu[i*p] = -mu[i]
			}
		}
	}
	return mu, lpf, primes
}
