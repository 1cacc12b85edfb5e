package pi

import "github.com/wharton-labs/primecount/internal/riemann"

// NthPrime returns the n-th prime (this design's nth_prime: "uses
// Riemann-R inverse as initial guess, calls pi, then adjusts by local
// sieving"), per this design's adjustment-loop supplement: guess =
// Ri_inverse(n); compute c = pi(guess); if c < n, sieve forward from
// guess counting primes until the count reaches n; if c > n, sieve
// backward. Ri_inverse is within O(sqrt(x)*log(x)) of the true answer
// (this design property 7), so the adjustment walks a bounded window.
func NthPrime(n uint64, threads int) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	guess := uint64(riemann.RiInverse(float64(n)))
	if guess < 2 {
		guess = 2
	}

	c, err := Pi(guess, threads)
	if err != nil {
		return 0, err
	}

	primesTable, err := primesUpTo(guess*2+64, threads)
	if err != nil {
		return 0, err
	}

	switch {
	case uint64(c) == n:
		// guess's own pi count already lands on n; the n-th prime is
		// the largest prime <= guess.
		it := primesTable.BackwardFrom(guess)
		if p, ok := it.Prev(); ok {
			return p, nil
		}
		return 0, nil
	case uint64(c) < n:
		need := n - uint64(c)
		it := primesTable.ForwardFrom(guess + 1)
		var last uint64
		for i := uint64(0); i < need; i++ {
			p, ok := it.Next()
			if !ok {
				return 0, errNthPrimeWindowExceeded
			}
			last = p
		}
		return last, nil
	default: // c > n
		excess := uint64(c) - n
		it := primesTable.BackwardFrom(guess)
		var last uint64
		for i := uint64(0); i <= excess; i++ {
			p, ok := it.Prev()
			if !ok {
				return 0, errNthPrimeWindowExceeded
			}
			last = p
		}
		return last, nil
	}
}
