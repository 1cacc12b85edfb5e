package leaves

import "github.com/wharton-labs/primecount/internal/phi"

// S1 computes the ordinary-leaf sum from this design's kernel list:
// S1(x, y) = Σ μ(m)·phi(x/m, c) over squarefree m <= y whose least
// prime factor exceeds the c-th prime. c is chosen small (the same c
// the HardLeaves engine pre-sieves), so every phi call lands in
// PhiTiny's constant-time range or close to it.
//
// Grounded directly in this design's kernel list (S1 has no prior implementation or
// pack analogue); it reuses internal/phi.Calculator rather than
// touching a sieve segment, matching this design's description of the
// driver kernels as depending "only on primes, mu, lpf, and PrimePi".
func S1(x, y uint64, c int, primes PrimeTable, mu []int8, lpf []uint64, calc *phi.Calculator) int64 {
	limit := y
	if limit >= uint64(len(mu)) {
		limit = uint64(len(mu)) - 1
	}
	pc := primes.P(c)

	var sum int64
	for m := uint64(1); m <= limit; m++ {
		if mu[m] == 0 {
			continue
		}
		if m > 1 && lpf[m] <= pc {
			continue
		}
		term := calc.Phi(x/m, c)
		if mu[m] == 1 {
			sum += term
		} else {
			sum -= term
		}
	}
	return sum
}
