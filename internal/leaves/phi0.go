package leaves

import "github.com/wharton-labs/primecount/internal/phi"

// Phi0 computes Gourdon's Φ0 correction term: the trivial part of the
// phi sum that accounts for 1 and the first a primes explicitly,
// Φ0(x, a) = phi(x, a) + a - 1. Exposed as its own kernel (this design
// lists --Phi0 as a CLI flag) even though it is a one-line wrapper
// around internal/phi.Calculator, matching this design's description of
// these driver kernels as "close-form... pieces".
func Phi0(x uint64, a int, calc *phi.Calculator) int64 {
	return calc.Phi(x, a) + int64(a) - 1
}
