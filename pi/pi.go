package pi

import (
	"github.com/pkg/errors"
	"github.com/wharton-labs/primecount/internal/config"
	"github.com/wharton-labs/primecount/internal/riemann"
)

// errNthPrimeWindowExceeded is raised if NthPrime's local adjustment
// sieve runs out of primes before reaching the target count -- this
// would indicate Ri_inverse's initial guess landed further from the
// truth than this design property 7 allows for, which should not happen
// within this repository's supported numeric domain.
var errNthPrimeWindowExceeded = errors.New("nth_prime: adjustment window exceeded")

// defaultConfig is the process-wide tuning object this design describes
// as "set-once at startup; reads are lock-free" -- the CLI front-end
// and the Set* functions below are its only writers.
var defaultConfig = config.New()

// SetAlpha, SetAlphaY, SetAlphaZ, SetNumThreads, SetStatusPrecision,
// SetBackupFile, SetPrint, and SetStatus expose this design's tuning
// setters (set_alpha, set_alpha_y, ...) over the shared defaultConfig.
func SetAlpha(a float64)        { defaultConfig.SetAlpha(a) }
func SetAlphaY(a float64)       { defaultConfig.SetAlphaY(a) }
func SetAlphaZ(a float64)       { defaultConfig.SetAlphaZ(a) }
func SetNumThreads(n int)       { defaultConfig.SetNumThreads(n) }
func SetStatusPrecision(p int)  { defaultConfig.SetStatusPrecision(p) }
func SetBackupFile(path string) { defaultConfig.SetBackupFile(path) }
func SetPrint(v bool)           { defaultConfig.SetPrint(v) }
func SetStatus(v bool)          { defaultConfig.SetStatus(v) }

// legendreCutoff and meisselCutoff are the magnitude thresholds Pi uses
// to pick an algorithm automatically, matching the classical trade-off
// that Legendre's phi recursion blows up for x beyond roughly 10^10
// while Meissel/Gourdon's special-leaf machinery amortizes better
// above it.
//
// legendreCutoff is deliberately far below that folklore threshold:
// PiLegendre calls Calculator.Phi directly with a = π(√x), and that
// recursion (see internal/phi) has no trivial-leaf shortcut, so its
// cost grows with the number of primes below √x, not with x itself.
// Past roughly a few thousand, π(√x) is already well beyond the range
// where the unmemoized recursion finishes in reasonable time. PiMeissel
// has no equivalent limit (it composes π(x) through piFromBundle's
// bounded decomposition instead of calling φ with a large a), so
// meisselCutoff is free to stay at the classical magnitude.
const (
	legendreCutoff = 10000
	meisselCutoff  = 1 << 36
)

// Pi computes π(x) (this design's `pi(x, threads)`), selecting Legendre
// for small x, Meissel for medium x, and the LMO special-leaf
// decomposition (by way of the HardLeaves engine this repository's core
// is built around) for large x.
func Pi(x uint64, threads int) (int64, error) {
	switch {
	case x < 2:
		return 0, nil
	case x <= legendreCutoff:
		return PiLegendre(x, threads)
	case x <= meisselCutoff:
		return PiMeissel(x, threads)
	default:
		return PiLMO(x, threads)
	}
}

// Ri, RiInverse, Li, and LiInverse re-export internal/riemann's
// approximations (this design).
func Ri(x float64) float64        { return riemann.Ri(x) }
func RiInverse(x float64) float64 { return riemann.RiInverse(x) }
func Li(x float64) float64        { return riemann.Li(x) }
func LiInverse(x float64) float64 { return riemann.LiInverse(x) }
