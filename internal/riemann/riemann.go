// Package riemann implements the logarithmic-integral and Riemann-R
// approximations to π(x) (this design's Li/Li_inverse/Ri/Ri_inverse
// entry points), used as the nth_prime initial-guess oracle and as
// standalone CLI outputs.
//
// No prior implementation computes special-function approximations,
// so Li's series and Ri's Mobius-weighted sum over Li are taken
// directly from the standard references (Ramanujan's series for Li,
// and Ri(x) = Σ mu(n)/n * Li(x^(1/n))) that the glossary assumes
// familiarity with. math/big.Float is used instead of
// float64 for the accumulation since Li(10^14) needs more significant
// digits than float64's ~15-17 reliably offers -- the same
// precision-over-raw-speed tradeoff internal/wide already makes for
// wide integers.
package riemann

import (
	"math"
	"math/big"
)

// precisionBits is the big.Float mantissa width used throughout this
// package; 192 bits (~57 decimal digits) comfortably covers the ~14
// significant digits this design's concrete Ri(10^14) scenario needs plus
// headroom for series-summation rounding.
const precisionBits = 192

func newFloat(v float64) *big.Float {
	return new(big.Float).SetPrec(precisionBits).SetFloat64(v)
}

// eulerMascheroni is gamma, used by Ramanujan's Li series.
var eulerMascheroni = mustParseFloat("0.5772156649015328606065120900824024310421593359399235988057672")

func mustParseFloat(s string) *big.Float {
	f, _, err := big.ParseFloat(s, 10, precisionBits, big.ToNearestEven)
	if err != nil {
		panic(err)
	}
	return f
}

// Li returns the logarithmic integral li(x) via Ramanujan's series:
//
//	li(x) = gamma + ln(ln x) + sqrt(x) * Σ_{n=1}^∞ (-1)^(n-1) (ln x)^n / (n! 2^(n-1)) * Σ_{k=0}^{floor((n-1)/2)} 1/(2k+1)
//
// for x > 1. Summation runs until a term no longer changes the
// accumulated value at the configured precision.
func Li(x float64) float64 {
	if x <= 1 {
		return 0
	}
	lnx := newFloat(math.Log(x))
	result := new(big.Float).SetPrec(precisionBits)
	result.Add(eulerMascheroni, bigLog(bigLog(newFloat(x))))

	sqrtX := new(big.Float).SetPrec(precisionBits).Sqrt(newFloat(x))

	term := new(big.Float).SetPrec(precisionBits).SetInt64(1) // (ln x)^n / (n! * 2^(n-1)), built incrementally
	oddSum := new(big.Float).SetPrec(precisionBits)           // Σ 1/(2k+1)
	sign := 1.0

	const maxTerms = 10000
	factorial := new(big.Float).SetPrec(precisionBits).SetInt64(1)
	power := new(big.Float).SetPrec(precisionBits).SetInt64(1)
	twoPow := new(big.Float).SetPrec(precisionBits).SetInt64(1)

	for n := 1; n <= maxTerms; n++ {
		power.Mul(power, lnx)
		factorial.Mul(factorial, new(big.Float).SetPrec(precisionBits).SetInt64(int64(n)))
		if n > 1 {
			twoPow.Mul(twoPow, newFloat(2))
		}
		term.Quo(power, factorial)
		term.Quo(term, twoPow)

		if n%2 == 1 { // the inner sum gains its k = (n-1)/2 term only on odd n
			k := (n - 1) / 2
			oddSum.Add(oddSum, new(big.Float).SetPrec(precisionBits).Quo(newFloat(1), newFloat(float64(2*k+1))))
		}

		contribution := new(big.Float).SetPrec(precisionBits).Mul(term, oddSum)
		contribution.Mul(contribution, sqrtX)
		if sign < 0 {
			contribution.Neg(contribution)
		}
		result.Add(result, contribution)

		if isNegligible(contribution, result) {
			break
		}
		sign = -sign
	}

	f, _ := result.Float64()
	return f
}

func isNegligible(term, total *big.Float) bool {
	if term.Sign() == 0 {
		return true
	}
	ratio := new(big.Float).SetPrec(precisionBits)
	absTerm := new(big.Float).SetPrec(precisionBits).Abs(term)
	absTotal := new(big.Float).SetPrec(precisionBits).Abs(total)
	if absTotal.Sign() == 0 {
		return false
	}
	ratio.Quo(absTerm, absTotal)
	threshold := mustParseFloat("1e-40")
	return ratio.Cmp(threshold) < 0
}

func bigLog(x *big.Float) *big.Float {
	f, _ := x.Float64()
	return newFloat(math.Log(f))
}

// mobiusSmall computes mu(n) by trial division for the small n values
// Ri's series needs (n grows only until x^(1/n) < 2, so n stays under
// ~64 even for x near 2^63).
func mobiusSmall(n int) int {
	if n == 1 {
		return 1
	}
	m := n
	primeFactors := 0
	for d := 2; d*d <= m; d++ {
		if m%d == 0 {
			count := 0
			for m%d == 0 {
				m /= d
				count++
			}
			if count > 1 {
				return 0
			}
			primeFactors++
		}
	}
	if m > 1 {
		primeFactors++
	}
	if primeFactors%2 == 0 {
		return 1
	}
	return -1
}

// Ri returns Riemann's R function, Ri(x) = Σ_{n=1}^∞ mu(n)/n * li(x^(1/n)),
// summed until x^(1/n) < 2 (li of anything below 2 contributes
// negligibly and mu-weighted terms for large n are vanishingly small
// besides).
func Ri(x float64) float64 {
	if x < 2 {
		return 0
	}
	var sum float64
	for n := 1; n < 64; n++ {
		root := math.Pow(x, 1/float64(n))
		if root < 2 {
			break
		}
		mu := mobiusSmall(n)
		if mu == 0 {
			continue
		}
		sum += float64(mu) / float64(n) * Li(root)
	}
	return sum
}

// newtonInvert inverts a monotone increasing f (with known derivative
// fprime) via Newton's method starting from guess, used by both
// Li_inverse and Ri_inverse.
func newtonInvert(f, fprime func(float64) float64, target, guess float64) float64 {
	x := guess
	for i := 0; i < 100; i++ {
		fx := f(x) - target
		d := fprime(x)
		if d == 0 {
			break
		}
		next := x - fx/d
		if math.Abs(next-x) < 1e-6*x {
			return next
		}
		x = next
	}
	return x
}

// LiInverse returns the x such that Li(x) == target, per this design's
// property 7 (stated there for Ri_inverse; the same Newton iteration
// serves Li since li'(x) = 1/ln(x) for both).
func LiInverse(target float64) float64 {
	guess := target * math.Log(target)
	if guess < 2 {
		guess = 2
	}
	return newtonInvert(Li, func(x float64) float64 { return 1 / math.Log(x) }, target, guess)
}

// RiInverse returns the x such that Ri(x) == target. Ri'(x) ~= 1/ln(x)
// to leading order (the derivative of the dominant li(x) term), the
// same approximation primecount's own Ri_inverse uses for the Newton
// step.
func RiInverse(target float64) float64 {
	guess := target * math.Log(target)
	if guess < 2 {
		guess = 2
	}
	return newtonInvert(Ri, func(x float64) float64 { return 1 / math.Log(x) }, target, guess)
}
