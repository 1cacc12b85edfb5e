package leaves

import "github.com/wharton-labs/primecount/internal/pitable"

// PiTableLookup is the minimal view the S2_easy/S2_trivial kernels
// need of internal/pitable.Table.
type PiTableLookup interface {
	PrimePi(n uint64) uint64
}

var _ PiTableLookup = (*pitable.Table)(nil)

// S2Trivial handles the sub-range of the two-prime-leaf shape (this design
// §4.3's "special leaf" characterization with m = p[l] prime) where
// the quotient n = x/(p·p[l]) is smaller than the next sieving prime,
// so phi(n, b) is trivially 1 and no PrimePi lookup or sieve count is
// needed at all.
func S2Trivial(x, y uint64, piSqrtY, piY int, primes PrimeTable) int64 {
	var sum int64
	for b := piSqrtY + 1; b <= piY; b++ {
		p := primes.P(b)
		if p == 0 {
			break
		}
		for l := b + 1; l <= piY; l++ {
			pl := primes.P(l)
			if pl == 0 || p*pl > x {
				break
			}
			n := x / (p * pl)
			if n >= p {
				break // no longer trivial; S2Easy or S2_hard owns this leaf
			}
			sum += 1 // phi(n,b) == 1 when n < p[b+1]
		}
	}
	_ = y
	return sum
}

// S2Easy handles two-prime leaves (this design's two-prime-leaf
// regime) whose quotient n = x/(p·p[l]) is large enough that
// phi(n,b) == PrimePi(n) - b + 1 holds exactly (every integer in
// (p[b], n] coprime to the first b primes is either 1 or itself a
// prime > p[b]), so a PiTable lookup replaces a sieve count.
func S2Easy(x, y uint64, piSqrtY, piY int, primes PrimeTable, piTable PiTableLookup) int64 {
	var sum int64
	for b := piSqrtY + 1; b <= piY; b++ {
		p := primes.P(b)
		if p == 0 {
			break
		}
		upper := x / (p * p)
		if upper > y {
			upper = y
		}
		l := b + 1
		for {
			pl := primes.P(l)
			if pl == 0 || pl > upper {
				break
			}
			n := x / (p * pl)
			if n < pl {
				break
			}
			sum += int64(piTable.PrimePi(n)) - int64(b) + 1
			l++
		}
	}
	return sum
}
