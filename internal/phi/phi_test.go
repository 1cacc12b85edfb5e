package phi

import "testing"

type sliceTable []uint64

func (s sliceTable) P(i int) uint64 {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

func TestTinyPhiMatchesBruteForce(t *testing.T) {
	tiny := NewTiny()
	for a := 0; a <= tiny.MaxA(); a++ {
		for x := uint64(0); x <= 2000; x += 37 {
			want := bruteForcePhi(x, a)
			if got := tiny.Phi(x, a); got != want {
				t.Fatalf("Phi(%d,%d) = %d, want %d", x, a, got, want)
			}
		}
	}
}

func TestPhi100A4(t *testing.T) {
	// this design concrete scenario: phi(100, 4) = 9
	primeTable := sliceTable{0, 2, 3, 5, 7, 11, 13, 17, 19, 23}
	tiny := NewTiny()
	calc := NewCalculator(tiny, primeTable)
	if got := calc.Phi(100, 4); got != 9 {
		t.Errorf("Phi(100,4) = %d, want 9", got)
	}
}

func TestCalculatorMatchesLegendreForLargeA(t *testing.T) {
	primeTable := sliceTable{0, 2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 31, 37, 41, 43, 47, 53, 59, 61, 67, 71}
	tiny := NewTiny()
	calc := NewCalculator(tiny, primeTable)
	for a := 1; a < len(primeTable); a++ {
		for _, x := range []uint64{10, 100, 1000, 5000} {
			want := Legendre(x, a, primeTable)
			if got := calc.Phi(x, a); got != want {
				t.Errorf("Phi(%d,%d) = %d, want %d", x, a, got, want)
			}
		}
	}
}

func bruteForcePhi(x uint64, a int) int64 {
	count := int64(0)
	for m := uint64(1); m <= x; m++ {
		coprime := true
		for i := 0; i < a; i++ {
			if m%tinyPrimes[i] == 0 {
				coprime = false
				break
			}
		}
		if coprime {
			count++
		}
	}
	return count
}
