package primes

import "testing"

func TestBuildSmall(t *testing.T) {
	tbl := Build(30)
	want := []uint64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29}
	if tbl.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), len(want))
	}
	for i, p := range want {
		if got := tbl.P(i + 1); got != p {
			t.Errorf("P(%d) = %d, want %d", i+1, got, p)
		}
	}
	if tbl.P(0) != 0 {
		t.Errorf("P(0) sentinel = %d, want 0", tbl.P(0))
	}
}

func TestBuildMatchesBruteForce(t *testing.T) {
	const n = 100000
	tbl := Build(n)
	expected := bruteForcePrimes(n)
	if tbl.Len() != len(expected) {
		t.Fatalf("Len() = %d, want %d", tbl.Len(), len(expected))
	}
	for i, p := range expected {
		if got := tbl.P(i + 1); got != p {
			t.Fatalf("P(%d) = %d, want %d", i+1, got, p)
		}
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	const n = 2_000_000
	seq := Build(n)
	par, err := BuildParallel(n, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.Len() != par.Len() {
		t.Fatalf("Len() sequential=%d parallel=%d", seq.Len(), par.Len())
	}
	for i := 1; i <= seq.Len(); i++ {
		if seq.P(i) != par.P(i) {
			t.Fatalf("P(%d) sequential=%d parallel=%d", i, seq.P(i), par.P(i))
		}
	}
}

func TestIndexLEAndCountLE(t *testing.T) {
	tbl := Build(100)
	cases := []struct {
		n    uint64
		want int
	}{
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{97, 25},
		{100, 25},
	}
	for _, c := range cases {
		if got := tbl.CountLE(c.n); got != c.want {
			t.Errorf("CountLE(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestForwardIterator(t *testing.T) {
	tbl := Build(100)
	it := tbl.ForwardFrom(10)
	var got []uint64
	for {
		p, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, p)
		if len(got) == 3 {
			break
		}
	}
	want := []uint64{11, 13, 17}
	for i, p := range want {
		if got[i] != p {
			t.Errorf("got[%d] = %d, want %d", i, got[i], p)
		}
	}
}

func TestForwardIteratorExactMatch(t *testing.T) {
	tbl := Build(100)
	it := tbl.ForwardFrom(11)
	p, ok := it.Next()
	if !ok || p != 11 {
		t.Errorf("Next() = %d,%v want 11,true", p, ok)
	}
}

func TestBackwardIterator(t *testing.T) {
	tbl := Build(100)
	it := tbl.BackwardFrom(20)
	var got []uint64
	for {
		p, ok := it.Prev()
		if !ok {
			break
		}
		got = append(got, p)
		if len(got) == 3 {
			break
		}
	}
	want := []uint64{19, 17, 13}
	for i, p := range want {
		if got[i] != p {
			t.Errorf("got[%d] = %d, want %d", i, got[i], p)
		}
	}
}

func bruteForcePrimes(n int) []uint64 {
	sieve := make([]bool, n+1)
	for i := range sieve {
		sieve[i] = true
	}
	sieve[0], sieve[1] = false, false
	for i := 2; i*i <= n; i++ {
		if sieve[i] {
			for j := i * i; j <= n; j += i {
				sieve[j] = false
			}
		}
	}
	var out []uint64
	for i := 2; i <= n; i++ {
		if sieve[i] {
			out = append(out, uint64(i))
		}
	}
	return out
}
