package wide

import (
	"math/big"
	"testing"
)

func TestAddWithinRange(t *testing.T) {
	a := New(10, Width64)
	b := New(20, Width64)
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Int64() != 30 {
		t.Errorf("Add() = %d, want 30", sum.Int64())
	}
}

func TestMulOverflow64(t *testing.T) {
	a := New(1<<62, Width64)
	b := New(4, Width64)
	if _, err := a.Mul(b); err == nil {
		t.Fatal("expected overflow error, got nil")
	}
}

func TestMulWithin128(t *testing.T) {
	a := New(1<<62, Width128)
	b := New(4, Width128)
	got, err := a.Mul(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := new(big.Int).Mul(big.NewInt(1<<62), big.NewInt(4))
	if got.Big().Cmp(want) != 0 {
		t.Errorf("Mul() = %s, want %s", got.String(), want.String())
	}
}

func TestWidthFor(t *testing.T) {
	if WidthFor(1_000_000_000) != Width64 {
		t.Error("WidthFor(1e9) should be Width64")
	}
	if WidthFor(2_000_000_000_000_000_000) != Width128 {
		t.Error("WidthFor(2e18) should be Width128")
	}
}

func TestCheckU64RangeRejectsHugeValues(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	if err := CheckU64Range(huge); err == nil {
		t.Fatal("expected error for value exceeding 128-bit domain")
	}
}

func TestCheckU64RangeRejectsNegative(t *testing.T) {
	if err := CheckU64Range(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative value")
	}
}

func TestCheckSupportedDomainRejectsPastBoundary(t *testing.T) {
	ok := new(big.Int).SetUint64(MaxSupportedX)
	if err := CheckSupportedDomain(ok); err != nil {
		t.Errorf("CheckSupportedDomain(%s) = %v, want nil", ok, err)
	}

	tooBig := new(big.Int).Add(ok, big.NewInt(1))
	if err := CheckSupportedDomain(tooBig); err == nil {
		t.Fatalf("CheckSupportedDomain(%s) = nil, want overflow error", tooBig)
	}

	// This is within the 128-bit domain CheckU64Range admits, but past
	// the uint64 leaf-arithmetic hot path's safe range -- it must still
	// be rejected.
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	if err := CheckU64Range(huge); err != nil {
		t.Fatalf("CheckU64Range(2^100) = %v, want nil (within 128-bit domain)", err)
	}
	if err := CheckSupportedDomain(huge); err == nil {
		t.Fatal("CheckSupportedDomain(2^100) = nil, want overflow error")
	}
}

func TestCheckSupportedDomainRejectsNegative(t *testing.T) {
	if err := CheckSupportedDomain(big.NewInt(-1)); err == nil {
		t.Fatal("expected error for negative value")
	}
}
