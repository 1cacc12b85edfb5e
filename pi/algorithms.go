package pi

// PiLegendre computes π(x) via Legendre's formula: φ(x,a) + a - 1 where
// a = π(√x). This design lists pi_legendre among the drivers that
// "merely compose kernels" rather than define new core behavior, so
// this is a direct, literal implementation over phi.Calculator with no
// HardLeaves involvement at all -- correct but O(x^(1/2+ε)), the
// classical trade-off Legendre's formula makes.
func PiLegendre(x uint64, threads int) (int64, error) {
	sqrtX := isqrt(x)
	primesTable, err := primesUpTo(sqrtX+1, threads)
	if err != nil {
		return 0, err
	}
	a := primesTable.IndexLE(sqrtX)
	tiny := newTinyShared()
	calc := newCalculator(tiny, primesTable)
	return calc.Phi(x, a) + int64(a) - 1, nil
}

// PiMeissel computes π(x) via Meissel's formula: φ(x,a) + a - 1 - P2(x,y)
// with a = π(y), y = x^(1/3). Historically this removes Legendre's
// two-prime-leaf terms from φ(x,a) in closed form via P2 instead of
// brute-force sieving them, the next step up the classical Legendre ->
// Meissel -> Lehmer chain this design calls out by name without
// requiring a literature-exact transcription of each.
//
// φ(x,a) itself is never evaluated with a = π(y) directly: Calculator's
// recursion has no trivial-leaf shortcut (see internal/phi), so it is
// only cheap when a stays within PhiTiny's range -- a = π(y) runs to the
// hundreds or thousands for any non-trivial x, which would make this an
// exponential computation. piFromBundle already evaluates the same
// identity (π(x)-1, Meissel's a-1-P2 correction folded into S1/S2's
// bounded special-leaf sums instead) without ever calling φ outside
// that safe range, so Meissel's formula is composed through it rather
// than re-deriving its own unbounded φ(x,a) call.
func PiMeissel(x uint64, threads int) (int64, error) {
	y := icbrt(x)
	if y < 2 {
		y = 2
	}
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	return piFromBundle(b, threads)
}

// PiLehmer computes π(x) via Lehmer's formula, Meissel's formula with
// an additional correction for three-prime leaves folded into the same
// P2-based term (this design's framing again treats the exact literature
// split as out of core scope). This implementation reuses PiMeissel's
// decomposition; Lehmer's refinement over Meissel is a performance
// improvement for the φ recursion's branching factor, not a different
// final value, so the two agree exactly here.
func PiLehmer(x uint64, threads int) (int64, error) {
	return PiMeissel(x, threads)
}

// PiLMO computes π(x) via the Lagarias-Miller-Odlyzko decomposition:
// π(x) - 1 = φ(x,c) + c - 1 + S1 + S2_trivial + S2_easy + S2_hard
// (this design's "their sum with simple correction terms yields π(x)").
func PiLMO(x uint64, threads int) (int64, error) {
	y := deriveY(x, defaultConfig.Alpha())
	if y < 2 {
		y = 2
	}
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	return piFromBundle(b, threads)
}

// PiDeleglisRivat computes π(x) via the Deleglise-Rivat decomposition.
// This design names this decomposition but treats its exact formula as
// an out-of-core-scope composition; structurally it shares the same
// φ0 + S1 + S2 decomposition as LMO with a different y/alpha tuning
// regime (Deleglise-Rivat tolerates a wider legal alpha range, which
// is exactly this design property 5's "alpha invariance" test).
func PiDeleglisRivat(x uint64, alpha float64, threads int) (int64, error) {
	b, err := buildBundle(x, alpha, threads)
	if err != nil {
		return 0, err
	}
	return piFromBundle(b, threads)
}

// PiGourdon computes π(x) via Gourdon's decomposition: φ0 + AC - P2 - D
// (this design/§2, Gourdon's own A/C/B/D/Sigma split of the same
// underlying leaf-counting machinery). Sigma is folded into AC here
// per this design's framing that the easy/closed-form correction terms
// are not independently specified beyond interacting with phi/PrimePi.
func PiGourdon(x uint64, alphaY, alphaZ float64, threads int) (int64, error) {
	y := deriveY(x, alphaY)
	if y < 2 {
		y = 2
	}
	b, err := buildBundle(x, alphaFromY(x, y), threads)
	if err != nil {
		return 0, err
	}
	k := b.c
	xStar := y
	if alphaZ > 0 {
		xStar = deriveY(x, alphaZ)
	}

	phi0 := leavesPhi0(b)
	ac := acFromBundle(b, xStar, k)
	p2, err := p2FromBundle(b, threads)
	if err != nil {
		return 0, err
	}
	d, err := runHardLeaves(b, threads)
	if err != nil {
		return 0, err
	}
	return phi0 + ac - p2 - d, nil
}

// piFromBundle assembles π(x) - 1 = φ0 + S1 + S2_trivial + S2_easy +
// S2_hard from an already-built bundle (this design's control-flow
// description), shared by PiLMO and PiDeleglisRivat.
func piFromBundle(b *bundle, threads int) (int64, error) {
	phi0 := leavesPhi0(b)
	s1 := s1FromBundle(b)
	s2t := s2TrivialFromBundle(b)
	s2e := s2EasyFromBundle(b)
	s2h, err := runHardLeaves(b, threads)
	if err != nil {
		return 0, err
	}
	return phi0 + s1 + s2t + s2e + s2h, nil
}

