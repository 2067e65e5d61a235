package pricing

import "testing"

func TestIVRoundTrip(t *testing.T) {
	cases := []struct {
		bs   BlackScholes
		kind OptionKind
	}{
		{BlackScholes{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.20}, Call},
		{BlackScholes{S: 100, K: 100, T: 1, R: 0.05, Sigma: 0.20}, Put},
		{BlackScholes{S: 100, K: 110, T: 0.5, R: 0.03, Sigma: 0.35}, Call},
		{BlackScholes{S: 250, K: 200, T: 2, R: 0.01, Sigma: 0.45}, Put},
		{BlackScholes{S: 42, K: 40, T: 0.25, R: 0.08, Sigma: 0.60}, Call},
	}

	solver := NewIVSolver()
	for _, tc := range cases {
		price, err := tc.bs.Price(tc.kind)
		if err != nil {
			t.Fatalf("Price(%+v) returned error: %v", tc.bs, err)
		}

		target := tc.bs
		target.Sigma = 0

		iv, ok := solver.Solve(price, target, tc.kind)
		if !ok {
			t.Fatalf("solver did not converge for %+v %s", tc.bs, tc.kind)
		}
		if !approxEqual(iv, tc.bs.Sigma, 1e-4) {
			t.Errorf("IV round trip for %+v: expected %v, got %v", tc.bs, tc.bs.Sigma, iv)
		}
	}
}

func TestIVRecoversKnownScenario(t *testing.T) {
	solver := NewIVSolver()

	iv, ok := solver.Solve(10.4506, BlackScholes{S: 100, K: 100, T: 1, R: 0.05}, Call)
	if !ok {
		t.Fatal("solver did not converge")
	}
	if !approxEqual(iv, 0.20, 1e-4) {
		t.Errorf("expected IV ~0.20, got %v", iv)
	}
}

func TestIVDegenerateVega(t *testing.T) {
	// Deep out-of-the-money, very short-dated: vega collapses and the solver
	// must bail out instead of dividing by near-zero.
	solver := NewIVSolver()

	if iv, ok := solver.Solve(0.01, BlackScholes{S: 100, K: 1000, T: 0.01, R: 0.05}, Call); ok {
		t.Errorf("expected not solvable, got iv=%v", iv)
	}
}

func TestIVDivergenceGuard(t *testing.T) {
	// A market price above the spot is unreachable for a call; the Newton
	// updates must run into the sigma cap, not loop or blow up.
	solver := NewIVSolver()

	if iv, ok := solver.Solve(150, BlackScholes{S: 100, K: 100, T: 1, R: 0.05}, Call); ok {
		t.Errorf("expected not solvable, got iv=%v", iv)
	}
}

func TestIVGuardrails(t *testing.T) {
	solver := NewIVSolver()

	if _, ok := solver.Solve(0, BlackScholes{S: 100, K: 100, T: 1, R: 0.05}, Call); ok {
		t.Error("expected not solvable for zero market price")
	}
	if _, ok := solver.Solve(-3, BlackScholes{S: 100, K: 100, T: 1, R: 0.05}, Call); ok {
		t.Error("expected not solvable for negative market price")
	}
	if _, ok := solver.Solve(10, BlackScholes{S: 100, K: 100, T: 0, R: 0.05}, Call); ok {
		t.Error("expected not solvable for expired contract")
	}
}

func TestIVSolverOverrides(t *testing.T) {
	solver := NewIVSolver()
	solver.SetInitialGuess(0.5)
	solver.SetTolerance(1e-8)
	solver.SetMaxIterations(200)

	iv, ok := solver.Solve(10.450583572185565, BlackScholes{S: 100, K: 100, T: 1, R: 0.05}, Call)
	if !ok {
		t.Fatal("solver did not converge with overridden parameters")
	}
	if !approxEqual(iv, 0.20, 1e-4) {
		t.Errorf("expected IV ~0.20, got %v", iv)
	}
}
