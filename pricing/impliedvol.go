package pricing

import "math"

// Defaults for the implied volatility solver.
const (
	DefaultIVInitialGuess  = 0.20
	DefaultIVTolerance     = 1e-6
	DefaultIVMaxIterations = 100
	DefaultIVMaxSigma      = 5.0 // cap at 500% to ignore nonsense

	minVega = 1e-8
)

// IVSolver recovers implied volatility from an observed market price using
// Newton-Raphson with vega as the derivative. The zero value is not usable;
// construct with NewIVSolver.
type IVSolver struct {
	initialGuess  float64
	tolerance     float64
	maxIterations int
	maxSigma      float64
}

// NewIVSolver creates a solver with the default parameters.
func NewIVSolver() *IVSolver {
	return &IVSolver{
		initialGuess:  DefaultIVInitialGuess,
		tolerance:     DefaultIVTolerance,
		maxIterations: DefaultIVMaxIterations,
		maxSigma:      DefaultIVMaxSigma,
	}
}

// SetInitialGuess overrides the starting sigma.
func (s *IVSolver) SetInitialGuess(guess float64) {
	if guess > 0 {
		s.initialGuess = guess
	}
}

// SetTolerance overrides the price convergence tolerance.
func (s *IVSolver) SetTolerance(tol float64) {
	if tol > 0 {
		s.tolerance = tol
	}
}

// SetMaxIterations overrides the iteration cap.
func (s *IVSolver) SetMaxIterations(n int) {
	if n > 0 {
		s.maxIterations = n
	}
}

// Solve inverts the pricing model to find the volatility implied by
// marketPrice for the contract described by (S, K, T, R) and kind.
//
// The boolean result reports whether a volatility was found. Absence of
// convergence, a collapsed vega, or divergence outside (0, maxSigma] are
// expected outcomes and return false; they never surface as errors.
func (s *IVSolver) Solve(marketPrice float64, bs BlackScholes, kind OptionKind) (float64, bool) {
	if marketPrice <= 0 {
		return 0, false
	}
	if bs.T <= 0 {
		return 0, false
	}

	sigma := s.initialGuess

	for i := 0; i < s.maxIterations; i++ {
		bs.Sigma = sigma

		price, err := bs.Price(kind)
		if err != nil {
			return 0, false
		}
		greeks, err := ComputeGreeks(bs, kind)
		if err != nil {
			return 0, false
		}

		priceDiff := price - marketPrice

		// Close enough? We're done.
		if math.Abs(priceDiff) < s.tolerance {
			return sigma, true
		}

		// If vega is ~0 the update would divide by near-zero; the problem is
		// numerically degenerate and cannot be refined in a stable way.
		if math.Abs(greeks.Vega) < minVega {
			return 0, false
		}

		// Newton-Raphson update.
		sigma = sigma - priceDiff/greeks.Vega

		// Sigma must stay positive and sane.
		if sigma <= 0 || sigma > s.maxSigma {
			return 0, false
		}
	}

	// Did not converge.
	return 0, false
}
