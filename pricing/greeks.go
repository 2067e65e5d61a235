package pricing

import "math"

// Greeks holds the first and second order sensitivities of an option price.
// Theta is expressed per calendar day; the other greeks are per unit of their
// respective input.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Vega  float64 `json:"vega"`
	Theta float64 `json:"theta"`
	Rho   float64 `json:"rho"`
}

// ComputeGreeks derives the greeks from the same inputs as the pricing model.
// It shares the model's precondition: T and sigma must be positive.
func ComputeGreeks(bs BlackScholes, kind OptionKind) (Greeks, error) {
	d1, err := bs.D1()
	if err != nil {
		return Greeks{}, err
	}

	sqrtT := math.Sqrt(bs.T)
	d2 := d1 - bs.Sigma*sqrtT
	pdfD1 := NormalPDF(d1)
	discount := math.Exp(-bs.R * bs.T)

	g := Greeks{
		Gamma: pdfD1 / (bs.S * bs.Sigma * sqrtT),
		Vega:  bs.S * pdfD1 * sqrtT,
	}

	thetaFirstTerm := -(bs.S * pdfD1 * bs.Sigma) / (2 * sqrtT)
	if kind == Call {
		g.Delta = NormalCDF(d1)
		g.Theta = thetaFirstTerm - bs.R*bs.K*discount*NormalCDF(d2)
		g.Rho = bs.K * bs.T * discount * NormalCDF(d2)
	} else {
		g.Delta = NormalCDF(d1) - 1.0
		g.Theta = thetaFirstTerm + bs.R*bs.K*discount*NormalCDF(-d2)
		g.Rho = -bs.K * bs.T * discount * NormalCDF(-d2)
	}

	// Convert theta from annualized decay to per-day decay.
	g.Theta /= 365.0

	return g, nil
}
