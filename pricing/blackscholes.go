package pricing

import (
	"errors"
	"math"
)

// ErrInvalidParameters is returned when the closed-form model is invoked with a
// non-positive time to expiry or volatility. The evaluator filters both cases
// before pricing, so hitting this from the pipeline indicates a caller defect.
var ErrInvalidParameters = errors.New("T and sigma must be positive nonzero values")

// BlackScholes holds the inputs to the closed-form European pricing model.
// Values are never mutated after construction.
type BlackScholes struct {
	S     float64 // Spot price
	K     float64 // Strike price
	T     float64 // Time to expiry (years)
	R     float64 // Risk-free rate
	Sigma float64 // Volatility
}

// D1 computes the d1 term of the Black-Scholes formula.
func (bs BlackScholes) D1() (float64, error) {
	if bs.T <= 0 || bs.Sigma <= 0 {
		return 0, ErrInvalidParameters
	}
	return (math.Log(bs.S/bs.K) + (bs.R+0.5*bs.Sigma*bs.Sigma)*bs.T) / (bs.Sigma * math.Sqrt(bs.T)), nil
}

// D2 computes the d2 term, d1 - sigma*sqrt(T).
func (bs BlackScholes) D2() (float64, error) {
	d1, err := bs.D1()
	if err != nil {
		return 0, err
	}
	return d1 - bs.Sigma*math.Sqrt(bs.T), nil
}

// CallPrice returns the Black-Scholes call price.
func (bs BlackScholes) CallPrice() (float64, error) {
	d1, err := bs.D1()
	if err != nil {
		return 0, err
	}
	d2 := d1 - bs.Sigma*math.Sqrt(bs.T)
	return bs.S*NormalCDF(d1) - bs.K*math.Exp(-bs.R*bs.T)*NormalCDF(d2), nil
}

// PutPrice returns the Black-Scholes put price.
func (bs BlackScholes) PutPrice() (float64, error) {
	d1, err := bs.D1()
	if err != nil {
		return 0, err
	}
	d2 := d1 - bs.Sigma*math.Sqrt(bs.T)
	return bs.K*math.Exp(-bs.R*bs.T)*NormalCDF(-d2) - bs.S*NormalCDF(-d1), nil
}

// Price returns the theoretical price for the given option kind.
func (bs BlackScholes) Price(kind OptionKind) (float64, error) {
	if kind == Call {
		return bs.CallPrice()
	}
	return bs.PutPrice()
}
