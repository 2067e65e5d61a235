package pricing

import "math"

// NormalPDF is the standard normal probability density function n(x).
func NormalPDF(x float64) float64 {
	return (1.0 / math.Sqrt(2*math.Pi)) * math.Exp(-0.5*x*x)
}

// NormalCDF is the standard normal cumulative distribution function N(x).
func NormalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}
