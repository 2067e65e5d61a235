package interfaces

import "context"

// RateSource tags where a risk-free rate came from.
type RateSource string

const (
	RateSourcePrimary               RateSource = "primary"
	RateSourceFallbackNoCredentials RateSource = "fallback_no_credentials"
	RateSourceFallbackEmptySource   RateSource = "fallback_empty_source"
	RateSourceFallbackError         RateSource = "fallback_error"
)

// RateQuote is an annualized risk-free rate plus its provenance.
type RateQuote struct {
	Rate   float64    `json:"rate"`
	Source RateSource `json:"source"`
}

// RateProvider supplies the prevailing risk-free rate. Implementations must
// absorb their own failures and always return a usable rate, reporting any
// degradation only through the Source tag.
type RateProvider interface {
	RiskFreeRate(ctx context.Context) RateQuote
}
