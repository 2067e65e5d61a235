package pricing

import (
	"context"
	"math"
	"option-prophet/interfaces"

	"github.com/sirupsen/logrus"
)

// ContractInputs describes a single option contract to evaluate. Optional
// quote fields are nil when the market did not supply them.
type ContractInputs struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64 // years
	Kind         OptionKind
	Bid          *float64
	Ask          *float64
	LastPrice    *float64
	IVOverride   *float64 // force sigma instead of solving for it
}

// VolatilitySource tags how the sigma used for pricing was obtained.
type VolatilitySource string

const (
	VolSourceOverride          VolatilitySource = "override"
	VolSourceImpliedFromMarket VolatilitySource = "implied_from_market"
)

// EvaluationStatus is the closed set of terminal outcomes of an evaluation.
type EvaluationStatus string

const (
	StatusExpiredOrIntrinsic EvaluationStatus = "expired_or_intrinsic"
	StatusNoVolatility       EvaluationStatus = "no_volatility"
	StatusPriced             EvaluationStatus = "priced"
)

// EvaluationResult is the outcome of evaluating one contract. Status decides
// which fields are populated:
//
//   - StatusExpiredOrIntrinsic: Rate, RateSource, TimeToExpiry, IntrinsicValue.
//   - StatusNoVolatility: Rate, RateSource, TimeToExpiry.
//   - StatusPriced: everything except IntrinsicValue; MarketPrice,
//     MispricingPct and Signal stay nil when no market price resolved.
type EvaluationResult struct {
	Status         EvaluationStatus      `json:"status"`
	Rate           float64               `json:"r"`
	RateSource     interfaces.RateSource `json:"r_source"`
	TimeToExpiry   float64               `json:"t_years"`
	IntrinsicValue *float64              `json:"intrinsic_value,omitempty"`
	Sigma          *float64              `json:"sigma,omitempty"`
	SigmaSource    VolatilitySource      `json:"sigma_source,omitempty"`
	ModelPrice     *float64              `json:"model_price,omitempty"`
	Greeks         *Greeks               `json:"greeks,omitempty"`
	MarketPrice    *float64              `json:"market_price,omitempty"`
	MispricingPct  *float64              `json:"mispricing_pct,omitempty"`
	Signal         *Signal               `json:"signal,omitempty"`
}

// ContractEvaluator runs the full valuation pipeline for one contract:
// risk-free rate, expiry check, market price, volatility, model price, greeks,
// mispricing and signal. It holds no state between calls and is safe for
// concurrent use.
type ContractEvaluator struct {
	rates  interfaces.RateProvider
	solver *IVSolver
	logger *logrus.Logger
}

// NewContractEvaluator creates an evaluator backed by the given rate provider.
func NewContractEvaluator(rates interfaces.RateProvider) *ContractEvaluator {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &ContractEvaluator{
		rates:  rates,
		solver: NewIVSolver(),
		logger: logger,
	}
}

// Evaluate values a single contract. The only error it can return is
// ErrInvalidParameters for a non-positive volatility override; every other
// failure-like situation (no market data, no convergence) is an ordinary
// result variant.
func (ce *ContractEvaluator) Evaluate(ctx context.Context, in ContractInputs) (EvaluationResult, error) {
	quote := ce.rates.RiskFreeRate(ctx)

	result := EvaluationResult{
		Rate:         quote.Rate,
		RateSource:   quote.Source,
		TimeToExpiry: in.TimeToExpiry,
	}

	// Expired contracts carry intrinsic value only.
	if in.TimeToExpiry <= 0 {
		intrinsic := math.Max(in.Spot-in.Strike, 0)
		if in.Kind == Put {
			intrinsic = math.Max(in.Strike-in.Spot, 0)
		}
		result.Status = StatusExpiredOrIntrinsic
		result.IntrinsicValue = &intrinsic
		return result, nil
	}

	marketPrice := ResolveMarketPrice(in.Bid, in.Ask, in.LastPrice)

	var sigma *float64
	var sigmaSource VolatilitySource
	switch {
	case in.IVOverride != nil:
		if *in.IVOverride <= 0 {
			return EvaluationResult{}, ErrInvalidParameters
		}
		sigma = in.IVOverride
		sigmaSource = VolSourceOverride
	case marketPrice != nil:
		bs := BlackScholes{S: in.Spot, K: in.Strike, T: in.TimeToExpiry, R: quote.Rate}
		if iv, ok := ce.solver.Solve(*marketPrice, bs, in.Kind); ok {
			sigma = &iv
			sigmaSource = VolSourceImpliedFromMarket
		}
	}

	if sigma == nil {
		ce.logger.WithFields(logrus.Fields{
			"strike": in.Strike,
			"type":   in.Kind,
		}).Debug("Could not determine implied volatility")
		result.Status = StatusNoVolatility
		return result, nil
	}

	bs := BlackScholes{S: in.Spot, K: in.Strike, T: in.TimeToExpiry, R: quote.Rate, Sigma: *sigma}
	modelPrice, err := bs.Price(in.Kind)
	if err != nil {
		return EvaluationResult{}, err
	}
	greeks, err := ComputeGreeks(bs, in.Kind)
	if err != nil {
		return EvaluationResult{}, err
	}

	var mispricingPct *float64
	if marketPrice != nil && *marketPrice > 0 {
		pct := (modelPrice - *marketPrice) / *marketPrice
		mispricingPct = &pct
	}

	result.Status = StatusPriced
	result.Sigma = sigma
	result.SigmaSource = sigmaSource
	result.ModelPrice = &modelPrice
	result.Greeks = &greeks
	result.MarketPrice = marketPrice
	result.MispricingPct = mispricingPct
	result.Signal = ClassifySignal(mispricingPct)
	return result, nil
}
