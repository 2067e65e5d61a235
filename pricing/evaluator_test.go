package pricing

import (
	"context"
	"errors"
	"option-prophet/interfaces"
	"testing"
)

// fixedRateProvider returns a constant rate, standing in for the remote store.
type fixedRateProvider struct {
	rate   float64
	source interfaces.RateSource
}

func (p fixedRateProvider) RiskFreeRate(ctx context.Context) interfaces.RateQuote {
	return interfaces.RateQuote{Rate: p.rate, Source: p.source}
}

func newTestEvaluator() *ContractEvaluator {
	return NewContractEvaluator(fixedRateProvider{rate: 0.05, source: interfaces.RateSourcePrimary})
}

func TestEvaluateExpiredCall(t *testing.T) {
	ce := newTestEvaluator()

	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 110, Strike: 100, TimeToExpiry: 0, Kind: Call,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusExpiredOrIntrinsic {
		t.Fatalf("expected %s, got %s", StatusExpiredOrIntrinsic, result.Status)
	}
	if result.IntrinsicValue == nil || *result.IntrinsicValue != 10.0 {
		t.Errorf("expected intrinsic 10.0, got %v", result.IntrinsicValue)
	}
	if result.Rate != 0.05 || result.RateSource != interfaces.RateSourcePrimary {
		t.Errorf("rate provenance not carried: %v %v", result.Rate, result.RateSource)
	}
}

func TestEvaluateExpiredPut(t *testing.T) {
	ce := newTestEvaluator()

	// Expiry wins regardless of volatility inputs.
	iv := 0.3
	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 90, Strike: 100, TimeToExpiry: -0.01, Kind: Put, IVOverride: &iv,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusExpiredOrIntrinsic {
		t.Fatalf("expected %s, got %s", StatusExpiredOrIntrinsic, result.Status)
	}
	if result.IntrinsicValue == nil || *result.IntrinsicValue != 10.0 {
		t.Errorf("expected intrinsic 10.0, got %v", result.IntrinsicValue)
	}
}

func TestEvaluateExpiredOutOfTheMoney(t *testing.T) {
	ce := newTestEvaluator()

	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 90, Strike: 100, TimeToExpiry: 0, Kind: Call,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if result.IntrinsicValue == nil || *result.IntrinsicValue != 0 {
		t.Errorf("expected intrinsic 0, got %v", result.IntrinsicValue)
	}
}

func TestEvaluateNoMarketData(t *testing.T) {
	ce := newTestEvaluator()

	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1, Kind: Call,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusNoVolatility {
		t.Fatalf("expected %s, got %s", StatusNoVolatility, result.Status)
	}
	if result.Rate != 0.05 || result.TimeToExpiry != 1 {
		t.Errorf("diagnostics not carried: rate=%v T=%v", result.Rate, result.TimeToExpiry)
	}
	if result.Sigma != nil || result.ModelPrice != nil || result.Signal != nil {
		t.Error("no_volatility result must not carry pricing fields")
	}
}

func TestEvaluateSolverFailureYieldsNoVolatility(t *testing.T) {
	ce := newTestEvaluator()

	// Deep OTM short-dated with a tiny quote: IV is not solvable.
	last := 0.01
	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 1000, TimeToExpiry: 0.01, Kind: Call, LastPrice: &last,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if result.Status != StatusNoVolatility {
		t.Fatalf("expected %s, got %s", StatusNoVolatility, result.Status)
	}
}

func TestEvaluateWithOverride(t *testing.T) {
	ce := newTestEvaluator()

	iv := 0.20
	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1, Kind: Call, IVOverride: &iv,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusPriced {
		t.Fatalf("expected %s, got %s", StatusPriced, result.Status)
	}
	if result.SigmaSource != VolSourceOverride {
		t.Errorf("expected sigma source %s, got %s", VolSourceOverride, result.SigmaSource)
	}
	if result.ModelPrice == nil || !approxEqual(*result.ModelPrice, 10.4506, 1e-3) {
		t.Errorf("expected model price ~10.4506, got %v", result.ModelPrice)
	}
	if result.Greeks == nil || !approxEqual(result.Greeks.Delta, 0.6368, 1e-3) {
		t.Errorf("expected delta ~0.6368, got %+v", result.Greeks)
	}
	// No market price: no mispricing and no signal.
	if result.MarketPrice != nil || result.MispricingPct != nil || result.Signal != nil {
		t.Error("expected no market comparison without quotes")
	}
}

func TestEvaluateImpliedFromMarket(t *testing.T) {
	ce := newTestEvaluator()

	bid, ask := 10.40, 10.50
	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1, Kind: Call, Bid: &bid, Ask: &ask,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusPriced {
		t.Fatalf("expected %s, got %s", StatusPriced, result.Status)
	}
	if result.SigmaSource != VolSourceImpliedFromMarket {
		t.Errorf("expected sigma source %s, got %s", VolSourceImpliedFromMarket, result.SigmaSource)
	}
	if result.Sigma == nil || !approxEqual(*result.Sigma, 0.20, 1e-2) {
		t.Errorf("expected sigma ~0.20, got %v", result.Sigma)
	}
	if result.MarketPrice == nil || !approxEqual(*result.MarketPrice, 10.45, 1e-9) {
		t.Errorf("expected market price 10.45, got %v", result.MarketPrice)
	}
	// Model was solved to match the market: mispricing is ~0, signal FAIR.
	if result.Signal == nil || *result.Signal != SignalFair {
		t.Errorf("expected FAIR, got %v", result.Signal)
	}
}

func TestEvaluateMispricingSignal(t *testing.T) {
	ce := newTestEvaluator()

	// Override sigma so the model disagrees with the market quote:
	// model ~10.45 vs market 9.0 -> mispricing ~0.1612 -> BUY.
	iv := 0.20
	last := 9.0
	result, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1, Kind: Call, LastPrice: &last, IVOverride: &iv,
	})
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}

	if result.Status != StatusPriced {
		t.Fatalf("expected %s, got %s", StatusPriced, result.Status)
	}
	if result.MispricingPct == nil || !approxEqual(*result.MispricingPct, 0.1612, 1e-3) {
		t.Errorf("expected mispricing ~0.1612, got %v", result.MispricingPct)
	}
	if result.Signal == nil || *result.Signal != SignalBuy {
		t.Errorf("expected BUY, got %v", result.Signal)
	}
}

func TestEvaluateRejectsNonPositiveOverride(t *testing.T) {
	ce := newTestEvaluator()

	iv := -0.2
	_, err := ce.Evaluate(context.Background(), ContractInputs{
		Spot: 100, Strike: 100, TimeToExpiry: 1, Kind: Call, IVOverride: &iv,
	})
	if !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
}
