package pricing

// Signal classifies how the market price compares to the model price.
type Signal string

const (
	SignalBuy        Signal = "BUY"
	SignalOverpriced Signal = "OVERPRICED"
	SignalFair       Signal = "FAIR"
)

// Thresholds for signal classification; mispricing exactly at the boundary
// classifies as FAIR.
const (
	buyThreshold        = 0.10
	overpricedThreshold = -0.10
)

// ClassifySignal turns a mispricing percentage into a trading signal.
// A nil input yields a nil output.
func ClassifySignal(mispricingPct *float64) *Signal {
	if mispricingPct == nil {
		return nil
	}
	s := SignalFair
	if *mispricingPct > buyThreshold {
		s = SignalBuy
	} else if *mispricingPct < overpricedThreshold {
		s = SignalOverpriced
	}
	return &s
}
