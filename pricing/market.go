package pricing

// ResolveMarketPrice decides the observed market price of a contract from its
// quotes. A two-sided quote with positive bid and ask resolves to the mid;
// otherwise a positive last trade price is used. Returns nil when neither is
// available, which downstream treats as "no market data", not an error.
func ResolveMarketPrice(bid, ask, last *float64) *float64 {
	if bid != nil && ask != nil && *bid > 0 && *ask > 0 {
		mid := (*bid + *ask) / 2.0
		return &mid
	}
	if last != nil && *last > 0 {
		return last
	}
	return nil
}
