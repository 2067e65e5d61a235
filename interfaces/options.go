package interfaces

import (
	"context"
	"time"
)

// OptionContract represents one contract in an option chain snapshot.
// Quote fields are nil when the data provider did not report them.
type OptionContract struct {
	Symbol            string    // Option symbol (e.g., "AAPL231215C00150000")
	UnderlyingSymbol  string    // Underlying stock symbol
	ContractType      string    // "call" or "put"
	StrikePrice       float64   // Strike price
	ExpirationDate    time.Time // Expiration date
	Bid               *float64
	Ask               *float64
	LastPrice         *float64
	ImpliedVolatility *float64 // Provider-reported IV, stored for reference only
	OpenInterest      *int64
}

// OptionChain represents the contracts available for one underlying and expiry.
type OptionChain struct {
	UnderlyingSymbol string
	ExpirationDate   time.Time
	Timestamp        time.Time
	Calls            []*OptionContract
	Puts             []*OptionContract
}

// OptionDataService defines the interface for options market data.
type OptionDataService interface {
	GetSpotPrice(ctx context.Context, symbol string) (float64, error)
	GetOptionChain(ctx context.Context, underlying string, expirationDate time.Time) (*OptionChain, error)
	ListExpirations(ctx context.Context, underlying string) ([]string, error)
}
