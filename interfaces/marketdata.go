package interfaces

import (
	"context"
	"time"
)

// Bar is one aggregate of underlying price data.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Trade is the most recent trade of the underlying.
type Trade struct {
	Symbol    string
	Price     float64
	Size      int64
	Timestamp time.Time
}

// DataService defines the interface for underlying market data operations.
type DataService interface {
	GetHistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]*Bar, error)
	GetLatestBar(ctx context.Context, symbol string) (*Bar, error)
	GetLatestTrade(ctx context.Context, symbol string) (*Trade, error)
}
