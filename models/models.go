package models

import (
	"time"

	"gorm.io/gorm"
)

// DBOptionQuote represents one raw option chain row in the database
type DBOptionQuote struct {
	gorm.Model
	Ticker            string `gorm:"index:idx_chain_ticker_expiry"`
	ExpiryDate        string `gorm:"index:idx_chain_ticker_expiry"` // "YYYY-MM-DD"
	Strike            float64
	OptionType        string // "call" or "put"
	Bid               *float64
	Ask               *float64
	LastPrice         *float64
	ImpliedVolatility *float64
	OpenInterest      *int64
	SpotPrice         float64
	SnapshotTime      time.Time `gorm:"index"`
	Source            string
}

// DBPrediction represents one model evaluation row in the database
type DBPrediction struct {
	gorm.Model
	Ticker     string `gorm:"index"`
	ExpiryDate string
	Strike     float64
	OptionType string

	// Model output
	Rate        float64
	RateSource  string
	Sigma       float64
	SigmaSource string
	ModelPrice  float64

	// Market comparison
	MarketPrice   *float64
	MispricingPct *float64
	Signal        string `gorm:"index"`

	// Greeks
	Delta float64
	Gamma float64
	Vega  float64
	Theta float64
	Rho   float64

	SnapshotTime time.Time `gorm:"index"`
}

// TableName overrides for cleaner table names
func (DBOptionQuote) TableName() string {
	return "option_chains"
}

func (DBPrediction) TableName() string {
	return "predictions"
}
