package services

import (
	"context"
	"fmt"
	"math"
	"option-prophet/interfaces"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultVolWindow is the default lookback window in trading days.
const DefaultVolWindow = 252

// tradingDaysPerYear annualizes daily volatility.
const tradingDaysPerYear = 252.0

// HistoricalVolService computes realized volatility of an underlying from
// daily closes.
type HistoricalVolService struct {
	data   interfaces.DataService
	logger *logrus.Logger
}

// NewHistoricalVolService creates a new historical volatility service
func NewHistoricalVolService(data interfaces.DataService) *HistoricalVolService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &HistoricalVolService{
		data:   data,
		logger: logger,
	}
}

// AnnualizedVolatility computes the annualized realized volatility of daily
// log returns over the last window trading days.
func (hvs *HistoricalVolService) AnnualizedVolatility(ctx context.Context, symbol string, window int) (float64, error) {
	if window <= 0 {
		window = DefaultVolWindow
	}

	// Calendar span padded so the range covers enough trading days.
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -(window*7/5 + 10))

	bars, err := hvs.data.GetHistoricalBars(ctx, symbol, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	if len(bars) > window+1 {
		bars = bars[len(bars)-(window+1):]
	}
	if len(bars) < 2 {
		return 0, fmt.Errorf("not enough price history for %s: %d bars", symbol, len(bars))
	}

	returns := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		if bars[i-1].Close <= 0 || bars[i].Close <= 0 {
			continue
		}
		returns = append(returns, math.Log(bars[i].Close/bars[i-1].Close))
	}
	if len(returns) < 2 {
		return 0, fmt.Errorf("not enough usable closes for %s", symbol)
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	dailyVol := math.Sqrt(variance)
	annualVol := dailyVol * math.Sqrt(tradingDaysPerYear)

	hvs.logger.WithFields(logrus.Fields{
		"symbol":     symbol,
		"window":     window,
		"annual_vol": annualVol,
	}).Debug("Computed historical volatility")
	return annualVol, nil
}
