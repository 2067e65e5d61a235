package services

import (
	"context"
	"errors"
	"fmt"
	"option-prophet/interfaces"
	"option-prophet/models"
	"option-prophet/pricing"
	"time"

	"github.com/sirupsen/logrus"
)

// BadExpiryError reports a chain request for an expiry with no listed
// contracts, carrying the expirations that are available instead.
type BadExpiryError struct {
	Ticker               string
	RequestedExpiry      string
	AvailableExpirations []string
	Err                  error
}

func (e *BadExpiryError) Error() string {
	return fmt.Sprintf("no option chain for %s @ %s", e.Ticker, e.RequestedExpiry)
}

func (e *BadExpiryError) Unwrap() error {
	return e.Err
}

// ChainLoadSummary describes the outcome of one chain load.
type ChainLoadSummary struct {
	Ticker     string  `json:"ticker"`
	ExpiryDate string  `json:"expiry_date"`
	SpotPrice  float64 `json:"spot_price"`
	TimeYears  float64 `json:"t_years"`

	FetchedCalls   int `json:"fetched_calls"`
	FetchedPuts    int `json:"fetched_puts"`
	QuoteRows      int `json:"option_chain_rows"`
	PredictionRows int `json:"prediction_rows"`

	QuoteInsertStatus      string `json:"quote_insert_status"`
	PredictionInsertStatus string `json:"prediction_insert_status"`
}

// ChainLoaderService fetches an option chain, evaluates every contract through
// the pricing engine and persists both the raw quotes and the evaluations.
type ChainLoaderService struct {
	data      interfaces.OptionDataService
	evaluator *pricing.ContractEvaluator
	storage   interfaces.StorageService
	logger    *logrus.Logger
}

// NewChainLoaderService creates a new chain loader service
func NewChainLoaderService(data interfaces.OptionDataService, evaluator *pricing.ContractEvaluator, storage interfaces.StorageService) *ChainLoaderService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &ChainLoaderService{
		data:      data,
		evaluator: evaluator,
		storage:   storage,
		logger:    logger,
	}
}

// LoadAndStoreChain pulls the chain for (ticker, expiryDate), builds rows for
// the option_chains and predictions tables, stores both and returns a summary.
func (cls *ChainLoaderService) LoadAndStoreChain(ctx context.Context, ticker, expiryDate string) (*ChainLoadSummary, error) {
	ticker = NormalizeTicker(ticker)

	cls.logger.WithFields(logrus.Fields{
		"ticker": ticker,
		"expiry": expiryDate,
	}).Info("Loading option chain")

	expiry, err := time.Parse("2006-01-02", expiryDate)
	if err != nil {
		return nil, fmt.Errorf("invalid expiry date %q: %w", expiryDate, err)
	}

	now := time.Now().UTC()

	spot, err := cls.data.GetSpotPrice(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to get spot price: %w", err)
	}

	tYears, err := TimeToExpiryYears(expiryDate)
	if err != nil {
		return nil, err
	}

	chain, err := cls.data.GetOptionChain(ctx, ticker, expiry)
	if err != nil || (len(chain.Calls) == 0 && len(chain.Puts) == 0) {
		expirations, listErr := cls.data.ListExpirations(ctx, ticker)
		if listErr != nil {
			cls.logger.WithError(listErr).Warn("Could not list valid expirations")
		}
		return nil, &BadExpiryError{
			Ticker:               ticker,
			RequestedExpiry:      expiryDate,
			AvailableExpirations: expirations,
			Err:                  err,
		}
	}

	contracts := append(append([]*interfaces.OptionContract{}, chain.Calls...), chain.Puts...)

	quoteRows := cls.buildQuoteRows(ticker, expiryDate, contracts, spot, now)
	predictionRows := cls.buildPredictionRows(ctx, ticker, expiryDate, contracts, spot, tYears, now)

	summary := &ChainLoadSummary{
		Ticker:                 ticker,
		ExpiryDate:             expiryDate,
		SpotPrice:              spot,
		TimeYears:              tYears,
		FetchedCalls:           len(chain.Calls),
		FetchedPuts:            len(chain.Puts),
		QuoteRows:              len(quoteRows),
		PredictionRows:         len(predictionRows),
		QuoteInsertStatus:      "ok",
		PredictionInsertStatus: "ok",
	}

	if err := cls.storage.SaveOptionQuotes(quoteRows); err != nil {
		cls.logger.WithError(err).Error("Failed to save option quotes")
		summary.QuoteInsertStatus = "error"
		summary.QuoteRows = 0
	}
	if err := cls.storage.SavePredictions(predictionRows); err != nil {
		cls.logger.WithError(err).Error("Failed to save predictions")
		summary.PredictionInsertStatus = "error"
		summary.PredictionRows = 0
	}

	cls.logger.WithFields(logrus.Fields{
		"quote_rows":      summary.QuoteRows,
		"prediction_rows": summary.PredictionRows,
		"spot":            spot,
	}).Info("Chain load complete")
	return summary, nil
}

func (cls *ChainLoaderService) buildQuoteRows(ticker, expiryDate string, contracts []*interfaces.OptionContract, spot float64, now time.Time) []*models.DBOptionQuote {
	rows := make([]*models.DBOptionQuote, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, &models.DBOptionQuote{
			Ticker:            ticker,
			ExpiryDate:        expiryDate,
			Strike:            c.StrikePrice,
			OptionType:        c.ContractType,
			Bid:               c.Bid,
			Ask:               c.Ask,
			LastPrice:         c.LastPrice,
			ImpliedVolatility: c.ImpliedVolatility,
			OpenInterest:      c.OpenInterest,
			SpotPrice:         spot,
			SnapshotTime:      now,
			Source:            "alpaca",
		})
	}
	return rows
}

func (cls *ChainLoaderService) buildPredictionRows(ctx context.Context, ticker, expiryDate string, contracts []*interfaces.OptionContract, spot, tYears float64, now time.Time) []*models.DBPrediction {
	var rows []*models.DBPrediction
	for _, c := range contracts {
		kind, err := pricing.ParseOptionKind(c.ContractType)
		if err != nil {
			cls.logger.WithError(err).WithField("symbol", c.Symbol).Warn("Skipping contract with unknown type")
			continue
		}

		result, err := cls.evaluator.Evaluate(ctx, pricing.ContractInputs{
			Spot:         spot,
			Strike:       c.StrikePrice,
			TimeToExpiry: tYears,
			Kind:         kind,
			Bid:          c.Bid,
			Ask:          c.Ask,
			LastPrice:    c.LastPrice,
		})
		if err != nil {
			cls.logger.WithError(err).WithField("symbol", c.Symbol).Error("Evaluation failed")
			continue
		}

		// Only fully priced contracts become prediction rows.
		if result.Status != pricing.StatusPriced {
			continue
		}

		row := &models.DBPrediction{
			Ticker:        ticker,
			ExpiryDate:    expiryDate,
			Strike:        c.StrikePrice,
			OptionType:    string(kind),
			Rate:          result.Rate,
			RateSource:    string(result.RateSource),
			Sigma:         *result.Sigma,
			SigmaSource:   string(result.SigmaSource),
			ModelPrice:    *result.ModelPrice,
			MarketPrice:   result.MarketPrice,
			MispricingPct: result.MispricingPct,
			Delta:         result.Greeks.Delta,
			Gamma:         result.Greeks.Gamma,
			Vega:          result.Greeks.Vega,
			Theta:         result.Greeks.Theta,
			Rho:           result.Greeks.Rho,
			SnapshotTime:  now,
		}
		if result.Signal != nil {
			row.Signal = string(*result.Signal)
		}
		rows = append(rows, row)
	}
	return rows
}

// IsBadExpiry reports whether err is a BadExpiryError and returns it.
func IsBadExpiry(err error) (*BadExpiryError, bool) {
	var be *BadExpiryError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}
