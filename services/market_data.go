package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"option-prophet/interfaces"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"
)

// AlpacaMarketDataService provides underlying prices via the Alpaca market
// data SDK and option chain snapshots via the Alpaca options data REST API.
type AlpacaMarketDataService struct {
	apiKey    string
	secretKey string
	baseURL   string
	stocks    *marketdata.Client
	logger    *logrus.Logger
	client    *http.Client
}

// NewAlpacaMarketDataService creates a new Alpaca market data service
func NewAlpacaMarketDataService(apiKey, secretKey string) *AlpacaMarketDataService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Note: Options data API might require different subscription
	return &AlpacaMarketDataService{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   "https://data.alpaca.markets", // Options data endpoint
		stocks: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: secretKey,
		}),
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetSpotPrice returns the current underlying price: the latest trade when
// available, otherwise the most recent daily close.
func (s *AlpacaMarketDataService) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	trade, err := s.stocks.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err == nil && trade != nil && trade.Price > 0 {
		return trade.Price, nil
	}
	if err != nil {
		s.logger.WithError(err).WithField("symbol", symbol).Warn("Latest trade unavailable, falling back to last close")
	}

	bar, err := s.stocks.GetLatestBar(symbol, marketdata.GetLatestBarRequest{})
	if err != nil {
		return 0, fmt.Errorf("could not get spot price for %s: %w", symbol, err)
	}
	return bar.Close, nil
}

// GetLatestTrade returns the most recent trade of the underlying.
func (s *AlpacaMarketDataService) GetLatestTrade(ctx context.Context, symbol string) (*interfaces.Trade, error) {
	trade, err := s.stocks.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest trade: %w", err)
	}

	return &interfaces.Trade{
		Symbol:    symbol,
		Price:     trade.Price,
		Size:      int64(trade.Size),
		Timestamp: trade.Timestamp,
	}, nil
}

// GetLatestBar returns the most recent daily bar of the underlying.
func (s *AlpacaMarketDataService) GetLatestBar(ctx context.Context, symbol string) (*interfaces.Bar, error) {
	bar, err := s.stocks.GetLatestBar(symbol, marketdata.GetLatestBarRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest bar: %w", err)
	}

	return &interfaces.Bar{
		Symbol:    symbol,
		Timestamp: bar.Timestamp,
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    int64(bar.Volume),
	}, nil
}

// GetHistoricalBars returns daily bars for the symbol within a time range.
func (s *AlpacaMarketDataService) GetHistoricalBars(ctx context.Context, symbol string, start, end time.Time) ([]*interfaces.Bar, error) {
	alpacaBars, err := s.stocks.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch historical bars: %w", err)
	}

	bars := make([]*interfaces.Bar, len(alpacaBars))
	for i, b := range alpacaBars {
		bars[i] = &interfaces.Bar{
			Symbol:    symbol,
			Timestamp: b.Timestamp,
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    int64(b.Volume),
		}
	}
	return bars, nil
}

// alpacaOptionsSnapshots represents Alpaca's options snapshot response
type alpacaOptionsSnapshots struct {
	Snapshots map[string]alpacaOptionSnapshot `json:"snapshots"`
}

// alpacaOptionSnapshot represents per-contract quote data from Alpaca
type alpacaOptionSnapshot struct {
	LatestQuote       alpacaQuote `json:"latestQuote"`
	LatestTrade       alpacaTrade `json:"latestTrade"`
	ImpliedVolatility float64     `json:"impliedVolatility"`
}

// alpacaQuote represents quote data
type alpacaQuote struct {
	Timestamp time.Time `json:"t"`
	BidPrice  float64   `json:"bp"`
	AskPrice  float64   `json:"ap"`
	BidSize   int       `json:"bs"`
	AskSize   int       `json:"as"`
}

// alpacaTrade represents trade data
type alpacaTrade struct {
	Timestamp time.Time `json:"t"`
	Price     float64   `json:"p"`
	Size      int       `json:"s"`
}

// alpacaContractsResponse represents the option contracts response
type alpacaContractsResponse struct {
	OptionContracts []alpacaContract `json:"option_contracts"`
	NextPageToken   string           `json:"next_page_token"`
}

// alpacaContract represents contract metadata
type alpacaContract struct {
	Symbol           string  `json:"symbol"`
	UnderlyingSymbol string  `json:"underlying_symbol"`
	ExpirationDate   string  `json:"expiration_date"`
	StrikePrice      float64 `json:"strike_price"`
	Type             string  `json:"type"` // "call" or "put"
	Style            string  `json:"style"`
	OpenInterest     int64   `json:"open_interest"`
	ContractSize     int     `json:"contract_size"`
}

func (s *AlpacaMarketDataService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	req.Header.Set("APCA-API-KEY-ID", s.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", s.secretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// GetOptionChain retrieves the contracts for an underlying and expiry, with
// contract metadata joined against per-contract quote snapshots.
func (s *AlpacaMarketDataService) GetOptionChain(ctx context.Context, underlying string, expirationDate time.Time) (*interfaces.OptionChain, error) {
	expiry := expirationDate.Format("2006-01-02")

	s.logger.WithFields(logrus.Fields{
		"underlying": underlying,
		"expiration": expiry,
	}).Debug("Fetching option chain")

	contractsURL := fmt.Sprintf("%s/v1beta1/options/contracts?underlying_symbols=%s&expiration_date=%s",
		s.baseURL, underlying, expiry)

	var contractsResp alpacaContractsResponse
	if err := s.getJSON(ctx, contractsURL, &contractsResp); err != nil {
		return nil, fmt.Errorf("failed to fetch option contracts: %w", err)
	}

	snapshotsURL := fmt.Sprintf("%s/v1beta1/options/snapshots/%s?expiration_date=%s",
		s.baseURL, underlying, expiry)

	var snapshots alpacaOptionsSnapshots
	if err := s.getJSON(ctx, snapshotsURL, &snapshots); err != nil {
		return nil, fmt.Errorf("failed to fetch option snapshots: %w", err)
	}

	chain := &interfaces.OptionChain{
		UnderlyingSymbol: underlying,
		ExpirationDate:   expirationDate,
		Timestamp:        time.Now().UTC(),
	}

	for _, ac := range contractsResp.OptionContracts {
		expDate, _ := time.Parse("2006-01-02", ac.ExpirationDate)
		oi := ac.OpenInterest

		contract := &interfaces.OptionContract{
			Symbol:           ac.Symbol,
			UnderlyingSymbol: ac.UnderlyingSymbol,
			ContractType:     ac.Type,
			StrikePrice:      ac.StrikePrice,
			ExpirationDate:   expDate,
			OpenInterest:     &oi,
		}

		if snap, ok := snapshots.Snapshots[ac.Symbol]; ok {
			if snap.LatestQuote.BidPrice > 0 || snap.LatestQuote.AskPrice > 0 {
				bid, ask := snap.LatestQuote.BidPrice, snap.LatestQuote.AskPrice
				contract.Bid = &bid
				contract.Ask = &ask
			}
			if snap.LatestTrade.Price > 0 {
				last := snap.LatestTrade.Price
				contract.LastPrice = &last
			}
			if snap.ImpliedVolatility > 0 {
				iv := snap.ImpliedVolatility
				contract.ImpliedVolatility = &iv
			}
		}

		if contract.ContractType == "put" {
			chain.Puts = append(chain.Puts, contract)
		} else {
			chain.Calls = append(chain.Calls, contract)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"calls": len(chain.Calls),
		"puts":  len(chain.Puts),
	}).Debug("Fetched option chain")
	return chain, nil
}

// ListExpirations returns the distinct expiration dates with listed contracts
// for an underlying, sorted ascending.
func (s *AlpacaMarketDataService) ListExpirations(ctx context.Context, underlying string) ([]string, error) {
	url := fmt.Sprintf("%s/v1beta1/options/contracts?underlying_symbols=%s", s.baseURL, underlying)

	var contractsResp alpacaContractsResponse
	if err := s.getJSON(ctx, url, &contractsResp); err != nil {
		return nil, fmt.Errorf("failed to fetch expirations: %w", err)
	}

	seen := make(map[string]bool)
	var expirations []string
	for _, ac := range contractsResp.OptionContracts {
		if !seen[ac.ExpirationDate] {
			seen[ac.ExpirationDate] = true
			expirations = append(expirations, ac.ExpirationDate)
		}
	}
	sort.Strings(expirations)

	return expirations, nil
}
