package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"option-prophet/interfaces"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultRiskFreeRate is used whenever the rate store cannot be reached.
const DefaultRiskFreeRate = 0.05

// SupabaseRateProvider fetches the latest risk-free rate from a Supabase REST
// store. It never fails: any degradation is absorbed into a fallback rate and
// reported through the RateQuote source tag.
type SupabaseRateProvider struct {
	restURL string
	apiKey  string
	logger  *logrus.Logger
	client  *http.Client
}

// NewSupabaseRateProvider creates a rate provider for the given Supabase
// project URL and anon key. Either may be empty, in which case every call
// returns the fallback rate.
func NewSupabaseRateProvider(supabaseURL, apiKey string) *SupabaseRateProvider {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	restURL := strings.TrimRight(strings.Trim(strings.TrimSpace(supabaseURL), `"'`), "/")
	if restURL != "" && !strings.HasSuffix(restURL, "/rest/v1") {
		restURL += "/rest/v1"
	}

	return &SupabaseRateProvider{
		restURL: restURL,
		apiKey:  strings.Trim(strings.TrimSpace(apiKey), `"'`),
		logger:  logger,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type riskFreeRateRow struct {
	RateAnnual float64 `json:"rate_annual"`
	FetchedAt  string  `json:"fetched_at"`
}

// RiskFreeRate returns the latest stored annualized rate, or the default
// fallback rate with a provenance tag describing why the store was skipped.
func (p *SupabaseRateProvider) RiskFreeRate(ctx context.Context) interfaces.RateQuote {
	if p.restURL == "" || p.apiKey == "" {
		p.logger.Warn("Missing Supabase credentials; using default risk-free rate")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackNoCredentials}
	}

	url := fmt.Sprintf("%s/risk_free_rates?select=rate_annual,fetched_at&order=fetched_at.desc&limit=1", p.restURL)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to build risk-free rate request")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackError}
	}
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WithError(err).Warn("Failed to fetch risk-free rate")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		p.logger.WithField("status", resp.StatusCode).Warn("Risk-free rate request rejected")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackError}
	}

	var rows []riskFreeRateRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		p.logger.WithError(err).Warn("Failed to decode risk-free rate response")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackError}
	}

	if len(rows) == 0 {
		p.logger.Warn("No risk-free rate rows found; using default")
		return interfaces.RateQuote{Rate: DefaultRiskFreeRate, Source: interfaces.RateSourceFallbackEmptySource}
	}

	return interfaces.RateQuote{Rate: rows[0].RateAnnual, Source: interfaces.RateSourcePrimary}
}
