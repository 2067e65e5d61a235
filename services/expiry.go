package services

import (
	"fmt"
	"strings"
	"time"
)

const expiryDateLayout = "2006-01-02"

// DaysToExpiry converts an expiry date string ("YYYY-MM-DD") to whole calendar
// days from today (UTC). Past dates yield negative values.
func DaysToExpiry(expiryDate string) (int, error) {
	return daysToExpiryAt(expiryDate, time.Now().UTC())
}

func daysToExpiryAt(expiryDate string, now time.Time) (int, error) {
	expiry, err := time.Parse(expiryDateLayout, expiryDate)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry date %q: %w", expiryDate, err)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(expiry.Sub(today).Hours() / 24), nil
}

// TimeToExpiryYears converts an expiry date string to a year fraction using a
// 365-day convention. Dates at or before today truncate to zero.
func TimeToExpiryYears(expiryDate string) (float64, error) {
	return timeToExpiryYearsAt(expiryDate, time.Now().UTC())
}

func timeToExpiryYearsAt(expiryDate string, now time.Time) (float64, error) {
	dte, err := daysToExpiryAt(expiryDate, now)
	if err != nil {
		return 0, err
	}
	if dte <= 0 {
		return 0, nil
	}
	return float64(dte) / 365.0, nil
}

// NormalizeTicker uppercases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
