package interfaces

import (
	"option-prophet/models"
	"time"
)

// StorageService defines the interface for local data persistence.
type StorageService interface {
	SaveOptionQuotes(quotes []*models.DBOptionQuote) error
	SavePredictions(predictions []*models.DBPrediction) error
	GetPredictions(ticker, signal string, limit int) ([]*models.DBPrediction, error)
	CleanupOldData(before time.Time) error
}
