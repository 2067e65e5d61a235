package database

import (
	"fmt"
	"option-prophet/models"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// LocalStorage implements the StorageService interface using SQLite
type LocalStorage struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewLocalStorage creates a new local storage service
func NewLocalStorage(dbPath string) (*LocalStorage, error) {
	// Ensure the directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Open SQLite database
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate schemas
	if err := db.AutoMigrate(
		&models.DBOptionQuote{},
		&models.DBPrediction{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &LocalStorage{
		db:     db,
		logger: logger,
	}, nil
}

// SaveOptionQuotes saves a batch of raw option chain rows
func (s *LocalStorage) SaveOptionQuotes(quotes []*models.DBOptionQuote) error {
	if len(quotes) == 0 {
		return nil
	}

	s.logger.WithField("count", len(quotes)).Info("Saving option quotes to database")

	result := s.db.Create(&quotes)
	if result.Error != nil {
		return fmt.Errorf("failed to save option quotes: %w", result.Error)
	}

	s.logger.WithField("saved", result.RowsAffected).Info("Option quotes saved successfully")
	return nil
}

// SavePredictions saves a batch of model evaluation rows
func (s *LocalStorage) SavePredictions(predictions []*models.DBPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	s.logger.WithField("count", len(predictions)).Info("Saving predictions to database")

	result := s.db.Create(&predictions)
	if result.Error != nil {
		return fmt.Errorf("failed to save predictions: %w", result.Error)
	}

	return nil
}

// GetPredictions retrieves stored predictions, newest first, with optional
// ticker and signal filters
func (s *LocalStorage) GetPredictions(ticker, signal string, limit int) ([]*models.DBPrediction, error) {
	var predictions []*models.DBPrediction

	query := s.db.Model(&models.DBPrediction{})
	if ticker != "" {
		query = query.Where("ticker = ?", ticker)
	}
	if signal != "" {
		query = query.Where("signal = ?", signal)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Order("snapshot_time DESC").Find(&predictions)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get predictions: %w", result.Error)
	}

	return predictions, nil
}

// GetOptionQuotes retrieves stored chain rows for a ticker and expiry
func (s *LocalStorage) GetOptionQuotes(ticker, expiryDate string) ([]*models.DBOptionQuote, error) {
	var quotes []*models.DBOptionQuote

	result := s.db.Where("ticker = ? AND expiry_date = ?", ticker, expiryDate).
		Order("strike ASC").
		Find(&quotes)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to get option quotes: %w", result.Error)
	}

	return quotes, nil
}

// CleanupOldData removes data older than the specified time
func (s *LocalStorage) CleanupOldData(before time.Time) error {
	s.logger.WithField("before", before).Info("Cleaning up old data")

	if err := s.db.Where("snapshot_time < ?", before).Delete(&models.DBOptionQuote{}).Error; err != nil {
		return fmt.Errorf("failed to delete old option quotes: %w", err)
	}

	if err := s.db.Where("snapshot_time < ?", before).Delete(&models.DBPrediction{}).Error; err != nil {
		return fmt.Errorf("failed to delete old predictions: %w", err)
	}

	s.logger.Info("Old data cleaned up successfully")
	return nil
}

// Close closes the database connection
func (s *LocalStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
