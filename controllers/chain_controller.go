package controllers

import (
	"net/http"
	"option-prophet/interfaces"
	"option-prophet/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ChainController handles chain ingestion and stored prediction queries
type ChainController struct {
	loader  *services.ChainLoaderService
	storage interfaces.StorageService
	vol     *services.HistoricalVolService
}

// NewChainController creates a new chain controller
func NewChainController(loader *services.ChainLoaderService, storage interfaces.StorageService, vol *services.HistoricalVolService) *ChainController {
	return &ChainController{
		loader:  loader,
		storage: storage,
		vol:     vol,
	}
}

// ChainLoadRequest is the body of a chain load request.
type ChainLoadRequest struct {
	Ticker     string `json:"ticker" binding:"required"`
	ExpiryDate string `json:"expiry_date" binding:"required"` // "YYYY-MM-DD"
}

// HandleLoadChain fetches an option chain, evaluates it and stores the rows
// POST /api/v1/chains/load
func (cc *ChainController) HandleLoadChain(c *gin.Context) {
	var req ChainLoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	summary, err := cc.loader.LoadAndStoreChain(c.Request.Context(), req.Ticker, req.ExpiryDate)
	if err != nil {
		if be, ok := services.IsBadExpiry(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":                 "No chain for requested expiry",
				"ticker":                be.Ticker,
				"requested_expiry":      be.RequestedExpiry,
				"available_expirations": be.AvailableExpirations,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to load chain",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// HandleListPredictions lists stored predictions
// GET /api/v1/predictions?ticker=AAPL&signal=BUY&limit=100
func (cc *ChainController) HandleListPredictions(c *gin.Context) {
	ticker := services.NormalizeTicker(c.Query("ticker"))
	signal := c.Query("signal")

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	predictions, err := cc.storage.GetPredictions(ticker, signal, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get predictions",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(predictions),
		"predictions": predictions,
	})
}

// HandleGetVolatility returns the annualized realized volatility of a ticker
// GET /api/v1/volatility/:ticker?window=252
func (cc *ChainController) HandleGetVolatility(c *gin.Context) {
	ticker := services.NormalizeTicker(c.Param("ticker"))
	if ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "ticker required",
		})
		return
	}

	window := services.DefaultVolWindow
	if raw := c.Query("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "window must be a positive integer",
			})
			return
		}
		window = parsed
	}

	vol, err := cc.vol.AnnualizedVolatility(c.Request.Context(), ticker, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compute volatility",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":      ticker,
		"window_days": window,
		"annual_vol":  vol,
	})
}
