package controllers

import (
	"net/http"
	"option-prophet/pricing"
	"option-prophet/services"

	"github.com/gin-gonic/gin"
)

// PredictController handles single-contract valuation requests
type PredictController struct {
	evaluator *pricing.ContractEvaluator
}

// NewPredictController creates a new predict controller
func NewPredictController(evaluator *pricing.ContractEvaluator) *PredictController {
	return &PredictController{
		evaluator: evaluator,
	}
}

// PredictRequest is the body of a valuation request.
type PredictRequest struct {
	Ticker     string   `json:"ticker"`
	SpotPrice  float64  `json:"spot_price" binding:"required"`
	Strike     float64  `json:"strike" binding:"required"`
	ExpiryDate string   `json:"expiry_date" binding:"required"` // "YYYY-MM-DD"
	OptionType string   `json:"option_type" binding:"required"` // "call" / "put" / "C" / "P"
	Bid        *float64 `json:"bid"`
	Ask        *float64 `json:"ask"`
	LastPrice  *float64 `json:"last_price"`
	IVOverride *float64 `json:"iv_override"` // force sigma if desired
}

// HandlePredict evaluates a single option contract
// POST /api/v1/predict
func (pc *PredictController) HandlePredict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	kind, err := pricing.ParseOptionKind(req.OptionType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid option type",
			"details": err.Error(),
		})
		return
	}

	tYears, err := services.TimeToExpiryYears(req.ExpiryDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid expiry date",
			"details": err.Error(),
		})
		return
	}

	result, err := pc.evaluator.Evaluate(c.Request.Context(), pricing.ContractInputs{
		Spot:         req.SpotPrice,
		Strike:       req.Strike,
		TimeToExpiry: tYears,
		Kind:         kind,
		Bid:          req.Bid,
		Ask:          req.Ask,
		LastPrice:    req.LastPrice,
		IVOverride:   req.IVOverride,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to evaluate contract",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"input":  req,
		"result": result,
	})
}
