package main

import (
	"net/http"
	"option-prophet/controllers"
	"option-prophet/database"
	"option-prophet/pricing"
	"option-prophet/services"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/option-prophet.db"
	}

	storage, err := database.NewLocalStorage(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open local storage")
	}
	defer storage.Close()

	marketData := services.NewAlpacaMarketDataService(
		os.Getenv("APCA_API_KEY_ID"),
		os.Getenv("APCA_API_SECRET_KEY"),
	)
	rates := services.NewSupabaseRateProvider(
		os.Getenv("SUPABASE_URL"),
		os.Getenv("SUPABASE_ANON_KEY"),
	)

	evaluator := pricing.NewContractEvaluator(rates)
	loader := services.NewChainLoaderService(marketData, evaluator, storage)
	vol := services.NewHistoricalVolService(marketData)

	predictController := controllers.NewPredictController(evaluator)
	chainController := controllers.NewChainController(loader, storage, vol)

	router := gin.Default()
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/predict", predictController.HandlePredict)
		v1.POST("/chains/load", chainController.HandleLoadChain)
		v1.GET("/predictions", chainController.HandleListPredictions)
		v1.GET("/volatility/:ticker", chainController.HandleGetVolatility)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.WithField("port", port).Info("Starting option-prophet server")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Server exited")
	}
}
