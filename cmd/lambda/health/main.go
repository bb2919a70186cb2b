// Health Check Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"loan-collections-api/internal/config"
	"loan-collections-api/internal/handlers"
	"loan-collections-api/internal/services/database"
	"loan-collections-api/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	// Report the database as not configured rather than failing cold start
	var db handlers.HealthChecker
	if conn, err := database.New(cfg); err != nil {
		utils.GetLogger().Warn("Database unavailable at startup", zap.Error(err))
	} else {
		defer conn.Close()
		db = conn
	}

	handler := handlers.NewHealthHandler(db, cfg.Stage)

	// Start Lambda
	lambda.Start(handler.Handle)
}
