// Upload URL Lambda entry point
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"loan-collections-api/internal/config"
	"loan-collections-api/internal/handlers"
	s3service "loan-collections-api/internal/services/s3"
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

	store, err := s3service.NewService(context.Background(), cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	// Start Lambda
	lambda.Start(handlers.NewPresignedURLHandler(store).Handle)
}
