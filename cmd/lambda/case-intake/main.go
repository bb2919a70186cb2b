// Case Intake Lambda entry point, triggered by uploads to the intake bucket
package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"

	"loan-collections-api/internal/config"
	"loan-collections-api/internal/handlers"
	"loan-collections-api/internal/services/cases"
	"loan-collections-api/internal/services/database"
	s3service "loan-collections-api/internal/services/s3"
	"loan-collections-api/internal/services/ses"
	"loan-collections-api/internal/utils"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// Initialize logger
	_ = utils.InitLogger(cfg.LogLevel)
	defer utils.Sync()

	db, err := database.New(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	store, err := s3service.NewService(ctx, cfg)
	if err != nil {
		panic("Failed to create S3 service: " + err.Error())
	}

	svc := cases.NewService(database.NewCaseRepository(db), nil, nil)
	if cfg.NotificationsEnabled() {
		if mailer, err := ses.NewService(ctx, cfg); err == nil {
			svc = cases.NewService(database.NewCaseRepository(db), database.NewUserRepository(db), mailer)
		}
	}

	handler := handlers.NewCaseIntakeHandler(func(bucket string) handlers.ObjectStore {
		return store.ForBucket(bucket)
	}, svc, cfg.IntakeUserID)

	// Start Lambda
	lambda.Start(handler.Handle)
}
