// Package main is the collections API command line: the HTTP server, schema
// migration and local CSV case import.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"loan-collections-api/internal/config"
	"loan-collections-api/internal/server"
	"loan-collections-api/internal/services/cases"
	"loan-collections-api/internal/services/database"
	s3service "loan-collections-api/internal/services/s3"
	"loan-collections-api/internal/services/ses"
	"loan-collections-api/internal/utils"
)

var (
	_ cases.Repository     = (*database.CaseRepository)(nil)
	_ cases.UserLookup     = (*database.UserRepository)(nil)
	_ cases.Notifier       = (*ses.Service)(nil)
	_ server.CaseService   = (*cases.Service)(nil)
	_ server.IntakeStore   = (*s3service.Service)(nil)
	_ server.HealthChecker = (*database.DB)(nil)
)

func main() {
	// Amounts go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	rootCmd := &cobra.Command{
		Use:           "collections-api",
		Short:         "Loan collections case management API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), importCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// setup loads configuration, initialises the logger and connects to the database.
func setup() (*config.Config, *database.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := utils.InitLogger(cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	utils.Logger.Info("Connected to database",
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)
	return cfg, db, nil
}

// newCaseService wires the case service. Assignment notices are enabled
// only when a sender address is configured.
func newCaseService(ctx context.Context, cfg *config.Config, db *database.DB) *cases.Service {
	repo := database.NewCaseRepository(db)
	if !cfg.NotificationsEnabled() {
		return cases.NewService(repo, nil, nil)
	}

	mailer, err := ses.NewService(ctx, cfg)
	if err != nil {
		utils.Logger.Warn("Assignment notices disabled", zap.Error(err))
		return cases.NewService(repo, nil, nil)
	}
	return cases.NewService(repo, database.NewUserRepository(db), mailer)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			defer utils.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc := newCaseService(ctx, cfg, db)

			var intake server.IntakeStore
			if store, err := s3service.NewService(ctx, cfg); err != nil {
				utils.Logger.Warn("Intake uploads disabled", zap.Error(err))
			} else {
				intake = store
			}

			utils.Logger.Info("Starting collections API",
				zap.String("addr", cfg.HTTPAddr),
				zap.String("stage", cfg.Stage),
				zap.Bool("notifications", cfg.NotificationsEnabled()),
			)
			return server.New(cfg, svc, intake, db).Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			defer utils.Sync()

			if err := db.Migrate(cmd.Context()); err != nil {
				return err
			}
			utils.Logger.Info("Schema applied")
			return nil
		},
	}
}

func importCmd() *cobra.Command {
	var (
		filePath  string
		createdBy int64
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Open cases from a local CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(filePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", filePath, err)
			}

			cfg, db, err := setup()
			if err != nil {
				return err
			}
			defer db.Close()
			defer utils.Sync()

			result, err := newCaseService(cmd.Context(), cfg, db).ImportCSV(cmd.Context(), string(content), createdBy)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			for _, msg := range result.Errors {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+msg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the CSV file")
	cmd.Flags().Int64Var(&createdBy, "created-by", 0, "user id recorded as the creator of imported cases")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("created-by")
	return cmd
}
