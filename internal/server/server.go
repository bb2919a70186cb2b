// Package server exposes the collections case API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"loan-collections-api/internal/config"
	"loan-collections-api/internal/models"
	s3service "loan-collections-api/internal/services/s3"
	"loan-collections-api/internal/utils"
)

// CaseService is the case workflow the API drives.
type CaseService interface {
	CreateCase(ctx context.Context, req *models.CreateCaseRequest) (int64, error)
	GetCaseByID(ctx context.Context, caseID int64) (*models.CaseDetailDTO, error)
	GetAgentWorklist(ctx context.Context, userID int64, date *time.Time) ([]models.CaseSummaryDTO, error)
	GetCases(ctx context.Context, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error)
	GetCasesByStatus(ctx context.Context, status string, page models.PaginationParams) (models.PagedResponse[models.CaseSummaryDTO], error)
	SearchCases(ctx context.Context, filter models.CaseSearchFilter) (models.PagedResponse[models.CaseSummaryDTO], error)
	GetCasesByDPDBucket(ctx context.Context, bucket string) ([]models.CaseSummaryDTO, error)
	GetCasesNeedingFieldVisit(ctx context.Context) ([]models.CaseSummaryDTO, error)
	GetActiveCasesByUser(ctx context.Context, userID int64) ([]models.CaseSummaryDTO, error)
	GetOverduePTPCases(ctx context.Context) ([]models.CaseSummaryDTO, error)
	GetStatusHistory(ctx context.Context, caseID int64) ([]*models.CaseStatusHistory, error)
	UpdateCaseStatus(ctx context.Context, caseID int64, req *models.UpdateCaseStatusRequest) (bool, error)
	RefreshDelinquency(ctx context.Context, caseID int64, req *models.RefreshDelinquencyRequest) (bool, error)
	AssignCase(ctx context.Context, req *models.AssignCaseRequest) (bool, error)
	ReassignCase(ctx context.Context, caseID int64, req *models.ReassignCaseRequest) (bool, error)
	DeleteCase(ctx context.Context, caseID int64) (bool, error)
	GetCaseStatistics(ctx context.Context, userID *int64) (*models.CaseStatisticsDTO, error)
	ImportCSV(ctx context.Context, content string, createdBy int64) (*models.IntakeResult, error)
}

// IntakeStore issues upload URLs for intake files.
type IntakeStore interface {
	GeneratePresignedUploadURL(ctx context.Context, fileName string, expiryMinutes int) (*s3service.PresignedURLResult, error)
}

// HealthChecker reports database reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Server is the HTTP API.
type Server struct {
	cfg    *config.Config
	cases  CaseService
	intake IntakeStore
	db     HealthChecker
	router chi.Router
}

// New builds the server and its routes. intake and db may be nil.
func New(cfg *config.Config, svc CaseService, intake IntakeStore, db HealthChecker) *Server {
	s := &Server{
		cfg:    cfg,
		cases:  svc,
		intake: intake,
		db:     db,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(instrument)
	r.Use(middleware.Timeout(time.Minute))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/cases", func(r chi.Router) {
		r.Get("/", s.listCases)
		r.Post("/", s.createCase)
		r.Get("/search", s.searchCases)
		r.Get("/statistics", s.caseStatistics)
		r.Get("/overdue-ptp", s.overduePTPCases)
		r.Get("/field-visits", s.fieldVisitCases)
		r.Post("/assign", s.assignCase)
		r.Get("/worklist/{userId}", s.agentWorklist)
		r.Get("/status/{status}", s.casesByStatus)
		r.Get("/bucket/{bucket}", s.casesByBucket)
		r.Get("/user/{userId}/active", s.activeCasesByUser)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.getCase)
			r.Delete("/", s.deleteCase)
			r.Get("/history", s.statusHistory)
			r.Put("/status", s.updateStatus)
			r.Put("/reassign", s.reassignCase)
			r.Put("/delinquency", s.refreshDelinquency)
		})
	})

	r.Route("/api/intake", func(r chi.Router) {
		r.Post("/upload-url", s.uploadURL)
		r.Post("/import", s.importCSV)
	})

	return r
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	origins := []string{"*"}
	if s.cfg != nil && len(s.cfg.CORSAllowedOrigins) > 0 {
		origins = s.cfg.CORSAllowedOrigins
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.HTTPAddr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.HTTPReadTimeout,
		WriteTimeout: s.cfg.HTTPWriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.GetLogger().Info("HTTP server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		utils.GetLogger().Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	dbStatus := "not configured"
	if s.db != nil {
		dbStatus = "connected"
		if err := s.db.HealthCheck(r.Context()); err != nil {
			utils.GetLogger().Warn("Database health check failed", zap.Error(err))
			dbStatus = "disconnected"
		}
	}

	stage := ""
	if s.cfg != nil {
		stage = s.cfg.Stage
	}

	respondOK(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  dbStatus,
		"stage":     stage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, "Loan collections API is running")
}
