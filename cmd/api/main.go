package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/jesuscompany/cash-management/internal/config"
	"github.com/jesuscompany/cash-management/internal/handler"
	"github.com/jesuscompany/cash-management/internal/middleware"
	"github.com/jesuscompany/cash-management/internal/repository"
	"github.com/jesuscompany/cash-management/internal/service"
	"github.com/jesuscompany/cash-management/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc)
	sender := email.NewSender(cfg, logger)

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/health", h.Health).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/projections", h.GetProjection).Methods("GET")
	authRouter.HandleFunc("/projections/detailed", h.GetProjectionDetailed).Methods("GET")
	authRouter.HandleFunc("/metrics/summary", h.GetMetricsSummary).Methods("GET")
	authRouter.HandleFunc("/overrides", h.CreatePaymentOverride).Methods("POST")
	authRouter.HandleFunc("/scenarios", h.CreateScenario).Methods("POST")
	authRouter.HandleFunc("/scenarios", h.ListScenarios).Methods("GET")
	authRouter.HandleFunc("/scenarios/apply", h.ApplyScenarios).Methods("POST")
	authRouter.HandleFunc("/scenarios/{id:[0-9]+}", h.GetScenario).Methods("GET")
	authRouter.HandleFunc("/scenarios/{id:[0-9]+}/changes", h.AddScenarioChange).Methods("POST")
	authRouter.HandleFunc("/scenarios/{id:[0-9]+}/apply", h.ApplyScenario).Methods("POST")
	authRouter.HandleFunc("/scenarios/{id:[0-9]+}/impact", h.ScenarioImpact).Methods("POST")
	authRouter.HandleFunc("/scenarios/{id:[0-9]+}/break-even", h.ScenarioBreakEven).Methods("GET")

	// Nightly projection refresh and low cash alerts
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.RefreshCronSpec, func() {
		refreshed, alerts, err := svc.NightlyRefresh()
		if err != nil {
			logger.Errorf("Nightly refresh failed: %v", err)
			return
		}
		if cfg.AlertRecipient == "" {
			return
		}
		var alertEntities []string
		for _, alert := range alerts {
			alertEntities = append(alertEntities, alert.Entity)
			if err := sender.SendLowCashAlert(cfg.AlertRecipient, alert.Entity, alert.FirstNegativeDate, alert.ProjectedLow); err != nil {
				logger.Errorf("Failed to send low cash alert for %s: %v", alert.Entity, err)
			}
		}
		if err := sender.SendRefreshSummary(cfg.AlertRecipient, refreshed, alertEntities); err != nil {
			logger.Errorf("Failed to send refresh summary: %v", err)
		}
	})
	if err != nil {
		logger.Fatalf("Failed to schedule nightly refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
