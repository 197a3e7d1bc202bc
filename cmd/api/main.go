package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/microfin/collection-service/internal/config"
	"github.com/microfin/collection-service/internal/handler"
	"github.com/microfin/collection-service/internal/middleware"
	"github.com/microfin/collection-service/internal/models"
	"github.com/microfin/collection-service/internal/repository"
	"github.com/microfin/collection-service/internal/service"
	"github.com/microfin/collection-service/internal/sweeper"
	"github.com/microfin/collection-service/internal/utils/email"
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
	mailer := email.NewSender(cfg, logger)
	svc := service.NewService(repo, logger, cfg, mailer)
	h := handler.NewHandler(svc)

	// Start the nightly penalty sweep and reminder jobs
	sw := sweeper.New(svc, logger, cfg)
	if err := sw.Start(); err != nil {
		logger.Fatalf("Failed to start sweeper: %v", err)
	}
	defer sw.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	// Admin routes
	adminRouter := authRouter.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireRole(string(models.RoleAdmin)))
	adminRouter.HandleFunc("/customers", h.CreateCustomer).Methods("POST")
	adminRouter.HandleFunc("/customers", h.ListCustomers).Methods("GET")
	adminRouter.HandleFunc("/customers/{id}", h.GetCustomer).Methods("GET")
	adminRouter.HandleFunc("/customers/{id}", h.UpdateCustomer).Methods("PUT")
	adminRouter.HandleFunc("/collectors", h.ListCollectors).Methods("GET")
	adminRouter.HandleFunc("/tokens", h.IssueToken).Methods("POST")
	adminRouter.HandleFunc("/tokens", h.ListTokens).Methods("GET")
	adminRouter.HandleFunc("/tokens/{id}", h.GetToken).Methods("GET")
	adminRouter.HandleFunc("/tokens/{id}/cancel", h.CancelToken).Methods("POST")
	adminRouter.HandleFunc("/tokens/{id}/close", h.CloseToken).Methods("POST")
	adminRouter.HandleFunc("/batches", h.IssueBatch).Methods("POST")
	adminRouter.HandleFunc("/batches/{id}", h.GetBatch).Methods("GET")
	adminRouter.HandleFunc("/overdue", h.ListOverdue).Methods("GET")
	adminRouter.HandleFunc("/overdue/sweep", h.RunSweep).Methods("POST")
	adminRouter.HandleFunc("/entries/{id}/waive", h.WaivePenalty).Methods("POST")
	adminRouter.HandleFunc("/entries/{id}/override", h.OverridePenalty).Methods("POST")
	adminRouter.HandleFunc("/penalty-configs", h.CreatePenaltyConfig).Methods("POST")
	adminRouter.HandleFunc("/penalty-configs", h.ListPenaltyConfigs).Methods("GET")
	adminRouter.HandleFunc("/penalty-configs/active", h.GetActivePenaltyConfig).Methods("GET")
	adminRouter.HandleFunc("/penalty-configs/{id}/activate", h.ActivatePenaltyConfig).Methods("POST")
	adminRouter.HandleFunc("/deposits", h.RecordCashDeposit).Methods("POST")
	adminRouter.HandleFunc("/deposits", h.ListCashDeposits).Methods("GET")
	adminRouter.HandleFunc("/ledger/{id}", h.GetStatement).Methods("GET")
	adminRouter.HandleFunc("/payments", h.ListPayments).Methods("GET")
	adminRouter.HandleFunc("/payments/{id}/verify", h.VerifyPayment).Methods("GET")
	adminRouter.HandleFunc("/reports/daily", h.DailySummary).Methods("GET")
	adminRouter.HandleFunc("/reports/aging", h.OverdueAging).Methods("GET")
	adminRouter.HandleFunc("/reports/day-sheet", h.DaySheet).Methods("GET")

	// Collector portal routes
	collectorRouter := authRouter.PathPrefix("/collector").Subrouter()
	collectorRouter.Use(middleware.RequireRole(string(models.RoleCollector)))
	collectorRouter.HandleFunc("/dashboard", h.CollectorDashboard).Methods("GET")
	collectorRouter.HandleFunc("/payments", h.RecordPayment).Methods("POST")
	collectorRouter.HandleFunc("/tokens/{id}", h.GetToken).Methods("GET")

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
