package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/dundie/rewards-service/internal/auth"
	"github.com/dundie/rewards-service/internal/config"
	"github.com/dundie/rewards-service/internal/handler"
	"github.com/dundie/rewards-service/internal/middleware"
	"github.com/dundie/rewards-service/internal/repository"
	"github.com/dundie/rewards-service/internal/service"
	"github.com/dundie/rewards-service/internal/token"
	"github.com/dundie/rewards-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
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
	tokens := token.NewService(cfg.JWTSecret, cfg.SessionTTL, cfg.ResetTokenTTL)
	transport := email.NewTransport(cfg, logger)
	mailer := email.NewMailer(transport, cfg, logger)
	svc := service.NewService(repo, tokens, mailer, logger, cfg)
	guard := auth.NewGuard(tokens, repo, logger)
	h := handler.NewHandler(svc, guard, logger)

	// First-boot seeding of the management account
	if err := svc.EnsureAdminUser(); err != nil {
		logger.Fatalf("Failed to seed admin user: %v", err)
	}

	// Optional scheduled balance digest
	if cfg.DigestCron != "" {
		c := cron.New()
		if _, err := c.AddFunc(cfg.DigestCron, svc.SendBalanceDigests); err != nil {
			logger.Fatalf("Failed to schedule balance digest: %v", err)
		}
		c.Start()
		defer c.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID(logger))
	// Public routes
	r.HandleFunc("/token", h.Login).Methods("POST")
	r.HandleFunc("/password-reset", h.RequestPasswordReset).Methods("POST")
	// Password change accepts either a session token or a reset token, so it
	// stays outside the authenticated subrouter and guards itself.
	r.HandleFunc("/users/{username}/password", h.ChangePassword).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.Auth(guard))
	authRouter.HandleFunc("/users", h.ListUsers).Methods("GET")
	authRouter.HandleFunc("/users", h.CreateUser).Methods("POST")
	authRouter.HandleFunc("/users/{username}", h.GetUser).Methods("GET")
	authRouter.HandleFunc("/users/{username}", h.PatchProfile).Methods("PATCH")
	authRouter.HandleFunc("/users/{username}/transactions", h.CreateTransaction).Methods("POST")
	authRouter.HandleFunc("/users/{username}/transactions", h.ListTransactions).Methods("GET")

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
