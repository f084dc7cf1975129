package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/statement-analyzer/internal/config"
	"github.com/Dan9191/statement-analyzer/internal/handler"
	"github.com/Dan9191/statement-analyzer/internal/middleware"
	"github.com/Dan9191/statement-analyzer/internal/repository"
	"github.com/Dan9191/statement-analyzer/internal/scheduler"
	"github.com/Dan9191/statement-analyzer/internal/service"
	"github.com/Dan9191/statement-analyzer/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Initialize database when persistence is configured
	var store service.ReportStore
	if cfg.PersistenceEnabled() {
		db, err := sql.Open("postgres", cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("Failed to ping database: %v", err)
		}
		if err := repository.Migrate(db); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
		store = repository.NewRepository(db)
	} else {
		logger.Warn("DB_CONN is empty, report persistence disabled")
	}

	var mailer service.Mailer
	if cfg.MailEnabled() {
		mailer = email.NewSender(cfg, logger)
	}

	// Initialize layers
	svc := service.NewService(store, mailer, logger, cfg)
	h := handler.NewHandler(svc, logger, cfg.MaxUploadBytes)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logging(logger), middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	h.Routes(r, middleware.AuthMiddleware(cfg))

	// Nightly report
	sched, err := scheduler.NewScheduler(cfg.ReportCron, svc, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server stopped")
}
