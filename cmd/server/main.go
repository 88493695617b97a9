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

	"github.com/joho/godotenv"
	"github.com/liamcoop/attrition/features"
	"github.com/liamcoop/attrition/history"
	"github.com/liamcoop/attrition/internal/config"
	"github.com/liamcoop/attrition/internal/logger"
	"github.com/liamcoop/attrition/internal/metrics"
	"github.com/liamcoop/attrition/model"
	"github.com/liamcoop/attrition/predict"
	_ "github.com/lib/pq"
)

func openDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}

	// A missing or malformed artifact is fatal
	predictor, err := model.NewLoader(cfg.ModelPath).Get()
	if err != nil {
		logger.Fatal("failed to load model", "path", cfg.ModelPath, "error", err)
	}
	if predictor.NumFeature() != features.VectorLen() {
		logger.Fatal("model does not match the feature pipeline",
			"path", cfg.ModelPath,
			"numFeature", predictor.NumFeature(),
			"vectorLength", features.VectorLen(),
		)
	}
	logger.Info("model loaded", "path", cfg.ModelPath, "trees", predictor.NumTrees())

	builder, err := features.NewBuilder()
	if err != nil {
		logger.Fatal("failed to compile derived features", "error", err)
	}

	rec := metrics.New()
	opts := []predict.Option{
		predict.WithMetrics(rec),
		predict.WithModelPath(cfg.ModelPath),
	}

	var db *sql.DB
	if cfg.HistoryEnabled() {
		db, err = openDB(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to history database", "error", err)
		}
		defer db.Close()
		opts = append(opts, predict.WithHistory(history.NewPostgresStore(db)))
		logger.Info("prediction history enabled")
	}

	server, err := NewServer(ServerConfig{
		Service:        predict.NewService(builder, predictor, opts...),
		Model:          predictor,
		Metrics:        rec,
		DB:             db,
		HistoryLimit:   cfg.HistoryLimit,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}
	logger.Info("server stopped")

	if err := logger.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "logger shutdown error: %v\n", err)
	}
}
