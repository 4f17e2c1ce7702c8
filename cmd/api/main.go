package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-owners/internal/config"
	"pet-owners/internal/platform/logger"
	"pet-owners/internal/router"

	"go.uber.org/zap"
)

// @title Pet Owners API
// @version 1.0
// @description Owners configurados y sus mascotas.
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		// todavía no hay logger configurado
		zap.NewExample().Fatal("config error", zap.Error(err))
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
		File:   cfg.LogFile,
	})
	defer func() { _ = log.Sync() }()

	app, err := router.New(router.Options{
		Owners: cfg.Owners,
		Driver: cfg.DBDriver,
		DSN:    cfg.DBDSN,
		Logger: log,
	})
	if err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
	defer func() { _ = app.Close() }()

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.DBDriver))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server error", zap.Error(err))
	}
}
