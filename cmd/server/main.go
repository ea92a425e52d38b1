package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stockkeep/backend/config"
	httpDelivery "github.com/stockkeep/backend/internal/delivery/http"
	"github.com/stockkeep/backend/internal/infrastructure/codec"
	"github.com/stockkeep/backend/internal/infrastructure/storage"
	"github.com/stockkeep/backend/internal/usecase"
	"github.com/stockkeep/backend/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(log)

	log.Info("starting stockkeep backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"storage", cfg.Storage.Type,
	)

	store, closeStore, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Error("failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error("failed to close snapshot store", "error", err)
		}
	}()

	service := usecase.NewInventoryService(
		usecase.NewInventory(),
		store,
		codec.NewJSONCodec(),
		usecase.InventoryServiceConfig{Logger: log},
	)

	handler := httpDelivery.NewHandler(service, log)
	router := httpDelivery.SetupRouter(cfg, handler, log)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}
