package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/stockkeep/backend/config"
	"github.com/stockkeep/backend/internal/delivery/shell"
	"github.com/stockkeep/backend/internal/infrastructure/codec"
	"github.com/stockkeep/backend/internal/infrastructure/storage"
	"github.com/stockkeep/backend/internal/usecase"
	"github.com/stockkeep/backend/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stockkeep: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// stdout belongs to the menu
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("initialize snapshot store: %w", err)
	}
	defer closeStore()

	service := usecase.NewInventoryService(
		usecase.NewInventory(),
		store,
		codec.NewJSONCodec(),
		usecase.InventoryServiceConfig{Logger: log},
	)

	err = shell.NewShell(service, os.Stdin, os.Stdout).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
