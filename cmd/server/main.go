package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskkeeper/internal/app/server/api"
	"taskkeeper/internal/app/server/config"
	"taskkeeper/internal/domain/task"
	"taskkeeper/internal/infrastructure/storage/memory"
	"taskkeeper/internal/infrastructure/storage/postgres"
	"taskkeeper/internal/utils/logger"
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)

	var repo task.Repository
	if cfg.DB.DatabaseURI != "" {
		storage, err := postgres.New(cfg)
		if err != nil {
			log.Error("failed to init postgres storage", "error", err)
			os.Exit(1)
		}
		defer storage.Close()
		repo = postgres.NewTaskRepository(storage.Pool(), log)
	} else {
		log.Warn("DATABASE_URI is not set, using in-memory storage")
		repo = memory.NewRepository()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := task.NewService(repo, log, nil)
	if err := service.Init(ctx); err != nil {
		log.Error("failed to init reconcile service", "error", err)
		os.Exit(1)
	}

	mux := api.New(service, log)
	server := &http.Server{
		Addr:    cfg.Server.RunAddress,
		Handler: mux,
	}

	go func() {
		log.Info("server started", "address", cfg.Server.RunAddress, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	log.Info("server stopped")
}
