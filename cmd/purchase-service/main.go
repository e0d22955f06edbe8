package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/bakery-order-service/internal/app/background"
	"github.com/LavaJover/bakery-order-service/internal/app/setup"
	"github.com/LavaJover/bakery-order-service/internal/config"
	"github.com/LavaJover/bakery-order-service/internal/delivery/http/handlers"
	"github.com/LavaJover/bakery-order-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	logger.Setup(cfg.LogConfig)

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v\n", err)
	}
	defer deps.Close()

	uc, err := setup.InitializeUseCases(deps)
	if err != nil {
		log.Fatalf("failed to init usecases: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	background.NewBackgroundTasks(uc.Reconciler, deps.Subscriber, cfg).StartAll(ctx)

	router := handlers.NewRouter(
		handlers.NewPurchaseHandler(uc.PurchaseUsecase),
		handlers.NewWebhookHandler(uc.Reconciler),
		handlers.NewAdminHandler(deps.AuditLogger),
		deps.Registry,
	)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	go func() {
		slog.Info("http server started", "addr", server.Addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
