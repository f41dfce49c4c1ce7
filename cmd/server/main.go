package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segyhp/loan-desk/internal/config"
	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/handler"
	"github.com/segyhp/loan-desk/internal/logging"
	"github.com/segyhp/loan-desk/internal/query"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/service"
	"github.com/segyhp/loan-desk/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	ctx := context.Background()

	// Initialize record store
	kv, err := store.Open(ctx, cfg.StoreOptions(), logger)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	repos := repository.New(kv, logger)

	created, err := repository.EnsureDefaultAdmin(ctx, repos.Users, domain.User{
		Name:     "Administrador",
		Email:    cfg.Business.AdminEmail,
		Password: cfg.Business.AdminPass,
		Role:     domain.RoleChefe,
	})
	if err != nil {
		logger.Error("failed to seed default admin", "error", err)
		os.Exit(1)
	}
	if created {
		logger.Warn("default admin created, change its password", "email", cfg.Business.AdminEmail)
	}

	// Initialize services
	loc := cfg.Location()
	contracts := service.NewContractService(repos, kv, loc, time.Now, logger)
	payments := service.NewPaymentService(repos, loc, time.Now, logger)
	dispatch := service.NewDispatchService(repos, time.Now, logger)
	renewals := service.NewRenewalService(repos, time.Now, logger)

	if _, err := contracts.MigrateLegacy(ctx); err != nil {
		logger.Error("legacy migration failed", "error", err)
		os.Exit(1)
	}

	// Portfolio gauges follow writes, coalesced
	refresh := query.NewDebouncer(query.DebounceDelay, func() {
		if _, err := payments.RefreshGauges(context.Background()); err != nil {
			logger.Warn("gauge refresh failed", "error", err)
		}
	})
	defer refresh.Stop()
	contracts.OnChange(refresh)
	payments.OnChange(refresh)
	refresh.Trigger()

	router := handler.NewRouter(handler.Handlers{
		Contracts: handler.NewContractHandler(contracts, payments, loc, time.Now),
		Dispatch:  handler.NewDispatchHandler(dispatch),
		Renewals:  handler.NewRenewalHandler(renewals),
		Health:    handler.NewHealthHandler(kv, cfg.Store.Driver, cfg.GetHealthTimeout()),
	}, logger)

	// Start server
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "addr", server.Addr, "env", cfg.Server.Env, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
