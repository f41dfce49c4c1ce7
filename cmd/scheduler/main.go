package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/loan-desk/internal/config"
	"github.com/segyhp/loan-desk/internal/domain"
	"github.com/segyhp/loan-desk/internal/logging"
	"github.com/segyhp/loan-desk/internal/repository"
	"github.com/segyhp/loan-desk/internal/service"
	"github.com/segyhp/loan-desk/internal/status"
	"github.com/segyhp/loan-desk/internal/store"
)

const jobTimeout = 2 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format).With("component", "scheduler")
	slog.SetDefault(logger)

	kv, err := store.Open(context.Background(), cfg.StoreOptions(), logger)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer kv.Close()

	loc := cfg.Location()
	payments := service.NewPaymentService(repository.New(kv, logger), loc, time.Now, logger)

	// Initialize cron scheduler
	c := cron.New(cron.WithSeconds(), cron.WithLocation(loc))

	if err := setupCronJobs(c, cfg, payments, logger); err != nil {
		logger.Error("failed to schedule jobs", "error", err)
		os.Exit(1)
	}

	// Start the scheduler
	c.Start()
	logger.Info("scheduler started", "timezone", loc.String())

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, payments *service.PaymentService, logger *slog.Logger) error {
	if _, err := c.AddFunc(cfg.Scheduler.OverdueCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		sweepOverdue(ctx, payments, logger)
	}); err != nil {
		return err
	}

	if _, err := c.AddFunc(cfg.Scheduler.ReminderCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		sendReminders(ctx, payments, logger)
	}); err != nil {
		return err
	}

	logger.Info("cron jobs scheduled", "overdue", cfg.Scheduler.OverdueCron, "reminders", cfg.Scheduler.ReminderCron)
	return nil
}

// sweepOverdue refreshes the status gauges and lists every overdue contract
func sweepOverdue(ctx context.Context, payments *service.PaymentService, logger *slog.Logger) {
	counts, err := payments.RefreshGauges(ctx)
	if err != nil {
		logger.Error("overdue sweep failed", "error", err)
		return
	}

	items, err := payments.Portfolio(ctx)
	if err != nil {
		logger.Error("overdue sweep failed", "error", err)
		return
	}

	for _, it := range items {
		if it.Status.State != status.Overdue {
			continue
		}
		logger.Warn("contract overdue",
			"contract_id", it.Contract.ID,
			"cpf", it.Contract.Cliente.CPF,
			"cliente", it.Contract.Cliente.Nome,
			"parcela", it.Status.NextIndex+1,
			"data", it.Status.Next.Data,
		)
	}
	logger.Info("overdue sweep finished", "vencido", counts[status.Overdue], "proximo", counts[status.DueSoon])
}

// sendReminders logs a WhatsApp link for each contract due soon
func sendReminders(ctx context.Context, payments *service.PaymentService, logger *slog.Logger) {
	items, err := payments.Portfolio(ctx)
	if err != nil {
		logger.Error("reminder job failed", "error", err)
		return
	}

	sent := 0
	for _, it := range items {
		if it.Status.State != status.DueSoon || it.Contract.Cliente.Telefone == "" {
			continue
		}
		logger.Info("payment reminder",
			"contract_id", it.Contract.ID,
			"cliente", it.Contract.Cliente.Nome,
			"data", it.Status.Next.Data,
			"valor", it.Status.Next.Valor.StringFixed(2),
			"whatsapp", domain.WhatsAppURL(it.Contract.Cliente.Telefone),
		)
		sent++
	}
	logger.Info("reminder job finished", "reminders", sent)
}
