// Command worker consumes ledger events and recomputes the settlement plan of
// every group that changed, logging the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/money"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Worker failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.AMQP.URL == "" {
		return errors.New("worker needs SPLITLEDGER_AMQP_URL")
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	// The worker serves no HTTP endpoint, so there is nothing to scrape metrics from.
	ledger := service.NewLedger(store, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Worker starting", "exchange", cfg.AMQP.Exchange, "queue", cfg.AMQP.Queue)
	return events.ConsumeWithRetry(ctx, cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue, logger, replan(ledger, logger))
}

// replan returns a handler that logs the fresh settlement plan of the event's group.
func replan(ledger *service.Ledger, logger *slog.Logger) events.Handler {
	return func(ctx context.Context, e events.Event) error {
		plan, err := ledger.Plan(ctx, e.GroupID)
		if errors.Is(err, storage.ErrNotFound) {
			logger.Info("Skipping event for deleted group", "type", e.Type, "group_id", e.GroupID)
			return nil
		}
		var unbalanced *calculator.UnbalancedRecordError
		var violation *calculator.InvariantViolationError
		if errors.As(err, &unbalanced) || errors.As(err, &violation) {
			// Redelivery cannot fix stored data.
			logger.Error("Cannot settle group", "type", e.Type, "group_id", e.GroupID, "error", err)
			return nil
		}
		if err != nil {
			return err
		}

		logger.Info("Settlement plan updated",
			"type", e.Type,
			"group_id", e.GroupID,
			"subject_id", e.SubjectID,
			"transfers", len(plan.Transactions),
		)
		for _, txn := range plan.Transactions {
			logger.Debug("Transfer", "group_id", e.GroupID, "from", txn.From, "to", txn.To, "amount", money.FormatCents(txn.Amount))
		}
		return nil
	}
}
