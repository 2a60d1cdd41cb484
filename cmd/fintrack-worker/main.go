package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/config"
	"fintrack/internal/events"
	applog "fintrack/internal/log"
)

// The worker tails the transaction-added queue and writes an audit log
// line per event. It is the consuming counterpart of the server's
// publisher and runs as a separate process.
func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.ComponentEvents, applog.LevelFromEnv())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required to run the event worker")
		os.Exit(1)
	}

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting ledger event worker",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	err = client.ConsumeTransactionAdded(ctx, func(msg *events.TransactionAddedMessage) error {
		logger.Info("Transaction recorded",
			"id", msg.ID,
			"user_id", msg.UserID,
			"type", msg.Type.String(),
			"category", msg.Category,
			"amount", msg.Amount,
			"emitted_at", msg.Timestamp)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
