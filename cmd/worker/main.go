package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/skybook/config"
	"github.com/Domenick1991/skybook/internal/kafka"
	"github.com/Domenick1991/skybook/internal/sms"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("kafka.brokers must be set for the worker")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, logger)
	defer consumer.Close()

	sender := sms.NewSender(cfg.SMS, logger)
	if sender.Simulated() {
		logger.Warn("no sms provider configured, alerts will only be logged")
	}

	handler := kafka.AlertHandler(logger, func(ctx context.Context, event kafka.AlertEvent) error {
		if err := sender.Deliver(ctx, event); err != nil {
			logger.Error("deliver alert", "id", event.ID, "flight", event.FlightNumber, "error", err)
		}
		return nil
	})

	logger.Info("sms worker started", "topic", cfg.Kafka.NotificationsTopic, "group", cfg.Kafka.GroupID)
	if err := consumer.Consume(ctx, handler); err != nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	logger.Info("sms worker stopped")
}
