package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"smartparking/internal/notify"
	"smartparking/pkg/config"
	"smartparking/pkg/events"
	"smartparking/pkg/kafka"
	kafkaconfig "smartparking/pkg/kafka/config"
	kafkamiddleware "smartparking/pkg/kafka/middleware"
)

const JobName = "notifier"

func main() {
	cfg := config.LoadJob(JobName)

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	bus := events.NewBus(cfg.Log)
	subs := notify.LogAll(bus, cfg.Log)
	defer func() {
		for _, s := range subs {
			s.Unsubscribe()
		}
	}()

	replayer := notify.NewReplayer(bus, cfg.Log)
	consumer, err := kafka.NewConsumer(kafkaCfg, cfg.EventsTopic, kafkaCfg.EventsDLQTopic, replayer.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	metrics := kafkamiddleware.NewMetrics()
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	consumer.Use(metrics.Consumer())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier", "topic", cfg.EventsTopic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close Kafka consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped", "metrics", metrics.Snapshot())
}
