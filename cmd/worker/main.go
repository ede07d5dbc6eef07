package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	contracts "workflowhub/contracts/mq"
	"workflowhub/internal/bootstrap"
	"workflowhub/internal/mqhandler"
	"workflowhub/pkg/config"
	"workflowhub/pkg/logger"
	"workflowhub/pkg/mq"
	"workflowhub/pkg/util"
)

const retryCounterTTL = time.Hour

func main() {
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	if cfg.MQ.URL == "" {
		log.Fatal("MQ_URL is required for the event worker")
	}

	log.Info("Starting event ingest worker...",
		zap.String("queue", contracts.QueueEventIngest),
		zap.String("routing_key", contracts.RoutingEventIngest),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer app.Close()

	// Retry counting and parking are skipped when Redis or RabbitMQ
	// publishing is unavailable.
	var retryCounter mqhandler.RetryCounter
	if app.Redis != nil {
		retryCounter = util.NewRetryCounter(app.Redis, retryCounterTTL)
	}
	var dlq mqhandler.DLQPublisher
	if app.Publisher != nil {
		name, err := app.Publisher.EnsureDLQ(contracts.RoutingEventIngest)
		if err != nil {
			log.Warn("Failed to declare DLQ queue", zap.Error(err))
		} else {
			log.Info("DLQ queue ready", zap.String("queue", name))
		}
		dlq = app.Publisher
	}

	handler := mqhandler.NewEventIngestHandler(app.Service, retryCounter, dlq, log)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, contracts.QueueEventIngest, contracts.RoutingEventIngest, cfg.MQ.Concurrency, log)
	if err != nil {
		log.Fatal("Failed to init event ingest consumer", zap.Error(err))
	}
	defer consumer.Close()
	consumer.SetHandler(handler.Handle)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := consumer.StartConsuming(ctx); err != nil {
			log.Fatal("Event ingest consumer failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
		log.Warn("Delivery channel closed", zap.Bool("broker_connected", consumer.IsConnected()))
	}

	log.Info("Shutting down event ingest worker gracefully...")
	consumer.Stop()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		log.Warn("Timed out waiting for in-flight messages")
	}
	cancel()

	log.Info("Event ingest worker shutdown complete")
}
