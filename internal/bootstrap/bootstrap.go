// Package bootstrap opens the store and the optional collaborators shared by
// every binary.
package bootstrap

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workflowhub/internal/repository"
	"workflowhub/internal/service/workflow"
	"workflowhub/pkg/circuitbreaker"
	"workflowhub/pkg/config"
	"workflowhub/pkg/mq"
	"workflowhub/pkg/redis"
	"workflowhub/pkg/util"
)

const dedupTTL = 24 * time.Hour

var errBrokerDisconnected = errors.New("rabbitmq connection closed")

type App struct {
	Store     *repository.Store
	Service   *workflow.Service
	Publisher *mq.Publisher
	Redis     *goredis.Client

	logger *zap.Logger
}

// Open connects to the store and, when configured, RabbitMQ and Redis.
// Only the store is required; the others are logged and skipped on failure.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := repository.Open(ctx, cfg.Store.Location, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Store ready", zap.String("engine", store.Engine()))

	app := &App{Store: store, logger: logger}
	var opts []workflow.Option

	if cfg.MQ.URL != "" {
		pub, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			logger.Warn("RabbitMQ unavailable, notifications disabled", zap.Error(err))
		} else {
			app.Publisher = pub
			guarded := mq.NewGuardedPublisher(pub, circuitbreaker.New(circuitbreaker.DefaultConfig()), logger)
			opts = append(opts, workflow.WithPublisher(guarded))
			logger.Info("RabbitMQ publisher ready", zap.String("exchange", mq.ExchangeName))
		}
	}

	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, event de-duplication disabled", zap.Error(err))
		} else {
			app.Redis = rdb
			opts = append(opts, workflow.WithDeduper(util.NewDeduper(rdb, dedupTTL, logger)))
			logger.Info("Redis ready", zap.String("addr", cfg.Redis.Addr))
		}
	}

	app.Service = workflow.NewService(store, logger, opts...)
	return app, nil
}

// Ready pings the store and, when notifications are enabled, checks that the
// broker connection is still open.
func (a *App) Ready(ctx context.Context) error {
	if err := a.Service.Ready(ctx); err != nil {
		return err
	}
	if a.Publisher != nil && !a.Publisher.IsConnected() {
		return errBrokerDisconnected
	}
	return nil
}

func (a *App) Close() {
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.logger.Warn("Redis close failed", zap.Error(err))
		}
	}
	a.Store.Close()
}
