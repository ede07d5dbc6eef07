package mq

import (
	"context"

	"go.uber.org/zap"

	"workflowhub/pkg/circuitbreaker"
)

type publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// GuardedPublisher stops publishing to an unreachable broker until the
// breaker's cooldown has passed.
type GuardedPublisher struct {
	next    publisher
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewGuardedPublisher(next publisher, breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: breaker, logger: logger}
}

func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	before := g.breaker.State()
	err := g.breaker.Execute(func() error {
		return g.next.Publish(ctx, routingKey, payload)
	})
	if after := g.breaker.State(); after != before {
		g.logger.Warn("Publisher circuit breaker changed state",
			zap.String("from", before.String()),
			zap.String("to", after.String()),
		)
	}
	return err
}
