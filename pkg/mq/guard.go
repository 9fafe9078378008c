package mq

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/pkg/circuitbreaker"
)

// Sender 消息发送接口（*Publisher实现）
type Sender interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// GuardedPublisher 带熔断的发布者
// Broker持续不可用时直接返回circuitbreaker.ErrOpenState，不再等待网络超时
type GuardedPublisher struct {
	inner   Sender
	breaker *circuitbreaker.CircuitBreaker
}

// Guard 用熔断器包装发布者
func Guard(inner Sender, breaker *circuitbreaker.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{inner: inner, breaker: breaker}
}

// Publish 在熔断器保护下发布消息
func (g *GuardedPublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return g.breaker.Execute(func() error {
		return g.inner.Publish(ctx, routingKey, message)
	})
}

// LogStateChange 记录熔断器状态变化，用作Settings.OnStateChange
func LogStateChange(logger *zap.Logger) func(name string, from, to circuitbreaker.State) {
	return func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
}
