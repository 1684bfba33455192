package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Sender is anything that can deliver a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// BreakerMailer stops dialing an SMTP server after consecutive failures and
// probes it again once the open timeout has passed.
type BreakerMailer struct {
	next Sender
	cb   *gobreaker.CircuitBreaker[struct{}]
}

type BreakerConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

func NewBreakerMailer(next Sender, cfg BreakerConfig, logger *zap.Logger) *BreakerMailer {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 5 * time.Minute
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "smtp",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &BreakerMailer{next: next, cb: cb}
}

func (m *BreakerMailer) Send(ctx context.Context, msg Message) error {
	_, err := m.cb.Execute(func() (struct{}, error) {
		return struct{}{}, m.next.Send(ctx, msg)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("smtp unavailable: %w", err)
	}
	return err
}

// State reports the breaker state, e.g. "closed" or "open".
func (m *BreakerMailer) State() string {
	return m.cb.State().String()
}
