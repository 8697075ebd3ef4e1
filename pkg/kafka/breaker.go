package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrBreakerOpen is returned while the breaker rejects publishes.
var ErrBreakerOpen = gobreaker.ErrOpenState

// Publisher sends an event to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
}

// BreakerConfig configures a BreakerPublisher.
type BreakerConfig struct {
	// Name labels logs and the state gauge.
	Name string

	// MaxRequests is the number of trial publishes allowed while half-open.
	MaxRequests uint32

	// Interval clears the failure counts while closed. 0 never clears them.
	Interval time.Duration

	// Timeout is how long the breaker stays open before a trial publish.
	Timeout time.Duration

	// FailureRatio of MinRequests or more publishes trips the breaker.
	FailureRatio float64
	MinRequests  uint32
}

// DefaultBreakerConfig returns defaults suited to a request-path publisher.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// BreakerPublisher stops calling a failing broker for a while so callers do
// not wait out the write timeout on every publish.
type BreakerPublisher struct {
	next    Publisher
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
}

// NewBreakerPublisher wraps next with a circuit breaker.
func NewBreakerPublisher(next Publisher, cfg BreakerConfig, logger *slog.Logger) *BreakerPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		// A canceled caller says nothing about broker health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("publish circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateValue(to))
		},
	}
	breakerState.WithLabelValues(cfg.Name).Set(0)

	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
		logger:  logger,
	}
}

// Publish forwards to the wrapped publisher unless the breaker is open, in
// which case it returns an error wrapping ErrBreakerOpen without calling it.
func (b *BreakerPublisher) Publish(ctx context.Context, topic string, event *Event) error {
	_, err := b.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Publish(ctx, topic, event)
	})
	return err
}

// State reports the breaker state.
func (b *BreakerPublisher) State() gobreaker.State {
	return b.breaker.State()
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
