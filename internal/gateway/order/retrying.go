package order

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/localkart/dispatch/internal/domain"
	"github.com/localkart/dispatch/internal/logx"
)

type gateway interface {
	GetByID(context.Context, int64) (*domain.Order, error)
	UpdateStatus(context.Context, int64, string) error
}

type counter interface {
	Inc()
}

// RetryConfig controls the retry behaviour of RetryingGateway.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGateway retries transient failures of the wrapped orders gateway
// with exponential backoff.
type RetryingGateway struct {
	next    gateway
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingGateway wraps next with retries. Returns nil when next is nil.
func NewRetryingGateway(next gateway, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingGateway {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGateway{next: next, logger: logger, retries: retries, cfg: cfg}
}

// GetByID fetches an order by ID, retrying transient errors.
func (g *RetryingGateway) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		ord, err := g.next.GetByID(ctx, id)
		if err == nil {
			return ord, nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("orders gateway retry",
			logx.String("method", "GetByID"),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// UpdateStatus writes a status notice, retrying transient errors.
func (g *RetryingGateway) UpdateStatus(ctx context.Context, id int64, status string) error {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := g.next.UpdateStatus(ctx, id, status)
		if err == nil {
			return nil
		}
		lastErr = err
		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("orders gateway retry",
			logx.String("method", "UpdateStatus"),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Any("err", err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return lastErr
}

// isRetryable reports whether the failure is worth another attempt.
func isRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		switch se.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		default:
			return false
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var ne net.Error
	return errors.As(err, &ne)
}

// backoff computes the delay before the next attempt.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
