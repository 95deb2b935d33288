package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cienerpi/giftcheck/internal/domain"
)

// DispatcherConfig holds the dispatcher's retry and pacing parameters.
type DispatcherConfig struct {
	// TimeoutRetryWait is how long to wait before the single retry after a
	// timed-out delivery.
	TimeoutRetryWait time.Duration
	// Pacing is the minimum delay after every delivery, successful or not,
	// before the next delivery may begin.
	Pacing time.Duration
}

// DefaultDispatcherConfig returns the production dispatcher parameters.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		TimeoutRetryWait: 5 * time.Second,
		Pacing:           3 * time.Second,
	}
}

// Dispatcher fans a message out to all senders, applying a bounded retry per
// sender: a throttled delivery is retried once after the wait the channel
// demanded, a timed-out delivery is retried once after a fixed wait, and any
// other fault drops the message immediately. A failure on the retry drops the
// message too. Delivery failures never propagate to the caller.
type Dispatcher struct {
	cfg     DispatcherConfig
	senders []Sender
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher delivering to the given senders.
func NewDispatcher(cfg DispatcherConfig, senders []Sender, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:     cfg,
		senders: senders,
		logger:  logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch delivers msg to every sender in order. Each alert gets a correlation
// id so its attempts can be traced through the logs. The pacing floor is
// enforced after each sender's attempt sequence.
func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.Message) {
	alertID := uuid.NewString()

	for _, s := range d.senders {
		d.deliver(ctx, s, msg, alertID)
		if !sleepCtx(ctx, d.cfg.Pacing) {
			return
		}
	}
}

// deliver performs at most two attempts against one sender.
func (d *Dispatcher) deliver(ctx context.Context, s Sender, msg domain.Message, alertID string) {
	logger := d.logger.With(
		slog.String("sender", s.Name()),
		slog.String("alert_id", alertID),
	)

	err := s.Send(ctx, msg)
	if err == nil {
		logger.DebugContext(ctx, "alert delivered", slog.String("title", msg.Title))
		return
	}

	var wait time.Duration
	switch te, throttled := domain.AsThrottled(err); {
	case throttled:
		wait = te.RetryAfter
		logger.WarnContext(ctx, "delivery throttled, retrying once",
			slog.Duration("retry_after", wait),
		)
	case errors.Is(err, domain.ErrDeliveryTimeout):
		wait = d.cfg.TimeoutRetryWait
		logger.WarnContext(ctx, "delivery timed out, retrying once",
			slog.Duration("wait", wait),
		)
	default:
		logger.ErrorContext(ctx, "delivery failed, dropping alert",
			slog.String("error", err.Error()),
		)
		return
	}

	if !sleepCtx(ctx, wait) {
		return
	}

	if err := s.Send(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "retry failed, dropping alert",
			slog.String("error", err.Error()),
		)
		return
	}
	logger.DebugContext(ctx, "alert delivered on retry", slog.String("title", msg.Title))
}

// sleepCtx sleeps for d or until the context is cancelled. It reports whether
// the full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
