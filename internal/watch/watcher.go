// Package watch implements the poll loop at the top of the pipeline: fetch a
// page of new listings, filter already-seen identifiers, resolve floors,
// evaluate the alert policy, and hand rendered alerts to the dispatcher.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/cienerpi/giftcheck/internal/alert"
	"github.com/cienerpi/giftcheck/internal/domain"
	"github.com/cienerpi/giftcheck/internal/policy"
)

// Source is the marketplace query surface the watcher depends on.
type Source interface {
	// ListNew returns one page of active listings, newest first.
	ListNew(ctx context.Context, page, limit int) ([]domain.Listing, error)
	// FloorPrice returns the minimum active price for a name, optionally
	// scoped to a model.
	FloorPrice(ctx context.Context, name, model string) (domain.FloorQuote, error)
}

// AlertSink receives rendered alerts for delivery.
type AlertSink interface {
	Dispatch(ctx context.Context, msg domain.Message)
}

// Config holds the watcher's polling parameters.
type Config struct {
	Interval     time.Duration // sleep between poll cycles
	PageSize     int           // listings per poll
	SeenCapacity int           // dedup set bound, 0 = unbounded
}

// DefaultConfig returns the production polling parameters.
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		PageSize: 30,
	}
}

// Watcher runs the poll cycle as a single worker. All network calls happen
// sequentially, so the seen set needs no locking.
type Watcher struct {
	cfg       Config
	source    Source
	policy    policy.Policy
	formatter *alert.Formatter
	sink      AlertSink
	seen      *SeenSet
	firstRun  bool
	logger    *slog.Logger
}

// New creates a Watcher.
func New(cfg Config, source Source, pol policy.Policy, formatter *alert.Formatter, sink AlertSink, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:       cfg,
		source:    source,
		policy:    pol,
		formatter: formatter,
		sink:      sink,
		seen:      NewSeenSet(cfg.SeenCapacity),
		firstRun:  true,
		logger:    logger.With(slog.String("component", "watcher")),
	}
}

// Run polls until the context is cancelled. Nothing that happens inside a
// cycle is fatal; faults are logged and the next cycle waits out the interval
// as usual.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "watcher starting",
		slog.Duration("interval", w.cfg.Interval),
		slog.Int("page_size", w.cfg.PageSize),
		slog.String("policy", w.policy.Name()),
	)

	timer := time.NewTimer(0) // first cycle runs immediately
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "watcher stopped")
			return ctx.Err()
		case <-timer.C:
			w.cycle(ctx)
			timer.Reset(w.cfg.Interval)
		}
	}
}

// cycle runs one poll iteration end to end.
func (w *Watcher) cycle(ctx context.Context) {
	listings, err := w.source.ListNew(ctx, 1, w.cfg.PageSize)
	if err != nil {
		w.logger.ErrorContext(ctx, "poll failed", slog.String("error", err.Error()))
		return
	}
	if len(listings) == 0 {
		return
	}

	// A cold start sees a page full of pre-existing listings; forwarding only
	// the most recent one avoids flooding the channel.
	if w.firstRun {
		listings = listings[:1]
		w.firstRun = false
	}

	for _, l := range listings {
		if !w.seen.Admit(l.ID) {
			continue
		}
		if l.Price <= 0 {
			w.logger.WarnContext(ctx, "skipping listing without a usable price",
				slog.Int64("id", l.ID),
				slog.String("name", l.Name),
			)
			continue
		}

		collection := w.resolveFloor(ctx, l.Name, "")
		model := w.resolveFloor(ctx, l.Name, l.Model)

		decision := policy.Evaluate(w.policy, l, collection, model)
		if !decision.Alert {
			w.logger.DebugContext(ctx, "listing filtered by policy",
				slog.Int64("id", l.ID),
				slog.String("policy", w.policy.Name()),
			)
			continue
		}

		msg := w.formatter.Format(domain.Alert{
			Listing:         l,
			CollectionFloor: collection,
			ModelFloor:      model,
			CollectionDelta: decision.CollectionDelta,
			ModelDelta:      decision.ModelDelta,
		})

		w.logger.DebugContext(ctx, "dispatching alert",
			slog.Int64("id", l.ID),
			slog.String("name", l.Name),
			slog.Float64("price", l.Price),
		)
		w.sink.Dispatch(ctx, msg)

		if ctx.Err() != nil {
			return
		}
	}
}

// resolveFloor queries one floor. Fetch faults degrade to "no floor" so a
// flaky upstream can only suppress discount math, never kill the cycle.
func (w *Watcher) resolveFloor(ctx context.Context, name, model string) domain.FloorQuote {
	quote, err := w.source.FloorPrice(ctx, name, model)
	if err != nil {
		w.logger.WarnContext(ctx, "floor lookup failed",
			slog.String("name", name),
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		return domain.FloorQuote{}
	}
	return quote
}
