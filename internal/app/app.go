// Package app wires the giftcheck components together and runs the watch
// loop until shutdown.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cienerpi/giftcheck/internal/alert"
	"github.com/cienerpi/giftcheck/internal/config"
	"github.com/cienerpi/giftcheck/internal/market"
	"github.com/cienerpi/giftcheck/internal/notify"
	"github.com/cienerpi/giftcheck/internal/policy"
	"github.com/cienerpi/giftcheck/internal/watch"
)

// App is the root application object.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and blocks on the watch loop until the context
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	watcher, err := a.wire(ctx)
	if err != nil {
		return fmt.Errorf("app: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(ctx)
	})
	return g.Wait()
}

// wire builds the pipeline: marketplace client, alert policy, formatter,
// notification dispatcher, and the watcher on top.
func (a *App) wire(ctx context.Context) (*watch.Watcher, error) {
	client := market.NewClient(a.cfg.Tonnel.BaseURL, a.cfg.Tonnel.MarketURL, a.cfg.Tonnel.Auth)
	if err := client.Warmup(ctx); err != nil {
		a.logger.WarnContext(ctx, "marketplace warmup failed",
			slog.String("error", err.Error()),
		)
	}

	pol, err := policy.New(policy.Params{
		Kind:            a.cfg.Alert.Policy,
		SkipCollections: a.cfg.Watch.SkipCollections,
		BackdropPrefix:  a.cfg.Alert.BackdropPrefix,
		DiscountRatio:   a.cfg.Alert.DiscountRatio,
	})
	if err != nil {
		return nil, err
	}

	style, err := alert.ParseStyle(a.cfg.Alert.Style)
	if err != nil {
		return nil, err
	}
	formatter := alert.NewFormatter(style)

	senders := []notify.Sender{
		notify.NewTelegramSender(a.cfg.Notify.TelegramToken, a.cfg.Notify.TelegramChatID),
	}
	if a.cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(a.cfg.Notify.DiscordWebhookURL))
	}
	dispatcher := notify.NewDispatcher(notify.DefaultDispatcherConfig(), senders, a.logger)

	watchCfg := watch.Config{
		Interval:     a.cfg.Watch.PollInterval.Duration,
		PageSize:     a.cfg.Watch.PageSize,
		SeenCapacity: a.cfg.Watch.SeenCapacity,
	}
	return watch.New(watchCfg, client, pol, formatter, dispatcher, a.logger), nil
}
