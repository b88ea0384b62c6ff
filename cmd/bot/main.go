package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"devart/internal/app"
	"devart/internal/burst"
	"devart/internal/config"
	"devart/internal/handlers"
	"devart/internal/httpclient"
	"devart/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.LoadOptions{RequireTelegram: true})
	if err != nil {
		panic(err)
	}

	logger := app.NewLogger(cfg.LogLevel)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	a := app.New(cfg, httpClient, logger)

	handler := handlers.New(handlers.Options{
		Telegram: tg,
		Studio:   a.Studio,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	onBurstFlush := func(batch burst.Batch) {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		go func() {
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			handler.HandleBurst(reqCtx, batch)
		}()
	}

	aggregator := burst.New(burst.Options{
		Debounce: cfg.MessageDebounce,
		OnFlush:  onBurstFlush,
	})
	handler.SetBurstAggregator(aggregator)

	logger.Info("bot started", "username", tg.Username(), "intent", cfg.IntentProvider, "remove_bg", a.Remover.Configured())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}
