// Package app wires configuration into the services both binaries share.
package app

import (
	"log/slog"
	"net/http"
	"os"

	"devart/internal/config"
	"devart/internal/gemini"
	"devart/internal/imagegen"
	"devart/internal/intent"
	"devart/internal/removebg"
	"devart/internal/session"
	"devart/internal/siliconflow"
	"devart/internal/studio"
)

type App struct {
	Studio    *studio.Service
	Generator imagegen.Generator
	Remover   *removebg.Client
}

func New(cfg config.Config, httpClient *http.Client, logger *slog.Logger) App {
	var gem *gemini.Client
	if cfg.GeminiAPIKey != "" {
		gem = gemini.New(gemini.Options{
			APIKey:     cfg.GeminiAPIKey,
			BaseURL:    cfg.GeminiBaseURL,
			APIVersion: cfg.GeminiAPIVersion,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	}

	var gen imagegen.Generator
	if cfg.SiliconFlowAPIKey != "" {
		gen = siliconflow.New(siliconflow.Options{
			APIKey:     cfg.SiliconFlowAPIKey,
			BaseURL:    cfg.SiliconFlowBaseURL,
			Model:      cfg.ImageModel,
			ImageSize:  cfg.ImageSize,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	} else if gem != nil {
		gen = gem
	}

	remover := removebg.New(removebg.Options{
		APIKey:     cfg.RemoveBgAPIKey,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	runner := studio.NewRunner(studio.RunnerOptions{
		Generator:   gen,
		Delay:       cfg.BatchDelay,
		Concurrency: cfg.BatchConcurrency,
		Logger:      logger,
	})

	svc := studio.New(studio.Options{
		Extractor: newExtractor(cfg, httpClient, gem, logger),
		Generator: gen,
		Remover:   remover,
		Store:     session.NewStore(session.Options{MaxMessages: cfg.MaxHistoryMessages}),
		Runner:    runner,
		Logger:    logger,
	})

	return App{Studio: svc, Generator: gen, Remover: remover}
}

func newExtractor(cfg config.Config, httpClient *http.Client, gem *gemini.Client, logger *slog.Logger) intent.Extractor {
	var deepseek intent.Extractor
	if cfg.DeepSeekAPIKey != "" {
		deepseek = intent.NewDeepSeek(intent.DeepSeekOptions{
			APIKey:     cfg.DeepSeekAPIKey,
			BaseURL:    cfg.DeepSeekBaseURL,
			HTTPClient: httpClient,
			Logger:     logger,
		})
	}

	switch cfg.IntentProvider {
	case config.IntentDeepSeek:
		return deepseek
	case config.IntentGemini:
		return gem
	case config.IntentFallback:
		return intent.Fallback{}
	}

	switch {
	case deepseek != nil:
		return intent.Chain{Primary: deepseek, Logger: logger}
	case gem != nil:
		return intent.Chain{Primary: gem, Logger: logger}
	}
	return intent.Fallback{}
}

func NewLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	}))
}
