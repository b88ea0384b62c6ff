package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Intent providers accepted by INTENT_PROVIDER.
const (
	IntentAuto     = "auto"
	IntentDeepSeek = "deepseek"
	IntentGemini   = "gemini"
	IntentFallback = "fallback"
)

type Config struct {
	TelegramToken string

	SiliconFlowAPIKey  string
	SiliconFlowBaseURL string
	ImageModel         string
	ImageSize          string

	DeepSeekAPIKey  string
	DeepSeekBaseURL string

	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string

	IntentProvider string
	RemoveBgAPIKey string

	WebAddr  string
	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MessageDebounce    time.Duration
	MaxConcurrent      int
	MaxHistoryMessages int
	BatchDelay         time.Duration
	BatchConcurrency   int
	RequestTimeout     time.Duration
	HTTPTimeout        time.Duration
}

type LoadOptions struct {
	RequireTelegram bool
}

func Load(opts LoadOptions) (Config, error) {
	cfg := Config{
		SiliconFlowBaseURL: strings.TrimSpace(getEnv("SILICONFLOW_BASE_URL", "https://api.siliconflow.cn")),
		ImageModel:         strings.TrimSpace(getEnv("IMAGE_MODEL", "Qwen/Qwen-Image")),
		ImageSize:          strings.TrimSpace(getEnv("IMAGE_SIZE", "1024x1024")),
		DeepSeekBaseURL:    strings.TrimSpace(getEnv("DEEPSEEK_BASE_URL", "https://api.deepseek.com")),
		GeminiBaseURL:      strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:   strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		IntentProvider:     strings.ToLower(getEnv("INTENT_PROVIDER", IntentAuto)),
		WebAddr:            getEnv("WEB_ADDR", ":8080"),
		LogLevel:           strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:              getEnvBool("DEBUG", false),
		PreferIPv4:         getEnvBool("PREFER_IPV4", true),
		MessageDebounce:    time.Duration(getEnvInt("MESSAGE_DEBOUNCE_MS", 1200)) * time.Millisecond,
		MaxConcurrent:      getEnvInt("MAX_CONCURRENT", 4),
		MaxHistoryMessages: getEnvInt("MAX_HISTORY_MESSAGES", 20),
		BatchDelay:         time.Duration(getEnvInt("BATCH_DELAY_MS", 50)) * time.Millisecond,
		BatchConcurrency:   getEnvInt("BATCH_CONCURRENCY", 1),
		RequestTimeout:     time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 240)) * time.Second,
		HTTPTimeout:        time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.SiliconFlowAPIKey = strings.TrimSpace(os.Getenv("SILICONFLOW_API_KEY"))
	cfg.DeepSeekAPIKey = strings.TrimSpace(os.Getenv("DEEPSEEK_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.RemoveBgAPIKey = strings.TrimSpace(os.Getenv("REMOVEBG_API_KEY"))

	switch {
	case opts.RequireTelegram && cfg.TelegramToken == "":
		return Config{}, errors.New("TELEGRAM_BOT_TOKEN is required")
	case cfg.SiliconFlowAPIKey == "" && cfg.GeminiAPIKey == "":
		return Config{}, errors.New("SILICONFLOW_API_KEY or GEMINI_API_KEY is required")
	}

	switch cfg.IntentProvider {
	case IntentAuto, IntentFallback:
	case IntentDeepSeek:
		if cfg.DeepSeekAPIKey == "" {
			return Config{}, errors.New("INTENT_PROVIDER=deepseek requires DEEPSEEK_API_KEY")
		}
	case IntentGemini:
		if cfg.GeminiAPIKey == "" {
			return Config{}, errors.New("INTENT_PROVIDER=gemini requires GEMINI_API_KEY")
		}
	default:
		return Config{}, errors.New("INTENT_PROVIDER must be one of auto, deepseek, gemini, fallback")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxHistoryMessages < 1 {
		cfg.MaxHistoryMessages = 1
	}
	if cfg.BatchConcurrency < 1 {
		cfg.BatchConcurrency = 1
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 50 * time.Millisecond
	}
	if cfg.MessageDebounce <= 0 {
		cfg.MessageDebounce = 1200 * time.Millisecond
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 240 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
