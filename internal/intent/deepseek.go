package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultDeepSeekURL   = "https://api.deepseek.com"
	defaultDeepSeekModel = "deepseek-chat"
)

type DeepSeekOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// DeepSeek extracts intents through an OpenAI-compatible chat completions API.
type DeepSeek struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewDeepSeek(opts DeepSeekOptions) *DeepSeek {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultDeepSeekURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultDeepSeekModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &DeepSeek{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

func (d *DeepSeek) Extract(ctx context.Context, userInput string) (Intent, error) {
	if d.httpClient == nil {
		return Intent{}, errors.New("http client is nil")
	}

	payload := chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: userInput},
		},
		Temperature:    0.2,
		MaxTokens:      500,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Intent{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Intent{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("authorization", "Bearer "+d.apiKey)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return Intent{}, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Intent{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return Intent{}, fmt.Errorf("deepseek API %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return Intent{}, fmt.Errorf("decode response: %w", err)
	}

	content := ""
	if len(decoded.Choices) > 0 {
		content = decoded.Choices[0].Message.Content
	}

	out, err := Decode(content)
	if err != nil {
		return Intent{}, fmt.Errorf("decode intent: %w", err)
	}

	d.logger.Debug("intent extracted", "provider", "deepseek", "visual", out.IsVisual, "subjects", len(out.Subjects), "dur_ms", time.Since(start).Milliseconds())
	return out, nil
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
