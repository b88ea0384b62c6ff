package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"devart/internal/imagegen"
	"devart/internal/intent"
)

const (
	modelText  = "gemini-2.5-flash"
	modelImage = "gemini-2.5-flash-image"
)

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the generateContent endpoint. It serves both as an intent
// extractor (JSON mode) and as a fallback image generator.
type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ intent.Extractor   = (*Client)(nil)
	_ imagegen.Generator = (*Client)(nil)
)

func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		apiVersion: apiVersion,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

func (c *Client) Extract(ctx context.Context, userInput string) (intent.Intent, error) {
	req := generateContentRequest{
		Contents:          []content{{Role: "user", Parts: []part{{Text: userInput}}}},
		SystemInstruction: &content{Role: "user", Parts: []part{{Text: intent.SystemPrompt}}},
		GenerationConfig: generationConfig{
			Temperature:      0.2,
			ResponseMIMEType: "application/json",
		},
	}

	start := time.Now()
	resp, err := c.generateContent(ctx, modelText, req)
	if err != nil && isUnknownFieldError(err, "responseMimeType") {
		req.GenerationConfig.ResponseMIMEType = ""
		resp, err = c.generateContent(ctx, modelText, req)
	}
	if err != nil {
		return intent.Intent{}, err
	}

	out, err := intent.Decode(resp.Text)
	if err != nil {
		return intent.Intent{}, fmt.Errorf("decode intent: %w", err)
	}

	c.logger.Debug("intent extracted", "provider", "gemini", "visual", out.IsVisual, "subjects", len(out.Subjects), "dur_ms", time.Since(start).Milliseconds())
	return out, nil
}

// Generate renders a square image and returns it as a data URL.
func (c *Client) Generate(ctx context.Context, r imagegen.Request) (imagegen.Result, error) {
	prompt := strings.TrimSpace(r.Prompt)
	if prompt == "" {
		return imagegen.Result{}, errors.New("prompt is empty")
	}

	seed := rand.Int63n(2147483647)
	if r.Seed != nil {
		seed = *r.Seed
	}

	text := prompt
	if r.NegativePrompt != "" {
		text += "\n\n避免: " + r.NegativePrompt
	}

	req := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &imageConfig{AspectRatio: "1:1"},
			Seed:               &seed,
		},
	}

	start := time.Now()
	resp, err := c.generateContent(ctx, modelImage, req)
	if err != nil && isUnknownFieldError(err, "imageConfig") {
		req.GenerationConfig.ImageConfig = nil
		resp, err = c.generateContent(ctx, modelImage, req)
	}
	if err != nil {
		return imagegen.Result{}, err
	}
	if len(resp.Images) == 0 {
		return imagegen.Result{}, errors.New("gemini: response carried no image")
	}

	dur := time.Since(start)
	c.logger.Info("image generation done", "provider", "gemini", "seed", seed, "dur_ms", dur.Milliseconds())

	return imagegen.Result{
		ImageURL: resp.Images[0],
		Prompt:   prompt,
		Seed:     seed,
		Duration: dur,
	}, nil
}

type response struct {
	Text   string
	Images []string
}

func (c *Client) generateContent(ctx context.Context, model string, payload generateContentRequest) (response, error) {
	if c.httpClient == nil {
		return response{}, errors.New("http client is nil")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return response{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return response{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return response{}, fmt.Errorf("gemini API %s: %s", httpResp.Status, strings.TrimSpace(string(rawBody)))
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}

	text, images := extractParts(decoded)
	return response{Text: text, Images: images}, nil
}

func extractParts(resp generateContentResponse) (string, []string) {
	if len(resp.Candidates) == 0 {
		return "", nil
	}

	var textBuilder strings.Builder
	var images []string

	for _, p := range resp.Candidates[0].Content.Parts {
		if p.Text != "" {
			textBuilder.WriteString(p.Text)
		}
		if p.InlineData != nil && p.InlineData.Data != "" && p.InlineData.MimeType != "" {
			images = append(images, fmt.Sprintf("data:%s;base64,%s", p.InlineData.MimeType, p.InlineData.Data))
		}
	}

	return textBuilder.String(), images
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
