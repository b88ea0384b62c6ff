package siliconflow

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
)

const (
	defaultBaseURL   = "https://api.siliconflow.cn"
	defaultModel     = "Qwen/Qwen-Image"
	defaultImageSize = "1024x1024"

	inferenceSteps = 50
	guidanceScale  = 7.5
)

// DefaultNegativePrompt keeps text, watermarks and photographic looks out.
var DefaultNegativePrompt = strings.Join([]string{
	"文字", "单词", "字母", "数字", "水印", "签名", "标签", "标题",
	"书写", "字体", "排版", "模糊", "低质", "畸变", "变形",
	"丑陋", "重复", "裁切", "超出框外", "额外肢体", "解剖错误",
	"写实", "照片式", "照片", "3D渲染",
}, ", ")

var (
	ErrNotConfigured       = errors.New("siliconflow: api key not configured")
	ErrUnauthorized        = errors.New("siliconflow: invalid api key")
	ErrInsufficientBalance = errors.New("siliconflow: insufficient account balance")
	ErrRateLimited         = errors.New("siliconflow: rate limited, retry later")
	ErrNoImage             = errors.New("siliconflow: response carried no image url")
)

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	ImageSize  string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	imageSize  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ imagegen.Generator = (*Client)(nil)

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	size := strings.TrimSpace(opts.ImageSize)
	if size == "" {
		size = defaultImageSize
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		imageSize:  size,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

// Generate renders one image. A nil seed is replaced by a random one; the
// seed actually used is echoed in the result.
func (c *Client) Generate(ctx context.Context, req imagegen.Request) (imagegen.Result, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return imagegen.Result{}, errors.New("prompt is empty")
	}
	if c.apiKey == "" {
		return imagegen.Result{}, ErrNotConfigured
	}
	if c.httpClient == nil {
		return imagegen.Result{}, errors.New("http client is nil")
	}

	seed := rand.Int63n(2147483647)
	if req.Seed != nil {
		seed = *req.Seed
	}

	negative := req.NegativePrompt
	if negative == "" {
		negative = DefaultNegativePrompt
	}

	body, err := json.Marshal(generationRequest{
		Model:             c.model,
		Prompt:            prompt,
		ImageSize:         c.imageSize,
		NumInferenceSteps: inferenceSteps,
		Seed:              seed,
		BatchSize:         1,
		GuidanceScale:     guidanceScale,
		NegativePrompt:    negative,
	})
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("authorization", "Bearer "+c.apiKey)

	c.logger.Info("image generation started", "model", c.model, "seed", seed, "prompt", truncate(prompt, 100))
	start := time.Now()

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return imagegen.Result{}, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		c.logger.Error("image generation failed", "status", httpResp.StatusCode, "body", truncate(strings.TrimSpace(string(raw)), 300))
		return imagegen.Result{}, statusError(httpResp)
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return imagegen.Result{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Images) == 0 || strings.TrimSpace(decoded.Images[0].URL) == "" {
		return imagegen.Result{}, ErrNoImage
	}

	dur := time.Since(start)
	c.logger.Info("image generation done", "seed", seed, "dur_ms", dur.Milliseconds())

	return imagegen.Result{
		ImageURL: decoded.Images[0].URL,
		Prompt:   prompt,
		Seed:     seed,
		Duration: dur,
	}, nil
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusPaymentRequired:
		return ErrInsufficientBalance
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return fmt.Errorf("siliconflow API %s", resp.Status)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

type generationRequest struct {
	Model             string  `json:"model"`
	Prompt            string  `json:"prompt"`
	ImageSize         string  `json:"image_size"`
	NumInferenceSteps int     `json:"num_inference_steps"`
	Seed              int64   `json:"seed"`
	BatchSize         int     `json:"batch_size"`
	GuidanceScale     float64 `json:"guidance_scale"`
	NegativePrompt    string  `json:"negative_prompt"`
}

type generationResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}
