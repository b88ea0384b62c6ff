// Package removebg strips image backgrounds through the remove.bg API.
//
// Background removal is best effort: every failure falls back to the
// original image URL with a human-readable note.
package removebg

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
)

const defaultEndpoint = "https://api.remove.bg/v1.0/removebg"

const (
	NoteNotConfigured = "背景移除服务未配置，返回原图"
	NoteQuotaExceeded = "Remove.bg 免费额度已用完，返回原图"
	NoteFailed        = "背景移除失败，返回原图"
	NoteError         = "背景移除出错，返回原图"
)

type Options struct {
	APIKey     string
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Result carries the image to show. Removed reports whether URL differs from
// the input.
type Result struct {
	URL     string
	Note    string
	Removed bool
}

func New(opts Options) *Client {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		endpoint:   endpoint,
		httpClient: opts.HTTPClient,
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c != nil && c.apiKey != "" && c.httpClient != nil
}

// Remove never fails; on any problem the original URL comes back.
func (c *Client) Remove(ctx context.Context, imageURL string) Result {
	original := Result{URL: imageURL}
	if !c.Configured() {
		original.Note = NoteNotConfigured
		return original
	}

	data, status, err := c.call(ctx, imageURL)
	if err != nil {
		c.logger.Warn("remove background error", "err", err)
		original.Note = NoteError
		return original
	}

	switch {
	case status == http.StatusPaymentRequired:
		c.logger.Warn("remove.bg quota exceeded")
		original.Note = NoteQuotaExceeded
		return original
	case status >= 400:
		c.logger.Warn("remove.bg API error", "status", status, "body", strings.TrimSpace(string(data)))
		original.Note = NoteFailed
		return original
	}

	c.logger.Info("background removed", "bytes", len(data))
	return Result{
		URL:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(data),
		Removed: true,
	}
}

func (c *Client) call(ctx context.Context, imageURL string) ([]byte, int, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, field := range [][2]string{{"image_url", imageURL}, {"size", "auto"}, {"format", "png"}} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return nil, 0, fmt.Errorf("write field %s: %w", field[0], err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, 0, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("content-type", w.FormDataContentType())
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read response: %w", err)
	}
	return data, resp.StatusCode, nil
}
