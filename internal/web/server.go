// Package web serves the JSON API used by the canvas front-end.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"devart/internal/imagegen"
	"devart/internal/session"
	"devart/internal/siliconflow"
	"devart/internal/studio"
	"devart/internal/style"
	"devart/internal/stylelock"
)

const maxBodyBytes = 1 << 20

type Options struct {
	Studio         *studio.Service
	Generator      imagegen.Generator
	Remover        studio.BackgroundRemover
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

type Server struct {
	studio  *studio.Service
	gen     imagegen.Generator
	remover studio.BackgroundRemover
	timeout time.Duration
	logger  *slog.Logger
}

type apiError struct {
	Error string `json:"error"`
}

func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 240 * time.Second
	}

	return &Server{
		studio:  opts.Studio,
		gen:     opts.Generator,
		remover: opts.Remover,
		timeout: timeout,
		logger:  logger,
	}
}

// Handler returns the API routes wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/process", s.post(s.handleProcess))
	mux.HandleFunc("/api/generate", s.post(s.handleGenerate))
	mux.HandleFunc("/api/remove-background", s.post(s.handleRemoveBackground))
	mux.HandleFunc("/api/lock", s.post(s.handleLock))
	mux.HandleFunc("/api/batch", s.post(s.handleBatch))
	mux.HandleFunc("/api/asset", s.post(s.handleAsset))
	mux.HandleFunc("/api/session", s.handleSession)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return withLogging(mux, s.logger)
}

func (s *Server) post(next func(ctx context.Context, w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
		defer cancel()
		next(ctx, w, r)
	}
}

type processRequest struct {
	UserInput   string        `json:"userInput"`
	LockedStyle *style.Params `json:"lockedStyle,omitempty"`
	BaseSeed    int64         `json:"baseSeed,omitempty"`
}

func (s *Server) handleProcess(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if !decode(w, r, &req) {
		return
	}

	var lock stylelock.Context
	if req.LockedStyle != nil {
		p := req.LockedStyle.Normalize()
		lock = stylelock.Context{Locked: true, Params: &p, BaseSeed: req.BaseSeed}
	}

	plan, err := s.studio.Plan(ctx, req.UserInput, lock)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

type generateRequest struct {
	Prompt         string `json:"prompt"`
	Seed           *int64 `json:"seed,omitempty"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
}

type generateResponse struct {
	ImageURL       string `json:"imageUrl"`
	Prompt         string `json:"prompt"`
	Seed           int64  `json:"seed"`
	GenerationTime int64  `json:"generationTime"`
}

func (s *Server) handleGenerate(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "请提供 prompt"})
		return
	}
	if s.gen == nil {
		s.writeError(w, studio.ErrNoGenerator)
		return
	}

	res, err := s.gen.Generate(ctx, imagegen.Request{Prompt: req.Prompt, Seed: req.Seed, NegativePrompt: req.NegativePrompt})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		ImageURL:       res.ImageURL,
		Prompt:         res.Prompt,
		Seed:           res.Seed,
		GenerationTime: res.Duration.Milliseconds(),
	})
}

type removeRequest struct {
	ImageURL string `json:"imageUrl"`
}

type removeResponse struct {
	TransparentURL string `json:"transparentUrl"`
	Note           string `json:"note,omitempty"`
}

func (s *Server) handleRemoveBackground(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ImageURL) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "请提供图片 URL"})
		return
	}
	if s.remover == nil {
		writeJSON(w, http.StatusOK, removeResponse{TransparentURL: req.ImageURL, Note: "背景移除服务未配置，返回原图"})
		return
	}

	res := s.remover.Remove(ctx, req.ImageURL)
	writeJSON(w, http.StatusOK, removeResponse{TransparentURL: res.URL, Note: res.Note})
}

type lockRequest struct {
	AssetID     string        `json:"assetId"`
	Prompt      string        `json:"prompt"`
	Seed        int64         `json:"seed,omitempty"`
	StyleParams *style.Params `json:"styleParams,omitempty"`
}

func (s *Server) handleLock(_ context.Context, w http.ResponseWriter, r *http.Request) {
	var req lockRequest
	if !decode(w, r, &req) {
		return
	}
	if req.StyleParams == nil && strings.TrimSpace(req.Prompt) == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "请提供 prompt 或 styleParams"})
		return
	}

	ctx := stylelock.Reduce(stylelock.Context{}, stylelock.LockFromAsset{
		AssetID: req.AssetID,
		Prompt:  req.Prompt,
		Seed:    req.Seed,
		Params:  req.StyleParams,
	})
	writeJSON(w, http.StatusOK, ctx)
}

type batchRequest struct {
	SessionID string `json:"sessionId"`
	UserInput string `json:"userInput"`
}

type batchResponse struct {
	SessionID  string            `json:"sessionId"`
	Plan       studio.Plan       `json:"plan"`
	Assets     []session.Asset   `json:"assets"`
	AutoLocked bool              `json:"autoLocked"`
	Style      stylelock.Context `json:"styleContext"`
	Error      string            `json:"error,omitempty"`
}

func (s *Server) handleBatch(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	res, err := s.studio.Generate(ctx, req.SessionID, req.UserInput, nil)
	if err != nil && len(res.Assets) == 0 {
		s.writeError(w, err)
		return
	}

	out := batchResponse{
		SessionID:  req.SessionID,
		Plan:       res.Plan,
		Assets:     res.Assets,
		AutoLocked: res.AutoLocked,
		Style:      res.Style,
	}
	if out.Assets == nil {
		out.Assets = []session.Asset{}
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
		out.Error = err.Error()
	}
	writeJSON(w, status, out)
}

type assetRequest struct {
	SessionID string `json:"sessionId"`
	AssetID   string `json:"assetId"`
	Action    string `json:"action"`
}

type assetResponse struct {
	Asset *session.Asset     `json:"asset,omitempty"`
	Style *stylelock.Context `json:"styleContext,omitempty"`
	Note  string             `json:"note,omitempty"`
}

func (s *Server) handleAsset(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if !decode(w, r, &req) {
		return
	}

	var (
		out assetResponse
		err error
	)
	switch req.Action {
	case "lock":
		var lock stylelock.Context
		lock, err = s.studio.LockFromAsset(req.SessionID, req.AssetID)
		out.Style = &lock
	case "unlock":
		lock := s.studio.Unlock(req.SessionID)
		out.Style = &lock
	case "reroll", "exact":
		var asset session.Asset
		if req.Action == "reroll" {
			asset, err = s.studio.Reroll(ctx, req.SessionID, req.AssetID)
		} else {
			asset, err = s.studio.ExactRegenerate(ctx, req.SessionID, req.AssetID)
		}
		out.Asset = &asset
	case "remove-background":
		asset, res, rerr := s.studio.RemoveBackground(ctx, req.SessionID, req.AssetID)
		err = rerr
		out.Asset = &asset
		out.Note = res.Note
	case "new-chat":
		s.studio.NewChat(req.SessionID)
		lock := s.studio.Store().Snapshot(req.SessionID).Style
		out.Style = &lock
	default:
		writeJSON(w, http.StatusBadRequest, apiError{Error: "unknown action"})
		return
	}

	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type sessionResponse struct {
	SessionID string                   `json:"sessionId"`
	Style     stylelock.Context        `json:"styleContext"`
	Assets    []session.Asset          `json:"assets"`
	Messages  []session.HistoryMessage `json:"messages"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "missing id"})
		return
	}

	snap := s.studio.Store().Snapshot(id)
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: id,
		Style:     snap.Style,
		Assets:    snap.Assets,
		Messages:  snap.History,
	})
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "status", status, "err", err)
	}
	writeJSON(w, status, apiError{Error: errorMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, studio.ErrEmptyInput), errors.Is(err, studio.ErrNoPrompts):
		return http.StatusBadRequest
	case errors.Is(err, studio.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, studio.ErrNoSeed):
		return http.StatusConflict
	case errors.Is(err, siliconflow.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, siliconflow.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, siliconflow.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, studio.ErrEmptyInput):
		return "请输入描述"
	case errors.Is(err, studio.ErrNoPrompts):
		return "未能生成有效的 Prompt"
	case errors.Is(err, siliconflow.ErrUnauthorized):
		return "SiliconFlow API Key 无效"
	case errors.Is(err, siliconflow.ErrInsufficientBalance):
		return "SiliconFlow 账户余额不足"
	case errors.Is(err, siliconflow.ErrRateLimited):
		return "API 请求频率限制，请稍后重试"
	case errors.Is(err, siliconflow.ErrNotConfigured):
		return "SILICONFLOW_API_KEY 未配置"
	}
	return err.Error()
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid json body"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func withLogging(next http.Handler, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("http", "method", r.Method, "path", r.URL.Path, "dur_ms", time.Since(start).Milliseconds())
	})
}
