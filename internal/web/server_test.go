package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devart/internal/imagegen"
	"devart/internal/intent"
	"devart/internal/removebg"
	"devart/internal/siliconflow"
	"devart/internal/studio"
	"devart/internal/style"
	"devart/internal/web"
)

type echoGenerator struct{ err error }

func (g echoGenerator) Generate(_ context.Context, req imagegen.Request) (imagegen.Result, error) {
	if g.err != nil {
		return imagegen.Result{}, g.err
	}
	seed := int64(99)
	if req.Seed != nil {
		seed = *req.Seed
	}
	return imagegen.Result{ImageURL: "https://img/x.png", Prompt: req.Prompt, Seed: seed}, nil
}

type sameURL struct{}

func (sameURL) Remove(_ context.Context, u string) removebg.Result {
	return removebg.Result{URL: u, Note: removebg.NoteQuotaExceeded}
}

func newServer(gen imagegen.Generator) http.Handler {
	svc := studio.New(studio.Options{
		Extractor: intent.Fallback{},
		Generator: gen,
		Remover:   sameURL{},
		Runner:    studio.NewRunner(studio.RunnerOptions{Generator: gen}),
	})
	return web.New(web.Options{Studio: svc, Generator: gen, Remover: sameURL{}}).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func TestProcess(t *testing.T) {
	h := newServer(echoGenerator{})

	rec, out := do(t, h, http.MethodPost, "/api/process", map[string]any{"userInput": "生成一组图标：首页、我的，线性风格，蓝色"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["isVisual"])
	assert.Len(t, out["prompts"], 2)
	assert.NotZero(t, out["baseSeed"])

	locked := style.Resolve("3D", "橙色", 0)
	rec, out = do(t, h, http.MethodPost, "/api/process", map[string]any{
		"userInput": "生成一组图标：首页、我的，线性风格，蓝色", "lockedStyle": locked, "baseSeed": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(5), out["baseSeed"])
	params := out["styleParams"].(map[string]any)
	assert.Equal(t, "3d-soft", params["type"])

	rec, out = do(t, h, http.MethodPost, "/api/process", map[string]any{"userInput": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "请输入描述", out["error"])

	rec, _ = do(t, h, http.MethodGet, "/api/process", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGenerate(t *testing.T) {
	rec, out := do(t, newServer(echoGenerator{}), http.MethodPost, "/api/generate", map[string]any{"prompt": "p", "seed": 7})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), out["seed"])
	assert.Equal(t, "https://img/x.png", out["imageUrl"])

	rec, _ = do(t, newServer(echoGenerator{}), http.MethodPost, "/api/generate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	tests := []struct {
		err  error
		code int
	}{
		{err: siliconflow.ErrUnauthorized, code: http.StatusUnauthorized},
		{err: siliconflow.ErrInsufficientBalance, code: http.StatusPaymentRequired},
		{err: siliconflow.ErrRateLimited, code: http.StatusTooManyRequests},
		{err: assert.AnError, code: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec, _ := do(t, newServer(echoGenerator{err: tt.err}), http.MethodPost, "/api/generate", map[string]any{"prompt": "p"})
		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}

func TestRemoveBackground(t *testing.T) {
	rec, out := do(t, newServer(echoGenerator{}), http.MethodPost, "/api/remove-background", map[string]any{"imageUrl": "https://img/x.png"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://img/x.png", out["transparentUrl"])
	assert.Equal(t, removebg.NoteQuotaExceeded, out["note"])

	rec, _ = do(t, newServer(echoGenerator{}), http.MethodPost, "/api/remove-background", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLock(t *testing.T) {
	prompt := style.BuildPrompt(style.ParseSubject("首页"), style.Resolve("线性", "红色", 2))
	rec, out := do(t, newServer(echoGenerator{}), http.MethodPost, "/api/lock", map[string]any{"assetId": "a1", "prompt": prompt, "seed": 11})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["isLocked"])
	assert.Equal(t, "a1", out["lockedFromAssetId"])
	assert.Equal(t, float64(11), out["baseSeed"])
	params := out["params"].(map[string]any)
	assert.Equal(t, "flat-line", params["type"])
}

func TestBatchAndSession(t *testing.T) {
	h := newServer(echoGenerator{})

	rec, out := do(t, h, http.MethodPost, "/api/batch", map[string]any{"sessionId": "web1", "userInput": "生成一组图标：首页、我的，线性风格，蓝色"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["autoLocked"])
	assets := out["assets"].([]any)
	require.Len(t, assets, 2)
	first := assets[0].(map[string]any)["id"].(string)

	rec, out = do(t, h, http.MethodPost, "/api/asset", map[string]any{"sessionId": "web1", "assetId": first, "action": "exact"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, out["asset"])

	rec, _ = do(t, h, http.MethodPost, "/api/asset", map[string]any{"sessionId": "web1", "assetId": "nope", "action": "lock"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, out = do(t, h, http.MethodPost, "/api/asset", map[string]any{"sessionId": "web1", "action": "unlock"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["styleContext"].(map[string]any)["isLocked"])

	rec, out = do(t, h, http.MethodGet, "/api/session?id=web1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["assets"], 3)

	rec, out = do(t, h, http.MethodPost, "/api/batch", map[string]any{"userInput": "你好"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, out["sessionId"])
	assert.Equal(t, false, out["plan"].(map[string]any)["isVisual"])
}

func TestBatchFailureWithoutAssets(t *testing.T) {
	rec, out := do(t, newServer(echoGenerator{err: siliconflow.ErrRateLimited}), http.MethodPost, "/api/batch", map[string]any{"userInput": "画一个设置图标"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "API 请求频率限制，请稍后重试", out["error"])
}
