package intent_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devart/internal/intent"
)

func TestParseFallback(t *testing.T) {
	t.Run("non visual greeting", func(t *testing.T) {
		got := intent.ParseFallback("你好")
		assert.False(t, got.IsVisual)
		assert.Empty(t, got.Subjects)
		assert.NotEmpty(t, got.ChatResponse)
	})

	t.Run("colon separated list", func(t *testing.T) {
		got := intent.ParseFallback("生成一组图标：首页、购物车、订单、我的，线性风格，蓝色")
		require.True(t, got.IsVisual)
		assert.Equal(t, []string{"首页", "购物车", "订单", "我的"}, got.Subjects)
		assert.Equal(t, "蓝色", got.Color)
		assert.Equal(t, "线性", got.Style)
		assert.Equal(t, 2.0, got.StrokeWidth)
	})

	t.Run("known subjects scan", func(t *testing.T) {
		got := intent.ParseFallback("画一个立体的设置图标")
		require.True(t, got.IsVisual)
		assert.Contains(t, got.Subjects, "设置")
		assert.Equal(t, "3D", got.Style)
		assert.Equal(t, "黑色", got.Color)
		assert.Zero(t, got.StrokeWidth)
	})

	t.Run("whole input as last resort", func(t *testing.T) {
		got := intent.ParseFallback("生成 rocket launching into the deep blue sky")
		require.True(t, got.IsVisual)
		assert.Equal(t, []string{"生成 rocket launching "}, got.Subjects)
		assert.Equal(t, "扁平", got.Style)
	})
}

func TestDecode(t *testing.T) {
	got, err := intent.Decode("```json\n{\"is_visual\":true,\"subjects\":[\" 首页 \",\"\"],\"color\":\"蓝色\",\"style\":\"线性\",\"stroke_width\":2}\n```")
	require.NoError(t, err)
	assert.True(t, got.IsVisual)
	assert.Equal(t, []string{"首页"}, got.Subjects)

	got, err = intent.Decode("")
	require.NoError(t, err)
	assert.False(t, got.IsVisual)

	_, err = intent.Decode("not json")
	assert.Error(t, err)
}

func TestDeepSeekExtract(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &captured))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{
				"role":    "assistant",
				"content": `{"is_visual":true,"subjects":["设置"],"color":"橙色","style":"3D可爱","stroke_width":0,"chat_response":""}`,
			}}},
		})
	}))
	defer srv.Close()

	ds := intent.NewDeepSeek(intent.DeepSeekOptions{APIKey: "key", BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	got, err := ds.Extract(context.Background(), "帮我画一个设置图标")
	require.NoError(t, err)

	assert.Equal(t, []string{"设置"}, got.Subjects)
	assert.Equal(t, "3D可爱", got.Style)
	assert.Equal(t, "deepseek-chat", captured["model"])
	assert.Equal(t, map[string]any{"type": "json_object"}, captured["response_format"])
}

func TestDeepSeekExtractHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	ds := intent.NewDeepSeek(intent.DeepSeekOptions{APIKey: "key", BaseURL: srv.URL, HTTPClient: srv.Client()})
	_, err := ds.Extract(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

type failingExtractor struct{ calls int }

func (f *failingExtractor) Extract(context.Context, string) (intent.Intent, error) {
	f.calls++
	return intent.Intent{}, assert.AnError
}

func TestChainFallsBack(t *testing.T) {
	primary := &failingExtractor{}
	got, err := intent.Chain{Primary: primary}.Extract(context.Background(), "画一个设置图标")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, []string{"设置"}, got.Subjects)
}

func TestChainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := intent.Chain{Primary: &failingExtractor{}}.Extract(ctx, "画一个设置图标")
	assert.Error(t, err)
}
