// Package studio turns requests into icon batches: it plans prompts from an
// intent and a style lock, runs them against an image generator and keeps
// the session's assets and lock up to date.
package studio

import (
	"encoding/json"
	"fmt"
	"strings"

	"devart/internal/intent"
	"devart/internal/style"
	"devart/internal/stylelock"
)

const (
	DefaultChatResponse = "有什么我可以帮你的吗？"
	defaultColorText    = "黑色"
)

// Plan is the deterministic outcome of reading one request.
type Plan struct {
	IsVisual     bool               `json:"isVisual"`
	ChatResponse string             `json:"chatResponse,omitempty"`
	Prompts      []style.PromptItem `json:"prompts"`
	Params       *style.Params      `json:"styleParams,omitempty"`
	Description  string             `json:"styleDescription,omitempty"`
	Fragment     string             `json:"stylePromptFragment,omitempty"`
	BaseSeed     int64              `json:"baseSeed,omitempty"`
	Suggestion   string             `json:"userSuggestion,omitempty"`
}

// Process builds the plan for userInput. Locked params and base seed win
// over whatever the intent describes.
func Process(userInput string, in intent.Intent, lock stylelock.Context) Plan {
	if !in.IsVisual {
		resp := in.ChatResponse
		if resp == "" {
			resp = DefaultChatResponse
		}
		return Plan{ChatResponse: resp, Prompts: []style.PromptItem{}}
	}

	colorText := in.Color
	if colorText == "" {
		colorText = defaultColorText
	}
	params := lock.Effective(style.Resolve(in.Style, colorText, in.StrokeWidth))

	baseSeed := lock.Seed(func() int64 {
		return style.GenerateSeed(userInput+paramsJSON(params), 0)
	})

	prompts := make([]style.PromptItem, 0, len(in.Subjects))
	names := make([]string, 0, len(in.Subjects))
	for i, s := range in.Subjects {
		item := style.Compile(s, params, baseSeed, i)
		prompts = append(prompts, item)
		names = append(names, item.Subject)
	}

	desc := style.Describe(params)
	return Plan{
		IsVisual:    true,
		Prompts:     prompts,
		Params:      &params,
		Description: desc,
		Fragment:    style.Fragment(params),
		BaseSeed:    baseSeed,
		Suggestion:  suggestion(desc, names),
	}
}

func suggestion(desc string, names []string) string {
	joined := strings.Join(names, "、")
	if len(names) == 1 {
		return fmt.Sprintf("正在生成 %s 风格的「%s」图标...", desc, joined)
	}
	return fmt.Sprintf("正在生成 %d 个 %s 风格的图标：%s...", len(names), desc, joined)
}

// LockedNotice tells the user a batch pinned the style.
func LockedNotice(desc string) string {
	return fmt.Sprintf("✨ 风格已自动锁定：%s。后续生成将保持一致风格。如需更换风格，请解锁风格。", desc)
}

func paramsJSON(p style.Params) string {
	raw, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(raw)
}
