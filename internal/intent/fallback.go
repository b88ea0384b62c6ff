package intent

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"devart/internal/style"
)

const fallbackGreeting = "你好！我是 DevArt，可以帮你生成 UI 图标。试试说「生成一个设置图标」"

var (
	visualKeywords = []string{"生成", "画", "图标", "图片", "设计", "icon", "素材", "一套", "一组"}
	colorKeywords  = []string{"蓝", "红", "绿", "橙", "黄", "紫", "粉", "黑", "白", "灰"}
	subjectListRe  = regexp.MustCompile(`[：:]([\x{4e00}-\x{9fa5}、]+)`)
)

// Fallback extracts intents with keyword heuristics. It is used when no LLM
// is configured and never returns an error.
type Fallback struct{}

func (Fallback) Extract(_ context.Context, userInput string) (Intent, error) {
	return ParseFallback(userInput), nil
}

func ParseFallback(input string) Intent {
	if !containsAny(input, visualKeywords) {
		return Intent{
			IsVisual:     false,
			Subjects:     []string{},
			ChatResponse: fallbackGreeting,
		}
	}

	var subjects []string
	if m := subjectListRe.FindStringSubmatch(input); len(m) == 2 {
		for _, s := range strings.Split(m[1], "、") {
			if n := utf8.RuneCountInString(s); n > 0 && n < 10 {
				subjects = append(subjects, s)
			}
		}
	}

	if len(subjects) == 0 {
		for _, key := range style.SubjectKeys() {
			if strings.Contains(input, key) {
				subjects = append(subjects, key)
			}
		}
	}

	if len(subjects) == 0 {
		subjects = append(subjects, truncateRunes(input, 20))
	}

	color := "黑色"
	for _, c := range colorKeywords {
		if strings.Contains(input, c) {
			color = c + "色"
			break
		}
	}

	styleText := "扁平"
	var strokeWidth float64
	switch {
	case strings.Contains(input, "线") || strings.Contains(input, "描边"):
		styleText = "线性"
		strokeWidth = 2
	case containsAny(input, []string{"3D", "3d", "立体", "圆润"}):
		styleText = "3D"
	}

	return Intent{
		IsVisual:    true,
		Subjects:    subjects,
		Color:       color,
		Style:       styleText,
		StrokeWidth: strokeWidth,
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Chain tries Primary first and answers with the keyword heuristics when it
// fails.
type Chain struct {
	Primary Extractor
	Logger  *slog.Logger
}

func (c Chain) Extract(ctx context.Context, userInput string) (Intent, error) {
	if c.Primary != nil {
		out, err := c.Primary.Extract(ctx, userInput)
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return Intent{}, err
		}
		if c.Logger != nil {
			c.Logger.Warn("intent extraction failed, using keyword fallback", "err", err)
		}
	}
	return ParseFallback(userInput), nil
}
