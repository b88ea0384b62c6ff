package style

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	promptColorRegex  = regexp.MustCompile(`#[0-9A-Fa-f]{6}`)
	promptStrokeRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)px`)
)

var modifierPatterns = []string{"扁平设计", "极简", "圆角", "可爱", "现代", "几何", "手绘"}

// ExtractFromPrompt rebuilds an approximate Params from a compiled prompt.
// It is lossy by nature and never fails: missing pieces take defaults.
func ExtractFromPrompt(prompt string) Params {
	primary := DefaultColor
	if m := promptColorRegex.FindString(prompt); m != "" {
		primary = strings.ToUpper(m)
	}

	var width float64
	if m := promptStrokeRegex.FindStringSubmatch(prompt); len(m) == 2 {
		if w, err := strconv.ParseFloat(m[1], 64); err == nil {
			width = w
		}
	}

	typ := FlatFill
	var modifiers []string

	switch {
	case strings.Contains(prompt, "线艺术") || strings.Contains(prompt, "stroke") || strings.Contains(prompt, clauseLineStyle):
		typ = FlatLine
		modifiers = append(modifiers, "线艺术")
	case strings.Contains(prompt, "3d") || strings.Contains(prompt, "3D"):
		typ = Soft3D
		if strings.Contains(prompt, "光泽") {
			typ = Glossy3D
		}
		modifiers = append(modifiers, "柔和3D")
	case strings.Contains(prompt, "轮廓"):
		typ = Outline
		modifiers = append(modifiers, "仅轮廓")
	case strings.Contains(prompt, "像素"):
		typ = Pixel
		modifiers = append(modifiers, "像素艺术")
	}

	for _, p := range modifierPatterns {
		if strings.Contains(prompt, p) {
			modifiers = append(modifiers, p)
		}
	}

	background := "transparent"
	if strings.Contains(prompt, clauseWhiteBG) {
		background = "white"
	}

	return Params{
		Type:      typ,
		Color:     Color{Primary: primary, Background: background},
		Stroke:    Stroke{Width: width},
		Modifiers: dedupe(modifiers),
	}.Normalize()
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
