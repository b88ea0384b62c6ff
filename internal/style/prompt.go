package style

import (
	"strconv"
	"strings"
)

// Clauses shared by the compiler, the extractor and tests.
const (
	clauseLineStyle   = "线条风格"
	clauseFillStyle   = "填充风格"
	clause3DStyle     = "3D 风格"
	clauseWhiteBG     = "白色背景"
	suffixStrokeWidth = "线条宽度"
)

var uiIconConstraints = []string{
	"icon only",
	"icon without background",
	"独立图标",
	"仅图标本身，无背景形状",
	"no background shape, no frame, no container",
	"无任何包含框架、容器、背景形状",
}

var appIconConstraints = []string{
	"应用图标",
	"品牌形象",
	"清晰可识别",
}

// BuildPrompt compiles a subject and a style into the generation prompt.
// Clause order is significant: hard constraints come first because the
// generator weights early tokens more heavily.
func BuildPrompt(subject Subject, style Params) string {
	isApp := subject.Kind == AppIcon
	primary := style.Color.Primary

	parts := make([]string, 0, 24)

	if isApp {
		parts = append(parts, appIconConstraints...)
	} else {
		parts = append(parts, uiIconConstraints...)
	}

	parts = append(parts, subject.English+" 图标")

	switch {
	case style.Type.IsLine():
		parts = append(parts,
			clauseLineStyle,
			FormatWidth(style.Stroke.Width)+"px "+suffixStrokeWidth,
			primary+" 线条颜色",
		)
	case style.Type == FlatFill:
		parts = append(parts, clauseFillStyle, primary+" 颜色填充")
	case style.Type.Is3D():
		parts = append(parts, clause3DStyle, primary+" 主色")
		if isApp {
			parts = append(parts, "可包含细微阴影和反光")
		}
	default:
		parts = append(parts, primary+" 单色图标")
	}

	parts = append(parts, clauseWhiteBG)

	if isApp {
		parts = append(parts, "清晰", "可识别", "专业")
		if style.Type == FlatFill {
			parts = append(parts, "可包含细节")
		}
	} else {
		parts = append(parts, "极简风格", "无装饰", "无多余元素", "清晰简洁")
	}

	parts = append(parts,
		"居中", "适当大小",
		"无文字", "无标记", "无数字",
		"高质量", "矢量风格", "清晰锐利",
	)

	return strings.Join(parts, ", ")
}

// FormatWidth renders a stroke width the shortest way: 2 -> "2", 1.5 -> "1.5".
func FormatWidth(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
