package style

import "strings"

var typeNames = map[Type]string{
	FlatLine:     "扁平线性",
	FlatFill:     "扁平填充",
	Soft3D:       "3D 软萌",
	Glossy3D:     "3D 光泽",
	Outline:      "轮廓线",
	Glyph:        "符号",
	Pixel:        "像素风",
	HandDrawn:    "手绘风",
	Neon:         "霓虹风",
	Glassmorphic: "玻璃态",
}

var qualityNames = map[Quality]string{
	QualityStandard: "标准",
	QualityHigh:     "高质",
	QualityUltra:    "超高",
}

// Describe renders a short human-readable summary of a style.
func Describe(p Params) string {
	parts := make([]string, 0, 4)

	if name, ok := typeNames[p.Type]; ok {
		parts = append(parts, name)
	} else if p.Type != "" {
		parts = append(parts, string(p.Type))
	}
	parts = append(parts, "主色 "+p.Color.Primary)

	if p.Stroke.Width > 0 {
		parts = append(parts, FormatWidth(p.Stroke.Width)+"px 线宽")
	}
	if name := qualityNames[p.Quality]; name != "" {
		parts = append(parts, name)
	}

	return strings.Join(parts, "，")
}

// Fragment renders the reusable prompt fragment stored with a style lock.
func Fragment(p Params) string {
	parts := append([]string{}, p.Modifiers...)

	if p.Stroke.Width > 0 {
		parts = append(parts, FormatWidth(p.Stroke.Width)+"px 均匀线条宽度")
	}
	parts = append(parts, "单色 "+p.Color.Primary)
	if p.Color.Background != "" {
		parts = append(parts, p.Color.Background+" 背景")
	}

	return strings.Join(parts, ", ")
}
