package style_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devart/internal/style"
)

var allTypes = []style.Type{
	style.FlatLine, style.FlatFill, style.Soft3D, style.Glossy3D, style.Outline,
	style.Glyph, style.Pixel, style.HandDrawn, style.Neon, style.Glassmorphic,
}

func paramsOf(t style.Type, width float64) style.Params {
	return style.Params{
		Type:   t,
		Color:  style.Color{Primary: "#007AFF", Background: "white"},
		Stroke: style.Stroke{Width: width},
	}.Normalize()
}

func TestBuildPromptUIIcon(t *testing.T) {
	subject := style.ParseSubject("首页")
	got := style.BuildPrompt(subject, paramsOf(style.FlatLine, 2))

	want := strings.Join([]string{
		"icon only",
		"icon without background",
		"独立图标",
		"仅图标本身，无背景形状",
		"no background shape, no frame, no container",
		"无任何包含框架、容器、背景形状",
		"home house 图标",
		"线条风格",
		"2px 线条宽度",
		"#007AFF 线条颜色",
		"白色背景",
		"极简风格", "无装饰", "无多余元素", "清晰简洁",
		"居中", "适当大小",
		"无文字", "无标记", "无数字",
		"高质量", "矢量风格", "清晰锐利",
	}, ", ")
	assert.Equal(t, want, got)
}

func TestBuildPromptAppIcon(t *testing.T) {
	subject := style.ParseSubject("星巴克")

	fill := style.BuildPrompt(subject, paramsOf(style.FlatFill, 0))
	assert.True(t, strings.HasPrefix(fill, "应用图标, 品牌形象, 清晰可识别, starbucks siren logo coffee 图标, 填充风格, #007AFF 颜色填充, 白色背景, 清晰, 可识别, 专业, 可包含细节, "))

	soft := style.BuildPrompt(subject, paramsOf(style.Soft3D, 0))
	assert.Contains(t, soft, "3D 风格, #007AFF 主色, 可包含细微阴影和反光")
	assert.NotContains(t, soft, "可包含细节")
}

func TestBuildPromptBranchExclusivity(t *testing.T) {
	for _, name := range []string{"首页", "星巴克", "未知主题"} {
		subject := style.ParseSubject(name)

		line := style.BuildPrompt(subject, paramsOf(style.FlatLine, 2))
		assert.NotContains(t, line, "填充", name)

		fill := style.BuildPrompt(subject, paramsOf(style.FlatFill, 0))
		assert.NotContains(t, fill, "线条宽度", name)

		soft := style.BuildPrompt(style.ParseSubject("首页"), paramsOf(style.Soft3D, 0))
		assert.NotContains(t, soft, "可包含细微阴影和反光")

		for _, typ := range []style.Type{style.Glyph, style.Pixel, style.HandDrawn, style.Neon, style.Glassmorphic} {
			assert.Contains(t, style.BuildPrompt(subject, paramsOf(typ, 1)), "#007AFF 单色图标", typ)
		}
	}
}

func TestBuildPromptContainment(t *testing.T) {
	frame := "no background shape, no frame, no container"
	for _, typ := range allTypes {
		ui := style.BuildPrompt(style.ParseSubject("购物车"), paramsOf(typ, 2))
		assert.Contains(t, ui, frame, typ)
		assert.Contains(t, ui, "仅图标本身，无背景形状", typ)

		app := style.BuildPrompt(style.ParseSubject("星巴克"), paramsOf(typ, 2))
		assert.NotContains(t, app, frame, typ)
		assert.NotContains(t, app, "无背景形状", typ)
		assert.Contains(t, app, "白色背景", typ)
	}
}

func TestCompileBatchScenario(t *testing.T) {
	preset := style.ParseStyle("扁平线性")
	require.Equal(t, style.FlatLine, preset.Type)
	require.Equal(t, 2.0, preset.Stroke)
	require.Equal(t, "#007AFF", style.ParseColor("蓝色"))

	params := style.Resolve("扁平线性", "蓝色", 0)
	const base = int64(123456)

	seen := map[int64]bool{}
	for i, name := range []string{"首页", "购物车", "订单", "我的"} {
		item := style.Compile(name, params, base, i)

		assert.Equal(t, name, item.Subject)
		assert.Contains(t, item.Prompt, "线条风格")
		assert.Contains(t, item.Prompt, "2px")
		assert.Contains(t, item.Prompt, "#007AFF")
		assert.Equal(t, style.GenerateSeed(style.ParseSubject(name).English, base+int64(i)), item.Seed)
		assert.False(t, seen[item.Seed], "seed %d repeated", item.Seed)
		seen[item.Seed] = true

		assert.Equal(t, item, style.Compile(name, params, base, i), "compile must be repeatable")
	}
}

func TestExtractFromPromptRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		params style.Params
	}{
		{name: "flat line", params: style.Resolve("线性", "蓝色", 0)},
		{name: "fractional stroke", params: style.Resolve("科技", "#ff5722", 0)},
		{name: "thick line", params: style.Resolve("粗线", "红色", 0)},
		{name: "flat fill", params: style.Resolve("扁平", "绿色", 0)},
		{name: "soft 3d", params: style.Resolve("立体", "橙色", 0)},
	}

	for _, tt := range tests {
		for _, subject := range []string{"设置", "星巴克"} {
			t.Run(tt.name+"/"+subject, func(t *testing.T) {
				prompt := style.BuildPrompt(style.ParseSubject(subject), tt.params)
				got := style.ExtractFromPrompt(prompt)

				assert.Equal(t, tt.params.Type, got.Type)
				assert.Equal(t, tt.params.Color.Primary, got.Color.Primary)
				assert.Equal(t, tt.params.Stroke.Width, got.Stroke.Width)
				assert.Equal(t, tt.params.Stroke.Style, got.Stroke.Style)
				assert.Equal(t, "white", got.Color.Background)
			})
		}
	}
}

func TestExtractFromPromptHeuristics(t *testing.T) {
	t.Run("empty prompt degrades", func(t *testing.T) {
		got := style.ExtractFromPrompt("")
		assert.Equal(t, style.FlatFill, got.Type)
		assert.Equal(t, "#000000", got.Color.Primary)
		assert.Equal(t, "transparent", got.Color.Background)
		assert.Zero(t, got.Stroke.Width)
		assert.Equal(t, style.StrokeNone, got.Stroke.Style)
		assert.Empty(t, got.Modifiers)
	})

	t.Run("glossy 3d", func(t *testing.T) {
		got := style.ExtractFromPrompt("3d icon, 光泽, 圆角, 可爱, 圆角")
		assert.Equal(t, style.Glossy3D, got.Type)
		assert.Equal(t, []string{"柔和3D", "圆角", "可爱"}, got.Modifiers)
	})

	t.Run("line keywords outrank 3d", func(t *testing.T) {
		got := style.ExtractFromPrompt("3D stroke art #abcdef 3px")
		assert.Equal(t, style.FlatLine, got.Type)
		assert.Equal(t, "#ABCDEF", got.Color.Primary)
		assert.Equal(t, 3.0, got.Stroke.Width)
		assert.Equal(t, style.StrokeSolid, got.Stroke.Style)
	})

	t.Run("outline and pixel", func(t *testing.T) {
		assert.Equal(t, style.Outline, style.ExtractFromPrompt("轮廓 icon").Type)
		assert.Equal(t, style.Pixel, style.ExtractFromPrompt("像素 icon, 极简").Type)
	})
}

func TestLockedStyleCarriesToNewSubject(t *testing.T) {
	locked := style.Resolve("粗线", "紫色", 0)
	prompt := style.BuildPrompt(style.ParseSubject("首页"), locked)

	recovered := style.ExtractFromPrompt(prompt)
	next := style.BuildPrompt(style.ParseSubject("设置"), recovered)

	again := style.ExtractFromPrompt(next)
	assert.True(t, locked.SameStyle(again))
}
