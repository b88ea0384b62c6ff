package intent

import (
	"context"
	"encoding/json"
	"strings"
)

// Intent is the structured result of reading a user request.
type Intent struct {
	IsVisual     bool     `json:"is_visual"`
	Subjects     []string `json:"subjects"`
	Color        string   `json:"color"`
	Style        string   `json:"style"`
	StrokeWidth  float64  `json:"stroke_width"`
	ChatResponse string   `json:"chat_response"`
}

// Extractor turns free text into an Intent.
type Extractor interface {
	Extract(ctx context.Context, userInput string) (Intent, error)
}

// SystemPrompt instructs an LLM to return an Intent as a JSON object.
const SystemPrompt = `你是 DevArt 的意图分析器。分析用户输入，提取结构化的生成参数。

## 任务
1. 判断是否为图像生成请求
2. 如果是，提取：
   - subjects: 要生成的主题列表（每个图标一个主题）
   - color: 颜色（如 "蓝色"、"#FF5722"）
   - style: 风格描述（如 "扁平线性"、"3D软萌"）
   - stroke_width: 线宽（1-4px，默认2px，仅线性风格需要）
3. 如果不是生成请求，提供友好回复

## 主题拆分规则
- "首页、购物车、订单、我的" → ["首页", "购物车", "订单", "我的"]
- "一套电商图标" → 分解为具体图标：["首页", "购物车", "订单", "我的", "收藏"]
- 单个需求如 "设置图标" → ["设置"]

## 风格识别
- 线性/线条/描边 → style: "线性"
- 扁平/填充/极简 → style: "扁平"
- 3D/立体/圆润/可爱/软萌 → style: "3D"
- 像素/8位 → style: "像素"
- 科技感/未来/几何 → style: "科技"

## 颜色识别
- 保持用户原始表述（如 "蓝色"、"橙色"、"#007AFF"）
- 如果未指定，默认 "黑色"

## 输出格式（JSON）
{"is_visual":true,"subjects":["主题1","主题2"],"color":"黑色","style":"扁平线性","stroke_width":2,"chat_response":""}

或非视觉请求：
{"is_visual":false,"subjects":[],"color":"","style":"","stroke_width":0,"chat_response":"友好的回复内容"}

## 示例

输入: "生成一组电商 App 图标：首页、购物车、订单、我的，要扁平线性风格，主色蓝色"
输出: {"is_visual":true,"subjects":["首页","购物车","订单","我的"],"color":"蓝色","style":"扁平线性","stroke_width":2,"chat_response":""}

输入: "帮我画一个设置图标，圆润可爱的3D风格，橙色"
输出: {"is_visual":true,"subjects":["设置"],"color":"橙色","style":"3D可爱","stroke_width":0,"chat_response":""}

输入: "你好"
输出: {"is_visual":false,"subjects":[],"color":"","style":"","stroke_width":0,"chat_response":"你好！我是 DevArt，你的 AI 美术伙伴。我可以帮你生成风格统一的 UI 图标。试试说「生成一组电商图标：首页、购物车、订单」"}`

// Decode parses an LLM reply into an Intent. Code fences around the JSON
// object are tolerated; an empty reply decodes to a zero Intent.
func Decode(raw string) (Intent, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "{}"
	}

	var out Intent
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return Intent{}, err
	}
	out.Subjects = cleanSubjects(out.Subjects)
	return out, nil
}

func cleanSubjects(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
