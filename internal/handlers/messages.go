package handlers

import (
	"errors"
	"fmt"
	"strings"

	"devart/internal/session"
	"devart/internal/siliconflow"
	"devart/internal/studio"
)

const maxListedAssets = 10

const helpText = "🎨 DevArt 图标助手\n\n" +
	"直接描述你想要的图标，例如：\n" +
	"「生成一组电商图标：首页、购物车、订单、我的，扁平线性风格，蓝色」\n\n" +
	"第一批生成后风格会自动锁定，后续图标保持一致。\n\n" +
	"命令：\n" +
	"/new - 新对话（清空记录并解锁风格）\n" +
	"/style - 查看当前风格\n" +
	"/assets - 最近生成的图标\n" +
	"/lock N - 以第 N 个图标的风格锁定\n" +
	"/unlock - 解锁风格\n" +
	"/reroll N - 同一 prompt 换一个种子\n" +
	"/exact N - 用相同 prompt 和种子重新生成\n" +
	"/nobg N - 去除背景"

func styleText(s session.Session) string {
	if !s.Style.Locked {
		return "🔓 风格未锁定。下一批生成成功后会自动锁定。"
	}

	var b strings.Builder
	b.WriteString("🔒 当前风格：" + s.Style.Description)
	if s.Style.PromptFragment != "" {
		b.WriteString("\n片段：" + s.Style.PromptFragment)
	}
	if s.Style.BaseSeed != 0 {
		fmt.Fprintf(&b, "\n基础种子：%d", s.Style.BaseSeed)
	}
	return b.String()
}

func assetsText(assets []session.Asset) string {
	if len(assets) == 0 {
		return "还没有生成任何图标。"
	}

	var b strings.Builder
	b.WriteString("最近的图标（1 为最新）：")
	for i, a := range assets {
		if i == maxListedAssets {
			fmt.Fprintf(&b, "\n… 以及另外 %d 个", len(assets)-maxListedAssets)
			break
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, assetCaption(a))
		if a.TransparentURL != "" {
			b.WriteString(" · 透明")
		}
	}
	return b.String()
}

func assetCaption(a session.Asset) string {
	name := a.Subject
	if name == "" {
		name = a.UserPrompt
	}
	if a.Seed != 0 {
		return fmt.Sprintf("%s · seed %d", name, a.Seed)
	}
	return name
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, siliconflow.ErrUnauthorized):
		return "SiliconFlow API Key 无效"
	case errors.Is(err, siliconflow.ErrInsufficientBalance):
		return "SiliconFlow 账户余额不足"
	case errors.Is(err, siliconflow.ErrRateLimited):
		return "API 请求频率限制，请稍后重试"
	case errors.Is(err, siliconflow.ErrNotConfigured), errors.Is(err, studio.ErrNoGenerator):
		return "图像生成服务未配置"
	case errors.Is(err, studio.ErrNoPrompts):
		return "未能生成有效的 Prompt"
	case errors.Is(err, studio.ErrAssetNotFound):
		return "找不到这个图标"
	case errors.Is(err, studio.ErrNoSeed):
		return "这个图标没有记录种子，无法精确重生成"
	}
	return "生成失败，请重试"
}
