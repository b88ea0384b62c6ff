package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"devart/internal/burst"
	"devart/internal/session"
	"devart/internal/studio"
	"devart/internal/telegram"
)

const assetCallbackPrefix = "as"

// Messenger is the part of the Telegram client the handler talks to.
type Messenger interface {
	SendTyping(chatID int64)
	SendText(chatID int64, text string) error
	SendImage(chatID int64, imageURL, caption string, asDocument bool, keyboard *telegram.InlineKeyboard) error
	AnswerCallback(callbackID, text string, alert bool) error
}

type Options struct {
	Telegram Messenger
	Studio   *studio.Service
	Logger   *slog.Logger
}

type Handler struct {
	tg         Messenger
	studio     *studio.Service
	logger     *slog.Logger
	aggregator *burst.Aggregator
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tg:     opts.Telegram,
		studio: opts.Studio,
		logger: logger,
	}
}

// SetBurstAggregator routes free text through ag instead of handling every
// message on its own.
func (h *Handler) SetBurstAggregator(ag *burst.Aggregator) {
	h.aggregator = ag
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}
	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		if h.aggregator != nil && msg.From != nil {
			h.aggregator.Flush(chatID, msg.From.ID)
		}
		return h.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	if cmd, ok := commandFromText(text); ok {
		return h.handleCommand(ctx, chatID, cmd, "")
	}

	if h.aggregator != nil && msg.From != nil {
		h.aggregator.Add(burst.Item{
			ChatID:   chatID,
			UserID:   msg.From.ID,
			Username: msg.From.UserName,
			Text:     text,
		})
		return nil
	}
	return h.generate(ctx, chatID, text)
}

func (h *Handler) HandleBurst(ctx context.Context, b burst.Batch) {
	if err := h.generate(ctx, b.ChatID, b.Text()); err != nil {
		h.logger.Error("burst processing failed", "chat_id", b.ChatID, "err", err)
	}
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, cmd, args string) error {
	sid := sessionID(chatID)

	switch cmd {
	case "start", "help":
		return h.tg.SendText(chatID, helpText)
	case "new":
		h.studio.NewChat(sid)
		return h.tg.SendText(chatID, "✅ 已开始新对话，风格已解锁。")
	case "style":
		return h.tg.SendText(chatID, styleText(h.studio.Store().Snapshot(sid)))
	case "unlock":
		h.studio.Unlock(sid)
		return h.tg.SendText(chatID, "🔓 风格已解锁，下一次生成将使用新的风格。")
	case "assets":
		return h.tg.SendText(chatID, assetsText(h.studio.Store().Snapshot(sid).Assets))
	case "lock", "reroll", "exact", "nobg":
		asset, err := h.assetByIndex(sid, args)
		if err != nil {
			return h.tg.SendText(chatID, "❌ "+err.Error())
		}
		return h.assetAction(ctx, chatID, cmd, asset.ID)
	default:
		return h.tg.SendText(chatID, "❌ 未知命令，发送 /help 查看用法。")
	}
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil {
		return nil
	}
	parts := strings.SplitN(strings.TrimSpace(q.Data), ":", 3)
	if len(parts) != 3 || parts[0] != assetCallbackPrefix {
		return nil
	}

	_ = h.tg.AnswerCallback(q.ID, "处理中…", false)
	return h.assetAction(ctx, q.Message.Chat.ID, parts[1], parts[2])
}

func (h *Handler) assetAction(ctx context.Context, chatID int64, action, assetID string) error {
	sid := sessionID(chatID)

	switch action {
	case "lock":
		lock, err := h.studio.LockFromAsset(sid, assetID)
		if err != nil {
			return h.tg.SendText(chatID, "❌ "+userMessage(err))
		}
		return h.tg.SendText(chatID, "🔒 风格已锁定："+lock.Description)

	case "reroll", "exact":
		h.tg.SendTyping(chatID)
		var (
			asset session.Asset
			err   error
		)
		if action == "reroll" {
			asset, err = h.studio.Reroll(ctx, sid, assetID)
		} else {
			asset, err = h.studio.ExactRegenerate(ctx, sid, assetID)
		}
		if err != nil {
			h.logger.Error("regenerate failed", "action", action, "asset_id", assetID, "err", err)
			return h.tg.SendText(chatID, "❌ "+userMessage(err))
		}
		return h.sendAsset(chatID, asset)

	case "nobg":
		h.tg.SendTyping(chatID)
		asset, res, err := h.studio.RemoveBackground(ctx, sid, assetID)
		if err != nil {
			return h.tg.SendText(chatID, "❌ "+userMessage(err))
		}
		if asset.TransparentURL == "" {
			note := res.Note
			if note == "" {
				note = "背景移除失败，返回原图"
			}
			return h.tg.SendText(chatID, "⚠️ "+note)
		}
		return h.tg.SendImage(chatID, asset.TransparentURL, assetCaption(asset)+" · 透明背景", true, nil)
	}
	return nil
}

func (h *Handler) generate(ctx context.Context, chatID int64, text string) error {
	h.tg.SendTyping(chatID)

	res, err := h.studio.Generate(ctx, sessionID(chatID), text, func(p studio.Plan) {
		_ = h.tg.SendText(chatID, p.Suggestion)
	})
	if errors.Is(err, studio.ErrEmptyInput) {
		return nil
	}

	if err == nil && !res.Plan.IsVisual {
		return h.tg.SendText(chatID, res.Plan.ChatResponse)
	}

	for _, asset := range res.Assets {
		if sendErr := h.sendAsset(chatID, asset); sendErr != nil {
			h.logger.Error("send photo failed", "asset_id", asset.ID, "err", sendErr)
		}
	}

	if res.AutoLocked {
		_ = h.tg.SendText(chatID, studio.LockedNotice(res.Style.Description)+"（/unlock）")
	}

	if err != nil {
		h.logger.Error("generation failed", "chat_id", chatID, "produced", len(res.Assets), "err", err)
		return h.tg.SendText(chatID, "❌ "+userMessage(err))
	}
	return nil
}

func (h *Handler) sendAsset(chatID int64, asset session.Asset) error {
	kb := assetKeyboard(asset.ID)
	return h.tg.SendImage(chatID, asset.ImageURL, assetCaption(asset), false, &kb)
}

func (h *Handler) assetByIndex(sid, args string) (session.Asset, error) {
	assets := h.studio.Store().Snapshot(sid).Assets
	if len(assets) == 0 {
		return session.Asset{}, errors.New("还没有生成任何图标")
	}

	n := 1
	if arg := strings.TrimSpace(args); arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 || parsed > len(assets) {
			return session.Asset{}, fmt.Errorf("请输入 1 到 %d 之间的编号（见 /assets）", len(assets))
		}
		n = parsed
	}
	return assets[n-1], nil
}

func assetKeyboard(assetID string) telegram.InlineKeyboard {
	data := func(action string) string {
		return assetCallbackPrefix + ":" + action + ":" + assetID
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔒 锁定风格", data("lock")),
			tgbotapi.NewInlineKeyboardButtonData("✂️ 去背景", data("nobg")),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 换一张", data("reroll")),
			tgbotapi.NewInlineKeyboardButtonData("🎯 精确重生成", data("exact")),
		),
	)
}

func sessionID(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
