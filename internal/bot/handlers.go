package bot

import (
	"bytes"
	"context"
	"strings"
	"time"

	"fx-signal-bot/internal/format"
	"fx-signal-bot/internal/logger"
	"fx-signal-bot/internal/model"
)

const logFilename = "signals_log.csv"

func (b *Bot) handleUpdate(ctx context.Context, upd Update) {
	switch {
	case upd.Message != nil:
		b.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *Message) {
	chatID := msg.Chat.ID
	switch command(msg.Text) {
	case "/start":
		b.reply(ctx, chatID,
			"Hi! Tap a button to get a signal for a random pair, or pick a pair to remember.",
			mainKeyboard())
	case "/signal":
		b.produceAndReply(ctx, chatID, b.rememberedPair(ctx, chatID))
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *CallbackQuery) {
	if err := b.api.AnswerCallback(ctx, cb.ID); err != nil {
		b.logger.Error("answerCallback failed", "error", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch {
	case cb.Data == "get_random":
		b.handleGetRandom(ctx, chatID)
	case cb.Data == "choose_pair":
		b.handleChoosePair(ctx, chatID)
	case strings.HasPrefix(cb.Data, "pair_"):
		b.handlePairSelected(ctx, chatID, cb.Data)
	case cb.Data == "get_logs":
		b.handleGetLogs(ctx, chatID)
	}
}

func (b *Bot) handleGetRandom(ctx context.Context, chatID int64) {
	pair := b.randPair()
	if err := b.prefs.Set(ctx, chatID, pair); err != nil {
		b.logger.Error("pair store set failed", "chat_id", chatID, "error", err)
	}
	b.reply(ctx, chatID, "Selected pair: "+pair.String()+", fetching data...", nil)
	b.produceAndReply(ctx, chatID, pair)
}

func (b *Bot) handleChoosePair(ctx context.Context, chatID int64) {
	rows := make([][]InlineKeyboardButton, len(b.pairs))
	for i, p := range b.pairs {
		rows[i] = []InlineKeyboardButton{{
			Text:         p.String(),
			CallbackData: "pair_" + p.Base + "_" + p.Quote,
		}}
	}
	b.reply(ctx, chatID, "Pick a pair to remember:", &InlineKeyboardMarkup{InlineKeyboard: rows})
}

func (b *Bot) handlePairSelected(ctx context.Context, chatID int64, data string) {
	pair, err := parsePairCallback(data)
	if err != nil {
		b.logger.Error("bad pair callback", "data", data, "error", err)
		b.reply(ctx, chatID, "Unknown pair.", nil)
		return
	}
	if err := b.prefs.Set(ctx, chatID, pair); err != nil {
		b.logger.Error("pair store set failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Could not save the pair, try again.", nil)
		return
	}
	b.reply(ctx, chatID, "Pair "+pair.String()+" saved. It will be used for your signals.", nil)
}

func (b *Bot) handleGetLogs(ctx context.Context, chatID int64) {
	var buf bytes.Buffer
	if err := b.siglog.Export(&buf); err != nil {
		b.logger.Error("log export failed", "chat_id", chatID, "error", err)
		b.reply(ctx, chatID, "Could not export the log, try again.", nil)
		return
	}
	if buf.Len() == 0 {
		b.reply(ctx, chatID, "No logs yet.", nil)
		return
	}
	if err := b.api.SendDocument(ctx, chatID, logFilename, &buf); err != nil {
		b.logger.Error("sendDocument failed", "chat_id", chatID, "error", err)
	}
}

// produceAndReply runs the pipeline for pair and sends either the
// signal message or a short error notice.
func (b *Bot) produceAndReply(ctx context.Context, chatID int64, pair model.Pair) {
	ctx = logger.WithTraceID(ctx, logger.GenerateTraceID(chatID, time.Now()))
	_, msg, err := b.pipe.Produce(ctx, chatID, pair)
	if err != nil {
		b.reply(ctx, chatID, format.Error(err), nil)
		return
	}
	if b.health != nil {
		b.health.SetLastSignal(time.Now())
	}
	b.reply(ctx, chatID, msg, nil)
}

// rememberedPair returns the chat's stored pair, or the default.
func (b *Bot) rememberedPair(ctx context.Context, chatID int64) model.Pair {
	pair, ok, err := b.prefs.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("pair store get failed", "chat_id", chatID, "error", err)
	}
	if !ok || err != nil {
		return b.fallback
	}
	return pair
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string, kb *InlineKeyboardMarkup) {
	if err := b.api.SendMessage(ctx, chatID, text, kb); err != nil {
		b.logger.Error("sendMessage failed", "chat_id", chatID, "error", err)
	}
}

func mainKeyboard() *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "📊 Random pair signal", CallbackData: "get_random"}},
		{{Text: "🔁 Choose and remember a pair", CallbackData: "choose_pair"}},
		{{Text: "📁 Get logs", CallbackData: "get_logs"}},
	}}
}

// command extracts the slash command from a message, dropping any
// bot-name suffix ("/start@my_bot") and arguments.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		text = text[:i]
	}
	if i := strings.IndexByte(text, '@'); i >= 0 {
		text = text[:i]
	}
	return text
}

// parsePairCallback turns "pair_EUR_USD" back into a pair.
func parsePairCallback(data string) (model.Pair, error) {
	raw := strings.TrimPrefix(data, "pair_")
	return model.ParsePair(strings.ReplaceAll(raw, "_", "/"))
}
