// Package bot is the Telegram delivery layer: it long-polls for chat
// updates and answers them with signals produced by the pipeline.
package bot

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/model"
	"fx-signal-bot/internal/pipeline"
)

// telegramAPI is the slice of the Bot API the handlers use.
type telegramAPI interface {
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, keyboard *InlineKeyboardMarkup) error
	AnswerCallback(ctx context.Context, callbackID string) error
	SendDocument(ctx context.Context, chatID int64, filename string, content io.Reader) error
}

// Deps carries the bot's collaborators.
type Deps struct {
	API      *API
	Pipeline *pipeline.Pipeline
	Prefs    model.PairStore
	Log      model.SignalLog
	Pairs    []model.Pair // selectable pairs
	Fallback model.Pair   // used when a chat has no remembered pair
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Health   *metrics.HealthStatus
}

// Bot routes Telegram updates to handlers.
type Bot struct {
	api      telegramAPI
	pipe     *pipeline.Pipeline
	prefs    model.PairStore
	siglog   model.SignalLog
	pairs    []model.Pair
	fallback model.Pair
	logger   *slog.Logger
	met      *metrics.Metrics
	health   *metrics.HealthStatus
	randPair func() model.Pair
}

// New creates the bot.
func New(d Deps) *Bot {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	b := &Bot{
		api:      d.API,
		pipe:     d.Pipeline,
		prefs:    d.Prefs,
		siglog:   d.Log,
		pairs:    d.Pairs,
		fallback: d.Fallback,
		logger:   d.Logger,
		met:      d.Metrics,
		health:   d.Health,
	}
	b.randPair = func() model.Pair {
		return b.pairs[rand.Intn(len(b.pairs))]
	}
	return b
}

// Run long-polls getUpdates until ctx is cancelled. Each update is
// handled in its own goroutine so a slow upstream fetch does not stall
// the poll loop.
func (b *Bot) Run(ctx context.Context) {
	b.logger.Info("bot started polling")
	var offset int64
	for {
		updates, err := b.api.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info("bot stopped")
				return
			}
			b.logger.Error("getUpdates failed", "error", err)
			select {
			case <-time.After(3 * time.Second):
			case <-ctx.Done():
				b.logger.Info("bot stopped")
				return
			}
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			if b.met != nil {
				b.met.UpdatesTotal.Inc()
			}
			if b.health != nil {
				b.health.SetLastUpdate(time.Now())
			}
			go b.handleUpdate(ctx, upd)
		}
	}
}
