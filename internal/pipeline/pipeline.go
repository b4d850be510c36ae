// Package pipeline produces a signal for one chat request: fetch bars,
// compute indicators, evaluate the decision rules, format the reply,
// and append the outcome to the signal log.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fx-signal-bot/internal/format"
	"fx-signal-bot/internal/indicator"
	"fx-signal-bot/internal/metrics"
	"fx-signal-bot/internal/model"
	"fx-signal-bot/internal/rule"
)

// Deps carries the pipeline's collaborators.
type Deps struct {
	Source  model.Source
	Log     model.SignalLog
	Metrics *metrics.Metrics
	Health  *metrics.HealthStatus
	Publish func(*model.Signal) // optional fan-out hook (WebSocket stream)
	Logger  *slog.Logger
	Now     func() time.Time
}

// Pipeline turns a (chat, pair) request into a signal and its message.
type Pipeline struct {
	d Deps
}

// New creates a pipeline. Logger and Now get defaults if unset.
func New(d Deps) *Pipeline {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Pipeline{d: d}
}

// Produce fetches the latest bars for pair, derives a signal, and
// returns it with its formatted message. The signal is appended to the
// log before returning; a log failure marks the health status degraded
// and is reported via metrics and the logger, but never blocks
// delivery. A fetch failure produces no signal and no log record.
func (p *Pipeline) Produce(ctx context.Context, chatID int64, pair model.Pair) (*model.Signal, string, error) {
	start := p.d.Now()
	points, err := p.d.Source.FetchSeries(ctx, pair)
	if p.d.Metrics != nil {
		p.d.Metrics.FetchDur.Observe(p.d.Now().Sub(start).Seconds())
	}
	if err != nil {
		if p.d.Metrics != nil {
			p.d.Metrics.ProviderErrors.Inc()
		}
		p.d.Logger.Error("fetch failed", "pair", pair.String(), "chat_id", chatID, "error", err)
		return nil, "", err
	}

	if len(points) == 0 {
		err := &model.ProviderError{Op: "decode", Cause: errors.New("empty series")}
		if p.d.Metrics != nil {
			p.d.Metrics.ProviderErrors.Inc()
		}
		return nil, "", err
	}

	closes := make([]float64, len(points))
	for i, pt := range points {
		closes[i] = pt.Close
	}
	ind := indicator.Compute(closes)

	lastClose := closes[len(closes)-1]
	advice := rule.Evaluate(ind.RSI, ind.MA5, ind.MA14, lastClose)

	sig := &model.Signal{
		Pair:       pair,
		Direction:  advice.Direction,
		Strength:   advice.Strength,
		HorizonMin: advice.HorizonMin,
		Price:      lastClose,
		Indicators: ind,
		ProducedAt: p.d.Now().UTC(),
	}
	msg := format.Message(sig)

	if err := p.d.Log.Append(ctx, model.Record{Signal: *sig, ChatID: chatID}); err != nil {
		if p.d.Metrics != nil {
			p.d.Metrics.LogAppendErrors.Inc()
		}
		if p.d.Health != nil {
			p.d.Health.SetLogOK(false)
		}
		p.d.Logger.Error("signal log append failed", "pair", pair.String(), "chat_id", chatID, "error", err)
	} else if p.d.Health != nil {
		p.d.Health.SetLogOK(true)
	}

	if p.d.Metrics != nil {
		p.d.Metrics.SignalsTotal.WithLabelValues(string(sig.Direction)).Inc()
	}
	if p.d.Publish != nil {
		p.d.Publish(sig)
	}

	p.d.Logger.Info("signal produced",
		"pair", pair.String(),
		"chat_id", chatID,
		"direction", string(sig.Direction),
		"strength", string(sig.Strength),
		"horizon_min", sig.HorizonMin,
		"price", sig.Price,
	)
	return sig, msg, nil
}
