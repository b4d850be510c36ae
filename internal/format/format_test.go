package format

import (
	"errors"
	"strings"
	"testing"
	"time"

	"fx-signal-bot/internal/model"
)

func TestMessage_FixedLayout(t *testing.T) {
	sig := &model.Signal{
		Pair:       model.Pair{Base: "EUR", Quote: "USD"},
		Direction:  model.Buy,
		Strength:   model.High,
		HorizonMin: 5,
		Price:      1.10234,
		Indicators: model.IndicatorSet{
			RSI:  model.Float(22.4567),
			MA5:  model.Float(1.10210),
			MA14: model.Float(1.10180),
		},
		ProducedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	got := Message(sig)
	want := "💹 EUR/USD\n" +
		"🔼 Signal: BUY\n" +
		"📊 RSI: 22.46 | MA5: 1.10210 | MA14: 1.10180\n" +
		"💰 Price: 1.10234\n" +
		"⏱ Hold for: 5 min\n" +
		"🎯 Strength: HIGH"
	if got != want {
		t.Errorf("Message() =\n%s\nwant\n%s", got, want)
	}
}

func TestMessage_Glyphs(t *testing.T) {
	sig := &model.Signal{Pair: model.Pair{Base: "USD", Quote: "JPY"}}

	sig.Direction = model.Sell
	if !strings.Contains(Message(sig), "🔽 Signal: SELL") {
		t.Error("SELL should render the down glyph")
	}
	sig.Direction = model.Neutral
	if !strings.Contains(Message(sig), "⚪️ Signal: NEUTRAL") {
		t.Error("NEUTRAL should render the neutral glyph")
	}
}

func TestMessage_UndefinedIndicatorsPlaceholder(t *testing.T) {
	// Undefined values substitute 0.0 at this presentation point only.
	sig := &model.Signal{
		Pair:      model.Pair{Base: "EUR", Quote: "USD"},
		Direction: model.Neutral,
		Strength:  model.Low,
	}
	got := Message(sig)
	if !strings.Contains(got, "RSI: 0.00 | MA5: 0.00000 | MA14: 0.00000") {
		t.Errorf("undefined indicators should render as zero placeholders:\n%s", got)
	}
}

func TestError_IncludesCause(t *testing.T) {
	err := &model.ProviderError{Op: "payload", Cause: errors.New("rate limit")}
	got := Error(err)
	if !strings.Contains(got, "rate limit") {
		t.Errorf("Error() should include the cause: %s", got)
	}
}
