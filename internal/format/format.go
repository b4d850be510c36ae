// Package format renders signals into the fixed chat message template.
package format

import (
	"fmt"
	"strings"

	"fx-signal-bot/internal/model"
)

// Message renders the fixed multi-line signal template:
// pair, direction with glyph, indicators, price, horizon, strength.
// Price and MAs use 5 decimals, RSI uses 2.
func Message(sig *model.Signal) string {
	lines := []string{
		fmt.Sprintf("💹 %s", sig.Pair),
		fmt.Sprintf("%s Signal: %s", glyph(sig.Direction), sig.Direction),
		fmt.Sprintf("📊 RSI: %.2f | MA5: %.5f | MA14: %.5f",
			placeholder(sig.Indicators.RSI),
			placeholder(sig.Indicators.MA5),
			placeholder(sig.Indicators.MA14)),
		fmt.Sprintf("💰 Price: %.5f", sig.Price),
		fmt.Sprintf("⏱ Hold for: %d min", sig.HorizonMin),
		fmt.Sprintf("🎯 Strength: %s", sig.Strength),
	}
	return strings.Join(lines, "\n")
}

// Error renders a short user-visible failure message with its cause.
func Error(err error) string {
	return fmt.Sprintf("⚠️ Could not fetch data: %v", err)
}

func glyph(d model.Direction) string {
	switch d {
	case model.Buy:
		return "🔼"
	case model.Sell:
		return "🔽"
	default:
		return "⚪️"
	}
}

// placeholder substitutes 0.0 for undefined indicator values. The
// template has no distinct n/a rendering, and this is the single place
// in the system where "undefined" becomes a number.
func placeholder(v model.NullFloat) float64 {
	if !v.Valid {
		return 0.0
	}
	return v.Float64
}
