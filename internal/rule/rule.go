// Package rule turns indicator state into a directional trading advice.
//
// The engine is a deterministic decision table over (RSI, MA5, MA14):
// an RSI threshold rule picks the primary direction, an agreeing
// moving-average trend escalates its strength, and a trend-only
// fallback covers the cases where the RSI gives no signal.
package rule

import "fx-signal-bot/internal/model"

// Advice is the output triple of the rule engine.
type Advice struct {
	Direction  model.Direction
	Strength   model.Strength
	HorizonMin int
}

// maTrend is the relation between the fast and slow moving averages.
type maTrend int

const (
	trendFlat maTrend = iota
	trendUp
	trendDown
)

// Evaluate maps indicator state to a trade advice.
//
// Total: every input combination yields exactly one advice. An
// undefined indicator never panics and never leaks a numeric default,
// it just disables the rules that need it.
func Evaluate(rsi, ma5, ma14 model.NullFloat, lastClose float64) Advice {
	trend := trendFlat
	if ma5.Valid && ma14.Valid {
		switch {
		case ma5.Float64 > ma14.Float64:
			trend = trendUp
		case ma5.Float64 < ma14.Float64:
			trend = trendDown
		}
	}

	// Primary RSI rule, first match wins.
	var adv Advice
	primary := false
	if rsi.Valid {
		switch r := rsi.Float64; {
		case r < 25:
			adv = Advice{model.Buy, model.High, 5}
			primary = true
		case r < 35:
			adv = Advice{model.Buy, model.Medium, 3}
			primary = true
		case r > 75:
			adv = Advice{model.Sell, model.High, 5}
			primary = true
		case r > 65:
			adv = Advice{model.Sell, model.Medium, 3}
			primary = true
		}
	}

	if !primary {
		// Trend-only fallback, else neutral.
		switch trend {
		case trendUp:
			return Advice{model.Buy, model.Low, 2}
		case trendDown:
			return Advice{model.Sell, model.Low, 2}
		default:
			return Advice{model.Neutral, model.Low, 2}
		}
	}

	// MA confirmation: when the trend agrees with the primary direction,
	// escalate strength one step (capped at HIGH) and never shrink the
	// horizon. HIGH with confirmation keeps its horizon unchanged.
	agrees := (adv.Direction == model.Buy && trend == trendUp) ||
		(adv.Direction == model.Sell && trend == trendDown)
	if agrees {
		switch adv.Strength {
		case model.Low:
			adv.Strength = model.Medium
			if adv.HorizonMin < 3 {
				adv.HorizonMin = 3
			}
		case model.Medium:
			adv.Strength = model.High
			if adv.HorizonMin < 4 {
				adv.HorizonMin = 4
			}
		}
	}
	return adv
}
