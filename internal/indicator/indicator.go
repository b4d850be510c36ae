// Package indicator provides technical indicator calculations over
// closing-price sequences.
//
// All functions are pure and deterministic: they never mutate their
// input, and they report "not enough data" as an undefined
// model.NullFloat rather than a sentinel number.
package indicator

import "fx-signal-bot/internal/model"

// Standard windows for the signal pipeline.
const (
	FastWindow = 5
	SlowWindow = 14
	RSIPeriod  = 14
)

// Compute derives all indicators from one ascending close sequence.
// The three values are independent; an undefined value only means the
// sequence was too short for that particular window.
func Compute(closes []float64) model.IndicatorSet {
	return model.IndicatorSet{
		RSI:  RSI(closes, RSIPeriod),
		MA5:  SMA(closes, FastWindow),
		MA14: SMA(closes, SlowWindow),
	}
}
