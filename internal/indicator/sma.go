package indicator

import "fx-signal-bot/internal/model"

// SMA returns the arithmetic mean of the last window closes.
// Undefined when fewer than window closes exist.
func SMA(closes []float64, window int) model.NullFloat {
	if window <= 0 || len(closes) < window {
		return model.NullFloat{}
	}
	sum := 0.0
	for _, c := range closes[len(closes)-window:] {
		sum += c
	}
	return model.Float(sum / float64(window))
}
