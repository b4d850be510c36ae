package indicator

import "fx-signal-bot/internal/model"

// RSI calculates the Relative Strength Index over a close sequence.
//
// Gains and losses from the first differences are smoothed with a
// recursive exponential average (alpha = 2/(period+1), seeded by the
// first delta), then RSI = 100 - 100/(1 + avgGain/avgLoss) at the final
// step.
//
// Undefined when fewer than 2 closes exist (no deltas), and when the
// smoothed average loss is exactly zero: forcing 100 there would push a
// flat series straight into the overbought rule.
func RSI(closes []float64, period int) model.NullFloat {
	if period <= 0 || len(closes) < 2 {
		return model.NullFloat{}
	}

	alpha := 2.0 / float64(period+1)
	var avgGain, avgLoss float64

	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		if i == 1 {
			// Seed with the first delta
			avgGain = gain
			avgLoss = loss
			continue
		}
		avgGain += alpha * (gain - avgGain)
		avgLoss += alpha * (loss - avgLoss)
	}

	if avgLoss == 0 {
		return model.NullFloat{}
	}
	rs := avgGain / avgLoss
	return model.Float(100.0 - 100.0/(1.0+rs))
}
