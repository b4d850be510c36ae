// Package siglog persists produced signals to an append-only store.
//
// Two backends share one row layout: a plain CSV file (the default) and
// a SQLite database whose Export renders the identical CSV. Records are
// written once and never updated or deleted.
package siglog

import (
	"strconv"
	"time"

	"fx-signal-bot/internal/model"
)

// header is the first row of every export and of a fresh CSV file.
var header = []string{
	"time_utc", "chat_id", "pair", "direction", "price",
	"horizon_min", "strength", "rsi", "ma5", "ma14",
}

// row renders a record to its stored string fields: price to 6 decimals,
// RSI to 4, MAs to 6. An undefined indicator is stored as "nan" so the
// log keeps the distinction the chat message gives up.
func row(rec model.Record) []string {
	return []string{
		rec.ProducedAt.UTC().Format(time.RFC3339),
		strconv.FormatInt(rec.ChatID, 10),
		rec.Pair.String(),
		string(rec.Direction),
		strconv.FormatFloat(rec.Price, 'f', 6, 64),
		strconv.Itoa(rec.HorizonMin),
		string(rec.Strength),
		optField(rec.Indicators.RSI, 4),
		optField(rec.Indicators.MA5, 6),
		optField(rec.Indicators.MA14, 6),
	}
}

// optField renders an indicator value, or "nan" when it is undefined.
func optField(v model.NullFloat, prec int) string {
	if !v.Valid {
		return "nan"
	}
	return strconv.FormatFloat(v.Float64, 'f', prec, 64)
}
