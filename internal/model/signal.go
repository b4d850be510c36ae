package model

import (
	"encoding/json"
	"time"
)

// PricePoint is one intraday closing-price bar.
type PricePoint struct {
	TS    time.Time `json:"ts"` // bar time (UTC)
	Close float64   `json:"close"`
}

// NullFloat is a float64 that may be undefined, e.g. when too few bars
// exist to compute an indicator. The zero value is undefined. It exists
// so "no value" stays a distinct state instead of a NaN or 0.0 sentinel.
type NullFloat struct {
	Float64 float64 `json:"value"`
	Valid   bool    `json:"valid"`
}

// Float wraps a defined value.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// IndicatorSet holds the indicators derived from one close sequence.
type IndicatorSet struct {
	RSI  NullFloat `json:"rsi"`
	MA5  NullFloat `json:"ma5"`
	MA14 NullFloat `json:"ma14"`
}

// Direction is the advised trade direction.
type Direction string

const (
	Buy     Direction = "BUY"
	Sell    Direction = "SELL"
	Neutral Direction = "NEUTRAL"
)

// Strength is the qualitative confidence tier of a signal.
type Strength string

const (
	Low    Strength = "LOW"
	Medium Strength = "MEDIUM"
	High   Strength = "HIGH"
)

// Signal is one derived trading suggestion for a currency pair.
type Signal struct {
	Pair       Pair         `json:"pair"`
	Direction  Direction    `json:"direction"`
	Strength   Strength     `json:"strength"`
	HorizonMin int          `json:"horizon_min"` // recommended holding time, minutes
	Price      float64      `json:"price"`       // last close
	Indicators IndicatorSet `json:"indicators"`
	ProducedAt time.Time    `json:"produced_at"` // UTC
}

// JSON returns the JSON-encoded signal (ignoring errors for hot-path usage).
func (s *Signal) JSON() []byte {
	b, _ := json.Marshal(s)
	return b
}

// Record is the immutable log row written for every produced signal.
// Written once, never updated.
type Record struct {
	Signal
	ChatID int64 `json:"chat_id"`
}
