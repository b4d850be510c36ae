package model

import (
	"context"
	"io"
)

// ── Port Interfaces ──
// These interfaces decouple the signal pipeline and delivery layer from
// concrete collaborators (AlphaVantage, CSV/SQLite log, Redis).

// Source fetches recent intraday bars for a currency pair.
type Source interface {
	// FetchSeries returns closing-price bars sorted ascending by
	// timestamp. Failures are reported as *ProviderError.
	FetchSeries(ctx context.Context, pair Pair) ([]PricePoint, error)
}

// SignalLog is the append-only store of produced signals.
type SignalLog interface {
	// Append writes exactly one record. Safe for concurrent callers.
	Append(ctx context.Context, rec Record) error

	// Export writes the whole store as CSV: header plus one row per record.
	Export(w io.Writer) error

	// Close releases underlying resources.
	Close() error
}

// PairStore remembers the selected currency pair per chat session.
type PairStore interface {
	// Get returns the remembered pair for a chat, with ok=false when
	// the chat has no selection yet.
	Get(ctx context.Context, chatID int64) (Pair, bool, error)

	// Set remembers a pair for a chat, replacing any prior selection.
	Set(ctx context.Context, chatID int64, p Pair) error
}

// ProviderError reports a failed, malformed, or rate-limited upstream
// data fetch. The pipeline aborts on it: no signal, no log record.
type ProviderError struct {
	Op    string // "request", "fetch", "read", "payload", "decode"
	Cause error
}

func (e *ProviderError) Error() string {
	return "provider: " + e.Op + ": " + e.Cause.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
