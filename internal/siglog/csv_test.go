package siglog

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"fx-signal-bot/internal/model"
)

var _ model.SignalLog = (*CSVLog)(nil)
var _ model.SignalLog = (*SQLiteLog)(nil)

func testRecord(chatID int64) model.Record {
	return model.Record{
		ChatID: chatID,
		Signal: model.Signal{
			Pair:       model.Pair{Base: "EUR", Quote: "USD"},
			Direction:  model.Buy,
			Strength:   model.Medium,
			HorizonMin: 3,
			Price:      1.102345,
			Indicators: model.IndicatorSet{
				RSI:  model.Float(31.5),
				MA5:  model.Float(1.1021),
				MA14: model.Float(1.1018),
			},
			ProducedAt: time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC),
		},
	}
}

func TestCSVLog_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals_log.csv")
	l, err := NewCSV(path)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	defer l.Close()

	ctx := context.Background()
	const n = 3
	for i := 0; i < n; i++ {
		if err := l.Append(ctx, testRecord(int64(100+i))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(rows) != n+1 {
		t.Fatalf("got %d rows, want header + %d records", len(rows), n)
	}
	if rows[0][0] != "time_utc" || rows[0][9] != "ma14" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	rec := rows[1]
	want := []string{
		"2025-03-01T12:30:00Z", "100", "EUR/USD", "BUY",
		"1.102345", "3", "MEDIUM", "31.5000", "1.102100", "1.101800",
	}
	for i := range want {
		if rec[i] != want[i] {
			t.Errorf("field %d: got %q, want %q", i, rec[i], want[i])
		}
	}
}

func TestCSVLog_UndefinedIndicatorsStoredAsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals_log.csv")
	l, err := NewCSV(path)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	defer l.Close()

	// Short series: no RSI, no MAs. The log must keep them undefined
	// instead of coercing to a numeric default.
	rec := testRecord(7)
	rec.Indicators = model.IndicatorSet{}
	if err := l.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	for _, i := range []int{7, 8, 9} { // rsi, ma5, ma14
		if rows[1][i] != "nan" {
			t.Errorf("field %s = %q, want nan", rows[0][i], rows[1][i])
		}
	}
	// Defined values are unaffected
	if rows[1][4] != "1.102345" {
		t.Errorf("price = %q, want 1.102345", rows[1][4])
	}
}

func TestCSVLog_ReopenKeepsSingleHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals_log.csv")

	l, err := NewCSV(path)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	if err := l.Append(context.Background(), testRecord(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	l.Close()

	// Reopen and append again: no second header, prior row intact.
	l, err = NewCSV(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()
	if err := l.Append(context.Background(), testRecord(2)); err != nil {
		t.Fatalf("Append after reopen: %v", err)
	}

	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 1 header + 2 records", len(rows))
	}
	if rows[1][1] != "1" || rows[2][1] != "2" {
		t.Errorf("rows out of order or lost: %v", rows[1:])
	}
}

func TestCSVLog_ConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals_log.csv")
	l, err := NewCSV(path)
	if err != nil {
		t.Fatalf("NewCSV: %v", err)
	}
	defer l.Close()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := l.Append(context.Background(), testRecord(id)); err != nil {
				t.Errorf("Append: %v", err)
			}
		}(int64(i))
	}
	wg.Wait()

	var buf bytes.Buffer
	if err := l.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("reading export (interleaved write?): %v", err)
	}
	if len(rows) != n+1 {
		t.Errorf("got %d rows, want header + %d records", len(rows), n)
	}
	for _, r := range rows[1:] {
		if len(r) != 10 {
			t.Errorf("torn row: %v", r)
		}
	}
}
