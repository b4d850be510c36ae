package siglog

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"testing"

	"fx-signal-bot/internal/model"
)

func TestSQLiteLog_AppendAndExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.db")
	l, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer l.Close()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := l.Append(ctx, testRecord(int64(200+i))); err != nil {
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
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 1 header + 2 records", len(rows))
	}
	if rows[0][0] != "time_utc" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	// Same layout as the CSV backend
	if rows[1][2] != "EUR/USD" || rows[1][4] != "1.102345" || rows[1][7] != "31.5000" {
		t.Errorf("unexpected first record: %v", rows[1])
	}
	// Insertion order preserved
	if rows[1][1] != "200" || rows[2][1] != "201" {
		t.Errorf("rows out of insertion order: %v", rows[1:])
	}
}

func TestSQLiteLog_UndefinedIndicatorsStoredAsNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signals.db")
	l, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer l.Close()

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
}
