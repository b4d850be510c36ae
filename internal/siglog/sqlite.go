package siglog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"sync"

	"fx-signal-bot/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteLog stores signal records in a SQLite table with the same
// column layout as the CSV log. Export renders the table back to CSV so
// the two backends are interchangeable.
type SQLiteLog struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens (or creates) the SQLite signal log at path.
func NewSQLite(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("siglog sqlite open: %w", err)
	}

	// Single-writer: appends are serialized anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	schema := `
	CREATE TABLE IF NOT EXISTS signals (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		time_utc    TEXT    NOT NULL,
		chat_id     TEXT    NOT NULL,
		pair        TEXT    NOT NULL,
		direction   TEXT    NOT NULL,
		price       TEXT    NOT NULL,
		horizon_min TEXT    NOT NULL,
		strength    TEXT    NOT NULL,
		rsi         TEXT    NOT NULL,
		ma5         TEXT    NOT NULL,
		ma14        TEXT    NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_signals_pair ON signals(pair);
	CREATE INDEX IF NOT EXISTS idx_signals_time ON signals(time_utc);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("siglog sqlite schema: %w", err)
	}

	log.Printf("[siglog] opened sqlite log at %s", path)
	return &SQLiteLog{db: db}, nil
}

// Append inserts exactly one row. Fields are stored pre-formatted so an
// export reproduces the CSV layout byte for byte.
func (l *SQLiteLog) Append(ctx context.Context, rec model.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r := row(rec)
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO signals (time_utc, chat_id, pair, direction, price, horizon_min, strength, rsi, ma5, ma14)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r[0], r[1], r[2], r[3], r[4], r[5], r[6], r[7], r[8], r[9],
	)
	if err != nil {
		return fmt.Errorf("siglog sqlite append: %w", err)
	}
	return nil
}

// Export writes the whole table as CSV in insertion order.
func (l *SQLiteLog) Export(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := l.db.Query(
		`SELECT time_utc, chat_id, pair, direction, price, horizon_min, strength, rsi, ma5, ma14
		 FROM signals ORDER BY id`)
	if err != nil {
		return fmt.Errorf("siglog sqlite export: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	fields := make([]string, len(header))
	dest := make([]any, len(header))
	for i := range fields {
		dest[i] = &fields[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("siglog sqlite export: %w", err)
		}
		if err := cw.Write(fields); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// Close closes the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
