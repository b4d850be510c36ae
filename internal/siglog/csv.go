package siglog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"fx-signal-bot/internal/model"
)

// CSVLog appends signal records to a CSV file, one row per record.
// The header row is written when the file is first created. Appends are
// serialized with a mutex so concurrent producers cannot interleave or
// lose rows.
type CSVLog struct {
	mu   sync.Mutex
	path string
	f    *os.File
	w    *csv.Writer
}

// NewCSV opens (or creates) the CSV signal log at path.
func NewCSV(path string) (*CSVLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("siglog open: %w", err)
	}

	l := &CSVLog{path: path, f: f, w: csv.NewWriter(f)}

	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("siglog stat: %w", err)
	}
	if st.Size() == 0 {
		if err := l.w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("siglog header: %w", err)
		}
		l.w.Flush()
		if err := l.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("siglog header: %w", err)
		}
	}

	log.Printf("[siglog] opened csv log at %s", path)
	return l, nil
}

// Append writes exactly one row and flushes it to the file.
func (l *CSVLog) Append(ctx context.Context, rec model.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.w.Write(row(rec)); err != nil {
		return fmt.Errorf("siglog append: %w", err)
	}
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		return fmt.Errorf("siglog append: %w", err)
	}
	return nil
}

// Export copies the whole log file. Every append is flushed, so the
// on-disk file is always the complete store.
func (l *CSVLog) Export(w io.Writer) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		return fmt.Errorf("siglog export: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Close closes the underlying file.
func (l *CSVLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Flush()
	return l.f.Close()
}
