package order

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/magnitronlab/preorder-bot/core/logger"
)

// CSVStore appends records to a UTF-8, comma-delimited log file.
// The header is written when the file is missing or empty; existing rows are never rewritten.
type CSVStore struct {
	path string
	mu   sync.Mutex
}

// NewCSVStore returns a store writing to path. The file is created on first append.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the log file location.
func (s *CSVStore) Path() string {
	return s.path
}

// Append writes rec as one row. The whole row goes out in a single write so
// concurrent appends never interleave partial rows.
func (s *CSVStore) Append(ctx context.Context, rec Record) error {
	if !rec.Complete() {
		return ErrIncomplete
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("order log dir: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat order log: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(Columns); err != nil {
			return err
		}
	}
	if err := w.Write(rec.Row()); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write order log: %w", err)
	}

	logger.Info(ctx, "orders", "append",
		slog.String("status", "ok"),
		slog.String("store", "csv"),
		slog.String("path", s.path),
		slog.Bool("header", info.Size() == 0),
	)
	return nil
}

// ReadAll returns every record in the log. A missing file yields no records.
func (s *CSVStore) ReadAll() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open order log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)
	var records []Record
	for line := 1; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read order log: %w", err)
		}
		if line == 1 && row[0] == Columns[0] {
			continue
		}
		rec, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("order log line %d: %w", line, err)
		}
		records = append(records, rec)
	}
}
