// Package output persists generated reviews to the run's CSV output file.
//
// The writer is append-only during a run: the header row is written exactly
// once when the file is created, and every Append is flushed to disk before
// returning so a crash loses at most the in-flight record. Resumed runs call
// Seed to rebuild the file from the checkpoint's completed records, which
// keeps the output free of duplicate rows even though the run was cut short
// mid-write.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jonathan/review-generator/internal/types"
)

// Header is the column order of the output file.
var Header = []string{
	"SKUId", "Brand", "ProductName", "Category", "SubCategory",
	"SpecificType", "Review", "Username", "Rating", "Date",
}

// Writer appends review records to a single CSV file.
type Writer struct {
	path    string
	file    *os.File
	csv     *csv.Writer
	written int
}

// NewWriter creates or truncates the output file at path and writes the
// header row. The parent directory is created if it does not exist.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}

	w := &Writer{path: path, file: f, csv: csv.NewWriter(f)}
	if err := w.csv.Write(Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush header: %w", err)
	}
	return w, nil
}

// Append writes one record and flushes it to the underlying file.
func (w *Writer) Append(rec types.ReviewRecord) error {
	row := []string{
		rec.SKUID, rec.Brand, rec.ProductName, rec.Category, rec.SubCategory,
		rec.SpecificType, rec.Review, rec.Username, strconv.Itoa(rec.Rating), rec.Date,
	}
	if err := w.csv.Write(row); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}
	w.written++
	return nil
}

// Seed re-initializes a resumed run's output file with the records already
// completed before the interruption.
func (w *Writer) Seed(records []types.ReviewRecord) error {
	for _, rec := range records {
		if err := w.Append(rec); err != nil {
			return err
		}
	}
	return nil
}

// Written reports how many records this writer has appended, seeded rows
// included.
func (w *Writer) Written() int {
	return w.written
}

// Path returns the location of the output file.
func (w *Writer) Path() string {
	return w.path
}

// Backup copies the current output file to a sibling named after the
// cumulative review count, for example reviews_backup_100.csv. Nothing is
// copied when no records have been written yet.
func (w *Writer) Backup(cumulative int) (string, error) {
	if w.written == 0 {
		return "", nil
	}

	ext := filepath.Ext(w.path)
	base := strings.TrimSuffix(w.path, ext)
	dest := fmt.Sprintf("%s_backup_%d%s", base, cumulative, ext)

	src, err := os.Open(w.path)
	if err != nil {
		return "", fmt.Errorf("open output for backup: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create backup file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("copy backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close backup: %w", err)
	}
	return dest, nil
}

// Close flushes any buffered rows and closes the file.
func (w *Writer) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return w.file.Close()
}
