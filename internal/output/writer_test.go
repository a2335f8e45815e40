package output

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-generator/internal/types"
)

func record(sku, review string) types.ReviewRecord {
	return types.ReviewRecord{
		SKUID:       sku,
		Brand:       "Dabur",
		ProductName: "Honey 500g",
		Category:    "FMCG Food",
		Review:      review,
		Username:    "Priya Sharma",
		Rating:      5,
		Date:        "2025-10-02",
	}
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter_HeaderWrittenOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(record("A1", "good")))
	require.NoError(t, w.Append(record("A2", "tasty")))
	require.NoError(t, w.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "5", rows[1][8])
	assert.Equal(t, "tasty", rows[2][6])
}

func TestWriter_AppendFlushesImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Append(record("A1", "fresh")))

	// Visible on disk before Close
	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[1][0])
}

func TestWriter_Seed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	seeded := []types.ReviewRecord{record("A1", "one"), record("A2", "two")}
	require.NoError(t, w.Seed(seeded))
	require.NoError(t, w.Append(record("A3", "three")))
	assert.Equal(t, 3, w.Written())

	rows := readRows(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, "one", rows[1][6])
	assert.Equal(t, "three", rows[3][6])
}

func TestWriter_Backup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	defer w.Close()

	// No rows yet, backup is a no-op
	dest, err := w.Backup(0)
	require.NoError(t, err)
	assert.Empty(t, dest)

	require.NoError(t, w.Append(record("A1", "good")))
	dest, err = w.Backup(100)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "reviews_backup_100.csv"), dest)

	rows := readRows(t, dest)
	require.Len(t, rows, 2)
	assert.Equal(t, "A1", rows[1][0])
}

func TestWriter_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}

func TestWriter_FieldsWithCommasAndQuotes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	w, err := NewWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Append(record("A1", `great "value", honestly`)))
	require.NoError(t, w.Close())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, `great "value", honestly`, rows[1][6])
}
