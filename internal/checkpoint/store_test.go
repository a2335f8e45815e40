package checkpoint

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/review-generator/internal/types"
)

func testSnapshot(sig string) *Snapshot {
	return &Snapshot{
		RunID:           "11111111-2222-3333-4444-555555555555",
		Signature:       sig,
		InputFile:       "skus.csv",
		Mode:            "quick",
		ItemCursor:      2,
		PerItemProduced: 1,
		TotalProduced:   3,
		Targets:         []int{1, 1, 1},
		Records: []types.ReviewRecord{
			{SKUID: "A1", Review: "nice", Username: "Asha Rao", Rating: 5, Date: "2025-09-10"},
			{SKUID: "A2", Review: "good", Username: "Ravi Bose", Rating: 4, Date: "2025-09-12"},
			{SKUID: "A3", Review: "works", Username: "Meena K", Rating: 5, Date: "2025-09-15"},
		},
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	snap := testSnapshot("skus_quick")
	h, err := store.Save(snap, "1")
	require.NoError(t, err)
	assert.FileExists(t, h.Path)
	assert.Contains(t, h.Name(), "skus_quick_1_")

	loaded, err := store.Load(h)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, loaded.SchemaVersion)
	assert.Equal(t, snap.Signature, loaded.Signature)
	assert.Equal(t, snap.ItemCursor, loaded.ItemCursor)
	assert.Equal(t, snap.Targets, loaded.Targets)
	assert.Equal(t, snap.Records, loaded.Records)
}

func TestSave_NoPartialArtifactsLeftBehind(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	_, err = store.Save(testSnapshot("sig_quick"), "1")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), ".tmp")
}

func TestLoad_CorruptJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	path := filepath.Join(dir, "sig_quick_1_20250901_120000.json")
	require.NoError(t, os.WriteFile(path, []byte("{ not json"), 0644))

	_, err = store.Load(Handle{Path: path})
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
}

func TestLoad_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	// Valid JSON, but item_cursor has the wrong type and signature is missing
	path := filepath.Join(dir, "sig_quick_1_20250901_120000.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"schema_version": 1, "item_cursor": "two"}`), 0644))

	_, err = store.Load(Handle{Path: path})
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Message, "schema violation")
}

func TestLoad_TolerantOfAdditiveFields(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	content := `{
		"schema_version": 2,
		"signature": "sig_quick",
		"item_cursor": 1,
		"per_item_produced": 0,
		"total_produced": 0,
		"targets": [1],
		"records": [],
		"some_future_field": {"nested": true}
	}`
	path := filepath.Join(dir, "sig_quick_1_20250901_120000.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	snap, err := store.Load(Handle{Path: path})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.ItemCursor)
}

func TestLoad_InconsistentCounters(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	// Schema-valid, but the counters claim records that are not there
	content := `{
		"schema_version": 1,
		"signature": "sig_quick",
		"item_cursor": 0,
		"per_item_produced": 2,
		"total_produced": 2,
		"targets": [3],
		"records": []
	}`
	path := filepath.Join(dir, "sig_quick_2_20250901_120000.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err = store.Load(Handle{Path: path})
	var corrupt *CorruptError
	require.ErrorAs(t, err, &corrupt)
	assert.Contains(t, corrupt.Message, "inconsistent counters")
}

func TestEnforceRetention(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	// 11 routine checkpoints plus one final, with strictly increasing mtimes
	base := time.Now().Add(-time.Hour)
	for i := 1; i <= 11; i++ {
		h, err := store.Save(testSnapshot("sig_quick"), strconv.Itoa(i))
		require.NoError(t, err)
		require.NoError(t, os.Chtimes(h.Path, base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute)))
	}
	final, err := store.Save(testSnapshot("sig_quick"), FinalTag)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(final.Path, base, base)) // oldest mtime of all

	store.EnforceRetention("sig_quick", 10)

	handles, err := Find(dir, "sig_quick")
	require.NoError(t, err)
	require.Len(t, handles, 11) // 10 routine + final

	// The oldest routine checkpoint (seq 1) is gone; final survives
	names := make([]string, 0, len(handles))
	finals := 0
	for _, h := range handles {
		names = append(names, h.Name())
		if h.IsFinal() {
			finals++
		}
	}
	assert.Equal(t, 1, finals)
	for _, name := range names {
		assert.NotContains(t, name, "sig_quick_1_2")
	}
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "skus_quick", Signature("/data/skus.csv", types.ModeQuick))
	assert.Equal(t, "skus_comprehensive", Signature("skus.tsv", types.ModeComprehensive))
	// Same file and mode agree regardless of directory
	assert.Equal(t, Signature("/a/skus.csv", types.ModeQuick), Signature("/b/skus.csv", types.ModeQuick))
	// Different mode never collides
	assert.NotEqual(t, Signature("skus.csv", types.ModeQuick), Signature("skus.csv", types.ModeMedium))
}

func TestFind_EmptyAndMissingDir(t *testing.T) {
	handles, err := Find(filepath.Join(t.TempDir(), "missing"), "sig")
	require.NoError(t, err)
	assert.Empty(t, handles)

	handles, err = Find(t.TempDir(), "sig")
	require.NoError(t, err)
	assert.Empty(t, handles)
}

func TestFind_IgnoresPrefixRelatedSignatures(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	// "data_quick" (data.csv, quick) is a prefix of "data_quick_medium"
	// (data_quick.csv, medium); neither may see the other's artifacts.
	_, err = store.Save(testSnapshot("data_quick"), "1")
	require.NoError(t, err)

	long := testSnapshot("data_quick_medium")
	_, err = store.Save(long, "50")
	require.NoError(t, err)
	_, err = store.Save(long, FinalTag)
	require.NoError(t, err)

	handles, err := Find(dir, "data_quick")
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Contains(t, handles[0].Name(), "data_quick_1_")

	handles, err = Find(dir, "data_quick_medium")
	require.NoError(t, err)
	assert.Len(t, handles, 2)
}

func TestFind_NewestFirst(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, nil)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	var paths []string
	for i := 1; i <= 3; i++ {
		h, err := store.Save(testSnapshot("sig_quick"), strconv.Itoa(i))
		require.NoError(t, err)
		require.NoError(t, os.Chtimes(h.Path, base.Add(time.Duration(i)*time.Minute), base.Add(time.Duration(i)*time.Minute)))
		paths = append(paths, h.Path)
	}

	handles, err := Find(dir, "sig_quick")
	require.NoError(t, err)
	require.Len(t, handles, 3)
	assert.Equal(t, paths[2], handles[0].Path)
	assert.Equal(t, paths[0], handles[2].Path)
}

