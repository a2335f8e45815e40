package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/review-generator/internal/types"
)

// SchemaVersion is written into every snapshot. Readers tolerate additive
// fields, so older minor versions stay loadable.
const SchemaVersion = 1

// FinalTag names the checkpoint written once at successful completion.
const FinalTag = "final"

// Snapshot is the persisted form of a run's progress. Completed records are
// carried in full (as the output table's source of truth on resume), together
// with the cursor state and the per-item planned targets so a resumed run
// fixes the same review counts.
type Snapshot struct {
	SchemaVersion   int                  `json:"schema_version"`
	RunID           string               `json:"run_id"`
	Signature       string               `json:"signature"`
	InputFile       string               `json:"input_file"`
	Mode            string               `json:"mode"`
	CreatedAt       time.Time            `json:"created_at"`
	ItemCursor      int                  `json:"item_cursor"`
	PerItemProduced int                  `json:"per_item_produced"`
	TotalProduced   int                  `json:"total_produced"`
	Targets         []int                `json:"targets"`
	Records         []types.ReviewRecord `json:"records"`
}

// snapshotSchema validates the structural invariants a loadable checkpoint
// must satisfy. additionalProperties stays open so future minor versions can
// add fields without breaking older readers.
const snapshotSchema = `{
	"type": "object",
	"required": ["schema_version", "signature", "item_cursor", "per_item_produced", "total_produced", "records"],
	"properties": {
		"schema_version": {"type": "integer", "minimum": 1},
		"signature": {"type": "string", "minLength": 1},
		"item_cursor": {"type": "integer", "minimum": 0},
		"per_item_produced": {"type": "integer", "minimum": 0},
		"total_produced": {"type": "integer", "minimum": 0},
		"targets": {"type": "array", "items": {"type": "integer", "minimum": 1}},
		"records": {"type": "array"}
	}
}`

var schemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

// Store owns the on-disk checkpoint lifecycle: creation, enumeration, and
// deletion under the retention policy.
type Store struct {
	dir  string
	logf func(format string, args ...any)
}

// NewStore creates a Store over dir, creating it if needed. logf may be nil.
func NewStore(dir string, logf func(format string, args ...any)) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory %s: %w", dir, err)
	}
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Store{dir: dir, logf: logf}, nil
}

// Dir returns the checkpoint directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save serializes the snapshot to a uniquely named artifact. tag is a
// sequence number ("1", "2", ...) or FinalTag. The write goes to a temporary
// sibling and is renamed into place, so a concurrent reader never observes a
// partial checkpoint.
func (s *Store) Save(snap *Snapshot, tag string) (Handle, error) {
	snap.SchemaVersion = SchemaVersion
	snap.CreatedAt = time.Now()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return Handle{}, fmt.Errorf("failed to serialize checkpoint: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%s.json", snap.Signature, tag, snap.CreatedAt.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return Handle{}, fmt.Errorf("failed to create checkpoint temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Handle{}, fmt.Errorf("failed to write checkpoint: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Handle{}, fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return Handle{}, fmt.Errorf("failed to publish checkpoint: %w", err)
	}

	return Handle{Path: path, SizeBytes: int64(len(data)), ModTime: snap.CreatedAt}, nil
}

// Load reads and validates the artifact behind the handle. An unreadable or
// schema-invalid artifact returns a *CorruptError so the caller can fall back
// to the next-newest candidate or a fresh run.
func (s *Store) Load(h Handle) (*Snapshot, error) {
	data, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, &CorruptError{Path: h.Path, Message: "cannot read artifact", Cause: err}
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &CorruptError{Path: h.Path, Message: "not valid JSON", Cause: err}
	}
	if !result.Valid() {
		return nil, &CorruptError{Path: h.Path, Message: fmt.Sprintf("schema violation: %v", result.Errors())}
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, &CorruptError{Path: h.Path, Message: "cannot decode snapshot", Cause: err}
	}

	// Cross-field consistency the schema cannot express: the counters must
	// be covered by the records they summarize.
	if snap.PerItemProduced > len(snap.Records) || snap.TotalProduced != len(snap.Records) {
		return nil, &CorruptError{Path: h.Path, Message: fmt.Sprintf(
			"inconsistent counters: per_item_produced=%d total_produced=%d records=%d",
			snap.PerItemProduced, snap.TotalProduced, len(snap.Records))}
	}
	return &snap, nil
}

// EnforceRetention deletes the oldest non-final checkpoints for the signature
// beyond maxKeep, leaving the newest maxKeep in place. Final checkpoints are
// never pruned. Deletion failures are logged, not returned; the next save
// retries them naturally.
func (s *Store) EnforceRetention(signature string, maxKeep int) {
	if maxKeep <= 0 {
		return
	}

	handles, err := Find(s.dir, signature)
	if err != nil {
		s.logf("checkpoint retention scan failed: %v", err)
		return
	}

	var routine []Handle
	for _, h := range handles {
		if !h.IsFinal() {
			routine = append(routine, h)
		}
	}
	if len(routine) <= maxKeep {
		return
	}

	// handles are newest first; everything past maxKeep goes, oldest last
	for _, h := range routine[maxKeep:] {
		if err := os.Remove(h.Path); err != nil {
			s.logf("failed to prune checkpoint %s: %v", h.Name(), err)
		} else {
			s.logf("pruned old checkpoint %s", h.Name())
		}
	}
}
