package driver

import (
	"time"

	"github.com/jonathan/review-generator/internal/checkpoint"
	"github.com/jonathan/review-generator/internal/types"
)

// State is a phase of the batch run lifecycle.
type State string

const (
	StateStarting      State = "STARTING"
	StateFresh         State = "FRESH"
	StateResuming      State = "RESUMING"
	StateRunning       State = "RUNNING"
	StateCheckpointing State = "CHECKPOINTING"
	StateCompleting    State = "COMPLETING"
	StateDone          State = "DONE"
	StateFailedFatal   State = "FAILED_FATAL"
)

// RunState is the in-memory progress of a batch run. It is mutated only by
// the driver's main loop and serialized wholesale into checkpoints.
type RunState struct {
	RunID     string
	Signature string
	InputFile string
	Mode      types.Mode

	Items   []types.WorkItem
	Targets []int // planned review count per item, fixed at run start

	ItemCursor      int
	PerItemProduced int
	TotalProduced   int

	LastCheckpointCount int
	LastBackupCount     int

	Records []types.ReviewRecord
}

// snapshot converts the run state into its persisted form.
func (s *RunState) snapshot() *checkpoint.Snapshot {
	records := make([]types.ReviewRecord, len(s.Records))
	copy(records, s.Records)
	targets := make([]int, len(s.Targets))
	copy(targets, s.Targets)

	return &checkpoint.Snapshot{
		RunID:           s.RunID,
		Signature:       s.Signature,
		InputFile:       s.InputFile,
		Mode:            string(s.Mode),
		CreatedAt:       time.Now().UTC(),
		ItemCursor:      s.ItemCursor,
		PerItemProduced: s.PerItemProduced,
		TotalProduced:   s.TotalProduced,
		Targets:         targets,
		Records:         records,
	}
}

// restore rebuilds cursor state and completed records from a loaded
// snapshot. Work items always come from the freshly read input table; only
// progress and the fixed per-item targets come from the checkpoint, so a
// resumed run plans the exact counts the interrupted run planned.
func (s *RunState) restore(snap *checkpoint.Snapshot, restartPartialItem bool) {
	s.RunID = snap.RunID
	s.ItemCursor = snap.ItemCursor
	s.PerItemProduced = snap.PerItemProduced
	s.TotalProduced = snap.TotalProduced
	s.Records = append(s.Records[:0], snap.Records...)

	// Targets persisted by the interrupted run win over the fresh plan, but
	// only for the overlap: a changed input table keeps fresh targets for
	// items the checkpoint never saw.
	for i, t := range snap.Targets {
		if i < len(s.Targets) && t > 0 {
			s.Targets[i] = t
		}
	}

	if restartPartialItem && s.PerItemProduced > 0 {
		// Drop the in-flight item's partial records and regenerate it whole.
		// Load guarantees PerItemProduced <= len(Records); the clamp keeps
		// restore total regardless of how the snapshot was produced.
		drop := s.PerItemProduced
		if drop > len(s.Records) {
			drop = len(s.Records)
		}
		s.Records = s.Records[:len(s.Records)-drop]
		s.TotalProduced -= drop
		if s.TotalProduced < 0 {
			s.TotalProduced = 0
		}
		s.PerItemProduced = 0
	}

	// Skip items the checkpoint already completed in full.
	for s.ItemCursor < len(s.Items) && s.PerItemProduced >= s.target(s.ItemCursor) {
		s.ItemCursor++
		s.PerItemProduced = 0
	}

	s.LastCheckpointCount = s.TotalProduced
	s.LastBackupCount = s.TotalProduced
}

func (s *RunState) target(i int) int {
	if i < len(s.Targets) {
		return s.Targets[i]
	}
	return 0
}

// Remaining reports how many reviews the run still plans to generate.
func (s *RunState) Remaining() int {
	planned := 0
	for _, t := range s.Targets {
		planned += t
	}
	return planned - s.TotalProduced
}
