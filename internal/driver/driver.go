// Package driver provides the high-level orchestration for the batch review
// generation process: it reads the input catalog, restores progress from the
// newest usable checkpoint, walks the work items one review at a time, and
// streams results to the output writer with periodic checkpoints and backups.
package driver

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/review-generator/internal/catalog"
	"github.com/jonathan/review-generator/internal/checkpoint"
	"github.com/jonathan/review-generator/internal/review"
	"github.com/jonathan/review-generator/internal/types"
)

// Defaults for the run cadence knobs.
const (
	DefaultCheckpointInterval = 50
	DefaultBackupInterval     = 100
	DefaultMaxCheckpoints     = 10
)

// Generator produces one review for an item. Provider failures are absorbed
// behind this boundary (retry then fallback); only context cancellation ever
// surfaces as an error.
type Generator interface {
	Generate(ctx context.Context, item types.WorkItem, directive review.StyleDirective, seq int) (types.ReviewRecord, error)
}

// Styles supplies one style directive per review. review.Styler is the
// production implementation; tests inject a fixed source.
type Styles interface {
	Next() review.StyleDirective
}

// Appender receives generated records in order. Append failures are fatal to
// the run.
type Appender interface {
	Append(rec types.ReviewRecord) error
	Seed(records []types.ReviewRecord) error
	Backup(cumulative int) (string, error)
}

// RunRegistry optionally mirrors run progress to an external store. A nil
// registry disables persistence; registry errors are logged, never fatal.
type RunRegistry interface {
	CreateRun(ctx context.Context, signature, mode, inputFile string) (uuid.UUID, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, totalProduced int) error
	CompleteRun(ctx context.Context, id uuid.UUID, status string) error
}

// ProgressEvent is a progress update emitted during a run.
type ProgressEvent struct {
	State         State  `json:"state"`
	Item          string `json:"item,omitempty"`
	ItemIndex     int    `json:"item_index"`
	ItemTotal     int    `json:"item_total"`
	TotalProduced int    `json:"total_produced"`
	Message       string `json:"message"`
}

// ProgressCallback is called as run progress occurs.
type ProgressCallback func(event ProgressEvent)

// Options holds configuration for a batch run.
type Options struct {
	InputPath     string
	Mode          types.Mode
	CheckpointDir string

	// Resume is the caller's answer to the resume prompt. The driver itself
	// never performs interactive I/O.
	Resume bool

	// RestartPartialItem discards an in-flight item's partial reviews on
	// resume and regenerates the item from zero, matching runs that prefer
	// whole-item consistency over minimal regeneration.
	RestartPartialItem bool

	FMCGOnly bool

	CheckpointInterval int
	BackupInterval     int
	MaxCheckpoints     int

	Rand       *rand.Rand // test seam; nil means time-seeded
	Verbose    bool
	OnProgress ProgressCallback
	Logf       func(format string, args ...any)
}

// Summary reports the outcome of a completed run.
type Summary struct {
	RunID              string
	Signature          string
	Resumed            bool
	Items              int
	TotalReviews       int
	ReviewsThisSession int
	CheckpointsWritten int
	BackupsWritten     int
	Elapsed            time.Duration
}

// Driver walks the batch state machine.
type Driver struct {
	opts     Options
	gen      Generator
	styles   Styles
	out      Appender
	store    *checkpoint.Store
	registry RunRegistry
	logf     func(format string, args ...any)

	state State
	runID uuid.UUID
}

// New creates a Driver. The output appender and checkpoint store are owned by
// the caller; the registry may be nil.
func New(opts Options, gen Generator, styles Styles, out Appender, store *checkpoint.Store, registry RunRegistry) *Driver {
	if opts.CheckpointInterval <= 0 {
		opts.CheckpointInterval = DefaultCheckpointInterval
	}
	if opts.BackupInterval <= 0 {
		opts.BackupInterval = DefaultBackupInterval
	}
	if opts.MaxCheckpoints <= 0 {
		opts.MaxCheckpoints = DefaultMaxCheckpoints
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Driver{
		opts:     opts,
		gen:      gen,
		styles:   styles,
		out:      out,
		store:    store,
		registry: registry,
		logf:     logf,
		state:    StateStarting,
	}
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Run executes the batch until completion or a fatal error. Fatal errors are
// limited to an unreadable input table, output append failures, and context
// cancellation; provider and checkpoint failures never terminate the run.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	started := time.Now()

	st, resumed, err := d.start(ctx)
	if err != nil {
		d.transition(StateFailedFatal, st)
		return nil, err
	}

	if resumed {
		if err := d.out.Seed(st.Records); err != nil {
			d.transition(StateFailedFatal, st)
			return nil, fmt.Errorf("seed output from checkpoint: %w", err)
		}
	}

	summary := &Summary{
		RunID:     st.RunID,
		Signature: st.Signature,
		Resumed:   resumed,
		Items:     len(st.Items),
	}
	sessionStart := st.TotalProduced

	d.transition(StateRunning, st)

	for st.ItemCursor < len(st.Items) {
		item := st.Items[st.ItemCursor]
		target := st.target(st.ItemCursor)

		if st.PerItemProduced == 0 {
			d.emit(ProgressEvent{
				State: StateRunning, Item: item.DisplayName(),
				ItemIndex: st.ItemCursor + 1, ItemTotal: len(st.Items),
				TotalProduced: st.TotalProduced,
				Message:       fmt.Sprintf("generating %d reviews", target),
			})
		}

		for st.PerItemProduced < target {
			rec, err := d.gen.Generate(ctx, item, d.styles.Next(), st.PerItemProduced)
			if err != nil {
				// Context cancellation: leave without a final checkpoint; the
				// last interval checkpoint bounds the loss window.
				return nil, err
			}

			if err := d.out.Append(rec); err != nil {
				d.transition(StateFailedFatal, st)
				return nil, fmt.Errorf("append review for %s: %w", item.ID, err)
			}

			st.Records = append(st.Records, rec)
			st.PerItemProduced++
			st.TotalProduced++

			if st.TotalProduced-st.LastCheckpointCount >= d.opts.CheckpointInterval {
				d.checkpointNow(st, &summary.CheckpointsWritten)
			}
			if st.TotalProduced-st.LastBackupCount >= d.opts.BackupInterval {
				d.backupNow(st, &summary.BackupsWritten)
			}
			d.reportProgress(st)
		}

		st.ItemCursor++
		st.PerItemProduced = 0
	}

	d.transition(StateCompleting, st)
	if _, err := d.store.Save(st.snapshot(), checkpoint.FinalTag); err != nil {
		d.logf("warning: final checkpoint failed: %v", err)
	} else {
		summary.CheckpointsWritten++
	}
	d.completeRegistry(ctx)

	d.transition(StateDone, st)
	summary.TotalReviews = st.TotalProduced
	summary.ReviewsThisSession = st.TotalProduced - sessionStart
	summary.Elapsed = time.Since(started)
	return summary, nil
}

// start performs the STARTING phase: read and validate the input, plan
// per-item targets, and reconstruct state from a checkpoint when resuming.
func (d *Driver) start(ctx context.Context) (*RunState, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	items, err := catalog.Read(d.opts.InputPath, catalog.Options{FMCGOnly: d.opts.FMCGOnly})
	if err != nil {
		return nil, false, err
	}

	st := &RunState{
		RunID:     uuid.NewString(),
		Signature: checkpoint.Signature(d.opts.InputPath, d.opts.Mode),
		InputFile: d.opts.InputPath,
		Mode:      d.opts.Mode,
		Items:     items,
		Targets:   d.planTargets(items),
	}

	resumed := false
	if d.opts.Resume {
		if snap := d.loadNewestUsable(st.Signature); snap != nil {
			d.transition(StateResuming, st)
			st.restore(snap, d.opts.RestartPartialItem)
			resumed = true
			d.logf("resumed run %s at item %d/%d, %d reviews done",
				st.RunID, st.ItemCursor+1, len(st.Items), st.TotalProduced)
		}
	}
	if !resumed {
		d.transition(StateFresh, st)
	}

	d.createRegistry(ctx, st)
	return st, resumed, nil
}

// planTargets fixes each item's review count once. Modes with a range draw
// uniformly inside it; the counts are persisted in every checkpoint so a
// resumed run keeps the same plan.
func (d *Driver) planTargets(items []types.WorkItem) []int {
	lo, hi := d.opts.Mode.TargetRange()
	targets := make([]int, len(items))
	for i := range targets {
		targets[i] = lo
		if hi > lo {
			targets[i] = lo + d.opts.Rand.Intn(hi-lo+1)
		}
	}
	return targets
}

// loadNewestUsable walks candidate checkpoints newest first and returns the
// first one that loads cleanly. Corrupt artifacts are logged and skipped; nil
// means fresh run.
func (d *Driver) loadNewestUsable(signature string) *checkpoint.Snapshot {
	handles, err := checkpoint.Find(d.store.Dir(), signature)
	if err != nil {
		d.logf("warning: checkpoint scan failed: %v", err)
		return nil
	}
	for _, h := range handles {
		snap, err := d.store.Load(h)
		if err != nil {
			d.logf("warning: skipping checkpoint %s: %v", h.Name(), err)
			continue
		}
		if snap.Signature != signature {
			// Prefix scan caught a neighboring run's artifact
			continue
		}
		return snap
	}
	return nil
}

// checkpointNow saves the run state and prunes old artifacts. Failures are
// logged and absorbed; the next interval retries.
func (d *Driver) checkpointNow(st *RunState, written *int) {
	d.transition(StateCheckpointing, st)
	h, err := d.store.Save(st.snapshot(), fmt.Sprintf("%d", st.TotalProduced))
	if err != nil {
		d.logf("warning: checkpoint failed at %d reviews: %v", st.TotalProduced, err)
	} else {
		st.LastCheckpointCount = st.TotalProduced
		*written++
		if d.opts.Verbose {
			d.logf("checkpoint saved: %s", h.Name())
		}
		d.store.EnforceRetention(st.Signature, d.opts.MaxCheckpoints)
	}
	if d.registry != nil && d.runID != uuid.Nil {
		if err := d.registry.UpdateProgress(context.Background(), d.runID, st.TotalProduced); err != nil {
			d.logf("warning: failed to update run progress: %v", err)
		}
	}
	d.transition(StateRunning, st)
}

// backupNow copies the output file. Failures are logged and absorbed.
func (d *Driver) backupNow(st *RunState, written *int) {
	dest, err := d.out.Backup(st.TotalProduced)
	if err != nil {
		d.logf("warning: backup failed at %d reviews: %v", st.TotalProduced, err)
		return
	}
	st.LastBackupCount = st.TotalProduced
	if dest != "" {
		*written++
		if d.opts.Verbose {
			d.logf("backup saved: %s", dest)
		}
	}
}

func (d *Driver) transition(next State, st *RunState) {
	d.state = next
	if d.opts.Verbose && st != nil {
		d.logf("state: %s (item %d/%d, %d reviews)", next, st.ItemCursor+1, len(st.Items), st.TotalProduced)
	}
}

func (d *Driver) emit(event ProgressEvent) {
	if d.opts.OnProgress != nil {
		d.opts.OnProgress(event)
	}
}

func (d *Driver) createRegistry(ctx context.Context, st *RunState) {
	if d.registry == nil {
		return
	}
	id, err := d.registry.CreateRun(ctx, st.Signature, string(st.Mode), st.InputFile)
	if err != nil {
		d.logf("warning: failed to register run: %v", err)
		d.registry = nil
		return
	}
	d.runID = id
}

func (d *Driver) reportProgress(st *RunState) {
	d.emit(ProgressEvent{
		State: StateRunning, ItemIndex: st.ItemCursor + 1, ItemTotal: len(st.Items),
		TotalProduced: st.TotalProduced,
		Message:       fmt.Sprintf("%d reviews generated", st.TotalProduced),
	})
}

func (d *Driver) completeRegistry(ctx context.Context) {
	if d.registry == nil || d.runID == uuid.Nil {
		return
	}
	if err := d.registry.CompleteRun(ctx, d.runID, "completed"); err != nil {
		d.logf("warning: failed to complete run record: %v", err)
	}
}
