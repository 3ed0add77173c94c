package trace

import (
	"time"

	"bte/internal/scenario"
)

// Builder accumulates a Trace over the life of one run. The runtime
// scheduler owns the only Builder instance for a run and appends to it
// at each scheduling boundary (spec §9 "trace builder is append-only and
// owned by the scheduler").
type Builder struct {
	version  int
	runID    string
	seed     uint64
	scenario *scenario.Scenario

	steps       []StepRecord
	checkpoints []Checkpoint
	events      []Event
}

// NewBuilder starts a trace for scenario sc under the given seed. version
// selects full (VersionFull) or sparse (VersionSparse) recording.
func NewBuilder(sc *scenario.Scenario, seed uint64, version int) *Builder {
	return &Builder{
		version:  version,
		runID:    NewRunID(),
		seed:     seed,
		scenario: sc,
	}
}

// IsFull reports whether this builder records full per-step detail.
func (b *Builder) IsFull() bool { return b.version == VersionFull }

// IsSparse reports whether this builder records checkpoints and events.
func (b *Builder) IsSparse() bool { return b.version == VersionSparse }

// RecordStep appends a full-trace step record.
func (b *Builder) RecordStep(r StepRecord) {
	if b.IsFull() {
		b.steps = append(b.steps, r)
	}
}

// RecordCheckpoint appends a sparse-trace checkpoint.
func (b *Builder) RecordCheckpoint(c Checkpoint) {
	if b.IsSparse() {
		b.checkpoints = append(b.checkpoints, c)
	}
}

// RecordEvent appends a sparse-trace schedule event.
func (b *Builder) RecordEvent(e Event) {
	if b.IsSparse() {
		b.events = append(b.events, e)
	}
}

// Finish seals the trace with a final outcome and exit code.
func (b *Builder) Finish(outcome string, exitCode int) *Trace {
	return &Trace{
		Version:     b.version,
		RunID:       b.runID,
		Seed:        b.seed,
		Scenario:    b.scenario,
		Outcome:     outcome,
		ExitCode:    exitCode,
		RecordedAt:  time.Now().UTC(),
		Steps:       b.steps,
		Checkpoints: b.checkpoints,
		Events:      b.events,
	}
}
