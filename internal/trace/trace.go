// Package trace implements record and replay of a scenario run (spec
// §4.7): the full (v1) per-step trace, the sparse (v2) checkpoint-plus-
// schedule-event trace, single-record JSON persistence, and deterministic replay
// against a recorded byte stream. Grounded on the JSONL append-only
// envelope shape of session/agent/shared/eventstore/store.go.
package trace

import (
	"time"

	"bte/internal/scenario"
)

// Version identifies which of the two trace shapes a file holds.
const (
	VersionFull   = 1
	VersionSparse = 2
)

// StepRecord is one entry of a full (v1) trace: a complete account of one
// step's execution.
type StepRecord struct {
	StepIndex     int             `json:"step_index"`
	Step          scenario.Step   `json:"step"`
	StartTick     uint64          `json:"start_tick"`
	EndTick       uint64          `json:"end_tick"`
	PreHash       uint64          `json:"pre_hash"`
	PostHash      uint64          `json:"post_hash"`
	BytesRead     []byte          `json:"bytes_read,omitempty"`
	Invariants    []ViolationInfo `json:"invariants,omitempty"`
	Outcome       string          `json:"outcome"`
}

// ViolationInfo is the serializable form of an invariant.Violation; the
// trace package does not import invariant to avoid coupling persistence
// to the checker implementation. The runtime does not fill
// StepRecord.Invariants; a violation reaches the trace only as the text
// of the step's Outcome.
type ViolationInfo struct {
	Invariant string `json:"invariant"`
	Tick      uint64 `json:"tick"`
	Detail    string `json:"detail"`
}

// Checkpoint is a tick-aligned sparse-trace record carrying enough state
// to verify replay progress (spec §4.7, GLOSSARY).
type Checkpoint struct {
	Tick        uint64   `json:"tick"`
	RNGState    [2]uint64 `json:"rng_state"`
	ScreenHash  uint64   `json:"screen_hash"`
	ScreenText  string   `json:"screen_text,omitempty"`
	Description string   `json:"description,omitempty"`
}

// EventKind tags the closed set of sparse-trace schedule events.
type EventKind string

const (
	EventScheduled   EventKind = "scheduled"
	EventDescheduled EventKind = "descheduled"
	EventBlockingIO  EventKind = "blocking_io"
	EventSignal      EventKind = "signal"
	EventPtyRead     EventKind = "pty_read"
	EventPtyWrite    EventKind = "pty_write"
)

// Event is one sparse-trace schedule event. Like Step and Invariant, it
// is a closed tagged variant selected by Kind.
type Event struct {
	Kind EventKind `json:"kind"`
	Tick uint64    `json:"tick"`

	PID int `json:"pid,omitempty"`
	CPU int `json:"cpu,omitempty"`

	FD int    `json:"fd,omitempty"`
	Op string `json:"op,omitempty"`

	Signal string `json:"signal,omitempty"`

	Bytes []byte `json:"bytes,omitempty"`
}

// Trace is the self-describing record spec §6 fixes as the on-disk
// format: version, seed, scenario value, and either the full-trace steps
// or the sparse-trace checkpoints/events, plus a final outcome.
type Trace struct {
	Version     int               `json:"version"`
	RunID       string            `json:"run_id"`
	Seed        uint64            `json:"seed"`
	Scenario    *scenario.Scenario `json:"scenario"`
	Outcome     string            `json:"outcome"`
	ExitCode    int               `json:"exit_code"`
	RecordedAt  time.Time         `json:"recorded_at"`
	Steps       []StepRecord      `json:"steps,omitempty"`
	Checkpoints []Checkpoint      `json:"checkpoints,omitempty"`
	Events      []Event           `json:"events,omitempty"`
}
