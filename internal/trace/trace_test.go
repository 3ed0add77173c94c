package trace

import (
	"path/filepath"
	"testing"

	"bte/internal/scenario"
	"bte/internal/screen"
	"bte/internal/vtparser"
)

func buildSparseTrace(t *testing.T, corrupt bool) *Trace {
	sc := &scenario.Scenario{
		Name:     "echo",
		Command:  scenario.Command{Program: "/bin/echo", Args: []string{"hi"}},
		Terminal: scenario.Terminal{Cols: 10, Rows: 2},
		Steps:    []scenario.Step{{Action: scenario.StepWaitFor, Regex: "hi", TimeoutTicks: 10}},
	}
	b := NewBuilder(sc, 42, VersionSparse)
	b.RecordEvent(Event{Kind: EventPtyRead, Tick: 1, Bytes: []byte("hi\r\n")})

	s := screen.New(screen.Config{Rows: 2, Cols: 10})
	vtparser.NewParser().Advance(s, []byte("hi\r\n"))
	hash := s.Hash()
	if corrupt {
		hash++
	}
	b.RecordCheckpoint(Checkpoint{Tick: 1, ScreenHash: hash})
	return b.Finish("success", 0)
}

func TestReplayMatchesRecordedHash(t *testing.T) {
	tr := buildSparseTrace(t, false)
	divergences, err := Replay(tr)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(divergences) != 0 {
		t.Fatalf("unexpected divergences: %v", divergences)
	}
}

func TestReplayDetectsDivergence(t *testing.T) {
	tr := buildSparseTrace(t, true)
	divergences, err := Replay(tr)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(divergences) != 1 {
		t.Fatalf("expected 1 divergence, got %d", len(divergences))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tr := buildSparseTrace(t, false)
	path := filepath.Join(t.TempDir(), "trace.json")
	if err := Save(path, tr); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RunID != tr.RunID || loaded.Seed != tr.Seed {
		t.Fatalf("round-trip mismatch: %+v vs %+v", loaded, tr)
	}
	if len(loaded.Checkpoints) != 1 || loaded.Checkpoints[0].ScreenHash != tr.Checkpoints[0].ScreenHash {
		t.Fatalf("checkpoint mismatch after round-trip: %+v", loaded.Checkpoints)
	}
}
