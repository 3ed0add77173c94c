package trace

import (
	"fmt"

	"bte/internal/screen"
	"bte/internal/vtparser"
)

// Divergence reports a checkpoint whose recomputed hash did not match
// the recorded one (spec §4.7 ReplayDivergence).
type Divergence struct {
	CheckpointIndex int
	Tick            uint64
	WantHash        uint64
	GotHash         uint64
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("replay diverged at checkpoint %d (tick %d): want hash %x, got %x",
		d.CheckpointIndex, d.Tick, d.WantHash, d.GotHash)
}

// Replay re-runs a sparse trace by feeding its recorded PtyRead events
// through a fresh parser and screen, without re-spawning the child (spec
// §4.7 "Replay does not re-spawn the child"). It recomputes the screen
// hash at every checkpoint tick and compares it against the recorded
// value, returning every Divergence found (nil if replay matched
// exactly).
func Replay(t *Trace) ([]*Divergence, error) {
	if t.Scenario == nil {
		return nil, fmt.Errorf("trace: replay requires a recorded scenario")
	}
	term := t.Scenario.ResolvedTerminal()
	s := screen.New(screen.Config{Rows: term.Rows, Cols: term.Cols})
	p := vtparser.NewParser()

	var divergences []*Divergence
	checkpointIdx := 0
	// A checkpoint at tick T covers the PtyRead events of ticks up to and
	// including T, so it is checked before the first event of a later tick.
	checkDue := func(beforeTick uint64) {
		for checkpointIdx < len(t.Checkpoints) && t.Checkpoints[checkpointIdx].Tick < beforeTick {
			cp := t.Checkpoints[checkpointIdx]
			if d := checkHash(s, cp, checkpointIdx); d != nil {
				divergences = append(divergences, d)
			}
			checkpointIdx++
		}
	}

	for _, ev := range t.Events {
		checkDue(ev.Tick)
		if ev.Kind == EventPtyRead {
			p.Advance(s, ev.Bytes)
		}
	}
	checkDue(^uint64(0))
	return divergences, nil
}

func checkHash(s *screen.Screen, cp Checkpoint, idx int) *Divergence {
	got := s.Hash()
	if got != cp.ScreenHash {
		return &Divergence{CheckpointIndex: idx, Tick: cp.Tick, WantHash: cp.ScreenHash, GotHash: got}
	}
	return nil
}
