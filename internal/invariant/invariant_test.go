package invariant

import (
	"testing"

	"bte/internal/ptybackend"
	"bte/internal/scenario"
	"bte/internal/screen"
)

func ctxFor(s *screen.Screen, tick uint64) *Context {
	return &Context{
		Tick:          tick,
		Screen:        s,
		ScreenHash:    s.Hash(),
		ProcessStatus: ptybackend.WaitStatus{State: ptybackend.StatusAlive},
	}
}

func TestCursorBoundsAcceptsInRangeCursor(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantCursorBounds})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 2, Cols: 2})
	if v := c.Observe(ctxFor(s, 0)); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestNoDeadlockFiresAfterIdleWindow(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantNoDeadlock, TimeoutTicks: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 2, Cols: 2})
	var last *Violation
	for tick := uint64(0); tick < 5; tick++ {
		last = c.Observe(ctxFor(s, tick))
		if last != nil {
			break
		}
	}
	if last == nil {
		t.Fatalf("expected no_deadlock to fire within 5 idle ticks")
	}
}

func TestNoDeadlockResetsOnActivity(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantNoDeadlock, TimeoutTicks: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 2, Cols: 2})
	for tick := uint64(0); tick < 2; tick++ {
		if v := c.Observe(ctxFor(s, tick)); v != nil {
			t.Fatalf("unexpected violation: %v", v)
		}
	}
	active := ctxFor(s, 2)
	active.BytesRead = []byte("x")
	c.Observe(active)
	for tick := uint64(3); tick < 5; tick++ {
		if v := c.Observe(ctxFor(s, tick)); v != nil {
			t.Fatalf("unexpected violation after reset: %v", v)
		}
	}
}

func TestScreenContainsSatisfiedOnlyAfterMatch(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantScreenContains, Regex: "hi"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 2, Cols: 10})
	if v := c.Finalize(ctxFor(s, 0)); v == nil {
		t.Fatalf("expected violation: regex never matched")
	}
}

func TestScreenNotContainsFiresImmediately(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantScreenNotContains, Regex: "bad"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 1, Cols: 10})
	p := s // alias for feeding via vtparser in a real run; here we stamp a cell directly via print path
	_ = p
	feedText(s, "bad")
	if v := c.Observe(ctxFor(s, 0)); v == nil {
		t.Fatalf("expected immediate violation")
	}
}

func TestScreenStableRequiresMinTicks(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantScreenStable, MinTicks: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 1, Cols: 5})
	for tick := uint64(0); tick < 2; tick++ {
		c.Observe(ctxFor(s, tick))
	}
	if v := c.Finalize(ctxFor(s, 2)); v == nil {
		t.Fatalf("expected violation: not stable long enough")
	}
}

func TestProcessTerminatedCleanlyAcceptsAllowedExitCode(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantProcessTerminatedCleanly})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 1, Cols: 5})
	ctx := ctxFor(s, 0)
	ctx.ProcessStatus = ptybackend.WaitStatus{State: ptybackend.StatusExited, ExitCode: 0}
	if v := c.Finalize(ctx); v != nil {
		t.Fatalf("unexpected violation: %v", v)
	}
}

func TestProcessTerminatedCleanlyRejectsUnexpectedExitCode(t *testing.T) {
	c, err := New(scenario.Invariant{Type: scenario.InvariantProcessTerminatedCleanly})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s := screen.New(screen.Config{Rows: 1, Cols: 5})
	ctx := ctxFor(s, 0)
	ctx.ProcessStatus = ptybackend.WaitStatus{State: ptybackend.StatusExited, ExitCode: 1}
	if v := c.Finalize(ctx); v == nil {
		t.Fatalf("expected violation for unexpected exit code")
	}
}

func feedText(s *screen.Screen, text string) {
	for _, r := range text {
		s.Print(r)
	}
}
