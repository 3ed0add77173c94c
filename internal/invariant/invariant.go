// Package invariant implements the property checks the runtime evaluates
// against a running scenario (spec §4.6): a closed catalog of checkers,
// each a pure function of a per-tick Context plus whatever history it
// must keep to judge that property, grounded on the small closed-enum
// state-machine shape of session/agent/monitor/state.go.
package invariant

import (
	"fmt"
	"regexp"

	"bte/internal/ptybackend"
	"bte/internal/scenario"
	"bte/internal/screen"
)

// Context is the observable state a Checker's Observe call may consult.
// The runner builds one per tick; checkers never reach outside it, so an
// invariant can never silently depend on something the trace doesn't
// record (spec §9 "global state forbidden").
type Context struct {
	Tick        uint64
	Screen      *screen.Screen
	ScreenHash  uint64
	HashChanged bool

	BytesRead       []byte
	InputSentThisTick bool

	ProcessStatus ptybackend.WaitStatus
	SignalSent    string // name of a signal dispatched this tick, "" otherwise

	MaxCols, MaxRows int
}

// Violation reports a failed invariant, carrying just enough context to
// explain the failure without re-deriving it from the trace.
type Violation struct {
	Invariant string
	Tick      uint64
	Detail    string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("invariant %q violated at tick %d: %s", v.Invariant, v.Tick, v.Detail)
}

// Checker evaluates one scenario.Invariant across the life of a run.
// Observe is called once per scheduler tick (ticks run while a step is
// executing) and once more by each check_invariant step naming it;
// Finalize is called once, after the last step has completed without
// error, for invariants whose verdict depends on never having seen
// something (screen_contains) or only resolves at the end
// (process_terminated_cleanly).
type Checker interface {
	Name() string
	Observe(ctx *Context) *Violation
	Finalize(ctx *Context) *Violation
}

// New compiles a scenario.Invariant into a Checker, or returns an error
// for an unknown Type (the catalog is closed, per spec §9 "sum types
// over inheritance").
func New(inv scenario.Invariant) (Checker, error) {
	name := inv.Name
	if name == "" {
		name = string(inv.Type)
	}
	switch inv.Type {
	case scenario.InvariantCursorBounds:
		return &cursorBoundsChecker{name: name}, nil
	case scenario.InvariantNoDeadlock:
		return &noDeadlockChecker{name: name, timeoutTicks: inv.TimeoutTicks}, nil
	case scenario.InvariantScreenContains:
		re, err := regexp.Compile(inv.Regex)
		if err != nil {
			return nil, fmt.Errorf("invariant %q: %w", name, err)
		}
		return &screenContainsChecker{name: name, re: re}, nil
	case scenario.InvariantScreenNotContains:
		re, err := regexp.Compile(inv.Regex)
		if err != nil {
			return nil, fmt.Errorf("invariant %q: %w", name, err)
		}
		return &screenNotContainsChecker{name: name, re: re}, nil
	case scenario.InvariantScreenStable:
		return &screenStableChecker{name: name, minTicks: inv.MinTicks, lastHash: noHashSeen}, nil
	case scenario.InvariantViewportValid:
		return &viewportValidChecker{name: name}, nil
	case scenario.InvariantResponseTime:
		return &responseTimeChecker{name: name, maxTicks: inv.MaxTicks}, nil
	case scenario.InvariantMaxLatency:
		return &maxLatencyChecker{name: name, maxTicks: inv.MaxTicks}, nil
	case scenario.InvariantSignalHandled:
		return &signalHandledChecker{name: name, signal: inv.Signal, windowTicks: defaultSignalWindow(inv)}, nil
	case scenario.InvariantNoOutputAfterExit:
		return &noOutputAfterExitChecker{name: name}, nil
	case scenario.InvariantProcessTerminatedCleanly:
		return &processTerminatedCleanlyChecker{
			name:             name,
			allowedExitCodes: inv.AllowedExitCodes,
			allowedSignals:   inv.AllowedSignals,
		}, nil
	case scenario.InvariantCustom:
		re, err := regexp.Compile(inv.Regex)
		if err != nil {
			return nil, fmt.Errorf("invariant %q: %w", name, err)
		}
		return &customChecker{
			name:          name,
			re:            re,
			shouldContain: inv.ShouldContain,
			expectedRow:   inv.ExpectedRow,
			expectedCol:   inv.ExpectedCol,
		}, nil
	default:
		return nil, fmt.Errorf("invariant: unknown type %q", inv.Type)
	}
}

func defaultSignalWindow(inv scenario.Invariant) uint64 {
	if inv.MaxTicks > 0 {
		return inv.MaxTicks
	}
	return 50
}

const noHashSeen = ^uint64(0)
