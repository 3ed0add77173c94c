// Package runtime implements the deterministic scheduler (spec §4.4):
// the single-threaded cooperative tick loop that drives a Backend, feeds
// its output through the VT parser into a Screen, dispatches scenario
// steps, and evaluates invariants — grounded on benchmarks/runner's
// step-by-step RunTask orchestration with pluggable collaborators.
package runtime

import (
	"context"
	"fmt"
	"time"

	"bte/internal/clock"
	"bte/internal/invariant"
	"bte/internal/ptybackend"
	"bte/internal/scenario"
	"bte/internal/screen"
	"bte/internal/trace"
	"bte/internal/vtparser"
)

// Result is what a completed Run reports back to its caller.
type Result struct {
	Outcome  Outcome
	ExitCode int
	Err      error
	Trace    *trace.Trace
}

// Runner owns every piece of mutable state for one scenario execution.
// There is no global state (spec §9): the clock and RNG are fields here,
// not ambient singletons.
type Runner struct {
	backend  ptybackend.Backend
	screen   *screen.Screen
	parser   *vtparser.Parser
	clock    *clock.Clock
	rng      *clock.RNG
	cfg      clock.RunnerConfig
	scenario *scenario.Scenario
	checkers []invariant.Checker
	tracer   *trace.Builder

	prevHash      uint64
	lastSignal    string
	inputThisTick bool
}

// NewRunner builds a Runner ready to Run sc against backend. tb may be
// nil to skip trace recording.
func NewRunner(sc *scenario.Scenario, backend ptybackend.Backend, cfg clock.RunnerConfig, tb *trace.Builder) (*Runner, error) {
	term := sc.ResolvedTerminal()
	seed := clock.DefaultSeed
	if sc.Seed != nil {
		seed = *sc.Seed
	}

	checkers := make([]invariant.Checker, 0, len(sc.Invariants))
	for _, inv := range sc.Invariants {
		c, err := invariant.New(inv)
		if err != nil {
			return nil, fmt.Errorf("runtime: %w", err)
		}
		checkers = append(checkers, c)
	}

	r := &Runner{
		backend:  backend,
		screen:   screen.New(screen.Config{Rows: term.Rows, Cols: term.Cols, ScrollbackCapacity: cfg.ScrollbackCapacity}),
		parser:   vtparser.NewParser(),
		clock:    clock.New(cfg.TickDuration),
		rng:      clock.NewRNG(seed),
		cfg:      cfg,
		scenario: sc,
		checkers: checkers,
		tracer:   tb,
	}
	r.prevHash = r.screen.Hash()
	return r, nil
}

// Run spawns the scenario's command and drives every step to completion,
// a violation, or a timeout.
func (r *Runner) Run(ctx context.Context) *Result {
	term := r.scenario.ResolvedTerminal()
	if err := r.backend.Spawn(r.scenario.Command.Program, r.scenario.Command.Args, r.scenario.Env,
		ptybackend.Size{Cols: term.Cols, Rows: term.Rows}); err != nil {
		return r.finish(OutcomeFailed, err)
	}
	defer r.teardown()

	globalTimeoutTicks := r.clock.TicksFromMillis(r.scenario.TimeoutMs)
	if globalTimeoutTicks == 0 {
		globalTimeoutTicks = r.clock.TicksFromMillis(r.cfg.GlobalTimeoutMs)
	}

	for i, step := range r.scenario.Steps {
		select {
		case <-ctx.Done():
			return r.finish(OutcomeTimeout, ctx.Err())
		default:
		}

		startTick := r.clock.Now()
		startHash := r.screen.Hash()
		bytesRead, err := r.runStep(ctx, i, step, globalTimeoutTicks)
		if r.tracer != nil {
			r.tracer.RecordStep(trace.StepRecord{
				StepIndex: i,
				Step:      step,
				StartTick: startTick,
				EndTick:   r.clock.Now(),
				PreHash:   startHash,
				PostHash:  r.screen.Hash(),
				BytesRead: bytesRead,
				Outcome:   outcomeLabel(err),
			})
		}
		if err != nil {
			return r.finish(classify(err), err)
		}
		if r.clock.Now() >= globalTimeoutTicks && globalTimeoutTicks > 0 {
			return r.finish(OutcomeTimeout, &TimeoutError{Step: -1, Ticks: r.clock.Now()})
		}
	}

	if v := r.finalizeInvariants(); v != nil {
		return r.finish(OutcomeInvariantViolation, v)
	}
	return r.finish(OutcomeSuccess, nil)
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return err.Error()
}

// teardown signals a still-alive child SIGTERM, waits out the configured
// grace window, and escalates to SIGKILL if it hasn't exited by then,
// before closing the backend (spec §5 "signaled SIGTERM, and if still
// alive after a grace window, SIGKILL").
func (r *Runner) teardown() {
	if r.backend.WaitStatus().State == ptybackend.StatusAlive {
		_ = r.backend.SendSignal(ptybackend.SIGTERM)
		grace := r.cfg.SignalGrace
		if grace <= 0 {
			grace = 2 * time.Second
		}
		time.Sleep(grace)
		if r.backend.WaitStatus().State == ptybackend.StatusAlive {
			_ = r.backend.SendSignal(ptybackend.SIGKILL)
		}
	}
	_ = r.backend.Close()
}

func classify(err error) Outcome {
	switch err.(type) {
	case *InvariantViolationError:
		return OutcomeInvariantViolation
	case *TimeoutError:
		return OutcomeTimeout
	case *AssertionFailure:
		return OutcomeFailed
	default:
		return OutcomeFailed
	}
}

func (r *Runner) finish(outcome Outcome, err error) *Result {
	res := &Result{Outcome: outcome, ExitCode: outcome.ExitCode(), Err: err}
	if r.backend.WaitStatus().State == ptybackend.StatusSignaled && outcome != OutcomeInvariantViolation && outcome != OutcomeTimeout {
		res.Outcome = OutcomeChildSignaled
		res.ExitCode = OutcomeChildSignaled.ExitCode()
	}
	if r.tracer != nil {
		res.Trace = r.tracer.Finish(string(res.Outcome), res.ExitCode)
	}
	return res
}

// tick performs one scheduling iteration (spec §4.4/§5): read a bounded
// slice of backend output, feed it through the parser, evaluate per-tick
// invariants, then advance the tick counter.
func (r *Runner) tick() ([]byte, error) {
	data, err := r.backend.Read(r.cfg.BackendReadBudget)
	if err != nil && err != ptybackend.ErrEOF {
		return nil, &ReadError{Err: err}
	}
	if len(data) > 0 {
		r.parser.Advance(r.screen, data)
		if r.tracer != nil {
			r.tracer.RecordEvent(trace.Event{Kind: trace.EventPtyRead, Tick: r.clock.Now(), Bytes: data})
		}
	}

	hash := r.screen.Hash()
	changed := hash != r.prevHash
	r.prevHash = hash

	ctx := r.baseContext()
	ctx.ScreenHash = hash
	ctx.HashChanged = changed
	ctx.BytesRead = data
	ctx.InputSentThisTick = r.inputThisTick
	ctx.SignalSent = r.lastSignal
	r.inputThisTick = false
	r.lastSignal = ""

	for _, c := range r.checkers {
		if v := c.Observe(ctx); v != nil {
			return data, &InvariantViolationError{Invariant: v.Invariant, Tick: v.Tick, Detail: v.Detail}
		}
	}

	r.clock.Advance()
	return data, nil
}

// baseContext builds an invariant.Context stamped with the fields that
// are the same regardless of caller (tick, finalize, or an immediate
// check_invariant step); per-tick-only fields are left zero for callers
// that don't have them to report.
func (r *Runner) baseContext() *invariant.Context {
	return &invariant.Context{
		Tick:          r.clock.Now(),
		Screen:        r.screen,
		ScreenHash:    r.screen.Hash(),
		ProcessStatus: r.backend.WaitStatus(),
		MaxCols:       2000,
		MaxRows:       2000,
	}
}

func (r *Runner) finalizeInvariants() error {
	ctx := r.baseContext()
	for _, c := range r.checkers {
		if v := c.Finalize(ctx); v != nil {
			return &InvariantViolationError{Invariant: v.Invariant, Tick: v.Tick, Detail: v.Detail}
		}
	}
	return nil
}
