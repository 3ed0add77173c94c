package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"bte/internal/ptybackend"
	"bte/internal/scenario"
	"bte/internal/screen"
	"bte/internal/screenshot"
	"bte/internal/trace"
)

// runStep executes one step to completion, returning every byte read
// from the backend while the step was active (for the full trace) and
// an error classifying how the step ended.
func (r *Runner) runStep(ctx context.Context, index int, step scenario.Step, globalTimeoutTicks uint64) ([]byte, error) {
	var collected []byte
	tickData := func() ([]byte, error) {
		data, err := r.tick()
		if err == nil && globalTimeoutTicks > 0 && r.clock.Now() >= globalTimeoutTicks {
			err = &TimeoutError{Step: index, Ticks: r.clock.Now(), Detail: "global timeout reached mid-step"}
		}
		return data, err
	}
	readTick := func() error {
		data, err := tickData()
		collected = append(collected, data...)
		return err
	}

	switch step.Action {
	case scenario.StepSendKeys:
		if err := r.doSendKeys(step); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		return collected, readTick()

	case scenario.StepWaitFor:
		re, err := compileBoundedRegex(step.Regex)
		if err != nil {
			return collected, &AssertionFailure{Step: index, Detail: err.Error()}
		}
		return r.waitUntil(index, r.resolveStepTimeoutTicks(step), tickData, func(stream string) bool {
			return re.MatchString(stream)
		})

	case scenario.StepWaitForFuzzy:
		return r.waitUntil(index, r.resolveStepTimeoutTicks(step), tickData, func(stream string) bool {
			dist, sim, found := bestFuzzyWindow(stream, step.Text)
			if !found {
				return false
			}
			if step.MaxDistance > 0 && dist <= step.MaxDistance {
				return true
			}
			return step.MinSimilarity > 0 && sim >= step.MinSimilarity
		})

	case scenario.StepWaitScreen:
		re, err := compileBoundedRegex(step.Regex)
		if err != nil {
			return collected, &AssertionFailure{Step: index, Detail: err.Error()}
		}
		return r.waitUntil(index, r.resolveStepTimeoutTicks(step), tickData, func(string) bool {
			return re.MatchString(r.screen.RenderText())
		})

	case scenario.StepWaitTicks:
		for n := uint64(0); n < step.Ticks; n++ {
			if err := readTick(); err != nil {
				return collected, err
			}
		}
		return collected, nil

	case scenario.StepSendSignal:
		sig, err := signalByName(step.Signal)
		if err != nil {
			return collected, &AssertionFailure{Step: index, Detail: err.Error()}
		}
		if err := r.backend.SendSignal(sig); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		r.lastSignal = step.Signal
		return collected, readTick()

	case scenario.StepResize:
		if err := r.doResize(step.Cols, step.Rows); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		return collected, readTick()

	case scenario.StepMouseClick:
		if err := r.doMouseClick(step); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		return collected, readTick()

	case scenario.StepMouseScroll:
		if err := r.doMouseScroll(step); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		return collected, readTick()

	case scenario.StepAssertScreen:
		re, err := compileBoundedRegex(step.Regex)
		if err != nil {
			return collected, &AssertionFailure{Step: index, Detail: err.Error()}
		}
		if err := readTick(); err != nil {
			return collected, err
		}
		if !re.MatchString(r.screen.RenderText()) {
			return collected, &AssertionFailure{Step: index, Detail: fmt.Sprintf("screen does not match %q", step.Regex)}
		}
		return collected, nil

	case scenario.StepAssertNotScreen:
		re, err := compileBoundedRegex(step.Regex)
		if err != nil {
			return collected, &AssertionFailure{Step: index, Detail: err.Error()}
		}
		if err := readTick(); err != nil {
			return collected, err
		}
		if re.MatchString(r.screen.RenderText()) {
			return collected, &AssertionFailure{Step: index, Detail: fmt.Sprintf("screen unexpectedly matches %q", step.Regex)}
		}
		return collected, nil

	case scenario.StepAssertCursor:
		if err := readTick(); err != nil {
			return collected, err
		}
		cur := r.screen.Cursor()
		if cur.Row != step.Row || cur.Col != step.Col {
			return collected, &AssertionFailure{Step: index,
				Detail: fmt.Sprintf("cursor (%d,%d) != expected (%d,%d)", cur.Row, cur.Col, step.Row, step.Col)}
		}
		return collected, nil

	case scenario.StepSnapshot:
		readAt := r.clock.Now()
		if err := readTick(); err != nil {
			return collected, err
		}
		if r.tracer != nil {
			r.tracer.RecordCheckpoint(trace.Checkpoint{
				Tick:        readAt,
				RNGState:    r.rng.State(),
				ScreenHash:  r.screen.Hash(),
				ScreenText:  r.screen.RenderText(),
				Description: step.Name,
			})
		}
		return collected, nil

	case scenario.StepTakeScreenshot:
		if err := readTick(); err != nil {
			return collected, err
		}
		if err := screenshot.Save(step.Path, screenshot.Capture(r.screen)); err != nil {
			return collected, &WriteError{Step: index, Err: err}
		}
		return collected, nil

	case scenario.StepAssertScreenshot:
		if err := readTick(); err != nil {
			return collected, err
		}
		return collected, r.doAssertScreenshot(index, step)

	case scenario.StepCheckInvariant:
		if err := readTick(); err != nil {
			return collected, err
		}
		return collected, r.checkNamedInvariant(index, step.InvariantName)

	default:
		return collected, &AssertionFailure{Step: index, Detail: fmt.Sprintf("unhandled step action %q", step.Action)}
	}
}

// resolveStepTimeoutTicks converts a step's timeout fields to a tick
// budget: an explicit tick count wins, then an explicit millisecond
// value, then the runner's configured default step timeout.
func (r *Runner) resolveStepTimeoutTicks(step scenario.Step) uint64 {
	if step.TimeoutTicks > 0 {
		return step.TimeoutTicks
	}
	if step.TimeoutMs > 0 {
		return r.clock.TicksFromMillis(step.TimeoutMs)
	}
	return r.clock.TicksFromMillis(r.cfg.DefaultStepTimeoutMs)
}

// waitUntil drives readTick once per iteration until predicate(stream)
// is true or timeoutTicks elapse. stream accumulates every byte read
// since the step began, which is what wait_for/wait_for_fuzzy match
// against; wait_screen's predicate ignores it and reads the live screen
// instead.
func (r *Runner) waitUntil(index int, timeoutTicks uint64, readTick func() ([]byte, error), predicate func(stream string) bool) ([]byte, error) {
	var stream []byte
	var collected []byte
	start := r.clock.Now()
	for {
		data, err := readTick()
		collected = append(collected, data...)
		stream = append(stream, data...)
		if err != nil {
			return collected, err
		}
		if predicate(string(stream)) {
			return collected, nil
		}
		if r.backend.WaitStatus().State != ptybackend.StatusAlive {
			return collected, &TimeoutError{Step: index, Ticks: r.clock.Now() - start, Detail: "child exited before condition was met"}
		}
		if timeoutTicks > 0 && r.clock.Now()-start >= timeoutTicks {
			return collected, &TimeoutError{Step: index, Ticks: r.clock.Now() - start, Detail: "step timeout elapsed"}
		}
	}
}

func (r *Runner) doSendKeys(step scenario.Step) error {
	bytes, err := expandKeys(step.Keys, r.screen.GetModes().ApplicationCursorKeys)
	if err != nil {
		return err
	}
	const maxWriteAttempts = 3
	for attempt := 1; len(bytes) > 0; attempt++ {
		n, err := r.backend.Write(bytes)
		bytes = bytes[n:]
		// A timed-out write may still land later, so it is not retried.
		if errors.Is(err, ptybackend.ErrWriteTimeout) {
			return err
		}
		if len(bytes) > 0 && attempt >= maxWriteAttempts {
			if err == nil {
				err = io.ErrShortWrite
			}
			return err
		}
	}
	r.inputThisTick = true
	return nil
}

func (r *Runner) doResize(cols, rows int) error {
	r.screen.Resize(rows, cols)
	return r.backend.Resize(ptybackend.Size{Cols: cols, Rows: rows})
}

func (r *Runner) doMouseClick(step scenario.Step) error {
	if err := r.maybeEnableMouseTracking(step.EnableTracking); err != nil {
		return err
	}
	seq, err := sgr1006Click(step.Row, step.Col, step.Button)
	if err != nil {
		return err
	}
	if _, err := r.backend.Write(seq); err != nil {
		return err
	}
	r.inputThisTick = true
	return nil
}

func (r *Runner) doMouseScroll(step scenario.Step) error {
	if err := r.maybeEnableMouseTracking(step.EnableTracking); err != nil {
		return err
	}
	seq, err := sgr1006Scroll(step.Row, step.Col, step.Direction)
	if err != nil {
		return err
	}
	if _, err := r.backend.Write(seq); err != nil {
		return err
	}
	r.inputThisTick = true
	return nil
}

func (r *Runner) maybeEnableMouseTracking(enable bool) error {
	if !enable || r.screen.GetModes().Mouse != screen.MouseOff {
		return nil
	}
	_, err := r.backend.Write([]byte(enableMouseTrackingSeq))
	return err
}

func (r *Runner) doAssertScreenshot(index int, step scenario.Step) error {
	baseline, err := screenshot.Load(step.Path)
	if err != nil {
		return &AssertionFailure{Step: index, Detail: err.Error()}
	}
	actual := screenshot.Capture(r.screen)
	diffs, err := screenshot.Compare(baseline, actual, screenshot.CompareOptions{
		CompareColors: step.CompareColors,
		CompareText:   step.CompareText,
		IgnoreRegions: step.IgnoreRegions,
	})
	if err != nil {
		return &AssertionFailure{Step: index, Detail: err.Error()}
	}
	if len(diffs) > step.MaxDifferences {
		return &AssertionFailure{Step: index,
			Detail: fmt.Sprintf("%d differences exceed max_differences %d", len(diffs), step.MaxDifferences)}
	}
	return nil
}

func (r *Runner) checkNamedInvariant(index int, name string) error {
	for _, c := range r.checkers {
		if c.Name() != name {
			continue
		}
		if v := c.Observe(r.baseContext()); v != nil {
			return &InvariantViolationError{Invariant: v.Invariant, Tick: v.Tick, Detail: v.Detail}
		}
		return nil
	}
	return &AssertionFailure{Step: index, Detail: fmt.Sprintf("no invariant named %q", name)}
}

func signalByName(name string) (ptybackend.Signal, error) {
	switch name {
	case "SIGINT":
		return ptybackend.SIGINT, nil
	case "SIGTERM":
		return ptybackend.SIGTERM, nil
	case "SIGKILL":
		return ptybackend.SIGKILL, nil
	case "SIGSTOP":
		return ptybackend.SIGSTOP, nil
	case "SIGCONT":
		return ptybackend.SIGCONT, nil
	case "SIGHUP":
		return ptybackend.SIGHUP, nil
	default:
		return 0, fmt.Errorf("send_signal: unknown signal %q", name)
	}
}
