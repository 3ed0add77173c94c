package invariant

import (
	"fmt"
	"regexp"

	"bte/internal/ptybackend"
)

type cursorBoundsChecker struct{ name string }

func (c *cursorBoundsChecker) Name() string { return c.name }

func (c *cursorBoundsChecker) Observe(ctx *Context) *Violation {
	cur := ctx.Screen.Cursor()
	if cur.Row < 0 || cur.Row >= ctx.Screen.Rows || cur.Col < 0 || cur.Col > ctx.Screen.Cols {
		return &Violation{Invariant: c.name, Tick: ctx.Tick,
			Detail: fmt.Sprintf("cursor (%d,%d) outside [0,%d)x[0,%d]", cur.Row, cur.Col, ctx.Screen.Rows, ctx.Screen.Cols)}
	}
	return nil
}

func (c *cursorBoundsChecker) Finalize(*Context) *Violation { return nil }

type noDeadlockChecker struct {
	name         string
	timeoutTicks uint64
	idleTicks    uint64
}

func (c *noDeadlockChecker) Name() string { return c.name }

func (c *noDeadlockChecker) Observe(ctx *Context) *Violation {
	if ctx.ProcessStatus.State != ptybackend.StatusAlive {
		c.idleTicks = 0
		return nil
	}
	if len(ctx.BytesRead) > 0 || ctx.HashChanged {
		c.idleTicks = 0
		return nil
	}
	c.idleTicks++
	if c.idleTicks >= c.timeoutTicks {
		return &Violation{Invariant: c.name, Tick: ctx.Tick,
			Detail: fmt.Sprintf("no bytes or screen mutation for %d ticks", c.idleTicks)}
	}
	return nil
}

func (c *noDeadlockChecker) Finalize(*Context) *Violation { return nil }

type screenContainsChecker struct {
	name    string
	re      *regexp.Regexp
	matched bool
}

func (c *screenContainsChecker) Name() string { return c.name }

func (c *screenContainsChecker) Observe(ctx *Context) *Violation {
	if !c.matched && c.re.MatchString(ctx.Screen.RenderText()) {
		c.matched = true
	}
	return nil
}

func (c *screenContainsChecker) Finalize(ctx *Context) *Violation {
	if c.matched {
		return nil
	}
	return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("regex %q never matched", c.re.String())}
}

type screenNotContainsChecker struct {
	name string
	re   *regexp.Regexp
}

func (c *screenNotContainsChecker) Name() string { return c.name }

func (c *screenNotContainsChecker) Observe(ctx *Context) *Violation {
	if c.re.MatchString(ctx.Screen.RenderText()) {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("regex %q matched", c.re.String())}
	}
	return nil
}

func (c *screenNotContainsChecker) Finalize(*Context) *Violation { return nil }

type screenStableChecker struct {
	name      string
	minTicks  uint64
	lastHash  uint64
	runLength uint64
	satisfied bool
}

func (c *screenStableChecker) Name() string { return c.name }

func (c *screenStableChecker) Observe(ctx *Context) *Violation {
	if ctx.ScreenHash == c.lastHash {
		c.runLength++
	} else {
		c.lastHash = ctx.ScreenHash
		c.runLength = 1
	}
	if c.runLength >= c.minTicks {
		c.satisfied = true
	}
	return nil
}

func (c *screenStableChecker) Finalize(ctx *Context) *Violation {
	if c.satisfied {
		return nil
	}
	return &Violation{Invariant: c.name, Tick: ctx.Tick,
		Detail: fmt.Sprintf("screen hash never stayed constant for %d ticks", c.minTicks)}
}

type viewportValidChecker struct{ name string }

func (c *viewportValidChecker) Name() string { return c.name }

func (c *viewportValidChecker) Observe(ctx *Context) *Violation {
	s := ctx.Screen
	if ctx.MaxCols > 0 && s.Cols > ctx.MaxCols {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("cols %d exceeds bound %d", s.Cols, ctx.MaxCols)}
	}
	if ctx.MaxRows > 0 && s.Rows > ctx.MaxRows {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("rows %d exceeds bound %d", s.Rows, ctx.MaxRows)}
	}
	top, bottom := s.ScrollRegion()
	if top < 0 || bottom >= s.Rows || top > bottom {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("scroll region [%d,%d] invalid for %d rows", top, bottom, s.Rows)}
	}
	return nil
}

func (c *viewportValidChecker) Finalize(*Context) *Violation { return nil }

type responseTimeChecker struct {
	name         string
	maxTicks     uint64
	pending      bool
	pendingSince uint64
	baselineHash uint64
}

func (c *responseTimeChecker) Name() string { return c.name }

func (c *responseTimeChecker) Observe(ctx *Context) *Violation {
	if ctx.InputSentThisTick {
		c.pending = true
		c.pendingSince = ctx.Tick
		c.baselineHash = ctx.ScreenHash
		return nil
	}
	if !c.pending {
		return nil
	}
	if ctx.ScreenHash != c.baselineHash {
		c.pending = false
		return nil
	}
	if ctx.Tick-c.pendingSince > c.maxTicks {
		c.pending = false
		return &Violation{Invariant: c.name, Tick: ctx.Tick,
			Detail: fmt.Sprintf("screen unchanged %d ticks after input", ctx.Tick-c.pendingSince)}
	}
	return nil
}

func (c *responseTimeChecker) Finalize(*Context) *Violation { return nil }

type maxLatencyChecker struct {
	name           string
	maxTicks       uint64
	lastMutation   uint64
	sawFirstChange bool
}

func (c *maxLatencyChecker) Name() string { return c.name }

func (c *maxLatencyChecker) Observe(ctx *Context) *Violation {
	if ctx.HashChanged {
		c.lastMutation = ctx.Tick
		c.sawFirstChange = true
		return nil
	}
	if !c.sawFirstChange {
		return nil
	}
	if ctx.Tick-c.lastMutation > c.maxTicks {
		return &Violation{Invariant: c.name, Tick: ctx.Tick,
			Detail: fmt.Sprintf("no screen mutation for %d ticks", ctx.Tick-c.lastMutation)}
	}
	return nil
}

func (c *maxLatencyChecker) Finalize(*Context) *Violation { return nil }

type signalHandledChecker struct {
	name         string
	signal       string
	windowTicks  uint64
	pending      bool
	pendingSince uint64
	satisfied    bool
}

func (c *signalHandledChecker) Name() string { return c.name }

func (c *signalHandledChecker) Observe(ctx *Context) *Violation {
	if ctx.SignalSent == c.signal {
		c.pending = true
		c.pendingSince = ctx.Tick
	}
	if !c.pending || c.satisfied {
		return nil
	}
	if ctx.ProcessStatus.State != ptybackend.StatusAlive || ctx.HashChanged {
		c.satisfied = true
		c.pending = false
		return nil
	}
	if ctx.Tick-c.pendingSince > c.windowTicks {
		return &Violation{Invariant: c.name, Tick: ctx.Tick,
			Detail: fmt.Sprintf("no reaction to %s within %d ticks", c.signal, c.windowTicks)}
	}
	return nil
}

func (c *signalHandledChecker) Finalize(ctx *Context) *Violation {
	if c.pending && !c.satisfied {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("no reaction to %s by end of run", c.signal)}
	}
	return nil
}

type noOutputAfterExitChecker struct {
	name       string
	exited     bool
	exitedTick uint64
}

func (c *noOutputAfterExitChecker) Name() string { return c.name }

func (c *noOutputAfterExitChecker) Observe(ctx *Context) *Violation {
	if !c.exited {
		if ctx.ProcessStatus.State != ptybackend.StatusAlive {
			c.exited = true
			c.exitedTick = ctx.Tick
		}
		return nil
	}
	if ctx.Tick > c.exitedTick && len(ctx.BytesRead) > 0 {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: "bytes received after process exit"}
	}
	return nil
}

func (c *noOutputAfterExitChecker) Finalize(*Context) *Violation { return nil }

type processTerminatedCleanlyChecker struct {
	name             string
	allowedExitCodes []int
	allowedSignals   []string
}

func (c *processTerminatedCleanlyChecker) Name() string { return c.name }

func (c *processTerminatedCleanlyChecker) Observe(*Context) *Violation { return nil }

func (c *processTerminatedCleanlyChecker) Finalize(ctx *Context) *Violation {
	st := ctx.ProcessStatus
	switch st.State {
	case ptybackend.StatusExited:
		codes := c.allowedExitCodes
		if len(codes) == 0 {
			codes = []int{0}
		}
		for _, code := range codes {
			if st.ExitCode == code {
				return nil
			}
		}
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("exit code %d not in allowed set %v", st.ExitCode, codes)}
	case ptybackend.StatusSignaled:
		for _, sig := range c.allowedSignals {
			if sig == st.SignalName {
				return nil
			}
		}
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("signal %s not in allowed set %v", st.SignalName, c.allowedSignals)}
	default:
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: "process still alive at end of run"}
	}
}

type customChecker struct {
	name          string
	re            *regexp.Regexp
	shouldContain bool
	expectedRow   *int
	expectedCol   *int

	matched bool
}

func (c *customChecker) Name() string { return c.name }

func (c *customChecker) Observe(ctx *Context) *Violation {
	matches := c.re.MatchString(ctx.Screen.RenderText())
	if matches {
		c.matched = true
	}
	if !c.shouldContain && matches {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("regex %q matched but should not", c.re.String())}
	}
	return nil
}

func (c *customChecker) Finalize(ctx *Context) *Violation {
	if c.shouldContain && !c.matched {
		return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("regex %q never matched", c.re.String())}
	}
	if c.expectedRow != nil || c.expectedCol != nil {
		cur := ctx.Screen.Cursor()
		if c.expectedRow != nil && cur.Row != *c.expectedRow {
			return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("cursor row %d != expected %d", cur.Row, *c.expectedRow)}
		}
		if c.expectedCol != nil && cur.Col != *c.expectedCol {
			return &Violation{Invariant: c.name, Tick: ctx.Tick, Detail: fmt.Sprintf("cursor col %d != expected %d", cur.Col, *c.expectedCol)}
		}
	}
	return nil
}
