package runtime

import (
	"context"
	"testing"
	"time"

	"bte/internal/clock"
	"bte/internal/ptybackend"
	"bte/internal/scenario"
)

func testConfig() clock.RunnerConfig {
	cfg := clock.DefaultRunnerConfig()
	cfg.SignalGrace = 50 * time.Millisecond
	cfg.DefaultStepTimeoutMs = 3000
	return cfg
}

// TestRunEchoThenMatch spawns a real process (mirrors the "echo then
// match" golden path): /bin/echo prints a line and exits, wait_for
// observes it in the PTY output stream.
func TestRunEchoThenMatch(t *testing.T) {
	sc := &scenario.Scenario{
		Name:    "echo",
		Command: scenario.Command{Program: "/bin/echo", Args: []string{"ready-for-test"}},
		Steps: []scenario.Step{
			{Action: scenario.StepWaitFor, Regex: "ready-for-test", TimeoutTicks: 2000},
		},
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("scenario invalid: %v", err)
	}

	backend := ptybackend.New(0)
	runner, err := NewRunner(sc, backend, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := runner.Run(ctx)
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}
	if res.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", res.ExitCode)
	}
}

// TestRunSendKeysThenWaitFor drives /bin/cat under a PTY, types a line,
// and waits for it to appear in the output stream (local PTY echo plus
// cat's own passthrough).
func TestRunSendKeysThenWaitFor(t *testing.T) {
	sc := &scenario.Scenario{
		Name:    "cat-echo",
		Command: scenario.Command{Program: "/bin/cat"},
		Steps: []scenario.Step{
			{Action: scenario.StepSendKeys, Keys: "hello-there${Enter}"},
			{Action: scenario.StepWaitFor, Regex: "hello-there", TimeoutTicks: 2000},
		},
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("scenario invalid: %v", err)
	}

	backend := ptybackend.New(0)
	runner, err := NewRunner(sc, backend, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := runner.Run(ctx)
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v, err = %v", res.Outcome, res.Err)
	}
}

// TestRunAssertScreenFailureReportsAssertionFailure checks the failure
// path: an assert_screen that can never match on /bin/echo's output
// surfaces an AssertionFailure and a "failed" outcome.
func TestRunAssertScreenFailureReportsAssertionFailure(t *testing.T) {
	sc := &scenario.Scenario{
		Name:    "echo-mismatch",
		Command: scenario.Command{Program: "/bin/echo", Args: []string{"something"}},
		Steps: []scenario.Step{
			{Action: scenario.StepWaitTicks, Ticks: 5},
			{Action: scenario.StepAssertScreen, Regex: "this will never appear"},
		},
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("scenario invalid: %v", err)
	}

	backend := ptybackend.New(0)
	runner, err := NewRunner(sc, backend, testConfig(), nil)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	res := runner.Run(ctx)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want failed", res.Outcome)
	}
	if _, ok := res.Err.(*AssertionFailure); !ok {
		t.Fatalf("err type = %T, want *AssertionFailure", res.Err)
	}
}
