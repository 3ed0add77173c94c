package scenario

import "fmt"

// InvariantKind selects the invariant check to run, drawn from the fixed
// catalog in spec §4.6.
type InvariantKind string

const (
	InvariantCursorBounds             InvariantKind = "cursor_bounds"
	InvariantNoDeadlock               InvariantKind = "no_deadlock"
	InvariantScreenContains           InvariantKind = "screen_contains"
	InvariantScreenNotContains        InvariantKind = "screen_not_contains"
	InvariantScreenStable             InvariantKind = "screen_stable"
	InvariantViewportValid            InvariantKind = "viewport_valid"
	InvariantResponseTime             InvariantKind = "response_time"
	InvariantMaxLatency               InvariantKind = "max_latency"
	InvariantSignalHandled            InvariantKind = "signal_handled"
	InvariantNoOutputAfterExit        InvariantKind = "no_output_after_exit"
	InvariantProcessTerminatedCleanly InvariantKind = "process_terminated_cleanly"
	InvariantCustom                   InvariantKind = "custom"
)

// Invariant is a property the runtime checks continuously (per tick) or
// at scenario end, depending on Type. Like Step, it is a closed tagged
// variant: Type selects which fields apply.
type Invariant struct {
	Type InvariantKind `yaml:"type" json:"type"`

	// Name labels the invariant in failure reports; required for "custom"
	// since there's no other way to identify which check fired.
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// no_deadlock: ticks with no screen change and no process exit before
	// this invariant fails.
	TimeoutTicks uint64 `yaml:"timeout_ticks,omitempty" json:"timeout_ticks,omitempty"`

	// screen_contains / screen_not_contains / custom: pattern checked
	// against rendered screen text.
	Regex string `yaml:"regex,omitempty" json:"regex,omitempty"`

	// screen_stable: the screen's hash must not change for this many
	// consecutive ticks once first observed.
	MinTicks uint64 `yaml:"min_ticks,omitempty" json:"min_ticks,omitempty"`

	// response_time / max_latency: ticks allowed between a triggering
	// input and the expected screen change.
	MaxTicks uint64 `yaml:"max_ticks,omitempty" json:"max_ticks,omitempty"`

	// signal_handled: the signal that must produce a clean reaction
	// (typically paired with process_terminated_cleanly).
	Signal string `yaml:"signal,omitempty" json:"signal,omitempty"`

	// process_terminated_cleanly: exit codes or signals considered clean;
	// empty means "exited with code 0".
	AllowedExitCodes []int    `yaml:"allowed_exit_codes,omitempty" json:"allowed_exit_codes,omitempty"`
	AllowedSignals   []string `yaml:"allowed_signals,omitempty" json:"allowed_signals,omitempty"`

	// custom: whether Regex must match (true) or must never match (false),
	// plus an optional exact cursor position to additionally require.
	ShouldContain bool `yaml:"should_contain,omitempty" json:"should_contain,omitempty"`
	ExpectedRow   *int `yaml:"expected_row,omitempty" json:"expected_row,omitempty"`
	ExpectedCol   *int `yaml:"expected_col,omitempty" json:"expected_col,omitempty"`
}

func (inv Invariant) validate() error {
	switch inv.Type {
	case InvariantCursorBounds, InvariantNoOutputAfterExit, InvariantProcessTerminatedCleanly, InvariantViewportValid:
		// No required fields beyond Type.
	case InvariantNoDeadlock:
		if inv.TimeoutTicks == 0 {
			return fmt.Errorf("no_deadlock requires timeout_ticks > 0")
		}
	case InvariantScreenContains, InvariantScreenNotContains:
		if inv.Regex == "" {
			return fmt.Errorf("%s requires regex", inv.Type)
		}
	case InvariantScreenStable:
		if inv.MinTicks == 0 {
			return fmt.Errorf("screen_stable requires min_ticks > 0")
		}
	case InvariantResponseTime, InvariantMaxLatency:
		if inv.MaxTicks == 0 {
			return fmt.Errorf("%s requires max_ticks > 0", inv.Type)
		}
	case InvariantSignalHandled:
		if inv.Signal == "" {
			return fmt.Errorf("signal_handled requires signal")
		}
	case InvariantCustom:
		if inv.Name == "" {
			return fmt.Errorf("custom invariant requires name")
		}
		if inv.Regex == "" {
			return fmt.Errorf("custom invariant %q requires regex", inv.Name)
		}
	default:
		return fmt.Errorf("unknown invariant type %q", inv.Type)
	}
	return nil
}
