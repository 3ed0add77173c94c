package scenario

import "fmt"

// StepKind selects which of the mutually-exclusive fields on Step are
// meaningful (spec §4.5 enumerates the closed set below).
type StepKind string

const (
	StepSendKeys         StepKind = "send_keys"
	StepWaitFor          StepKind = "wait_for"
	StepWaitForFuzzy     StepKind = "wait_for_fuzzy"
	StepWaitScreen       StepKind = "wait_screen"
	StepWaitTicks        StepKind = "wait_ticks"
	StepSendSignal       StepKind = "send_signal"
	StepResize           StepKind = "resize"
	StepMouseClick       StepKind = "mouse_click"
	StepMouseScroll      StepKind = "mouse_scroll"
	StepAssertScreen     StepKind = "assert_screen"
	StepAssertNotScreen  StepKind = "assert_not_screen"
	StepAssertCursor     StepKind = "assert_cursor"
	StepSnapshot         StepKind = "snapshot"
	StepTakeScreenshot   StepKind = "take_screenshot"
	StepAssertScreenshot StepKind = "assert_screenshot"
	StepCheckInvariant   StepKind = "check_invariant"
)

// Region is a rectangular sub-area of the screen, used both to scope an
// assertion and to mask a screenshot comparison (spec §4.5, §4.7
// ignore_regions).
type Region struct {
	Row  int `yaml:"row" json:"row"`
	Col  int `yaml:"col" json:"col"`
	Rows int `yaml:"rows" json:"rows"`
	Cols int `yaml:"cols" json:"cols"`
}

// Step is one instruction in a scenario's script. It is a closed tagged
// variant: Action selects which of the remaining fields apply, following
// the flat-struct-with-purpose-tagged-fields shape used throughout this
// codebase for config values (grouped by the action that reads them,
// commented per field rather than split into one struct per action,
// which would force the loader to type-switch on YAML shape instead of
// on a plain string tag).
type Step struct {
	Action StepKind `yaml:"action" json:"action"`

	// send_keys: literal bytes, after named-key expansion (spec §4.5), to
	// write to the child's stdin.
	Keys string `yaml:"keys,omitempty" json:"keys,omitempty"`

	// wait_for: regular expression checked against the output read since
	// the step began. wait_screen / assert_screen / assert_not_screen:
	// regular expression checked against the rendered screen text.
	Regex string `yaml:"regex,omitempty" json:"regex,omitempty"`

	// wait_for / wait_for_fuzzy / wait_screen: tick budget. TimeoutMs is
	// an alternate wall-clock spelling the runtime converts to ticks when
	// the step runs, using the run's tick duration; TimeoutTicks wins
	// when both are set.
	TimeoutTicks uint64 `yaml:"timeout_ticks,omitempty" json:"timeout_ticks,omitempty"`
	TimeoutMs    int64  `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`

	// wait_for_fuzzy: approximate text match.
	Text          string  `yaml:"text,omitempty" json:"text,omitempty"`
	MaxDistance   int     `yaml:"max_distance,omitempty" json:"max_distance,omitempty"`
	MinSimilarity float64 `yaml:"min_similarity,omitempty" json:"min_similarity,omitempty"`

	// wait_ticks: advance the deterministic clock without waiting on
	// output.
	Ticks uint64 `yaml:"ticks,omitempty" json:"ticks,omitempty"`

	// send_signal: one of the names in the closed signal set (spec §4.3).
	Signal string `yaml:"signal,omitempty" json:"signal,omitempty"`

	// resize: new PTY geometry.
	Cols int `yaml:"cols,omitempty" json:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty" json:"rows,omitempty"`

	// mouse_click / mouse_scroll / assert_cursor: cell coordinates,
	// 0-indexed.
	Row int `yaml:"row,omitempty" json:"row,omitempty"`
	Col int `yaml:"col,omitempty" json:"col,omitempty"`

	// mouse_click: which button, e.g. "left", "middle", "right".
	Button string `yaml:"button,omitempty" json:"button,omitempty"`

	// mouse_scroll: "up" or "down".
	Direction string `yaml:"direction,omitempty" json:"direction,omitempty"`

	// mouse_click / mouse_scroll: emit DECSET 1000/1006 first if the
	// scenario hasn't already enabled mouse tracking.
	EnableTracking bool `yaml:"enable_tracking,omitempty" json:"enable_tracking,omitempty"`

	// snapshot: a label recorded alongside the current screen hash in the
	// trace (spec §4.7).
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// take_screenshot / assert_screenshot: persisted screenshot path plus
	// comparison tolerance for assert_screenshot.
	Path           string   `yaml:"path,omitempty" json:"path,omitempty"`
	MaxDifferences int      `yaml:"max_differences,omitempty" json:"max_differences,omitempty"`
	CompareColors  bool     `yaml:"compare_colors,omitempty" json:"compare_colors,omitempty"`
	CompareText    bool     `yaml:"compare_text,omitempty" json:"compare_text,omitempty"`
	IgnoreRegions  []Region `yaml:"ignore_regions,omitempty" json:"ignore_regions,omitempty"`

	// check_invariant: name of an entry in the scenario's Invariants list
	// to check immediately rather than only at scenario end.
	InvariantName string `yaml:"invariant_name,omitempty" json:"invariant_name,omitempty"`
}

func (s Step) validate() error {
	switch s.Action {
	case StepSendKeys:
		if s.Keys == "" {
			return fmt.Errorf("send_keys requires keys")
		}
	case StepWaitFor:
		if s.Regex == "" {
			return fmt.Errorf("wait_for requires regex")
		}
	case StepWaitForFuzzy:
		if s.Text == "" {
			return fmt.Errorf("wait_for_fuzzy requires text")
		}
	case StepWaitScreen:
		if s.Regex == "" {
			return fmt.Errorf("wait_screen requires regex")
		}
	case StepWaitTicks:
		if s.Ticks == 0 {
			return fmt.Errorf("wait_ticks requires ticks > 0")
		}
	case StepSendSignal:
		if s.Signal == "" {
			return fmt.Errorf("send_signal requires signal")
		}
	case StepResize:
		if s.Cols < 1 || s.Cols > maxGeometry {
			return fmt.Errorf("resize cols %d out of range [1,%d]", s.Cols, maxGeometry)
		}
		if s.Rows < 1 || s.Rows > maxGeometry {
			return fmt.Errorf("resize rows %d out of range [1,%d]", s.Rows, maxGeometry)
		}
	case StepMouseClick:
		if s.Button == "" {
			return fmt.Errorf("mouse_click requires button")
		}
	case StepMouseScroll:
		if s.Direction != "up" && s.Direction != "down" {
			return fmt.Errorf("mouse_scroll requires direction up or down")
		}
	case StepAssertScreen, StepAssertNotScreen:
		if s.Regex == "" {
			return fmt.Errorf("%s requires regex", s.Action)
		}
	case StepAssertCursor:
		// Row/Col default to 0, a legitimate target, so nothing to check.
	case StepSnapshot:
		if s.Name == "" {
			return fmt.Errorf("snapshot requires name")
		}
	case StepTakeScreenshot, StepAssertScreenshot:
		if s.Path == "" {
			return fmt.Errorf("%s requires path", s.Action)
		}
	case StepCheckInvariant:
		if s.InvariantName == "" {
			return fmt.Errorf("check_invariant requires invariant_name")
		}
	default:
		return fmt.Errorf("unknown step action %q", s.Action)
	}
	return nil
}
