package clock

import "time"

// RunnerConfig holds the engine-wide tunables that are not part of any one
// scenario: tick pacing, default timeouts, scrollback capacity, the
// backend read budget and the teardown signal grace. MaxRegexLiterals and
// MaxRegexSize are carried here but the runtime's regex guard does not
// read them; it enforces its own constants. Shaped after benchmarks/runner's flat
// BenchmarkConfig: defaults live in one place, fields are overridden
// individually by callers/tests.
type RunnerConfig struct {
	TickDuration         time.Duration `yaml:"tick_duration_ms"`
	DefaultStepTimeoutMs int64         `yaml:"default_step_timeout_ms"`
	GlobalTimeoutMs      int64         `yaml:"global_timeout_ms"`
	ScrollbackCapacity   int           `yaml:"scrollback_capacity"`
	MaxRegexLiterals     int           `yaml:"max_regex_literals"`
	MaxRegexSize         int           `yaml:"max_regex_size"`
	BackendReadBudget    int           `yaml:"backend_read_budget_bytes"`
	SignalGrace          time.Duration `yaml:"signal_grace_ms"`
}

// DefaultRunnerConfig returns the engine's built-in defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		TickDuration:         DefaultTickDuration,
		DefaultStepTimeoutMs: 5000,
		GlobalTimeoutMs:      60000,
		ScrollbackCapacity:   10000,
		MaxRegexLiterals:     512,
		MaxRegexSize:         4096,
		BackendReadBudget:    65536,
		SignalGrace:          2 * time.Second,
	}
}
