// Package scenario defines the value types the engine consumes: the
// scenario, its steps and invariants, each a closed tagged-variant type
// per spec §9 ("sum types over inheritance"). Parsing scenario files is
// out of scope (spec §1); this package only carries already-validated
// values plus the Validate check the loader runs before handing a
// Scenario to the runtime.
package scenario

import "fmt"

// Command is the program to launch: either {Program, Args} or a Shell
// string to be split by the loader (spec §6).
type Command struct {
	Program string   `yaml:"program,omitempty" json:"program,omitempty"`
	Args    []string `yaml:"args,omitempty" json:"args,omitempty"`
	Shell   string   `yaml:"shell,omitempty" json:"shell,omitempty"`
}

// Terminal is the initial PTY geometry.
type Terminal struct {
	Cols int `yaml:"cols,omitempty" json:"cols,omitempty"`
	Rows int `yaml:"rows,omitempty" json:"rows,omitempty"`
}

// DefaultTerminal is used when a scenario omits terminal geometry.
var DefaultTerminal = Terminal{Cols: 80, Rows: 24}

const maxGeometry = 2000

// Scenario is one complete test declaration (spec §3 "Scenario").
type Scenario struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Command     Command           `yaml:"command" json:"command"`
	Terminal    Terminal          `yaml:"terminal,omitempty" json:"terminal,omitempty"`
	Env         map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Steps       []Step            `yaml:"steps" json:"steps"`
	Invariants  []Invariant       `yaml:"invariants,omitempty" json:"invariants,omitempty"`
	Seed        *uint64           `yaml:"seed,omitempty" json:"seed,omitempty"`
	TimeoutMs   int64             `yaml:"timeout_ms,omitempty" json:"timeout_ms,omitempty"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// Validate checks the structural invariants spec §6 places on a scenario
// before it reaches the runtime: geometry bounds, a resolvable command,
// and at least one step.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario: name is required")
	}
	if s.Command.Program == "" && s.Command.Shell == "" {
		return fmt.Errorf("scenario %q: command requires program or shell", s.Name)
	}
	term := s.Terminal
	if term.Cols == 0 && term.Rows == 0 {
		term = DefaultTerminal
	}
	if term.Cols < 1 || term.Cols > maxGeometry {
		return fmt.Errorf("scenario %q: terminal.cols %d out of range [1,%d]", s.Name, term.Cols, maxGeometry)
	}
	if term.Rows < 1 || term.Rows > maxGeometry {
		return fmt.Errorf("scenario %q: terminal.rows %d out of range [1,%d]", s.Name, term.Rows, maxGeometry)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q: at least one step is required", s.Name)
	}
	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("scenario %q: step %d: %w", s.Name, i, err)
		}
	}
	for i, inv := range s.Invariants {
		if err := inv.validate(); err != nil {
			return fmt.Errorf("scenario %q: invariant %d: %w", s.Name, i, err)
		}
	}
	return nil
}

// ResolvedTerminal returns the scenario's terminal geometry, defaulted.
func (s *Scenario) ResolvedTerminal() Terminal {
	if s.Terminal.Cols == 0 && s.Terminal.Rows == 0 {
		return DefaultTerminal
	}
	return s.Terminal
}
