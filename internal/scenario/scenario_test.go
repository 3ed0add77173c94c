package scenario

import "testing"

func validScenario() *Scenario {
	return &Scenario{
		Name:    "basic",
		Command: Command{Program: "/bin/echo", Args: []string{"hi"}},
		Steps: []Step{
			{Action: StepWaitFor, Regex: "hi", TimeoutTicks: 10},
		},
	}
}

func TestValidateAcceptsMinimalScenario(t *testing.T) {
	if err := validScenario().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsMissingName(t *testing.T) {
	s := validScenario()
	s.Name = ""
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
}

func TestValidateRejectsMissingCommand(t *testing.T) {
	s := validScenario()
	s.Command = Command{}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for missing command")
	}
}

func TestValidateRejectsOversizedGeometry(t *testing.T) {
	s := validScenario()
	s.Terminal = Terminal{Cols: 999999, Rows: 24}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for oversized geometry")
	}
}

func TestValidateRejectsNoSteps(t *testing.T) {
	s := validScenario()
	s.Steps = nil
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for no steps")
	}
}

func TestValidateRejectsMalformedStep(t *testing.T) {
	s := validScenario()
	s.Steps = []Step{{Action: StepSendKeys}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for send_keys with no keys")
	}
}

func TestValidateRejectsUnknownStepAction(t *testing.T) {
	s := validScenario()
	s.Steps = []Step{{Action: "bogus"}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for unknown step action")
	}
}

func TestValidateRejectsMalformedInvariant(t *testing.T) {
	s := validScenario()
	s.Invariants = []Invariant{{Type: InvariantScreenContains}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for screen_contains with no regex")
	}
}

func TestValidateRejectsCustomInvariantWithoutName(t *testing.T) {
	s := validScenario()
	s.Invariants = []Invariant{{Type: InvariantCustom, Regex: "x"}}
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for custom invariant with no name")
	}
}

func TestResolvedTerminalDefaults(t *testing.T) {
	s := validScenario()
	term := s.ResolvedTerminal()
	if term != DefaultTerminal {
		t.Fatalf("resolved terminal = %+v, want default %+v", term, DefaultTerminal)
	}
}

func TestResolvedTerminalHonorsExplicitGeometry(t *testing.T) {
	s := validScenario()
	s.Terminal = Terminal{Cols: 120, Rows: 40}
	term := s.ResolvedTerminal()
	if term != s.Terminal {
		t.Fatalf("resolved terminal = %+v, want %+v", term, s.Terminal)
	}
}
