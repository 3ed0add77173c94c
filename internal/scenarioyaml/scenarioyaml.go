// Package scenarioyaml loads scenario.Scenario values from YAML files,
// the only place in the engine that knows the on-disk scenario format
// (spec §6), grounded on the teacher's config.Load/LoadFrom shape.
package scenarioyaml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"bte/internal/scenario"
)

// Load reads and validates a scenario from path. Command.Shell, if set,
// is split into Program/Args with shell-word semantics (quoting,
// escapes) rather than naive whitespace splitting.
func Load(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenarioyaml: read %s: %w", path, err)
	}
	return Parse(data)
}

// LoadDir reads every *.yaml/*.yml file directly under dir, returning
// one Scenario per file. Used by the run command's directory mode
// (spec §4.5's notion of running many scenarios as one invocation).
func LoadDir(dir string) ([]*scenario.Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scenarioyaml: read dir %s: %w", dir, err)
	}
	var out []*scenario.Scenario
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		sc, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// Parse decodes a scenario from raw YAML bytes, splits any Shell command
// form, and validates the result.
func Parse(data []byte) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scenarioyaml: parse: %w", err)
	}
	if err := splitShellCommand(&sc.Command); err != nil {
		return nil, fmt.Errorf("scenarioyaml: scenario %q: %w", sc.Name, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func splitShellCommand(cmd *scenario.Command) error {
	if cmd.Shell == "" {
		return nil
	}
	argv, err := shlex.Split(cmd.Shell)
	if err != nil {
		return fmt.Errorf("invalid shell command %q: %w", cmd.Shell, err)
	}
	if len(argv) == 0 {
		return fmt.Errorf("shell command %q splits to no words", cmd.Shell)
	}
	cmd.Program = argv[0]
	cmd.Args = argv[1:]
	cmd.Shell = ""
	return nil
}
