package scenarioyaml

import (
	"os"
	"path/filepath"
	"testing"
)

const minimal = `
name: echo-hi
command:
  shell: "/bin/echo 'hello world'"
steps:
  - action: wait_for
    regex: hello
    timeout_ticks: 20
`

func TestParseSplitsShellCommand(t *testing.T) {
	sc, err := Parse([]byte(minimal))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sc.Command.Program != "/bin/echo" {
		t.Fatalf("program = %q, want /bin/echo", sc.Command.Program)
	}
	if len(sc.Command.Args) != 1 || sc.Command.Args[0] != "hello world" {
		t.Fatalf("args = %#v, want [\"hello world\"]", sc.Command.Args)
	}
	if sc.Command.Shell != "" {
		t.Fatalf("shell field should be cleared after split, got %q", sc.Command.Shell)
	}
}

func TestParseRejectsInvalidScenario(t *testing.T) {
	_, err := Parse([]byte("name: broken\ncommand:\n  program: /bin/true\n"))
	if err == nil {
		t.Fatalf("expected validation error for scenario with no steps")
	}
}

func TestLoadReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(minimal), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	sc, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sc.Name != "echo-hi" {
		t.Fatalf("name = %q", sc.Name)
	}
}

func TestLoadDirCollectsYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.yaml", "b.yml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(minimal), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	scenarios, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("loaded %d scenarios, want 2", len(scenarios))
	}
}
