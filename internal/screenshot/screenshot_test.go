package screenshot

import (
	"path/filepath"
	"testing"

	"bte/internal/scenario"
	"bte/internal/screen"
	"bte/internal/vtparser"
)

func sampleScreen(t *testing.T) *screen.Screen {
	t.Helper()
	s := screen.New(screen.Config{Rows: 2, Cols: 5})
	vtparser.NewParser().Advance(s, []byte("\x1b[38;2;255;0;0mhi"))
	return s
}

func TestCaptureAndSaveLoadRoundTrip(t *testing.T) {
	shot := Capture(sampleScreen(t))
	path := filepath.Join(t.TempDir(), "baseline.yaml")
	if err := Save(path, shot); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Rows != shot.Rows || loaded.Cols != shot.Cols {
		t.Fatalf("geometry mismatch after round-trip")
	}
	if loaded.at(0, 0).Rune != 'h' {
		t.Fatalf("cell(0,0) = %+v, want rune 'h'", loaded.at(0, 0))
	}
}

func TestCompareIdenticalScreenshotsHaveNoDiffs(t *testing.T) {
	shot := Capture(sampleScreen(t))
	diffs, err := Compare(shot, shot, CompareOptions{})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(diffs) != 0 {
		t.Fatalf("expected no diffs, got %v", diffs)
	}
}

func TestCompareDetectsTextDifference(t *testing.T) {
	baseline := Capture(sampleScreen(t))
	s := screen.New(screen.Config{Rows: 2, Cols: 5})
	vtparser.NewParser().Advance(s, []byte("\x1b[38;2;255;0;0mXY"))
	actual := Capture(s)

	diffs, err := Compare(baseline, actual, CompareOptions{CompareText: true})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(diffs) == 0 {
		t.Fatalf("expected text diffs")
	}
}

func TestCompareHonorsIgnoreRegions(t *testing.T) {
	baseline := Capture(sampleScreen(t))
	s := screen.New(screen.Config{Rows: 2, Cols: 5})
	vtparser.NewParser().Advance(s, []byte("\x1b[38;2;255;0;0mXY"))
	actual := Capture(s)

	diffs, err := Compare(baseline, actual, CompareOptions{
		CompareText:   true,
		IgnoreRegions: []scenario.Region{{Row: 0, Col: 0, Rows: 2, Cols: 5}},
	})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if len(diffs) != 0 {
		t.Fatalf("expected diffs to be masked by ignore region, got %v", diffs)
	}
}

func TestCompareRejectsGeometryMismatch(t *testing.T) {
	baseline := Capture(sampleScreen(t))
	other := Capture(screen.New(screen.Config{Rows: 3, Cols: 5}))
	if _, err := Compare(baseline, other, CompareOptions{}); err == nil {
		t.Fatalf("expected geometry mismatch error")
	}
}
