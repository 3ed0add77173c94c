// Package screenshot persists and compares serialized screen captures
// (spec §4.5 take_screenshot/assert_screenshot, §6 "a serialized screen
// ... this engine writes and reads but does not define compression or
// binary layout here"). Shape follows the teacher's config.Load/Save
// yaml-tagged-struct pair.
package screenshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"bte/internal/screen"
)

// CellSnapshot is one rendered cell, flattened to the fields a comparison
// needs; it deliberately mirrors screen.Cell/screen.Pen rather than
// embedding them, so the on-disk format doesn't shift every time the
// live screen model's internals change.
type CellSnapshot struct {
	Rune       rune        `yaml:"rune"`
	Combining  []rune      `yaml:"combining,omitempty"`
	Fg         ColorSnapshot `yaml:"fg"`
	Bg         ColorSnapshot `yaml:"bg"`
	Bold       bool        `yaml:"bold,omitempty"`
	Underline  bool        `yaml:"underline,omitempty"`
	Inverse    bool        `yaml:"inverse,omitempty"`
}

// ColorSnapshot is the serializable form of screen.Color.
type ColorSnapshot struct {
	Kind  int  `yaml:"kind"`
	Index uint8 `yaml:"index,omitempty"`
	R     uint8 `yaml:"r,omitempty"`
	G     uint8 `yaml:"g,omitempty"`
	B     uint8 `yaml:"b,omitempty"`
}

// Screenshot is a full-screen capture: geometry, every cell, and cursor
// position, addressed on disk by path.
type Screenshot struct {
	Rows       int            `yaml:"rows"`
	Cols       int            `yaml:"cols"`
	Cells      []CellSnapshot `yaml:"cells"`
	CursorRow  int            `yaml:"cursor_row"`
	CursorCol  int            `yaml:"cursor_col"`
}

// Capture builds a Screenshot from the live screen.
func Capture(s *screen.Screen) *Screenshot {
	shot := &Screenshot{Rows: s.Rows, Cols: s.Cols, Cells: make([]CellSnapshot, 0, s.Rows*s.Cols)}
	for row := 0; row < s.Rows; row++ {
		for col := 0; col < s.Cols; col++ {
			c := s.Cell(row, col)
			shot.Cells = append(shot.Cells, CellSnapshot{
				Rune:      c.Rune,
				Combining: c.Combining,
				Fg:        colorSnapshot(c.Pen.Fg),
				Bg:        colorSnapshot(c.Pen.Bg),
				Bold:      c.Pen.Attrs.Bold,
				Underline: c.Pen.Attrs.Underline,
				Inverse:   c.Pen.Attrs.Inverse,
			})
		}
	}
	cur := s.Cursor()
	shot.CursorRow, shot.CursorCol = cur.Row, cur.Col
	return shot
}

func colorSnapshot(c screen.Color) ColorSnapshot {
	return ColorSnapshot{Kind: int(c.Kind), Index: c.Index, R: c.R, G: c.G, B: c.B}
}

func (s *Screenshot) at(row, col int) CellSnapshot {
	return s.Cells[row*s.Cols+col]
}

// Save writes shot to path as YAML.
func Save(path string, shot *Screenshot) error {
	data, err := yaml.Marshal(shot)
	if err != nil {
		return fmt.Errorf("screenshot: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("screenshot: write %s: %w", path, err)
	}
	return nil
}

// Load reads a Screenshot baseline from path.
func Load(path string) (*Screenshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("screenshot: read %s: %w", path, err)
	}
	var shot Screenshot
	if err := yaml.Unmarshal(data, &shot); err != nil {
		return nil, fmt.Errorf("screenshot: parse %s: %w", path, err)
	}
	return &shot, nil
}
