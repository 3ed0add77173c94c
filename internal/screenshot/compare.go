package screenshot

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"bte/internal/scenario"
)

// colorDistanceThreshold is how far apart two RGB colors may be (in
// go-colorful's perceptual Lab space) before they count as a difference;
// chosen loosely enough to tolerate palette quantization noise between
// captures of the same content.
const colorDistanceThreshold = 0.05

// CompareOptions selects which axes assert_screenshot checks and which
// regions are excluded (spec §4.5).
type CompareOptions struct {
	CompareColors bool
	CompareText   bool
	IgnoreRegions []scenario.Region
}

// Diff is one cell that differed between baseline and actual.
type Diff struct {
	Row, Col int
	Reason   string
}

// Compare returns every cell difference between baseline and actual
// outside opts.IgnoreRegions, restricted to the axes opts selects. If
// neither CompareColors nor CompareText is set, both are checked (the
// natural default for "compare the screenshot").
func Compare(baseline, actual *Screenshot, opts CompareOptions) ([]Diff, error) {
	if baseline.Rows != actual.Rows || baseline.Cols != actual.Cols {
		return nil, fmt.Errorf("screenshot: geometry mismatch: baseline %dx%d, actual %dx%d",
			baseline.Rows, baseline.Cols, actual.Rows, actual.Cols)
	}
	checkText, checkColors := opts.CompareText, opts.CompareColors
	if !checkText && !checkColors {
		checkText, checkColors = true, true
	}

	var diffs []Diff
	for row := 0; row < baseline.Rows; row++ {
		for col := 0; col < baseline.Cols; col++ {
			if inAnyRegion(row, col, opts.IgnoreRegions) {
				continue
			}
			b, a := baseline.at(row, col), actual.at(row, col)
			if checkText && !runesEqual(b, a) {
				diffs = append(diffs, Diff{Row: row, Col: col, Reason: "text"})
				continue
			}
			if checkColors && !colorsClose(b, a) {
				diffs = append(diffs, Diff{Row: row, Col: col, Reason: "color"})
			}
		}
	}
	return diffs, nil
}

func runesEqual(a, b CellSnapshot) bool {
	if a.Rune != b.Rune || len(a.Combining) != len(b.Combining) {
		return false
	}
	for i := range a.Combining {
		if a.Combining[i] != b.Combining[i] {
			return false
		}
	}
	return true
}

func colorsClose(a, b CellSnapshot) bool {
	return colorClose(a.Fg, b.Fg) && colorClose(a.Bg, b.Bg)
}

func colorClose(a, b ColorSnapshot) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind != int(rgbKind) {
		return a.Index == b.Index
	}
	ca := colorful.Color{R: float64(a.R) / 255, G: float64(a.G) / 255, B: float64(a.B) / 255}
	cb := colorful.Color{R: float64(b.R) / 255, G: float64(b.G) / 255, B: float64(b.B) / 255}
	return ca.DistanceLab(cb) <= colorDistanceThreshold
}

// rgbKind mirrors screen.ColorRGB without importing the screen package's
// enum type into a field declared as plain int for serialization
// stability; kept in sync by the ColorKind ordering (Default, 16, 256, RGB).
const rgbKind = 3

func inAnyRegion(row, col int, regions []scenario.Region) bool {
	for _, r := range regions {
		if row >= r.Row && row < r.Row+r.Rows && col >= r.Col && col < r.Col+r.Cols {
			return true
		}
	}
	return false
}
