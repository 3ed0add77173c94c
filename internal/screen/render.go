package screen

import "strings"

// RenderText renders the active grid as the "screen text" referenced by
// wait_screen and assert_screen (spec §4.5): rows joined by newline, each
// row right-trimmed of trailing blank cells, trailing all-blank rows
// dropped.
func (s *Screen) RenderText() string {
	lines := make([]string, s.Rows)
	for r := 0; r < s.Rows; r++ {
		lines[r] = s.renderRow(r)
	}
	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}

func (s *Screen) renderRow(row int) string {
	type part struct {
		r         rune
		combining []rune
	}
	parts := make([]part, 0, s.Cols)
	lastNonBlank := -1
	for c := 0; c < s.Cols; c++ {
		cell := s.Cell(row, c)
		if cell.WideContinuation {
			continue
		}
		r := cell.Rune
		if r == 0 {
			r = ' '
		} else {
			lastNonBlank = len(parts)
		}
		parts = append(parts, part{r, cell.Combining})
	}
	var sb strings.Builder
	for i := 0; i <= lastNonBlank && i < len(parts); i++ {
		sb.WriteRune(parts[i].r)
		for _, cm := range parts[i].combining {
			sb.WriteRune(cm)
		}
	}
	return sb.String()
}
