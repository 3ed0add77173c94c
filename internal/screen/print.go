package screen

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Print implements vtparser.Performer: it writes a decoded scalar at the
// cursor, handling wide characters, combining marks, and pending-wrap
// (spec §4.2 "Cursor motion").
func (s *Screen) Print(r rune) {
	if s.isCombiningMark(r) {
		s.mergeCombining(r)
		return
	}
	s.lastRune = r

	width := runewidth.RuneWidth(r)
	if width == 0 {
		width = 1
	}

	if s.cursor.PendingWrap {
		s.wrapToNextLine()
	}
	if width == 2 && s.cursor.Col == s.Cols-1 {
		// Only one cell remains on the row; wrap before placing a wide
		// character that needs two (spec §4.2).
		s.wrapToNextLine()
	}

	row, col := s.cursor.Row, s.cursor.Col
	s.setCell(row, col, Cell{Rune: r, Pen: s.pen})
	if width == 2 && col+1 < s.Cols {
		s.setCell(row, col+1, Cell{WideContinuation: true, Pen: s.pen})
	}

	s.cursor.Col += width
	if s.cursor.Col >= s.Cols {
		s.cursor.Col = s.Cols
		s.cursor.PendingWrap = true
	}
}

// isCombiningMark reports whether r joins the same grapheme cluster as
// the previously printed rune, per uniseg's boundary rules, in which
// case it merges into the previous cell instead of advancing the cursor
// (spec §4.2 supplement, e.g. NFD "café").
func (s *Screen) isCombiningMark(r rune) bool {
	if s.lastRune == 0 {
		return false
	}
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(string(s.lastRune)+string(r), -1)
	return utf8.RuneCountInString(cluster) > 1
}

func (s *Screen) mergeCombining(r rune) {
	row := s.cursor.Row
	col := s.cursor.Col - 1
	if s.cursor.PendingWrap {
		col = s.Cols - 1
	}
	if col < 0 {
		return
	}
	g := s.activeGrid()
	if row < 0 || row >= s.Rows || col >= s.Cols {
		return
	}
	c := &g[s.idx(row, col)]
	c.Combining = append(c.Combining, r)
	s.markDirty(row)
}
