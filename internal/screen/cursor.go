package screen

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *Screen) moveCursor(row, col int) {
	s.cursor.Row = clamp(row, s.originTop(), s.originBottom())
	s.cursor.Col = clamp(col, 0, s.Cols-1)
	s.cursor.PendingWrap = false
}

// cup handles CUP/HVP: move to (row, col), 1-indexed params, defaulting
// to 1 when absent (spec §4.2 "Cursor motion").
func (s *Screen) cup(params []int) {
	row, col := paramOr(params, 0, 1), paramOr(params, 1, 1)
	s.moveCursor(s.originTop()+row-1, col-1)
}

func (s *Screen) cuu(n int) { s.moveCursor(s.cursor.Row-atLeast1(n), s.cursor.Col) }
func (s *Screen) cud(n int) { s.moveCursor(s.cursor.Row+atLeast1(n), s.cursor.Col) }
func (s *Screen) cuf(n int) { s.moveCursor(s.cursor.Row, s.cursor.Col+atLeast1(n)) }
func (s *Screen) cub(n int) { s.moveCursor(s.cursor.Row, s.cursor.Col-atLeast1(n)) }

func (s *Screen) cnl(n int) { s.moveCursor(s.cursor.Row+atLeast1(n), 0) }
func (s *Screen) cpl(n int) { s.moveCursor(s.cursor.Row-atLeast1(n), 0) }

func (s *Screen) cha(col int) { s.moveCursor(s.cursor.Row, atLeast1(col)-1) }

func atLeast1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func paramOr(params []int, i, def int) int {
	if i >= len(params) || params[i] == 0 {
		return def
	}
	return params[i]
}

// decsc saves {cursor position, pen, origin mode, autowrap flag} per the
// quantified property in spec §8.
func (s *Screen) decsc() {
	s.saved = &savedCursor{
		Row: s.cursor.Row, Col: s.cursor.Col,
		Pen:      s.pen,
		Origin:   s.modes.Origin,
		Autowrap: s.modes.Autowrap,
	}
}

func (s *Screen) decrc() {
	if s.saved == nil {
		return
	}
	s.cursor.Row = s.saved.Row
	s.cursor.Col = s.saved.Col
	s.cursor.PendingWrap = false
	s.pen = s.saved.Pen
	s.modes.Origin = s.saved.Origin
	s.modes.Autowrap = s.saved.Autowrap
}
