package screen

// scrollUp shifts rows [top, bottom] up by n, evicting the top n rows
// (pushed to scrollback when the alt screen is inactive, per spec §4.2)
// and clearing the n rows newly exposed at the bottom.
func (s *Screen) scrollUp(top, bottom, n int) {
	if n <= 0 || top > bottom {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	g := s.activeGrid()
	for i := 0; i < n; i++ {
		s.pushScrollback(s.rowSlice(g, top+i))
	}
	for row := top; row+n <= bottom; row++ {
		copy(s.rowSlice(g, row), s.rowSlice(g, row+n))
	}
	for row := bottom - n + 1; row <= bottom; row++ {
		s.clearRow(row, s.pen)
	}
	for row := top; row <= bottom; row++ {
		s.markDirty(row)
	}
}

// scrollDown shifts rows [top, bottom] down by n, clearing the n rows
// newly exposed at the top. Rows scrolled off the bottom are discarded;
// SD never feeds scrollback.
func (s *Screen) scrollDown(top, bottom, n int) {
	if n <= 0 || top > bottom {
		return
	}
	if n > bottom-top+1 {
		n = bottom - top + 1
	}
	g := s.activeGrid()
	for row := bottom; row-n >= top; row-- {
		copy(s.rowSlice(g, row), s.rowSlice(g, row-n))
	}
	for row := top; row < top+n && row <= bottom; row++ {
		s.clearRow(row, s.pen)
	}
	for row := top; row <= bottom; row++ {
		s.markDirty(row)
	}
}

func (s *Screen) clearRow(row int, pen Pen) {
	g := s.activeGrid()
	r := s.rowSlice(g, row)
	for i := range r {
		r[i] = Cell{Pen: pen}
	}
	s.markDirty(row)
}

// wrapToNextLine moves the cursor to the start of the following line,
// scrolling the active region if already at its bottom.
func (s *Screen) wrapToNextLine() {
	bottom := s.scrollBottom
	if s.cursor.Row >= bottom {
		s.scrollUp(s.scrollTop, s.scrollBottom, 1)
		s.cursor.Row = bottom
	} else {
		s.cursor.Row++
	}
	s.cursor.Col = 0
	s.cursor.PendingWrap = false
}
