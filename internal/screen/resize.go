package screen

// Resize changes the screen geometry per the chosen reflow policy (spec
// §9 open question, resolved as hard truncation): rows that no longer
// fit are dropped from the bottom into scrollback; columns that no
// longer fit are hard-truncated with no reflow. The cursor is clamped
// into the new bounds.
func (s *Screen) Resize(rows, cols int) {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	if rows == s.Rows && cols == s.Cols {
		return
	}

	newGridCells := make([]Cell, rows*cols)
	for i := range newGridCells {
		newGridCells[i] = blankCell
	}
	copyRows := min(rows, s.Rows)
	copyCols := min(cols, s.Cols)
	for r := 0; r < copyRows; r++ {
		src := s.grid[r*s.Cols : r*s.Cols+copyCols]
		dst := newGridCells[r*cols : r*cols+copyCols]
		copy(dst, src)
	}
	if rows < s.Rows && !s.modes.AltScreen {
		for r := rows; r < s.Rows; r++ {
			s.pushScrollback(s.rowSlice(s.grid, r))
		}
	}
	s.grid = newGridCells

	if s.altGrid != nil {
		newAlt := make([]Cell, rows*cols)
		for i := range newAlt {
			newAlt[i] = blankCell
		}
		for r := 0; r < copyRows; r++ {
			src := s.altGrid[r*s.Cols : r*s.Cols+copyCols]
			dst := newAlt[r*cols : r*cols+copyCols]
			copy(dst, src)
		}
		s.altGrid = newAlt
	}

	s.Rows, s.Cols = rows, cols
	if s.scrollBottom >= s.Rows {
		s.scrollBottom = s.Rows - 1
	}
	if s.scrollTop > s.scrollBottom {
		s.scrollTop = 0
	}
	s.clampCursorToBounds()
	if s.dirtyTrackingEnabled {
		s.dirty = make(map[int]struct{})
	}
	for r := 0; r < s.Rows; r++ {
		s.markDirty(r)
	}
}
