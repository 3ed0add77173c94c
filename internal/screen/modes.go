package screen

// decset applies DECSET (set=true) or DECRST (set=false) for each private
// mode number in params (spec §4.2 "Modes").
func (s *Screen) decset(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 1:
			s.modes.ApplicationCursorKeys = set
		case 6:
			s.modes.Origin = set
			s.moveCursor(s.originTop(), 0)
		case 7:
			s.modes.Autowrap = set
		case 47:
			s.setAltScreen(set, false)
		case 1000:
			s.setMouseMode(set, MouseX10)
		case 1002:
			s.setMouseMode(set, MouseButtonEvent)
		case 1003:
			s.setMouseMode(set, MouseAnyEvent)
		case 1006:
			s.modes.SGRMouse = set
		case 1047:
			s.setAltScreen(set, false)
		case 1049:
			s.setAltScreen(set, true)
		case 2004:
			s.modes.BracketedPaste = set
		}
	}
}

func (s *Screen) setMouseMode(set bool, mode MouseMode) {
	if set {
		s.modes.Mouse = mode
	} else if s.modes.Mouse == mode {
		s.modes.Mouse = MouseOff
	}
}

// setAltScreen switches between the primary and alternate grid. withCursor
// additionally saves/restores the cursor and clears the alt grid on entry,
// matching DECSET 1049's extra behavior over bare 47/1047 (spec §4.2).
func (s *Screen) setAltScreen(enter, withCursor bool) {
	if enter == s.modes.AltScreen {
		return
	}
	if enter {
		if withCursor {
			s.decsc()
		}
		s.primarySnapshot = &primaryState{cursor: s.cursor, saved: s.saved}
		if withCursor || s.altGrid == nil {
			s.altGrid = newGrid(s.Rows, s.Cols)
		}
		s.modes.AltScreen = true
		if withCursor {
			s.cursor = Cursor{Visible: true}
		}
	} else {
		s.modes.AltScreen = false
		if s.primarySnapshot != nil {
			s.cursor = s.primarySnapshot.cursor
			s.saved = s.primarySnapshot.saved
			s.primarySnapshot = nil
		}
		if withCursor {
			s.decrc()
		}
	}
	for r := 0; r < s.Rows; r++ {
		s.markDirty(r)
	}
}

// setScrollRegion implements DECSTBM: params are 1-indexed top/bottom,
// defaulting to the full screen when absent or invalid.
func (s *Screen) setScrollRegion(top, bottom int) {
	if top <= 0 {
		top = 1
	}
	if bottom <= 0 || bottom > s.Rows {
		bottom = s.Rows
	}
	top--
	bottom--
	if top >= bottom {
		top, bottom = 0, s.Rows-1
	}
	s.scrollTop, s.scrollBottom = top, bottom
	s.moveCursor(s.originTop(), 0)
}
