package screen

import "bte/internal/vtparser"

var _ vtparser.Performer = (*Screen)(nil)

// Execute implements vtparser.Performer for C0/C1 control bytes relevant
// to cursor motion (spec §4.2).
func (s *Screen) Execute(b byte) {
	switch b {
	case '\r':
		s.cursor.Col = 0
		s.cursor.PendingWrap = false
	case '\n', '\v', '\f':
		s.lineFeed()
	case '\b':
		if s.cursor.Col > 0 {
			s.cursor.Col--
			s.cursor.PendingWrap = false
		}
	case '\t':
		s.tab()
	}
}

func (s *Screen) lineFeed() {
	s.cursor.PendingWrap = false
	if s.cursor.Row >= s.scrollBottom {
		s.scrollUp(s.scrollTop, s.scrollBottom, 1)
	} else {
		s.cursor.Row++
	}
}

func (s *Screen) tab() {
	const stop = 8
	next := ((s.cursor.Col / stop) + 1) * stop
	if next >= s.Cols {
		next = s.Cols - 1
	}
	s.cursor.Col = next
}

// CSIDispatch implements vtparser.Performer, routing a completed CSI
// sequence to the matching screen operation (spec §4.2).
func (s *Screen) CSIDispatch(params []vtparser.Param, intermediates []byte, final byte, ignoredExcess bool) {
	ip := intParams(params)
	private := hasByte(intermediates, '?')
	switch final {
	case 'H', 'f':
		s.cup(ip)
	case 'A':
		s.cuu(paramAt(ip, 0))
	case 'B':
		s.cud(paramAt(ip, 0))
	case 'C':
		s.cuf(paramAt(ip, 0))
	case 'D':
		s.cub(paramAt(ip, 0))
	case 'E':
		s.cnl(paramAt(ip, 0))
	case 'F':
		s.cpl(paramAt(ip, 0))
	case 'G', '`':
		s.cha(paramAt(ip, 0))
	case 'J':
		s.ed(paramAt(ip, 0))
	case 'K':
		s.el(paramAt(ip, 0))
	case '@':
		s.ich(paramAt(ip, 0))
	case 'P':
		s.dch(paramAt(ip, 0))
	case 'L':
		s.il(paramAt(ip, 0))
	case 'M':
		s.dl(paramAt(ip, 0))
	case 'S':
		s.su(paramAt(ip, 0))
	case 'T':
		s.sd(paramAt(ip, 0))
	case 'm':
		s.sgr(params)
	case 'r':
		s.setScrollRegion(paramAt(ip, 0), paramAt(ip, 1))
	case 'h':
		if private {
			s.decset(ip, true)
		}
	case 'l':
		if private {
			s.decset(ip, false)
		}
	}
}

// EscDispatch implements vtparser.Performer for bare ESC sequences.
func (s *Screen) EscDispatch(intermediates []byte, final byte, ignoredExcess bool) {
	switch final {
	case '7':
		s.decsc()
	case '8':
		s.decrc()
	case 'D':
		s.lineFeed()
	case 'E':
		s.cursor.Col = 0
		s.lineFeed()
	case 'M':
		if s.cursor.Row <= s.scrollTop {
			s.scrollDown(s.scrollTop, s.scrollBottom, 1)
		} else {
			s.cursor.Row--
		}
	case 'c':
		s.reset()
	}
}

// reset implements RIS (ESC c): the screen returns to its just-constructed
// state, geometry unchanged.
func (s *Screen) reset() {
	*s = *New(Config{Rows: s.Rows, Cols: s.Cols, ScrollbackCapacity: s.scrollbackMax, DisableDirtyTracking: !s.dirtyTrackingEnabled})
}

func (s *Screen) OSCStart() {
	s.oscActive = true
	s.oscBuf = s.oscBuf[:0]
}

func (s *Screen) OSCPut(b byte) {
	if s.oscActive {
		s.oscBuf = append(s.oscBuf, b)
	}
}

func (s *Screen) OSCEnd() {
	s.oscActive = false
}

// LastOSC returns the most recently completed OSC payload (everything
// between "ESC ]" and its terminator). No part of the engine answers OSC
// queries from it.
func (s *Screen) LastOSC() string { return string(s.oscBuf) }

func (s *Screen) DCSHook(params []vtparser.Param, intermediates []byte, final byte, ignoredExcess bool) {
	s.dcsActive = true
}
func (s *Screen) DCSPut(b byte) {}
func (s *Screen) DCSUnhook()    { s.dcsActive = false }

func (s *Screen) APCStart()     { s.apcActive = true }
func (s *Screen) APCPut(b byte) {}
func (s *Screen) APCEnd()       { s.apcActive = false }

func intParams(params []vtparser.Param) []int {
	out := make([]int, len(params))
	for i, p := range params {
		out[i] = int(p.Value())
	}
	return out
}

func paramAt(params []int, i int) int {
	if i < 0 || i >= len(params) {
		return 0
	}
	return params[i]
}

func hasByte(b []byte, target byte) bool {
	for _, x := range b {
		if x == target {
			return true
		}
	}
	return false
}
