package screen

// MouseMode identifies which mouse-tracking protocol is active, if any.
type MouseMode uint8

const (
	MouseOff MouseMode = iota
	MouseX10           // 1000
	MouseButtonEvent   // 1002
	MouseAnyEvent      // 1003
)

// Modes holds the DECSET/DECRST-controlled boolean and enum state that
// influences how subsequent events are interpreted (spec §4.2 "Modes").
type Modes struct {
	Origin                bool
	Autowrap              bool
	ApplicationCursorKeys bool
	BracketedPaste        bool
	Mouse                 MouseMode
	SGRMouse              bool // 1006
	AltScreen             bool
}

// Cursor is the screen's cursor state. Col may equal Cols exactly, the
// "pending wrap" state (spec §3); it is never greater.
type Cursor struct {
	Row, Col    int
	Visible     bool
	PendingWrap bool
}

// savedCursor captures the DECSC-restorable subset of state (spec §4.2).
type savedCursor struct {
	Row, Col int
	Pen      Pen
	Origin   bool
	Autowrap bool
}

// Screen is a rectangular grid of cells plus all the terminal state that
// parser events mutate (spec §3 "Screen"). It implements vtparser.Performer.
type Screen struct {
	Rows, Cols int

	grid    []Cell // Rows*Cols, row-major
	altGrid []Cell // same shape, used while AltScreen is active

	cursor Cursor
	saved  *savedCursor

	scrollTop, scrollBottom int // inclusive, 0-indexed

	pen   Pen
	modes Modes

	dirtyTrackingEnabled bool
	dirty                map[int]struct{}

	scrollback       [][]Cell
	scrollbackMax    int

	// primarySnapshot holds the primary cursor and saved cursor while the
	// alt screen is active, restored verbatim on exit; the primary cells
	// stay untouched in grid meanwhile (spec §3 invariant).
	primarySnapshot *primaryState

	oscActive bool
	oscBuf    []byte
	dcsActive bool
	apcActive bool

	// lastRune is the most recently printed non-combining scalar, used to
	// detect a following combining mark (spec §4.2 supplement).
	lastRune rune

	// OSCFg/OSCBg are plain stored values; the screen model never sets or
	// reads them, and nothing in the engine answers an OSC 10/11 query from
	// them, consistent with keeping PTY I/O outside this package (spec
	// §4.3 boundary).
	OSCFg, OSCBg string
}

type primaryState struct {
	grid   []Cell
	cursor Cursor
	saved  *savedCursor
}

// Config controls construction-time behavior not covered by geometry.
type Config struct {
	Rows, Cols            int
	ScrollbackCapacity    int
	DisableDirtyTracking  bool
}

// New returns a Screen in its initial state: blank cells, default pen,
// full-height scroll region, autowrap on, cursor visible at (0,0).
func New(cfg Config) *Screen {
	if cfg.Rows <= 0 {
		cfg.Rows = 24
	}
	if cfg.Cols <= 0 {
		cfg.Cols = 80
	}
	s := &Screen{
		Rows:          cfg.Rows,
		Cols:          cfg.Cols,
		grid:          newGrid(cfg.Rows, cfg.Cols),
		scrollTop:     0,
		scrollBottom:  cfg.Rows - 1,
		pen:           DefaultPen,
		modes:         Modes{Autowrap: true},
		cursor:        Cursor{Visible: true},
		scrollbackMax: cfg.ScrollbackCapacity,
	}
	s.dirtyTrackingEnabled = !cfg.DisableDirtyTracking
	if s.dirtyTrackingEnabled {
		s.dirty = make(map[int]struct{})
	}
	return s
}

func newGrid(rows, cols int) []Cell {
	g := make([]Cell, rows*cols)
	for i := range g {
		g[i] = blankCell
	}
	return g
}

func (s *Screen) activeGrid() []Cell {
	if s.modes.AltScreen {
		return s.altGrid
	}
	return s.grid
}

func (s *Screen) idx(row, col int) int { return row*s.Cols + col }

// Cell returns the cell at (row, col); out-of-bounds returns the blank
// cell rather than panicking, since callers (invariant checks, rendering)
// commonly probe near edges.
func (s *Screen) Cell(row, col int) Cell {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return blankCell
	}
	return s.activeGrid()[s.idx(row, col)]
}

func (s *Screen) setCell(row, col int, c Cell) {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return
	}
	s.activeGrid()[s.idx(row, col)] = c
	s.markDirty(row)
}

func (s *Screen) markDirty(row int) {
	if !s.dirtyTrackingEnabled {
		return
	}
	s.dirty[row] = struct{}{}
}

// TakeDirty returns and clears the set of rows mutated since the last
// call, atomically (spec §4.2). When dirty tracking is disabled, it
// always returns the full row range.
func (s *Screen) TakeDirty() []int {
	if !s.dirtyTrackingEnabled {
		rows := make([]int, s.Rows)
		for i := range rows {
			rows[i] = i
		}
		return rows
	}
	rows := make([]int, 0, len(s.dirty))
	for r := range s.dirty {
		rows = append(rows, r)
	}
	s.dirty = make(map[int]struct{})
	return rows
}

// Cursor returns a copy of the current cursor state.
func (s *Screen) Cursor() Cursor { return s.cursor }

// Pen returns a copy of the currently active pen.
func (s *Screen) Pen() Pen { return s.pen }

// GetModes returns a copy of the current mode set.
func (s *Screen) GetModes() Modes { return s.modes }

// ScrollRegion returns the current scroll region, inclusive bounds.
func (s *Screen) ScrollRegion() (top, bottom int) { return s.scrollTop, s.scrollBottom }

// Scrollback returns the accumulated scrollback rows, oldest first.
func (s *Screen) Scrollback() [][]Cell { return s.scrollback }

func (s *Screen) pushScrollback(row []Cell) {
	if s.modes.AltScreen || s.scrollbackMax <= 0 {
		return
	}
	cp := make([]Cell, len(row))
	copy(cp, row)
	s.scrollback = append(s.scrollback, cp)
	if len(s.scrollback) > s.scrollbackMax {
		s.scrollback = s.scrollback[len(s.scrollback)-s.scrollbackMax:]
	}
}

func (s *Screen) rowSlice(g []Cell, row int) []Cell {
	start := s.idx(row, 0)
	return g[start : start+s.Cols]
}

func (s *Screen) clampCursorToBounds() {
	if s.cursor.Row < 0 {
		s.cursor.Row = 0
	}
	if s.cursor.Row >= s.Rows {
		s.cursor.Row = s.Rows - 1
	}
	if s.cursor.Col < 0 {
		s.cursor.Col = 0
	}
	if s.cursor.Col > s.Cols {
		s.cursor.Col = s.Cols
	}
}

// originTop/originBottom return the vertical bounds cursor motion is
// clamped to, honoring origin mode (spec §4.2 "Cursor motion").
func (s *Screen) originTop() int {
	if s.modes.Origin {
		return s.scrollTop
	}
	return 0
}

func (s *Screen) originBottom() int {
	if s.modes.Origin {
		return s.scrollBottom
	}
	return s.Rows - 1
}
