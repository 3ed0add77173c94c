package screen

import (
	"strings"
	"testing"

	"bte/internal/vtparser"
)

func feed(s *Screen, input string) {
	p := vtparser.NewParser()
	p.Advance(s, []byte(input))
}

func TestPrintAndWrap(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "abcdef")
	if got := s.Cell(0, 4).Rune; got != 'e' {
		t.Fatalf("cell(0,4) = %q, want 'e'", got)
	}
	if got := s.Cell(1, 0).Rune; got != 'f' {
		t.Fatalf("wrapped cell(1,0) = %q, want 'f'", got)
	}
	if s.Cursor().Col != 1 || s.Cursor().Row != 1 {
		t.Fatalf("cursor = %+v", s.Cursor())
	}
}

func TestCUPClampsToBounds(t *testing.T) {
	s := New(Config{Rows: 5, Cols: 5})
	feed(s, "\x1b[100;100H")
	c := s.Cursor()
	if c.Row != 4 || c.Col != 4 {
		t.Fatalf("cursor = %+v, want clamped to (4,4)", c)
	}
}

func TestCUPBareDefaultsToHome(t *testing.T) {
	s := New(Config{Rows: 5, Cols: 5})
	feed(s, "\x1b[5;5H\x1b[H")
	c := s.Cursor()
	if c.Row != 0 || c.Col != 0 {
		t.Fatalf("cursor = %+v, want (0,0)", c)
	}
}

func TestSGRSemicolonTrueColor(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "\x1b[38;2;10;20;30mX")
	c := s.Cell(0, 0)
	if c.Pen.Fg.Kind != ColorRGB || c.Pen.Fg.R != 10 || c.Pen.Fg.G != 20 || c.Pen.Fg.B != 30 {
		t.Fatalf("fg = %+v", c.Pen.Fg)
	}
}

func TestSGRColonTrueColor(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "\x1b[38:2::10:20:30mX")
	c := s.Cell(0, 0)
	if c.Pen.Fg.Kind != ColorRGB || c.Pen.Fg.R != 10 || c.Pen.Fg.G != 20 || c.Pen.Fg.B != 30 {
		t.Fatalf("fg = %+v", c.Pen.Fg)
	}
}

func TestSGR256Color(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "\x1b[48;5;200mX")
	c := s.Cell(0, 0)
	if c.Pen.Bg.Kind != Color256 || c.Pen.Bg.Index != 200 {
		t.Fatalf("bg = %+v", c.Pen.Bg)
	}
}

func TestSGRResetAndBold(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "\x1b[1;31mX\x1b[0mY")
	first := s.Cell(0, 0)
	second := s.Cell(0, 1)
	if !first.Pen.Attrs.Bold || first.Pen.Fg.Kind != Color16 || first.Pen.Fg.Index != 1 {
		t.Fatalf("first pen = %+v", first.Pen)
	}
	if second.Pen != DefaultPen {
		t.Fatalf("second pen = %+v, want default", second.Pen)
	}
}

func TestDECSCDECRCRoundTrip(t *testing.T) {
	s := New(Config{Rows: 5, Cols: 10})
	feed(s, "\x1b[1m\x1b[?6h\x1b[?7l\x1b[3;4H\x1b7")
	feed(s, "\x1b[1;1H\x1b[0m\x1b[?6l\x1b[?7h")
	feed(s, "\x1b8")
	c := s.Cursor()
	if c.Row != 2 || c.Col != 3 {
		t.Fatalf("cursor after DECRC = %+v, want (2,3)", c)
	}
	if !s.Pen().Attrs.Bold {
		t.Fatalf("pen not restored: %+v", s.Pen())
	}
	if !s.GetModes().Origin || s.GetModes().Autowrap {
		t.Fatalf("modes not restored: %+v", s.GetModes())
	}
}

func TestClearFillIsHashIdenticalToFresh(t *testing.T) {
	s := New(Config{Rows: 4, Cols: 8})
	feed(s, "hello\x1b[1;1H\x1b[2J")
	fresh := New(Config{Rows: 4, Cols: 8})
	if s.Hash() != fresh.Hash() {
		t.Fatalf("cleared screen hash %d != fresh screen hash %d", s.Hash(), fresh.Hash())
	}
}

func TestHashDependsOnContent(t *testing.T) {
	a := New(Config{Rows: 2, Cols: 4})
	b := New(Config{Rows: 2, Cols: 4})
	feed(a, "x")
	if a.Hash() == b.Hash() {
		t.Fatalf("distinct screens hashed identically")
	}
}

func TestScrollbackOnPrintInducedScroll(t *testing.T) {
	s := New(Config{Rows: 2, Cols: 5, ScrollbackCapacity: 10})
	feed(s, "line1\r\nline2\r\nline3")
	sb := s.Scrollback()
	if len(sb) != 1 {
		t.Fatalf("expected 1 scrollback row, got %d", len(sb))
	}
	got := strings.TrimRight(cellsToString(sb[0]), " ")
	if got != "line1" {
		t.Fatalf("scrollback row = %q, want %q", got, "line1")
	}
}

func cellsToString(cells []Cell) string {
	var sb strings.Builder
	for _, c := range cells {
		if c.WideContinuation {
			continue
		}
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func TestAltScreenPreservesPrimary(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "primary")
	feed(s, "\x1b[?1049h")
	feed(s, "altbuf")
	if got := s.RenderText(); !strings.Contains(got, "altbu") {
		t.Fatalf("alt screen content missing: %q", got)
	}
	feed(s, "\x1b[?1049l")
	if got := s.Cell(0, 0).Rune; got != 'p' {
		t.Fatalf("primary not restored: got %q", got)
	}
}

func TestAltScreenNeverFeedsScrollback(t *testing.T) {
	s := New(Config{Rows: 2, Cols: 5, ScrollbackCapacity: 10})
	feed(s, "\x1b[?1049h")
	feed(s, "a\r\nb\r\nc")
	if len(s.Scrollback()) != 0 {
		t.Fatalf("alt screen scroll fed scrollback: %v", s.Scrollback())
	}
}

func TestEraseInLine(t *testing.T) {
	s := New(Config{Rows: 1, Cols: 5})
	feed(s, "abcde\x1b[3G\x1b[K")
	got := s.RenderText()
	if got != "ab" {
		t.Fatalf("render = %q, want %q", got, "ab")
	}
}

func TestCursorBoundsInvariantAfterOperations(t *testing.T) {
	s := New(Config{Rows: 4, Cols: 4})
	feed(s, "\x1b[10;10H\x1b[2A\x1b[100C\x1b[100B")
	c := s.Cursor()
	if c.Row < 0 || c.Row >= s.Rows || c.Col < 0 || c.Col > s.Cols {
		t.Fatalf("cursor out of bounds: %+v", c)
	}
}

func TestResizeColsHardTruncates(t *testing.T) {
	s := New(Config{Rows: 2, Cols: 10})
	feed(s, "0123456789")
	s.Resize(2, 5)
	if got := s.RenderText(); got != "01234" {
		t.Fatalf("render after shrink = %q", got)
	}
}

func TestResizeRowsShrinkPushesScrollback(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5, ScrollbackCapacity: 10})
	feed(s, "a\r\n\x1b[2;1Hb\r\n\x1b[3;1Hc")
	s.Resize(1, 5)
	if len(s.Scrollback()) == 0 {
		t.Fatalf("expected rows dropped by shrink to enter scrollback")
	}
}

func TestDirtyTrackingTakeClears(t *testing.T) {
	s := New(Config{Rows: 3, Cols: 5})
	feed(s, "x")
	dirty := s.TakeDirty()
	if len(dirty) == 0 {
		t.Fatalf("expected dirty rows after print")
	}
	if again := s.TakeDirty(); len(again) != 0 {
		t.Fatalf("expected dirty set cleared, got %v", again)
	}
}

func TestRenderTextTrimsTrailingBlankRows(t *testing.T) {
	s := New(Config{Rows: 4, Cols: 5})
	feed(s, "hi")
	got := s.RenderText()
	if got != "hi" {
		t.Fatalf("render = %q, want %q", got, "hi")
	}
}

func TestWideCharacterOccupiesTwoCells(t *testing.T) {
	s := New(Config{Rows: 2, Cols: 5})
	feed(s, "中") // CJK, width 2
	if !s.Cell(0, 1).WideContinuation {
		t.Fatalf("expected wide continuation at (0,1)")
	}
	if s.Cursor().Col != 2 {
		t.Fatalf("cursor col = %d, want 2", s.Cursor().Col)
	}
}

func TestCombiningMarkMergesIntoPreviousCell(t *testing.T) {
	s := New(Config{Rows: 2, Cols: 10})
	feed(s, "é") // 'e' + combining acute accent (NFD é)
	c := s.Cell(0, 0)
	if c.Rune != 'e' || len(c.Combining) != 1 || c.Combining[0] != '́' {
		t.Fatalf("cell = %+v", c)
	}
	if s.Cursor().Col != 1 {
		t.Fatalf("cursor col = %d, want 1 (combining mark must not advance)", s.Cursor().Col)
	}
}
