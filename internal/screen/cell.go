// Package screen implements the cell-grid terminal model driven by
// vtparser events: cursor motion, SGR pen state, scroll regions, alt
// screen, scrollback, dirty tracking, and a deterministic state hash
// (spec §4.2).
package screen

// ColorKind distinguishes how a Color's value should be interpreted.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	Color16
	Color256
	ColorRGB
)

// Color is a foreground or background color carrying an encoding tag so
// "terminal default" is a real, distinct value rather than a concrete RGB.
type Color struct {
	Kind ColorKind
	// Index holds the 0-15 or 0-255 palette index for Color16/Color256.
	Index uint8
	R, G, B uint8
}

// DefaultColor is the sentinel "use the terminal's default" color.
var DefaultColor = Color{Kind: ColorDefault}

// Attrs are the boolean text-rendition flags a pen can carry.
type Attrs struct {
	Bold          bool
	Faint         bool
	Italic        bool
	Underline     bool
	Blink         bool
	Inverse       bool
	Hidden        bool
	Strikethrough bool
}

// Pen is the active graphic-rendition state that new cells are stamped
// with: SGR accumulates into a Pen, and printing copies it onto a Cell.
type Pen struct {
	Fg    Color
	Bg    Color
	Attrs Attrs
}

// DefaultPen is the pen state after SGR 0 or at program start.
var DefaultPen = Pen{Fg: DefaultColor, Bg: DefaultColor}

// Cell is a single screen position. The zero value is "blank, default
// colors" per spec §3.
type Cell struct {
	Rune  rune
	Pen   Pen
	// WideContinuation marks the right half of a wide (2-cell) character;
	// it carries no glyph of its own.
	WideContinuation bool
	// Combining holds zero-width combining marks merged into this cell
	// rather than occupying cells of their own.
	Combining []rune
}

// Blank reports whether the cell is a default, empty cell.
func (c Cell) Blank() bool {
	return c.Rune == 0 && !c.WideContinuation && len(c.Combining) == 0 && c.Pen == DefaultPen
}

// blankCell is the zero value, named for readability at call sites.
var blankCell = Cell{Pen: DefaultPen}
