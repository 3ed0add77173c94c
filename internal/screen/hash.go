package screen

import (
	"encoding/binary"
	"hash/fnv"
)

// hashSeed is the fixed, non-cryptographic seed mixed into every state
// hash so identical states on two runs always yield identical hashes
// (spec §4.2 "State hash").
var hashSeed = []byte("bte-screen-hash-v1")

// Hash returns a fingerprint over (cursor, pen, every cell) of the active
// grid. It is a pure function of observable state: two screens built
// from the same event stream hash identically.
func (s *Screen) Hash() uint64 {
	h := fnv.New64a()
	h.Write(hashSeed)
	writeInt(h, s.cursor.Row)
	writeInt(h, s.cursor.Col)
	writeBool(h, s.cursor.Visible)
	writeBool(h, s.cursor.PendingWrap)
	writePen(h, s.pen)
	for _, c := range s.activeGrid() {
		writeCell(h, c)
	}
	return h.Sum64()
}

func writeInt(h interface{ Write([]byte) (int, error) }, v int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	h.Write(buf[:])
}

func writeBool(h interface{ Write([]byte) (int, error) }, v bool) {
	if v {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
}

func writeColor(h interface{ Write([]byte) (int, error) }, c Color) {
	h.Write([]byte{byte(c.Kind), c.Index, c.R, c.G, c.B})
}

func writePen(h interface{ Write([]byte) (int, error) }, p Pen) {
	writeColor(h, p.Fg)
	writeColor(h, p.Bg)
	var flags byte
	for i, b := range []bool{
		p.Attrs.Bold, p.Attrs.Faint, p.Attrs.Italic, p.Attrs.Underline,
		p.Attrs.Blink, p.Attrs.Inverse, p.Attrs.Hidden, p.Attrs.Strikethrough,
	} {
		if b {
			flags |= 1 << uint(i)
		}
	}
	h.Write([]byte{flags})
}

func writeCell(h interface{ Write([]byte) (int, error) }, c Cell) {
	writeInt(h, int(c.Rune))
	writeBool(h, c.WideContinuation)
	writePen(h, c.Pen)
	writeInt(h, len(c.Combining))
	for _, r := range c.Combining {
		writeInt(h, int(r))
	}
}
