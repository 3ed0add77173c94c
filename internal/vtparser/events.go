// Package vtparser implements the ECMA-48/DEC ANSI state machine described
// in spec.md §4.1: a byte stream goes in, a deterministic sequence of
// high-level parser events comes out through a Performer. The parser never
// fails — every byte in 0x00-0xFF has a defined action in every state.
package vtparser

// MaxParams is the implementation bound on CSI/DCS parameter count. Beyond
// this the parser sets IgnoredExcess but keeps parsing (§4.1 edge policies).
const MaxParams = 32

// MaxSubParams is the bound on colon-delimited sub-parameter items within a
// single parameter slot (SGR sub-parameters like 38:2::R:G:B).
const MaxSubParams = 8

// MaxIntermediates is the implementation bound on intermediate byte count.
const MaxIntermediates = 4

// MaxParamValue is the largest value a single parameter digit run is allowed
// to accumulate to before it is clamped and IgnoredExcess is raised.
const MaxParamValue = 65535

// Param is one CSI/DCS parameter: either a bare integer or, when SGR-style
// colon sub-parameters were present (e.g. "38:2::255:0:0"), an ordered list
// of sub-values. Len() is always >= 1.
type Param struct {
	values [MaxSubParams]int32
	n      int
}

// Len returns the number of sub-values (1 for a plain parameter).
func (p Param) Len() int { return p.n }

// At returns the i'th sub-value, or 0 if i is out of range.
func (p Param) At(i int) int32 {
	if i < 0 || i >= p.n {
		return 0
	}
	return p.values[i]
}

// Value returns the first sub-value, the common case for a plain parameter.
func (p Param) Value() int32 { return p.At(0) }

// Performer is the capability set the parser dispatches events to. The
// screen model implements this interface; the parser holds no reference
// back to it beyond the single Advance call stack (§9 "cyclic references
// avoided").
type Performer interface {
	Print(r rune)
	Execute(b byte)
	CSIDispatch(params []Param, intermediates []byte, final byte, ignoredExcess bool)
	EscDispatch(intermediates []byte, final byte, ignoredExcess bool)
	OSCStart()
	OSCPut(b byte)
	OSCEnd()
	DCSHook(params []Param, intermediates []byte, final byte, ignoredExcess bool)
	DCSPut(b byte)
	DCSUnhook()
	APCStart()
	APCPut(b byte)
	APCEnd()
}

// NopPerformer implements Performer with no-ops, useful as an embeddable
// base for partial implementations and in tests.
type NopPerformer struct{}

func (NopPerformer) Print(rune)                                              {}
func (NopPerformer) Execute(byte)                                            {}
func (NopPerformer) CSIDispatch([]Param, []byte, byte, bool)                 {}
func (NopPerformer) EscDispatch([]byte, byte, bool)                          {}
func (NopPerformer) OSCStart()                                               {}
func (NopPerformer) OSCPut(byte)                                             {}
func (NopPerformer) OSCEnd()                                                 {}
func (NopPerformer) DCSHook([]Param, []byte, byte, bool)                     {}
func (NopPerformer) DCSPut(byte)                                             {}
func (NopPerformer) DCSUnhook()                                              {}
func (NopPerformer) APCStart()                                               {}
func (NopPerformer) APCPut(byte)                                             {}
func (NopPerformer) APCEnd()                                                 {}
