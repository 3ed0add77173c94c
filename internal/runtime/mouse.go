package runtime

import "fmt"

var mouseButtonCode = map[string]int{
	"left": 0, "middle": 1, "right": 2, "none": 35,
}

// enableMouseTrackingSeq is the DECSET sequence synthesized before the
// first mouse event when a scenario asks to enable tracking implicitly
// (spec §4.5 mouse_click/mouse_scroll).
const enableMouseTrackingSeq = "\x1b[?1000h\x1b[?1006h"

// sgr1006Click encodes a button press followed by its release, per the
// SGR 1006 mouse protocol (`ESC [ < Cb ; Cx ; Cy M` for press, `...m` for
// release), with row/col converted from the engine's 0-indexed
// coordinates to the protocol's 1-indexed ones.
func sgr1006Click(row, col int, button string) ([]byte, error) {
	code, ok := mouseButtonCode[button]
	if !ok {
		return nil, fmt.Errorf("mouse_click: unknown button %q", button)
	}
	press := fmt.Sprintf("\x1b[<%d;%d;%dM", code, col+1, row+1)
	release := fmt.Sprintf("\x1b[<%d;%d;%dm", code, col+1, row+1)
	return append([]byte(press), []byte(release)...), nil
}

// sgr1006Scroll encodes a wheel event: button 64 for up, 65 for down,
// per the SGR 1006 convention for the wheel buttons.
func sgr1006Scroll(row, col int, direction string) ([]byte, error) {
	var code int
	switch direction {
	case "up":
		code = 64
	case "down":
		code = 65
	default:
		return nil, fmt.Errorf("mouse_scroll: unknown direction %q", direction)
	}
	return []byte(fmt.Sprintf("\x1b[<%d;%d;%dM", code, col+1, row+1)), nil
}
