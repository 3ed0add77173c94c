package runtime

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// expandKeys turns a send_keys string into the literal bytes written to
// the child's stdin: ${Token} placeholders are replaced by their
// canonical escape sequence (spec §4.5, §6); everything else passes
// through as UTF-8 text unchanged.
func expandKeys(keys string, applicationCursorKeys bool) ([]byte, error) {
	var out []byte
	for i := 0; i < len(keys); {
		if keys[i] == '$' && i+1 < len(keys) && keys[i+1] == '{' {
			end := strings.IndexByte(keys[i+2:], '}')
			if end < 0 {
				return nil, fmt.Errorf("send_keys: unterminated ${ in %q", keys)
			}
			token := keys[i+2 : i+2+end]
			seq, err := expandToken(token, applicationCursorKeys)
			if err != nil {
				return nil, err
			}
			out = append(out, seq...)
			i += 2 + end + 1
			continue
		}
		_, size := utf8.DecodeRuneInString(keys[i:])
		out = append(out, keys[i:i+size]...)
		i += size
	}
	return out, nil
}

var namedKeys = map[string][]byte{
	"Enter":     {'\r'},
	"Tab":       {'\t'},
	"Escape":    {0x1B},
	"Backspace": {0x7F},
	"Home":      {0x1B, '[', 'H'},
	"End":       {0x1B, '[', 'F'},
	"PageUp":    {0x1B, '[', '5', '~'},
	"PageDown":  {0x1B, '[', '6', '~'},
	"Insert":    {0x1B, '[', '2', '~'},
	"Delete":    {0x1B, '[', '3', '~'},
}

var appCursorKeys = map[string][]byte{
	"Up":    {0x1B, 'O', 'A'},
	"Down":  {0x1B, 'O', 'B'},
	"Right": {0x1B, 'O', 'C'},
	"Left":  {0x1B, 'O', 'D'},
}

var normalCursorKeys = map[string][]byte{
	"Up":    {0x1B, '[', 'A'},
	"Down":  {0x1B, '[', 'B'},
	"Right": {0x1B, '[', 'C'},
	"Left":  {0x1B, '[', 'D'},
}

var functionKeys = map[string][]byte{
	"F1": {0x1B, 'O', 'P'}, "F2": {0x1B, 'O', 'Q'}, "F3": {0x1B, 'O', 'R'}, "F4": {0x1B, 'O', 'S'},
	"F5": {0x1B, '[', '1', '5', '~'}, "F6": {0x1B, '[', '1', '7', '~'},
	"F7": {0x1B, '[', '1', '8', '~'}, "F8": {0x1B, '[', '1', '9', '~'},
	"F9": {0x1B, '[', '2', '0', '~'}, "F10": {0x1B, '[', '2', '1', '~'},
	"F11": {0x1B, '[', '2', '3', '~'}, "F12": {0x1B, '[', '2', '4', '~'},
}

func expandToken(token string, applicationCursorKeys bool) ([]byte, error) {
	if seq, ok := namedKeys[token]; ok {
		return seq, nil
	}
	if seq, ok := functionKeys[token]; ok {
		return seq, nil
	}
	if applicationCursorKeys {
		if seq, ok := appCursorKeys[token]; ok {
			return seq, nil
		}
	} else if seq, ok := normalCursorKeys[token]; ok {
		return seq, nil
	}
	if rest, ok := strings.CutPrefix(token, "Ctrl_"); ok && len(rest) == 1 {
		c := rest[0]
		if c >= 'a' && c <= 'z' {
			return []byte{c - 'a' + 1}, nil
		}
		if c >= 'A' && c <= 'Z' {
			return []byte{c - 'A' + 1}, nil
		}
	}
	if rest, ok := strings.CutPrefix(token, "Alt_"); ok && len(rest) == 1 {
		return []byte{0x1B, rest[0]}, nil
	}
	return nil, fmt.Errorf("send_keys: unknown key token %q", token)
}
