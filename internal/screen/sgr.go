package screen

import "bte/internal/vtparser"

// sgr applies a Select Graphic Rendition sequence to the pen (spec §4.2
// "SGR semantics"). It accepts both the colon sub-parameter extended
// color form (38:2::R:G:B) and the classic semicolon-spread form
// (38;2;R;G;B) equivalently.
func (s *Screen) sgr(params []vtparser.Param) {
	if len(params) == 0 {
		s.pen = DefaultPen
		return
	}
	i := 0
	for i < len(params) {
		p := params[i]
		if p.Len() > 1 {
			s.applyColonSGR(p)
			i++
			continue
		}
		code := int(p.Value())
		if code == 38 || code == 48 {
			consumed := s.applyExtendedColor(params, i+1, code == 38)
			i += 1 + consumed
			continue
		}
		s.applySimpleSGR(code)
		i++
	}
}

func (s *Screen) applySimpleSGR(code int) {
	switch {
	case code == 0:
		s.pen = DefaultPen
	case code == 1:
		s.pen.Attrs.Bold = true
	case code == 2:
		s.pen.Attrs.Faint = true
	case code == 3:
		s.pen.Attrs.Italic = true
	case code == 4:
		s.pen.Attrs.Underline = true
	case code == 5:
		s.pen.Attrs.Blink = true
	case code == 7:
		s.pen.Attrs.Inverse = true
	case code == 8:
		s.pen.Attrs.Hidden = true
	case code == 9:
		s.pen.Attrs.Strikethrough = true
	case code == 22:
		s.pen.Attrs.Bold, s.pen.Attrs.Faint = false, false
	case code == 23:
		s.pen.Attrs.Italic = false
	case code == 24:
		s.pen.Attrs.Underline = false
	case code == 25:
		s.pen.Attrs.Blink = false
	case code == 27:
		s.pen.Attrs.Inverse = false
	case code == 28:
		s.pen.Attrs.Hidden = false
	case code == 29:
		s.pen.Attrs.Strikethrough = false
	case code >= 30 && code <= 37:
		s.pen.Fg = Color{Kind: Color16, Index: uint8(code - 30)}
	case code == 39:
		s.pen.Fg = DefaultColor
	case code >= 40 && code <= 47:
		s.pen.Bg = Color{Kind: Color16, Index: uint8(code - 40)}
	case code == 49:
		s.pen.Bg = DefaultColor
	case code >= 90 && code <= 97:
		s.pen.Fg = Color{Kind: Color16, Index: uint8(code-90) + 8}
	case code >= 100 && code <= 107:
		s.pen.Bg = Color{Kind: Color16, Index: uint8(code-100) + 8}
	}
}

// applyColonSGR handles a single self-contained colon sub-parameter list
// such as [38, 2, 0, 255, 0, 0] or [38, 5, N].
func (s *Screen) applyColonSGR(p vtparser.Param) {
	target := p.At(0)
	isFg := target == 38
	isBg := target == 48
	if !isFg && !isBg {
		return
	}
	var c Color
	switch p.At(1) {
	case 5:
		c = Color{Kind: Color256, Index: uint8(p.At(2))}
	case 2:
		// Layout is 38:2:<colorspace>:R:G:B; colorspace id is usually empty.
		c = Color{Kind: ColorRGB, R: uint8(p.At(3)), G: uint8(p.At(4)), B: uint8(p.At(5))}
	default:
		return
	}
	if isFg {
		s.pen.Fg = c
	} else {
		s.pen.Bg = c
	}
}

// applyExtendedColor handles the classic semicolon-spread form (38;5;N or
// 38;2;R;G;B), reading starting at index start in params. It returns how
// many additional params (beyond the 38/48 itself) were consumed.
func (s *Screen) applyExtendedColor(params []vtparser.Param, start int, isFg bool) int {
	if start >= len(params) {
		return 0
	}
	switch int(params[start].Value()) {
	case 5:
		if start+1 >= len(params) {
			return 1
		}
		c := Color{Kind: Color256, Index: uint8(params[start+1].Value())}
		s.setColor(isFg, c)
		return 2
	case 2:
		if start+3 >= len(params) {
			return 1
		}
		c := Color{
			Kind: ColorRGB,
			R:    uint8(params[start+1].Value()),
			G:    uint8(params[start+2].Value()),
			B:    uint8(params[start+3].Value()),
		}
		s.setColor(isFg, c)
		return 4
	}
	return 1
}

func (s *Screen) setColor(isFg bool, c Color) {
	if isFg {
		s.pen.Fg = c
	} else {
		s.pen.Bg = c
	}
}
