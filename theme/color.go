package theme

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

// ColorMatch is a literal color found inside of a value.
type ColorMatch struct {
	Start, End int // Byte offsets in the scanned value
	Text       string
}

var colorFunctions = map[string]bool{
	"rgb":        true,
	"rgba":       true,
	"hsl":        true,
	"hsla":       true,
	"hwb":        true,
	"lab":        true,
	"lch":        true,
	"oklab":      true,
	"oklch":      true,
	"color":      true,
	"light-dark": true,
}

// IsNamedColor reports whether ident is CSS named color keyword.
func IsNamedColor(ident string) bool {
	ident = strings.ToLower(ident)
	switch ident {
	case "transparent", "currentcolor":
		return false
	case "rebeccapurple":
		return true
	}
	_, ok := colornames.Map[ident]
	return ok
}

// ExtractColors returns every literal color in value in order of appearance:
// hex notation, color functions with balanced arguments and named colors.
// Contents of url(...), strings and comments are never considered. Other
// functions (gradients, color-mix and such) are searched for colors in their
// arguments.
func ExtractColors(value string) []ColorMatch {
	var res []ColorMatch

	toks := lexValue(value)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.HashToken:
			if isHexColor(t.text[1:]) {
				res = append(res, ColorMatch{Start: t.start, End: t.end, Text: t.text})
			}
		case css.IdentToken:
			if IsNamedColor(t.text) {
				res = append(res, ColorMatch{Start: t.start, End: t.end, Text: t.text})
			}
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(t.text, "("))
			switch {
			case name == "url":
				i = matching(toks, i)
			case colorFunctions[name]:
				j := matching(toks, i)
				res = append(res, ColorMatch{Start: t.start, End: toks[j].end, Text: value[t.start:toks[j].end]})
				i = j
			}
		}
	}
	return res
}

// FirstColor returns the first literal color in value.
func FirstColor(value string) (ColorMatch, bool) {
	if m := ExtractColors(value); len(m) > 0 {
		return m[0], true
	}
	return ColorMatch{}, false
}

func isHexColor(s string) bool {
	switch len(s) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9') && !(c >= 'a' && c <= 'f') && !(c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
