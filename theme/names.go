package theme

import (
	"strconv"
	"strings"
	"unicode"
)

// borderShorthands map to the name of their color longhand.
var borderShorthands = map[string]string{
	"border":        "border-color",
	"border-top":    "border-top-color",
	"border-right":  "border-right-color",
	"border-bottom": "border-bottom-color",
	"border-left":   "border-left-color",
}

// NormalizeProperty returns property name used in token names.
func NormalizeProperty(prop string) string {
	prop = strings.ToLower(strings.TrimSpace(prop))
	if p, ok := borderShorthands[prop]; ok {
		return p
	}
	return prop
}

// Sanitize makes value usable as part of an identifier.
func Sanitize(value string) string {
	value = strings.TrimSpace(value)

	var sb strings.Builder
	if strings.HasPrefix(value, "-") {
		sb.WriteString("negative-")
		value = value[1:]
	}
	for _, r := range value {
		switch {
		case r == '%':
			sb.WriteString("-percent")
		case r == '/':
			sb.WriteByte('-')
		case r == '.':
			sb.WriteString("pt")
		case r == '(' || r == ')':
			sb.WriteByte('_')
		case unicode.IsSpace(r):
			sb.WriteByte('-')
		case r == '-' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// Namer synthesizes token names for a single prefix.
type Namer struct {
	prefix string
}

// NewNamer returns namer for the prefix. Prefix may be empty.
func NewNamer(prefix string) *Namer {
	return &Namer{prefix: strings.Trim(strings.TrimSpace(prefix), "-")}
}

func (n *Namer) join(parts ...string) string {
	res := make([]string, 0, len(parts)+1)
	if n.prefix != "" {
		res = append(res, n.prefix)
	}
	for _, p := range parts {
		if p != "" {
			res = append(res, p)
		}
	}
	return strings.Join(res, "-")
}

// Radius returns name of a single border radius value.
func (n *Namer) Radius(value string) string {
	return n.join("border-radius", Sanitize(value))
}

// Shadow returns name of sequential box shadow identity.
func (n *Namer) Shadow(index int) string {
	return n.join("box-shadow", strconv.Itoa(index))
}

// Spacing returns name of a single spacing value.
func (n *Namer) Spacing(value string) string {
	return n.join("spacing", Sanitize(value))
}

// Typography returns name of font-size, font-weight or line-height value.
func (n *Namer) Typography(cat Category, value string) string {
	return n.join(string(cat), Sanitize(value))
}

// FontStack returns name of font family keyed by its first family.
func (n *Namer) FontStack(value string) string {
	stack := strings.NewReplacer(`"`, "", `'`, "").Replace(value)
	first := strings.FieldsFunc(stack, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	word := ""
	if len(first) > 0 {
		word = strings.ToLower(first[0])
	}
	return n.join("font-stack", Sanitize(word))
}

// Selector returns name keyed by rule selector path and property.
func (n *Namer) Selector(selector, parent, prop string) string {
	path := NormalizeSelector(selector)
	if p := NormalizeSelector(parent); p != "" {
		if path == "" {
			path = p
		} else {
			path = p + "__" + path
		}
	}
	return n.join(path, NormalizeProperty(prop))
}

// Name returns canonical token name for value of the declaration. Box
// shadows are named by the identity store and are not handled here.
func (n *Namer) Name(cat Category, d Declaration, value string) string {
	single := !strings.ContainsFunc(strings.TrimSpace(value), unicode.IsSpace)
	switch {
	case cat == CategoryRadius && single:
		return n.Radius(value)
	case cat == CategorySpacing && single:
		return n.Spacing(value)
	case cat == CategoryFontSize || cat == CategoryFontWeight || cat == CategoryLineHeight:
		return n.Typography(cat, value)
	case cat == CategoryFontFamily:
		return n.FontStack(value)
	}
	return n.Selector(d.Selector, d.ParentSelector, d.Property)
}
