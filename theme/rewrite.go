package theme

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"themer/common"
)

// Declaration is a read-only view of a stylesheet declaration together with
// its ownership chain.
type Declaration struct {
	Property       string
	Value          string
	Important      bool
	Selector       string // Selector of the owning rule
	ParentSelector string // Selector of the enclosing rule, if rule is nested
	AtRuleKind     string // Conditional at-rule directly enclosing the rule
	AtRuleParams   string
}

var borderDirections = map[int][]string{
	2: {"vertical", "horizontal"},
	3: {"top", "horizontal", "bottom"},
	4: {"top", "right", "bottom", "left"},
}

// Extractor turns declarations into tokens and new values referencing them.
// It carries the state of a single run and must not be shared between runs.
type Extractor struct {
	namer   *Namer
	format  common.OutputFmt
	shadows *IdentityStore
	log     *zap.Logger
}

// NewExtractor creates extractor for a single run.
func NewExtractor(prefix string, format common.OutputFmt, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{
		namer:   NewNamer(prefix),
		format:  format,
		shadows: NewIdentityStore(),
		log:     log,
	}
}

// Extract returns new value for the declaration and tokens it references.
// When declaration is not of interest or nothing could be extracted false is
// returned and declaration must be left untouched.
func (x *Extractor) Extract(d Declaration) (string, []Token, bool) {
	cat, ok := Classify(d.Property)
	if !ok {
		return "", nil, false
	}

	value := strings.TrimSpace(d.Value)
	if isReference(value) {
		x.log.Debug("Skipping reference", zap.String("prop", d.Property), zap.String("value", value))
		return "", nil, false
	}

	prop := strings.ToLower(strings.TrimSpace(d.Property))
	segments := SplitValue(value)
	if len(segments) == 0 {
		x.log.Debug("Nothing to extract", zap.String("prop", d.Property), zap.String("value", value))
		return "", nil, false
	}

	var (
		res    string
		tokens []Token
	)
	switch {
	case cat == CategoryBorder && borderShorthands[prop] != "":
		res, tokens = x.border(d, value, segments)
	case cat == CategoryBorder && prop == "border-color" && len(segments) > 1:
		res, tokens = x.borderColors(d, value, segments)
	case (cat == CategorySpacing || cat == CategoryRadius) && len(segments) > 1:
		res, tokens = x.positional(cat, d, value, segments)
	case cat == CategoryBackground && prop == "background" && len(segments) > 1:
		res, tokens = x.background(d, value)
	case cat == CategoryBoxShadow:
		res, tokens = x.shadow(d, value, segments)
	default:
		// comments around the value stay where they are
		literal := span(value, segments)
		if t, ok := x.token(cat, d, literal, x.namer.Name(cat, d, literal)); ok {
			first, last := segments[0], segments[len(segments)-1]
			res, tokens = value[:first.Start]+x.reference(t)+value[last.End:], []Token{t}
		}
	}

	if len(tokens) == 0 {
		x.log.Debug("Nothing to extract", zap.String("prop", d.Property), zap.String("value", value))
		return "", nil, false
	}
	return res, tokens, true
}

// token builds token of the declaration for a piece of its value.
func (x *Extractor) token(cat Category, d Declaration, value, name string) (Token, bool) {
	value = strings.TrimSpace(value)
	if IsDisallowed(cat, value) {
		return Token{}, false
	}
	return Token{
		Name:             name,
		Value:            value,
		OriginalValue:    d.Value,
		PropertyType:     d.Property,
		Category:         cat,
		OriginalSelector: d.Selector,
		Important:        d.Important,
		AtRuleKind:       d.AtRuleKind,
		AtRuleParams:     d.AtRuleParams,
	}, true
}

func (x *Extractor) reference(t Token) string {
	return RenderReference(t.Name, x.format)
}

// border handles border shorthands: width and style stay, the rest is color.
func (x *Extractor) border(d Declaration, value string, segments []Segment) (string, []Token) {
	if len(segments) < 3 {
		return "", nil
	}
	colors := segments[2:]
	t, ok := x.token(CategoryBorder, d, span(value, colors), x.namer.Selector(d.Selector, d.ParentSelector, d.Property))
	if !ok {
		return "", nil
	}
	return value[:colors[0].Start] + x.reference(t) + value[colors[len(colors)-1].End:], []Token{t}
}

// borderColors splits multi-value border-color into directional tokens.
// Disallowed slots keep their literal and their direction.
func (x *Extractor) borderColors(d Declaration, value string, segments []Segment) (string, []Token) {
	dirs := borderDirections[len(segments)]
	if dirs == nil {
		return "", nil
	}
	base := x.namer.Selector(d.Selector, d.ParentSelector, d.Property)

	var tokens []Token
	res := replaceSegments(value, segments, func(i int, seg Segment) (string, bool) {
		t, ok := x.token(CategoryBorder, d, seg.Text, base+"-"+dirs[i])
		if !ok {
			return "", false
		}
		tokens = append(tokens, t)
		return x.reference(t), true
	})
	return res, tokens
}

// positional splits spacing and radius shorthands, every segment is a
// separate token. Disallowed segments and "/" separators stay as is.
func (x *Extractor) positional(cat Category, d Declaration, value string, segments []Segment) (string, []Token) {
	var tokens []Token
	res := replaceSegments(value, segments, func(i int, seg Segment) (string, bool) {
		if seg.Text == "/" {
			return "", false
		}
		name := x.namer.Name(cat, d, seg.Text)
		if strings.ContainsAny(seg.Text, " \t\r\n\f") {
			name += "-" + strconv.Itoa(i+1)
		}
		t, ok := x.token(cat, d, seg.Text, name)
		if !ok {
			return "", false
		}
		tokens = append(tokens, t)
		return x.reference(t), true
	})
	return res, tokens
}

// background tokenizes only the first color of a composite background value.
// Contents of url(...) and comments are never searched.
func (x *Extractor) background(d Declaration, value string) (string, []Token) {
	m, ok := FirstColor(value)
	if !ok {
		return "", nil
	}
	cd := d
	cd.Property = "background-color"
	t, ok := x.token(CategoryBackground, cd, m.Text, x.namer.Selector(d.Selector, d.ParentSelector, cd.Property))
	if !ok {
		return "", nil
	}
	t.PropertyType = d.Property
	return value[:m.Start] + x.reference(t) + value[m.End:], []Token{t}
}

// shadow whole value is a single token named sequentially, identical values
// share identity.
func (x *Extractor) shadow(d Declaration, value string, segments []Segment) (string, []Token) {
	literal := span(value, segments)
	first, last := segments[0], segments[len(segments)-1]
	if t, ok := x.shadows.Lookup(literal, d.AtRuleKind, d.AtRuleParams); ok {
		x.log.Debug("Reusing shadow identity", zap.String("name", t.Name))
		return value[:first.Start] + x.reference(t) + value[last.End:], []Token{t}
	}
	t, ok := x.token(CategoryBoxShadow, d, literal, x.namer.Shadow(x.shadows.Next()))
	if !ok {
		return "", nil
	}
	x.shadows.Record(literal, t)
	return value[:first.Start] + x.reference(t) + value[last.End:], []Token{t}
}
