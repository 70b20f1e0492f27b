package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser builds stylesheet trees out of CSS (and SCSS-like nested) text.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	text string
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	toks, err := tokenize(data)
	if err != nil {
		return nil, err
	}

	sheet := &Stylesheet{
		Warnings: make([]string, 0),
	}
	b := &builder{toks: toks, sheet: sheet, log: p.log}
	sheet.Nodes, sheet.After = b.parseNodes(sheet, false)

	p.log.Debug("Parsed CSS", zap.Int("tokens", len(toks)), zap.Int("items", len(sheet.Nodes)), zap.Int("warnings", len(sheet.Warnings)))
	return sheet, nil
}

func tokenize(data []byte) ([]token, error) {
	lexer := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	toks := make([]token, 0, len(data)/4)
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to tokenize stylesheet: %w", err)
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, text: string(text)})
	}
}

type builder struct {
	toks  []token
	pos   int
	sheet *Stylesheet
	log   *zap.Logger
}

func (b *builder) eof() bool {
	return b.pos >= len(b.toks)
}

func (b *builder) warn(msg string, fields ...zap.Field) {
	b.sheet.Warnings = append(b.sheet.Warnings, msg)
	b.log.Debug(msg, fields...)
}

// whitespace consumes consecutive whitespace tokens.
func (b *builder) whitespace() string {
	var sb strings.Builder
	for ; !b.eof() && b.toks[b.pos].tt == css.WhitespaceToken; b.pos++ {
		sb.WriteString(b.toks[b.pos].text)
	}
	return sb.String()
}

// parseNodes parses items until end of input or, when nested, until the
// closing brace of the current block. Returns the items and whitespace found
// before the end.
func (b *builder) parseNodes(parent Container, nested bool) ([]Node, string) {
	var nodes []Node
	for {
		before := b.whitespace()
		if b.eof() {
			if nested {
				b.warn("unterminated block at end of input")
			}
			return nodes, before
		}

		t := b.toks[b.pos]
		switch t.tt {
		case css.RightBraceToken:
			b.pos++
			if nested {
				return nodes, before
			}
			b.warn("unexpected closing brace")
			nodes = append(nodes, &Raw{Before: before, Text: t.text, parent: parent})
		case css.CommentToken:
			b.pos++
			nodes = append(nodes, &Comment{Before: before, Text: t.text, parent: parent})
		case css.SemicolonToken, css.CDOToken, css.CDCToken:
			b.pos++
			nodes = append(nodes, &Raw{Before: before, Text: t.text, parent: parent})
		case css.AtKeywordToken:
			nodes = append(nodes, b.parseAtRule(parent, before))
		default:
			nodes = append(nodes, b.parseItem(parent, before))
		}
	}
}

// scanEnd finds the token terminating the item starting at from: ";", "{" or
// "}" outside of parentheses and brackets. SCSS interpolations "#{...}" are
// skipped. Returns len(b.toks) when input ends first.
func (b *builder) scanEnd(from int) int {
	depth := 0
	for i := from; i < len(b.toks); i++ {
		switch t := b.toks[i]; t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.DelimToken:
			if t.text == "#" && i+1 < len(b.toks) && b.toks[i+1].tt == css.LeftBraceToken {
				i = b.skipInterpolation(i + 1)
			}
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			if depth == 0 {
				return i
			}
		}
	}
	return len(b.toks)
}

// skipInterpolation returns index of the brace closing the one at open.
func (b *builder) skipInterpolation(open int) int {
	depth := 0
	for i := open; i < len(b.toks); i++ {
		switch b.toks[i].tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(b.toks) - 1
}

func (b *builder) parseAtRule(parent Container, before string) Node {
	a := &AtRule{
		Before: before,
		Name:   strings.TrimPrefix(b.toks[b.pos].text, "@"),
		parent: parent,
	}
	b.pos++
	a.AfterName = b.whitespace()

	end := b.scanEnd(b.pos)
	a.Params, a.Between = joinTrimmed(b.toks[b.pos:end])
	b.pos = end
	if b.eof() {
		return a
	}

	switch b.toks[b.pos].tt {
	case css.LeftBraceToken:
		b.pos++
		a.HasBlock = true
		a.Nodes, a.After = b.parseNodes(a, true)
	case css.SemicolonToken:
		b.pos++
		a.Semicolon = true
	}
	return a
}

// parseItem parses either a rule (when block follows) or a declaration.
func (b *builder) parseItem(parent Container, before string) Node {
	end := b.scanEnd(b.pos)
	toks := b.toks[b.pos:end]

	if end < len(b.toks) && b.toks[end].tt == css.LeftBraceToken {
		r := &Rule{Before: before, parent: parent}
		r.Selector, r.Between = joinTrimmed(toks)
		b.pos = end + 1
		r.Nodes, r.After = b.parseNodes(r, true)
		return r
	}

	b.pos = end
	semicolon := end < len(b.toks) && b.toks[end].tt == css.SemicolonToken
	if semicolon {
		b.pos++
	}

	if d := newDeclaration(toks); d != nil {
		d.Before, d.Semicolon, d.parent = before, semicolon, parent
		return d
	}

	text, trailing := joinTrimmed(toks)
	b.warn("unrecognized item kept as is", zap.String("text", text))
	text += trailing
	if semicolon {
		text += ";"
	}
	return &Raw{Before: before, Text: text, parent: parent}
}

// newDeclaration splits tokens of a single item into declaration parts.
// Returns nil when tokens do not look like a declaration.
func newDeclaration(toks []token) *Declaration {
	colon := -1
	depth := 0
	for i, t := range toks {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.ColonToken:
			if depth == 0 && colon < 0 {
				colon = i
			}
		}
	}
	if colon <= 0 {
		return nil
	}

	d := &Declaration{}

	var spaceBefore string
	d.Prop, spaceBefore = joinTrimmed(toks[:colon])
	if d.Prop == "" {
		return nil
	}

	rest := toks[colon+1:]
	lead := 0
	for lead < len(rest) && rest[lead].tt == css.WhitespaceToken {
		lead++
	}
	d.Between = spaceBefore + ":" + join(rest[:lead])
	rest = rest[lead:]

	end := len(rest)
	for end > 0 && rest[end-1].tt == css.WhitespaceToken {
		end--
	}
	d.AfterValue = join(rest[end:])
	rest = rest[:end]

	// "!important" at the very end of the value
	if n := len(rest); n >= 2 && rest[n-1].tt == css.IdentToken && strings.EqualFold(rest[n-1].text, "important") {
		bang := n - 2
		for bang > 0 && rest[bang].tt == css.WhitespaceToken {
			bang--
		}
		if rest[bang].tt == css.DelimToken && rest[bang].text == "!" {
			start := bang
			for start > 0 && rest[start-1].tt == css.WhitespaceToken {
				start--
			}
			d.Important = true
			d.ImportantRaw = join(rest[start:])
			rest = rest[:start]
		}
	}
	d.Value = join(rest)
	return d
}

func join(toks []token) string {
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.text)
	}
	return sb.String()
}

// joinTrimmed returns text of the tokens with trailing whitespace split off.
func joinTrimmed(toks []token) (string, string) {
	end := len(toks)
	for end > 0 && toks[end-1].tt == css.WhitespaceToken {
		end--
	}
	return join(toks[:end]), join(toks[end:])
}
