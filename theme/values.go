package theme

import (
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type valueToken struct {
	tt         css.TokenType
	text       string
	start, end int // Byte offsets in the lexed value
}

// lexValue tokenizes declaration value. Tokens cover the value completely so
// offsets could be used to rebuild it.
func lexValue(value string) []valueToken {
	lexer := css.NewLexer(parse.NewInput(strings.NewReader(value)))

	var (
		res []valueToken
		pos int
	)
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// values never fail to lex, ErrorToken with io.EOF ends the input
			return res
		}
		res = append(res, valueToken{tt: tt, text: string(text), start: pos, end: pos + len(text)})
		pos += len(text)
	}
}

func opens(tt css.TokenType) bool {
	return tt == css.FunctionToken || tt == css.LeftParenthesisToken || tt == css.LeftBracketToken
}

func closes(tt css.TokenType) bool {
	return tt == css.RightParenthesisToken || tt == css.RightBracketToken
}

// matching returns index of the token closing group opened at toks[open].
// Unterminated group ends with the last token.
func matching(toks []valueToken, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case opens(toks[i].tt):
			depth++
		case closes(toks[i].tt):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(toks) - 1
}

// Segment is a part of a value separated by whitespace or comments outside
// of any parentheses.
type Segment struct {
	Text       string
	Start, End int // Byte offsets in the split value
}

// SplitValue splits value into top level segments. Comments between segments
// are not part of any segment, strings and function arguments are never
// split.
func SplitValue(value string) []Segment {
	var (
		res   []Segment
		depth int
		start = -1
		end   int
	)
	flush := func() {
		if start >= 0 {
			res = append(res, Segment{Text: value[start:end], Start: start, End: end})
			start = -1
		}
	}
	for _, t := range lexValue(value) {
		if depth == 0 && (t.tt == css.WhitespaceToken || t.tt == css.CommentToken) {
			flush()
			continue
		}
		switch {
		case opens(t.tt):
			depth++
		case closes(t.tt) && depth > 0:
			depth--
		}
		if start < 0 {
			start = t.start
		}
		end = t.end
	}
	flush()
	return res
}

// span returns part of value from the first to the last segment.
func span(value string, segments []Segment) string {
	if len(segments) == 0 {
		return ""
	}
	return value[segments[0].Start:segments[len(segments)-1].End]
}

// replaceSegments rebuilds value substituting segments for which repl
// returns true. Everything between segments is kept as is.
func replaceSegments(value string, segments []Segment, repl func(i int, s Segment) (string, bool)) string {
	var (
		sb   strings.Builder
		prev int
	)
	for i, s := range segments {
		sb.WriteString(value[prev:s.Start])
		if r, ok := repl(i, s); ok {
			sb.WriteString(r)
		} else {
			sb.WriteString(s.Text)
		}
		prev = s.End
	}
	sb.WriteString(value[prev:])
	return sb.String()
}
