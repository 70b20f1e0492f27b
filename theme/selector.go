package theme

import (
	"regexp"
	"strings"
)

var selectorWords = regexp.MustCompile(`[\p{L}\p{N}_]+|\*`)

// NormalizeSelector turns selector into identifier safe path segment. Only
// the first alternative of a selector list is used. Combinators, class and
// id markers, pseudo markers, attribute syntax and BEM separators all
// collapse into "-", universal selector becomes "_all_".
func NormalizeSelector(selector string) string {
	first := firstAlternative(selector)

	var parts []string
	for _, w := range selectorWords.FindAllString(first, -1) {
		if w == "*" {
			parts = append(parts, "_all_")
			continue
		}
		for _, p := range strings.Split(w, "__") {
			if p != "" {
				parts = append(parts, p)
			}
		}
	}
	return strings.Join(parts, "-")
}

// firstAlternative returns selector up to the first comma which is not
// inside of parentheses, brackets or quotes.
func firstAlternative(selector string) string {
	depth := 0
	var quote rune
	for i, r := range selector {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			return selector[:i]
		}
	}
	return selector
}
