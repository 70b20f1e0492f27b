package theme

import (
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"

	"themer/common"
)

// RenderReference returns expression referencing token in the output format.
// Unknown format yields empty string.
func RenderReference(name string, format common.OutputFmt) string {
	switch format {
	case common.OutputFmtProps:
		return "var(--" + name + ")"
	case common.OutputFmtScss:
		return "$" + name
	case common.OutputFmtJs:
		return name
	default:
		return ""
	}
}

func renderDefinition(t Token, format common.OutputFmt) string {
	switch format {
	case common.OutputFmtProps:
		return "--" + t.Name + ": " + t.Value + ";"
	case common.OutputFmtScss:
		return "$" + t.Name + ": " + t.Value + ";"
	default:
		return quote(t.Name) + ": " + quote(t.Value)
	}
}

// scope is a group of tokens sharing at-rule condition.
type scope struct {
	condition string
	tokens    []Token
}

// partition splits tokens into unscoped ones and scoped groups in order of
// first appearance of each condition.
func partition(tokens []Token) ([]Token, []scope) {
	var (
		root   []Token
		scopes []scope
	)
	index := make(map[string]int)
	for _, t := range tokens {
		if !t.Scoped() {
			root = append(root, t)
			continue
		}
		cond := t.Condition()
		i, ok := index[cond]
		if !ok {
			i = len(scopes)
			index[cond] = i
			scopes = append(scopes, scope{condition: cond})
		}
		scopes[i].tokens = append(scopes[i].tokens, t)
	}
	return root, scopes
}

// RenderRegistry renders token definitions. Unscoped tokens go first followed
// by a group per at-rule condition. For props format each group is a block
// wrapping nested root selector. Scss variables declared inside of a block
// are local to it, so scss groups stay at the top level marked by a comment
// with their condition. For js format an object literal is produced with
// scoped tokens grouped under condition keys.
func RenderRegistry(tokens []Token, format common.OutputFmt) string {
	if format == common.OutputFmtJs {
		return renderObject(tokens)
	}

	root, scopes := partition(tokens)

	var blocks []string
	if len(root) > 0 {
		var sb strings.Builder
		indent := "\t"
		if format == common.OutputFmtScss {
			indent = ""
		} else {
			sb.WriteString(":root {\n")
		}
		for i, t := range root {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(indent + renderDefinition(t, format))
		}
		if format != common.OutputFmtScss {
			sb.WriteString("\n}")
		}
		blocks = append(blocks, sb.String())
	}
	for _, s := range scopes {
		var sb strings.Builder
		if format == common.OutputFmtScss {
			sb.WriteString("/* " + s.condition + " */")
			for _, t := range s.tokens {
				sb.WriteString("\n" + renderDefinition(t, format))
			}
			blocks = append(blocks, sb.String())
			continue
		}
		sb.WriteString(s.condition + " {\n\t:root {\n")
		for _, t := range s.tokens {
			sb.WriteString("\t\t" + renderDefinition(t, format) + "\n")
		}
		sb.WriteString("\t}\n}")
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}

func renderObject(tokens []Token) string {
	root, scopes := partition(tokens)

	entries := make([]string, 0, len(root)+len(scopes))
	for _, t := range root {
		entries = append(entries, "\t"+renderDefinition(t, common.OutputFmtJs))
	}
	for _, s := range scopes {
		inner := make([]string, 0, len(s.tokens))
		for _, t := range s.tokens {
			inner = append(inner, "\t\t"+renderDefinition(t, common.OutputFmtJs))
		}
		entries = append(entries, "\t"+quote(s.condition)+": {\n"+strings.Join(inner, ",\n")+"\n\t}")
	}
	if len(entries) == 0 {
		return "{}"
	}
	return "{\n" + strings.Join(entries, ",\n") + "\n}"
}

func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// strings are always marshalable
		panic(err)
	}
	return string(b)
}

// RenderOptions controls rendering of the whole registry.
type RenderOptions struct {
	Format          common.OutputFmt
	Sort            []Category // Categories rendered in numeric-if-present order
	SectionComments bool       // Wrap each category into Start/End comments
}

// Render renders every category of the registry. For props and scss formats
// each non empty category becomes a separate section, for js format a single
// exported object is produced.
func (r *Registry) Render(opts RenderOptions) string {
	if opts.Format == common.OutputFmtJs {
		var all []Token
		for _, c := range categories {
			all = append(all, r.sorted(c.cat, opts.Sort)...)
		}
		return "export const theme = " + renderObject(all) + ";\n"
	}

	var sb strings.Builder
	for _, c := range categories {
		tokens := r.sorted(c.cat, opts.Sort)
		if len(tokens) == 0 {
			continue
		}
		if opts.SectionComments {
			sb.WriteString("/* Start: " + c.title + " */\n")
		}
		sb.WriteString(RenderRegistry(tokens, opts.Format))
		if opts.SectionComments {
			sb.WriteString("\n/* End: " + c.title + " */")
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (r *Registry) sorted(cat Category, sortable []Category) []Token {
	tokens := r.lists[cat]
	if cat == CategoryBoxShadow || !slices.Contains(sortable, cat) {
		return tokens
	}
	tokens = slices.Clone(tokens)
	slices.SortStableFunc(tokens, func(a, b Token) int {
		return compareValues(a.Value, b.Value)
	})
	return tokens
}

var leadingNumber = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)`)

// compareValues orders values by their leading number when both have one,
// values without numbers go last, remaining ties are ordered naturally.
func compareValues(a, b string) int {
	na, oka := parseLeadingNumber(a)
	nb, okb := parseLeadingNumber(b)
	switch {
	case oka && okb && na != nb:
		if na < nb {
			return -1
		}
		return 1
	case oka && !okb:
		return -1
	case !oka && okb:
		return 1
	}
	switch {
	case a == b:
		return 0
	case natural.Less(a, b):
		return -1
	default:
		return 1
	}
}

func parseLeadingNumber(s string) (float64, bool) {
	m := leadingNumber.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
