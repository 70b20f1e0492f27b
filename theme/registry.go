package theme

// Token is a named unit of style data replacing a literal value.
type Token struct {
	Name             string   // Without leading "--" or "$"
	Value            string   // Literal value the token stands for
	OriginalValue    string   // Whole value of the originating declaration
	PropertyType     string   // Property the token was derived for
	Category         Category
	OriginalSelector string
	Important        bool
	AtRuleKind       string // Empty unless declaration rule is inside of conditional at-rule
	AtRuleParams     string
}

// Scoped reports whether token belongs to conditional at-rule.
func (t Token) Scoped() bool {
	return t.AtRuleKind != ""
}

func (t *Token) unscope() {
	t.AtRuleKind, t.AtRuleParams = "", ""
}

// Condition returns at-rule prelude of the token scope, e.g.
// "@media (min-width: 600px)".
func (t Token) Condition() string {
	if !t.Scoped() {
		return ""
	}
	if t.AtRuleParams == "" {
		return "@" + t.AtRuleKind
	}
	return "@" + t.AtRuleKind + " " + t.AtRuleParams
}

// Registry holds tokens of a single run, one append ordered list per category.
type Registry struct {
	lists map[Category][]Token
}

// NewRegistry returns empty registry.
func NewRegistry() *Registry {
	return &Registry{lists: make(map[Category][]Token)}
}

// Add appends token to its category unless token with the same name and
// value is already there. Returns registered token and whether it was added.
// Token reused under a different at-rule condition than it was registered
// with is moved to the root scope so every reference can see it.
func (r *Registry) Add(t Token) (Token, bool) {
	list := r.lists[t.Category]
	for i, e := range list {
		if e.Name != t.Name || e.Value != t.Value {
			continue
		}
		if e.Condition() != t.Condition() {
			list[i].unscope()
		}
		return list[i], false
	}
	r.lists[t.Category] = append(list, t)
	return t, true
}

// Lookup returns the first registered token with the name.
func (r *Registry) Lookup(cat Category, name string) (Token, bool) {
	for _, e := range r.lists[cat] {
		if e.Name == name {
			return e, true
		}
	}
	return Token{}, false
}

// Tokens returns tokens of the category in first seen order.
func (r *Registry) Tokens(cat Category) []Token {
	return r.lists[cat]
}

// All returns every token, categories in rendering order.
func (r *Registry) All() []Token {
	var res []Token
	for _, c := range categories {
		res = append(res, r.lists[c.cat]...)
	}
	return res
}

// Len returns total number of tokens.
func (r *Registry) Len() int {
	n := 0
	for _, l := range r.lists {
		n += len(l)
	}
	return n
}
