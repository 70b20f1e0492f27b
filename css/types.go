package css

import (
	"io"
	"strings"
)

// Node is a single item of the stylesheet tree.
type Node interface {
	// Parent returns container the node belongs to.
	Parent() Container
	write(sb *strings.Builder)
}

// Container is a node holding other nodes: Stylesheet, Rule or AtRule.
type Container interface {
	Children() []Node
	Parent() Container
}

// Stylesheet represents a parsed stylesheet. All nodes keep the raw text
// surrounding them so printing unmodified tree yields original input.
type Stylesheet struct {
	Nodes    []Node   // Top-level items in source order
	After    string   // Trailing whitespace after the last item
	Warnings []string // Problems found while building the tree
}

// Rule is a qualified rule: selector followed by a block.
type Rule struct {
	Before   string // Whitespace before the selector
	Selector string // Raw selector text
	Between  string // Whitespace between selector and "{"
	Nodes    []Node // Declarations, nested rules, at-rules and comments
	After    string // Whitespace before "}"

	parent Container
}

// AtRule is a rule starting with "@", with or without block.
type AtRule struct {
	Before    string // Whitespace before "@"
	Name      string // Name without "@" (e.g. "media")
	AfterName string // Whitespace after the name
	Params    string // Raw prelude (e.g. "(min-width: 600px)")
	Between   string // Whitespace between prelude and "{" or ";"
	HasBlock  bool
	Nodes     []Node
	After     string // Whitespace before "}"
	Semicolon bool   // Blockless at-rule was terminated by ";"

	parent Container
}

// Declaration is a "property: value" pair.
type Declaration struct {
	Before       string // Whitespace before the property
	Prop         string
	Between      string // Colon with surrounding whitespace
	Value        string // Value without "!important" and surrounding whitespace
	Important    bool
	ImportantRaw string // Raw "!important" text including preceding whitespace
	AfterValue   string // Whitespace before ";"
	Semicolon    bool

	parent Container
}

// Comment is a /* */ comment between items.
type Comment struct {
	Before string
	Text   string // Full comment text including delimiters

	parent Container
}

// Raw is a piece of input which could not be understood as any other node.
// It is kept verbatim.
type Raw struct {
	Before string
	Text   string

	parent Container
}

func (s *Stylesheet) Children() []Node { return s.Nodes }
func (s *Stylesheet) Parent() Container { return nil }

func (r *Rule) Children() []Node  { return r.Nodes }
func (r *Rule) Parent() Container { return r.parent }

func (a *AtRule) Children() []Node  { return a.Nodes }
func (a *AtRule) Parent() Container { return a.parent }

func (d *Declaration) Parent() Container { return d.parent }
func (c *Comment) Parent() Container     { return c.parent }
func (r *Raw) Parent() Container         { return r.parent }

// ParentRule returns enclosing rule when this rule is nested, otherwise nil.
func (r *Rule) ParentRule() *Rule {
	if p, ok := r.parent.(*Rule); ok {
		return p
	}
	return nil
}

// ParentAtRule returns enclosing at-rule when rule is placed directly inside
// of one, otherwise nil.
func (r *Rule) ParentAtRule() *AtRule {
	if p, ok := r.parent.(*AtRule); ok {
		return p
	}
	return nil
}

// Rule returns rule owning the declaration or nil if declaration is not
// placed inside of a rule (top level or directly in at-rule block).
func (d *Declaration) Rule() *Rule {
	if p, ok := d.parent.(*Rule); ok {
		return p
	}
	return nil
}

// Assign replaces property and value of the declaration in place. Raw
// whitespace and importance are preserved.
func (d *Declaration) Assign(prop, value string) {
	d.Prop = prop
	d.Value = value
}

// WalkDecls calls fn for every declaration in source order, descending into
// nested rules and at-rules. Walking stops on the first error.
func (s *Stylesheet) WalkDecls(fn func(*Declaration) error) error {
	return walkDecls(s.Nodes, fn)
}

func walkDecls(nodes []Node, fn func(*Declaration) error) error {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Declaration:
			if err := fn(n); err != nil {
				return err
			}
		case Container:
			if err := walkDecls(n.Children(), fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTo writes the stylesheet to w, implementing io.WriterTo.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	writeNodes(&sb, s.Nodes)
	sb.WriteString(s.After)
	return sb.String()
}

func writeNodes(sb *strings.Builder, nodes []Node) {
	for _, n := range nodes {
		n.write(sb)
	}
}

func (r *Rule) write(sb *strings.Builder) {
	sb.WriteString(r.Before)
	sb.WriteString(r.Selector)
	sb.WriteString(r.Between)
	sb.WriteByte('{')
	writeNodes(sb, r.Nodes)
	sb.WriteString(r.After)
	sb.WriteByte('}')
}

func (a *AtRule) write(sb *strings.Builder) {
	sb.WriteString(a.Before)
	sb.WriteByte('@')
	sb.WriteString(a.Name)
	sb.WriteString(a.AfterName)
	sb.WriteString(a.Params)
	sb.WriteString(a.Between)
	switch {
	case a.HasBlock:
		sb.WriteByte('{')
		writeNodes(sb, a.Nodes)
		sb.WriteString(a.After)
		sb.WriteByte('}')
	case a.Semicolon:
		sb.WriteByte(';')
	}
}

func (d *Declaration) write(sb *strings.Builder) {
	sb.WriteString(d.Before)
	sb.WriteString(d.Prop)
	sb.WriteString(d.Between)
	sb.WriteString(d.Value)
	sb.WriteString(d.ImportantRaw)
	sb.WriteString(d.AfterValue)
	if d.Semicolon {
		sb.WriteByte(';')
	}
}

func (c *Comment) write(sb *strings.Builder) {
	sb.WriteString(c.Before)
	sb.WriteString(c.Text)
}

func (r *Raw) write(sb *strings.Builder) {
	sb.WriteString(r.Before)
	sb.WriteString(r.Text)
}
