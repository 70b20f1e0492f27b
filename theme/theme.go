// Package theme extracts repeated literal values out of stylesheet
// declarations into named tokens and rewrites declarations to reference
// them.
package theme

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"themer/common"
	"themer/css"
)

// At-rules scoping tokens to a condition.
var conditionalAtRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
}

// Options of a single run.
type Options struct {
	Prefix          string
	Format          common.OutputFmt
	Sort            []Category
	SectionComments bool
}

// Result of processing a stylesheet.
type Result struct {
	Stylesheet string // Rewritten stylesheet text
	Block      string // Rendered token definitions
	Registry   *Registry
	Rewritten  int // Number of rewritten declarations
}

// String returns token block followed by the rewritten stylesheet.
func (r *Result) String() string {
	return r.Block + r.Stylesheet
}

// Process extracts tokens out of sheet rewriting its declarations in place.
func Process(sheet *css.Stylesheet, opts Options, log *zap.Logger) (*Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("theme")

	if !opts.Format.IsValid() {
		return nil, fmt.Errorf("unsupported output format %d", opts.Format)
	}

	x := NewExtractor(opts.Prefix, opts.Format, log)
	res := &Result{Registry: NewRegistry()}

	err := sheet.WalkDecls(func(d *css.Declaration) error {
		view, ok := declarationView(d)
		if !ok {
			return nil
		}
		value, tokens, ok := x.Extract(view)
		if !ok {
			return nil
		}
		for _, t := range tokens {
			if e, ok := res.Registry.Lookup(t.Category, t.Name); ok && e.Value != t.Value {
				log.Debug("Token name reused for different value, later definition wins",
					zap.String("name", t.Name), zap.String("value", e.Value), zap.String("new", t.Value), zap.String("selector", t.OriginalSelector))
			}
			if _, added := res.Registry.Add(t); added {
				log.Debug("Token registered", zap.String("name", t.Name), zap.String("value", t.Value), zap.String("scope", t.Condition()))
			}
		}
		d.Assign(d.Prop, value)
		res.Rewritten++
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Stylesheet = sheet.String()
	res.Block = res.Registry.Render(RenderOptions{
		Format:          opts.Format,
		Sort:            opts.Sort,
		SectionComments: opts.SectionComments,
	})

	log.Debug("Stylesheet processed", zap.Int("tokens", res.Registry.Len()), zap.Int("rewritten", res.Rewritten))
	return res, nil
}

// declarationView builds read-only view of the declaration. Declarations
// outside of rules and inside of keyframes are of no interest.
func declarationView(d *css.Declaration) (Declaration, bool) {
	rule := d.Rule()
	if rule == nil {
		return Declaration{}, false
	}
	for p := rule.Parent(); p != nil; p = p.Parent() {
		if a, ok := p.(*css.AtRule); ok && strings.HasSuffix(strings.ToLower(a.Name), "keyframes") {
			return Declaration{}, false
		}
	}

	view := Declaration{
		Property:  d.Prop,
		Value:     d.Value,
		Important: d.Important,
		Selector:  rule.Selector,
	}
	if parent := rule.ParentRule(); parent != nil {
		view.ParentSelector = parent.Selector
	}
	if a := rule.ParentAtRule(); a != nil && conditionalAtRules[strings.ToLower(a.Name)] {
		view.AtRuleKind = strings.ToLower(a.Name)
		view.AtRuleParams = a.Params
	}
	return view, true
}
