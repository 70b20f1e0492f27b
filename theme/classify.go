package theme

import (
	"fmt"
	"regexp"
	"strings"
)

// Category is a semantic group of tokens. Categories are rendered in the
// order they are listed in categories.
type Category string

const (
	CategoryColor           Category = "color"
	CategoryBorder          Category = "border"
	CategoryBackground      Category = "background"
	CategoryBoxShadow       Category = "box-shadow"
	CategoryRadius          Category = "border-radius"
	CategoryFontSize        Category = "font-size"
	CategoryFontFamily      Category = "font-family"
	CategoryFontWeight      Category = "font-weight"
	CategoryLineHeight      Category = "line-height"
	CategorySpacing         Category = "spacing"
	CategoryBackgroundImage Category = "background-image"
)

var categories = []struct {
	cat   Category
	title string
}{
	{CategoryColor, "Colors"},
	{CategoryBorder, "Border"},
	{CategoryBackground, "Background"},
	{CategoryBoxShadow, "Box-shadow"},
	{CategoryRadius, "Border-radius"},
	{CategoryFontSize, "Typography: Font-size"},
	{CategoryFontFamily, "Typography: Font-family"},
	{CategoryFontWeight, "Typography: Font-weight"},
	{CategoryLineHeight, "Typography: Line-height"},
	{CategorySpacing, "Spacing"},
	{CategoryBackgroundImage, "Background images"},
}

// Categories returns all known categories in rendering order.
func Categories() []Category {
	res := make([]Category, 0, len(categories))
	for _, c := range categories {
		res = append(res, c.cat)
	}
	return res
}

// Title returns human readable name of the category.
func (c Category) Title() string {
	for _, e := range categories {
		if e.cat == c {
			return e.title
		}
	}
	return string(c)
}

// ParseCategory returns category by its name.
func ParseCategory(name string) (Category, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range categories {
		if string(e.cat) == name {
			return e.cat, nil
		}
	}
	return "", fmt.Errorf("unknown token category %q", name)
}

// Classification table, first match wins.
var classifiers = []struct {
	re  *regexp.Regexp
	cat Category
}{
	{regexp.MustCompile(`^(color|fill|stroke|(outline|caret|accent|text-decoration)-color)$`), CategoryColor},
	{regexp.MustCompile(`^background(-color)?$`), CategoryBackground},
	{regexp.MustCompile(`^background-image$`), CategoryBackgroundImage},
	{regexp.MustCompile(`^border(-(top|right|bottom|left))?(-color)?$`), CategoryBorder},
	{regexp.MustCompile(`^box-shadow$`), CategoryBoxShadow},
	{regexp.MustCompile(`^(margin|padding)(-[a-z]+)*$|^(grid-)?((row|column)-)?gap$`), CategorySpacing},
	{regexp.MustCompile(`^border(-[a-z]+)*-radius$`), CategoryRadius},
	{regexp.MustCompile(`^font-family$`), CategoryFontFamily},
	{regexp.MustCompile(`^font-size$`), CategoryFontSize},
	{regexp.MustCompile(`^font-weight$`), CategoryFontWeight},
	{regexp.MustCompile(`^line-height$`), CategoryLineHeight},
}

// Classify maps property name to its token category. Properties of no
// interest return false.
func Classify(prop string) (Category, bool) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for _, c := range classifiers {
		if c.re.MatchString(prop) {
			return c.cat, true
		}
	}
	return "", false
}

// Values which never become tokens.
var disallowed = map[string]bool{
	"none":         true,
	"initial":      true,
	"auto":         true,
	"inherit":      true,
	"transparent":  true,
	"unset":        true,
	"revert":       true,
	"revert-layer": true,
	"currentcolor": true,
}

var disallowedByCategory = map[Category]map[string]bool{
	CategoryColor: {
		"context-fill":   true,
		"context-stroke": true,
	},
}

// IsDisallowed reports whether value must not be turned into a token of the
// category.
func IsDisallowed(cat Category, value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || disallowed[v] {
		return true
	}
	return disallowedByCategory[cat][v]
}

// isReference reports values referencing something outside of the
// declaration: custom properties, preprocessor variables and currentColor.
func isReference(value string) bool {
	v := strings.ToLower(value)
	return strings.Contains(v, "var(") ||
		strings.Contains(v, "currentcolor") ||
		strings.Contains(v, "#{") ||
		strings.Contains(v, "$")
}
