// Package report gathers statistics of literal values used in stylesheets.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"themer/css"
	"themer/theme"
)

// Stat is a number of occurrences of a single value.
type Stat struct {
	Value string
	Count int
}

// Section counts occurrences of values of the same kind.
type Section struct {
	Title   string
	Heading string // First column name

	counts map[string]int
	order  []string
}

func newSection(title, heading string) *Section {
	return &Section{Title: title, Heading: heading, counts: make(map[string]int)}
}

func (s *Section) add(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := s.counts[value]; !ok {
		s.order = append(s.order, value)
	}
	s.counts[value]++
}

// Stats returns values ordered by number of occurrences, values seen the
// same number of times keep first seen order.
func (s *Section) Stats() []Stat {
	res := make([]Stat, 0, len(s.order))
	for _, v := range s.order {
		res = append(res, Stat{Value: v, Count: s.counts[v]})
	}
	slices.SortStableFunc(res, func(a, b Stat) int {
		return b.Count - a.Count
	})
	return res
}

// FileName returns name of the CSV file for the section.
func (s *Section) FileName() string {
	return "report-" + slug.Make(s.Title) + ".csv"
}

// WriteCSV writes section as two column CSV.
func (s *Section) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{s.Heading, "Occurrence"}); err != nil {
		return err
	}
	for _, st := range s.Stats() {
		if err := cw.Write([]string{st.Value, strconv.Itoa(st.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Report is a set of statistics collected from stylesheets.
type Report struct {
	Colors       *Section
	BorderColors *Section
	TextColors   *Section
	ShadowColors *Section
	Spacings     *Section
	Radii        *Section
	BoxShadows   *Section
	FontSizes    *Section
}

// New returns empty report.
func New() *Report {
	return &Report{
		Colors:       newSection("Colors general", "Color"),
		BorderColors: newSection("Border colors", "Color"),
		TextColors:   newSection("Text colors", "Color"),
		ShadowColors: newSection("Shadow colors", "Color"),
		Spacings:     newSection("Spacings", "Spacing"),
		Radii:        newSection("Border radii", "Radius"),
		BoxShadows:   newSection("Box shadows", "Shadow"),
		FontSizes:    newSection("Font sizes", "Font size"),
	}
}

// Sections returns all sections in output order.
func (r *Report) Sections() []*Section {
	return []*Section{r.Colors, r.BorderColors, r.TextColors, r.ShadowColors, r.Spacings, r.Radii, r.BoxShadows, r.FontSizes}
}

// Collect returns report for a single stylesheet.
func Collect(sheet *css.Stylesheet) *Report {
	r := New()
	r.Add(sheet)
	return r
}

// Add accumulates statistics of the sheet. Only declarations inside of rules
// are counted, values referencing custom properties are ignored.
func (r *Report) Add(sheet *css.Stylesheet) {
	// callback never fails
	_ = sheet.WalkDecls(func(d *css.Declaration) error {
		if d.Rule() == nil || strings.Contains(strings.ToLower(d.Value), "var(") {
			return nil
		}
		prop := strings.ToLower(d.Prop)
		cat, ok := theme.Classify(prop)
		if !ok {
			return nil
		}

		switch cat {
		case theme.CategoryColor, theme.CategoryBorder, theme.CategoryBackground, theme.CategoryBoxShadow:
			for _, m := range theme.ExtractColors(d.Value) {
				r.Colors.add(m.Text)
				switch {
				case strings.Contains(prop, "border"):
					r.BorderColors.add(m.Text)
				case strings.Contains(prop, "box-shadow"):
					r.ShadowColors.add(m.Text)
				case prop == "color":
					r.TextColors.add(m.Text)
				}
			}
		}

		switch cat {
		case theme.CategorySpacing:
			for _, seg := range theme.SplitValue(d.Value) {
				r.Spacings.add(seg.Text)
			}
		case theme.CategoryRadius:
			for _, seg := range theme.SplitValue(d.Value) {
				if seg.Text != "/" {
					r.Radii.add(seg.Text)
				}
			}
		case theme.CategoryBoxShadow:
			r.BoxShadows.add(d.Value)
		case theme.CategoryFontSize:
			r.FontSizes.add(d.Value)
		}
		return nil
	})
}

// Write writes every section into its own CSV file in dir. Returns names of
// written files.
func (r *Report) Write(dir string, log *zap.Logger) (files []string, err error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create report directory: %w", err)
	}

	for _, s := range r.Sections() {
		name := filepath.Join(dir, s.FileName())
		if werr := writeFile(name, s); werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		log.Debug("CSV written", zap.String("file", name), zap.Int("values", len(s.order)))
		files = append(files, name)
	}
	return files, err
}

func writeFile(name string, s *Section) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return fmt.Errorf("unable to create report file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	if err := s.WriteCSV(f); err != nil {
		return fmt.Errorf("unable to write report file %s: %w", name, err)
	}
	return nil
}
