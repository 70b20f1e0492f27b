package convert

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is number of unchanged lines shown around each change.
const diffContext = 2

type diffPrinter struct {
	w                     *bufio.Writer
	added, removed, title *color.Color
}

func newDiffPrinter(w io.Writer, colored bool) *diffPrinter {
	p := &diffPrinter{
		w:       bufio.NewWriter(w),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		title:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.added, p.removed, p.title} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// lineDiff returns line level differences between two texts.
func lineDiff(before, after string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	return dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
}

func splitLines(text string) []string {
	return strings.SplitAfter(strings.TrimSuffix(text, "\n"), "\n")
}

// writeDiff prints changes between before and after. Nothing is printed when
// texts are the same.
func writeDiff(w io.Writer, name, before, after string, colored bool) (bool, error) {
	diffs := lineDiff(before, after)
	if len(diffs) == 0 || (len(diffs) == 1 && diffs[0].Type == diffmatchpatch.DiffEqual) {
		return false, nil
	}

	p := newDiffPrinter(w, colored)
	p.title.Fprintf(p.w, "--- %s\n+++ %s (rewritten)\n", name, name)

	for i, d := range diffs {
		lines := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			p.lines(p.added, "+", lines)
		case diffmatchpatch.DiffDelete:
			p.lines(p.removed, "-", lines)
		case diffmatchpatch.DiffEqual:
			p.context(lines, i == 0, i == len(diffs)-1)
		}
	}
	return true, p.w.Flush()
}

func (p *diffPrinter) lines(c *color.Color, mark string, lines []string) {
	for _, l := range lines {
		c.Fprint(p.w, mark+" "+strings.TrimSuffix(l, "\n"))
		fmt.Fprintln(p.w)
	}
}

// context prints unchanged lines trimmed to diffContext lines next to the
// changes.
func (p *diffPrinter) context(lines []string, first, last bool) {
	head, tail := diffContext, diffContext
	if first {
		head = 0
	}
	if last {
		tail = 0
	}
	if len(lines) <= head+tail {
		p.plain(lines)
		return
	}
	p.plain(lines[:head])
	fmt.Fprintf(p.w, "@@ %d unchanged lines @@\n", len(lines)-head-tail)
	p.plain(lines[len(lines)-tail:])
}

func (p *diffPrinter) plain(lines []string) {
	for _, l := range lines {
		fmt.Fprintln(p.w, "  "+strings.TrimSuffix(l, "\n"))
	}
}
