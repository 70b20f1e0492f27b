package convert

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteDiff_Same(t *testing.T) {
	var buf bytes.Buffer
	changed, err := writeDiff(&buf, "site.css", "a {}\n", "a {}\n", false)
	if err != nil {
		t.Fatalf("writeDiff() error = %v", err)
	}
	if changed || buf.Len() != 0 {
		t.Errorf("expected no output for identical texts, got %q", buf.String())
	}
}

func TestWriteDiff_Changes(t *testing.T) {
	before := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nold\nl9\n"
	after := "l1\nl2\nl3\nl4\nl5\nl6\nl7\nnew\nl9\n"

	var buf bytes.Buffer
	changed, err := writeDiff(&buf, "site.css", before, after, false)
	if err != nil {
		t.Fatalf("writeDiff() error = %v", err)
	}
	if !changed {
		t.Fatal("expected changes to be reported")
	}

	want := strings.Join([]string{
		"--- site.css",
		"+++ site.css (rewritten)",
		"@@ 5 unchanged lines @@",
		"  l6",
		"  l7",
		"- old",
		"+ new",
		"  l9",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("writeDiff() output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteDiff_Colored(t *testing.T) {
	var buf bytes.Buffer
	if _, err := writeDiff(&buf, "site.css", "a\n", "b\n", true); err != nil {
		t.Fatalf("writeDiff() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("expected escape sequences in colored output, got %q", buf.String())
	}
}
