package css_test

import (
	"testing"

	"themer/css"
)

func TestMakeCommentsSafe(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"line comment", "a { color: red; // note\n}", "a { color: red; /* note */\n}"},
		{"empty line comment", "//\na {}", "/**/\na {}"},
		{"comment at end", "a {} // bye", "a {} /* bye */"},
		{"closing inside comment", "// a */ b\n", "/* a * / b */\n"},
		{"block comment untouched", "/* // not a line comment */ a {}", "/* // not a line comment */ a {}"},
		{"string untouched", `a { content: "//x"; }`, `a { content: "//x"; }`},
		{"url untouched", "a { background: url(//cdn.example.com/x.png); }", "a { background: url(//cdn.example.com/x.png); }"},
		{"protocol untouched", "@import http://example.com/x.css;", "@import http://example.com/x.css;"},
		{"crlf", "a {} // one\r\nb {}", "a {} /* one */\r\nb {}"},
		{"nothing to do", "a { color: red; }", "a { color: red; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(css.MakeCommentsSafe([]byte(tt.input)))
			if got != tt.want {
				t.Errorf("MakeCommentsSafe() = %q, want %q", got, tt.want)
			}
		})
	}
}
