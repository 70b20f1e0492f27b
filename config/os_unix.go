//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"
)

const badFileNameChars = string(os.PathSeparator) + string(os.PathListSeparator) + "\x00"

// CleanFileName removes characters not allowed in file names and leading
// dots so generated names never become hidden.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if strings.ContainsRune(badFileNameChars, sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(strings.TrimSpace(out)) == 0 {
		return "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return stream != nil && term.IsTerminal(int(stream.Fd()))
}
