package css

import (
	"bytes"
)

// MakeCommentsSafe turns "//" line comments (SCSS style, invalid in plain CSS)
// into block comments so the stylesheet could be tokenized. Strings, block
// comments and url(...) contents are left alone, as is "//" immediately after
// ":" (protocol part of unquoted URLs).
func MakeCommentsSafe(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '"' || c == '\'':
			end := skipString(data, i)
			out.Write(data[i:end])
			i = end
		case c == '/' && i+1 < len(data) && data[i+1] == '*':
			end := bytes.Index(data[i+2:], []byte("*/"))
			if end < 0 {
				out.Write(data[i:])
				return out.Bytes()
			}
			end += i + 4
			out.Write(data[i:end])
			i = end
		case c == '/' && i+1 < len(data) && data[i+1] == '/' && (i == 0 || data[i-1] != ':'):
			end := bytes.IndexAny(data[i:], "\r\n")
			if end < 0 {
				end = len(data)
			} else {
				end += i
			}
			text := bytes.TrimSpace(data[i+2 : end])
			if len(text) == 0 {
				out.WriteString("/**/")
			} else {
				out.WriteString("/* ")
				out.Write(bytes.ReplaceAll(text, []byte("*/"), []byte("* /")))
				out.WriteString(" */")
			}
			i = end
		case (c == 'u' || c == 'U') && hasURLPrefix(data[i:]) && (i == 0 || !isNameByte(data[i-1])):
			end := skipURL(data, i+4)
			out.Write(data[i:end])
			i = end
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.Bytes()
}

// skipString returns position right after the string starting at i. Escapes
// are honored, unterminated strings end at line end.
func skipString(data []byte, i int) int {
	quote := data[i]
	for j := i + 1; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(data)
}

func hasURLPrefix(data []byte) bool {
	return len(data) >= 4 && bytes.EqualFold(data[:4], []byte("url("))
}

// skipURL returns position right after ")" closing url( which content starts at i.
func skipURL(data []byte, i int) int {
	for j := i; j < len(data); j++ {
		switch data[j] {
		case '"', '\'':
			j = skipString(data, j) - 1
		case '\\':
			j++
		case ')':
			return j + 1
		}
	}
	return len(data)
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
