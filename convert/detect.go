package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// styleExts lists extensions of files we are willing to process.
var styleExts = []string{".css", ".scss", ".pcss", ".less"}

type srcEncoding int

const (
	encUnknown srcEncoding = iota
	encUTF8
	encUTF16BigEndian
	encUTF16LittleEndian
	encUTF32BigEndian
	encUTF32LittleEndian
)

func isUTF32BigEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0x00 && buf[1] == 0x00 && buf[2] == 0xFE && buf[3] == 0xFF
}

func isUTF32LittleEndianBOM4(buf []byte) bool {
	return len(buf) >= 4 && buf[0] == 0xFF && buf[1] == 0xFE && buf[2] == 0x00 && buf[3] == 0x00
}

func isUTF8BOM3(buf []byte) bool {
	return len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF
}

func isUTF16BigEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF
}

func isUTF16LittleEndianBOM2(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE
}

// detectUTF looks at byte order mark. Order of checks matters: UTF-32 LE
// mark starts with UTF-16 LE one.
func detectUTF(buf []byte) srcEncoding {
	switch {
	case isUTF32BigEndianBOM4(buf):
		return encUTF32BigEndian
	case isUTF32LittleEndianBOM4(buf):
		return encUTF32LittleEndian
	case isUTF8BOM3(buf):
		return encUTF8
	case isUTF16BigEndianBOM2(buf):
		return encUTF16BigEndian
	case isUTF16LittleEndianBOM2(buf):
		return encUTF16LittleEndian
	}
	return encUnknown
}

func selectReader(r io.Reader, enc srcEncoding) io.Reader {
	switch enc {
	case encUnknown:
		return r
	case encUTF8:
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder())
	case encUTF16BigEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF16LittleEndian:
		return transform.NewReader(r, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder())
	case encUTF32BigEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM).NewDecoder())
	case encUTF32LittleEndian:
		return transform.NewReader(r, utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM).NewDecoder())
	}
	// this should never happen
	panic("unexpected source encoding")
}

// isArchiveFile checks if file is a zip archive by name and content.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return false, nil
	}

	// filetype needs first 262 bytes
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}

// isStyleName checks if name looks like a stylesheet we could process.
func isStyleName(name string) bool {
	return slices.Contains(styleExts, strings.ToLower(filepath.Ext(name)))
}

var charsetRule = regexp.MustCompile(`^@charset\s+["']([^"']+)["']\s*;`)

// readSource reads whole stylesheet converting it to UTF-8. Byte order mark
// wins over "@charset" rule, forced code page is only used when text is not
// valid UTF-8 already.
func readSource(r io.Reader, cp encoding.Encoding) ([]byte, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if enc := detectUTF(raw); enc != encUnknown {
		data, err := io.ReadAll(selectReader(bytes.NewReader(raw), enc))
		if err != nil {
			return nil, fmt.Errorf("unable to decode source: %w", err)
		}
		return data, nil
	}

	if utf8.Valid(raw) {
		return raw, nil
	}

	if cp == nil {
		if m := charsetRule.FindSubmatch(raw); m != nil {
			if e, err := ianaindex.IANA.Encoding(string(m[1])); err == nil && e != nil {
				cp = e
			}
		}
	}
	if cp == nil {
		return nil, fmt.Errorf("source is not valid UTF-8 and no character set is known")
	}

	data, err := cp.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("unable to decode source: %w", err)
	}
	return data, nil
}
