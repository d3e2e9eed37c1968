package dotosu

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText turns raw file content into a string. UTF-16 input is accepted
// when it starts with a byte order mark; everything else must be valid UTF-8.
func decodeText(data []byte) (string, error) {
	if hasUTF16BOM(data) {
		out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), data)
		if err != nil || !utf8.Valid(out) {
			return "", &NotTextError{Offset: 0}
		}
		return string(out), nil
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if off := invalidUTF8Offset(data); off >= 0 {
		return "", &NotTextError{Offset: off}
	}
	return string(data), nil
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFE, 0xFF}) || bytes.HasPrefix(data, []byte{0xFF, 0xFE})
}

func invalidUTF8Offset(data []byte) int {
	for i := 0; i < len(data); {
		if data[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}

// splitLines splits on \n, \r\n and bare \r. A final line terminator does not
// produce a trailing empty line.
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
