package ldjson

import "strings"

// Sanitize escapes raw control characters that appear inside JSON string
// literals. Embedded metadata blocks often carry literal newlines or tabs in
// free-text fields, which encoding/json rejects.
//
// The walk tracks two states: whether we are inside a string, and whether the
// previous byte inside that string was a backslash. Outside strings, and
// immediately after an escape, bytes pass through unchanged. Text that has no
// raw control characters inside string literals is returned byte-for-byte.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw) + 16)

	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]

		if !inString {
			if c == '"' {
				inString = true
			}
			b.WriteByte(c)
			continue
		}

		if escaped {
			escaped = false
			b.WriteByte(c)
			continue
		}

		switch c {
		case '\\':
			escaped = true
			b.WriteByte(c)
		case '"':
			inString = false
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\f':
			b.WriteString(`\f`)
		case '\b':
			b.WriteString(`\b`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
