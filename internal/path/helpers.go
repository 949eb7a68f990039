package path

import (
	"strconv"
	"strings"
	"unicode"
)

// isCSSIdentRune reports whether r may appear unescaped in a CSS identifier
// at position i.
func isCSSIdentRune(r rune, i int) bool {
	switch {
	case r == '_' || r == '-' || unicode.IsLetter(r) || r > 127:
		return true
	case unicode.IsDigit(r) && i > 0:
		return true
	}
	return false
}

// isCSSIdent reports whether s is usable as a bare CSS identifier. A lone
// hyphen, or a leading hyphen followed by a digit, is not one.
func isCSSIdent(s string) bool {
	if s == "" || s == "-" {
		return false
	}
	if s[0] == '-' && s[1] >= '0' && s[1] <= '9' {
		return false
	}
	for i, r := range s {
		if !isCSSIdentRune(r, i) {
			return false
		}
	}
	return true
}

// cssEscape escapes a string for use inside a CSS identifier position
// (class or id shorthand). Leading digits, bare or behind a leading hyphen,
// need the hex form so they are not swallowed as part of a preceding escape.
func cssEscape(s string) string {
	if isCSSIdent(s) {
		return s
	}
	var sb strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsDigit(r) && (i == 0 || (i == 1 && s[0] == '-')):
			sb.WriteString("\\3")
			sb.WriteRune(r)
			sb.WriteRune(' ')
		case isCSSIdentRune(r, i):
			sb.WriteRune(r)
		default:
			sb.WriteRune('\\')
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// isNumeric reports whether a string is purely a number. Numeric link text
// ("3", "12") is rejected as a text qualifier: pagination labels repeat.
func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
