package encoder

import (
	"strconv"
	"strings"
)

var reservedScalars = map[string]bool{
	"true": true, "false": true, "yes": true, "no": true,
	"null": true, "~": true,
}

// isReservedScalar reports whether text, written unquoted, would be
// re-parsed as something other than a plain string.
func isReservedScalar(text string) bool {
	if reservedScalars[strings.ToLower(text)] {
		return true
	}
	if text == "" {
		return true
	}
	if _, err := strconv.ParseFloat(text, 64); err == nil {
		return true
	}
	return false
}

const reservedLeadingChars = "-?*&!|>%@`#'\"[]{},"

// needsQuoting reports whether text contains a character or layout reserved
// for YAML structure, and so cannot be written as a plain scalar.
func needsQuoting(text string) bool {
	if text == "" {
		return true
	}
	if strings.ContainsRune(reservedLeadingChars, rune(text[0])) {
		return true
	}
	if strings.HasPrefix(text, "- ") || text == "-" {
		return true
	}
	if strings.Contains(text, "\n") {
		return true
	}
	if strings.ContainsAny(text, ",]}") {
		return true
	}
	if strings.HasSuffix(text, " ") || strings.HasSuffix(text, "\t") {
		return true
	}
	if strings.Contains(text, ": ") || strings.HasSuffix(text, ":") {
		return true
	}
	for i, r := range text {
		if r == '#' && i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
			return true
		}
	}
	return isReservedScalar(text)
}

// escapeDoubleQuoted renders text as the body of a double-quoted scalar,
// the mirror image of the scanner's double-quote escape decoding.
func escapeDoubleQuoted(text string, buf []byte) []byte {
	buf = buf[:0]
	for _, r := range text {
		switch r {
		case '\\':
			buf = append(buf, '\\', '\\')
		case '"':
			buf = append(buf, '\\', '"')
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\r':
			buf = append(buf, '\\', 'r')
		case 0:
			buf = append(buf, '\\', '0')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			buf = append(buf, string(r)...)
		}
	}
	return buf
}

// escapeSingleQuoted renders text as the body of a single-quoted scalar:
// the only escape is doubling an embedded single quote.
func escapeSingleQuoted(text string) string {
	return strings.ReplaceAll(text, "'", "''")
}
