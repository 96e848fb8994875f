package packagexml

import "strings"

// unIndent strips the indentation of the first non-blank line from every line
// of a free-text block. Lines indented less than the first keep their text with
// leading blanks removed.
func unIndent(raw string) string {
	s := strings.TrimLeft(raw, "\r\n")
	indentLen := len(s) - len(strings.TrimLeft(s, " \t"))
	indent := s[:indentLen]

	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(line, indent) {
			b.WriteString(line[indentLen:])
		} else {
			b.WriteString(strings.TrimLeft(line, " \t"))
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), " \t\r\n")
}
