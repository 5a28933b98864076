package syntax

import (
	"strings"

	"github.com/doxify/go-doxify/internal/tree"
)

// maxLabelLength caps label and attribute scanning so that a line full of
// directive openers stays linear.
const maxLabelLength = 1024

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpaceOrTab(c byte) bool {
	return c == ' ' || c == '\t'
}

// scanName reads a directive name starting at pos: a letter followed by
// letters, digits, '-' or '_'. It returns pos unchanged when no name starts there.
func scanName(line []byte, pos int) (string, int) {
	if pos >= len(line) || !isASCIILetter(line[pos]) {
		return "", pos
	}
	i := pos + 1
	for i < len(line) {
		c := line[i]
		if isASCIILetter(c) || isASCIIDigit(c) || c == '-' || c == '_' {
			i++
			continue
		}
		break
	}
	return string(line[pos:i]), i
}

// scanLabel reads a bracketed label starting at line[pos] == '['. Brackets
// nest and backslash escapes are skipped. start and stop delimit the label
// content; next is the index after the closing bracket.
func scanLabel(line []byte, pos int) (start, stop, next int, ok bool) {
	if pos >= len(line) || line[pos] != '[' {
		return 0, 0, pos, false
	}
	depth := 0
	limit := min(len(line), pos+maxLabelLength)
	for i := pos; i < limit; i++ {
		switch line[i] {
		case '\\':
			i++
		case '\n', '\r':
			return 0, 0, pos, false
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return pos + 1, i, i + 1, true
			}
		}
	}
	return 0, 0, pos, false
}

// scanAttributes reads an attribute block starting at line[pos] == '{'.
// Supported forms: #id, .class, key=value, key="value", key='value' and a
// bare key. Classes accumulate; other repeated keys keep the last value.
func scanAttributes(line []byte, pos int) (tree.Attributes, int, bool) {
	if pos >= len(line) || line[pos] != '{' {
		return nil, pos, false
	}
	limit := min(len(line), pos+maxLabelLength)
	var (
		attrs   tree.Attributes
		classes []string
	)
	i := pos + 1
	for i < limit {
		c := line[i]
		switch {
		case isSpaceOrTab(c):
			i++
		case c == '}':
			if len(classes) > 0 {
				attrs.Set("class", strings.Join(classes, " "))
			}
			return attrs, i + 1, true
		case c == '#' || c == '.':
			j := i + 1
			for j < limit && isShortcutChar(line[j]) {
				j++
			}
			if j == i+1 {
				return nil, pos, false
			}
			if c == '#' {
				attrs.Set("id", string(line[i+1:j]))
			} else {
				classes = append(classes, string(line[i+1:j]))
			}
			i = j
		case isKeyStart(c):
			j := i + 1
			for j < limit && isKeyChar(line[j]) {
				j++
			}
			key := string(line[i:j])
			if j < limit && line[j] == '=' {
				value, next, ok := scanValue(line, j+1, limit)
				if !ok {
					return nil, pos, false
				}
				if key == "class" {
					classes = append(classes, strings.Fields(value)...)
				} else {
					attrs.Set(key, value)
				}
				i = next
				continue
			}
			if key != "class" {
				attrs.Set(key, "")
			}
			i = j
		default:
			return nil, pos, false
		}
	}
	return nil, pos, false
}

func scanValue(line []byte, pos, limit int) (string, int, bool) {
	if pos >= limit {
		return "", pos, false
	}
	if q := line[pos]; q == '"' || q == '\'' {
		for j := pos + 1; j < limit; j++ {
			switch line[j] {
			case q:
				return string(line[pos+1 : j]), j + 1, true
			case '\n', '\r':
				return "", pos, false
			}
		}
		return "", pos, false
	}
	j := pos
	for j < limit && isUnquotedChar(line[j]) {
		j++
	}
	if j == pos {
		return "", pos, false
	}
	return string(line[pos:j]), j, true
}

func isShortcutChar(c byte) bool {
	return isASCIILetter(c) || isASCIIDigit(c) || c == '-' || c == '_' || c == ':'
}

func isKeyStart(c byte) bool {
	return isASCIILetter(c) || c == '_' || c == ':'
}

func isKeyChar(c byte) bool {
	return isKeyStart(c) || isASCIIDigit(c) || c == '-' || c == '.'
}

func isUnquotedChar(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '"', '\'', '=', '<', '>', '`', '}':
		return false
	}
	return true
}

// isBlankFrom reports whether line holds only spaces, tabs and line endings from pos on.
func isBlankFrom(line []byte, pos int) bool {
	for i := pos; i < len(line); i++ {
		switch line[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
