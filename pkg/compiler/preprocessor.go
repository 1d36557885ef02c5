package compiler

import "strings"

// StripComments blanks out // line comments and /* */ block comments.
// Every comment byte becomes a space except '\n', which is kept, so the
// result has the same length and line structure as src and lexer offsets
// still point at the right place in the original file.
//
// Comment markers inside string and character literals are not comments.
// An unterminated block comment runs to the end of the input.
func StripComments(src string) string {
	if !strings.Contains(src, "//") && !strings.Contains(src, "/*") {
		return src
	}

	out := []byte(src)
	n := len(src)
	blank := func(from, to int) {
		for k := from; k < to; k++ {
			if out[k] != '\n' {
				out[k] = ' '
			}
		}
	}

	i := 0
	for i < n {
		switch c := src[i]; {
		case c == '"' || c == '\'':
			// Skip the literal, honoring backslash escapes.
			i++
			for i < n && src[i] != c {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			i++

		case c == '/' && i+1 < n && src[i+1] == '/':
			end := strings.IndexByte(src[i:], '\n')
			if end < 0 {
				end = n
			} else {
				end += i
			}
			blank(i, end)
			i = end

		case c == '/' && i+1 < n && src[i+1] == '*':
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				end = n
			} else {
				end += i + 4
			}
			blank(i, end)
			i = end

		default:
			i++
		}
	}
	return string(out)
}
