package compiler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"dig/pkg/grammar"
)

// number modes
const (
	modeDecimal = iota
	modeHex
	modeBinary
	modeOctal
)

// Lexer holds all mutable state for a single scanning pass over a Source.
// Comments must already have been removed (see StripComments).
type Lexer struct {
	src Source
	pos int // byte offset of the next character to consume
}

func NewLexer(src Source) *Lexer {
	return &Lexer{src: src}
}

// Offset returns the byte offset of the next unread character.
func (l *Lexer) Offset() int { return l.pos }

// peek returns the byte at the current position, or 0 at end of input.
func (l *Lexer) peek() byte {
	return l.peekAt(0)
}

func (l *Lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.src.Text) {
		return 0
	}
	return l.src.Text[l.pos+n]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src.Text)
}

func (l *Lexer) errorf(pos int, format string, args ...any) *Error {
	return &Error{Kind: LexicalError, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func isAlpha(c byte) bool    { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexAlpha(c byte) bool { return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func (l *Lexer) skipBlank() {
	for !l.atEnd() {
		switch l.peek() {
		case ' ', '\t', '\r', '\n':
			l.pos++
		default:
			return
		}
	}
}

// Next returns the next token, or an EOF token once the input is exhausted.
// Calling Next after EOF keeps returning EOF.
func (l *Lexer) Next() (Token, error) {
	l.skipBlank()
	if l.atEnd() {
		return Token{Kind: EOF, Pos: len(l.src.Text)}, nil
	}

	c := l.peek()
	switch {
	case isAlpha(c) || c == '_':
		return l.scanWord(), nil
	case c == '\'':
		return l.scanChar()
	case isDigit(c) || (c == '.' && isDigit(l.peekAt(1))):
		return l.scanNumber()
	case c == '"':
		return l.scanString()
	}
	return l.scanOperator()
}

// scanWord collects an identifier, keyword or vartype.
func (l *Lexer) scanWord() Token {
	start := l.pos
	for !l.atEnd() {
		c := l.peek()
		if !isAlpha(c) && !isDigit(c) && c != '_' {
			break
		}
		l.pos++
	}
	word := l.src.Text[start:l.pos]
	if id := grammar.Lookup(word); id != grammar.None {
		return Token{Kind: KEYWORD, ID: id, Pos: start}
	}
	return Token{Kind: IDENTIFIER, Text: word, Pos: start}
}

// scanQuoted consumes from an opening quote to the matching unescaped
// closing quote and returns the raw text between them.
func (l *Lexer) scanQuoted(quote byte, what string) (string, *Error) {
	start := l.pos
	l.pos++ // opening quote
	escaped := false
	for !l.atEnd() {
		c := l.peek()
		if c == quote && !escaped {
			raw := l.src.Text[start+1 : l.pos]
			l.pos++ // closing quote
			return raw, nil
		}
		escaped = c == '\\' && !escaped
		l.pos++
	}
	err := l.errorf(start, "No closing %s for this pair, add it somewhere", what)
	err.Incomplete = true
	return "", err
}

// scanChar collects a character literal 'c'. Character literals are NUMBER
// tokens holding the code point.
func (l *Lexer) scanChar() (Token, error) {
	start := l.pos
	raw, err := l.scanQuoted('\'', "single quote")
	if err != nil {
		return Token{}, err
	}
	val := unescape(raw)
	switch utf8.RuneCountInString(val) {
	case 0:
		return Token{}, l.errorf(start, "Empty character literal, single quotes need exactly one character")
	case 1:
		r, _ := utf8.DecodeRuneInString(val)
		return Token{Kind: NUMBER, Num: float64(r), Pos: start}, nil
	default:
		return Token{}, l.errorf(start, "Single quotes are meant for single character literals, more were given")
	}
}

// scanString collects a string literal "...". A quote preceded by an odd
// number of backslashes does not end the literal.
func (l *Lexer) scanString() (Token, error) {
	start := l.pos
	raw, err := l.scanQuoted('"', "double quotes")
	if err != nil {
		return Token{}, err
	}
	return Token{Kind: STRING, Text: unescape(raw), Pos: start}, nil
}

// scanNumber collects a decimal, hexadecimal (0x), binary (0b) or octal (o)
// literal. Every value is stored as a float64.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos

	// .12 -> 0.12
	if l.peek() == '.' {
		l.pos++
		var sb strings.Builder
		sb.WriteString("0.")
		for isDigit(l.peek()) {
			sb.WriteByte(l.peek())
			l.pos++
		}
		v, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil {
			return Token{}, l.errorf(start, "Invalid number literal %q", l.src.Text[start:l.pos])
		}
		return Token{Kind: NUMBER, Num: v, Pos: start}, nil
	}

	mode := modeDecimal
	hasDot := false
	var v strings.Builder

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'b') {
		if l.peekAt(1) == 'x' {
			mode = modeHex
		} else {
			mode = modeBinary
		}
		l.pos += 2
	}

scan:
	for !l.atEnd() {
		c := l.peek()
		switch {
		case isDigit(c):
		case mode == modeHex && isHexAlpha(c):
		case c == '.' && mode == modeDecimal:
			if hasDot {
				return Token{}, l.errorf(l.pos, "Float number has two or more dots, it should only have one")
			}
			hasDot = true
		case c == 'o' && mode == modeDecimal:
			// an o anywhere restarts the literal in octal
			mode = modeOctal
			hasDot = false
			v.Reset()
			l.pos++
			continue
		default:
			break scan
		}
		v.WriteByte(c)
		l.pos++
	}

	digits := v.String()
	if strings.HasSuffix(digits, ".") { // 12. -> 12.0
		digits += "0"
	}
	if digits == "" {
		return Token{}, l.errorf(start, "Number literal %q has no digits", l.src.Text[start:l.pos])
	}

	var (
		num float64
		err error
	)
	switch mode {
	case modeDecimal:
		if hasDot {
			num, err = strconv.ParseFloat(digits, 64)
		} else {
			num, err = parseUnsigned(digits, 10)
		}
	case modeHex:
		num, err = parseUnsigned(digits, 16)
	case modeBinary:
		num, err = parseUnsigned(digits, 2)
	case modeOctal:
		num, err = parseUnsigned(digits, 8)
	}
	if err != nil {
		return Token{}, l.errorf(start, "Invalid number literal %q", l.src.Text[start:l.pos])
	}
	return Token{Kind: NUMBER, Num: num, Pos: start}, nil
}

func parseUnsigned(s string, base int) (float64, error) {
	u, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, err
	}
	return float64(u), nil
}

// scanOperator greedily collects operator characters and then shortens the
// candidate until it matches a known spelling, so <= wins over <.
func (l *Lexer) scanOperator() (Token, error) {
	start := l.pos
	end := start
	for end < len(l.src.Text) && end-start < grammar.MaxOperatorLen && grammar.IsOperatorChar(l.src.Text[end]) {
		end++
	}
	for ; end > start; end-- {
		if id := grammar.LookupOperator(l.src.Text[start:end]); id != grammar.None {
			l.pos = end
			return Token{Kind: OPERATOR, ID: id, Pos: start}, nil
		}
	}
	r, _ := utf8.DecodeRuneInString(l.src.Text[start:])
	return Token{}, l.errorf(start, "We reached an unexpected character: '%c'", r)
}

// unescape resolves the escape sequences shared by string and character
// literals. Unknown escapes are kept as written.
func unescape(raw string) string {
	if strings.IndexByte(raw, '\\') < 0 {
		return raw
	}
	var sb strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			sb.WriteByte(c)
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'v':
			sb.WriteByte('\v')
		case 'b':
			sb.WriteByte('\b')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case 'a':
			sb.WriteByte('\a')
		case '\\':
			sb.WriteByte('\\')
		case '?':
			sb.WriteByte('?')
		case '\'':
			sb.WriteByte('\'')
		case '"':
			sb.WriteByte('"')
		case '0':
			sb.WriteByte(0)
		default:
			sb.WriteByte('\\')
			sb.WriteByte(raw[i])
		}
	}
	return sb.String()
}
