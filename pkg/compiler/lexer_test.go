package compiler

import (
	"errors"
	"reflect"
	"testing"

	"dig/pkg/grammar"
)

func lexAll(input string) ([]Token, error) {
	l := NewLexer(Source{Path: "test.dg", Text: input})
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func op(id grammar.ID, pos int) Token { return Token{Kind: OPERATOR, ID: id, Pos: pos} }
func kw(id grammar.ID, pos int) Token { return Token{Kind: KEYWORD, ID: id, Pos: pos} }
func ident(s string, pos int) Token   { return Token{Kind: IDENTIFIER, Text: s, Pos: pos} }
func num(v float64, pos int) Token    { return Token{Kind: NUMBER, Num: v, Pos: pos} }
func str(s string, pos int) Token     { return Token{Kind: STRING, Text: s, Pos: pos} }
func eof(pos int) Token               { return Token{Kind: EOF, Pos: pos} }

func TestLex(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:     "Empty",
			input:    "",
			expected: []Token{eof(0)},
		},
		{
			name:     "Only Whitespace",
			input:    " \t\r\n ",
			expected: []Token{eof(5)},
		},
		{
			name:  "Operators",
			input: "+ - <= >= == != && || << >> ( ) ;",
			expected: []Token{
				op(grammar.Plus, 0),
				op(grammar.Minus, 2),
				op(grammar.LessEq, 4),
				op(grammar.GreaterEq, 7),
				op(grammar.Equals, 10),
				op(grammar.NotEq, 13),
				op(grammar.AndLogical, 16),
				op(grammar.OrLogical, 19),
				op(grammar.Shl, 22),
				op(grammar.Shr, 25),
				op(grammar.LParen, 28),
				op(grammar.RParen, 30),
				op(grammar.Semicolon, 32),
				eof(33),
			},
		},
		{
			name:  "Longest Operator Wins Then Shrinks",
			input: "a<=-b",
			expected: []Token{
				ident("a", 0),
				op(grammar.LessEq, 1),
				op(grammar.Minus, 3),
				ident("b", 4),
				eof(5),
			},
		},
		{
			name:  "Keywords Vartypes and Identifiers",
			input: "import as fun int var myVar _x",
			expected: []Token{
				kw(grammar.Import, 0),
				kw(grammar.As, 7),
				kw(grammar.Fun, 10),
				kw(grammar.Int, 14),
				kw(grammar.Var, 18),
				ident("myVar", 22),
				ident("_x", 28),
				eof(30),
			},
		},
		{
			name:  "Numbers",
			input: "42 3.5 .25 7. 0x1F 0b101 0o17",
			expected: []Token{
				num(42, 0),
				num(3.5, 3),
				num(0.25, 7),
				num(7, 11),
				num(31, 14),
				num(5, 19),
				num(15, 25),
				eof(29),
			},
		},
		{
			name:  "Member Access Is Not A Number",
			input: "a.b",
			expected: []Token{
				ident("a", 0),
				op(grammar.Dot, 1),
				ident("b", 2),
				eof(3),
			},
		},
		{
			name:  "Strings",
			input: `"hi\n" "a\"b"`,
			expected: []Token{
				str("hi\n", 0),
				str(`a"b`, 7),
				eof(13),
			},
		},
		{
			name:  "Escaped Backslash Closes String",
			input: `"a\\" x`,
			expected: []Token{
				str(`a\`, 0),
				ident("x", 6),
				eof(7),
			},
		},
		{
			name:  "Characters",
			input: `'a' '\n'`,
			expected: []Token{
				num(97, 0),
				num(10, 4),
				eof(8),
			},
		},
		{
			name:  "Statement",
			input: "int x = 10;",
			expected: []Token{
				kw(grammar.Int, 0),
				ident("x", 4),
				op(grammar.Assign, 6),
				num(10, 8),
				op(grammar.Semicolon, 10),
				eof(11),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := lexAll(tt.input)
			if err != nil {
				t.Fatalf("lex(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(tokens, tt.expected) {
				t.Errorf("lex(%q)\n got: %v\nwant: %v", tt.input, tokens, tt.expected)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		pos        int
		msg        string
		incomplete bool
	}{
		{"Unterminated String", `x = "abc`, 4, "No closing double quotes for this pair, add it somewhere", true},
		{"Unterminated Char", `'a`, 0, "No closing single quote for this pair, add it somewhere", true},
		{"Empty Char", `''`, 0, "Empty character literal, single quotes need exactly one character", false},
		{"Multi Char", `'ab'`, 0, "Single quotes are meant for single character literals, more were given", false},
		{"Two Dots", `1.2.3`, 3, "Float number has two or more dots, it should only have one", false},
		{"Unknown Character", `a $ b`, 2, "We reached an unexpected character: '$'", false},
		{"Hex Without Digits", `0x;`, 0, `Number literal "0x" has no digits`, false},
		{"Binary With Bad Digit", `0b12`, 0, `Invalid number literal "0b12"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexAll(tt.input)
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("lex(%q) error = %v, want *Error", tt.input, err)
			}
			if lexErr.Kind != LexicalError {
				t.Errorf("Kind = %v, want %v", lexErr.Kind, LexicalError)
			}
			if lexErr.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", lexErr.Pos, tt.pos)
			}
			if lexErr.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", lexErr.Msg, tt.msg)
			}
			if lexErr.Incomplete != tt.incomplete {
				t.Errorf("Incomplete = %v, want %v", lexErr.Incomplete, tt.incomplete)
			}
		})
	}
}

func TestLexerNextAfterEOF(t *testing.T) {
	l := NewLexer(Source{Text: "x"})
	for i := 0; i < 3; i++ {
		if _, err := l.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	tok, err := l.Next()
	if err != nil || tok.Kind != EOF || tok.Pos != 1 {
		t.Errorf("Next after EOF = %v, %v; want EOF at 1", tok, err)
	}
	if l.Offset() != 1 {
		t.Errorf("Offset = %d, want 1", l.Offset())
	}
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		raw, want string
	}{
		{`plain`, "plain"},
		{`a\tb`, "a\tb"},
		{`\\`, `\`},
		{`\'\"\?`, `'"?`},
		{`\0`, "\x00"},
		{`\q`, `\q`},
		{`end\`, `end\`},
	}
	for _, tt := range tests {
		if got := unescape(tt.raw); got != tt.want {
			t.Errorf("unescape(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestTokenLexeme(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{ident("x", 0), "x"},
		{str("a b", 0), `"a b"`},
		{num(2.5, 0), "2.5"},
		{kw(grammar.While, 0), "while"},
		{op(grammar.NotEq, 0), "!="},
		{Token{Kind: ROOT}, "<root>"},
		{eof(0), "<eof>"},
	}
	for _, tt := range tests {
		if got := tt.tok.Lexeme(); got != tt.want {
			t.Errorf("%v.Lexeme() = %q, want %q", tt.tok.Kind, got, tt.want)
		}
	}
}
