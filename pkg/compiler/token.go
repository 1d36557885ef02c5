package compiler

import (
	"fmt"
	"strconv"

	"dig/pkg/grammar"
)

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input

	IDENTIFIER // variable / function name
	STRING     // string literal "..."
	NUMBER     // numeric or character literal
	KEYWORD    // keyword or vartype, see Token.ID
	OPERATOR   // operator or punctuation, see Token.ID

	ROOT // sentinel: head of a Stream
)

var tokenKindNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	STRING:     "STRING",
	NUMBER:     "NUMBER",
	KEYWORD:    "KEYWORD",
	OPERATOR:   "OPERATOR",
	ROOT:       "ROOT",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Token is a single lexical unit produced by the Lexer. Only the field
// matching Kind is meaningful: Text for IDENTIFIER and STRING, Num for
// NUMBER, ID for KEYWORD and OPERATOR.
type Token struct {
	Kind TokenKind
	Text string
	Num  float64
	ID   grammar.ID
	Pos  int // byte offset into the source, for diagnostics
}

// Is reports whether t is the keyword or operator id.
func (t Token) Is(id grammar.ID) bool {
	return (t.Kind == KEYWORD || t.Kind == OPERATOR) && t.ID == id
}

// Lexeme renders the token roughly as it appeared in the source.
func (t Token) Lexeme() string {
	switch t.Kind {
	case IDENTIFIER:
		return t.Text
	case STRING:
		return strconv.Quote(t.Text)
	case NUMBER:
		return strconv.FormatFloat(t.Num, 'g', -1, 64)
	case KEYWORD, OPERATOR:
		return grammar.Spelling(t.ID)
	case ROOT:
		return "<root>"
	default:
		return "<eof>"
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14s  at %d", t.Kind, t.Lexeme(), t.Pos)
}
