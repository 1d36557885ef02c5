package compiler

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// ErrorKind separates lexer failures from parser failures.
type ErrorKind int

const (
	LexicalError ErrorKind = iota
	SyntaxError
)

func (k ErrorKind) String() string {
	if k == LexicalError {
		return "lexical error"
	}
	return "syntax error"
}

// Error is returned by the lexer and parser. Pos is a byte offset into the
// source; Source.Diagnose turns it into a line and column.
type Error struct {
	Kind ErrorKind
	Pos  int
	Msg  string

	// Incomplete is set when the input ran out before the construct did.
	Incomplete bool
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", e.Kind, e.Pos, e.Msg)
}

// Source is one compilation unit: the text the lexer reads and the path
// used to prefix diagnostics.
type Source struct {
	Path string
	Text string
}

// LineCol returns the 1-based line and column of a byte offset.
func (s Source) LineCol(offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	before := s.Text[:offset]
	line = 1 + strings.Count(before, "\n")
	col = offset - strings.LastIndexByte(before, '\n')
	return line, col
}

// Diagnostic is an Error resolved against its Source.
type Diagnostic struct {
	Path   string
	Line   int
	Column int
	Msg    string
	Err    *Error
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d error: %s", d.Path, d.Line, d.Column, d.Msg)
}

func (d *Diagnostic) Unwrap() error { return d.Err }

// Colored renders the diagnostic with a red "error:" prefix for terminals.
func (d *Diagnostic) Colored() string {
	return fmt.Sprintf("%s:%d:%d %serror: %s%s", d.Path, d.Line, d.Column, ansiRed, ansiReset, d.Msg)
}

// Diagnose converts an *Error into a *Diagnostic. Any other error is
// returned unchanged.
func (s Source) Diagnose(err error) error {
	var d *Diagnostic
	if errors.As(err, &d) {
		return err
	}
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	line, col := s.LineCol(e.Pos)
	return &Diagnostic{Path: s.Path, Line: line, Column: col, Msg: e.Msg, Err: e}
}

// IsIncomplete reports whether err was caused by the input ending before the
// construct being scanned or parsed did. Interactive callers use it to ask
// for more input.
func IsIncomplete(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Incomplete
}
