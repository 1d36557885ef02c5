package compiler

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestLineCol(t *testing.T) {
	src := Source{Text: "ab\ncd\n\nx"}
	tests := []struct {
		offset    int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{2, 1, 3}, // the newline itself
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 4, 1},
		{8, 4, 2}, // end of input
		{-5, 1, 1},
		{99, 4, 2},
	}
	for _, tt := range tests {
		line, col := src.LineCol(tt.offset)
		if line != tt.line || col != tt.col {
			t.Errorf("LineCol(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.col)
		}
	}
}

func TestDiagnose(t *testing.T) {
	src := Source{Path: "main.dg", Text: "int x;\nint = 2;"}
	err := src.Diagnose(&Error{Kind: SyntaxError, Pos: 11, Msg: "Expected identifier"})

	var d *Diagnostic
	if !errors.As(err, &d) {
		t.Fatalf("Diagnose returned %T, want *Diagnostic", err)
	}
	if got, want := d.Error(), "main.dg:2:5 error: Expected identifier"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got, want := d.Colored(), "main.dg:2:5 \x1b[31merror: \x1b[0mExpected identifier"; got != want {
		t.Errorf("Colored() = %q, want %q", got, want)
	}

	var inner *Error
	if !errors.As(err, &inner) || inner.Pos != 11 {
		t.Errorf("Diagnostic does not unwrap to the original *Error")
	}

	if again := src.Diagnose(err); again != err {
		t.Errorf("Diagnose wrapped a *Diagnostic a second time")
	}
	wrapped := fmt.Errorf("compile: %w", err)
	if again := src.Diagnose(wrapped); again != wrapped {
		t.Errorf("Diagnose rewrapped an error that already holds a *Diagnostic")
	}
}

func TestDiagnosePassesOtherErrors(t *testing.T) {
	src := Source{Path: "main.dg"}
	if got := src.Diagnose(io.EOF); got != io.EOF {
		t.Errorf("Diagnose(io.EOF) = %v, want io.EOF", got)
	}
	if got := src.Diagnose(nil); got != nil {
		t.Errorf("Diagnose(nil) = %v, want nil", got)
	}
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: LexicalError, Pos: 3, Msg: "bad"}
	if got, want := e.Error(), "lexical error at offset 3: bad"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsIncomplete(t *testing.T) {
	src := Source{Path: "repl"}
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"Nil", nil, false},
		{"Other", io.EOF, false},
		{"Complete", &Error{Msg: "x"}, false},
		{"Incomplete", &Error{Incomplete: true}, true},
		{"Diagnosed", src.Diagnose(&Error{Incomplete: true}), true},
		{"Wrapped", fmt.Errorf("repl: %w", &Error{Incomplete: true}), true},
	}
	for _, tt := range tests {
		if got := IsIncomplete(tt.err); got != tt.want {
			t.Errorf("%s: IsIncomplete = %v, want %v", tt.name, got, tt.want)
		}
	}
}
