package compiler

import (
	"testing"

	"dig/pkg/grammar"
)

func TestTokenizeSentinels(t *testing.T) {
	s, err := Tokenize(Source{Text: "x = 1;"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("Len = %d, want 6 (ROOT x = 1 ; EOF)", s.Len())
	}
	if first := s.Tokens[0]; first.Kind != ROOT || first.Pos != 0 {
		t.Errorf("first token = %v, want ROOT at 0", first)
	}
	if last := s.Tokens[s.Len()-1]; last.Kind != EOF || last.Pos != 6 {
		t.Errorf("last token = %v, want EOF at 6", last)
	}
}

func TestTokenizeStopsAtFirstError(t *testing.T) {
	s, err := Tokenize(Source{Text: "x $ 'ab'"})
	if err == nil {
		t.Fatalf("Tokenize = %v, want error", s)
	}
	e, ok := err.(*Error)
	if !ok || e.Pos != 2 {
		t.Errorf("error = %v, want *Error at 2", err)
	}
}

func TestCursor(t *testing.T) {
	s, err := Tokenize(Source{Text: "a + b"})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	c := s.Cursor()

	if c.Current().Kind != ROOT {
		t.Fatalf("new cursor on %v, want ROOT", c.Current())
	}
	if got := c.Peek(2); !got.Is(grammar.Plus) {
		t.Errorf("Peek(2) = %v, want +", got)
	}
	if got := c.Peek(100); got.Kind != EOF {
		t.Errorf("Peek past end = %v, want EOF", got)
	}

	if prev := c.Advance(1); prev.Kind != ROOT {
		t.Errorf("Advance returned %v, want ROOT", prev)
	}
	if got := c.Current(); got.Kind != IDENTIFIER || got.Text != "a" {
		t.Errorf("Current = %v, want a", got)
	}
	if c.Index() != 1 || c.Position() != 0 {
		t.Errorf("Index, Position = %d, %d; want 1, 0", c.Index(), c.Position())
	}

	c.Advance(10)
	if !c.AtEOF() {
		t.Errorf("cursor not at EOF after advancing past the end")
	}
	if c.Index() != s.Len()-1 {
		t.Errorf("Index = %d, want %d", c.Index(), s.Len()-1)
	}
	if c.Position() != 5 {
		t.Errorf("Position = %d, want 5", c.Position())
	}
}

func TestCursorOnEmptyStream(t *testing.T) {
	c := (&Stream{}).Cursor()
	if !c.AtEOF() {
		t.Errorf("empty stream cursor is not at EOF")
	}
	c.Advance(3)
	if c.Index() != 0 {
		t.Errorf("Index = %d, want 0", c.Index())
	}
}
