package compiler

// Stream is the fully materialized token sequence of one compilation unit:
// a ROOT sentinel, every lexed token, and a final EOF token. The parser
// needs unbounded lookahead, so the whole stream exists before parsing.
type Stream struct {
	Tokens []Token
}

// Tokenize drives a Lexer over src until EOF. The first lexical error stops
// tokenizing and is returned.
func Tokenize(src Source) (*Stream, error) {
	l := NewLexer(src)
	s := &Stream{Tokens: []Token{{Kind: ROOT, Pos: 0}}}
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		s.Tokens = append(s.Tokens, tok)
		if tok.Kind == EOF {
			return s, nil
		}
	}
}

// Len returns the number of tokens including both sentinels.
func (s *Stream) Len() int { return len(s.Tokens) }

// Cursor is a read position in a Stream. Peeking past the end yields the
// trailing EOF token, so lookahead never needs bounds checks.
type Cursor struct {
	stream *Stream
	i      int
}

// Cursor returns a cursor positioned on the first token (the ROOT sentinel).
func (s *Stream) Cursor() *Cursor {
	return &Cursor{stream: s}
}

// Peek returns the token n places ahead of the current one; Peek(0) is the
// current token.
func (c *Cursor) Peek(n int) Token {
	toks := c.stream.Tokens
	if c.i+n < len(toks) {
		return toks[c.i+n]
	}
	if len(toks) == 0 {
		return Token{Kind: EOF}
	}
	return toks[len(toks)-1]
}

// Current is Peek(0).
func (c *Cursor) Current() Token { return c.Peek(0) }

// Advance moves n tokens forward and returns the token that was current
// before the move. It never moves past the final token.
func (c *Cursor) Advance(n int) Token {
	tok := c.Current()
	c.i += n
	if last := len(c.stream.Tokens) - 1; c.i > last {
		c.i = max(last, 0)
	}
	return tok
}

// Index returns the index of the current token in the stream.
func (c *Cursor) Index() int { return c.i }

// Position returns the source offset of the current token.
func (c *Cursor) Position() int { return c.Current().Pos }

// AtEOF reports whether the current token is the EOF sentinel.
func (c *Cursor) AtEOF() bool { return c.Current().Kind == EOF }
