package compiler

import (
	"log/slog"
	"time"
)

// Result is the output of every front end phase for one Source.
type Result struct {
	Source  Source
	Stream  *Stream
	Program *Program
}

// Compile strips comments from src, tokenizes it and parses the tokens.
// The first lexical or syntax error stops the pipeline and is returned as a
// *Diagnostic located in src. A nil logger discards phase logging.
func Compile(src Source, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With("file", src.Path)

	start := time.Now()
	stripped := Source{Path: src.Path, Text: StripComments(src.Text)}
	logger.Debug("preprocess", "bytes", len(stripped.Text), "took", time.Since(start))

	start = time.Now()
	stream, err := Tokenize(stripped)
	if err != nil {
		return nil, src.Diagnose(err)
	}
	logger.Debug("lex", "tokens", stream.Len(), "took", time.Since(start))

	start = time.Now()
	prog, err := Parse(stream)
	if err != nil {
		return nil, src.Diagnose(err)
	}
	logger.Debug("parse", "statements", len(prog.Stmts), "took", time.Since(start))

	return &Result{Source: src, Stream: stream, Program: prog}, nil
}
