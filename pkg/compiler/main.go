// Package compiler is the front end of the dig compiler: comment stripping,
// a lexer, the token stream and a recursive descent parser producing the
// AST that pkg/codegen consumes.
//
// Pipeline: dig source → StripComments → Tokenize → Parse → *Program
package compiler
