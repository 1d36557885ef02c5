package compiler

import (
	"fmt"

	"dig/pkg/grammar"
	"dig/pkg/utils"
)

// Parser walks a Stream with a Cursor and builds the AST. Every parse method
// leaves the cursor just past the construct it consumed, including a
// terminating ';' or '}'.
//
// Grammar:
//
//	program    = ROOT statement* EOF
//	statement  = block | ";" | keywordStmt | expression ";"
//	block      = "{" statement* "}"
//	import     = "import" (STRING | IDENTIFIER) ("as" IDENTIFIER)? ";"
//	return     = "return" expression? ";"
//	for        = "for" expression? ";" expression? ";" expression? block
//	           | "for" expression ":" expression block
//	while      = "while" expression block
//	if         = "if" expression block ("else" block | "elif" ...)?
//	namespace  = "namespace" IDENTIFIER block
//	function   = "fun" IDENTIFIER "(" (param ("," param)*)? ")" (":" TYPE)? block
//	param      = TYPE? IDENTIFIER ("=" expression)?
//	varDecl    = TYPE IDENTIFIER ("=" expression)? ";"
//	expression = operand (BINOP expression)? | UNOP expression
//
// Binary operators have no precedence and group to the right.
type Parser struct {
	cur *Cursor
}

func NewParser(s *Stream) *Parser {
	return &Parser{cur: s.Cursor()}
}

// Parse builds the Program for a Stream. The result starts with a RootStmt
// and ends with an EOFStmt.
func Parse(s *Stream) (*Program, error) {
	return NewParser(s).ParseProgram()
}

// ParseProgram parses statements until the cursor reaches EOF.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for !p.cur.AtEOF() {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
	}
	prog.Stmts = append(prog.Stmts, &EOFStmt{Pos: Pos(p.cur.Position())})
	return prog, nil
}

// errorf builds a syntax error located at tok.
func (p *Parser) errorf(tok Token, format string, args ...any) error {
	return &Error{
		Kind:       SyntaxError,
		Pos:        tok.Pos,
		Msg:        fmt.Sprintf(format, args...),
		Incomplete: tok.Kind == EOF,
	}
}

func (p *Parser) peek() Token           { return p.cur.Current() }
func (p *Parser) peekAt(n int) Token    { return p.cur.Peek(n) }
func (p *Parser) advance() Token        { return p.cur.Advance(1) }
func (p *Parser) at(id grammar.ID) bool { return p.peek().Is(id) }

// expect consumes the current token if it is id, otherwise returns an error
// with the given message.
func (p *Parser) expect(id grammar.ID, format string, args ...any) (Token, error) {
	if !p.at(id) {
		return p.peek(), p.errorf(p.peek(), format, args...)
	}
	return p.advance(), nil
}

func isVartype(tok Token) bool {
	return tok.Kind == KEYWORD && grammar.IsVartype(tok.ID)
}

// parseStatement dispatches on the current token.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.peek()
	switch tok.Kind {
	case EOF:
		return nil, p.errorf(tok, "Unexpected end of file, expected a statement")

	case KEYWORD:
		return p.parseKeyword()

	case IDENTIFIER, STRING, NUMBER, OPERATOR:
		if tok.Is(grammar.LBrace) {
			block, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return block, nil
		}
		if tok.Is(grammar.Semicolon) {
			p.advance()
			return &EmptyStmt{Pos: Pos(tok.Pos)}, nil
		}
		return p.parseExpressionStatement()

	case ROOT:
		p.advance()
		return &RootStmt{Pos: Pos(tok.Pos)}, nil
	}
	return nil, p.errorf(tok, "Unexpected token: %s", tok.Lexeme())
}

// parseKeyword routes a statement that starts with a keyword or vartype.
func (p *Parser) parseKeyword() (Stmt, error) {
	tok := p.peek()
	switch tok.ID {
	case grammar.Import:
		return p.parseImport()
	case grammar.Return:
		return p.parseReturn()
	case grammar.For:
		return p.parseFor()
	case grammar.While:
		return p.parseWhile()
	case grammar.Break:
		return p.parseBreak()
	case grammar.Continue:
		return p.parseContinue()
	case grammar.If:
		return p.parseIf()
	case grammar.Namespace:
		return p.parseNamespace()
	case grammar.Fun:
		return p.parseFunction()
	case grammar.Class:
		return nil, p.errorf(tok, "Class declarations are not supported yet")
	case grammar.True, grammar.False, grammar.Null:
		return p.parseExpressionStatement()
	}
	if grammar.IsVartype(tok.ID) {
		return p.parseVarDecl()
	}
	return nil, p.errorf(tok, "Unexpected keyword: %s", tok.ID)
}

// parseBlock parses { statement... }. Running out of input reports the
// position of the opening brace.
func (p *Parser) parseBlock() (*Block, error) {
	open := p.peek()
	if !open.Is(grammar.LBrace) {
		return nil, p.errorf(open, "Expected '{ ... }'")
	}
	p.advance()

	block := &Block{Pos: Pos(open.Pos)}
	for !p.at(grammar.RBrace) {
		if p.cur.AtEOF() {
			return nil, &Error{
				Kind:       SyntaxError,
				Pos:        open.Pos,
				Msg:        "Expected '}' to end the block opened here",
				Incomplete: true,
			}
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
	}
	p.advance() // }
	return block, nil
}

// parseImport parses
//
//	import "path";   import "path" as alias;
//	import name;     import name as alias;
func (p *Parser) parseImport() (Stmt, error) {
	kw := p.advance()
	target := p.peek()

	var form string
	switch target.Kind {
	case STRING:
		form = `import "..."`
	case IDENTIFIER:
		form = "import ..."
	default:
		return nil, p.errorf(target, `Expected identifier or string after 'import' statement (import ...; / import "...";)`)
	}

	alias := ""
	next := p.peekAt(1)
	switch {
	case next.Is(grammar.Semicolon):
		p.cur.Advance(2)
	case next.Is(grammar.As):
		name := p.peekAt(2)
		if name.Kind != IDENTIFIER {
			return nil, p.errorf(name, "Expected identifier after '%s as' statement (%s as ...;)", form, form)
		}
		if semi := p.peekAt(3); !semi.Is(grammar.Semicolon) {
			return nil, p.errorf(semi, "Expected ';' after '%s as ...' statement (%s as ...;)", form, form)
		}
		alias = name.Text
		p.cur.Advance(4)
	default:
		return nil, p.errorf(next, "Expected ';' after '%s' statement (%s;)", form, form)
	}

	if target.Kind == STRING {
		if alias == "" {
			alias = utils.FileStem(target.Text)
		}
		return &ImportFile{Pos: Pos(kw.Pos), Path: target.Text, Alias: alias}, nil
	}
	if alias == "" {
		alias = target.Text
	}
	return &ImportModule{Pos: Pos(kw.Pos), Name: target.Text, Alias: alias}, nil
}

// parseReturn parses return; and return <expression>;
func (p *Parser) parseReturn() (Stmt, error) {
	kw := p.advance()
	if p.at(grammar.Semicolon) {
		p.advance()
		return &ReturnStmt{Pos: Pos(kw.Pos), Value: &NullLit{Pos: Pos(kw.Pos)}}, nil
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if value == nil || !p.at(grammar.Semicolon) {
		return nil, p.errorf(p.peek(), "Expected ';' after return statement (return <expression>; or return;)")
	}
	p.advance()
	return &ReturnStmt{Pos: Pos(kw.Pos), Value: value}, nil
}

// optionalExpression parses an expression and substitutes an EmptyExpr
// when there is none.
func (p *Parser) optionalExpression() (Expr, error) {
	pos := p.peek().Pos
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return &EmptyExpr{Pos: Pos(pos)}, nil
	}
	return e, nil
}

// requireExpression parses an expression and fails with the given message
// when there is none.
func (p *Parser) requireExpression(format string, args ...any) (Expr, error) {
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, p.errorf(p.peek(), format, args...)
	}
	return e, nil
}

// parseFor parses both loop forms; the token after the init expression
// picks one:
//
//	for <init>; <cond>; <step> { ... }
//	for <init> : <iterable or count> { ... }
func (p *Parser) parseFor() (Stmt, error) {
	kw := p.advance()

	first, err := p.optionalExpression()
	if err != nil {
		return nil, err
	}

	switch {
	case p.at(grammar.Semicolon):
		p.advance()
		cond, err := p.optionalExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(grammar.Semicolon, "Expected ';' in for statement (for <init>; <cond>; <step> { ... })"); err != nil {
			return nil, err
		}
		step, err := p.optionalExpression()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ForStmt{Pos: Pos(kw.Pos), Init: first, Cond: cond, Step: step, Body: body}, nil

	case p.at(grammar.Colon):
		if _, ok := first.(*EmptyExpr); ok {
			return nil, p.errorf(p.peek(), "Expected a variable before ':' in for statement (for <init> : <iterable or max>)")
		}
		p.advance()
		iter, err := p.requireExpression("Expected an iterable or a count after ':' in for statement (for <init> : <iterable or max>)")
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return &ForIterStmt{Pos: Pos(kw.Pos), Init: first, Iter: iter, Body: body}, nil
	}

	return nil, p.errorf(p.peek(), "Expected ';' or ':' in for statement (for <init>; <cond>; <inc> OR for <init> : <iterable or max>)")
}

// parseWhile parses while <condition> { ... }
func (p *Parser) parseWhile() (Stmt, error) {
	kw := p.advance()
	cond, err := p.requireExpression("Expected a condition after 'while' (while <condition> { ... })")
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Pos: Pos(kw.Pos), Cond: cond, Body: body}, nil
}

func (p *Parser) parseBreak() (Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(grammar.Semicolon, "Expected ';' after 'break' (break;)"); err != nil {
		return nil, err
	}
	return &BreakStmt{Pos: Pos(kw.Pos)}, nil
}

func (p *Parser) parseContinue() (Stmt, error) {
	kw := p.advance()
	if _, err := p.expect(grammar.Semicolon, "Expected ';' after 'continue' (continue;)"); err != nil {
		return nil, err
	}
	return &ContinueStmt{Pos: Pos(kw.Pos)}, nil
}

// parseIf parses if/elif chains. The current token is "if" or "elif". An
// elif becomes a nested Ite inside a one-statement else block.
func (p *Parser) parseIf() (Stmt, error) {
	ite, err := p.parseIte()
	if err != nil {
		return nil, err
	}
	return ite, nil
}

func (p *Parser) parseIte() (*Ite, error) {
	kw := p.advance()
	cond, err := p.requireExpression("Expected a condition after '%s' (%s <condition> { ... })", kw.ID, kw.ID)
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var els *Block
	switch tok := p.peek(); {
	case tok.Is(grammar.Else):
		p.advance()
		els, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	case tok.Is(grammar.Elif):
		nested, err := p.parseIte()
		if err != nil {
			return nil, err
		}
		els = &Block{Pos: Pos(tok.Pos), Stmts: []Stmt{nested}}
	default:
		els = &Block{Pos: Pos(tok.Pos)}
	}

	return &Ite{Pos: Pos(kw.Pos), Cond: cond, Then: then, Else: els}, nil
}

// parseNamespace parses namespace <name> { ... }
func (p *Parser) parseNamespace() (Stmt, error) {
	kw := p.advance()
	name := p.peek()
	if name.Kind != IDENTIFIER {
		return nil, p.errorf(name, "Expected identifier namespace name (namespace <name> { ... })")
	}
	p.advance()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &NamespaceDecl{Pos: Pos(kw.Pos), Name: name.Text, Body: body}, nil
}

type paramKey struct {
	typ  grammar.ID
	name string
}

// parseFunction parses fun <name>(<params>) [: <type>] { ... }. A parameter
// without a type is var, as is an omitted return type.
func (p *Parser) parseFunction() (Stmt, error) {
	kw := p.advance()
	name := p.peek()
	if name.Kind != IDENTIFIER {
		return nil, p.errorf(name, "Expected identifier function name (fun <name>( <args> ) : <rType> { ... })")
	}
	p.advance()
	if _, err := p.expect(grammar.LParen, "Expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []Param
	seen := make(map[paramKey]bool)
	for !p.at(grammar.RParen) {
		start := p.peek()
		param := Param{Type: grammar.Var, Default: &EmptyExpr{Pos: Pos(start.Pos)}}

		switch {
		case start.Kind == IDENTIFIER:
			param.Name = start.Text
			p.advance()
		case isVartype(start):
			param.Type = start.ID
			p.advance()
			nameTok := p.peek()
			if nameTok.Kind != IDENTIFIER {
				return nil, p.errorf(nameTok, "Expected identifier after type (type <name>) in parameter declaration")
			}
			param.Name = nameTok.Text
			p.advance()
		default:
			return nil, p.errorf(start, "Expected parameter type or identifier (parameter name) if no type is specified var is assumed")
		}

		if p.at(grammar.Assign) {
			p.advance()
			def, err := p.requireExpression("Expected a default value after '=' in parameter declaration")
			if err != nil {
				return nil, err
			}
			param.Default = def
		}

		key := paramKey{param.Type, param.Name}
		if seen[key] {
			return nil, p.errorf(start, "Duplicate parameter %s %s", param.Type, param.Name)
		}
		seen[key] = true
		params = append(params, param)

		if p.at(grammar.RParen) {
			break
		}
		if _, err := p.expect(grammar.Comma, "Expected ',' or ')' after parameter declaration"); err != nil {
			return nil, err
		}
	}
	p.advance() // )

	retType := grammar.Var
	if p.at(grammar.Colon) {
		p.advance()
		t := p.peek()
		if !isVartype(t) {
			return nil, p.errorf(t, "Expected return type ( : <type>)")
		}
		retType = t.ID
		p.advance()
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Pos: Pos(kw.Pos), Name: name.Text, Params: params, ReturnType: retType, Body: body}, nil
}

// parseVarDecl parses <type> <name> [= <value>]; A missing initializer
// takes the type's default value.
func (p *Parser) parseVarDecl() (Stmt, error) {
	typ := p.advance()
	name := p.peek()
	if name.Kind != IDENTIFIER {
		return nil, p.errorf(name, "Expected identifier after type (<type> <name> = <value>;)")
	}
	p.advance()

	var value Expr
	switch {
	case p.at(grammar.Assign):
		p.advance()
		v, err := p.requireExpression("Expected a value after '=' (<type> <name> = <value>;)")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(grammar.Semicolon, "Expected ';' after variable initialization (<type> <name> = <value>;)"); err != nil {
			return nil, err
		}
		value = v
	case p.at(grammar.Semicolon):
		p.advance()
		value = DefaultValue(typ.ID, typ.Pos)
	default:
		return nil, p.errorf(p.peek(), "Expected '=' or ';' after variable declaration")
	}

	return &VarDecl{Pos: Pos(typ.Pos), Type: typ.ID, Name: name.Text, Value: value}, nil
}

// parseExpressionStatement parses <expression>;
func (p *Parser) parseExpressionStatement() (Stmt, error) {
	start := p.peek()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if expr == nil {
		return nil, p.errorf(start, "Unexpected token: %s", start.Lexeme())
	}
	if _, err := p.expect(grammar.Semicolon, "Expected ';' after expression statement (expression;)"); err != nil {
		return nil, err
	}
	return &ExprStmt{Pos: Pos(start.Pos), Expr: expr}, nil
}

//  Expressions

// canStartExpression reports whether tok may begin or continue an
// expression. The expression loop stops at the first token that cannot.
func canStartExpression(tok Token) bool {
	switch tok.Kind {
	case IDENTIFIER, STRING, NUMBER:
		return true
	case OPERATOR:
		switch tok.ID {
		case grammar.Assign, grammar.LBracket, grammar.LParen, grammar.Question:
			return true
		}
		return grammar.IsBinary(tok.ID) || grammar.IsUnary(tok.ID)
	case KEYWORD:
		switch tok.ID {
		case grammar.True, grammar.False, grammar.Null:
			return true
		}
		return grammar.IsVartype(tok.ID)
	}
	return false
}

func isEmpty(e Expr) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*EmptyExpr)
	return ok
}

// parseExpression builds one expression and returns nil, without error,
// when the current token cannot start one. Operands accumulate in last; a
// binary operator takes last as its left side and the rest of the
// expression, parsed recursively, as its right side.
func (p *Parser) parseExpression() (Expr, error) {
	var last Expr

	// operand rejects a second value directly after a complete one.
	operand := func(tok Token) error {
		if !isEmpty(last) {
			return p.errorf(tok, "Expected an operator between %s and %s", last, tok.Lexeme())
		}
		return nil
	}

	for canStartExpression(p.peek()) {
		tok := p.peek()
		pos := Pos(tok.Pos)

		switch {
		case isVartype(tok):
			if err := operand(tok); err != nil {
				return nil, err
			}
			decl, err := p.parseVarDeclExpr()
			if err != nil {
				return nil, err
			}
			last = decl

		case tok.Kind == NUMBER:
			if err := operand(tok); err != nil {
				return nil, err
			}
			p.advance()
			last = &NumLit{Pos: pos, Value: tok.Num}

		case tok.Kind == STRING:
			if err := operand(tok); err != nil {
				return nil, err
			}
			p.advance()
			last = &StringLit{Pos: pos, Value: tok.Text}

		case tok.Is(grammar.True), tok.Is(grammar.False):
			if err := operand(tok); err != nil {
				return nil, err
			}
			p.advance()
			last = &BoolLit{Pos: pos, Value: tok.ID == grammar.True}

		case tok.Is(grammar.Null):
			if err := operand(tok); err != nil {
				return nil, err
			}
			p.advance()
			last = &NullLit{Pos: pos}

		case tok.Kind == IDENTIFIER:
			if err := operand(tok); err != nil {
				return nil, err
			}
			e, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			last = e

		case tok.Is(grammar.LBracket):
			e, err := p.parseBracket(last)
			if err != nil {
				return nil, err
			}
			last = e

		case tok.Is(grammar.LParen):
			if err := operand(tok); err != nil {
				return nil, err
			}
			p.advance()
			inner, err := p.requireExpression("Expected an expression inside '( )'")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(grammar.RParen, "Expected closing parenthesis"); err != nil {
				return nil, err
			}
			last = &ParenExpr{Pos: pos, Inner: inner}

		case tok.Is(grammar.Question):
			if isEmpty(last) {
				return nil, p.errorf(tok, "Expected a condition before '?' (<condition> ? <value> : <value>)")
			}
			p.advance()
			then, err := p.requireExpression("Expected a value after '?' (<condition> ? <value> : <value>)")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(grammar.Colon, "Expected ':' in ternary expression (<condition> ? <value> : <value>)"); err != nil {
				return nil, err
			}
			els, err := p.requireExpression("Expected a value after ':' (<condition> ? <value> : <value>)")
			if err != nil {
				return nil, err
			}
			last = &TernaryExpr{Pos: Pos(last.Position()), Cond: last, Then: then, Else: els}

		case tok.Is(grammar.Assign):
			return nil, p.errorf(tok, "Can only assign to a variable name (<name> = <value>)")

		case grammar.IsUnary(tok.ID) && isEmpty(last):
			p.advance()
			x, err := p.requireExpression("Expected a value after unary operator %s", tok.ID)
			if err != nil {
				return nil, err
			}
			last = &UnaryExpr{Pos: pos, Op: tok.ID, Operand: x}

		case grammar.IsBinary(tok.ID):
			if isEmpty(last) {
				return nil, p.errorf(tok, "Expected a value before binary operation %s (<value> %s <value>)", tok.ID, tok.ID)
			}
			p.advance()
			right, err := p.requireExpression("Expected a value after binary operation %s (<value> %s <value>)", tok.ID, tok.ID)
			if err != nil {
				return nil, err
			}
			last = &BinaryExpr{Pos: Pos(last.Position()), Left: last, Op: tok.ID, Right: right}

		default:
			return nil, p.errorf(tok, "Unexpected token: %s", tok.Lexeme())
		}
	}
	return last, nil
}

// parseVarDeclExpr parses <type> <name> [= <value>] inside an expression.
func (p *Parser) parseVarDeclExpr() (Expr, error) {
	typ := p.advance()
	name := p.peek()
	if name.Kind != IDENTIFIER {
		return nil, p.errorf(name, "Expected identifier as variable name after variable type")
	}
	p.advance()

	if !p.at(grammar.Assign) {
		return &VarDeclExpr{Pos: Pos(typ.Pos), Type: typ.ID, Name: name.Text, Value: DefaultValue(typ.ID, typ.Pos)}, nil
	}
	p.advance()
	value, err := p.requireExpression("Expected a value after '=' in variable declaration")
	if err != nil {
		return nil, err
	}
	return &VarDeclExpr{Pos: Pos(typ.Pos), Type: typ.ID, Name: name.Text, Value: value}, nil
}

// parseIdentifier looks past an identifier to tell apart
//
//	f(a, b)     call
//	x = v       assignment
//	x += v      x = x + (v)
//	x++         x = x + 1, for operators with an identity
//	x           plain read
func (p *Parser) parseIdentifier() (Expr, error) {
	id := p.peek()
	pos := Pos(id.Pos)
	next := p.peekAt(1)

	switch {
	case next.Is(grammar.LParen):
		p.cur.Advance(2)
		return p.parseCallArgs(id)

	case next.Is(grammar.Assign):
		p.cur.Advance(2)
		value, err := p.requireExpression("Expected a value after '=' (<name> = <value>)")
		if err != nil {
			return nil, err
		}
		return &AssignExpr{Pos: pos, Name: id.Text, Value: value}, nil

	case next.Kind == OPERATOR && grammar.IsBinary(next.ID):
		after := p.peekAt(2)
		switch {
		case after.Is(grammar.Assign):
			p.cur.Advance(3)
			value, err := p.requireExpression("Expected a value after '%s=' (<name> %s= <value>)", next.ID, next.ID)
			if err != nil {
				return nil, err
			}
			return &AssignExpr{Pos: pos, Name: id.Text, Value: &BinaryExpr{
				Pos:   pos,
				Left:  &Ident{Pos: pos, Name: id.Text},
				Op:    next.ID,
				Right: value,
			}}, nil

		case after.Is(next.ID) && grammar.HasIdentity(next.ID):
			p.cur.Advance(3)
			return &AssignExpr{Pos: pos, Name: id.Text, Value: &BinaryExpr{
				Pos:   pos,
				Left:  &Ident{Pos: pos, Name: id.Text},
				Op:    next.ID,
				Right: &NumLit{Pos: pos, Value: grammar.Identity(next.ID)},
			}}, nil
		}
	}

	p.advance()
	return &Ident{Pos: pos, Name: id.Text}, nil
}

// parseCallArgs parses the comma separated arguments of a call whose '('
// has already been consumed.
func (p *Parser) parseCallArgs(name Token) (Expr, error) {
	call := &CallExpr{Pos: Pos(name.Pos), Name: name.Text}
	for !p.at(grammar.RParen) {
		arg, err := p.requireExpression("Expected an argument or ')' in call to %s", name.Text)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.at(grammar.RParen) {
			break
		}
		if _, err := p.expect(grammar.Comma, "Expected ',' or ')' in call to %s", name.Text); err != nil {
			return nil, err
		}
	}
	p.advance() // )
	return call, nil
}

// parseBracket handles '[' in expression position. After a value it is an
// element access; otherwise it opens an array or range literal.
func (p *Parser) parseBracket(last Expr) (Expr, error) {
	open := p.peek()

	if !isEmpty(last) {
		switch last.(type) {
		case *NumLit, *BoolLit, *NullLit:
			return nil, p.errorf(open, "Can't access an element of a non-iterable type")
		}
		p.advance()
		index, err := p.requireExpression("Expected an index inside '[ ]'")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(grammar.RBracket, "Expected ']' after element access"); err != nil {
			return nil, err
		}
		return &IndexExpr{Pos: Pos(last.Position()), Base: last, Index: index}, nil
	}

	isRange, err := p.scanBracket(open)
	if err != nil {
		return nil, err
	}
	p.advance() // [
	if isRange {
		return p.parseRange(open)
	}
	return p.parseArray(open)
}

// scanBracket looks ahead from the '[' under the cursor to its matching ']'
// and reports whether a ':' occurs at the top nesting level, which makes the
// literal a range. A ':' that closes a ternary does not count.
func (p *Parser) scanBracket(open Token) (bool, error) {
	depth, ternaries := 0, 0
	isRange := false
	for n := 1; ; n++ {
		tok := p.peekAt(n)
		switch {
		case tok.Kind == EOF:
			return false, &Error{Kind: SyntaxError, Pos: open.Pos, Msg: "Expected closing bracket", Incomplete: true}
		case tok.Is(grammar.LParen), tok.Is(grammar.LBracket), tok.Is(grammar.LBrace):
			depth++
		case tok.Is(grammar.RParen), tok.Is(grammar.RBracket), tok.Is(grammar.RBrace):
			if depth == 0 {
				return isRange, nil
			}
			depth--
		case depth > 0:
		case tok.Is(grammar.Question):
			ternaries++
		case tok.Is(grammar.Colon):
			if ternaries == 0 {
				isRange = true
			} else {
				ternaries--
			}
		}
	}
}

// parseRange parses start:end[:step]] after the opening bracket.
func (p *Parser) parseRange(open Token) (Expr, error) {
	start, err := p.requireExpression("Expected a start value in range literal ([start:end:step])")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(grammar.Colon, "Expected ':' after range start ([start:end:step])"); err != nil {
		return nil, err
	}
	end, err := p.requireExpression("Expected an end value in range literal ([start:end:step])")
	if err != nil {
		return nil, err
	}

	var step Expr = &NumLit{Pos: Pos(open.Pos), Value: 1}
	if p.at(grammar.Colon) {
		p.advance()
		step, err = p.requireExpression("Expected a step value in range literal ([start:end:step])")
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(grammar.RBracket, "Expected closing bracket"); err != nil {
		return nil, err
	}
	return &RangeLit{Pos: Pos(open.Pos), Start: start, End: end, Step: step}, nil
}

// parseArray parses e1, e2, ...] after the opening bracket.
func (p *Parser) parseArray(open Token) (Expr, error) {
	arr := &ArrayLit{Pos: Pos(open.Pos)}
	for !p.at(grammar.RBracket) {
		elem, err := p.requireExpression("Expected an array element or ']'")
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, elem)
		if p.at(grammar.RBracket) {
			break
		}
		if _, err := p.expect(grammar.Comma, "Expected ',' or ']' in array literal"); err != nil {
			return nil, err
		}
	}
	p.advance() // ]
	return arr, nil
}
