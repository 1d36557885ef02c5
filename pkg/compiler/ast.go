package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"dig/pkg/grammar"
)

// Pos is the source offset of a node's first token. It is embedded in every
// node.
type Pos int

// Position returns the node's source offset.
func (p Pos) Position() int { return int(p) }

//  Expression nodes

// Expr is implemented by every node that produces a value. The set of
// implementations is closed: only the types in this file satisfy it.
type Expr interface {
	exprNode()
	Position() int
	String() string
}

// BinaryExpr represents Left Op Right. Grouping is right to left with no
// precedence: a + b * c is a + (b * c), and so is a * b + c.
//
//	x + 1
//	^ ^ ^
//	| | |
//	| | Right
//	| Op
//	Left
type BinaryExpr struct {
	Pos
	Left  Expr
	Op    grammar.ID
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// UnaryExpr represents Op Operand (e.g. -x, !done).
type UnaryExpr struct {
	Pos
	Op      grammar.ID
	Operand Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op, u.Operand) }

// ParenExpr represents ( Inner ).
type ParenExpr struct {
	Pos
	Inner Expr
}

func (*ParenExpr) exprNode()        {}
func (p *ParenExpr) String() string { return fmt.Sprintf("Paren(%s)", p.Inner) }

// TernaryExpr represents Cond ? Then : Else.
type TernaryExpr struct {
	Pos
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode() {}
func (t *TernaryExpr) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", t.Cond, t.Then, t.Else)
}

// CallExpr represents Name(Args...).
type CallExpr struct {
	Pos
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, joinExprs(c.Args, ", "))
}

// IndexExpr represents Base[Index].
type IndexExpr struct {
	Pos
	Base  Expr
	Index Expr
}

func (*IndexExpr) exprNode()        {}
func (e *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", e.Base, e.Index) }

// ArrayLit represents [e1, e2, ...].
type ArrayLit struct {
	Pos
	Elements []Expr
}

func (*ArrayLit) exprNode()        {}
func (a *ArrayLit) String() string { return "[" + joinExprs(a.Elements, ", ") + "]" }

// RangeLit represents [Start:End:Step]; Step is NumLit 1 when omitted.
type RangeLit struct {
	Pos
	Start Expr
	End   Expr
	Step  Expr
}

func (*RangeLit) exprNode() {}
func (r *RangeLit) String() string {
	return fmt.Sprintf("[%s:%s:%s]", r.Start, r.End, r.Step)
}

// Ident is a read of a named variable.
type Ident struct {
	Pos
	Name string
}

func (*Ident) exprNode()        {}
func (i *Ident) String() string { return i.Name }

// AssignExpr represents Name = Value. Compound forms are expanded by the
// parser: x += 1 becomes x = x + 1 and x++ becomes x = x + 1.
type AssignExpr struct {
	Pos
	Name  string
	Value Expr
}

func (*AssignExpr) exprNode()        {}
func (a *AssignExpr) String() string { return fmt.Sprintf("(%s = %s)", a.Name, a.Value) }

// VarDeclExpr is a declaration used as an expression, as in the init clause
// of a for loop.
type VarDeclExpr struct {
	Pos
	Type  grammar.ID
	Name  string
	Value Expr
}

func (*VarDeclExpr) exprNode() {}
func (d *VarDeclExpr) String() string {
	return fmt.Sprintf("(%s %s = %s)", d.Type, d.Name, d.Value)
}

// StringLit is a string constant "...".
type StringLit struct {
	Pos
	Value string
}

func (*StringLit) exprNode()        {}
func (s *StringLit) String() string { return strconv.Quote(s.Value) }

// NumLit is a numeric constant. Character literals are NumLits too.
type NumLit struct {
	Pos
	Value float64
}

func (*NumLit) exprNode()        {}
func (n *NumLit) String() string { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// BoolLit is true or false.
type BoolLit struct {
	Pos
	Value bool
}

func (*BoolLit) exprNode()        {}
func (b *BoolLit) String() string { return strconv.FormatBool(b.Value) }

// NullLit is null.
type NullLit struct {
	Pos
}

func (*NullLit) exprNode()      {}
func (*NullLit) String() string { return "null" }

// EmptyExpr stands in for an absent expression: an omitted for clause or a
// parameter without a default.
type EmptyExpr struct {
	Pos
}

func (*EmptyExpr) exprNode()      {}
func (*EmptyExpr) String() string { return "<empty>" }

func joinExprs(exprs []Expr, sep string) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}

// DefaultValue returns the value a declaration of the given vartype gets
// when it has no initializer.
func DefaultValue(typ grammar.ID, pos int) Expr {
	switch typ {
	case grammar.Bool:
		return &BoolLit{Pos: Pos(pos), Value: false}
	case grammar.Int, grammar.Float:
		return &NumLit{Pos: Pos(pos), Value: 0}
	case grammar.Str:
		return &StringLit{Pos: Pos(pos), Value: ""}
	case grammar.Arr:
		return &ArrayLit{Pos: Pos(pos)}
	default:
		return &NullLit{Pos: Pos(pos)}
	}
}

//  Statement nodes

// Stmt is implemented by every statement node. Like Expr, the set is closed.
type Stmt interface {
	stmtNode()
	Position() int
	String() string
}

// Block represents { statement; ... }.
type Block struct {
	Pos
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	parts := make([]string, len(b.Stmts))
	for i, s := range b.Stmts {
		parts[i] = s.String()
	}
	return "Block[" + strings.Join(parts, ", ") + "]"
}

// Ite represents if Cond { Then } else { Else }. An elif chain is a nested
// Ite wrapped in a one-statement Else block; a missing else is an empty
// block.
type Ite struct {
	Pos
	Cond Expr
	Then *Block
	Else *Block
}

func (*Ite) stmtNode() {}
func (i *Ite) String() string {
	return fmt.Sprintf("Ite(%s, %s, %s)", i.Cond, i.Then, i.Else)
}

// VarDecl represents <type> Name = Value;
type VarDecl struct {
	Pos
	Type  grammar.ID
	Name  string
	Value Expr
}

func (*VarDecl) stmtNode() {}
func (d *VarDecl) String() string {
	return fmt.Sprintf("VarDecl(%s %s = %s)", d.Type, d.Name, d.Value)
}

// Param is one function parameter. Default is an EmptyExpr when absent.
type Param struct {
	Type    grammar.ID
	Name    string
	Default Expr
}

func (p Param) String() string {
	if _, ok := p.Default.(*EmptyExpr); ok || p.Default == nil {
		return fmt.Sprintf("%s %s", p.Type, p.Name)
	}
	return fmt.Sprintf("%s %s = %s", p.Type, p.Name, p.Default)
}

// FunctionDecl represents fun Name(Params) : ReturnType { Body }.
type FunctionDecl struct {
	Pos
	Name       string
	Params     []Param // declaration order
	ReturnType grammar.ID
	Body       *Block
}

func (*FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("FunctionDecl(%s(%s) : %s, %s)", f.Name, strings.Join(parts, ", "), f.ReturnType, f.Body)
}

// NamespaceDecl represents namespace Name { Body }.
type NamespaceDecl struct {
	Pos
	Name string
	Body *Block
}

func (*NamespaceDecl) stmtNode() {}
func (n *NamespaceDecl) String() string {
	return fmt.Sprintf("Namespace(%s, %s)", n.Name, n.Body)
}

// ForStmt represents for Init; Cond; Step { Body }.
type ForStmt struct {
	Pos
	Init Expr
	Cond Expr
	Step Expr
	Body *Block
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	return fmt.Sprintf("For(%s; %s; %s, %s)", f.Init, f.Cond, f.Step, f.Body)
}

// ForIterStmt represents for Init : Iter { Body }, where Iter is an
// iterable or a count.
type ForIterStmt struct {
	Pos
	Init Expr
	Iter Expr
	Body *Block
}

func (*ForIterStmt) stmtNode() {}
func (f *ForIterStmt) String() string {
	return fmt.Sprintf("ForIter(%s : %s, %s)", f.Init, f.Iter, f.Body)
}

// WhileStmt represents while Cond { Body }.
type WhileStmt struct {
	Pos
	Cond Expr
	Body *Block
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("While(%s, %s)", w.Cond, w.Body)
}

// ReturnStmt represents return Value; a bare return carries a NullLit.
type ReturnStmt struct {
	Pos
	Value Expr
}

func (*ReturnStmt) stmtNode()        {}
func (r *ReturnStmt) String() string { return fmt.Sprintf("Return(%s)", r.Value) }

// ImportModule represents import Name [as Alias];
type ImportModule struct {
	Pos
	Name  string
	Alias string
}

func (*ImportModule) stmtNode() {}
func (i *ImportModule) String() string {
	return fmt.Sprintf("ImportModule(%s as %s)", i.Name, i.Alias)
}

// ImportFile represents import "Path" [as Alias]; Alias defaults to the
// file name without directory or extension.
type ImportFile struct {
	Pos
	Path  string
	Alias string
}

func (*ImportFile) stmtNode() {}
func (i *ImportFile) String() string {
	return fmt.Sprintf("ImportFile(%q as %s)", i.Path, i.Alias)
}

// BreakStmt represents break;
type BreakStmt struct{ Pos }

func (*BreakStmt) stmtNode()      {}
func (*BreakStmt) String() string { return "Break" }

// ContinueStmt represents continue;
type ContinueStmt struct{ Pos }

func (*ContinueStmt) stmtNode()      {}
func (*ContinueStmt) String() string { return "Continue" }

// ExprStmt represents an expression evaluated for its side effects.
type ExprStmt struct {
	Pos
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// EmptyStmt represents a bare ;
type EmptyStmt struct{ Pos }

func (*EmptyStmt) stmtNode()      {}
func (*EmptyStmt) String() string { return "Empty" }

// RootStmt is produced for the ROOT sentinel at the head of a Stream.
type RootStmt struct{ Pos }

func (*RootStmt) stmtNode()      {}
func (*RootStmt) String() string { return "Root" }

// EOFStmt marks the end of input.
type EOFStmt struct{ Pos }

func (*EOFStmt) stmtNode()      {}
func (*EOFStmt) String() string { return "EOF" }

// Program is the ordered list of top-level statements of one compilation
// unit. It owns the whole tree.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Stmts {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
