// Package codegen turns a parsed dig Program into assembly text.
//
// Output is three sections: instructions (.text), initialized data (.data)
// and uninitialized data (.bss), led by a fixed entry point that jumps to
// main. Every node kind has a case in genStmt or genExpr; none of them
// emits code yet.
package codegen

import (
	"fmt"
	"strings"

	"dig/pkg/compiler"
)

const prologue = "section .text\n" +
	"global _start\n" +
	"_start:\n" +
	"    jmp main\n"

// CodeGen walks a Program and accumulates section text.
type CodeGen struct {
	text strings.Builder // after the prologue
	data strings.Builder
	bss  strings.Builder
}

func newCodeGen() *CodeGen {
	return &CodeGen{}
}

func (cg *CodeGen) line(sb *strings.Builder, format string, args ...any) {
	fmt.Fprintf(sb, format+"\n", args...)
}

// String concatenates the prologue and the three sections.
func (cg *CodeGen) String() string {
	var out strings.Builder
	out.WriteString(prologue)
	out.WriteString(cg.text.String())
	cg.line(&out, "section .data")
	out.WriteString(cg.data.String())
	cg.line(&out, "section .bss")
	out.WriteString(cg.bss.String())
	return out.String()
}

func (cg *CodeGen) genBlock(b *compiler.Block) error {
	if b == nil {
		return nil
	}
	for _, s := range b.Stmts {
		if err := cg.genStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genStmt(s compiler.Stmt) error {
	switch n := s.(type) {
	case *compiler.RootStmt, *compiler.EOFStmt, *compiler.EmptyStmt:
		return nil

	case *compiler.Block:
		return cg.genBlock(n)

	case *compiler.ExprStmt:
		return cg.genExpr(n.Expr)

	case *compiler.VarDecl:
		return cg.genExpr(n.Value)

	case *compiler.Ite:
		if err := cg.genExpr(n.Cond); err != nil {
			return err
		}
		if err := cg.genBlock(n.Then); err != nil {
			return err
		}
		return cg.genBlock(n.Else)

	case *compiler.WhileStmt:
		if err := cg.genExpr(n.Cond); err != nil {
			return err
		}
		return cg.genBlock(n.Body)

	case *compiler.ForStmt:
		for _, e := range []compiler.Expr{n.Init, n.Cond, n.Step} {
			if err := cg.genExpr(e); err != nil {
				return err
			}
		}
		return cg.genBlock(n.Body)

	case *compiler.ForIterStmt:
		if err := cg.genExpr(n.Init); err != nil {
			return err
		}
		if err := cg.genExpr(n.Iter); err != nil {
			return err
		}
		return cg.genBlock(n.Body)

	case *compiler.FunctionDecl:
		for _, p := range n.Params {
			if err := cg.genExpr(p.Default); err != nil {
				return err
			}
		}
		return cg.genBlock(n.Body)

	case *compiler.NamespaceDecl:
		return cg.genBlock(n.Body)

	case *compiler.ReturnStmt:
		return cg.genExpr(n.Value)

	case *compiler.BreakStmt, *compiler.ContinueStmt:
		return nil

	case *compiler.ImportModule, *compiler.ImportFile:
		return nil

	default:
		return fmt.Errorf("codegen: unhandled statement %T", s)
	}
}

func (cg *CodeGen) genExprs(exprs []compiler.Expr) error {
	for _, e := range exprs {
		if err := cg.genExpr(e); err != nil {
			return err
		}
	}
	return nil
}

func (cg *CodeGen) genExpr(e compiler.Expr) error {
	switch n := e.(type) {
	case nil:
		return nil

	case *compiler.NumLit, *compiler.StringLit, *compiler.BoolLit, *compiler.NullLit,
		*compiler.Ident, *compiler.EmptyExpr:
		return nil

	case *compiler.BinaryExpr:
		return cg.genExprs([]compiler.Expr{n.Left, n.Right})

	case *compiler.UnaryExpr:
		return cg.genExpr(n.Operand)

	case *compiler.ParenExpr:
		return cg.genExpr(n.Inner)

	case *compiler.TernaryExpr:
		return cg.genExprs([]compiler.Expr{n.Cond, n.Then, n.Else})

	case *compiler.CallExpr:
		return cg.genExprs(n.Args)

	case *compiler.IndexExpr:
		return cg.genExprs([]compiler.Expr{n.Base, n.Index})

	case *compiler.ArrayLit:
		return cg.genExprs(n.Elements)

	case *compiler.RangeLit:
		return cg.genExprs([]compiler.Expr{n.Start, n.End, n.Step})

	case *compiler.AssignExpr:
		return cg.genExpr(n.Value)

	case *compiler.VarDeclExpr:
		return cg.genExpr(n.Value)

	default:
		return fmt.Errorf("codegen: unhandled expression %T", e)
	}
}

// Generate produces the assembly text for prog.
func Generate(prog *compiler.Program) (string, error) {
	cg := newCodeGen()
	for _, s := range prog.Stmts {
		if err := cg.genStmt(s); err != nil {
			return "", err
		}
	}
	return cg.String(), nil
}
