// Package ast defines the typed abstract syntax tree and the builder
// that lowers a parsetree.FunctionDefinition into it, resolving every
// identifier through a symtab.Table along the way.
package ast

import (
	"github.com/orizon-lang/pljit/internal/source"
	"github.com/orizon-lang/pljit/internal/symtab"
)

// Expr is the sum type of expression nodes.
type Expr interface {
	exprNode()
}

// Literal is a constant 64-bit integer.
type Literal struct {
	Value int64
}

func (*Literal) exprNode() {}

// Variable reads the current value of a declared symbol.
type Variable struct {
	Symbol symtab.ID
}

func (*Variable) exprNode() {}

// UnaryPlus is the identity unary operator, kept as its own node so the
// optimizer can fold it away explicitly rather than special-casing "no
// sign" at every call site.
type UnaryPlus struct {
	Operand Expr
}

func (*UnaryPlus) exprNode() {}

// UnaryMinus negates its operand.
type UnaryMinus struct {
	Operand Expr
}

func (*UnaryMinus) exprNode() {}

// Add is l + r.
type Add struct{ Left, Right Expr }

func (*Add) exprNode() {}

// Subtract is l - r.
type Subtract struct{ Left, Right Expr }

func (*Subtract) exprNode() {}

// Multiply is l * r.
type Multiply struct{ Left, Right Expr }

func (*Multiply) exprNode() {}

// Divide is l / r. OpRef is the source location of the "/" token,
// which the evaluator attaches to a division-by-zero diagnostic.
type Divide struct {
	Left, Right Expr
	OpRef       source.Reference
}

func (*Divide) exprNode() {}

// Statement is the sum type of statement nodes.
type Statement interface {
	stmtNode()
}

// Assignment stores the result of Value into Symbol.
type Assignment struct {
	Symbol symtab.ID
	Value  Expr
}

func (*Assignment) stmtNode() {}

// Return writes Value to the evaluation context's return value.
type Return struct {
	Value Expr
}

func (*Return) stmtNode() {}

// ParamDecl lists the function's parameters in declaration order.
type ParamDecl struct {
	Symbols []symtab.ID
}

// VarDecl lists the function's local variables in declaration order.
type VarDecl struct {
	Symbols []symtab.ID
}

// ConstDecl lists the function's constants, paired with their literal
// values, in declaration order.
type ConstDecl struct {
	Symbols []symtab.ID
	Values  []int64
}

// Function is the lowered form of a whole program.
type Function struct {
	Param *ParamDecl
	Var   *VarDecl
	Const *ConstDecl
	Body  []Statement

	SymbolCount int
	EndRef      source.Reference

	// Symbols backs every symtab.ID referenced above. The evaluator
	// does not consult it: it sizes its storage from SymbolCount, and
	// resolution already happened during Build.
	Symbols *symtab.Table
}
