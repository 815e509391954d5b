// Package parsetree defines the concrete syntax tree produced by
// internal/parse: one node type per grammar production, keeping its
// terminal tokens so diagnostics can point at exact source spans. The
// "," separators between the names of a PARAM or VAR list and between
// the entries of a CONST list are not kept.
package parsetree

import (
	"github.com/orizon-lang/pljit/internal/lex"
	"github.com/orizon-lang/pljit/internal/source"
)

// FunctionDefinition is the root production:
//
//	function-definition = [ParamDecl] [VarDecl] [ConstDecl] CompoundStatement ".".
type FunctionDefinition struct {
	Param *ParamDecl
	Var   *VarDecl
	Const *ConstDecl
	Body  *CompoundStatement
	Dot   lex.Token
}

// ParamDecl is "PARAM" DeclaratorList ";".
type ParamDecl struct {
	Keyword lex.Token
	Names   []lex.Token
	Semi    lex.Token
}

// VarDecl is "VAR" DeclaratorList ";".
type VarDecl struct {
	Keyword lex.Token
	Names   []lex.Token
	Semi    lex.Token
}

// InitDeclarator is identifier "=" literal, as used in CONST lists.
// Value is the literal's range-checked int64, validated by the parser
// at consume-time so later passes never re-parse the digit text.
type InitDeclarator struct {
	Name    lex.Token
	Eq      lex.Token
	Literal lex.Token
	Value   int64
}

// ConstDecl is "CONST" InitDeclaratorList ";".
type ConstDecl struct {
	Keyword lex.Token
	Inits   []InitDeclarator
	Semi    lex.Token
}

// CompoundStatement is "BEGIN" StatementList "END".
type CompoundStatement struct {
	Begin      lex.Token
	Statements []StatementSeparator
	End        lex.Token
}

// StatementSeparator pairs a statement with the ";" that follows it,
// except for the last statement in a list, whose Semi is the zero
// Token.
type StatementSeparator struct {
	Statement Statement
	Semi      lex.Token
}

// Statement is the sum type of the two statement productions.
type Statement interface {
	statementNode()
	Reference() source.Reference
}

// AssignStatement is identifier ":=" AdditiveExpression.
type AssignStatement struct {
	Name lex.Token
	Op   lex.Token
	RHS  AdditiveExpression
}

func (*AssignStatement) statementNode() {}

// Reference spans from the target identifier to the end of the RHS.
func (s *AssignStatement) Reference() source.Reference {
	return source.Join(s.Name.Ref, s.RHS.Reference())
}

// ReturnStatement is "RETURN" AdditiveExpression.
type ReturnStatement struct {
	Keyword lex.Token
	Value   AdditiveExpression
}

func (*ReturnStatement) statementNode() {}

// Reference spans from the RETURN keyword to the end of the expression.
func (s *ReturnStatement) Reference() source.Reference {
	return source.Join(s.Keyword.Ref, s.Value.Reference())
}

// AdditiveExpression is "additive = multiplicative [ ("+"|"-") additive ]",
// kept right-recursive exactly as the grammar states it: the
// continuation, if present, is itself a whole AdditiveExpression rather
// than a flat list. The AST builder relies on this shape to build a
// right-leaning Add/Subtract chain that the optimizer pattern-matches
// on structurally.
type AdditiveExpression struct {
	Head MultiplicativeExpression
	Rest *AdditiveRest
}

// AdditiveRest is the optional ("+"|"-") additive continuation.
type AdditiveRest struct {
	Op   lex.Token
	Next AdditiveExpression
}

// Reference spans the whole additive expression.
func (e AdditiveExpression) Reference() source.Reference {
	if e.Rest == nil {
		return e.Head.Reference()
	}

	return source.Join(e.Head.Reference(), e.Rest.Next.Reference())
}

// MultiplicativeExpression is "multiplicative = unary [ ("*"|"/") multiplicative ]",
// right-recursive for the same reason as AdditiveExpression.
type MultiplicativeExpression struct {
	Head UnaryExpression
	Rest *MultiplicativeRest
}

// MultiplicativeRest is the optional ("*"|"/") multiplicative continuation.
type MultiplicativeRest struct {
	Op   lex.Token
	Next MultiplicativeExpression
}

// Reference spans the whole multiplicative expression.
func (e MultiplicativeExpression) Reference() source.Reference {
	if e.Rest == nil {
		return e.Head.Reference()
	}

	return source.Join(e.Head.Reference(), e.Rest.Next.Reference())
}

// UnaryExpression is ["+"|"-"] PrimaryExpression.
type UnaryExpression struct {
	Op      *lex.Token
	Operand PrimaryExpression
}

// Reference spans from the sign (if present) to the end of the operand.
func (e UnaryExpression) Reference() source.Reference {
	if e.Op == nil {
		return e.Operand.Reference()
	}

	return source.Join(e.Op.Ref, e.Operand.Reference())
}

// PrimaryExpression is the sum type of the three primary productions.
type PrimaryExpression interface {
	primaryNode()
	Reference() source.Reference
}

// IdentPrimary is a bare identifier used as an expression operand.
type IdentPrimary struct {
	Name lex.Token
}

func (*IdentPrimary) primaryNode() {}

// Reference returns the identifier's own span.
func (p *IdentPrimary) Reference() source.Reference { return p.Name.Ref }

// LiteralPrimary is a bare integer literal used as an expression operand.
// IntValue is the range-checked int64, validated by the parser at
// consume-time so later passes never re-parse the digit text.
type LiteralPrimary struct {
	Value    lex.Token
	IntValue int64
}

func (*LiteralPrimary) primaryNode() {}

// Reference returns the literal's own span.
func (p *LiteralPrimary) Reference() source.Reference { return p.Value.Ref }

// BracketedPrimary is "(" AdditiveExpression ")".
type BracketedPrimary struct {
	Open  lex.Token
	Inner AdditiveExpression
	Close lex.Token
}

func (*BracketedPrimary) primaryNode() {}

// Reference spans from the opening to the closing parenthesis.
func (p *BracketedPrimary) Reference() source.Reference {
	return source.Join(p.Open.Ref, p.Close.Ref)
}
