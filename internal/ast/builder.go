package ast

import (
	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/lex"
	"github.com/orizon-lang/pljit/internal/parsetree"
	"github.com/orizon-lang/pljit/internal/symtab"
)

// Build walks a parse tree once, producing an AST together with the
// symbol table it was resolved against. It enforces the return-
// statement presence check after lowering every statement.
func Build(tree *parsetree.FunctionDefinition) (*Function, *diag.Diagnostic) {
	b := &builder{symbols: symtab.New()}

	fn := &Function{}

	if tree.Param != nil {
		decl, err := b.declareList(tree.Param.Names, symtab.Param)
		if err != nil {
			return nil, err
		}

		fn.Param = &ParamDecl{Symbols: decl}
	}

	if tree.Var != nil {
		decl, err := b.declareList(tree.Var.Names, symtab.Var)
		if err != nil {
			return nil, err
		}

		fn.Var = &VarDecl{Symbols: decl}
	}

	if tree.Const != nil {
		symbols := make([]symtab.ID, 0, len(tree.Const.Inits))
		values := make([]int64, 0, len(tree.Const.Inits))

		for _, init := range tree.Const.Inits {
			id, err := b.symbols.Declare(init.Name.Text, symtab.Const, init.Name.Ref)
			if err != nil {
				return nil, err
			}

			symbols = append(symbols, id)
			values = append(values, init.Value)
		}

		fn.Const = &ConstDecl{Symbols: symbols, Values: values}
	}

	body, err := b.lowerStatements(tree.Body.Statements)
	if err != nil {
		return nil, err
	}

	if !containsReturn(body) {
		return nil, diag.New(diag.Error, "Reached end of function without a RETURN statement!", tree.Body.End.Ref)
	}

	fn.Body = body
	fn.SymbolCount = b.symbols.Len()
	fn.EndRef = tree.Body.End.Ref
	fn.Symbols = b.symbols

	return fn, nil
}

type builder struct {
	symbols *symtab.Table
}

func (b *builder) declareList(names []lex.Token, kind symtab.Kind) ([]symtab.ID, *diag.Diagnostic) {
	ids := make([]symtab.ID, 0, len(names))

	for _, name := range names {
		id, err := b.symbols.Declare(name.Text, kind, name.Ref)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func containsReturn(body []Statement) bool {
	for _, stmt := range body {
		if _, ok := stmt.(*Return); ok {
			return true
		}
	}

	return false
}

func (b *builder) lowerStatements(seps []parsetree.StatementSeparator) ([]Statement, *diag.Diagnostic) {
	body := make([]Statement, 0, len(seps))

	for _, sep := range seps {
		stmt, err := b.lowerStatement(sep.Statement)
		if err != nil {
			return nil, err
		}

		body = append(body, stmt)
	}

	return body, nil
}

func (b *builder) lowerStatement(stmt parsetree.Statement) (Statement, *diag.Diagnostic) {
	switch s := stmt.(type) {
	case *parsetree.AssignStatement:
		id, err := b.symbols.UseAsAssignmentTarget(s.Name.Text, s.Name.Ref)
		if err != nil {
			return nil, err
		}

		value, err := b.lowerAdditive(s.RHS)
		if err != nil {
			return nil, err
		}

		b.symbols.MarkInitialized(id)

		return &Assignment{Symbol: id, Value: value}, nil

	case *parsetree.ReturnStatement:
		value, err := b.lowerAdditive(s.Value)
		if err != nil {
			return nil, err
		}

		return &Return{Value: value}, nil

	default:
		panic("ast: unknown statement node")
	}
}

func (b *builder) lowerAdditive(e parsetree.AdditiveExpression) (Expr, *diag.Diagnostic) {
	head, err := b.lowerMultiplicative(e.Head)
	if err != nil {
		return nil, err
	}

	if e.Rest == nil {
		return head, nil
	}

	rest, err := b.lowerAdditive(e.Rest.Next)
	if err != nil {
		return nil, err
	}

	if e.Rest.Op.Text == "+" {
		return &Add{Left: head, Right: rest}, nil
	}

	return &Subtract{Left: head, Right: rest}, nil
}

func (b *builder) lowerMultiplicative(e parsetree.MultiplicativeExpression) (Expr, *diag.Diagnostic) {
	head, err := b.lowerUnary(e.Head)
	if err != nil {
		return nil, err
	}

	if e.Rest == nil {
		return head, nil
	}

	rest, err := b.lowerMultiplicative(e.Rest.Next)
	if err != nil {
		return nil, err
	}

	if e.Rest.Op.Text == "*" {
		return &Multiply{Left: head, Right: rest}, nil
	}

	return &Divide{Left: head, Right: rest, OpRef: e.Rest.Op.Ref}, nil
}

func (b *builder) lowerUnary(e parsetree.UnaryExpression) (Expr, *diag.Diagnostic) {
	operand, err := b.lowerPrimary(e.Operand)
	if err != nil {
		return nil, err
	}

	if e.Op == nil {
		return operand, nil
	}

	if e.Op.Text == "+" {
		return &UnaryPlus{Operand: operand}, nil
	}

	return &UnaryMinus{Operand: operand}, nil
}

func (b *builder) lowerPrimary(p parsetree.PrimaryExpression) (Expr, *diag.Diagnostic) {
	switch prim := p.(type) {
	case *parsetree.IdentPrimary:
		id, err := b.symbols.Use(prim.Name.Text, prim.Name.Ref)
		if err != nil {
			return nil, err
		}

		return &Variable{Symbol: id}, nil

	case *parsetree.LiteralPrimary:
		return &Literal{Value: prim.IntValue}, nil

	case *parsetree.BracketedPrimary:
		return b.lowerAdditive(prim.Inner)

	default:
		panic("ast: unknown primary node")
	}
}
