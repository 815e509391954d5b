// Package optimize implements the two AST-rewriting passes run after a
// function is built: constant propagation and post-return dead-code
// elimination. Both mutate the AST in place and are safe to compose in
// that order.
package optimize

import (
	"github.com/orizon-lang/pljit/internal/ast"
	"github.com/orizon-lang/pljit/internal/symtab"
)

type symbolState struct {
	constant bool
	value    int64
}

// ConstantPropagation folds expressions built entirely from CONST
// declarations and from variables whose most recent assignment folded
// to a literal. It does not eliminate assignments and does not track
// dataflow across branches (the language has none).
func ConstantPropagation(fn *ast.Function) {
	state := make(map[symtab.ID]symbolState)

	if fn.Const != nil {
		for i, id := range fn.Const.Symbols {
			state[id] = symbolState{constant: true, value: fn.Const.Values[i]}
		}
	}

	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.Assignment:
			s.Value = rewrite(state, s.Value)

			if lit, ok := s.Value.(*ast.Literal); ok {
				state[s.Symbol] = symbolState{constant: true, value: lit.Value}
			} else {
				delete(state, s.Symbol)
			}

		case *ast.Return:
			s.Value = rewrite(state, s.Value)
		}
	}
}

func rewrite(state map[symtab.ID]symbolState, e ast.Expr) ast.Expr {
	switch expr := e.(type) {
	case *ast.Literal:
		return expr

	case *ast.Variable:
		if st, ok := state[expr.Symbol]; ok && st.constant {
			return &ast.Literal{Value: st.value}
		}

		return expr

	case *ast.UnaryPlus:
		operand := rewrite(state, expr.Operand)

		if lit, ok := operand.(*ast.Literal); ok {
			return &ast.Literal{Value: lit.Value}
		}

		expr.Operand = operand

		return expr

	case *ast.UnaryMinus:
		operand := rewrite(state, expr.Operand)

		if lit, ok := operand.(*ast.Literal); ok {
			return &ast.Literal{Value: -lit.Value}
		}

		expr.Operand = operand

		return expr

	case *ast.Add:
		left, right := rewrite(state, expr.Left), rewrite(state, expr.Right)

		if l, r, ok := bothLiterals(left, right); ok {
			return &ast.Literal{Value: l + r}
		}

		expr.Left, expr.Right = left, right

		return expr

	case *ast.Subtract:
		left, right := rewrite(state, expr.Left), rewrite(state, expr.Right)

		if l, r, ok := bothLiterals(left, right); ok {
			return &ast.Literal{Value: l - r}
		}

		expr.Left, expr.Right = left, right

		return expr

	case *ast.Multiply:
		left, right := rewrite(state, expr.Left), rewrite(state, expr.Right)

		if l, r, ok := bothLiterals(left, right); ok {
			return &ast.Literal{Value: l * r}
		}

		expr.Left, expr.Right = left, right

		return expr

	case *ast.Divide:
		left, right := rewrite(state, expr.Left), rewrite(state, expr.Right)

		if l, r, ok := bothLiterals(left, right); ok && r != 0 {
			return &ast.Literal{Value: l / r}
		}

		expr.Left, expr.Right = left, right

		return expr

	default:
		panic("optimize: unknown expression node")
	}
}

func bothLiterals(left, right ast.Expr) (int64, int64, bool) {
	l, ok := left.(*ast.Literal)
	if !ok {
		return 0, 0, false
	}

	r, ok := right.(*ast.Literal)
	if !ok {
		return 0, 0, false
	}

	return l.Value, r.Value, true
}
