// Package eval implements the tree-walking evaluator: an AST plus an
// argument vector reduces to a 64-bit integer or a runtime diagnostic.
package eval

import (
	"github.com/orizon-lang/pljit/internal/ast"
	"github.com/orizon-lang/pljit/internal/diag"
)

// Context holds per-evaluation state: one slot per declared symbol,
// filled in as parameters and constants are assigned and as
// assignments execute.
type Context struct {
	variables    []int64
	returnValue  *int64
	runtimeError *diag.Diagnostic
}

// Evaluate runs fn against args, returning the function's result or
// the first diagnostic raised while preparing arguments or executing
// statements.
func Evaluate(fn *ast.Function, args []int64) (int64, *diag.Diagnostic) {
	if fn.Param == nil {
		if len(args) != 0 {
			return 0, diag.New(diag.Error, "Provided arguments to function with missing PARAM declaration!", fn.EndRef)
		}
	} else {
		want := len(fn.Param.Symbols)
		if len(args) < want {
			return 0, diag.New(diag.Error, "Received to few arguments!", fn.EndRef)
		}

		if len(args) > want {
			return 0, diag.New(diag.Error, "Received to many arguments!", fn.EndRef)
		}
	}

	ctx := &Context{variables: make([]int64, fn.SymbolCount)}

	if fn.Param != nil {
		for i, id := range fn.Param.Symbols {
			ctx.variables[id-1] = args[i]
		}
	}

	if fn.Const != nil {
		for i, id := range fn.Const.Symbols {
			ctx.variables[id-1] = fn.Const.Values[i]
		}
	}

	for _, stmt := range fn.Body {
		if err := execStatement(ctx, stmt); err != nil {
			return 0, err
		}

		if ctx.returnValue != nil {
			break
		}
	}

	if ctx.returnValue == nil {
		panic("eval: function executed without producing a return value")
	}

	return *ctx.returnValue, nil
}

func execStatement(ctx *Context, stmt ast.Statement) *diag.Diagnostic {
	switch s := stmt.(type) {
	case *ast.Assignment:
		value, err := evalExpr(ctx, s.Value)
		if err != nil {
			return err
		}

		ctx.variables[s.Symbol-1] = value

		return nil

	case *ast.Return:
		value, err := evalExpr(ctx, s.Value)
		if err != nil {
			return err
		}

		ctx.returnValue = &value

		return nil

	default:
		panic("eval: unknown statement node")
	}
}

func evalExpr(ctx *Context, expr ast.Expr) (int64, *diag.Diagnostic) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil

	case *ast.Variable:
		return ctx.variables[e.Symbol-1], nil

	case *ast.UnaryPlus:
		return evalExpr(ctx, e.Operand)

	case *ast.UnaryMinus:
		v, err := evalExpr(ctx, e.Operand)
		if err != nil {
			return 0, err
		}

		return -v, nil

	case *ast.Add:
		l, err := evalExpr(ctx, e.Left)
		if err != nil {
			return 0, err
		}

		r, err := evalExpr(ctx, e.Right)
		if err != nil {
			return 0, err
		}

		return l + r, nil

	case *ast.Subtract:
		l, err := evalExpr(ctx, e.Left)
		if err != nil {
			return 0, err
		}

		r, err := evalExpr(ctx, e.Right)
		if err != nil {
			return 0, err
		}

		return l - r, nil

	case *ast.Multiply:
		l, err := evalExpr(ctx, e.Left)
		if err != nil {
			return 0, err
		}

		r, err := evalExpr(ctx, e.Right)
		if err != nil {
			return 0, err
		}

		return l * r, nil

	case *ast.Divide:
		l, err := evalExpr(ctx, e.Left)
		if err != nil {
			return 0, err
		}

		r, err := evalExpr(ctx, e.Right)
		if err != nil {
			return 0, err
		}

		if r == 0 {
			return 0, diag.New(diag.Error, "Division by zero!", e.OpRef)
		}

		return l / r, nil

	default:
		panic("eval: unknown expression node")
	}
}
