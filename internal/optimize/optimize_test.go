package optimize

import (
	"testing"

	"github.com/orizon-lang/pljit/internal/ast"
	"github.com/orizon-lang/pljit/internal/eval"
	"github.com/orizon-lang/pljit/internal/parse"
	"github.com/orizon-lang/pljit/internal/source"
)

func build(t *testing.T, text string) *ast.Function {
	t.Helper()

	tree, perr := parse.ParseProgram(source.New(text))
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message())
	}

	fn, err := ast.Build(tree)
	if err != nil {
		t.Fatalf("unexpected build error: %s", err.Message())
	}

	return fn
}

func literalReturn(t *testing.T, fn *ast.Function, index int) int64 {
	t.Helper()

	ret, ok := fn.Body[index].(*ast.Return)
	if !ok {
		t.Fatalf("statement %d is not a Return: %T", index, fn.Body[index])
	}

	lit, ok := ret.Value.(*ast.Literal)
	if !ok {
		t.Fatalf("Return value at %d is not folded to a Literal: %T", index, ret.Value)
	}

	return lit.Value
}

func TestConstantPropagationFoldsConstAndArithmetic(t *testing.T) {
	fn := build(t, `CONST c = 2, d = 3; BEGIN RETURN (c + d) * 2 END.`)

	ConstantPropagation(fn)

	if got := literalReturn(t, fn, 0); got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestConstantPropagationTracksAssignedVariables(t *testing.T) {
	fn := build(t, `VAR f; BEGIN f := 1 + 1; RETURN f END.`)

	ConstantPropagation(fn)

	if got := literalReturn(t, fn, 1); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestConstantPropagationLeavesDivisionByZeroUnfolded(t *testing.T) {
	fn := build(t, `PARAM x; VAR b; BEGIN b := 3 / 0; RETURN x END.`)

	ConstantPropagation(fn)

	assign := fn.Body[0].(*ast.Assignment)
	if _, ok := assign.Value.(*ast.Literal); ok {
		t.Error("division by zero must not be folded away")
	}
}

func TestConstantPropagationIdempotent(t *testing.T) {
	fn := build(t, `PARAM x; VAR a, b, f; CONST c = 2, d = 3, e = 4;
BEGIN f := 1+1; a := (3*(c*2)) + (e/+2) - (d+-e); f := x; b := (d+x)+(d/0); RETURN a; RETURN f END.`)

	ConstantPropagation(fn)
	first := renderBody(fn)

	ConstantPropagation(fn)
	second := renderBody(fn)

	if first != second {
		t.Errorf("constant propagation not idempotent:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestDeadCodeEliminationTruncatesAfterFirstReturn(t *testing.T) {
	fn := build(t, `PARAM x; VAR a, b, f; CONST c = 2, d = 3, e = 4;
BEGIN f := 1+1; a := (3*(c*2)) + (e/+2) - (d+-e); f := x; b := (d+x)+(d/0); RETURN a; RETURN f END.`)

	ConstantPropagation(fn)
	DeadCodeElimination(fn)

	if len(fn.Body) != 5 {
		t.Fatalf("expected 5 surviving statements, got %d: %s", len(fn.Body), renderBody(fn))
	}

	if got := literalReturn(t, fn, 4); got != 15 {
		t.Errorf("RETURN a folded to %d, want 15", got)
	}

	fAssign := fn.Body[2].(*ast.Assignment)
	if _, ok := fAssign.Value.(*ast.Variable); !ok {
		t.Errorf("f := x should remain a variable read, got %T", fAssign.Value)
	}
}

func TestDeadCodeEliminationIdempotent(t *testing.T) {
	fn := build(t, `BEGIN RETURN 1; RETURN 2 END.`)

	DeadCodeElimination(fn)
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement after first pass, got %d", len(fn.Body))
	}

	DeadCodeElimination(fn)
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement after second pass, got %d", len(fn.Body))
	}
}

func TestOptimizationSoundnessPreservesReturnValue(t *testing.T) {
	fn := build(t, `PARAM x; VAR a, b, f; CONST c = 2, d = 3, e = 4;
BEGIN f := 1+1; a := (3*(c*2)) + (e/+2) - (d+-e); f := x; RETURN a; RETURN f END.`)

	for _, arg := range []int64{0, 1, -7, 42} {
		before, err := eval.Evaluate(fn, []int64{arg})
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Message())
		}

		optimized := build(t, `PARAM x; VAR a, b, f; CONST c = 2, d = 3, e = 4;
BEGIN f := 1+1; a := (3*(c*2)) + (e/+2) - (d+-e); f := x; RETURN a; RETURN f END.`)
		ConstantPropagation(optimized)
		DeadCodeElimination(optimized)

		after, err := eval.Evaluate(optimized, []int64{arg})
		if err != nil {
			t.Fatalf("unexpected error: %s", err.Message())
		}

		if before != after {
			t.Errorf("arg=%d: before=%d after=%d", arg, before, after)
		}
	}
}

func renderBody(fn *ast.Function) string {
	out := ""

	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.Assignment:
			out += "A" + renderExpr(s.Value) + ";"
		case *ast.Return:
			out += "R" + renderExpr(s.Value) + ";"
		}
	}

	return out
}

func renderExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.Literal:
		return "L"
	case *ast.Variable:
		return "V"
	case *ast.UnaryPlus:
		return "+" + renderExpr(v.Operand)
	case *ast.UnaryMinus:
		return "-" + renderExpr(v.Operand)
	case *ast.Add:
		return "(" + renderExpr(v.Left) + "+" + renderExpr(v.Right) + ")"
	case *ast.Subtract:
		return "(" + renderExpr(v.Left) + "-" + renderExpr(v.Right) + ")"
	case *ast.Multiply:
		return "(" + renderExpr(v.Left) + "*" + renderExpr(v.Right) + ")"
	case *ast.Divide:
		return "(" + renderExpr(v.Left) + "/" + renderExpr(v.Right) + ")"
	default:
		return "?"
	}
}
