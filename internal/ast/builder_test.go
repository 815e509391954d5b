package ast

import (
	"testing"

	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/parse"
	"github.com/orizon-lang/pljit/internal/source"
)

func buildFrom(t *testing.T, text string) (*Function, *diag.Diagnostic) {
	t.Helper()

	tree, perr := parse.ParseProgram(source.New(text))
	if perr != nil {
		t.Fatalf("unexpected parse error: %s", perr.Message())
	}

	return Build(tree)
}

func TestBuildVolumeExample(t *testing.T) {
	fn, err := buildFrom(t, `PARAM width, height, depth;
VAR volume;
CONST density = 2400;
BEGIN
  volume := width * height * depth;
  RETURN density * volume
END.`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}

	if fn.SymbolCount != 5 {
		t.Errorf("SymbolCount = %d, want 5", fn.SymbolCount)
	}

	if len(fn.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body))
	}

	if _, ok := fn.Body[1].(*Return); !ok {
		t.Errorf("expected last statement to be a Return, got %T", fn.Body[1])
	}
}

func TestBuildMissingReturnFails(t *testing.T) {
	_, err := buildFrom(t, `VAR t; BEGIN t := 0 END.`)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Message() != "Reached end of function without a RETURN statement!" {
		t.Errorf("message = %q", err.Message())
	}
}

func TestBuildRedefinition(t *testing.T) {
	_, err := buildFrom(t, `CONST test = 2, test = 3; BEGIN RETURN 0 END.`)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Message() != "Redefinition of identifier!" {
		t.Errorf("message = %q", err.Message())
	}

	if len(err.Causes()) != 1 {
		t.Fatalf("expected 1 cause, got %d", len(err.Causes()))
	}
}

func TestBuildAssignmentToVarInitializesAfterRHS(t *testing.T) {
	fn, err := buildFrom(t, `VAR a, b; BEGIN a := 1; b := a; RETURN b END.`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}

	if len(fn.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(fn.Body))
	}
}

func TestBuildUseBeforeInitializationFails(t *testing.T) {
	_, err := buildFrom(t, `VAR a; BEGIN a := a; RETURN a END.`)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Message() != "Tried to use uninitialized variable!" {
		t.Errorf("message = %q", err.Message())
	}
}

func TestBuildAssignToConstantFails(t *testing.T) {
	_, err := buildFrom(t, `CONST c = 1; BEGIN c := 2; RETURN c END.`)
	if err == nil {
		t.Fatal("expected an error")
	}

	if err.Message() != "Can't assign to constant!" {
		t.Errorf("message = %q", err.Message())
	}
}

func TestBuildRightRecursiveAddShape(t *testing.T) {
	fn, err := buildFrom(t, `BEGIN RETURN 1 + 2 + 3 END.`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}

	ret := fn.Body[0].(*Return)

	add, ok := ret.Value.(*Add)
	if !ok {
		t.Fatalf("expected *Add, got %T", ret.Value)
	}

	if _, ok := add.Left.(*Literal); !ok {
		t.Errorf("left operand should be a literal, got %T", add.Left)
	}

	inner, ok := add.Right.(*Add)
	if !ok {
		t.Fatalf("expected nested *Add on the right, got %T", add.Right)
	}

	if inner.Left.(*Literal).Value != 2 || inner.Right.(*Literal).Value != 3 {
		t.Errorf("inner add operands = %+v, %+v", inner.Left, inner.Right)
	}
}

func TestBuildDivideCarriesOperatorReference(t *testing.T) {
	fn, err := buildFrom(t, `BEGIN RETURN 1 / 0 END.`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Message())
	}

	ret := fn.Body[0].(*Return)

	div, ok := ret.Value.(*Divide)
	if !ok {
		t.Fatalf("expected *Divide, got %T", ret.Value)
	}

	if div.OpRef.Text() != "/" {
		t.Errorf("OpRef text = %q, want %q", div.OpRef.Text(), "/")
	}
}
