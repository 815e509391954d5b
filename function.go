// Package pljit is the public entry point: a Registry of lazily
// compiled Functions. Each Function compiles its source text exactly
// once, no matter how many goroutines call Evaluate concurrently.
package pljit

import (
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/orizon-lang/pljit/internal/ast"
	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/eval"
	"github.com/orizon-lang/pljit/internal/optimize"
	"github.com/orizon-lang/pljit/internal/parse"
	"github.com/orizon-lang/pljit/internal/source"
)

// compileResult is the one-shot outcome of the lex/parse/build/
// optimize pipeline: either a ready-to-evaluate function or the
// diagnostic that stopped compilation.
type compileResult struct {
	fn   *ast.Function
	diag *diag.Diagnostic
}

// Function is a registered, not-yet-necessarily-compiled PL program.
// Safe for concurrent use: the first Evaluate call to observe an
// uncompiled Function runs the pipeline; every other concurrent caller
// waits for that run and shares its result, and every later caller
// reads the cached result without blocking.
//
// The C++ original guards this with a mutex, a condition variable, and
// an atomic "compiled" flag: one thread takes the lock and compiles,
// the rest wait on the condition variable, and the flag lets later
// callers skip locking entirely. singleflight.Group already gives the
// "run once, fan out the result to concurrent callers" half of that;
// it does not remember the result once every caller has returned, so
// it's paired with an atomic.Pointer that holds the cached result for
// everyone who arrives afterward.
type Function struct {
	code *source.Code

	group  singleflight.Group
	cached atomic.Pointer[compileResult]
}

// newFunction wraps program text as an uncompiled Function.
func newFunction(text string) *Function {
	return &Function{code: source.New(text)}
}

// ensureCompiled runs the pipeline exactly once across all callers.
func (f *Function) ensureCompiled() *compileResult {
	if cached := f.cached.Load(); cached != nil {
		return cached
	}

	v, _, _ := f.group.Do("compile", func() (interface{}, error) {
		if cached := f.cached.Load(); cached != nil {
			return cached, nil
		}

		result := &compileResult{}

		tree, err := parse.ParseProgram(f.code)
		if err != nil {
			result.diag = err
		} else if fn, err := ast.Build(tree); err != nil {
			result.diag = err
		} else {
			optimize.ConstantPropagation(fn)
			optimize.DeadCodeElimination(fn)

			result.fn = fn
		}

		f.cached.Store(result)

		return result, nil
	})

	return v.(*compileResult)
}

// Evaluate compiles the function on first use (see ensureCompiled) and
// then runs it against args. Compilation failures and runtime errors
// are both reported as a *diag.Diagnostic; every subsequent call after
// a failed compilation returns that same stored diagnostic.
func (f *Function) Evaluate(args []int64) (int64, *diag.Diagnostic) {
	result := f.ensureCompiled()
	if result.diag != nil {
		return 0, result.diag
	}

	return eval.Evaluate(result.fn, args)
}
