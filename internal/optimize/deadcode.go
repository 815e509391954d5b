package optimize

import "github.com/orizon-lang/pljit/internal/ast"

// DeadCodeElimination truncates the function body after its first
// Return statement. It is idempotent: a body already truncated at its
// first Return is left unchanged.
func DeadCodeElimination(fn *ast.Function) {
	for i, stmt := range fn.Body {
		if _, ok := stmt.(*ast.Return); ok {
			fn.Body = fn.Body[:i+1]
			return
		}
	}
}
