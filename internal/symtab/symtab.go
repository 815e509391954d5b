// Package symtab implements the per-function symbol table: dense,
// 1-based identifier ids with declaration, use, and assignment-target
// resolution rules.
package symtab

import (
	"github.com/orizon-lang/pljit/internal/diag"
	"github.com/orizon-lang/pljit/internal/source"
)

// Kind classifies how a symbol was declared.
type Kind int

const (
	Param Kind = iota
	Var
	Const
)

// ID names a declared identifier within one function. 0 is reserved
// and never returned by a successful Declare.
type ID int

// Symbol is one entry in the table.
type Symbol struct {
	ID          ID
	Name        string
	Kind        Kind
	Initialized bool
	Constant    bool
	DeclRef     source.Reference
}

// Table resolves identifiers to Symbols for a single function body. The
// zero value is not usable; construct one with New.
type Table struct {
	symbols []Symbol
	byName  map[string]ID
}

// New creates an empty Table.
func New() *Table {
	return &Table{byName: make(map[string]ID)}
}

// Len returns the number of declared symbols.
func (t *Table) Len() int { return len(t.symbols) }

// Symbol returns the symbol with the given id. The caller must ensure
// id was returned by a prior successful operation on this table.
func (t *Table) Symbol(id ID) *Symbol {
	return &t.symbols[id-1]
}

// Declare binds name to a fresh symbol of the given kind. PARAM and
// CONST symbols start initialized; VAR symbols start uninitialized.
// Redeclaring an existing name fails with a note at the original
// declaration.
func (t *Table) Declare(name string, kind Kind, ref source.Reference) (ID, *diag.Diagnostic) {
	if existingID, ok := t.byName[name]; ok {
		existing := t.Symbol(existingID)

		return 0, diag.New(diag.Error, "Redefinition of identifier!", ref).
			AttachCause(diag.New(diag.Note, "Original declaration here", existing.DeclRef))
	}

	id := ID(len(t.symbols) + 1)

	t.symbols = append(t.symbols, Symbol{
		ID:          id,
		Name:        name,
		Kind:        kind,
		Initialized: kind != Var,
		Constant:    kind == Const,
		DeclRef:     ref,
	})

	t.byName[name] = id

	return id, nil
}

// Use resolves name as a read operand. It fails if the name is
// undeclared or declared but never initialized.
func (t *Table) Use(name string, ref source.Reference) (ID, *diag.Diagnostic) {
	id, ok := t.byName[name]
	if !ok {
		return 0, diag.New(diag.Error, "Using undeclared identifier!", ref)
	}

	sym := t.Symbol(id)
	if !sym.Initialized {
		return 0, diag.New(diag.Error, "Tried to use uninitialized variable!", ref)
	}

	return id, nil
}

// UseAsAssignmentTarget resolves name as the left-hand side of an
// assignment. It fails if the name is undeclared or constant. It does
// NOT mark the symbol initialized; callers must call MarkInitialized
// only once the assignment's right-hand side has itself been lowered
// successfully, so a failed RHS never leaves a partially-initialized
// symbol behind.
func (t *Table) UseAsAssignmentTarget(name string, ref source.Reference) (ID, *diag.Diagnostic) {
	id, ok := t.byName[name]
	if !ok {
		return 0, diag.New(diag.Error, "Using undeclared identifier!", ref)
	}

	sym := t.Symbol(id)
	if sym.Constant {
		return 0, diag.New(diag.Error, "Can't assign to constant!", ref)
	}

	return id, nil
}

// MarkInitialized flips the symbol's initialized flag. Called by the
// AST builder once an assignment to id has been fully accepted.
func (t *Table) MarkInitialized(id ID) {
	t.Symbol(id).Initialized = true
}
