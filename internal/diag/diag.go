// Package diag implements pljit's diagnostic model: a kind-tagged
// message anchored to a source.Reference, optionally carrying ordered
// note causes. It is the single error-reporting vocabulary shared by
// the lexer, parser, AST builder and evaluator.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/orizon-lang/pljit/internal/source"
)

// Kind distinguishes a fatal diagnostic from a contextual note attached
// to one.
type Kind int

const (
	// Error describes a fatal, erroneous condition.
	Error Kind = iota
	// Note provides contextual information attached to an Error.
	Note
)

func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Diagnostic is an immutable message bound to a source reference, with
// causes appended after construction via AttachCause.
type Diagnostic struct {
	kind      Kind
	message   string
	reference source.Reference
	causes    []*Diagnostic
}

// New constructs a Diagnostic. Construction never performs I/O.
func New(kind Kind, message string, reference source.Reference) *Diagnostic {
	return &Diagnostic{kind: kind, message: message, reference: reference}
}

// Errorf is a convenience constructor for New(Error, ...).
func Errorf(reference source.Reference, format string, args ...interface{}) *Diagnostic {
	return New(Error, fmt.Sprintf(format, args...), reference)
}

// Kind returns the diagnostic's kind.
func (d *Diagnostic) Kind() Kind { return d.kind }

// Message returns the diagnostic's message text.
func (d *Diagnostic) Message() string { return d.message }

// Reference returns the source reference the diagnostic is anchored to.
func (d *Diagnostic) Reference() source.Reference { return d.reference }

// Causes returns the ordered list of notes attached to this diagnostic.
func (d *Diagnostic) Causes() []*Diagnostic { return d.causes }

// AttachCause appends a note cause and returns the receiver, so callers
// can chain construction: diag.New(...).AttachCause(other).
func (d *Diagnostic) AttachCause(cause *Diagnostic) *Diagnostic {
	d.causes = append(d.causes, cause)
	return d
}

// Error implements the error interface so a *Diagnostic can travel
// through ordinary Go error-handling paths (wrapped, logged, compared).
func (d *Diagnostic) Error() string {
	pos := d.reference.Position()
	return fmt.Sprintf("%s: %s: %s", pos, d.kind, d.message)
}

// Render writes the compiler-style rendering of the diagnostic (and,
// recursively, of every attached cause) to w:
//
//	<line>:<col>: <kind>: <message>
//	<source line containing the reference, tabs preserved>
//	<spaces/tabs matching prefix>^<tildes of length reference.length-1>
func (d *Diagnostic) Render(w io.Writer) {
	pos := d.reference.Position()
	fmt.Fprintf(w, "%d:%d: %s: %s\n", pos.Line, pos.Column, d.kind, d.message)

	line := d.reference.LineText()
	fmt.Fprintln(w, line)

	var indicator strings.Builder

	prefix := pos.Column - 1
	for i := 0; i < prefix && i < len(line); i++ {
		if line[i] == '\t' {
			indicator.WriteByte('\t')
		} else {
			indicator.WriteByte(' ')
		}
	}

	indicator.WriteByte('^')
	for i := 1; i < d.reference.Length(); i++ {
		indicator.WriteByte('~')
	}

	fmt.Fprintln(w, indicator.String())

	for _, cause := range d.causes {
		cause.Render(w)
	}
}
