// Package source owns the program text submitted to the compiler and
// issues stable byte references into it. Every downstream stage (lexer,
// parser, AST, evaluator) locates itself in the original text through a
// Reference rather than copying substrings around.
package source

import "fmt"

// Position is a 1-based (line, column) pair derived on demand from a
// byte offset. It is never stored alongside a Reference; computing it
// lazily keeps References cheap to copy.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Code is an immutable buffer of program text.
type Code struct {
	text string
}

// New wraps the given program text. The buffer is never mutated after
// construction.
func New(text string) *Code {
	return &Code{text: text}
}

// Text returns the full program text.
func (c *Code) Text() string { return c.text }

// Len returns the number of bytes in the buffer.
func (c *Code) Len() int { return len(c.text) }

// At reports the byte at the given offset. Callers must ensure offset
// is within [0, Len()).
func (c *Code) At(offset int) byte { return c.text[offset] }

// Ref builds a half-open [begin, end) reference into the buffer.
// Both bounds must lie within the buffer and begin must not exceed end.
func (c *Code) Ref(begin, end int) Reference {
	if begin < 0 || end > len(c.text) || begin > end {
		panic(fmt.Sprintf("source: illegal reference [%d,%d) into %d-byte buffer", begin, end, len(c.text)))
	}

	return Reference{code: c, begin: begin, end: end}
}

// position computes the 1-based (line, column) of the given offset in
// one forward scan of the prefix: each newline bumps the line count and
// marks where the current line starts, which yields the column.
func (c *Code) position(offset int) Position {
	line := 1

	lineStart := 0

	for i := 0; i < offset; i++ {
		if c.text[i] == '\n' {
			line++

			lineStart = i + 1
		}
	}

	return Position{Line: line, Column: offset - lineStart + 1}
}

// lineText returns the full source line (without the trailing newline)
// that contains the given byte offset.
func (c *Code) lineText(offset int) string {
	start := offset
	for start > 0 && c.text[start-1] != '\n' {
		start--
	}

	end := offset
	for end < len(c.text) && c.text[end] != '\n' {
		end++
	}

	return c.text[start:end]
}

// Reference is a half-open slice [begin, end) borrowed from a Code
// buffer. It never copies the underlying bytes.
type Reference struct {
	code  *Code
	begin int
	end   int
}

// IsZero reports whether the reference is the zero value, bound to no
// buffer.
func (r Reference) IsZero() bool { return r.code == nil }

// Text returns the substring of the source buffer the reference spans.
func (r Reference) Text() string {
	return r.code.text[r.begin:r.end]
}

// Begin returns the reference's starting byte offset.
func (r Reference) Begin() int { return r.begin }

// End returns the reference's ending byte offset.
func (r Reference) End() int { return r.end }

// Length returns the number of bytes the reference spans.
func (r Reference) Length() int { return r.end - r.begin }

// Code returns the buffer this reference borrows from.
func (r Reference) Code() *Code { return r.code }

// Extend grows the reference's right bound by n bytes. The new end
// must remain within the buffer.
func (r Reference) Extend(n int) Reference {
	newEnd := r.end + n
	if newEnd > len(r.code.text) {
		panic("source: Extend would exceed buffer bounds")
	}

	return Reference{code: r.code, begin: r.begin, end: newEnd}
}

// Join builds a reference spanning from the start of a to the end of
// b. Both must belong to the same buffer and a must begin no later
// than b.
func Join(a, b Reference) Reference {
	if a.code != b.code {
		panic("source: Join across different buffers")
	}

	if a.begin > b.begin {
		panic("source: Join out of order")
	}

	return Reference{code: a.code, begin: a.begin, end: b.end}
}

// Position returns the (line, column) of the reference's first byte.
func (r Reference) Position() Position {
	return r.code.position(r.begin)
}

// LineText returns the full source line containing the reference's
// first byte, tabs preserved, without the trailing newline.
func (r Reference) LineText() string {
	return r.code.lineText(r.begin)
}
