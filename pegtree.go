/*
Package pegtree is a scannerless PEG parsing library built around incremental
construction of a concrete syntax tree.

Consists of subpackages:
  - grammar: rule identifiers and PEG expression forms used to define grammars programmatically;
  - parser: backtracking matcher that attempts rules against an input and reports every
    rule attempt (start, success, failure) to an installed hook set;
  - source: named inputs, byte offsets, and line/column mapping;
  - tree: syntax tree nodes and the builder that keeps a stack of in-progress nodes
    synchronized with the matcher, selecting which rules appear in the final tree.

Typical usage is:

1. Define a grammar: register named rules built from grammar expression forms
(sequences, ordered choices, repetitions, literals, character sets, predicates).

2. Create a parser for the grammar.

3. Describe which rules should produce tree nodes (and how finished nodes are
transformed) with a tree.Policy, or pass nil to keep a node for every rule.

4. Call tree.Parse with an input; on success the returned root node holds the
selected nodes in source order.
*/
package pegtree

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors = 1   // used by grammar
	SyntaxErrors  = 101 // used by parser for match failures
	ParserErrors  = 201 // used by parser for setup/usage errors
	TreeErrors    = 301 // used by tree
)

// Error is the error type used by pegtree subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if name != "" && line != 0 && col != 0 {
		msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// pos must not be nil.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
