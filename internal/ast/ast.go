// Package ast provides syntax tree types for parsed Tack source files.
package ast

import (
	"strings"

	"github.com/tacklang/tack/internal/types"
)

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span types.Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span types.Span) Ident {
	return Ident{Name: name, Span: span}
}

// DottedName is a dotted module path such as "other_submodule.deep".
type DottedName struct {
	Parts []Ident
	Span  types.Span
}

// NewDottedName creates a DottedName from its components.
func NewDottedName(parts []Ident, span types.Span) DottedName {
	return DottedName{Parts: parts, Span: span}
}

// Root returns the first dotted component.
func (d DottedName) Root() string {
	if len(d.Parts) == 0 {
		return ""
	}
	return d.Parts[0].Name
}

// String returns the dotted path as source text.
func (d DottedName) String() string {
	names := make([]string, len(d.Parts))
	for i, p := range d.Parts {
		names[i] = p.Name
	}
	return strings.Join(names, ".")
}

// File is the top-level node for one parsed source file.
type File struct {
	Stmts []Stmt
	Span  types.Span
}

// Stmt is implemented by all statement nodes.
type Stmt interface {
	StmtSpan() types.Span
	stmtNode()
}

// ImportStmt is a plain import statement with one or more dotted
// targets, each optionally aliased: "import a.b as x, c".
type ImportStmt struct {
	Targets []ImportTarget
	Span    types.Span
}

func (s *ImportStmt) StmtSpan() types.Span { return s.Span }
func (s *ImportStmt) stmtNode()            {}

// ImportTarget is one dotted target of a plain import statement.
// Alias is nil for unaliased targets.
type ImportTarget struct {
	Path  DottedName
	Alias *Ident
	Span  types.Span
}

// FromImportStmt is a from-import statement: "from a.b import x as y, z".
type FromImportStmt struct {
	Module DottedName
	Names  []ImportedName
	Span   types.Span
}

func (s *FromImportStmt) StmtSpan() types.Span { return s.Span }
func (s *FromImportStmt) stmtNode()            {}

// ImportedName is one name imported by a from-import statement.
// Alias is nil when the name binds under itself.
type ImportedName struct {
	Name  Ident
	Alias *Ident
	Span  types.Span
}

// AssignStmt binds the result of an expression to a name: "name = expr".
type AssignStmt struct {
	Name  Ident
	Value Expr
	Span  types.Span
}

func (s *AssignStmt) StmtSpan() types.Span { return s.Span }
func (s *AssignStmt) stmtNode()            {}

// Expr is implemented by all expression nodes.
type Expr interface {
	ExprSpan() types.Span
	exprNode()
}

// StringLit is a string literal with its decoded value.
type StringLit struct {
	Value string
	Span  types.Span
}

func (e *StringLit) ExprSpan() types.Span { return e.Span }
func (e *StringLit) exprNode()            {}

// NumberLit is an integer literal.
type NumberLit struct {
	Value int64
	Span  types.Span
}

func (e *NumberLit) ExprSpan() types.Span { return e.Span }
func (e *NumberLit) exprNode()            {}

// DottedRef is a name or attribute path evaluated against the module
// namespace: "submodule.name".
type DottedRef struct {
	Path DottedName
	Span types.Span
}

func (e *DottedRef) ExprSpan() types.Span { return e.Span }
func (e *DottedRef) exprNode()            {}
