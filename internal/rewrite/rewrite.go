// Package rewrite implements prefix qualification of import statements.
//
// The pass takes a parsed file plus the set of names that are local to
// the root being loaded, and produces new source text in which every
// import reference to a local name is qualified under the registered
// namespace prefix. The input AST is never mutated: each statement
// either passes through (serialized as its original bytes, including
// the surrounding blanks and comments) or is re-rendered from a new
// statement value. Running the pass over its own output is a no-op,
// since qualified references no longer start with a local name.
package rewrite

import (
	"log/slog"
	"strings"

	"github.com/tacklang/tack/internal/ast"
	"github.com/tacklang/tack/internal/types"
)

// Result is the outcome of transforming one source file.
type Result struct {
	// Text is the serialized output, identical to the input when
	// Changed is false.
	Text []byte
	// Changed reports whether any import statement was qualified.
	Changed bool
}

// Apply runs the rewrite pass over a parsed file.
//
// locals is the local-name set of the root the file belongs to, and
// wholePrefix is the fully qualified prefix for that root including
// the trailing separator (e.g. "ext.root_external.").
func Apply(file *ast.File, source []byte, locals map[string]struct{}, wholePrefix string, logger *slog.Logger) Result {
	log := types.Logger{L: logger}

	var out strings.Builder
	out.Grow(len(source) + 64)

	changed := false
	cursor := types.ByteOffset(0)

	for _, stmt := range file.Stmts {
		text, ok := rewriteStatement(stmt, locals, wholePrefix)
		if !ok {
			continue
		}

		span := stmt.StmtSpan()
		out.Write(source[cursor:span.Start])
		out.WriteString(text)
		cursor = span.End
		changed = true

		log.Log(slog.LevelDebug, "import statement qualified",
			slog.String("rewritten", text))
	}
	out.Write(source[cursor:])

	if !changed {
		return Result{Text: source, Changed: false}
	}
	return Result{Text: []byte(out.String()), Changed: true}
}

// rewriteStatement returns the replacement text for a statement, or
// ok=false when the statement is left untouched.
func rewriteStatement(stmt ast.Stmt, locals map[string]struct{}, wholePrefix string) (string, bool) {
	switch s := stmt.(type) {
	case *ast.ImportStmt:
		return rewriteImport(s, locals, wholePrefix)
	case *ast.FromImportStmt:
		return rewriteFromImport(s, locals, wholePrefix)
	default:
		return "", false
	}
}

// target is a rendered import target: a dotted path with an optional
// alias. Synthetic binding targets are built directly in this form.
type target struct {
	path  string
	alias string
}

// rewriteImport qualifies the local targets of a plain import.
//
// For an unaliased local target the qualified path would no longer
// bind the original root name, so a synthetic "<prefix><root> as
// <root>" target is inserted right after it to preserve the binding.
// A single-component unaliased target is then fully redundant and is
// dropped; a multi-component one is kept for its side effect of
// loading the nested modules along the qualified path.
func rewriteImport(s *ast.ImportStmt, locals map[string]struct{}, wholePrefix string) (string, bool) {
	changed := false
	targets := make([]target, 0, len(s.Targets))

	for _, t := range s.Targets {
		root := t.Path.Root()
		if _, ok := locals[root]; !ok {
			targets = append(targets, renderTarget(t))
			continue
		}
		changed = true

		qualified := wholePrefix + t.Path.String()
		if t.Alias != nil {
			targets = append(targets, target{path: qualified, alias: t.Alias.Name})
			continue
		}
		if len(t.Path.Parts) > 1 {
			targets = append(targets, target{path: qualified})
		}
		targets = append(targets, target{path: wholePrefix + root, alias: root})
	}

	if !changed {
		return "", false
	}

	var b strings.Builder
	b.WriteString("import ")
	for i, t := range targets {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.path)
		if t.alias != "" {
			b.WriteString(" as ")
			b.WriteString(t.alias)
		}
	}
	return b.String(), true
}

// rewriteFromImport qualifies the module path of a from-import. The
// imported names stay as written: they resolve against the same module
// once the path itself is qualified.
func rewriteFromImport(s *ast.FromImportStmt, locals map[string]struct{}, wholePrefix string) (string, bool) {
	if _, ok := locals[s.Module.Root()]; !ok {
		return "", false
	}

	var b strings.Builder
	b.WriteString("from ")
	b.WriteString(wholePrefix)
	b.WriteString(s.Module.String())
	b.WriteString(" import ")
	for i, n := range s.Names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n.Name.Name)
		if n.Alias != nil {
			b.WriteString(" as ")
			b.WriteString(n.Alias.Name)
		}
	}
	return b.String(), true
}

func renderTarget(t ast.ImportTarget) target {
	out := target{path: t.Path.String()}
	if t.Alias != nil {
		out.alias = t.Alias.Name
	}
	return out
}
