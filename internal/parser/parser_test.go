package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacklang/tack/internal/ast"
	"github.com/tacklang/tack/internal/types"
)

func parseFile(t *testing.T, source string) *ast.File {
	t.Helper()
	file, err := Parse([]byte(source), nil)
	require.NoError(t, err)
	return file
}

func TestEmptyFile(t *testing.T) {
	file := parseFile(t, "")
	assert.Empty(t, file.Stmts)
}

func TestBlankLinesAndComments(t *testing.T) {
	file := parseFile(t, "\n\n# a comment\n\n")
	assert.Empty(t, file.Stmts)
}

func TestPlainImportSingleTarget(t *testing.T) {
	file := parseFile(t, "import submodule\n")
	require.Len(t, file.Stmts, 1)

	stmt, ok := file.Stmts[0].(*ast.ImportStmt)
	require.True(t, ok)
	require.Len(t, stmt.Targets, 1)
	assert.Equal(t, "submodule", stmt.Targets[0].Path.String())
	assert.Nil(t, stmt.Targets[0].Alias)
}

func TestPlainImportMultipleTargets(t *testing.T) {
	file := parseFile(t, "import submodule, other_submodule.deep\n")
	require.Len(t, file.Stmts, 1)

	stmt := file.Stmts[0].(*ast.ImportStmt)
	require.Len(t, stmt.Targets, 2)
	assert.Equal(t, "submodule", stmt.Targets[0].Path.String())
	assert.Equal(t, "other_submodule.deep", stmt.Targets[1].Path.String())
	assert.Equal(t, "other_submodule", stmt.Targets[1].Path.Root())
}

func TestPlainImportWithAlias(t *testing.T) {
	file := parseFile(t, "import a.b.c as shortcut")
	stmt := file.Stmts[0].(*ast.ImportStmt)
	require.Len(t, stmt.Targets, 1)
	require.NotNil(t, stmt.Targets[0].Alias)
	assert.Equal(t, "shortcut", stmt.Targets[0].Alias.Name)
}

func TestFromImport(t *testing.T) {
	file := parseFile(t, "from other_submodule.deep import name as deep_name, name as deep_n\n")
	require.Len(t, file.Stmts, 1)

	stmt, ok := file.Stmts[0].(*ast.FromImportStmt)
	require.True(t, ok)
	assert.Equal(t, "other_submodule.deep", stmt.Module.String())
	require.Len(t, stmt.Names, 2)
	assert.Equal(t, "name", stmt.Names[0].Name.Name)
	assert.Equal(t, "deep_name", stmt.Names[0].Alias.Name)
	assert.Equal(t, "deep_n", stmt.Names[1].Alias.Name)
}

func TestFromImportWithoutAlias(t *testing.T) {
	file := parseFile(t, "from other_submodule import deep")
	stmt := file.Stmts[0].(*ast.FromImportStmt)
	require.Len(t, stmt.Names, 1)
	assert.Equal(t, "deep", stmt.Names[0].Name.Name)
	assert.Nil(t, stmt.Names[0].Alias)
}

func TestAssignString(t *testing.T) {
	file := parseFile(t, `name = "root_external"`)
	stmt, ok := file.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "name", stmt.Name.Name)

	lit, ok := stmt.Value.(*ast.StringLit)
	require.True(t, ok)
	assert.Equal(t, "root_external", lit.Value)
}

func TestAssignStringEscapes(t *testing.T) {
	file := parseFile(t, `greeting = "line\none\ttab \"quoted\" back\\slash"`)
	lit := file.Stmts[0].(*ast.AssignStmt).Value.(*ast.StringLit)
	assert.Equal(t, "line\none\ttab \"quoted\" back\\slash", lit.Value)
}

func TestAssignNumber(t *testing.T) {
	file := parseFile(t, "count = 42")
	lit, ok := file.Stmts[0].(*ast.AssignStmt).Value.(*ast.NumberLit)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestAssignDottedRef(t *testing.T) {
	file := parseFile(t, "title = submodule.name")
	ref, ok := file.Stmts[0].(*ast.AssignStmt).Value.(*ast.DottedRef)
	require.True(t, ok)
	assert.Equal(t, "submodule.name", ref.Path.String())
}

func TestMultipleStatements(t *testing.T) {
	source := "import submodule\n\ntitle = submodule.name\nfrom submodule import name as n\n"
	file := parseFile(t, source)
	require.Len(t, file.Stmts, 3)
}

func TestStatementSpansSliceSource(t *testing.T) {
	source := "import submodule\ntitle = submodule.name\n"
	file := parseFile(t, source)
	require.Len(t, file.Stmts, 2)

	first := file.Stmts[0].StmtSpan()
	assert.Equal(t, "import submodule", source[first.Start:first.End])
	second := file.Stmts[1].StmtSpan()
	assert.Equal(t, "title = submodule.name", source[second.Start:second.End])
}

func TestSyntaxErrorHasPosition(t *testing.T) {
	_, err := Parse([]byte("import submodule\nimport = broken\n"), nil)
	require.Error(t, err)

	var serr *types.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 2, serr.Line)
}

func TestDanglingDotFails(t *testing.T) {
	_, err := Parse([]byte("import a.b.\n"), nil)
	assert.Error(t, err)
}

func TestTwoStatementsOnOneLineFail(t *testing.T) {
	_, err := Parse([]byte("import a import b\n"), nil)
	assert.Error(t, err)
}

func TestMissingImportKeywordInFrom(t *testing.T) {
	_, err := Parse([]byte("from submodule name\n"), nil)
	assert.Error(t, err)
}
