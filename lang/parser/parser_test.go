package parser_test

import (
	"testing"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/parser"
	"github.com/stretchr/testify/require"
)

func parseOK(t *testing.T, src string) *ast.StmtList {
	t.Helper()
	prog, err := parser.ParseSource("test.dl", []byte(src))
	require.NoError(t, err)
	require.True(t, prog.Program)
	return prog
}

func TestParseVarsDecl(t *testing.T) {
	prog := parseOK(t, "int x = 1, y;")
	require.Len(t, prog.Stmts, 1)
	decl, ok := prog.Stmts[0].(*ast.VarsDecl)
	require.True(t, ok)
	require.Equal(t, "int", decl.Type.Name)
	require.Len(t, decl.Items, 2)
	assign, ok := decl.Items[0].(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.Target.Name)
	id, ok := decl.Items[1].(*ast.Ident)
	require.True(t, ok)
	require.Equal(t, "y", id.Name)
}

func TestParseAssignAndBinOp(t *testing.T) {
	prog := parseOK(t, "int x; x = 1 + 2 * 3;")
	assign := prog.Stmts[1].(*ast.Assign)
	bin, ok := assign.Value.(*ast.BinOp)
	require.True(t, ok)
	lit, ok := bin.Lhs.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, int64(1), lit.Value)
	rhs, ok := bin.Rhs.(*ast.BinOp)
	require.True(t, ok)
	require.Equal(t, "*", rhs.Op.String())
}

func TestParsePrecedence(t *testing.T) {
	// '*' binds tighter than '+', so "1 + 2 * 3" parses as "1 + (2 * 3)".
	prog := parseOK(t, "int x; x = 1 + 2 * 3;")
	assign := prog.Stmts[1].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	require.Equal(t, "+", bin.Op.String())
}

func TestParseCallExprAndStmt(t *testing.T) {
	prog := parseOK(t, `print("hi"); int x = to_int("3");`)
	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	require.True(t, ok)
	require.Equal(t, "print", stmt.Inner.Callee.Name)
	require.Len(t, stmt.Inner.Args, 1)

	decl := prog.Stmts[1].(*ast.VarsDecl)
	assign := decl.Items[0].(*ast.Assign)
	call, ok := assign.Value.(*ast.Call)
	require.True(t, ok)
	require.Equal(t, "to_int", call.Callee.Name)
}

func TestParseFunc(t *testing.T) {
	prog := parseOK(t, `int square(int x) { return x * x; }`)
	fn, ok := prog.Stmts[0].(*ast.Func)
	require.True(t, ok)
	require.Equal(t, "square", fn.Name)
	require.Equal(t, "int", fn.ReturnType.Name)
	require.Len(t, fn.Params, 1)
	require.Equal(t, "x", fn.Params[0].Name)
	require.Len(t, fn.Body.Stmts, 1)
	_, ok = fn.Body.Stmts[0].(*ast.Return)
	require.True(t, ok)
}

func TestParseIfElse(t *testing.T) {
	prog := parseOK(t, `bool b; if (b) { b = false; } else { b = true; }`)
	ifStmt, ok := prog.Stmts[1].(*ast.If)
	require.True(t, ok)
	require.NotNil(t, ifStmt.Then)
	require.NotNil(t, ifStmt.Else)
}

func TestParseWhile(t *testing.T) {
	prog := parseOK(t, `int i = 0; while (i < 10) { i = i + 1; }`)
	w, ok := prog.Stmts[1].(*ast.While)
	require.True(t, ok)
	require.IsType(t, &ast.BinOp{}, w.Cond)
}

func TestParseForAllClauses(t *testing.T) {
	prog := parseOK(t, `for (int i = 0; i < 10; i = i + 1) { print("x"); }`)
	f, ok := prog.Stmts[0].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, f.Init)
	require.NotNil(t, f.Cond)
	require.NotNil(t, f.Step)
}

func TestParseForEmptyClauses(t *testing.T) {
	prog := parseOK(t, `for (;;) { print("x"); }`)
	f, ok := prog.Stmts[0].(*ast.For)
	require.True(t, ok)
	require.Nil(t, f.Init)
	require.Nil(t, f.Cond)
	require.Nil(t, f.Step)
}

func TestParseErrorUndefinedBehavior(t *testing.T) {
	_, err := parser.ParseSource("test.dl", []byte("int x = ;"))
	require.Error(t, err)
}

func TestParseMapDeclAndAccess(t *testing.T) {
	prog := parseOK(t, `map<string, int> counts; int x = counts["a"];`)
	decl, ok := prog.Stmts[0].(*ast.MapDecl)
	require.True(t, ok)
	require.Equal(t, "counts", decl.Name)
	require.Equal(t, "string", decl.Type.KeyType.Name)
	require.Equal(t, "int", decl.Type.ValueType.Name)
	require.Nil(t, decl.Init)

	varDecl := prog.Stmts[1].(*ast.VarsDecl)
	assign := varDecl.Items[0].(*ast.Assign)
	access, ok := assign.Value.(*ast.MapAccess)
	require.True(t, ok)
	require.Equal(t, "counts", access.Target.(*ast.Ident).Name)
}

func TestParseTopLevelMixesFuncsAndStmts(t *testing.T) {
	prog := parseOK(t, `
		int g;
		int inc(int x) { return x + 1; }
		g = inc(1);
	`)
	require.Len(t, prog.Stmts, 3)
	require.IsType(t, &ast.VarsDecl{}, prog.Stmts[0])
	require.IsType(t, &ast.Func{}, prog.Stmts[1])
	require.IsType(t, &ast.Assign{}, prog.Stmts[2])
}
