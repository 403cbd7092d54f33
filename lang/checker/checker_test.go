package checker_test

import (
	"testing"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/checker"
	"github.com/duals-lang/dualc/lang/parser"
	"github.com/duals-lang/dualc/lang/types"
	"github.com/stretchr/testify/require"
)

func checkOK(t *testing.T, src string) *ast.StmtList {
	t.Helper()
	prog, err := parser.ParseSource("test.dl", []byte(src))
	require.NoError(t, err)
	_, err = checker.Check("test.dl", prog)
	require.NoError(t, err)
	return prog
}

func checkErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := parser.ParseSource("test.dl", []byte(src))
	require.NoError(t, err)
	_, err = checker.Check("test.dl", prog)
	require.Error(t, err)
	return err
}

func TestCheckVarsDeclAndAssign(t *testing.T) {
	prog := checkOK(t, "int x = 1; x = 2;")
	decl := prog.Stmts[0].(*ast.VarsDecl)
	assign := decl.Items[0].(*ast.Assign)
	require.True(t, assign.Target.Type().Equal(types.Int))

	reassign := prog.Stmts[1].(*ast.Assign)
	require.NotNil(t, reassign.Target.Ident())
	require.True(t, reassign.Target.Ident().Type.Equal(types.Int))
}

func TestCheckUndeclaredIdentFails(t *testing.T) {
	err := checkErr(t, "x = 1;")
	require.Contains(t, err.Error(), "not found")
}

func TestCheckRedeclarationFails(t *testing.T) {
	err := checkErr(t, "int x; int x;")
	require.Contains(t, err.Error(), "already declared")
}

func TestCheckImplicitWidening(t *testing.T) {
	prog := checkOK(t, "float f; f = 1 + 2.0;")
	assign := prog.Stmts[1].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	require.IsType(t, &ast.TypeConvert{}, bin.Lhs)
	require.True(t, bin.Type().Equal(types.Float))
}

func TestCheckBoolWidensToInt(t *testing.T) {
	prog := checkOK(t, "int x; x = 1 + true;")
	assign := prog.Stmts[1].(*ast.Assign)
	bin := assign.Value.(*ast.BinOp)
	require.IsType(t, &ast.TypeConvert{}, bin.Rhs)
	require.True(t, bin.Type().Equal(types.Int))
}

func TestCheckBinOpIncompatibleFails(t *testing.T) {
	err := checkErr(t, "bool b; b = true + \"x\";")
	require.Contains(t, err.Error(), "operator not applicable")
}

func TestCheckFuncCallArityAndTypes(t *testing.T) {
	prog := checkOK(t, `
		int add(int a, int b) { return a + b; }
		int r = add(1, 2);
	`)
	fn := prog.Stmts[0].(*ast.Func)
	require.NotNil(t, fn.Ident())
	require.True(t, fn.Ident().Type.IsFunc())

	decl := prog.Stmts[1].(*ast.VarsDecl)
	assign := decl.Items[0].(*ast.Assign)
	call := assign.Value.(*ast.Call)
	require.True(t, call.Type().Equal(types.Int))
}

func TestCheckCallArgCountMismatchFails(t *testing.T) {
	err := checkErr(t, `
		int add(int a, int b) { return a + b; }
		int r = add(1);
	`)
	require.Contains(t, err.Error(), "actual types do not match formal")
}

func TestCheckCallArgTypeMismatchCombinesErrors(t *testing.T) {
	err := checkErr(t, `
		void f(int a, bool b) {}
		f("x", "y");
	`)
	require.Contains(t, err.Error(), "actual types do not match formal")
	require.Contains(t, err.Error(), "arg 1")
	require.Contains(t, err.Error(), "arg 2")
}

func TestCheckCallArgImplicitConversion(t *testing.T) {
	prog := checkOK(t, `
		float f(float a) { return a; }
		float r = f(1);
	`)
	decl := prog.Stmts[1].(*ast.VarsDecl)
	assign := decl.Items[0].(*ast.Assign)
	call := assign.Value.(*ast.Call)
	require.IsType(t, &ast.TypeConvert{}, call.Args[0])
}

func TestCheckReturnOutsideFunctionFails(t *testing.T) {
	err := checkErr(t, "return 1;")
	require.Contains(t, err.Error(), "return outside")
}

func TestCheckMissingReturnValueFails(t *testing.T) {
	err := checkErr(t, "int f() { return; }")
	require.Contains(t, err.Error(), "missing return value")
}

func TestCheckIfConditionMustBeBool(t *testing.T) {
	prog := checkOK(t, "if (1) { int x; }")
	ifStmt := prog.Stmts[0].(*ast.If)
	require.IsType(t, &ast.TypeConvert{}, ifStmt.Cond)
}

func TestCheckWhileConditionMustBeBool(t *testing.T) {
	err := checkErr(t, `while ("x") { int y; }`)
	require.Contains(t, err.Error(), "not convertible")
}

func TestCheckForEmptyCondDefaultsToTrue(t *testing.T) {
	prog := checkOK(t, "for (;;) { int x; }")
	f := prog.Stmts[0].(*ast.For)
	lit, ok := f.Cond.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, true, lit.Value)
}

func TestCheckParamAlreadyDeclaredFails(t *testing.T) {
	err := checkErr(t, "int f(int a, int a) { return a; }")
	require.Contains(t, err.Error(), "already declared")
}

func TestCheckFuncRedeclarationFails(t *testing.T) {
	err := checkErr(t, `
		int f() { return 1; }
		int f() { return 2; }
	`)
	require.Contains(t, err.Error(), "redeclaration")
}

func TestCheckNestedScopeShadowing(t *testing.T) {
	prog := checkOK(t, `
		int x = 1;
		if (true) {
			string x = "shadow";
		}
	`)
	ifStmt := prog.Stmts[1].(*ast.If)
	inner := ifStmt.Then.Stmts[0].(*ast.VarsDecl)
	assign := inner.Items[0].(*ast.Assign)
	require.True(t, assign.Target.Type().Equal(types.Str))
}

func TestCheckBuiltinsSeeded(t *testing.T) {
	prog := checkOK(t, `
		string s = read();
		print(s);
		println(s);
		int i = to_int(s);
		float fl = to_float(s);
	`)
	require.Len(t, prog.Stmts, 5)
}

func TestCheckMapDeclRejected(t *testing.T) {
	err := checkErr(t, `map<string, int> m;`)
	require.Contains(t, err.Error(), "map types are not supported")
}

func TestCheckMapAccessRejected(t *testing.T) {
	err := checkErr(t, `int x = m["a"];`)
	require.Contains(t, err.Error(), "map types are not supported")
}
