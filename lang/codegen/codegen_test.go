package codegen_test

import (
	"testing"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/checker"
	"github.com/duals-lang/dualc/lang/codegen"
	"github.com/duals-lang/dualc/lang/parser"
	"github.com/stretchr/testify/require"
)

func TestGeneratorForwardLabel(t *testing.T) {
	var g codegen.Generator
	l := codegen.NewLabel("skip")
	g.Add("brfalse %d", l)
	g.Add("ldc.i4 1")
	g.Bind(l)
	g.Add("ret")

	out := g.Render()
	require.Equal(t, []string{"brfalse 2", "ldc.i4 1", "ret"}, out)
}

func TestGeneratorBackwardLabel(t *testing.T) {
	var g codegen.Generator
	top := codegen.NewLabel("top")
	g.Bind(top)
	g.Add("ldc.i4 1")
	g.Add("br %d", top)

	out := g.Render()
	require.Equal(t, []string{"ldc.i4 1", "br 0"}, out)
}

func TestGeneratorLenTracksInstructionsOnly(t *testing.T) {
	var g codegen.Generator
	g.Add("nop")
	l := codegen.NewLabel("l")
	g.Bind(l)
	g.Add("nop")
	require.Equal(t, 2, g.Len())
}

func TestGeneratorStringJoinsRenderedLines(t *testing.T) {
	var g codegen.Generator
	g.Add("ldc.i4 1")
	g.Add("ret")
	require.Equal(t, "ldc.i4 1\nret", g.String())
}

func checkedProgram(t *testing.T, src string) *ast.StmtList {
	t.Helper()
	prog, err := parser.ParseSource("test.dl", []byte(src))
	require.NoError(t, err)
	_, err = checker.Check("test.dl", prog)
	require.NoError(t, err)
	return prog
}

func TestFindVarsDeclsSkipsNestedFuncs(t *testing.T) {
	prog := checkedProgram(t, `
		int g1;
		int g2 = 2;
		int helper(int x) {
			int local1;
			int local2 = x;
			return local1 + local2;
		}
		int g3;
	`)

	globals := codegen.FindVarsDecls(prog)
	require.Len(t, globals, 3)
	require.Equal(t, "int", globals[0].Type.Name)

	var fn *ast.Func
	for _, s := range prog.Stmts {
		if f, ok := s.(*ast.Func); ok {
			fn = f
		}
	}
	require.NotNil(t, fn)
	locals := codegen.FindVarsDecls(fn.Body)
	require.Len(t, locals, 2)
}

func TestFindVarsDeclsDescendsIntoNestedBlocks(t *testing.T) {
	prog := checkedProgram(t, `
		if (true) {
			int x;
		}
		while (false) {
			int y;
		}
	`)
	decls := codegen.FindVarsDecls(prog)
	require.Len(t, decls, 2)
}
