// Package sil emits the CLR-style SIL backend of spec.md §4.4: a single
// `Program` class carrying static fields for globals and one method per
// user function, plus a `Main` entry method wrapping top-level statements.
package sil

import (
	"fmt"
	"strings"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/codegen"
	"github.com/duals-lang/dualc/lang/ident"
	"github.com/duals-lang/dualc/lang/types"
)

const (
	runtimeClass = "Runtime"
	programClass = "Program"
)

var silTypeNames = map[types.BaseType]string{
	types.VOID:  "void",
	types.INT:   "int32",
	types.FLOAT: "float64",
	types.BOOL:  "bool",
	types.STR:   "string",
}

func silType(b types.BaseType) string { return silTypeNames[b] }

// Generate renders prog (already checked by lang/checker) as SIL assembly
// text. filename is unused by SIL (unlike JBC it has no class-name-from-
// filename rule) but is accepted for a uniform backend signature with jbc.
func Generate(_ string, prog *ast.StmtList) (string, error) {
	g := &generator{}
	return g.run(prog)
}

type generator struct {
	gen codegen.Generator
}

func (g *generator) run(prog *ast.StmtList) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok {
				panic(r)
			}
			err = e
		}
	}()

	g.gen.Add(".assembly program")
	g.gen.Add("{")
	g.gen.Add("}")
	g.gen.Add(".class public %s", programClass)
	g.gen.Add("{")

	for _, vd := range codegen.FindVarsDecls(prog) {
		g.emitGlobalField(vd)
	}

	var topLevel []ast.Stmt
	for _, s := range prog.Stmts {
		if fn, ok := s.(*ast.Func); ok {
			g.genFunc(fn)
			continue
		}
		topLevel = append(topLevel, s)
	}

	g.gen.Add("")
	g.gen.Add(".method public static void Main()")
	g.gen.Add("{")
	g.gen.Add(".entrypoint")
	for _, s := range topLevel {
		g.genStmt(s)
	}
	g.gen.Add("ret")
	g.gen.Add("}")

	g.gen.Add("}")

	return strings.Join(g.gen.Render(), "\n") + "\n", nil
}

func (g *generator) emitGlobalField(vd *ast.VarsDecl) {
	for _, item := range vd.Items {
		id := varIdentOf(item)
		if id.ScopeKind != ident.GLOBAL && id.ScopeKind != ident.GLOBAL_LOCAL {
			continue
		}
		g.gen.Add(".field public static %s _gv%d", silType(id.Type.BaseType), id.Index)
	}
}

func (g *generator) genFunc(fn *ast.Func) {
	var params []string
	for _, p := range fn.Params {
		params = append(params, fmt.Sprintf("%s %s", silType(p.Type.Type().BaseType), p.Name))
	}
	retType := silType(fn.Ident().Type.ReturnType.BaseType)
	g.gen.Add(".method public static %s %s(%s) cil managed", retType, fn.Name, strings.Join(params, ", "))
	g.gen.Add("{")

	var locals []string
	for _, vd := range codegen.FindVarsDecls(fn.Body) {
		for _, item := range vd.Items {
			id := varIdentOf(item)
			if id.ScopeKind == ident.LOCAL {
				locals = append(locals, fmt.Sprintf("%s _v%d", silType(id.Type.BaseType), id.Index))
			}
		}
	}
	if len(locals) > 0 {
		g.gen.Add(".locals init (%s)", strings.Join(locals, ", "))
	}

	g.genStmt(fn.Body)

	if !endsInReturn(fn.Body) {
		retBase := fn.Ident().Type.ReturnType.BaseType
		if retBase != types.VOID {
			g.pushDefault(retBase)
		}
		g.gen.Add("ret")
	}

	g.gen.Add("}")
}

// endsInReturn reports whether body's last statement is a Return, the same
// shallow check the JBC backend uses to decide whether a synthesized
// trailing return is needed; a trailing If or nested block is not looked
// into.
func endsInReturn(body *ast.StmtList) bool {
	if len(body.Stmts) == 0 {
		return false
	}
	_, ok := body.Stmts[len(body.Stmts)-1].(*ast.Return)
	return ok
}

func (g *generator) pushDefault(b types.BaseType) {
	switch v := types.DefaultValue(b).(type) {
	case int64:
		g.gen.Add("ldc.i4 %d", v)
	case float64:
		g.gen.Add("ldc.r8 %s", fmt.Sprintf("%v", v))
	case bool:
		if v {
			g.gen.Add("ldc.i4 1")
		} else {
			g.gen.Add("ldc.i4 0")
		}
	case string:
		g.gen.Add(`ldstr "%s"`, v)
	}
}

func (g *generator) genStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.StmtList:
		for _, c := range s.Stmts {
			g.genStmt(c)
		}
	case *ast.VarsDecl:
		for _, item := range s.Items {
			if a, ok := item.(*ast.Assign); ok {
				g.genStmt(a)
			}
		}
	case *ast.Assign:
		g.genExpr(s.Value)
		g.storeIdent(s.Target)
	case *ast.ExprStmt:
		g.genExpr(s.Inner)
	case *ast.Return:
		if s.Value != nil {
			g.genExpr(s.Value)
		}
		g.gen.Add("ret")
	case *ast.If:
		elseLbl := codegen.NewLabel("else")
		endLbl := codegen.NewLabel("endif")
		g.genExpr(s.Cond)
		g.gen.Add("brfalse %d", elseLbl)
		g.genStmt(s.Then)
		g.gen.Add("br %d", endLbl)
		g.gen.Bind(elseLbl)
		if s.Else != nil {
			g.genStmt(s.Else)
		}
		g.gen.Bind(endLbl)
	case *ast.While:
		startLbl := codegen.NewLabel("loop")
		endLbl := codegen.NewLabel("endloop")
		g.gen.Bind(startLbl)
		g.genExpr(s.Cond)
		g.gen.Add("brfalse %d", endLbl)
		g.genStmt(s.Body)
		g.gen.Add("br %d", startLbl)
		g.gen.Bind(endLbl)
	case *ast.For:
		startLbl := codegen.NewLabel("loop")
		endLbl := codegen.NewLabel("endloop")
		if s.Init != nil {
			g.genStmt(s.Init)
		}
		g.gen.Bind(startLbl)
		g.genExpr(s.Cond)
		g.gen.Add("brfalse %d", endLbl)
		g.genStmt(s.Body)
		if s.Step != nil {
			g.genStmt(s.Step)
		}
		g.gen.Add("br %d", startLbl)
		g.gen.Bind(endLbl)
	default:
		panic(fmt.Errorf("sil: unhandled statement %T", stmt))
	}
}

func (g *generator) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		g.pushLiteral(e)
	case *ast.Ident:
		g.loadIdent(e)
	case *ast.BinOp:
		g.genBinOp(e)
	case *ast.TypeConvert:
		g.genTypeConvert(e)
	case *ast.Call:
		g.genCall(e)
	default:
		panic(fmt.Errorf("sil: unhandled expression %T", expr))
	}
}

func (g *generator) pushLiteral(lit *ast.Literal) {
	switch v := lit.Value.(type) {
	case int64:
		g.gen.Add("ldc.i4 %d", v)
	case float64:
		g.gen.Add("ldc.r8 %s", fmt.Sprintf("%v", v))
	case bool:
		if v {
			g.gen.Add("ldc.i4 1")
		} else {
			g.gen.Add("ldc.i4 0")
		}
	case string:
		g.gen.Add(`ldstr "%s"`, v)
	}
}

func (g *generator) loadIdent(e *ast.Ident) {
	id := e.Ident()
	switch id.ScopeKind {
	case ident.LOCAL:
		g.gen.Add("ldloc %d", id.Index)
	case ident.PARAM:
		g.gen.Add("ldarg %d", id.Index)
	default:
		g.gen.Add("ldsfld %s %s::_gv%d", silType(id.Type.BaseType), programClass, id.Index)
	}
}

func (g *generator) storeIdent(e *ast.Ident) {
	id := e.Ident()
	switch id.ScopeKind {
	case ident.LOCAL:
		g.gen.Add("stloc %d", id.Index)
	case ident.PARAM:
		g.gen.Add("starg %d", id.Index)
	default:
		g.gen.Add("stsfld %s %s::_gv%d", silType(id.Type.BaseType), programClass, id.Index)
	}
}

func (g *generator) genBinOp(e *ast.BinOp) {
	g.genExpr(e.Lhs)
	g.genExpr(e.Rhs)

	isStr := e.Lhs.Type().BaseType == types.STR
	strCompare := func(op string) {
		g.gen.Add("call %s class %s::compare(%s, %s)", silType(types.INT), runtimeClass, silType(types.STR), silType(types.STR))
		g.gen.Add("ldc.i4 0")
		g.gen.Add(op)
	}

	switch e.Op.String() {
	case "!=":
		if isStr {
			g.gen.Add("call bool [mscorlib]System.String::op_Inequality(string, string)")
		} else {
			g.gen.Add("ceq")
			g.gen.Add("ldc.i4 0")
			g.gen.Add("ceq")
		}
	case "==":
		if isStr {
			g.gen.Add("call bool [mscorlib]System.String::op_Equality(string, string)")
		} else {
			g.gen.Add("ceq")
		}
	case ">":
		if isStr {
			strCompare("cgt")
		} else {
			g.gen.Add("cgt")
		}
	case "<":
		if isStr {
			strCompare("clt")
		} else {
			g.gen.Add("clt")
		}
	case ">=":
		if isStr {
			g.gen.Add("call %s class %s::compare(%s, %s)", silType(types.INT), runtimeClass, silType(types.STR), silType(types.STR))
			g.gen.Add("ldc.i4 -1")
			g.gen.Add("cgt")
		} else {
			g.gen.Add("clt")
			g.gen.Add("ldc.i4 0")
			g.gen.Add("ceq")
		}
	case "<=":
		if isStr {
			g.gen.Add("call %s class %s::compare(%s, %s)", silType(types.INT), runtimeClass, silType(types.STR), silType(types.STR))
			g.gen.Add("ldc.i4 1")
			g.gen.Add("clt")
		} else {
			g.gen.Add("cgt")
			g.gen.Add("ldc.i4 0")
			g.gen.Add("ceq")
		}
	case "+":
		if isStr {
			g.gen.Add("call %s class %s::concat(%s, %s)", silType(types.STR), runtimeClass, silType(types.STR), silType(types.STR))
		} else {
			g.gen.Add("add")
		}
	case "-":
		g.gen.Add("sub")
	case "*":
		g.gen.Add("mul")
	case "/":
		g.gen.Add("div")
	case "%":
		g.gen.Add("rem")
	case "&&", "&":
		g.gen.Add("and")
	case "||", "|":
		g.gen.Add("or")
	default:
		panic(fmt.Errorf("sil: unhandled operator %s", e.Op))
	}
}

func (g *generator) genTypeConvert(e *ast.TypeConvert) {
	g.genExpr(e.Expr)
	from, to := e.Expr.Type().BaseType, e.TargetType.BaseType
	switch {
	case to == types.FLOAT && from == types.INT:
		g.gen.Add("conv.r8")
	case to == types.BOOL && from == types.INT:
		g.gen.Add("ldc.i4 0")
		g.gen.Add("ceq")
		g.gen.Add("ldc.i4 0")
		g.gen.Add("ceq")
	default:
		g.gen.Add("call %s class %s::convert(%s)", silType(to), runtimeClass, silType(from))
	}
}

func (g *generator) genCall(e *ast.Call) {
	for _, a := range e.Args {
		g.genExpr(a)
	}
	class := programClass
	if e.Callee.Ident().BuiltIn {
		class = runtimeClass
	}
	var paramTypes []string
	for _, a := range e.Args {
		paramTypes = append(paramTypes, silType(a.Type().BaseType))
	}
	g.gen.Add("call %s class %s::%s(%s)", silType(e.Type().BaseType), class, e.Callee.Name, strings.Join(paramTypes, ", "))
}

// varIdentOf returns the resolved identifier descriptor of a VarsDecl item,
// which is either a bare *ast.Ident (no initializer) or an *ast.Assign (with
// one); either way the checker has already decorated the declared name's
// Ident.
func varIdentOf(item ast.Node) *ident.Desc {
	switch it := item.(type) {
	case *ast.Ident:
		return it.Ident()
	case *ast.Assign:
		return it.Target.Ident()
	default:
		panic(fmt.Errorf("sil: unhandled VarsDecl item %T", item))
	}
}
