// Package jbc emits the JVM-style JBC backend of spec.md §4.5: a single
// class, named after the source file's stem, carrying static fields for
// globals and one method per user function, plus a `main` entry method
// wrapping top-level statements.
package jbc

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/codegen"
	"github.com/duals-lang/dualc/lang/ident"
	"github.com/duals-lang/dualc/lang/types"
)

const runtimeClass = "Runtime"

var jbcTypeNames = map[types.BaseType]string{
	types.VOID:  "void",
	types.INT:   "int",
	types.FLOAT: "double",
	types.BOOL:  "boolean",
	types.STR:   "java.lang.String",
}

var jbcTypeSizes = map[types.BaseType]int{
	types.INT:   1,
	types.FLOAT: 2,
	types.BOOL:  1,
	types.STR:   1,
}

var jbcTypePrefixes = map[types.BaseType]string{
	types.VOID:  "",
	types.INT:   "i",
	types.FLOAT: "d",
	types.BOOL:  "i",
	types.STR:   "a",
}

var jbcCompareSuffixes = map[string]string{
	">":  "gt",
	"<":  "lt",
	">=": "ge",
	"<=": "le",
	"==": "eq",
	"!=": "ne",
}

func jbcType(b types.BaseType) string   { return jbcTypeNames[b] }
func jbcPrefix(b types.BaseType) string { return jbcTypePrefixes[b] }

// className derives the JBC class name from filename's stem, prefixing an
// underscore if the stem doesn't start with a letter or underscore (the
// stem alone might start with a digit, which Java class names forbid).
func className(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if name == "" {
		return "_"
	}
	r := []rune(name)[0]
	if !unicode.IsLetter(r) && r != '_' {
		return "_" + name
	}
	return name
}

// Generate renders prog (already checked by lang/checker) as JBC assembly
// text. filename names the class after its stem, matching the original
// generator's file-derived class-name rule.
func Generate(filename string, prog *ast.StmtList) (string, error) {
	g := &generator{class: className(filename)}
	return g.run(prog)
}

type generator struct {
	class string
	gen   codegen.Generator
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

	g.gen.Add("version 6;")
	g.gen.Add("public class %s extends java.lang.Object", g.class)
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
	g.gen.Add("public static void main(java.lang.String[])")
	g.gen.Add("{")
	for _, s := range topLevel {
		g.genStmt(s)
	}
	g.gen.Add("return")
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
		g.gen.Add("public static %s _gv%d;", jbcType(id.Type.BaseType), id.Index)
	}
}

func (g *generator) genFunc(fn *ast.Func) {
	offset := 0
	var params []string
	for _, p := range fn.Params {
		id := p.Ident()
		id.JBCOffset = offset
		offset += jbcTypeSizes[id.Type.BaseType]
		params = append(params, fmt.Sprintf("%s %s", jbcType(id.Type.BaseType), p.Name))
	}

	for _, vd := range codegen.FindVarsDecls(fn.Body) {
		for _, item := range vd.Items {
			id := varIdentOf(item)
			if id.ScopeKind == ident.LOCAL {
				id.JBCOffset = offset
				offset += jbcTypeSizes[id.Type.BaseType]
			}
		}
	}

	retBase := fn.Ident().Type.ReturnType.BaseType
	g.gen.Add("public static %s %s(%s)", jbcType(retBase), fn.Name, strings.Join(params, ", "))
	g.gen.Add("{")

	g.genStmt(fn.Body)

	if !endsInReturn(fn.Body) {
		if retBase != types.VOID {
			g.pushConst(retBase, types.DefaultValue(retBase))
		}
		g.gen.Add("%sreturn", jbcPrefix(retBase))
	}

	g.gen.Add("}")
}

// endsInReturn reports whether body's last statement is a Return, the same
// shallow check the original generator performs before synthesizing a
// trailing return.
func endsInReturn(body *ast.StmtList) bool {
	if len(body.Stmts) == 0 {
		return false
	}
	_, ok := body.Stmts[len(body.Stmts)-1].(*ast.Return)
	return ok
}

func (g *generator) pushConst(b types.BaseType, value any) {
	switch b {
	case types.INT:
		g.gen.Add("ldc %d", value)
	case types.FLOAT:
		g.gen.Add("ldc2_w %.20fD", value)
	case types.BOOL:
		if value.(bool) {
			g.gen.Add("iconst_1")
		} else {
			g.gen.Add("iconst_0")
		}
	case types.STR:
		g.gen.Add(`ldc "%s"`, value)
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
			g.gen.Add("%sreturn", jbcPrefix(s.Value.Type().BaseType))
		} else {
			g.gen.Add("return")
		}
	case *ast.If:
		elseLbl := codegen.NewLabel("else")
		endLbl := codegen.NewLabel("endif")
		g.genExpr(s.Cond)
		g.gen.Add("ifeq %d", elseLbl)
		g.genStmt(s.Then)
		g.gen.Add("goto %d", endLbl)
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
		g.gen.Add("ifeq %d", endLbl)
		g.genStmt(s.Body)
		g.gen.Add("goto %d", startLbl)
		g.gen.Bind(endLbl)
	case *ast.For:
		startLbl := codegen.NewLabel("loop")
		endLbl := codegen.NewLabel("endloop")
		if s.Init != nil {
			g.genStmt(s.Init)
		}
		g.gen.Bind(startLbl)
		g.genExpr(s.Cond)
		g.gen.Add("ifeq %d", endLbl)
		g.genStmt(s.Body)
		if s.Step != nil {
			g.genStmt(s.Step)
		}
		g.gen.Add("goto %d", startLbl)
		g.gen.Bind(endLbl)
	default:
		panic(fmt.Errorf("jbc: unhandled statement %T", stmt))
	}
}

func (g *generator) genExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Literal:
		g.pushConst(e.Type().BaseType, e.Value)
	case *ast.Ident:
		g.loadIdent(e)
	case *ast.BinOp:
		g.genBinOp(e)
	case *ast.TypeConvert:
		g.genTypeConvert(e)
	case *ast.Call:
		g.genCall(e)
	default:
		panic(fmt.Errorf("jbc: unhandled expression %T", expr))
	}
}

func (g *generator) loadIdent(e *ast.Ident) {
	id := e.Ident()
	switch id.ScopeKind {
	case ident.LOCAL, ident.PARAM:
		g.gen.Add("%sload %d", jbcPrefix(id.Type.BaseType), id.JBCOffset)
	default:
		g.gen.Add("getstatic %s#%s _gv%d", g.class, jbcType(id.Type.BaseType), id.Index)
	}
}

func (g *generator) storeIdent(e *ast.Ident) {
	id := e.Ident()
	switch id.ScopeKind {
	case ident.LOCAL, ident.PARAM:
		g.gen.Add("%sstore %d", jbcPrefix(id.Type.BaseType), id.JBCOffset)
	default:
		g.gen.Add("putstatic %s#%s _gv%d", g.class, jbcType(id.Type.BaseType), id.Index)
	}
}

// boolValGen materializes a boolean from a pending comparison opcode cmd
// (e.g. "if_icmpgt"), which jumps to a fresh true-label; false falls
// through to iconst_0, true lands on iconst_1. Every comparison uses it;
// the INT->BOOL conversion in genTypeConvert emits its own two-label
// sequence with the branch going to the false side instead.
func (g *generator) boolValGen(cmd string) {
	trueLbl := codegen.NewLabel("true")
	endLbl := codegen.NewLabel("end")
	g.gen.Add("%s %d", cmd, trueLbl)
	g.gen.Add("iconst_0")
	g.gen.Add("goto %d", endLbl)
	g.gen.Bind(trueLbl)
	g.gen.Add("iconst_1")
	g.gen.Bind(endLbl)
}

func (g *generator) genBinOp(e *ast.BinOp) {
	g.genExpr(e.Lhs)
	g.genExpr(e.Rhs)

	lhsBase := e.Lhs.Type().BaseType

	switch e.Op.String() {
	case "==", "!=", ">", "<", ">=", "<=":
		suffix := jbcCompareSuffixes[e.Op.String()]
		switch lhsBase {
		case types.STR:
			g.gen.Add("invokevirtual java.lang.String#int compareTo(java.lang.String)")
			g.boolValGen("if" + suffix)
		case types.FLOAT:
			g.gen.Add("dcmpg")
			g.boolValGen("if" + suffix)
		default:
			g.boolValGen("if_icmp" + suffix)
		}
	case "+":
		if lhsBase == types.STR {
			g.gen.Add("invokestatic %s#%s concat(%s, %s)", runtimeClass, jbcType(types.STR), jbcType(types.STR), jbcType(types.STR))
		} else {
			g.gen.Add("%sadd", jbcPrefix(lhsBase))
		}
	case "-":
		g.gen.Add("%ssub", jbcPrefix(lhsBase))
	case "*":
		g.gen.Add("%smul", jbcPrefix(lhsBase))
	case "/":
		g.gen.Add("%sdiv", jbcPrefix(lhsBase))
	case "%":
		g.gen.Add("%srem", jbcPrefix(lhsBase))
	case "&&", "&":
		g.gen.Add("iand")
	case "||", "|":
		g.gen.Add("ior")
	default:
		panic(fmt.Errorf("jbc: unhandled operator %s", e.Op))
	}
}

func (g *generator) genTypeConvert(e *ast.TypeConvert) {
	g.genExpr(e.Expr)
	from, to := e.Expr.Type().BaseType, e.TargetType.BaseType
	switch {
	case to == types.FLOAT && from == types.INT:
		g.gen.Add("i2d")
	case to == types.BOOL && from == types.INT:
		falseLbl := codegen.NewLabel("false")
		endLbl := codegen.NewLabel("end")
		g.gen.Add("ifeq %d", falseLbl)
		g.gen.Add("iconst_1")
		g.gen.Add("goto %d", endLbl)
		g.gen.Bind(falseLbl)
		g.gen.Add("iconst_0")
		g.gen.Bind(endLbl)
	default:
		g.gen.Add("invokestatic %s#%s convert(%s)", runtimeClass, jbcType(to), jbcType(from))
	}
}

func (g *generator) genCall(e *ast.Call) {
	for _, a := range e.Args {
		g.genExpr(a)
	}
	class := g.class
	if e.Callee.Ident().BuiltIn {
		class = runtimeClass
	}
	var paramTypes []string
	for _, a := range e.Args {
		paramTypes = append(paramTypes, jbcType(a.Type().BaseType))
	}
	g.gen.Add("invokestatic %s#%s %s(%s)", class, jbcType(e.Type().BaseType), e.Callee.Name, strings.Join(paramTypes, ", "))
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
		panic(fmt.Errorf("jbc: unhandled VarsDecl item %T", item))
	}
}
