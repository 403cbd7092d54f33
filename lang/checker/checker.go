// Package checker implements the semantic checker: a single-pass,
// depth-first visitor that resolves identifiers against a scope chain,
// computes every expression's type, inserts implicit TypeConvert nodes
// where an operand must be widened, and enforces the language's
// declaration rules.
//
// Checking is fail-fast: the first error found aborts the whole pass, with
// one documented exception (Call argument coercion folds every mismatched
// argument into a single diagnostic).
package checker

import (
	"fmt"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/ident"
	"github.com/duals-lang/dualc/lang/scanner"
	"github.com/duals-lang/dualc/lang/token"
	"github.com/duals-lang/dualc/lang/types"
)

// Error and ErrorList are the same stdlib go/scanner aliases lang/parser
// uses, so the CLI can format errors from every fallible stage the same
// way. The checker's own error model is still fail-fast: a successful
// Check's ErrorList is always empty, and a failing one always holds
// exactly one Error, except for the Call argument-coercion diagnostic,
// which is itself a single Error whose message lists every mismatched
// argument.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

var errPanicMode = fmt.Errorf("checker: panic mode")

// Check resolves and type-checks prog in place, decorating every
// expression node with its resolved type and every reference/declaration
// with its resolved identifier. filename is used only for error positions.
// On success it also returns the populated global scope, which the code
// generators need for global variable enumeration.
func Check(filename string, prog *ast.StmtList) (global *ident.Scope, err error) {
	c := &checker{filename: filename}
	defer func() {
		if r := recover(); r != nil {
			if r != errPanicMode {
				panic(r)
			}
		}
		err = c.errors.Err()
	}()

	c.global = ident.NewScope(nil)
	seedBuiltins(c.global)
	c.global.ResetVarIndex()

	c.checkStmtList(prog, c.global)
	return c.global, nil
}

type checker struct {
	filename string
	global   *ident.Scope
	errors   ErrorList
}

func (c *checker) fail(pos token.Pos, format string, args ...any) {
	c.errors.Add(pos.Position(c.filename), fmt.Sprintf(format, args...))
	panic(errPanicMode)
}

// seedBuiltins installs the external Runtime collaborator's signatures
// into the root scope, each marked BuiltIn, per spec.md's "Global scope
// preparation": string read(), void print(string), void println(string),
// int to_int(string), float to_float(string).
func seedBuiltins(global *ident.Scope) {
	builtins := []struct {
		name string
		typ  types.TypeDesc
	}{
		{"read", types.Func(types.Str)},
		{"print", types.Func(types.Void, types.Str)},
		{"println", types.Func(types.Void, types.Str)},
		{"to_int", types.Func(types.Int, types.Str)},
		{"to_float", types.Func(types.Float, types.Str)},
	}
	for _, b := range builtins {
		d, err := global.Add(b.name, b.typ, false)
		if err != nil {
			panic(fmt.Sprintf("checker: built-in %q: %v", b.name, err))
		}
		d.BuiltIn = true
	}
}

// checkStmtList implements the StmtList contract: a non-root list opens a
// fresh nested scope; the program root checks its statements directly in
// the scope it was given.
func (c *checker) checkStmtList(sl *ast.StmtList, scope *ident.Scope) {
	work := scope
	if !sl.Program {
		work = ident.NewScope(scope)
	}
	for _, s := range sl.Stmts {
		c.checkStmt(s, work)
	}
}

func (c *checker) checkStmt(stmt ast.Stmt, scope *ident.Scope) {
	switch s := stmt.(type) {
	case *ast.VarsDecl:
		c.checkVarsDecl(s, scope)
	case *ast.Assign:
		c.checkAssignStmt(s, scope)
	case *ast.ExprStmt:
		c.checkExpr(s.Inner, scope)
	case *ast.Return:
		c.checkReturn(s, scope)
	case *ast.If:
		c.checkIf(s, scope)
	case *ast.While:
		c.checkWhile(s, scope)
	case *ast.For:
		c.checkFor(s, scope)
	case *ast.Func:
		c.checkFunc(s, scope)
	case *ast.StmtList:
		c.checkStmtList(s, scope)
	case *ast.Param:
		c.checkParam(s, scope)
	case *ast.MapDecl:
		c.fail(s.Pos(), "map types are not supported")
	default:
		c.fail(stmt.Pos(), "internal: unhandled statement %T", stmt)
	}
}

func (c *checker) checkExpr(expr ast.Expr, scope *ident.Scope) {
	switch e := expr.(type) {
	case *ast.Literal:
		e.SetType(types.FromBaseType(literalBaseType(e.Value)))
	case *ast.Ident:
		d, ok := scope.Get(e.Name)
		if !ok {
			c.fail(e.Pos(), "identifier %s not found", e.Name)
		}
		e.SetIdent(d)
		e.SetType(d.Type)
	case *ast.TypeRef:
		c.checkTypeRef(e)
	case *ast.BinOp:
		c.checkBinOp(e, scope)
	case *ast.Call:
		c.checkCall(e, scope)
	case *ast.TypeConvert:
		// Synthesized by this very pass; never revisited.
	case *ast.MapType, *ast.MapAccess:
		c.fail(expr.Pos(), "map types are not supported")
	default:
		c.fail(expr.Pos(), "internal: unhandled expression %T", expr)
	}
}

func literalBaseType(v any) types.BaseType {
	switch v.(type) {
	case bool:
		return types.BOOL
	case int64:
		return types.INT
	case float64:
		return types.FLOAT
	case string:
		return types.STR
	default:
		return types.VOID
	}
}

func (c *checker) checkTypeRef(tr *ast.TypeRef) types.TypeDesc {
	t, err := types.FromName(tr.Name)
	if err != nil {
		c.fail(tr.Pos(), "unknown type %s", tr.Name)
	}
	tr.SetType(t)
	return t
}

// typeConvert implements the spec's type_convert(expr, target, ...): it
// returns expr unchanged if already of type target, wraps it in a
// TypeConvert if the conversion table allows it, or fails otherwise.
func (c *checker) typeConvert(expr ast.Expr, target types.TypeDesc, exceptPos token.Pos, comment string) ast.Expr {
	t := expr.Type()
	if t.Equal(target) {
		return expr
	}
	if t.IsSimple() && target.IsSimple() && types.ConvertibleTo(t.BaseType, target.BaseType) {
		conv := &ast.TypeConvert{Expr: expr, TargetType: target}
		conv.SetPos(expr.Pos())
		conv.SetType(target)
		return conv
	}
	msg := fmt.Sprintf("type %s not convertible to %s", t, target)
	if comment != "" {
		msg += " (" + comment + ")"
	}
	c.fail(exceptPos, "%s", msg)
	panic("unreachable")
}

// tryConvert is typeConvert without failing: used by Call argument
// coercion, which must collect every mismatched argument into a single
// diagnostic instead of aborting on the first one.
func tryConvert(expr ast.Expr, target types.TypeDesc) (ast.Expr, bool) {
	t := expr.Type()
	if t.Equal(target) {
		return expr, true
	}
	if t.IsSimple() && target.IsSimple() && types.ConvertibleTo(t.BaseType, target.BaseType) {
		conv := &ast.TypeConvert{Expr: expr, TargetType: target}
		conv.SetPos(expr.Pos())
		conv.SetType(target)
		return conv, true
	}
	return expr, false
}

func (c *checker) checkBinOp(e *ast.BinOp, scope *ident.Scope) {
	c.checkExpr(e.Lhs, scope)
	c.checkExpr(e.Rhs, scope)

	table, ok := types.BinOpCompatibility(e.Op)
	if !ok {
		c.fail(e.Pos(), "operator not applicable to (%s, %s)", e.Lhs.Type(), e.Rhs.Type())
	}

	lhsBase, rhsBase := e.Lhs.Type().BaseType, e.Rhs.Type().BaseType
	if res, ok := table.Lookup(lhsBase, rhsBase); ok {
		e.SetType(types.FromBaseType(res))
		return
	}

	// widen rhs first, trying each of its outgoing conversion edges.
	for _, target := range types.ConversionTargets(rhsBase) {
		if res, ok := table.Lookup(lhsBase, target); ok {
			e.Rhs, _ = tryConvert(e.Rhs, types.FromBaseType(target))
			e.SetType(types.FromBaseType(res))
			return
		}
	}
	// then widen lhs, against the rhs's original (unwidened) base type.
	for _, target := range types.ConversionTargets(lhsBase) {
		if res, ok := table.Lookup(target, rhsBase); ok {
			e.Lhs, _ = tryConvert(e.Lhs, types.FromBaseType(target))
			e.SetType(types.FromBaseType(res))
			return
		}
	}

	c.fail(e.Pos(), "operator not applicable to (%s, %s)", e.Lhs.Type(), e.Rhs.Type())
}

func (c *checker) checkCall(e *ast.Call, scope *ident.Scope) {
	d, ok := scope.Get(e.Callee.Name)
	if !ok {
		c.fail(e.Callee.Pos(), "identifier %s not found", e.Callee.Name)
	}
	if !d.Type.IsFunc() {
		c.fail(e.Callee.Pos(), "%s is not a function", e.Callee.Name)
	}
	e.Callee.SetIdent(d)
	e.Callee.SetType(d.Type)

	for _, a := range e.Args {
		c.checkExpr(a, scope)
	}

	if len(e.Args) != len(d.Type.Params) {
		c.fail(e.Pos(), "actual types do not match formal: %s expects %d argument(s), got %d",
			e.Callee.Name, len(d.Type.Params), len(e.Args))
	}

	var mismatched []string
	converted := make([]ast.Expr, len(e.Args))
	for i, a := range e.Args {
		want := d.Type.Params[i]
		got, ok := tryConvert(a, want)
		if !ok {
			mismatched = append(mismatched, fmt.Sprintf("arg %d: %s not convertible to %s", i+1, a.Type(), want))
			continue
		}
		converted[i] = got
	}
	if len(mismatched) > 0 {
		c.fail(e.Pos(), "actual types do not match formal: %v", mismatched)
	}
	copy(e.Args, converted)

	e.SetType(*d.Type.ReturnType)
}

func (c *checker) checkAssignStmt(s *ast.Assign, scope *ident.Scope) {
	d, ok := scope.Get(s.Target.Name)
	if !ok {
		c.fail(s.Target.Pos(), "identifier %s not found", s.Target.Name)
	}
	s.Target.SetIdent(d)
	s.Target.SetType(d.Type)

	c.checkExpr(s.Value, scope)
	s.Value = c.typeConvert(s.Value, d.Type, s.Pos(), "assignment")
}

func (c *checker) checkVarsDecl(s *ast.VarsDecl, scope *ident.Scope) {
	t := c.checkTypeRef(s.Type)

	for i, item := range s.Items {
		switch it := item.(type) {
		case *ast.Ident:
			d, err := scope.Add(it.Name, t, false)
			if err != nil {
				c.fail(it.Pos(), "%s", err)
			}
			it.SetIdent(d)
			it.SetType(t)
		case *ast.Assign:
			d, err := scope.Add(it.Target.Name, t, false)
			if err != nil {
				c.fail(it.Target.Pos(), "%s", err)
			}
			it.Target.SetIdent(d)
			it.Target.SetType(t)

			c.checkExpr(it.Value, scope)
			it.Value = c.typeConvert(it.Value, t, it.Pos(), "initializer")
		default:
			c.fail(s.Pos(), "internal: unhandled VarsDecl item %T", item)
		}
		s.Items[i] = item
	}
}

func (c *checker) checkParam(p *ast.Param, scope *ident.Scope) {
	t := c.checkTypeRef(p.Type)
	d, err := scope.Add(p.Name, t, true)
	if err != nil {
		c.fail(p.Pos(), "parameter already declared: %s", p.Name)
	}
	p.SetIdent(d)
}

func (c *checker) checkFunc(f *ast.Func, scope *ident.Scope) {
	if scope.CurrFunc() != nil {
		c.fail(f.Pos(), "nested function declarations are not supported: %s", f.Name)
	}

	fnScope := ident.NewScope(scope)
	placeholder := &ident.Desc{Name: f.Name}
	fnScope.Func = placeholder

	retType := c.checkTypeRef(f.ReturnType)

	paramTypes := make([]types.TypeDesc, len(f.Params))
	for i, p := range f.Params {
		c.checkParam(p, fnScope)
		paramTypes[i] = p.Type.Type()
	}

	fnType := types.Func(retType, paramTypes...)
	global := scope.CurrGlobal()
	d, err := global.Add(f.Name, fnType, false)
	if err != nil {
		c.fail(f.Pos(), "redeclaration: %s", f.Name)
	}
	f.SetIdent(d)
	fnScope.Func = d

	c.checkStmtList(f.Body, fnScope)
}

func (c *checker) checkReturn(r *ast.Return, scope *ident.Scope) {
	fn := scope.CurrFunc()
	if fn == nil {
		c.fail(r.Pos(), "return outside of a function")
	}

	retType := *fn.Type.ReturnType

	if r.Value == nil {
		if retType.BaseType != types.VOID {
			c.fail(r.Pos(), "missing return value for non-void function")
		}
		return
	}

	// checked in its own nested scope, matching the contract's phrasing
	// even though a return value can never itself declare anything.
	retScope := ident.NewScope(scope)
	c.checkExpr(r.Value, retScope)
	r.Value = c.typeConvert(r.Value, retType, r.Pos(), "return value")
}

func (c *checker) checkIf(s *ast.If, scope *ident.Scope) {
	c.checkExpr(s.Cond, scope)
	s.Cond = c.typeConvert(s.Cond, types.Bool, s.Pos(), "if condition")
	c.checkStmtList(s.Then, scope)
	if s.Else != nil {
		c.checkStmtList(s.Else, scope)
	}
}

func (c *checker) checkWhile(s *ast.While, scope *ident.Scope) {
	c.checkExpr(s.Cond, scope)
	s.Cond = c.typeConvert(s.Cond, types.Bool, s.Pos(), "while condition")
	c.checkStmtList(s.Body, scope)
}

func (c *checker) checkFor(s *ast.For, scope *ident.Scope) {
	forScope := ident.NewScope(scope)

	if s.Init != nil {
		c.checkStmt(s.Init, forScope)
	}

	if s.Cond == nil {
		lit := &ast.Literal{Text: "true", Value: true}
		lit.SetPos(s.Pos())
		lit.SetType(types.Bool)
		s.Cond = lit
	} else {
		c.checkExpr(s.Cond, forScope)
		s.Cond = c.typeConvert(s.Cond, types.Bool, s.Pos(), "for condition")
	}

	if s.Step != nil {
		c.checkStmt(s.Step, forScope)
	}

	c.checkStmtList(s.Body, forScope)
}
