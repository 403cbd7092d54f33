package ast

import (
	"fmt"

	"github.com/duals-lang/dualc/lang/token"
	"github.com/duals-lang/dualc/lang/types"
)

// ====================
// EXPRESSIONS
// ====================

type (
	// Literal is a constant value: an integer, float, bool or string.
	// Value holds the parsed Go value (int64, float64, bool or string); the
	// parser infers the base type from the literal's own syntax, checking
	// bool before int so that "true"/"false" are never misread as numbers.
	Literal struct {
		exprBase
		Text  string
		Value any
	}

	// Ident is a reference to a previously declared name. After checking,
	// Ident() (via base) points at the resolved descriptor.
	Ident struct {
		exprBase
		Name string
	}

	// TypeRef names a type in source (e.g. a variable declaration's type, a
	// function's return type). Its own Type() is resolved eagerly by the
	// checker by parsing Name via types.FromName.
	TypeRef struct {
		exprBase
		Name string
	}

	// BinOp applies a binary operator to two operands.
	BinOp struct {
		exprBase
		Op       token.BinOp
		Lhs, Rhs Expr
	}

	// Call invokes a function, either as an expression or (wrapped in
	// ExprStmt) as a statement.
	Call struct {
		exprBase
		Callee *Ident
		Args   []Expr
	}

	// TypeConvert is never produced by the parser: the checker synthesizes
	// it to wrap an operand that must be widened to TargetType before an
	// operator or assignment applies.
	TypeConvert struct {
		exprBase
		Expr       Expr
		TargetType types.TypeDesc
	}

	// Group exists purely so the pretty-printer can label a sub-tree (e.g.
	// a parameter list, or the wrapped operand of a TypeConvert) without
	// introducing a semantically meaningful node; the checker and code
	// generators never visit it directly on its own terms, they see through
	// to Items.
	Group struct {
		exprBase
		Label string
		Items []Node
	}

	// MapType and MapAccess are parseable but semantically unimplemented:
	// the checker rejects any use of them with an explicit "map types are
	// not supported" error rather than silently miscompiling them (see
	// DESIGN.md's Open Question decisions). MapDecl, the declaration form,
	// is a Stmt and lives in stmts.go alongside VarsDecl.
	MapType struct {
		exprBase
		KeyType, ValueType *TypeRef
	}

	MapAccess struct {
		exprBase
		Target Expr
		Key    Expr
	}
)

func (n *Literal) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("literal(%s)", n.Text), nil)
}
func (n *Literal) Walk(Visitor) {}

func (n *Ident) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("ident(%s)", n.Name), nil)
}
func (n *Ident) Walk(Visitor) {}

func (n *TypeRef) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("type(%s)", n.Name), nil)
}
func (n *TypeRef) Walk(Visitor) {}

func (n *BinOp) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("binop(%s)", n.Op), nil)
}
func (n *BinOp) Walk(v Visitor) {
	Walk(v, n.Lhs)
	Walk(v, n.Rhs)
}

func (n *Call) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *Call) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}

func (n *TypeConvert) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("convert(%s)", n.TargetType), nil)
}
func (n *TypeConvert) Walk(v Visitor) {
	Walk(v, &Group{Label: n.TargetType.String(), Items: []Node{n.Expr}})
}

func (n *Group) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Label, map[string]int{"items": len(n.Items)})
}
func (n *Group) Walk(v Visitor) {
	for _, it := range n.Items {
		Walk(v, it)
	}
}

func (n *MapType) Format(f fmt.State, verb rune) { format(f, verb, n, "maptype", nil) }
func (n *MapType) Walk(v Visitor) {
	Walk(v, n.KeyType)
	Walk(v, n.ValueType)
}

func (n *MapAccess) Format(f fmt.State, verb rune) { format(f, verb, n, "mapaccess", nil) }
func (n *MapAccess) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Key)
}
