package ast

import "fmt"

type (
	// ExprStmt wraps an expression used in statement position, i.e. a bare
	// function call followed by a semicolon. Inner is always a *Call: the
	// grammar has no other expression form that is useful purely for its
	// side effect.
	ExprStmt struct {
		stmtBase
		Inner *Call
	}

	// Assign assigns Value, implicitly converted to Target's type, to
	// Target. Target must resolve to a plain identifier (no aggregate
	// lvalues).
	Assign struct {
		stmtBase
		Target *Ident
		Value  Expr
	}

	// MapDecl declares a single map-typed identifier, optionally with an
	// initializer. Parseable but semantically unimplemented: see MapType's
	// doc comment in nodes.go.
	MapDecl struct {
		stmtBase
		Type *MapType
		Name string
		Init Expr // may be nil
	}

	// VarsDecl declares one or more new identifiers of Type in the current
	// scope; each Items entry is either an *Ident (no initializer) or an
	// *Assign (with initializer).
	VarsDecl struct {
		stmtBase
		Type  *TypeRef
		Items []Node
	}

	// Param is a single function parameter; only valid inside a Func's
	// Params list.
	Param struct {
		stmtBase
		Type *TypeRef
		Name string
	}

	// Func declares a top-level function. Functions are flat: a Func may
	// not be nested inside another Func.
	Func struct {
		stmtBase
		ReturnType *TypeRef
		Name       string
		Params     []*Param
		Body       *StmtList
	}

	// Return exits the enclosing function, optionally yielding Value
	// (nil for a bare "return;" in a void function).
	Return struct {
		stmtBase
		Value Expr // may be nil
	}

	// If executes Then when Cond is true, otherwise Else (may be nil).
	If struct {
		stmtBase
		Cond Expr
		Then *StmtList
		Else *StmtList // may be nil
	}

	// While repeats Body while Cond holds.
	While struct {
		stmtBase
		Cond Expr
		Body *StmtList
	}

	// For is a three-clause loop; any of Init/Cond/Step may be nil in
	// source, but the checker replaces a nil Cond with a literal "true".
	For struct {
		stmtBase
		Init Stmt // VarsDecl or Assign, may be nil
		Cond Expr // may be nil until checked
		Step Stmt // Assign, may be nil
		Body *StmtList
	}

	// StmtList is a sequence of statements. A StmtList opens its own scope
	// unless Program is true, in which case it shares the root scope (the
	// top-level statement list of a compilation unit never nests a scope of
	// its own).
	StmtList struct {
		stmtBase
		Stmts   []Stmt
		Program bool
	}
)

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "exprstmt", nil) }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.Inner) }

func (n *MapDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("mapdecl(%s)", n.Name), nil)
}
func (n *MapDecl) Walk(v Visitor) {
	Walk(v, n.Type)
	if n.Init != nil {
		Walk(v, n.Init)
	}
}

func (n *Assign) Format(f fmt.State, verb rune) { format(f, verb, n, "assign", nil) }
func (n *Assign) Walk(v Visitor) {
	Walk(v, n.Target)
	Walk(v, n.Value)
}

func (n *VarsDecl) Format(f fmt.State, verb rune) {
	format(f, verb, n, "vars", map[string]int{"items": len(n.Items)})
}
func (n *VarsDecl) Walk(v Visitor) {
	Walk(v, n.Type)
	for _, it := range n.Items {
		Walk(v, it)
	}
}

func (n *Param) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("param(%s)", n.Name), nil)
}
func (n *Param) Walk(v Visitor) { Walk(v, n.Type) }

func (n *Func) Format(f fmt.State, verb rune) {
	format(f, verb, n, fmt.Sprintf("func(%s)", n.Name), map[string]int{"params": len(n.Params)})
}
func (n *Func) Walk(v Visitor) {
	Walk(v, n.ReturnType)
	params := make([]Node, len(n.Params))
	for i, p := range n.Params {
		params[i] = p
	}
	Walk(v, &Group{Label: "params", Items: params})
	Walk(v, n.Body)
}

func (n *Return) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *Return) Walk(v Visitor) {
	if n.Value != nil {
		Walk(v, n.Value)
	}
}

func (n *If) Format(f fmt.State, verb rune) { format(f, verb, n, "if", nil) }
func (n *If) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}

func (n *While) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *While) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Body)
}

func (n *For) Format(f fmt.State, verb rune) { format(f, verb, n, "for", nil) }
func (n *For) Walk(v Visitor) {
	if n.Init != nil {
		Walk(v, n.Init)
	}
	if n.Cond != nil {
		Walk(v, n.Cond)
	}
	if n.Step != nil {
		Walk(v, n.Step)
	}
	Walk(v, n.Body)
}

func (n *StmtList) Format(f fmt.State, verb rune) {
	format(f, verb, n, "stmts", map[string]int{"stmts": len(n.Stmts)})
}
func (n *StmtList) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}
