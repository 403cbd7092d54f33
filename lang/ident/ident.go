// Package ident implements the identifier/scope core of the semantic
// checker: Desc describes a single resolved name, Scope is a nested naming
// context that assigns Desc.Index according to the scope-kind rules of the
// language.
package ident

import (
	"fmt"

	"github.com/duals-lang/dualc/lang/types"
)

// ScopeKind classifies where a Desc's index applies.
type ScopeKind uint8

//nolint:revive
const (
	GLOBAL       ScopeKind = iota // root scope, outside any function
	GLOBAL_LOCAL                  // nested scope, outside any function
	PARAM                         // function parameter
	LOCAL                         // function-local variable
)

var scopeKindNames = [...]string{
	GLOBAL:       "global",
	GLOBAL_LOCAL: "global-local",
	PARAM:        "param",
	LOCAL:        "local",
}

func (k ScopeKind) String() string {
	if int(k) >= len(scopeKindNames) {
		return fmt.Sprintf("<invalid ScopeKind %d>", k)
	}
	return scopeKindNames[k]
}

// Desc is the resolved descriptor for a single identifier: its name, its
// type, where it lives (ScopeKind) and at what index within that kind's
// counter. Backends attach their own slot bookkeeping via JBCOffset.
type Desc struct {
	Name      string
	Type      types.TypeDesc
	ScopeKind ScopeKind
	Index     int
	BuiltIn   bool

	// JBCOffset is the byte offset of this identifier's local/param slot in
	// the JBC backend, assigned while walking a function's declarations
	// (see lang/codegen.FindVarsDecls). Unused by the SIL backend, which
	// addresses locals and params by Index directly.
	JBCOffset int
}

// Scope is a nested naming context: a chain of Scope values linked through
// Parent, with an ordered name -> *Desc mapping at each level. Func is set
// on the scope that introduces a function body, and is nil everywhere
// else; CurrFunc/CurrGlobal walk the Parent chain to find the nearest
// relevant ancestor.
type Scope struct {
	Parent *Scope
	Func   *Desc

	names  []string
	idents map[string]*Desc

	// varIndex is this scope's own monotonic counter; for the root scope it
	// counts GLOBAL and GLOBAL_LOCAL idents, for a function-opening scope it
	// counts LOCAL idents, and PARAM idents are counted separately via
	// paramIndex.
	varIndex   int
	paramIndex int
}

// NewScope creates a new naming context nested inside parent. parent may be
// nil to create a root scope.
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, idents: make(map[string]*Desc)}
}

// ResetVarIndex resets this scope's variable counter to 0. Used once, after
// seeding the root scope with built-ins, so that user-declared globals
// start at index 0 (spec: "Global scope preparation").
func (s *Scope) ResetVarIndex() { s.varIndex = 0 }

// isRoot reports whether s has no parent.
func (s *Scope) isRoot() bool { return s.Parent == nil }

// CurrFunc walks the scope chain, starting at s, and returns the Desc of
// the nearest enclosing function, or nil if none.
func (s *Scope) CurrFunc() *Desc {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Func != nil {
			return sc.Func
		}
	}
	return nil
}

// CurrGlobal walks to the root of the scope chain.
func (s *Scope) CurrGlobal() *Scope {
	sc := s
	for sc.Parent != nil {
		sc = sc.Parent
	}
	return sc
}

// Get looks up name in s, then recursively in s.Parent, and returns the
// Desc and whether it was found.
func (s *Scope) Get(name string) (*Desc, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if d, ok := sc.idents[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// GetLocal looks up name only in s's own mapping, without consulting
// parents.
func (s *Scope) GetLocal(name string) (*Desc, bool) {
	d, ok := s.idents[name]
	return d, ok
}

// Names returns the identifiers declared directly in s, in insertion order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Add inserts a new Desc for name into s, assigning its ScopeKind and Index
// per the rules:
//
//   - root scope, no enclosing function -> GLOBAL, indexed by the root's
//     own counter.
//   - nested scope, no enclosing function -> GLOBAL_LOCAL, indexed by the
//     root's counter.
//   - nested inside a function, asParam requests a PARAM slot -> PARAM,
//     indexed by a counter local to the function-opening scope.
//   - nested inside a function, otherwise -> LOCAL, indexed by the
//     function-opening scope's counter.
//
// It fails with an "already declared" error if name is already bound in s
// itself (shadowing an outer scope's binding is allowed).
func (s *Scope) Add(name string, typ types.TypeDesc, asParam bool) (*Desc, error) {
	if _, ok := s.idents[name]; ok {
		return nil, fmt.Errorf("already declared: %s", name)
	}

	d := &Desc{Name: name, Type: typ}
	fn := s.CurrFunc()
	switch {
	case fn == nil && s.isRoot():
		d.ScopeKind = GLOBAL
		d.Index = s.CurrGlobal().nextVarIndex()
	case fn == nil:
		d.ScopeKind = GLOBAL_LOCAL
		d.Index = s.CurrGlobal().nextVarIndex()
	case asParam:
		d.ScopeKind = PARAM
		d.Index = s.funcScope().nextParamIndex()
	default:
		d.ScopeKind = LOCAL
		d.Index = s.funcScope().nextVarIndex()
	}

	s.idents[name] = d
	s.names = append(s.names, name)
	return d, nil
}

// funcScope returns the scope that has Func set, i.e. the scope that owns
// the PARAM/LOCAL counters for the enclosing function. Callers only invoke
// this once CurrFunc has confirmed such a scope exists.
func (s *Scope) funcScope() *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Func != nil {
			return sc
		}
	}
	return nil
}

func (s *Scope) nextVarIndex() int {
	i := s.varIndex
	s.varIndex++
	return i
}

func (s *Scope) nextParamIndex() int {
	i := s.paramIndex
	s.paramIndex++
	return i
}
