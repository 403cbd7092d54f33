// Package codegen implements the shared base both stack-machine backends
// build on: a textual instruction buffer with a two-pass label-fixup
// mechanism (write instructions referencing not-yet-addressed labels, bind
// the labels, then patch every reference in a final pass over the buffer),
// plus the variable-declaration walk the backends use to find a function's
// locals.
package codegen

import (
	"fmt"
	"strings"

	"github.com/duals-lang/dualc/lang/ast"
)

// Label is an opaque jump target. Its address is unknown until Bind is
// called and Render runs its fixup pass; a Label used in an instruction
// before it is bound is perfectly normal (forward jumps are the common
// case for if/while/for).
type Label struct {
	name  string
	index int // -1 until resolved by Render
}

// NewLabel returns a fresh, unbound label. name is cosmetic, used only if
// the label is ever printed before being resolved (which should not
// happen in a correctly generated program).
func NewLabel(name string) *Label {
	return &Label{name: name, index: -1}
}

func (l *Label) String() string {
	if l.index < 0 {
		return fmt.Sprintf("<unresolved label %s>", l.name)
	}
	return fmt.Sprintf("%d", l.index)
}

type lineKind int

const (
	lineInstr lineKind = iota
	lineLabel
)

// line is either a textual instruction (possibly referencing one or more
// Labels among its args) or a bound-label marker. Label markers never
// themselves appear in Render's output; they only fix the address that
// following instructions start at.
type line struct {
	kind   lineKind
	format string
	args   []any
	label  *Label
}

// Generator accumulates instructions for a single function (or the
// top-level entry method) and resolves label references in one final
// pass, mirroring the teacher's own textual-assembly-with-late-bound-jump-
// targets design (see DESIGN.md).
type Generator struct {
	lines []line
}

// Add appends one instruction, built by formatting format with args exactly
// as fmt.Sprintf would, except that any *Label among args is substituted
// with its resolved numeric address only once Render runs — Add itself
// does no formatting.
func (g *Generator) Add(format string, args ...any) {
	g.lines = append(g.lines, line{kind: lineInstr, format: format, args: args})
}

// Bind marks l's address as the position of the next instruction Add
// appends (i.e. binding a label right before emitting its target
// instruction is the common pattern, but Bind may also be the very last
// call if the label targets the implicit fall-through after the last
// instruction).
func (g *Generator) Bind(l *Label) {
	g.lines = append(g.lines, line{kind: lineLabel, label: l})
}

// Len reports the number of instructions added so far (not counting bound
// labels), i.e. the address the next Add call will occupy.
func (g *Generator) Len() int {
	n := 0
	for _, ln := range g.lines {
		if ln.kind == lineInstr {
			n++
		}
	}
	return n
}

// Render resolves every label's address and returns the final instruction
// text, one instruction per returned line.
func (g *Generator) Render() []string {
	addr := 0
	for _, ln := range g.lines {
		switch ln.kind {
		case lineLabel:
			ln.label.index = addr
		case lineInstr:
			addr++
		}
	}

	out := make([]string, 0, addr)
	for _, ln := range g.lines {
		if ln.kind != lineInstr {
			continue
		}
		resolved := make([]any, len(ln.args))
		for i, a := range ln.args {
			if l, ok := a.(*Label); ok {
				resolved[i] = l.index
			} else {
				resolved[i] = a
			}
		}
		out = append(out, fmt.Sprintf(ln.format, resolved...))
	}
	return out
}

// String renders the generator's instructions, one per line, with no
// further indentation: callers wrap this in their own method/class
// boilerplate and apply their own indent.
func (g *Generator) String() string {
	return strings.Join(g.Render(), "\n")
}

// FindVarsDecls returns every ast.VarsDecl reachable from root without
// descending into any ast.Func. Call it on a function's own body to find
// that function's locals, or on the top-level program StmtList to find the
// globals — in the latter case every top-level ast.Func is a sibling of
// the global declarations, and this walk skips over all of them, since
// each function's own locals belong to that function, not the globals.
func FindVarsDecls(root ast.Node) []*ast.VarsDecl {
	var decls []*ast.VarsDecl

	var visit ast.VisitorFunc
	visit = func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return nil
		}
		if _, ok := n.(*ast.Func); ok {
			return nil
		}
		if vd, ok := n.(*ast.VarsDecl); ok {
			decls = append(decls, vd)
		}
		return visit
	}
	ast.Walk(visit, root)
	return decls
}
