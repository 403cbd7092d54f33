// Package ast defines the abstract syntax tree produced by lang/parser,
// decorated in place by lang/checker, and consumed read-only by the SIL and
// JBC code generators.
//
// Every node carries a single source position (Pos). After a successful
// semantic check, every expression node's NodeType is non-nil, and every
// reference or declaration's NodeIdent points at the resolved identifier
// descriptor.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/duals-lang/dualc/lang/ident"
	"github.com/duals-lang/dualc/lang/token"
	"github.com/duals-lang/dualc/lang/types"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a description of
	// itself; only the 'v' and 's' verbs are supported. The '#' flag prints
	// child-count information where applicable.
	fmt.Formatter

	// Pos reports the node's source position.
	Pos() token.Pos

	// Walk visits each child node, implementing the Visitor pattern.
	Walk(v Visitor)
}

// Expr represents an expression in the AST.
type Expr interface {
	Node
	expr()

	// Type returns the node's resolved type, set by the semantic checker.
	// It is the zero TypeDesc before checking.
	Type() types.TypeDesc
	// SetType sets the node's resolved type; called by the checker only.
	SetType(t types.TypeDesc)
}

// Stmt represents a statement in the AST.
type Stmt interface {
	Node
	stmt()
}

// base is embedded by every node to provide Pos() and identifier-decoration
// storage without repeating the same fields everywhere. Not every node is
// ever decorated with an Ident (only references and declarations are), but
// keeping the field here avoids a dozen one-off wrapper types.
type base struct {
	pos   token.Pos
	ident *ident.Desc
}

func (b *base) Pos() token.Pos         { return b.pos }
func (b *base) SetPos(pos token.Pos)   { b.pos = pos }
func (b *base) Ident() *ident.Desc     { return b.ident }
func (b *base) SetIdent(d *ident.Desc) { b.ident = d }

// exprBase is embedded by every Expr node; it adds the NodeType storage the
// checker fills in, on top of base's position/ident fields.
type exprBase struct {
	base
	nodeType types.TypeDesc
}

func (e *exprBase) Type() types.TypeDesc     { return e.nodeType }
func (e *exprBase) SetType(t types.TypeDesc) { e.nodeType = t }
func (exprBase) expr()                       {}

// stmtBase is embedded by every Stmt node.
type stmtBase struct {
	base
}

func (stmtBase) stmt() {}

func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\r\n", "⏎")
	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	if w, ok := f.Width(); ok {
		minus, plus := f.Flag('-'), f.Flag('+')
		runes := []rune(label)
		if len(runes) >= w {
			runes = runes[:w]
		} else if minus {
			runes = append(runes, []rune(strings.Repeat(" ", w-len(runes)))...)
		} else if !plus {
			runes = append([]rune(strings.Repeat(" ", w-len(runes))), runes...)
		}
		label = string(runes)
	}

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
