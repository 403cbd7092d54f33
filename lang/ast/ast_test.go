package ast

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/duals-lang/dualc/lang/token"
	"github.com/duals-lang/dualc/lang/types"
	"github.com/stretchr/testify/require"
)

func lit(v any, text string) *Literal {
	return &Literal{Text: text, Value: v}
}

type recorder struct {
	entered []string
}

func (r *recorder) Visit(n Node, dir VisitDirection) Visitor {
	if dir != VisitEnter {
		return nil
	}
	r.entered = append(r.entered, kindOf(n))
	return r
}

func kindOf(n Node) string {
	switch n.(type) {
	case *BinOp:
		return "binop"
	case *Literal:
		return "literal"
	default:
		return "?"
	}
}

func TestWalkOrder(t *testing.T) {
	tree := &BinOp{
		Op:  token.ADD,
		Lhs: lit(int64(1), "1"),
		Rhs: lit(int64(2), "2"),
	}

	r := &recorder{}
	Walk(r, tree)
	require.Equal(t, []string{"binop", "literal", "literal"}, r.entered)
}

func TestExprTypeDecoration(t *testing.T) {
	l := lit(int64(3), "3")
	require.True(t, l.Type().Equal(types.TypeDesc{}))
	l.SetType(types.Int)
	require.True(t, l.Type().Equal(types.Int))
}

func TestPrinterIndentsByDepth(t *testing.T) {
	tree := &StmtList{
		Stmts: []Stmt{
			&Return{Value: lit(int64(1), "1")},
		},
	}

	var buf bytes.Buffer
	p := &Printer{Output: &buf}
	require.NoError(t, p.Print(tree))

	out := buf.String()
	require.Contains(t, out, "stmts")
	require.Contains(t, out, ". return")
	require.Contains(t, out, ". . literal(1)")
}

func TestFormatUnsupportedVerb(t *testing.T) {
	l := lit(int64(1), "1")
	s := fmt.Sprintf("%d", l)
	require.Contains(t, s, "%!d")
}

func TestFormatChildCount(t *testing.T) {
	c := &Call{Args: []Expr{lit(int64(1), "1"), lit(int64(2), "2")}}
	s := fmt.Sprintf("%#v", c)
	require.Contains(t, s, "args=2")
}
