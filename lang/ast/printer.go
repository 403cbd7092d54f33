package ast

import (
	"fmt"
	"io"
	"strings"
)

// Printer controls pretty-printing of AST nodes as an indented tree, one
// node per line, each line's indent depth marked by a run of ". ".
type Printer struct {
	// Output is the io.Writer to print to.
	Output io.Writer

	// Filename, if non-empty, causes each line to be prefixed with the
	// node's line:column position.
	Filename string

	// NodeFmt is the format string used to print each node; the verb must
	// be 's' or 'v', a width may be set, and '#'/'-' flags are supported as
	// documented on Node.Format. Defaults to "%v".
	NodeFmt string
}

// Print pretty-prints n and its descendants.
func (p *Printer) Print(n Node) error {
	pp := &printer{
		w:        p.Output,
		filename: p.Filename,
		nodeFmt:  p.NodeFmt,
	}
	if pp.nodeFmt == "" {
		pp.nodeFmt = "%v"
	}
	Walk(pp, n)
	return pp.err
}

type printer struct {
	w        io.Writer
	filename string
	nodeFmt  string
	depth    int
	err      error
}

func (p *printer) Visit(n Node, dir VisitDirection) Visitor {
	if dir == VisitExit || p.err != nil {
		p.depth--
		return nil
	}

	p.depth++
	p.printNode(n, p.depth-1)
	return p
}

func (p *printer) printNode(n Node, indent int) {
	if p.err != nil {
		return
	}

	format := "%s"
	args := []any{strings.Repeat(". ", indent)}
	if p.filename != "" {
		line, col := n.Pos().LineCol()
		format += "[%d:%d] "
		args = append(args, line, col)
	}
	format += p.nodeFmt + "\n"
	args = append(args, n)

	_, p.err = fmt.Fprintf(p.w, format, args...)
}
