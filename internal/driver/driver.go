// Package driver orchestrates the compiler pipeline — parse, semantic
// check, emit SIL, emit JBC — as a single call, shared by the CLI and its
// tests. Each stage's error is reported through the Stage it failed at so
// callers (in practice only cmd/dualc) can map it to the right exit code
// without re-deriving which phase ran.
package driver

import (
	"context"
	"fmt"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/checker"
	"github.com/duals-lang/dualc/lang/codegen/jbc"
	"github.com/duals-lang/dualc/lang/codegen/sil"
	"github.com/duals-lang/dualc/lang/ident"
	"github.com/duals-lang/dualc/lang/parser"
)

// Stage identifies which pipeline phase produced an error.
type Stage int

const (
	StageParse Stage = iota + 1
	StageCheck
	StageSIL
	StageJBC
)

func (s Stage) String() string {
	switch s {
	case StageParse:
		return "parse"
	case StageCheck:
		return "semantic check"
	case StageSIL:
		return "SIL generation"
	case StageJBC:
		return "JBC generation"
	default:
		return "unknown stage"
	}
}

// Error wraps a pipeline failure with the Stage it occurred in, so cmd/dualc
// can translate it to the matching exit code without inspecting the
// underlying error's type.
type Error struct {
	Stage Stage
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Stage, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Options selects which backends Compile runs. Neither flag set runs the
// full pipeline (AST dump, check, SIL, JBC); MSILOnly/JBCOnly each narrow
// output to a single backend and suppress the AST dump, per the CLI's
// --msil-only/--jbc-only flags. Setting both runs neither backend and no AST
// dump (the CLI rejects that combination before calling Compile).
type Options struct {
	MSILOnly bool
	JBCOnly  bool
}

// Result holds every artifact the pipeline produced, whichever stages
// Options selected; fields for stages that did not run are left zero.
type Result struct {
	Program *ast.StmtList
	Global  *ident.Scope
	SIL     string
	JBC     string
}

// runsSIL and runsJBC report whether Compile should run that backend for
// the given options, the same either/both/neither logic as the CLI's
// --msil-only/--jbc-only flags. DumpsAST reports whether a caller printing
// Result per the CLI's stdout layout should include the ast: block.
func (o Options) runsSIL() bool  { return !o.JBCOnly }
func (o Options) runsJBC() bool  { return !o.MSILOnly }
func (o Options) DumpsAST() bool { return !o.MSILOnly && !o.JBCOnly }

// Compile runs parse -> semantic check -> emit SIL -> emit JBC over src,
// stopping at the first failing stage. ctx is accepted for API shape only:
// no stage checks it for cancellation. There is no concurrency in the
// pipeline itself.
func Compile(_ context.Context, filename string, src []byte, opts Options) (*Result, error) {
	prog, err := parser.ParseSource(filename, src)
	if err != nil {
		return nil, &Error{Stage: StageParse, Err: err}
	}

	global, err := checker.Check(filename, prog)
	if err != nil {
		return nil, &Error{Stage: StageCheck, Err: err}
	}

	res := &Result{Program: prog, Global: global}

	if opts.runsSIL() {
		out, err := sil.Generate(filename, prog)
		if err != nil {
			return nil, &Error{Stage: StageSIL, Err: err}
		}
		res.SIL = out
	}

	if opts.runsJBC() {
		out, err := jbc.Generate(filename, prog)
		if err != nil {
			return nil, &Error{Stage: StageJBC, Err: err}
		}
		res.JBC = out
	}

	return res, nil
}
