// Package parser implements the recursive-descent parser that turns a
// Duals source file into an AST ready for semantic checking.
package parser

import (
	"context"
	"fmt"
	"os"

	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/scanner"
	"github.com/duals-lang/dualc/lang/token"
)

// Error and ErrorList are the scanner's shared error-accumulation types,
// reused here so a single error kind flows from scanning through parsing.
type (
	Error     = scanner.Error
	ErrorList = scanner.ErrorList
)

// ParseFile reads and parses the named source file, returning the program's
// root statement list. The returned error, if non-nil, is either the error
// from reading the file or an ErrorList.
func ParseFile(_ context.Context, filename string) (*ast.StmtList, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseSource(filename, src)
}

// ParseSource parses src, attributing filename to any reported error.
func ParseSource(filename string, src []byte) (*ast.StmtList, error) {
	var p parser
	p.filename = filename
	p.init(filename, src)
	prog := p.parseProgram()
	p.errors.Sort()
	return prog, p.errors.Err()
}

// parser holds the mutable state of a single parse.
type parser struct {
	filename string
	scanner  scanner.Scanner
	errors   ErrorList

	tok token.Token
	val token.Value
}

func (p *parser) init(filename string, src []byte) {
	p.scanner.Init(filename, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
}

// errPanicMode unwinds the recursive-descent call stack up to the nearest
// statement boundary, where recoverStmt catches it and resumes parsing with
// the next statement (best-effort error recovery, one diagnostic per call).
var errPanicMode = fmt.Errorf("parser: panic mode")

// expect reports an error and panics with errPanicMode unless the current
// token is tok; on success it consumes the token and returns its position.
func (p *parser) expect(tok token.Token) token.Pos {
	pos := p.val.Pos
	if p.tok != tok {
		p.errorExpected(pos, tok.GoString())
		panic(errPanicMode)
	}
	p.advance()
	return pos
}

func (p *parser) error(pos token.Pos, msg string) {
	p.errors.Add(pos.Position(p.filename), msg)
}

func (p *parser) errorExpected(pos token.Pos, what string) {
	msg := "expected " + what
	if pos == p.val.Pos {
		msg += ", found " + p.tok.GoString()
		if lit := p.val.Raw; lit != "" && p.tok != token.ILLEGAL {
			msg += " " + lit
		}
	}
	p.error(pos, msg)
}

// recoverStmt is deferred at every statement boundary; it turns a
// panic(errPanicMode) into a resynchronization point by skipping tokens
// until the next statement or declaration start, so a single parse error
// does not cascade into a wall of further errors.
func (p *parser) recoverStmt() {
	if r := recover(); r != nil {
		if r != errPanicMode {
			panic(r)
		}
		p.syncToStmt()
	}
}

func (p *parser) syncToStmt() {
	for p.tok != token.EOF {
		switch p.tok {
		case token.SEMI:
			p.advance()
			return
		case token.RBRACE, token.IF, token.WHILE, token.FOR, token.RETURN,
			token.INT_KW, token.FLOAT_KW, token.BOOL_KW, token.STRING_KW, token.VOID_KW:
			return
		}
		p.advance()
	}
}
