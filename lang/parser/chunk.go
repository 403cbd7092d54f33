package parser

import (
	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/token"
)

// parseProgram parses the whole source file: a sequence of top-level
// function declarations and statements, in any order, into a single
// Program-flagged StmtList (spec.md: "the program's non-function
// statements compile into the entry method").
func (p *parser) parseProgram() *ast.StmtList {
	pos := p.val.Pos

	var stmts []ast.Stmt
	for p.tok != token.EOF {
		var s ast.Stmt
		switch {
		case isTypeStart(p.tok):
			s = p.parseFuncRecovered()
		default:
			s = p.parseStmtRecovered()
		}
		if s != nil {
			stmts = append(stmts, s)
		}
	}

	prog := &ast.StmtList{Stmts: stmts, Program: true}
	prog.SetPos(pos)
	return prog
}

// parseFuncRecovered parses either a Func or a VarsDecl starting with a
// type name, recovering from a parse panic at the statement boundary. Both
// forms start with "type ident", so the decision between them is made once
// the token after the name is known.
func (p *parser) parseFuncRecovered() (stmt ast.Stmt) {
	defer p.recoverStmt()
	return p.parseFuncOrVarsDecl()
}

func (p *parser) parseFuncOrVarsDecl() ast.Stmt {
	pos := p.val.Pos
	typ := p.parseType()

	nameTok := p.val
	name := nameTok.Raw
	p.expect(token.IDENT)

	if p.tok != token.LPAREN {
		id := &ast.Ident{Name: name}
		id.SetPos(nameTok.Pos)

		var first ast.Node = id
		if p.tok == token.ASSIGN {
			p.advance()
			value := p.parseExpr()
			assign := &ast.Assign{Target: id, Value: value}
			assign.SetPos(nameTok.Pos)
			first = assign
		}

		items := []ast.Node{first}
		for p.tok == token.COMMA {
			p.advance()
			items = append(items, p.parseVarsDeclItem())
		}
		p.expect(token.SEMI)

		decl := &ast.VarsDecl{Type: typ, Items: items}
		decl.SetPos(pos)
		return decl
	}

	p.advance() // consume '('
	var params []*ast.Param
	if p.tok != token.RPAREN {
		params = append(params, p.parseParam())
		for p.tok == token.COMMA {
			p.advance()
			params = append(params, p.parseParam())
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()

	fn := &ast.Func{ReturnType: typ, Name: name, Params: params, Body: body}
	fn.SetPos(pos)
	return fn
}

func (p *parser) parseParam() *ast.Param {
	pos := p.val.Pos
	typ := p.parseType()
	name := p.val.Raw
	p.expect(token.IDENT)

	param := &ast.Param{Type: typ, Name: name}
	param.SetPos(pos)
	return param
}
