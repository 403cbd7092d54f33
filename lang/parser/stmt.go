package parser

import (
	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/token"
)

// isTypeStart reports whether tok can start a type name, used to decide
// whether the upcoming statement is a VarsDecl or a Func.
func isTypeStart(tok token.Token) bool {
	switch tok {
	case token.VOID_KW, token.BOOL_KW, token.INT_KW, token.FLOAT_KW, token.STRING_KW:
		return true
	}
	return false
}

// parseStmt parses a single statement. It does not install a panic
// recovery boundary itself; callers iterating a statement list do that per
// statement so a single bad statement does not abort the whole list.
func (p *parser) parseStmt() ast.Stmt {
	pos := p.val.Pos
	switch {
	case p.tok == token.IF:
		return p.parseIfStmt()
	case p.tok == token.WHILE:
		return p.parseWhileStmt()
	case p.tok == token.FOR:
		return p.parseForStmt()
	case p.tok == token.RETURN:
		return p.parseReturnStmt()
	case p.tok == token.LBRACE:
		return p.parseBlock()
	case p.tok == token.MAP_KW:
		return p.parseMapDeclStmt()
	case isTypeStart(p.tok):
		return p.parseVarsDeclStmt()
	case p.tok == token.IDENT:
		return p.parseSimpleStmt(pos)
	default:
		p.errorExpected(pos, "statement")
		panic(errPanicMode)
	}
}

// parseSimpleStmt parses either an Assign ("ident = expr;") or an ExprStmt
// wrapping a bare call ("ident(args);").
func (p *parser) parseSimpleStmt(pos token.Pos) ast.Stmt {
	name := p.val.Raw
	p.expect(token.IDENT)

	id := &ast.Ident{Name: name}
	id.SetPos(pos)

	if p.tok == token.LPAREN {
		call := p.parseCallExpr(id)
		p.expect(token.SEMI)
		stmt := &ast.ExprStmt{Inner: call}
		stmt.SetPos(pos)
		return stmt
	}

	p.expect(token.ASSIGN)
	value := p.parseExpr()
	p.expect(token.SEMI)
	stmt := &ast.Assign{Target: id, Value: value}
	stmt.SetPos(pos)
	return stmt
}

// parseVarsDeclStmt parses "type ident [= expr] (, ident [= expr])* ;".
func (p *parser) parseVarsDeclStmt() *ast.VarsDecl {
	pos := p.val.Pos
	typ := p.parseType()

	var items []ast.Node
	items = append(items, p.parseVarsDeclItem())
	for p.tok == token.COMMA {
		p.advance()
		items = append(items, p.parseVarsDeclItem())
	}
	p.expect(token.SEMI)

	decl := &ast.VarsDecl{Type: typ, Items: items}
	decl.SetPos(pos)
	return decl
}

func (p *parser) parseVarsDeclItem() ast.Node {
	pos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)

	id := &ast.Ident{Name: name}
	id.SetPos(pos)
	if p.tok != token.ASSIGN {
		return id
	}
	p.advance()
	value := p.parseExpr()
	assign := &ast.Assign{Target: id, Value: value}
	assign.SetPos(pos)
	return assign
}

// parseMapDeclStmt parses "map < K , V > ident [= expr] ;".
func (p *parser) parseMapDeclStmt() *ast.MapDecl {
	pos := p.val.Pos
	typ := p.parseMapType()
	name := p.val.Raw
	p.expect(token.IDENT)

	var init ast.Expr
	if p.tok == token.ASSIGN {
		p.advance()
		init = p.parseExpr()
	}
	p.expect(token.SEMI)

	decl := &ast.MapDecl{Type: typ, Name: name, Init: init}
	decl.SetPos(pos)
	return decl
}

func (p *parser) parseIfStmt() *ast.If {
	pos := p.expect(token.IF)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	then := p.parseBlock()

	var els *ast.StmtList
	if p.tok == token.ELSE {
		p.advance()
		if p.tok == token.IF {
			inner := p.parseIfStmt()
			els = &ast.StmtList{Stmts: []ast.Stmt{inner}}
			els.SetPos(inner.Pos())
		} else {
			els = p.parseBlock()
		}
	}

	stmt := &ast.If{Cond: cond, Then: then, Else: els}
	stmt.SetPos(pos)
	return stmt
}

func (p *parser) parseWhileStmt() *ast.While {
	pos := p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpr()
	p.expect(token.RPAREN)
	body := p.parseBlock()

	stmt := &ast.While{Cond: cond, Body: body}
	stmt.SetPos(pos)
	return stmt
}

// parseForStmt parses "for ( [init] ; [cond] ; [step] ) block". init is a
// VarsDecl or Assign, step is an Assign; either clause, or the condition,
// may be empty.
func (p *parser) parseForStmt() *ast.For {
	pos := p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Stmt
	if isTypeStart(p.tok) {
		init = p.parseVarsDeclStmt()
	} else if p.tok != token.SEMI {
		init = p.parseAssignNoSemi()
		p.expect(token.SEMI)
	} else {
		p.expect(token.SEMI)
	}

	var cond ast.Expr
	if p.tok != token.SEMI {
		cond = p.parseExpr()
	}
	p.expect(token.SEMI)

	var step ast.Stmt
	if p.tok != token.RPAREN {
		step = p.parseAssignNoSemi()
	}
	p.expect(token.RPAREN)

	body := p.parseBlock()

	stmt := &ast.For{Init: init, Cond: cond, Step: step, Body: body}
	stmt.SetPos(pos)
	return stmt
}

// parseAssignNoSemi parses "ident = expr" without a trailing semicolon, for
// use in a for-loop's init/step clauses.
func (p *parser) parseAssignNoSemi() *ast.Assign {
	pos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)
	id := &ast.Ident{Name: name}
	id.SetPos(pos)

	p.expect(token.ASSIGN)
	value := p.parseExpr()
	stmt := &ast.Assign{Target: id, Value: value}
	stmt.SetPos(pos)
	return stmt
}

func (p *parser) parseReturnStmt() *ast.Return {
	pos := p.expect(token.RETURN)
	var value ast.Expr
	if p.tok != token.SEMI {
		value = p.parseExpr()
	}
	p.expect(token.SEMI)

	stmt := &ast.Return{Value: value}
	stmt.SetPos(pos)
	return stmt
}

// parseBlock parses "{ stmt* }" as a (non-program) StmtList, recovering
// from a bad statement by skipping to the next one instead of aborting the
// whole block.
func (p *parser) parseBlock() *ast.StmtList {
	pos := p.expect(token.LBRACE)

	var stmts []ast.Stmt
	for p.tok != token.RBRACE && p.tok != token.EOF {
		if s := p.parseStmtRecovered(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.expect(token.RBRACE)

	list := &ast.StmtList{Stmts: stmts}
	list.SetPos(pos)
	return list
}

// parseStmtRecovered parses one statement, recovering from a parse panic by
// resynchronizing to the next statement boundary. On recovery it returns
// nil; the caller skips it, and the recorded error is what is ultimately
// reported to the caller of ParseSource.
func (p *parser) parseStmtRecovered() (stmt ast.Stmt) {
	defer p.recoverStmt()
	return p.parseStmt()
}
