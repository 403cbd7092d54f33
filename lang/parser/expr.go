package parser

import (
	"github.com/duals-lang/dualc/lang/ast"
	"github.com/duals-lang/dualc/lang/token"
)

// binopPriority gives each binary-operator token its precedence level; all
// operators are left-associative, matching spec.md's closed operator set.
// There is no unary operator in the grammar.
var binopPriority = map[token.Token]int{
	token.OR_OR:   1,
	token.AND_AND: 2,
	token.PIPE:    3,
	token.AMP:     4,
	token.EQL:     5, token.NEQ: 5, token.LT: 5, token.GT: 5, token.LE: 5, token.GE: 5,
	token.PLUS: 6, token.MINUS: 6,
	token.STAR: 7, token.SLASH: 7, token.PERCENT: 7,
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinExpr(0)
}

// parseBinExpr implements precedence climbing: it parses a primary
// expression, then repeatedly folds in binary operators whose priority is
// greater than the caller's floor.
func (p *parser) parseBinExpr(floor int) ast.Expr {
	left := p.parsePrimaryExpr()

	for {
		prio, ok := binopPriority[p.tok]
		if !ok || prio <= floor {
			return left
		}
		opTok := p.tok
		pos := p.expect(opTok)
		right := p.parseBinExpr(prio)
		bin := &ast.BinOp{Op: token.BinOpFromToken(opTok), Lhs: left, Rhs: right}
		bin.SetPos(pos)
		left = bin
	}
}

// parsePrimaryExpr parses a literal, a parenthesized expression, or an
// identifier optionally followed by a call's argument list.
func (p *parser) parsePrimaryExpr() ast.Expr {
	pos := p.val.Pos
	switch p.tok {
	case token.INT:
		lit := &ast.Literal{Text: p.val.Raw, Value: p.val.Int}
		lit.SetPos(pos)
		p.advance()
		return lit
	case token.FLOAT:
		lit := &ast.Literal{Text: p.val.Raw, Value: p.val.Float}
		lit.SetPos(pos)
		p.advance()
		return lit
	case token.STRING:
		lit := &ast.Literal{Text: p.val.Raw, Value: p.val.String}
		lit.SetPos(pos)
		p.advance()
		return lit
	case token.TRUE, token.FALSE:
		lit := &ast.Literal{Text: p.tok.String(), Value: p.tok == token.TRUE}
		lit.SetPos(pos)
		p.advance()
		return lit
	case token.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(token.RPAREN)
		return e
	case token.IDENT:
		return p.parseIdentCallOrMapAccessExpr()
	default:
		p.errorExpected(pos, "expression")
		panic(errPanicMode)
	}
}

// parseIdentCallOrMapAccessExpr parses a bare identifier reference, or, if
// followed by '(', a function call, or, if followed by '[', an access into
// a map variable (e.g. "m[key]").
func (p *parser) parseIdentCallOrMapAccessExpr() ast.Expr {
	pos := p.val.Pos
	name := p.val.Raw
	p.expect(token.IDENT)

	id := &ast.Ident{Name: name}
	id.SetPos(pos)

	switch p.tok {
	case token.LPAREN:
		return p.parseCallExpr(id)
	case token.LBRACK:
		p.advance()
		key := p.parseExpr()
		p.expect(token.RBRACK)
		access := &ast.MapAccess{Target: id, Key: key}
		access.SetPos(pos)
		return access
	default:
		return id
	}
}

// parseCallExpr parses the argument list of a call, given the already
// parsed callee identifier. The '(' is the current token.
func (p *parser) parseCallExpr(callee *ast.Ident) *ast.Call {
	pos := p.expect(token.LPAREN)
	var args []ast.Expr
	if p.tok != token.RPAREN {
		args = append(args, p.parseExpr())
		for p.tok == token.COMMA {
			p.advance()
			args = append(args, p.parseExpr())
		}
	}
	p.expect(token.RPAREN)

	call := &ast.Call{Callee: callee, Args: args}
	call.SetPos(pos)
	return call
}

// parseMapType parses "map < keyType , valueType >". Map types are
// parseable but carry no semantic rules yet (the checker rejects any use
// of them outright; see DESIGN.md's Open Question decisions).
func (p *parser) parseMapType() *ast.MapType {
	pos := p.expect(token.MAP_KW)
	p.expect(token.LT)
	key := p.parseType()
	p.expect(token.COMMA)
	value := p.parseType()
	p.expect(token.GT)

	mt := &ast.MapType{KeyType: key, ValueType: value}
	mt.SetPos(pos)
	return mt
}

// parseType parses a TypeRef naming one of the base types. Map types are
// not accepted here; parseMapType handles them.
func (p *parser) parseType() *ast.TypeRef {
	pos := p.val.Pos
	switch p.tok {
	case token.VOID_KW, token.BOOL_KW, token.INT_KW, token.FLOAT_KW, token.STRING_KW:
		name := p.tok.String()
		p.advance()
		tr := &ast.TypeRef{Name: name}
		tr.SetPos(pos)
		return tr
	default:
		p.errorExpected(pos, "type name")
		panic(errPanicMode)
	}
}
