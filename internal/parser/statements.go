package parser

import (
	"fmt"

	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/diagnostics"
	"github.com/funvibe/sift/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.FIELD:
		return p.parseFieldStatement()
	case token.FULL_SREC:
		return p.parseFullSrecStatement()
	case token.OOSVAR:
		return p.parseOosvarStatement()
	case token.IDENT:
		return p.parseLocalStatement()
	case token.VAR, token.STR_DECL, token.NUM_DECL, token.INT_DECL,
		token.FLT_DECL, token.BLN_DECL, token.MAP_DECL:
		if p.peekTokenIs(token.LPAREN) {
			return p.parseExpressionStatement() // int("..."), a coercion call
		}
		return p.parseLocalDecl()
	case token.FILTER:
		return p.parseFilterStatement()
	case token.EMIT:
		return p.parseEmitStatement()
	case token.UNSET:
		return p.parseUnsetStatement()
	default:
		return p.parseExpressionStatement()
	}
}

var compoundOps = map[token.TokenType]string{
	token.PLUS_ASSIGN:   "+",
	token.MINUS_ASSIGN:  "-",
	token.TIMES_ASSIGN:  "*",
	token.DIVIDE_ASSIGN: "/",
	token.DOT_ASSIGN:    ".",
}

// parseAssignRHS consumes the assignment operator and the RHS. Compound
// forms desugar here: lhs += e becomes lhs = lhs + e.
func (p *Parser) parseAssignRHS(lhs ast.Expression) ast.Expression {
	opTok := p.curToken
	p.nextToken()
	rhs := p.parseExpression(LOWEST)
	if rhs == nil {
		return nil
	}
	if op, ok := compoundOps[opTok.Type]; ok {
		return &ast.InfixExpr{Token: opTok, Operator: op, Left: lhs, Right: rhs}
	}
	return rhs
}

func (p *Parser) isAssignOp(t token.TokenType) bool {
	if t == token.ASSIGN {
		return true
	}
	_, ok := compoundOps[t]
	return ok
}

// $name = expr, or a bare field expression.
func (p *Parser) parseFieldStatement() ast.Statement {
	tok := p.curToken
	lhs := p.parseExpression(LOWEST)
	if lhs == nil {
		return nil
	}
	if fe, ok := lhs.(*ast.FieldExpr); ok && p.isAssignOp(p.peekToken.Type) {
		p.nextToken()
		rhs := p.parseAssignRHS(fe)
		if rhs == nil {
			return nil
		}
		return &ast.AssignFieldStatement{Token: tok, Name: fe.Name, RHS: rhs}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: lhs}
}

// $* = expr.
func (p *Parser) parseFullSrecStatement() ast.Statement {
	tok := p.curToken
	lhs := p.parseExpression(LOWEST)
	if lhs == nil {
		return nil
	}
	if _, ok := lhs.(*ast.FullSrecExpr); ok && p.isAssignOp(p.peekToken.Type) {
		p.nextToken()
		rhs := p.parseAssignRHS(lhs)
		if rhs == nil {
			return nil
		}
		return &ast.AssignFullRecordStatement{Token: tok, RHS: rhs}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: lhs}
}

// @name[keys]... = expr.
func (p *Parser) parseOosvarStatement() ast.Statement {
	tok := p.curToken
	lhs := p.parseExpression(LOWEST)
	if lhs == nil {
		return nil
	}
	if ov, ok := lhs.(*ast.OosvarExpr); ok && p.isAssignOp(p.peekToken.Type) {
		p.nextToken()
		rhs := p.parseAssignRHS(ov)
		if rhs == nil {
			return nil
		}
		return &ast.AssignOosvarStatement{Token: tok, Name: ov.Name, Keys: ov.Keys, RHS: rhs}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: lhs}
}

// x = expr or x[keys] = expr. Assignment to an unseen name implicitly
// declares an untyped local in the current scope.
func (p *Parser) parseLocalStatement() ast.Statement {
	tok := p.curToken
	lhs := p.parseExpression(LOWEST)
	if lhs == nil {
		return nil
	}
	if lv, ok := lhs.(*ast.LocalExpr); ok && p.isAssignOp(p.peekToken.Type) {
		if lv.Slot == ast.SlotUnset {
			lv.Slot = p.defineLocal(lv.Name)
		}
		p.nextToken()
		rhs := p.parseAssignRHS(lv)
		if rhs == nil {
			return nil
		}
		return &ast.AssignLocalStatement{Token: tok, Name: lv.Name, Slot: lv.Slot, Keys: lv.Keys, RHS: rhs}
	}
	return &ast.ExpressionStatement{Token: tok, Expr: lhs}
}

// var x = expr and the typed declarators.
func (p *Parser) parseLocalDecl() ast.Statement {
	tok := p.curToken
	mask := declMasks[tok.Type]
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	slot := p.defineLocal(name)
	if !p.expectPeek(token.ASSIGN) {
		return nil
	}
	p.nextToken()
	rhs := p.parseExpression(LOWEST)
	if rhs == nil {
		return nil
	}
	return &ast.LocalDeclStatement{Token: tok, Name: name, Slot: slot, TypeMask: mask, RHS: rhs}
}

func (p *Parser) parseFilterStatement() ast.Statement {
	tok := p.curToken
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	return &ast.FilterStatement{Token: tok, Cond: cond}
}

// emit @name, "keyname1", "keyname2", ...
func (p *Parser) parseEmitStatement() ast.Statement {
	tok := p.curToken
	if !p.expectPeek(token.OOSVAR) {
		return nil
	}
	target := p.parseOosvarExpr()
	ov, ok := target.(*ast.OosvarExpr)
	if !ok {
		return nil
	}
	stmt := &ast.EmitStatement{Token: tok, Name: ov.Name, Keys: ov.Keys}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		name := p.parseExpression(LOWEST)
		if name == nil {
			return nil
		}
		stmt.KeyNames = append(stmt.KeyNames, name)
	}
	return stmt
}

// unset $f, @v[k], ...
func (p *Parser) parseUnsetStatement() ast.Statement {
	tok := p.curToken
	stmt := &ast.UnsetStatement{Token: tok}
	for {
		p.nextToken()
		target := p.parseExpression(LOWEST)
		if target == nil {
			return nil
		}
		switch target.(type) {
		case *ast.FieldExpr, *ast.OosvarExpr, *ast.LocalExpr, *ast.FullSrecExpr:
			stmt.Targets = append(stmt.Targets, target)
		default:
			p.errors = append(p.errors, diagnostics.NewError(
				diagnostics.ErrP004,
				target.GetToken(),
				fmt.Sprintf("cannot unset %T", target),
			))
			return nil
		}
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	return &ast.ExpressionStatement{Token: tok, Expr: expr}
}
