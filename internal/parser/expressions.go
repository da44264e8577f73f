package parser

import (
	"fmt"
	"strconv"

	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/diagnostics"
	"github.com/funvibe/sift/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP006,
			p.curToken,
			"expression too complex: recursion depth limit exceeded",
		))
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(tok token.Token) {
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP002,
		tok,
		fmt.Sprintf("unexpected token %s", tok.Type),
	))
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseInt(tok.Lexeme, 0, 64)
	if err != nil {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP003,
			tok,
			fmt.Sprintf("could not parse %q as integer", tok.Lexeme),
		))
		return nil
	}
	return &ast.IntegerLiteral{Token: tok, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.curToken
	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP003,
			tok,
			fmt.Sprintf("could not parse %q as float", tok.Lexeme),
		))
		return nil
	}
	return &ast.FloatLiteral{Token: tok, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Lexeme}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

func (p *Parser) parseFieldExpr() ast.Expression {
	return &ast.FieldExpr{Token: p.curToken, Name: p.curToken.Lexeme}
}

func (p *Parser) parseFullSrecExpr() ast.Expression {
	return &ast.FullSrecExpr{Token: p.curToken}
}

func (p *Parser) parseOosvarExpr() ast.Expression {
	expr := &ast.OosvarExpr{Token: p.curToken, Name: p.curToken.Lexeme}
	expr.Keys = p.parseKeyList()
	return expr
}

// parseLocalExpr handles identifiers: either a builtin call f(...) or a
// local variable read, optionally indexed.
func (p *Parser) parseLocalExpr() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.LPAREN) {
		return p.parseCallExpr()
	}
	expr := &ast.LocalExpr{Token: tok, Name: tok.Lexeme, Slot: p.resolveLocal(tok.Lexeme)}
	expr.Keys = p.parseKeyList()
	return expr
}

// parseKeyList consumes zero or more [expr] index suffixes.
func (p *Parser) parseKeyList() []ast.Expression {
	var keys []ast.Expression
	for p.peekTokenIs(token.LBRACKET) {
		p.nextToken()
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return keys
		}
		keys = append(keys, key)
		if !p.expectPeek(token.RBRACKET) {
			return keys
		}
	}
	return keys
}

// parseKeywordCall lets the type-declarator keywords act as the coercion
// functions of the same name when called: int(...), float(...), bool(...).
func (p *Parser) parseKeywordCall() ast.Expression {
	if !p.peekTokenIs(token.LPAREN) {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	return p.parseCallExpr()
}

func (p *Parser) parseCallExpr() ast.Expression {
	tok := p.curToken
	expr := &ast.CallExpr{Token: tok, Function: tok.Lexeme}
	p.nextToken() // onto '('
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return expr
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil
	}
	expr.Args = append(expr.Args, arg)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		expr.Args = append(expr.Args, arg)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	tok := p.curToken
	p.nextToken()
	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpr{Token: tok, Operator: tok.Lexeme, Right: right}
}

func (p *Parser) parseInfixExpr(left ast.Expression) ast.Expression {
	tok := p.curToken
	precedence := p.curPrecedence()
	if tok.Type == token.POW {
		precedence-- // right-associative
	}
	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.InfixExpr{Token: tok, Operator: tok.Lexeme, Left: left, Right: right}
}

// cond ? then : else, right-associative.
func (p *Parser) parseTernaryExpr(cond ast.Expression) ast.Expression {
	tok := p.curToken
	p.nextToken()
	thenExpr := p.parseExpression(TERNARY - 1)
	if thenExpr == nil {
		return nil
	}
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	elseExpr := p.parseExpression(TERNARY - 1)
	if elseExpr == nil {
		return nil
	}
	return &ast.TernaryExpr{Token: tok, Cond: cond, Then: thenExpr, Else: elseExpr}
}

func (p *Parser) parseGroupedExpr() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// { "a": 1, "b": $x } — keys and values in source order.
func (p *Parser) parseMapLiteral() ast.Expression {
	expr := &ast.MapLiteralExpr{Token: p.curToken}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return expr
	}
	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		val := p.parseExpression(LOWEST)
		if val == nil {
			return nil
		}
		expr.Keys = append(expr.Keys, key)
		expr.Values = append(expr.Values, val)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return expr
}
