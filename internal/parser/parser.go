package parser

import (
	"fmt"

	"github.com/funvibe/sift/internal/ast"
	"github.com/funvibe/sift/internal/diagnostics"
	"github.com/funvibe/sift/internal/lexer"
	"github.com/funvibe/sift/internal/token"
	"github.com/funvibe/sift/internal/value"
)

const MaxRecursionDepth = 500

// Operator precedence levels, lowest binds loosest.
const (
	_ int = iota
	LOWEST
	TERNARY     // ? :
	LOGIC_OR    // ||
	LOGIC_AND   // &&
	EQUALS      // == !=
	LESSGREATER // < <= > >=
	SUM         // + - .
	PRODUCT     // * / // %
	POWER       // **
	PREFIX      // ! -x
	INDEX       // [
)

var precedences = map[token.TokenType]int{
	token.QUESTION: TERNARY,
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       EQUALS,
	token.NE:       EQUALS,
	token.LT:       LESSGREATER,
	token.LE:       LESSGREATER,
	token.GT:       LESSGREATER,
	token.GE:       LESSGREATER,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.DOT:      SUM,
	token.TIMES:    PRODUCT,
	token.DIVIDE:   PRODUCT,
	token.INTDIV:   PRODUCT,
	token.MODULO:   PRODUCT,
	token.POW:      POWER,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.TokenType]prefixParseFn
	infixParseFns  map[token.TokenType]infixParseFn

	errors []*diagnostics.Diagnostic
	depth  int

	scopes   []map[string]int
	nextSlot int
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}

	p.prefixParseFns = map[token.TokenType]prefixParseFn{
		token.INT:       p.parseIntegerLiteral,
		token.FLOAT:     p.parseFloatLiteral,
		token.STRING:    p.parseStringLiteral,
		token.TRUE:      p.parseBooleanLiteral,
		token.FALSE:     p.parseBooleanLiteral,
		token.FIELD:     p.parseFieldExpr,
		token.FULL_SREC: p.parseFullSrecExpr,
		token.OOSVAR:    p.parseOosvarExpr,
		token.IDENT:     p.parseLocalExpr,
		token.BANG:      p.parsePrefixExpr,
		token.MINUS:     p.parsePrefixExpr,
		token.LPAREN:    p.parseGroupedExpr,
		token.LBRACE:    p.parseMapLiteral,
		// Declarator keywords double as coercion builtins: int("3").
		token.INT_DECL: p.parseKeywordCall,
		token.FLT_DECL: p.parseKeywordCall,
		token.BLN_DECL: p.parseKeywordCall,
	}
	p.infixParseFns = map[token.TokenType]infixParseFn{
		token.PLUS:     p.parseInfixExpr,
		token.MINUS:    p.parseInfixExpr,
		token.TIMES:    p.parseInfixExpr,
		token.DIVIDE:   p.parseInfixExpr,
		token.INTDIV:   p.parseInfixExpr,
		token.MODULO:   p.parseInfixExpr,
		token.POW:      p.parseInfixExpr,
		token.DOT:      p.parseInfixExpr,
		token.EQ:       p.parseInfixExpr,
		token.NE:       p.parseInfixExpr,
		token.LT:       p.parseInfixExpr,
		token.LE:       p.parseInfixExpr,
		token.GT:       p.parseInfixExpr,
		token.GE:       p.parseInfixExpr,
		token.AND:      p.parseInfixExpr,
		token.OR:       p.parseInfixExpr,
		token.QUESTION: p.parseTernaryExpr,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Parse is the package entry point: lex and parse src into a program.
func Parse(src string) (*ast.Program, []*diagnostics.Diagnostic) {
	p := New(lexer.New(src))
	prog := p.ParseProgram()
	return prog, p.errors
}

func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t token.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errors = append(p.errors, diagnostics.NewError(
		diagnostics.ErrP001,
		p.peekToken,
		fmt.Sprintf("expected %s, got %s", t, p.peekToken.Type),
	))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) skipSeparators() {
	for p.curTokenIs(token.NEWLINE) || p.curTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
}

// ParseProgram parses the whole DSL source: main statements interleaved with
// begin/end blocks. Multiple begin (or end) blocks append in source order.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	p.pushScope()

	p.skipSeparators()
	for !p.curTokenIs(token.EOF) {
		switch p.curToken.Type {
		case token.BEGIN:
			prog.Begin = append(prog.Begin, p.parseBlock()...)
		case token.END:
			prog.End = append(prog.End, p.parseBlock()...)
		default:
			if stmt := p.parseStatement(); stmt != nil {
				prog.Main = append(prog.Main, stmt)
			}
		}
		p.nextToken()
		p.skipSeparators()
	}

	p.popScope()
	prog.FrameSize = p.nextSlot
	return prog
}

// parseBlock parses begin { ... } / end { ... }.
func (p *Parser) parseBlock() []ast.Statement {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()
	p.skipSeparators()

	p.pushScope()
	var stmts []ast.Statement
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			stmts = append(stmts, stmt)
		}
		p.nextToken()
		p.skipSeparators()
	}
	p.popScope()

	if p.curTokenIs(token.EOF) {
		p.errors = append(p.errors, diagnostics.NewError(
			diagnostics.ErrP001, p.curToken, "unterminated block: expected }"))
	}
	return stmts
}

// ----------------------------------------------------------------
// Local-variable slot allocation. Slot indices are assigned at parse time;
// each lexical scope maps names to slots, and slots come from one
// program-wide counter so a single frame sizing covers every block.

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, make(map[string]int))
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
}

func (p *Parser) defineLocal(name string) int {
	slot := p.nextSlot
	p.nextSlot++
	p.scopes[len(p.scopes)-1][name] = slot
	return slot
}

func (p *Parser) resolveLocal(name string) int {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if slot, ok := p.scopes[i][name]; ok {
			return slot
		}
	}
	return ast.SlotUnset
}

var declMasks = map[token.TokenType]value.TypeMask{
	token.VAR:      value.MaskAny,
	token.STR_DECL: value.MaskString,
	token.NUM_DECL: value.MaskNum,
	token.INT_DECL: value.MaskInt,
	token.FLT_DECL: value.MaskFloat,
	token.BLN_DECL: value.MaskBool,
	token.MAP_DECL: value.MaskMap,
}
