package ast

import (
	"github.com/funvibe/sift/internal/token"
)

type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) expressionNode()       {}
func (e *IntegerLiteral) TokenLiteral() string  { return e.Token.Lexeme }
func (e *IntegerLiteral) GetToken() token.Token { return e.Token }

type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (e *FloatLiteral) expressionNode()       {}
func (e *FloatLiteral) TokenLiteral() string  { return e.Token.Lexeme }
func (e *FloatLiteral) GetToken() token.Token { return e.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()       {}
func (e *StringLiteral) TokenLiteral() string  { return e.Token.Lexeme }
func (e *StringLiteral) GetToken() token.Token { return e.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()       {}
func (e *BooleanLiteral) TokenLiteral() string  { return e.Token.Lexeme }
func (e *BooleanLiteral) GetToken() token.Token { return e.Token }

// FieldExpr reads a stream-record field: $name.
type FieldExpr struct {
	Token token.Token
	Name  string
}

func (e *FieldExpr) expressionNode()       {}
func (e *FieldExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *FieldExpr) GetToken() token.Token { return e.Token }

// FullSrecExpr is the whole current record: $*.
type FullSrecExpr struct {
	Token token.Token
}

func (e *FullSrecExpr) expressionNode()       {}
func (e *FullSrecExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *FullSrecExpr) GetToken() token.Token { return e.Token }

// OosvarExpr reads an out-of-stream variable, optionally indexed:
// @name, @name[k1][k2].
type OosvarExpr struct {
	Token token.Token
	Name  string
	Keys  []Expression
}

func (e *OosvarExpr) expressionNode()       {}
func (e *OosvarExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *OosvarExpr) GetToken() token.Token { return e.Token }

// LocalExpr reads a local variable by its compile-time frame slot,
// optionally indexed when the slot holds a map.
type LocalExpr struct {
	Token token.Token
	Name  string
	Slot  int
	Keys  []Expression
}

func (e *LocalExpr) expressionNode()       {}
func (e *LocalExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *LocalExpr) GetToken() token.Token { return e.Token }

type PrefixExpr struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (e *PrefixExpr) expressionNode()       {}
func (e *PrefixExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *PrefixExpr) GetToken() token.Token { return e.Token }

type InfixExpr struct {
	Token    token.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (e *InfixExpr) expressionNode()       {}
func (e *InfixExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *InfixExpr) GetToken() token.Token { return e.Token }

// TernaryExpr is cond ? then : else.
type TernaryExpr struct {
	Token token.Token
	Cond  Expression
	Then  Expression
	Else  Expression
}

func (e *TernaryExpr) expressionNode()       {}
func (e *TernaryExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *TernaryExpr) GetToken() token.Token { return e.Token }

// CallExpr invokes a builtin function by name.
type CallExpr struct {
	Token    token.Token
	Function string
	Args     []Expression
}

func (e *CallExpr) expressionNode()       {}
func (e *CallExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *CallExpr) GetToken() token.Token { return e.Token }

// MapLiteralExpr is an extended-value literal: { "a": 1, "b": $x }.
// Keys and Values are parallel, in source order.
type MapLiteralExpr struct {
	Token  token.Token
	Keys   []Expression
	Values []Expression
}

func (e *MapLiteralExpr) expressionNode()       {}
func (e *MapLiteralExpr) TokenLiteral() string  { return e.Token.Lexeme }
func (e *MapLiteralExpr) GetToken() token.Token { return e.Token }
