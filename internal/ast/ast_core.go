package ast

import (
	"github.com/funvibe/sift/internal/token"
	"github.com/funvibe/sift/internal/value"
)

// SlotUnset marks a variable node whose frame slot has not been bound by the
// slot-allocation pass.
const SlotUnset = -1

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	GetToken() token.Token
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Program is the root node the parser produces: begin statements run once
// before the stream, main statements run per record, end statements run once
// after end-of-stream against the accumulators only.
type Program struct {
	File  string
	Begin []Statement
	Main  []Statement
	End   []Statement

	// FrameSize is the number of local slots the top-level frame needs,
	// assigned by the slot-allocation pass.
	FrameSize int
}

func (p *Program) TokenLiteral() string {
	if len(p.Main) > 0 {
		return p.Main[0].TokenLiteral()
	}
	return ""
}

// AssignFieldStatement writes a scalar field: $name = expr.
type AssignFieldStatement struct {
	Token token.Token // the field token
	Name  string
	RHS   Expression
}

func (s *AssignFieldStatement) statementNode()        {}
func (s *AssignFieldStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *AssignFieldStatement) GetToken() token.Token { return s.Token }

// AssignFullRecordStatement writes the whole record: $* = expr.
type AssignFullRecordStatement struct {
	Token token.Token
	RHS   Expression
}

func (s *AssignFullRecordStatement) statementNode()        {}
func (s *AssignFullRecordStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *AssignFullRecordStatement) GetToken() token.Token { return s.Token }

// AssignOosvarStatement writes an out-of-stream variable: @name[k]... = expr.
type AssignOosvarStatement struct {
	Token token.Token
	Name  string
	Keys  []Expression // empty for @name without indexing
	RHS   Expression
}

func (s *AssignOosvarStatement) statementNode()        {}
func (s *AssignOosvarStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *AssignOosvarStatement) GetToken() token.Token { return s.Token }

// LocalDeclStatement declares a typed local: var x = expr, int n = 0, etc.
// TypeMask restricts which value tags the slot accepts.
type LocalDeclStatement struct {
	Token    token.Token // the declarator keyword
	Name     string
	Slot     int
	TypeMask value.TypeMask
	RHS      Expression
}

func (s *LocalDeclStatement) statementNode()        {}
func (s *LocalDeclStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *LocalDeclStatement) GetToken() token.Token { return s.Token }

// AssignLocalStatement writes a previously declared local, optionally
// indexed: x = expr or x[k]... = expr.
type AssignLocalStatement struct {
	Token token.Token
	Name  string
	Slot  int
	Keys  []Expression
	RHS   Expression
}

func (s *AssignLocalStatement) statementNode()        {}
func (s *AssignLocalStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *AssignLocalStatement) GetToken() token.Token { return s.Token }

// FilterStatement gates record emission on a boolean expression.
type FilterStatement struct {
	Token token.Token
	Cond  Expression
}

func (s *FilterStatement) statementNode()        {}
func (s *FilterStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *FilterStatement) GetToken() token.Token { return s.Token }

// EmitStatement flattens an accumulator subtree into output records:
// emit @name, "keyname1", "keyname2".
type EmitStatement struct {
	Token    token.Token
	Name     string
	Keys     []Expression // indexing on the emitted oosvar, usually empty
	KeyNames []Expression // per-level field names
}

func (s *EmitStatement) statementNode()        {}
func (s *EmitStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *EmitStatement) GetToken() token.Token { return s.Token }

// UnsetStatement removes fields or oosvar subtrees: unset $f, @v[k].
type UnsetStatement struct {
	Token   token.Token
	Targets []Expression
}

func (s *UnsetStatement) statementNode()        {}
func (s *UnsetStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *UnsetStatement) GetToken() token.Token { return s.Token }

// ExpressionStatement evaluates a bare expression for its effects.
type ExpressionStatement struct {
	Token token.Token
	Expr  Expression
}

func (s *ExpressionStatement) statementNode()        {}
func (s *ExpressionStatement) TokenLiteral() string  { return s.Token.Lexeme }
func (s *ExpressionStatement) GetToken() token.Token { return s.Token }
