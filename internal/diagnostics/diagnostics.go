package diagnostics

import (
	"fmt"

	"github.com/funvibe/sift/internal/token"
)

// Error codes, grouped by producing stage.
const (
	ErrL001 = "L001" // unterminated string literal
	ErrL002 = "L002" // illegal character
	ErrP001 = "P001" // unexpected token
	ErrP002 = "P002" // no prefix parse function
	ErrP003 = "P003" // malformed literal
	ErrP004 = "P004" // invalid assignment target
	ErrP005 = "P005" // misplaced statement
	ErrP006 = "P006" // recursion depth limit exceeded
)

// Diagnostic is a compile-time error with source position.
// Parse errors abort before any record is processed.
type Diagnostic struct {
	Code    string
	File    string
	Line    int
	Column  int
	Message string
}

func NewError(code string, tok token.Token, msg string) *Diagnostic {
	return &Diagnostic{
		Code:    code,
		Line:    tok.Line,
		Column:  tok.Column,
		Message: msg,
	}
}

func (d *Diagnostic) Error() string {
	file := d.File
	if file == "" {
		file = "(expression)"
	}
	return fmt.Sprintf("%s:%d:%d: [%s] %s", file, d.Line, d.Column, d.Code, d.Message)
}
