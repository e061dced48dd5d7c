package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	ErrUndeclaredVariable   = errors.New("undeclared variable")
)

// LexicalError reports an unterminated literal, a malformed number or an
// unknown character.
type LexicalError struct {
	Msg  string
	Line int
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func lexErrorf(line int, format string, args ...any) *LexicalError {
	return &LexicalError{Msg: fmt.Sprintf(format, args...), Line: line}
}

// DeclarationError reports a redeclaration or a use before declaration.
// Line is the line of the offending occurrence, not of the first
// declaration. Err is ErrDuplicateDeclaration or ErrUndeclaredVariable.
type DeclarationError struct {
	Name string
	Line int
	Err  error
}

func (e *DeclarationError) Error() string {
	switch e.Err {
	case ErrDuplicateDeclaration:
		return fmt.Sprintf("line %d: variable %q is already declared", e.Line, e.Name)
	case ErrUndeclaredVariable:
		return fmt.Sprintf("line %d: variable %q is not declared", e.Line, e.Name)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Name, e.Err)
}

func (e *DeclarationError) Unwrap() error { return e.Err }

// SyntaxError reports a token that does not fit the grammar at the current
// position. Expected is empty when no single token kind was required.
type SyntaxError struct {
	Expected string
	Found    Token
	Line     int
	Msg      string
	Snippet  string // trimmed source line, if available
}

func (e *SyntaxError) Error() string {
	msg := e.Msg
	if msg == "" {
		if e.Expected != "" {
			msg = fmt.Sprintf("expected %s, got %s (%q)", e.Expected, e.Found.Type, e.Found.Lexeme)
		} else {
			msg = fmt.Sprintf("unexpected token %s (%q)", e.Found.Type, e.Found.Lexeme)
		}
	}
	if e.Snippet == "" {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return fmt.Sprintf("line %d: %s\n  |> %s", e.Line, msg, e.Snippet)
}
