package compiler

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer, checks it
// against the grammar and emits three-address code in the same pass.
//
// Grammar:
//
//	program     = statement* EOF
//	statement   = declaration | assignment | if | while | for | return | output | block
//	declaration = type IDENTIFIER ("=" expression)? ";"
//	type        = "int" | "float" | "double" | "string" | "bool" | "char"
//	assignment  = IDENTIFIER "=" expression ";"
//	if          = "if" "(" expression ")" statement ("else" statement)?
//	while       = "while" "(" expression ")" statement
//	for         = "for" "(" (declaration | assignment) expression ";" assignment ")" statement
//	              (the update assignment takes no ";")
//	return      = "return" expression ";"
//	output      = "cout" "<<" expression ("<<" expression)* ";"
//	block       = "{" statement* "}"
//	expression  = logical
//	logical     = equality (("&&" | "||") equality)*
//	equality    = relational (("==" | "!=") relational)?
//	relational  = additive (("<" | ">" | "<=" | ">=") additive)?
//	additive    = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = primary (("*" | "/") primary)*
//	primary     = INTEGER | FLOAT_LIT | STRING_LIT | CHAR_LIT | "true" | "false"
//	            | IDENTIFIER | "(" expression ")"
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string

	syms *SymbolTable
	gen  *Generator

	// push a symbol table frame per block
	blockScopes bool
}

func NewParser(tokens []Token, rawSource string, syms *SymbolTable, gen *Generator) *Parser {
	return &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(rawSource, "\n"),
		syms:        syms,
		gen:         gen,
	}
}

// Parse checks tokens against the grammar and returns the populated symbol
// table together with the generator holding the emitted code. The first
// error aborts the parse; nothing is returned alongside it.
func Parse(tokens []Token, rawSource string, opts Options) (*SymbolTable, *Generator, error) {
	syms := NewSymbolTable()
	gen := NewGenerator()
	p := NewParser(tokens, rawSource, syms, gen)
	p.blockScopes = opts.BlockScopes
	if err := p.parseProgram(); err != nil {
		return nil, nil, err
	}
	return syms, gen, nil
}

func (p *Parser) snippet(line int) string {
	lineIdx := line - 1 // Lines are 1-based
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		return strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return ""
}

// syntaxError builds a SyntaxError for tok carrying the source line where
// it appears. An empty format leaves the message to SyntaxError.Error.
func (p *Parser) syntaxError(tok Token, expected string, format string, args ...any) *SyntaxError {
	var msg string
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &SyntaxError{
		Expected: expected,
		Found:    tok,
		Line:     tok.Line,
		Msg:      msg,
		Snippet:  p.snippet(tok.Line),
	}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
// Reading past the slice yields EOF on the last known line.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		line := 1
		if len(p.tokens) > 0 {
			line = p.tokens[len(p.tokens)-1].Line
		}
		return Token{Type: EOF, Line: line}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.syntaxError(tok, tt.String(), "")
	}
	return p.advance(), nil
}

func (p *Parser) parseProgram() error {
	for p.peek().Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	_, err := p.expect(EOF)
	return err
}

// parseStatement dispatches to the correct sub-parser based on the leading token.
func (p *Parser) parseStatement() error {
	tok := p.peek()
	switch tok.Type {
	case LBRACE:
		p.advance()
		return p.parseBlock()

	case IF:
		p.advance()
		return p.parseIf()

	case WHILE:
		p.advance()
		return p.parseWhile()

	case FOR:
		p.advance()
		return p.parseFor()

	case RETURN:
		p.advance()
		return p.parseReturn()

	case COUT:
		p.advance()
		return p.parseOutput()

	case INT, FLOAT, DOUBLE, STRING, BOOL, CHAR:
		if err := p.parseDeclaration(); err != nil {
			return err
		}
		_, err := p.expect(SEMICOLON)
		return err

	case IDENTIFIER:
		if err := p.parseAssignment(); err != nil {
			return err
		}
		_, err := p.expect(SEMICOLON)
		return err

	default:
		return p.syntaxError(tok, "", "")
	}
}

// parseDeclaration parses  type name [= expr]  without the trailing ";".
// The name is declared before its initializer is parsed.
func (p *Parser) parseDeclaration() error {
	typeTok := p.peek()
	if !typeTok.Type.IsType() {
		return p.syntaxError(typeTok, "type", "")
	}
	p.advance()

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	if err := p.syms.Declare(nameTok.Lexeme, typeTok.Lexeme, nameTok.Line); err != nil {
		return err
	}

	if p.peek().Type != ASSIGN {
		return nil
	}
	p.advance()
	return p.assignFrom(nameTok)
}

// parseAssignment parses  name = expr  without the trailing ";".
// The target must already be declared.
func (p *Parser) parseAssignment() error {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}
	if _, err := p.syms.LookupType(nameTok.Lexeme, nameTok.Line); err != nil {
		return err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return err
	}
	return p.assignFrom(nameTok)
}

// assignFrom parses the right-hand side of an assignment to target and
// emits the copy.
func (p *Parser) assignFrom(target Token) error {
	val, err := p.parseExpression()
	if err != nil {
		return err
	}
	p.gen.EmitCopy(target.Lexeme, val.text)
	return p.syms.SetValue(target.Lexeme, val.text, target.Line)
}

// parseCondition parses an expression and returns a temporary holding its
// value. Plain operands are copied into a fresh temporary first.
func (p *Parser) parseCondition() (string, error) {
	val, err := p.parseExpression()
	if err != nil {
		return "", err
	}
	if val.temp {
		return val.text, nil
	}
	t := p.gen.NewTemp()
	p.gen.EmitCopy(t, val.text)
	return t, nil
}

// parseBlock parses { stmt1; stmt2; ... }
// The leading LBRACE token has already been consumed by parseStatement.
func (p *Parser) parseBlock() error {
	if p.blockScopes {
		p.syms.EnterScope()
		defer p.syms.ExitScope()
	}
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	_, err := p.expect(RBRACE)
	return err
}

// parseIf parses if ( cond ) body [ else elseBody ]
// The leading IF token has already been consumed by parseStatement.
//
//	if c goto Ltrue
//	goto Lfalse
//	Ltrue:
//	  body
//	goto Lend      (else only)
//	Lfalse:
//	  elseBody     (else only)
//	Lend:          (else only)
func (p *Parser) parseIf() error {
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}

	lTrue := p.gen.NewLabel()
	lFalse := p.gen.NewLabel()
	p.gen.EmitIfGoto(cond, lTrue)
	p.gen.EmitGoto(lFalse)
	p.gen.EmitLabel(lTrue)

	if err := p.parseStatement(); err != nil {
		return err
	}

	if p.peek().Type != ELSE {
		p.gen.EmitLabel(lFalse)
		return nil
	}
	p.advance()

	lEnd := p.gen.NewLabel()
	p.gen.EmitGoto(lEnd)
	p.gen.EmitLabel(lFalse)
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.gen.EmitLabel(lEnd)
	return nil
}

// parseWhile parses while ( cond ) body
// The leading WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile() error {
	lCond := p.gen.NewLabel()
	lBody := p.gen.NewLabel()
	lEnd := p.gen.NewLabel()

	p.gen.EmitLabel(lCond)
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}
	p.gen.EmitIfGoto(cond, lBody)
	p.gen.EmitGoto(lEnd)

	p.gen.EmitLabel(lBody)
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.gen.EmitGoto(lCond)
	p.gen.EmitLabel(lEnd)
	return nil
}

// parseFor parses for ( init; cond; update ) body
// The leading FOR token has already been consumed by parseStatement.
// The update is parsed where it appears but its code is emitted after the
// body.
func (p *Parser) parseFor() error {
	if p.blockScopes {
		p.syms.EnterScope()
		defer p.syms.ExitScope()
	}
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}

	var err error
	if p.peek().Type.IsType() {
		err = p.parseDeclaration()
	} else {
		err = p.parseAssignment()
	}
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	lCond := p.gen.NewLabel()
	lBody := p.gen.NewLabel()
	lEnd := p.gen.NewLabel()

	p.gen.EmitLabel(lCond)
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	p.gen.EmitIfGoto(cond, lBody)
	p.gen.EmitGoto(lEnd)

	update, err := p.gen.Capture(p.parseAssignment)
	if err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}

	p.gen.EmitLabel(lBody)
	if err := p.parseStatement(); err != nil {
		return err
	}
	p.gen.Append(update...)
	p.gen.EmitGoto(lCond)
	p.gen.EmitLabel(lEnd)
	return nil
}

// parseReturn parses  return expr ;
// The leading RETURN token has already been consumed by parseStatement.
func (p *Parser) parseReturn() error {
	val, err := p.parseExpression()
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	p.gen.EmitReturn(val.text)
	return nil
}

// parseOutput parses  cout << expr << expr ... ;
// The leading COUT token has already been consumed by parseStatement.
func (p *Parser) parseOutput() error {
	for {
		if _, err := p.expect(SHL); err != nil {
			return err
		}
		val, err := p.parseExpression()
		if err != nil {
			return err
		}
		p.gen.EmitPrint(val.text)
		if p.peek().Type != SHL {
			break
		}
	}
	_, err := p.expect(SEMICOLON)
	return err
}
