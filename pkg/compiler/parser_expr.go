package compiler

import "strconv"

// operand is the synthesized value of an expression: either a literal or
// variable name in source form, or a temporary holding a computed result.
type operand struct {
	text string
	temp bool
}

// binary emits  Tn = left op right  and returns Tn.
func (p *Parser) binary(left operand, op string, right operand) operand {
	t := p.gen.NewTemp()
	p.gen.EmitBinary(t, left.text, op, right.text)
	return operand{text: t, temp: true}
}

// parseExpression is the entry point for expression parsing.
func (p *Parser) parseExpression() (operand, error) {
	return p.parseLogical()
}

// parseLogical handles && and || at a single level, left to right.
func (p *Parser) parseLogical() (operand, error) {
	left, err := p.parseEquality()
	if err != nil {
		return operand{}, err
	}
	for p.peek().Type == AND_LOGICAL || p.peek().Type == OR_LOGICAL {
		op := p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return operand{}, err
		}
		left = p.binary(left, op.Lexeme, right)
	}
	return left, nil
}

// parseComparison parses one optional comparison over next. A second
// operator of the same level is rejected; comparisons do not chain.
func (p *Parser) parseComparison(next func() (operand, error), ops ...TokenType) (operand, error) {
	isOp := func(tt TokenType) bool {
		for _, op := range ops {
			if tt == op {
				return true
			}
		}
		return false
	}

	left, err := next()
	if err != nil {
		return operand{}, err
	}
	if !isOp(p.peek().Type) {
		return left, nil
	}
	op := p.advance()
	right, err := next()
	if err != nil {
		return operand{}, err
	}
	if tok := p.peek(); isOp(tok.Type) {
		return operand{}, p.syntaxError(tok, "", "comparison operators cannot be chained; use parentheses")
	}
	return p.binary(left, op.Lexeme, right), nil
}

// parseEquality handles == and !=
func (p *Parser) parseEquality() (operand, error) {
	return p.parseComparison(p.parseRelational, EQUALS, NOT_EQ)
}

// parseRelational handles <, >, <= and >=
func (p *Parser) parseRelational() (operand, error) {
	return p.parseComparison(p.parseAdditive, LESS, GREATER, LESS_EQ, GREATER_EQ)
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (operand, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return operand{}, err
	}
	for {
		tt := p.peek().Type
		if tt != PLUS && tt != MINUS {
			break
		}
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return operand{}, err
		}
		left = p.binary(left, op.Lexeme, right)
	}
	return left, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (operand, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return operand{}, err
	}
	for {
		tt := p.peek().Type
		if tt != STAR && tt != SLASH {
			break
		}
		op := p.advance()
		right, err := p.parsePrimary()
		if err != nil {
			return operand{}, err
		}
		left = p.binary(left, op.Lexeme, right)
	}
	return left, nil
}

// parsePrimary handles literals, variables, and parenthesised expressions.
func (p *Parser) parsePrimary() (operand, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER, FLOAT_LIT, TRUE, FALSE:
		p.advance()
		return operand{text: tok.Lexeme}, nil

	case STRING_LIT:
		p.advance()
		return operand{text: strconv.Quote(tok.Lexeme)}, nil

	case CHAR_LIT:
		p.advance()
		r := []rune(tok.Lexeme)
		if len(r) != 1 {
			return operand{}, p.syntaxError(tok, "", "malformed character literal %q", tok.Lexeme)
		}
		return operand{text: strconv.QuoteRune(r[0])}, nil

	case IDENTIFIER:
		p.advance()
		if _, err := p.syms.LookupType(tok.Lexeme, tok.Line); err != nil {
			return operand{}, err
		}
		return operand{text: tok.Lexeme}, nil

	case LPAREN:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return operand{}, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return operand{}, err
		}
		return inner, nil

	default:
		return operand{}, p.syntaxError(tok, "expression", "")
	}
}
