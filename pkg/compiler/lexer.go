package compiler

import (
	"unicode"
)

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"int":    INT,
	"float":  FLOAT,
	"double": DOUBLE,
	"string": STRING,
	"bool":   BOOL,
	"char":   CHAR,
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
	"true":   TRUE,
	"false":  FALSE,
	"cout":   COUT,
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), pos: 0, line: 1}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

// isDigit reports whether r is an ASCII decimal digit.
func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment(startLine int) error {
	for !l.atEnd() {
		if l.peek() == '*' && l.peek2() == '/' {
			l.advance() // *
			l.advance() // /
			return nil
		}
		l.advance()
	}
	return lexErrorf(startLine, "unterminated block comment")
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peek().
func (l *Lexer) scanIdent() Token {
	line := l.line
	start := l.pos
	for !l.atEnd() {
		r := l.peek()
		if !unicode.IsLetter(r) && !isDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: line}
}

// scanNumber collects a run of digits and decimal points. No point makes an
// INTEGER, exactly one makes a FLOAT_LIT, anything more is rejected.
// The first digit must still be at l.peek().
func (l *Lexer) scanNumber() (Token, error) {
	line := l.line
	start := l.pos
	dots := 0
	for !l.atEnd() {
		r := l.peek()
		if r == '.' {
			dots++
		} else if !isDigit(r) {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	switch dots {
	case 0:
		return Token{Type: INTEGER, Lexeme: lexeme, Line: line}, nil
	case 1:
		return Token{Type: FLOAT_LIT, Lexeme: lexeme, Line: line}, nil
	default:
		return Token{}, lexErrorf(line, "malformed number %q: more than one decimal point", lexeme)
	}
}

// scanEscape decodes the character after a backslash. The backslash must
// already have been consumed.
func (l *Lexer) scanEscape(line int) (rune, error) {
	if l.atEnd() {
		return 0, lexErrorf(line, "unterminated escape sequence")
	}
	next := l.advance()
	switch next {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case '0':
		return 0, nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	}
	return 0, lexErrorf(line, "unknown escape sequence \\%c", next)
}

// scanChar collects a character literal 'c'. Exactly one character, or one
// escape sequence, must sit between the quotes.
func (l *Lexer) scanChar() (Token, error) {
	line := l.line
	l.advance() // consume opening '

	r := l.peek()
	switch {
	case l.atEnd() || r == '\n':
		return Token{}, lexErrorf(line, "unterminated character literal")
	case r == '\'':
		return Token{}, lexErrorf(line, "empty character literal")
	}

	var val rune
	if r == '\\' {
		l.advance()
		var err error
		if val, err = l.scanEscape(line); err != nil {
			return Token{}, err
		}
	} else {
		val = l.advance()
	}

	if l.peek() != '\'' {
		if l.atEnd() || l.peek() == '\n' {
			return Token{}, lexErrorf(line, "unterminated character literal")
		}
		return Token{}, lexErrorf(line, "character literal must contain exactly one character")
	}
	l.advance() // consume closing '

	return Token{Type: CHAR_LIT, Lexeme: string(val), Line: line}, nil
}

// scanString collects a string literal "..." up to the closing quote. Raw
// newlines are part of the literal. The error for an unterminated literal
// cites the line of the opening quote.
func (l *Lexer) scanString() (Token, error) {
	line := l.line
	l.advance() // consume opening "
	var val []rune

	for !l.atEnd() {
		r := l.peek()
		if r == '"' {
			break
		}
		if r == '\\' {
			l.advance() // consume backslash
			esc, err := l.scanEscape(line)
			if err != nil {
				return Token{}, err
			}
			val = append(val, esc)
			continue
		}
		val = append(val, r)
		l.advance()
	}

	if l.atEnd() {
		return Token{}, lexErrorf(line, "unterminated string literal")
	}
	l.advance() // consume closing "

	return Token{Type: STRING_LIT, Lexeme: string(val), Line: line}, nil
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			line := l.line
			l.advance()
			l.advance()
			if err := l.skipBlockComment(line); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent(), nil
	}
	if isDigit(ch) {
		return l.scanNumber()
	}
	if ch == '"' {
		return l.scanString()
	}
	if ch == '\'' {
		return l.scanChar()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '{':
		return Token{LBRACE, "{", line}, nil
	case '}':
		return Token{RBRACE, "}", line}, nil
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case '+':
		return Token{PLUS, "+", line}, nil
	case '-':
		return Token{MINUS, "-", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '/':
		return Token{SLASH, "/", line}, nil
	case '&':
		if l.peek() == '&' {
			l.advance()
			return Token{AND_LOGICAL, "&&", line}, nil
		}
	case '|':
		if l.peek() == '|' {
			l.advance()
			return Token{OR_LOGICAL, "||", line}, nil
		}
	case '!':
		if l.peek() == '=' {
			l.advance()
			return Token{NOT_EQ, "!=", line}, nil
		}
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{LESS_EQ, "<=", line}, nil
		}
		if l.peek() == '<' {
			l.advance()
			return Token{SHL, "<<", line}, nil
		}
		return Token{LESS, "<", line}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{GREATER_EQ, ">=", line}, nil
		}
		return Token{GREATER, ">", line}, nil
	case '=':
		if l.peek() == '=' { // lookahead: distinguish = vs ==
			l.advance()
			return Token{EQUALS, "==", line}, nil
		}
		return Token{ASSIGN, "=", line}, nil
	}
	return Token{Type: ILLEGAL, Lexeme: string(ch), Line: line},
		lexErrorf(line, "unexpected character %q", ch)
}

// Lex tokenises src and returns all tokens including the final EOF token.
// On the first lexical error it returns the tokens scanned so far, ending in
// an ILLEGAL token when the offending character is known, and a
// *LexicalError.
func Lex(src string) ([]Token, error) {
	l := newLexer(src)
	var tokens []Token
	for {
		tok, err := l.nextToken()
		if err != nil {
			if tok.Type == ILLEGAL {
				tokens = append(tokens, tok)
			}
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
